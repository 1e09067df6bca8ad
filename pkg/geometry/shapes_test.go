package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-kd-pathtracer/pkg/core"
)

func TestPlane_Intersect(t *testing.T) {
	plane := NewPlane(core.NewVec3(0, -1, 0), core.NewVec3(0, 2, 0), core.Material{})

	tests := []struct {
		name string
		ray  core.Ray
		hit  bool
		t    float64
	}{
		{"straight down", core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0)), true, 2},
		{"parallel", core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(1, 0, 0)), false, 0},
		{"pointing away", core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0)), false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit := plane.Intersect(tt.ray)
			if hit.Ok() != tt.hit {
				t.Fatalf("Expected hit=%v, got t=%f", tt.hit, hit.T)
			}
			if tt.hit && math.Abs(hit.T-tt.t) > 1e-9 {
				t.Errorf("Expected t=%f, got %f", tt.t, hit.T)
			}
		})
	}
	if plane.NormalAt(core.Vec3{}) != core.NewVec3(0, 1, 0) {
		t.Error("Expected normalized plane normal")
	}
}

func TestCube_IntersectAndNormals(t *testing.T) {
	cube := NewCube(core.NewVec3(-1, -1, -1), core.NewVec3(1, 1, 1), core.Material{})

	tests := []struct {
		name   string
		ray    core.Ray
		t      float64
		normal core.Vec3
	}{
		{"+x face", core.NewRay(core.NewVec3(5, 0, 0), core.NewVec3(-1, 0, 0)), 4, core.NewVec3(1, 0, 0)},
		{"-y face", core.NewRay(core.NewVec3(0, -3, 0), core.NewVec3(0, 1, 0)), 2, core.NewVec3(0, -1, 0)},
		{"from inside", core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1)), 1, core.NewVec3(0, 0, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit := cube.Intersect(tt.ray)
			if !hit.Ok() || math.Abs(hit.T-tt.t) > 1e-9 {
				t.Fatalf("Expected hit at %f, got %f", tt.t, hit.T)
			}
			if n := cube.NormalAt(tt.ray.At(hit.T)); n != tt.normal {
				t.Errorf("Expected normal %v, got %v", tt.normal, n)
			}
		})
	}

	if hit := cube.Intersect(core.NewRay(core.NewVec3(5, 5, 0), core.NewVec3(1, 0, 0))); hit.Ok() {
		t.Error("Expected miss")
	}

	mesh := cube.Mesh()
	if len(mesh.Triangles) != 12 {
		t.Errorf("Expected 12 triangles, got %d", len(mesh.Triangles))
	}
}

func TestCylinder_Intersect(t *testing.T) {
	cyl := NewCylinder(1, 0, 2, core.Material{})
	ray := core.NewRay(core.NewVec3(-5, 0, 1), core.NewVec3(1, 0, 0))
	hit := cyl.Intersect(ray)
	if !hit.Ok() || math.Abs(hit.T-4) > 1e-9 {
		t.Fatalf("Expected hit at 4, got %f", hit.T)
	}
	if n := cyl.NormalAt(ray.At(hit.T)); !vecNear(n, core.NewVec3(-1, 0, 0), 1e-9) {
		t.Errorf("Expected normal (-1,0,0), got %v", n)
	}

	// Above the caps
	if hit := cyl.Intersect(core.NewRay(core.NewVec3(-5, 0, 3), core.NewVec3(1, 0, 0))); hit.Ok() {
		t.Error("Expected miss above the tube")
	}
}

func TestTransformedCylinder(t *testing.T) {
	shape := NewTransformedCylinder(core.NewVec3(0, 0, 0), core.NewVec3(0, 4, 0), 1, core.Material{})
	box := shape.BoundingBox()
	if !vecNear(box.Min, core.NewVec3(-1, 0, -1), 1e-9) || !vecNear(box.Max, core.NewVec3(1, 4, 1), 1e-9) {
		t.Errorf("Expected tube along Y, got box %+v", box)
	}

	ray := core.NewRay(core.NewVec3(-5, 2, 0), core.NewVec3(1, 0, 0))
	hit := shape.Intersect(ray)
	if !hit.Ok() || math.Abs(hit.T-4) > 1e-9 {
		t.Fatalf("Expected world-space hit at 4, got %f", hit.T)
	}
	info := hit.Info(ray)
	if !vecNear(info.Position, core.NewVec3(-1, 2, 0), 1e-9) {
		t.Errorf("Expected world position (-1,2,0), got %v", info.Position)
	}
	if !vecNear(info.Normal, core.NewVec3(-1, 0, 0), 1e-9) {
		t.Errorf("Expected world normal (-1,0,0), got %v", info.Normal)
	}
	if hit.Shape != shape {
		t.Error("Expected the hit to report the transformed shape")
	}
}

func TestTriangle_Intersect(t *testing.T) {
	tri := NewTexturedTriangle(
		core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0),
		core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0),
		core.Material{})

	ray := core.NewRay(core.NewVec3(0.25, 0.25, 1), core.NewVec3(0, 0, -1))
	hit := tri.Intersect(ray)
	if !hit.Ok() || math.Abs(hit.T-1) > 1e-9 {
		t.Fatalf("Expected hit at 1, got %f", hit.T)
	}
	p := ray.At(hit.T)
	if n := tri.NormalAt(p); !vecNear(n, core.NewVec3(0, 0, 1), 1e-9) {
		t.Errorf("Expected face normal (0,0,1), got %v", n)
	}
	if uv := tri.UV(p); !vecNear(uv, core.NewVec3(0.25, 0.25, 0), 1e-9) {
		t.Errorf("Expected uv (0.25,0.25), got %v", uv)
	}

	if hit := tri.Intersect(core.NewRay(core.NewVec3(0.9, 0.9, 1), core.NewVec3(0, 0, -1))); hit.Ok() {
		t.Error("Expected miss outside the triangle")
	}

	degenerate := NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1), core.NewVec3(2, 2, 2), core.Material{})
	if hit := degenerate.Intersect(core.NewRay(core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0))); hit.Ok() {
		t.Error("Expected degenerate triangle never to hit")
	}
}

func TestMesh_CompileAndFit(t *testing.T) {
	mesh := NewCube(core.NewVec3(0, 0, 0), core.NewVec3(2, 4, 2), core.Material{}).Mesh()

	ray := core.NewRay(core.NewVec3(1, 2, 10), core.NewVec3(0, 0, -1))
	if hit := mesh.Intersect(ray); hit.Ok() {
		t.Error("Expected an uncompiled mesh never to hit")
	}

	mesh.UnitCube()
	box := mesh.BoundingBox()
	if !vecNear(box.Center(), core.Vec3{}, 1e-9) {
		t.Errorf("Expected mesh centered on the origin, got %v", box.Center())
	}
	if math.Abs(box.Size().MaxComponent()-1) > 1e-9 {
		t.Errorf("Expected largest extent 1, got %v", box.Size())
	}

	mesh.Compile()
	hit := mesh.Intersect(core.NewRay(core.NewVec3(0.1, 0.2, 10), core.NewVec3(0, 0, -1)))
	if !hit.Ok() || math.Abs(hit.T-9.75) > 1e-9 {
		t.Fatalf("Expected hit on the front face at 9.75, got %f", hit.T)
	}
	if _, ok := hit.Shape.(*Triangle); !ok {
		t.Error("Expected mesh hits to resolve to triangles")
	}
}

func TestSDFShape(t *testing.T) {
	shape := NewSDFShape(NewSphereSDF(1), core.Material{})
	ray := core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1))
	hit := shape.Intersect(ray)
	if !hit.Ok() || math.Abs(hit.T-4) > 1e-3 {
		t.Fatalf("Expected hit near 4, got %f", hit.T)
	}
	if n := shape.NormalAt(ray.At(hit.T)); !vecNear(n, core.NewVec3(0, 0, 1), 1e-3) {
		t.Errorf("Expected normal (0,0,1), got %v", n)
	}

	inside := core.NewRay(core.Vec3{}, core.NewVec3(0, 0, 1))
	h := shape.Intersect(inside)
	if !h.Ok() {
		t.Fatal("Expected a hit leaving the sphere")
	}
	if info := h.Info(inside); info.Inside {
		t.Error("Expected implicit surfaces never to report inside hits")
	}

	carved := NewSDFShape(NewDifferenceSDF(NewCubeSDF(core.NewVec3(2, 2, 2)), NewSphereSDF(1.2)), core.Material{})
	// The sphere removes the middle of every face
	if hit := carved.Intersect(core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1))); hit.Ok() && hit.T < 4.1 {
		t.Errorf("Expected the carved face to be skipped, got t=%f", hit.T)
	}
}

func TestTransformedShape_InsideHits(t *testing.T) {
	m := core.Scale(core.NewVec3(2, 2, 2)).Translate(core.NewVec3(0, 0, -3))
	ray := core.NewRay(core.NewVec3(0, 0, -3), core.NewVec3(0, 0, 1))

	tests := []struct {
		name   string
		shape  core.Shape
		inside bool
	}{
		{"sphere", NewSphere(core.Vec3{}, 1, core.Material{}), true},
		{"implicit sphere", NewSDFShape(NewSphereSDF(1), core.Material{}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shape := NewTransformedShape(tt.shape, m)
			hit := shape.Intersect(ray)
			if !hit.Ok() {
				t.Fatal("Expected a hit leaving the shape")
			}
			if math.Abs(hit.T-2) > 1e-3 {
				t.Errorf("Expected hit near 2, got %f", hit.T)
			}
			info := hit.Info(ray)
			if info.Inside != tt.inside {
				t.Errorf("Expected inside=%v, got %v", tt.inside, info.Inside)
			}
			if !vecNear(info.Normal, core.NewVec3(0, 0, -1), 1e-3) {
				t.Errorf("Expected normal facing the ray, got %v", info.Normal)
			}
		})
	}
}
