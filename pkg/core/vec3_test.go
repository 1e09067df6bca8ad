package core

import (
	"math"
	"testing"
)

func vecNear(a, b Vec3, tol float64) bool {
	return math.Abs(a.X-b.X) < tol && math.Abs(a.Y-b.Y) < tol && math.Abs(a.Z-b.Z) < tol
}

func TestVec3_ReflectTwiceIsIdentity(t *testing.T) {
	normals := []Vec3{
		NewVec3(0, 1, 0),
		NewVec3(1, 1, 0).Normalize(),
		NewVec3(-0.3, 0.5, 0.8).Normalize(),
	}
	incident := []Vec3{
		NewVec3(1, -1, 0).Normalize(),
		NewVec3(0.2, -0.9, 0.1).Normalize(),
	}
	for _, n := range normals {
		for _, i := range incident {
			r := n.Reflect(n.Reflect(i))
			if !vecNear(r, i, 1e-12) {
				t.Errorf("Reflect twice about %v: got %v, want %v", n, r, i)
			}
		}
	}
}

func TestVec3_Refract(t *testing.T) {
	n := NewVec3(0, 1, 0)

	tests := []struct {
		name     string
		incident Vec3
		n1, n2   float64
		zero     bool
	}{
		{"Normal incidence into glass", NewVec3(0, -1, 0), 1, 1.5, false},
		{"Oblique into glass", NewVec3(1, -1, 0).Normalize(), 1, 1.5, false},
		{"Total internal reflection", NewVec3(1, -0.2, 0).Normalize(), 1.5, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := n.Refract(tt.incident, tt.n1, tt.n2)
			if tt.zero {
				if r != (Vec3{}) {
					t.Errorf("Expected zero vector, got %v", r)
				}
				if got := n.Reflectance(tt.incident, tt.n1, tt.n2); got != 1 {
					t.Errorf("Expected reflectance 1 under total internal reflection, got %f", got)
				}
				return
			}
			if !r.IsFinite() {
				t.Fatalf("Refraction produced %v", r)
			}
			// Snell: n1 sin(i) = n2 sin(t)
			sinI := n.Cross(tt.incident).Length()
			sinT := n.Cross(r.Normalize()).Length()
			if math.Abs(tt.n1*sinI-tt.n2*sinT) > 1e-9 {
				t.Errorf("Snell's law violated: %f vs %f", tt.n1*sinI, tt.n2*sinT)
			}
		})
	}

	// At normal incidence the ray continues undeviated
	r := n.Refract(NewVec3(0, -1, 0), 1, 1.5)
	if r.Cross(NewVec3(0, -1, 0)).Length() > 1e-12 || r.Y >= 0 {
		t.Errorf("Expected an undeviated ray at normal incidence, got %v", r)
	}
}

func TestVec3_RefractReciprocity(t *testing.T) {
	n := NewVec3(0, 1, 0)
	i := NewVec3(0.6, -0.8, 0)
	r := n.Refract(i, 1, 1.5).Normalize()

	// Going back out through the same surface recovers the original direction
	back := n.Negate().Refract(r.Negate(), 1.5, 1).Normalize()
	if !vecNear(back, i.Negate(), 1e-9) {
		t.Errorf("Expected %v, got %v", i.Negate(), back)
	}
}

func TestVec3_Reflectance(t *testing.T) {
	n := NewVec3(0, 1, 0)
	// Normal incidence on glass: ((n1-n2)/(n1+n2))^2 = 0.04
	got := n.Reflectance(NewVec3(0, -1, 0), 1, 1.5)
	if math.Abs(got-0.04) > 1e-12 {
		t.Errorf("Expected 0.04, got %f", got)
	}
	// Matching indices reflect nothing
	if got := n.Reflectance(NewVec3(1, -1, 0).Normalize(), 1, 1); got > 1e-12 {
		t.Errorf("Expected no reflectance between equal indices, got %f", got)
	}
}

func TestVec3_MixAndComponents(t *testing.T) {
	a := NewVec3(0, 0, 0)
	b := NewVec3(2, 4, 6)
	if got := a.Mix(b, 0.5); got != NewVec3(1, 2, 3) {
		t.Errorf("Expected midpoint, got %v", got)
	}
	if b.MaxComponent() != 6 || b.MinComponent() != 2 || b.Average() != 4 {
		t.Errorf("Unexpected component reductions for %v", b)
	}
	if b.Component(AxisY) != 4 {
		t.Errorf("Expected Y component 4")
	}
	if NewVec3(math.NaN(), 0, 0).IsFinite() || NewVec3(math.Inf(1), 0, 0).IsFinite() {
		t.Error("Expected NaN and Inf to be reported as non-finite")
	}
}

func TestHexColor(t *testing.T) {
	if c := HexColor(0xFFFFFF); !vecNear(c, NewVec3(1, 1, 1), 1e-12) {
		t.Errorf("HexColor(white) = %v", c)
	}
	if c := HexColor(0x000000); c != (Vec3{}) {
		t.Errorf("HexColor(black) = %v", c)
	}
	c := HexColor(0x800000)
	want := math.Pow(128.0/255, 2.2)
	if math.Abs(c.X-want) > 1e-12 || c.Y != 0 || c.Z != 0 {
		t.Errorf("HexColor(0x800000) = %v, want (%v, 0, 0)", c, want)
	}
}
