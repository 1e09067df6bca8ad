package geometry

import (
	"math"

	"github.com/df07/go-kd-pathtracer/pkg/core"
)

// SDF is a signed distance function: negative inside, positive outside.
type SDF interface {
	Evaluate(p core.Vec3) float64
	BoundingBox() core.AABB
}

const (
	sdfEpsilon  = 1e-5
	sdfStart    = 1e-4
	sdfJumpSize = 1e-3
	sdfMaxSteps = 1000
)

// SDFShape sphere-traces an implicit surface.
type SDFShape struct {
	SDF
	Material core.Material
}

// NewSDFShape wraps an SDF as a shape
func NewSDFShape(sdf SDF, material core.Material) *SDFShape {
	return &SDFShape{SDF: sdf, Material: material}
}

// Intersect marches the ray through the bounding box. A ray that starts
// inside the volume marches on the negated field. A ray starting within the
// box takes steps of at least sdfJumpSize until it clears the surface it
// may have started on.
func (s *SDFShape) Intersect(r core.Ray) core.Hit {
	t1, t2 := s.BoundingBox().Intersect(r)
	if t2 < t1 || t2 < 0 {
		return core.NoHit
	}
	t := math.Max(sdfStart, t1)
	sign := 1.0
	if s.Evaluate(r.At(t)) < 0 {
		sign = -1
	}
	leaving := t1 < sdfStart
	for i := 0; i < sdfMaxSteps; i++ {
		d := sign * s.Evaluate(r.At(t))
		if d < 0 {
			return core.Hit{Shape: s, T: t}
		}
		if d >= sdfJumpSize {
			leaving = false
		}
		if !leaving && d < sdfEpsilon {
			return core.Hit{Shape: s, T: t}
		}
		if leaving && d < sdfJumpSize {
			d = sdfJumpSize
		}
		t += d
		if t > t2 {
			return core.NoHit
		}
	}
	return core.NoHit
}

func (s *SDFShape) UV(core.Vec3) core.Vec3 {
	return core.Vec3{}
}

// NormalAt estimates the gradient by central differences
func (s *SDFShape) NormalAt(p core.Vec3) core.Vec3 {
	const e = 1e-4
	x, y, z := p.X, p.Y, p.Z
	n := core.NewVec3(
		s.Evaluate(core.NewVec3(x+e, y, z))-s.Evaluate(core.NewVec3(x-e, y, z)),
		s.Evaluate(core.NewVec3(x, y+e, z))-s.Evaluate(core.NewVec3(x, y-e, z)),
		s.Evaluate(core.NewVec3(x, y, z+e))-s.Evaluate(core.NewVec3(x, y, z-e)),
	)
	return n.Normalize()
}

func (s *SDFShape) MaterialAt(core.Vec3) core.Material {
	return s.Material
}

// SuppressesInside reports that implicit surfaces have no inside side
func (s *SDFShape) SuppressesInside() bool {
	return true
}

// SphereSDF is a sphere at the origin
type SphereSDF struct {
	Radius float64
}

func NewSphereSDF(radius float64) SDF {
	return &SphereSDF{Radius: radius}
}

func (s *SphereSDF) Evaluate(p core.Vec3) float64 {
	return p.Length() - s.Radius
}

func (s *SphereSDF) BoundingBox() core.AABB {
	r := s.Radius
	return core.NewAABB(core.NewVec3(-r, -r, -r), core.NewVec3(r, r, r))
}

// CubeSDF is a box of the given size centered on the origin
type CubeSDF struct {
	Size core.Vec3
}

func NewCubeSDF(size core.Vec3) SDF {
	return &CubeSDF{Size: size}
}

func (s *CubeSDF) Evaluate(p core.Vec3) float64 {
	q := p.Abs().Subtract(s.Size.Multiply(0.5))
	outside := q.Max(core.Vec3{}).Length()
	inside := math.Min(q.MaxComponent(), 0)
	return outside + inside
}

func (s *CubeSDF) BoundingBox() core.AABB {
	h := s.Size.Multiply(0.5)
	return core.NewAABB(h.Negate(), h)
}

// TorusSDF is a ring in the XY plane
type TorusSDF struct {
	MajorRadius float64
	MinorRadius float64
}

func NewTorusSDF(major, minor float64) SDF {
	return &TorusSDF{MajorRadius: major, MinorRadius: minor}
}

func (s *TorusSDF) Evaluate(p core.Vec3) float64 {
	q := math.Hypot(p.X, p.Y) - s.MajorRadius
	return math.Hypot(q, p.Z) - s.MinorRadius
}

func (s *TorusSDF) BoundingBox() core.AABB {
	a := s.MajorRadius + s.MinorRadius
	b := s.MinorRadius
	return core.NewAABB(core.NewVec3(-a, -a, -b), core.NewVec3(a, a, b))
}

// CapsuleSDF is a segment from A to B swept by Radius
type CapsuleSDF struct {
	A, B   core.Vec3
	Radius float64
}

func NewCapsuleSDF(a, b core.Vec3, radius float64) SDF {
	return &CapsuleSDF{A: a, B: b, Radius: radius}
}

func (s *CapsuleSDF) Evaluate(p core.Vec3) float64 {
	pa := p.Subtract(s.A)
	ba := s.B.Subtract(s.A)
	h := core.Clamp(pa.Dot(ba)/ba.Dot(ba), 0, 1)
	return pa.Subtract(ba.Multiply(h)).Length() - s.Radius
}

func (s *CapsuleSDF) BoundingBox() core.AABB {
	r := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return core.NewAABB(s.A.Min(s.B).Subtract(r), s.A.Max(s.B).Add(r))
}

// TransformSDF places an SDF with an affine matrix. Distances are only
// exact for rigid transforms.
type TransformSDF struct {
	SDF
	Matrix  core.Matrix
	Inverse core.Matrix
}

func NewTransformSDF(sdf SDF, matrix core.Matrix) SDF {
	return &TransformSDF{SDF: sdf, Matrix: matrix, Inverse: matrix.Inverse()}
}

func (s *TransformSDF) Evaluate(p core.Vec3) float64 {
	return s.SDF.Evaluate(s.Inverse.MulPosition(p))
}

func (s *TransformSDF) BoundingBox() core.AABB {
	return s.Matrix.MulBox(s.SDF.BoundingBox())
}

// UnionSDF is the union of several fields
type UnionSDF struct {
	Items []SDF
}

func NewUnionSDF(items ...SDF) SDF {
	return &UnionSDF{Items: items}
}

func (s *UnionSDF) Evaluate(p core.Vec3) float64 {
	d := math.Inf(1)
	for _, item := range s.Items {
		d = math.Min(d, item.Evaluate(p))
	}
	return d
}

func (s *UnionSDF) BoundingBox() core.AABB {
	var box core.AABB
	for i, item := range s.Items {
		if i == 0 {
			box = item.BoundingBox()
			continue
		}
		box = box.Extend(item.BoundingBox())
	}
	return box
}

// IntersectionSDF keeps the volume shared by all fields
type IntersectionSDF struct {
	Items []SDF
}

func NewIntersectionSDF(items ...SDF) SDF {
	return &IntersectionSDF{Items: items}
}

func (s *IntersectionSDF) Evaluate(p core.Vec3) float64 {
	d := math.Inf(-1)
	for _, item := range s.Items {
		d = math.Max(d, item.Evaluate(p))
	}
	return d
}

func (s *IntersectionSDF) BoundingBox() core.AABB {
	var box core.AABB
	for i, item := range s.Items {
		b := item.BoundingBox()
		if i == 0 {
			box = b
			continue
		}
		box = core.NewAABB(box.Min.Max(b.Min), box.Max.Min(b.Max))
	}
	return box
}

// DifferenceSDF carves every other field out of the first
type DifferenceSDF struct {
	Items []SDF
}

func NewDifferenceSDF(items ...SDF) SDF {
	return &DifferenceSDF{Items: items}
}

func (s *DifferenceSDF) Evaluate(p core.Vec3) float64 {
	d := s.Items[0].Evaluate(p)
	for _, item := range s.Items[1:] {
		d = math.Max(d, -item.Evaluate(p))
	}
	return d
}

func (s *DifferenceSDF) BoundingBox() core.AABB {
	return s.Items[0].BoundingBox()
}
