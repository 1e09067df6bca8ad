package geometry

import (
	"github.com/df07/go-kd-pathtracer/pkg/core"
)

// TransformedShape places a shape in the world through an affine matrix.
type TransformedShape struct {
	Shape   core.Shape
	Matrix  core.Matrix
	Inverse core.Matrix
}

// NewTransformedShape wraps s with the transform m
func NewTransformedShape(s core.Shape, m core.Matrix) *TransformedShape {
	return &TransformedShape{Shape: s, Matrix: m, Inverse: m.Inverse()}
}

// Compile compiles the wrapped shape
func (s *TransformedShape) Compile() {
	if c, ok := s.Shape.(core.Compiler); ok {
		c.Compile()
	}
}

func (s *TransformedShape) BoundingBox() core.AABB {
	return s.Matrix.MulBox(s.Shape.BoundingBox())
}

// Intersect traces the ray in the shape's own space and returns a hit whose
// shading context is already resolved in world space.
func (s *TransformedShape) Intersect(r core.Ray) core.Hit {
	shapeRay := s.Inverse.MulRay(r)
	hit := s.Shape.Intersect(shapeRay)
	if !hit.Ok() {
		return hit
	}
	shape := hit.Shape
	shapePosition := shapeRay.At(hit.T)
	shapeNormal := shape.NormalAt(shapePosition)
	position := s.Matrix.MulPosition(shapePosition)
	normal := s.Inverse.Transpose().MulDirection(shapeNormal)
	material := core.ResolveMaterial(shape, shapePosition)

	inside := false
	if shapeNormal.Dot(shapeRay.Direction) > 0 {
		normal = normal.Negate()
		inside = true
		if is, ok := shape.(core.InsideSuppressor); ok && is.SuppressesInside() {
			inside = false
		}
	}

	t := position.Subtract(r.Origin).Length() / r.Direction.Length()
	return core.Hit{
		Shape: s,
		T:     t,
		HitInfo: &core.HitInfo{
			Shape:    shape,
			Position: position,
			Normal:   normal,
			Ray:      core.NewRay(position, normal),
			Material: material,
			Inside:   inside,
		},
	}
}

func (s *TransformedShape) UV(p core.Vec3) core.Vec3 {
	return s.Shape.UV(s.Inverse.MulPosition(p))
}

func (s *TransformedShape) NormalAt(p core.Vec3) core.Vec3 {
	n := s.Shape.NormalAt(s.Inverse.MulPosition(p))
	return s.Inverse.Transpose().MulDirection(n)
}

func (s *TransformedShape) MaterialAt(p core.Vec3) core.Material {
	return s.Shape.MaterialAt(s.Inverse.MulPosition(p))
}
