package core

import "github.com/go-gl/mathgl/mgl64"

// Matrix is an affine 4x4 transform.
type Matrix struct {
	m mgl64.Mat4
}

// Identity returns the identity transform
func Identity() Matrix {
	return Matrix{mgl64.Ident4()}
}

// NewMatrix builds a matrix from its rows.
func NewMatrix(
	x00, x01, x02, x03,
	x10, x11, x12, x13,
	x20, x21, x22, x23,
	x30, x31, x32, x33 float64) Matrix {
	return Matrix{mgl64.Mat4FromRows(
		mgl64.Vec4{x00, x01, x02, x03},
		mgl64.Vec4{x10, x11, x12, x13},
		mgl64.Vec4{x20, x21, x22, x23},
		mgl64.Vec4{x30, x31, x32, x33},
	)}
}

// Translate returns a translation by v
func Translate(v Vec3) Matrix {
	return Matrix{mgl64.Translate3D(v.X, v.Y, v.Z)}
}

// Scale returns a scale by v
func Scale(v Vec3) Matrix {
	return Matrix{mgl64.Scale3D(v.X, v.Y, v.Z)}
}

// Rotate returns a right-handed rotation of angle radians about axis
func Rotate(axis Vec3, angle float64) Matrix {
	axis = axis.Normalize()
	return Matrix{mgl64.HomogRotate3D(angle, toMgl(axis))}
}

// Translate applies a translation after a
func (a Matrix) Translate(v Vec3) Matrix {
	return Translate(v).Mul(a)
}

// Scale applies a scale after a
func (a Matrix) Scale(v Vec3) Matrix {
	return Scale(v).Mul(a)
}

// Rotate applies a rotation after a
func (a Matrix) Rotate(axis Vec3, angle float64) Matrix {
	return Rotate(axis, angle).Mul(a)
}

// Mul returns a·b, which applies b first
func (a Matrix) Mul(b Matrix) Matrix {
	return Matrix{a.m.Mul4(b.m)}
}

// Inverse returns the inverse transform
func (a Matrix) Inverse() Matrix {
	return Matrix{a.m.Inv()}
}

// Transpose returns the transposed matrix
func (a Matrix) Transpose() Matrix {
	return Matrix{a.m.Transpose()}
}

// At returns the element in row i and column j
func (a Matrix) At(i, j int) float64 {
	return a.m.At(i, j)
}

// MulPosition transforms a point
func (a Matrix) MulPosition(v Vec3) Vec3 {
	return fromMgl(mgl64.TransformCoordinate(toMgl(v), a.m))
}

// MulDirection transforms a direction and normalizes it
func (a Matrix) MulDirection(v Vec3) Vec3 {
	return fromMgl(mgl64.TransformNormal(toMgl(v), a.m)).Normalize()
}

// MulRay transforms both ends of a ray
func (a Matrix) MulRay(r Ray) Ray {
	return Ray{a.MulPosition(r.Origin), a.MulDirection(r.Direction)}
}

// MulBox returns the axis-aligned bounds of the transformed box.
func (a Matrix) MulBox(box AABB) AABB {
	r := fromMgl(a.m.Col(0).Vec3())
	u := fromMgl(a.m.Col(1).Vec3())
	b := fromMgl(a.m.Col(2).Vec3())
	t := fromMgl(a.m.Col(3).Vec3())
	xa := r.Multiply(box.Min.X)
	xb := r.Multiply(box.Max.X)
	ya := u.Multiply(box.Min.Y)
	yb := u.Multiply(box.Max.Y)
	za := b.Multiply(box.Min.Z)
	zb := b.Multiply(box.Max.Z)
	xa, xb = xa.Min(xb), xa.Max(xb)
	ya, yb = ya.Min(yb), ya.Max(yb)
	za, zb = za.Min(zb), za.Max(zb)
	min := xa.Add(ya).Add(za).Add(t)
	max := xb.Add(yb).Add(zb).Add(t)
	return AABB{min, max}
}

func toMgl(v Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func fromMgl(v mgl64.Vec3) Vec3 {
	return Vec3{v[0], v[1], v[2]}
}
