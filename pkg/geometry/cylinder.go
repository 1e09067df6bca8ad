package geometry

import (
	"math"

	"github.com/df07/go-kd-pathtracer/pkg/core"
)

// Cylinder is an open tube around the Z axis between Z0 and Z1.
type Cylinder struct {
	Radius   float64
	Z0, Z1   float64
	Material core.Material
}

// NewCylinder creates a tube of the given radius between z0 and z1
func NewCylinder(radius, z0, z1 float64, material core.Material) *Cylinder {
	return &Cylinder{Radius: radius, Z0: z0, Z1: z1, Material: material}
}

// NewTransformedCylinder creates a tube whose axis runs from v0 to v1.
func NewTransformedCylinder(v0, v1 core.Vec3, radius float64, material core.Material) core.Shape {
	up := core.NewVec3(0, 0, 1)
	d := v1.Subtract(v0)
	z := d.Length()
	a := math.Acos(core.Clamp(d.Normalize().Dot(up), -1, 1))
	m := core.Translate(v0)
	if a != 0 {
		axis := up.Cross(d)
		if axis.LengthSquared() == 0 {
			axis = core.NewVec3(1, 0, 0)
		}
		m = core.Rotate(axis, a).Translate(v0)
	}
	return NewTransformedShape(NewCylinder(radius, 0, z, material), m)
}

func (c *Cylinder) BoundingBox() core.AABB {
	r := c.Radius
	return core.NewAABB(core.NewVec3(-r, -r, c.Z0), core.NewVec3(r, r, c.Z1))
}

func (c *Cylinder) Intersect(ray core.Ray) core.Hit {
	r := c.Radius
	o := ray.Origin
	d := ray.Direction
	a := d.X*d.X + d.Y*d.Y
	b := 2*o.X*d.X + 2*o.Y*d.Y
	cc := o.X*o.X + o.Y*o.Y - r*r
	q := b*b - 4*a*cc
	if q < core.EPS {
		return core.NoHit
	}
	s := math.Sqrt(q)
	t0 := (-b + s) / (2 * a)
	t1 := (-b - s) / (2 * a)
	if t0 > t1 {
		t0, t1 = t1, t0
	}
	z0 := o.Z + t0*d.Z
	z1 := o.Z + t1*d.Z
	if t0 > core.EPS && c.Z0 < z0 && z0 < c.Z1 {
		return core.Hit{Shape: c, T: t0}
	}
	if t1 > core.EPS && c.Z0 < z1 && z1 < c.Z1 {
		return core.Hit{Shape: c, T: t1}
	}
	return core.NoHit
}

func (c *Cylinder) UV(p core.Vec3) core.Vec3 {
	return p
}

func (c *Cylinder) MaterialAt(core.Vec3) core.Material {
	return c.Material
}

func (c *Cylinder) NormalAt(p core.Vec3) core.Vec3 {
	return core.NewVec3(p.X, p.Y, 0).Normalize()
}
