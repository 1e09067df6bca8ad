package geometry

import (
	"math"

	"github.com/df07/go-kd-pathtracer/pkg/core"
)

// Plane is an infinite plane through Point facing Normal.
type Plane struct {
	Point    core.Vec3
	Normal   core.Vec3
	Material core.Material
}

// NewPlane creates a plane; the normal is normalized.
func NewPlane(point, normal core.Vec3, material core.Material) *Plane {
	return &Plane{Point: point, Normal: normal.Normalize(), Material: material}
}

// BoundingBox returns a box of Huge extent
func (p *Plane) BoundingBox() core.AABB {
	return core.NewAABB(
		core.NewVec3(-core.Huge, -core.Huge, -core.Huge),
		core.NewVec3(core.Huge, core.Huge, core.Huge),
	)
}

func (p *Plane) Intersect(r core.Ray) core.Hit {
	d := p.Normal.Dot(r.Direction)
	if math.Abs(d) < core.EPS {
		return core.NoHit
	}
	t := p.Point.Subtract(r.Origin).Dot(p.Normal) / d
	if t < core.EPS {
		return core.NoHit
	}
	return core.Hit{Shape: p, T: t}
}

func (p *Plane) NormalAt(core.Vec3) core.Vec3 {
	return p.Normal
}

func (p *Plane) UV(core.Vec3) core.Vec3 {
	return core.Vec3{}
}

func (p *Plane) MaterialAt(core.Vec3) core.Material {
	return p.Material
}
