package geometry

import (
	"math"

	"github.com/df07/go-kd-pathtracer/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material core.Material
	box      core.AABB
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, material core.Material) *Sphere {
	r := core.NewVec3(radius, radius, radius)
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: material,
		box:      core.NewAABB(center.Subtract(r), center.Add(r)),
	}
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() core.AABB {
	return s.box
}

// Intersect returns the nearest root of the ray-sphere quadratic beyond EPS.
// Directions are assumed normalized.
func (s *Sphere) Intersect(r core.Ray) core.Hit {
	to := r.Origin.Subtract(s.Center)
	b := to.Dot(r.Direction)
	c := to.Dot(to) - s.Radius*s.Radius
	d := b*b - c
	if d > 0 {
		d = math.Sqrt(d)
		if t1 := -b - d; t1 > core.EPS {
			return core.Hit{Shape: s, T: t1}
		}
		if t2 := -b + d; t2 > core.EPS {
			return core.Hit{Shape: s, T: t2}
		}
	}
	return core.NoHit
}

// UV maps the point to longitude and latitude in [0, 1]
func (s *Sphere) UV(p core.Vec3) core.Vec3 {
	p = p.Subtract(s.Center)
	u := math.Atan2(p.Z, p.X)
	v := math.Atan2(p.Y, core.NewVec3(p.X, 0, p.Z).Length())
	u = 1 - (u+math.Pi)/(2*math.Pi)
	v = (v + math.Pi/2) / math.Pi
	return core.NewVec3(u, v, 0)
}

func (s *Sphere) MaterialAt(p core.Vec3) core.Material {
	return s.Material
}

func (s *Sphere) NormalAt(p core.Vec3) core.Vec3 {
	return p.Subtract(s.Center).Normalize()
}

// AsSphere exposes the exact center and radius for light sampling
func (s *Sphere) AsSphere() (core.Vec3, float64) {
	return s.Center, s.Radius
}
