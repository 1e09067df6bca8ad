package geometry

import (
	"github.com/df07/go-kd-pathtracer/pkg/core"
)

// Cube is a solid axis-aligned box.
type Cube struct {
	Min      core.Vec3
	Max      core.Vec3
	Material core.Material
}

// NewCube creates a box spanning min to max
func NewCube(min, max core.Vec3, material core.Material) *Cube {
	return &Cube{Min: min, Max: max, Material: material}
}

func (c *Cube) BoundingBox() core.AABB {
	return core.NewAABB(c.Min, c.Max)
}

// Intersect enters the box at its near slab; a ray starting inside hits the
// far slab.
func (c *Cube) Intersect(r core.Ray) core.Hit {
	t0, t1 := c.BoundingBox().Intersect(r)
	if t0 > t1 {
		return core.NoHit
	}
	if t0 > core.EPS {
		return core.Hit{Shape: c, T: t0}
	}
	if t1 > core.EPS {
		return core.Hit{Shape: c, T: t1}
	}
	return core.NoHit
}

// UV projects the point onto the XZ extent of the box
func (c *Cube) UV(p core.Vec3) core.Vec3 {
	p = p.Subtract(c.Min).DivideVec(c.Max.Subtract(c.Min))
	return core.NewVec3(p.X, p.Z, 0)
}

func (c *Cube) MaterialAt(core.Vec3) core.Material {
	return c.Material
}

// NormalAt picks the face the point lies on
func (c *Cube) NormalAt(p core.Vec3) core.Vec3 {
	switch {
	case p.X < c.Min.X+core.EPS:
		return core.NewVec3(-1, 0, 0)
	case p.X > c.Max.X-core.EPS:
		return core.NewVec3(1, 0, 0)
	case p.Y < c.Min.Y+core.EPS:
		return core.NewVec3(0, -1, 0)
	case p.Y > c.Max.Y-core.EPS:
		return core.NewVec3(0, 1, 0)
	case p.Z < c.Min.Z+core.EPS:
		return core.NewVec3(0, 0, -1)
	case p.Z > c.Max.Z-core.EPS:
		return core.NewVec3(0, 0, 1)
	}
	return core.NewVec3(0, 1, 0)
}

// Mesh converts the cube into twelve triangles
func (c *Cube) Mesh() *Mesh {
	a, b := c.Min, c.Max
	m := c.Material
	v000 := core.NewVec3(a.X, a.Y, a.Z)
	v001 := core.NewVec3(a.X, a.Y, b.Z)
	v010 := core.NewVec3(a.X, b.Y, a.Z)
	v011 := core.NewVec3(a.X, b.Y, b.Z)
	v100 := core.NewVec3(b.X, a.Y, a.Z)
	v101 := core.NewVec3(b.X, a.Y, b.Z)
	v110 := core.NewVec3(b.X, b.Y, a.Z)
	v111 := core.NewVec3(b.X, b.Y, b.Z)
	triangles := []*Triangle{
		NewTriangle(v000, v100, v110, m),
		NewTriangle(v000, v110, v010, m),
		NewTriangle(v001, v101, v111, m),
		NewTriangle(v001, v111, v011, m),
		NewTriangle(v000, v100, v101, m),
		NewTriangle(v000, v101, v001, m),
		NewTriangle(v010, v110, v111, m),
		NewTriangle(v010, v111, v011, m),
		NewTriangle(v000, v010, v011, m),
		NewTriangle(v000, v011, v001, m),
		NewTriangle(v100, v110, v111, m),
		NewTriangle(v100, v111, v101, m),
	}
	return NewMesh(triangles)
}
