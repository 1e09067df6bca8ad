package geometry

import (
	"github.com/df07/go-kd-pathtracer/pkg/core"
)

// Triangle is a single face with per-vertex normals and texture coordinates.
type Triangle struct {
	V1, V2, V3 core.Vec3
	N1, N2, N3 core.Vec3
	T1, T2, T3 core.Vec3
	Material   core.Material
}

// NewTriangle creates a flat-shaded triangle without texture coordinates
func NewTriangle(v1, v2, v3 core.Vec3, material core.Material) *Triangle {
	return NewTexturedTriangle(v1, v2, v3, core.Vec3{}, core.Vec3{}, core.Vec3{}, material)
}

// NewTexturedTriangle creates a flat-shaded triangle with texture coordinates
func NewTexturedTriangle(v1, v2, v3, t1, t2, t3 core.Vec3, material core.Material) *Triangle {
	t := &Triangle{V1: v1, V2: v2, V3: v3, T1: t1, T2: t2, T3: t3, Material: material}
	t.FixNormals()
	return t
}

// FixNormals replaces missing vertex normals with the face normal
func (t *Triangle) FixNormals() {
	n := t.Normal()
	zero := core.Vec3{}
	if t.N1 == zero {
		t.N1 = n
	}
	if t.N2 == zero {
		t.N2 = n
	}
	if t.N3 == zero {
		t.N3 = n
	}
}

// Normal returns the face normal following the winding order
func (t *Triangle) Normal() core.Vec3 {
	e1 := t.V2.Subtract(t.V1)
	e2 := t.V3.Subtract(t.V1)
	return e1.Cross(e2).Normalize()
}

// Area returns the surface area of the face
func (t *Triangle) Area() float64 {
	e1 := t.V2.Subtract(t.V1)
	e2 := t.V3.Subtract(t.V1)
	return e1.Cross(e2).Length() / 2
}

func (t *Triangle) BoundingBox() core.AABB {
	return core.NewAABB(t.V1.Min(t.V2).Min(t.V3), t.V1.Max(t.V2).Max(t.V3))
}

// Intersect is the Möller-Trumbore test. Degenerate triangles never hit.
func (t *Triangle) Intersect(r core.Ray) core.Hit {
	e1 := t.V2.Subtract(t.V1)
	e2 := t.V3.Subtract(t.V1)
	p := r.Direction.Cross(e2)
	det := e1.Dot(p)
	if det > -core.EPS && det < core.EPS {
		return core.NoHit
	}
	inv := 1 / det
	tv := r.Origin.Subtract(t.V1)
	u := tv.Dot(p) * inv
	if u < 0 || u > 1 {
		return core.NoHit
	}
	q := tv.Cross(e1)
	v := r.Direction.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return core.NoHit
	}
	d := e2.Dot(q) * inv
	if d < core.EPS {
		return core.NoHit
	}
	return core.Hit{Shape: t, T: d}
}

// Barycentric returns the weights of V1, V2 and V3 at p
func (t *Triangle) Barycentric(p core.Vec3) (u, v, w float64) {
	v0 := t.V2.Subtract(t.V1)
	v1 := t.V3.Subtract(t.V1)
	v2 := p.Subtract(t.V1)
	d00 := v0.Dot(v0)
	d01 := v0.Dot(v1)
	d11 := v1.Dot(v1)
	d20 := v2.Dot(v0)
	d21 := v2.Dot(v1)
	d := d00*d11 - d01*d01
	v = (d11*d20 - d01*d21) / d
	w = (d00*d21 - d01*d20) / d
	u = 1 - v - w
	return u, v, w
}

func (t *Triangle) UV(p core.Vec3) core.Vec3 {
	u, v, w := t.Barycentric(p)
	n := t.T1.Multiply(u).Add(t.T2.Multiply(v)).Add(t.T3.Multiply(w))
	return core.NewVec3(n.X, n.Y, 0)
}

func (t *Triangle) MaterialAt(core.Vec3) core.Material {
	return t.Material
}

// NormalAt interpolates the vertex normals, then applies the normal map
// and bump map of the material when present.
func (t *Triangle) NormalAt(p core.Vec3) core.Vec3 {
	u, v, w := t.Barycentric(p)
	n := t.N1.Multiply(u).Add(t.N2.Multiply(v)).Add(t.N3.Multiply(w)).Normalize()

	if t.Material.NormalTexture == nil && t.Material.BumpTexture == nil {
		return n
	}

	uv := t.T1.Multiply(u).Add(t.T2.Multiply(v)).Add(t.T3.Multiply(w))
	tangent, bitangent := t.tangentFrame()

	if t.Material.NormalTexture != nil {
		ns := t.Material.NormalTexture.NormalSample(uv.X, uv.Y)
		normal := tangent.Cross(bitangent)
		mapped := tangent.Multiply(ns.X).Add(bitangent.Multiply(ns.Y)).Add(normal.Multiply(ns.Z))
		if mapped.IsFinite() && mapped.LengthSquared() > 0 {
			n = mapped.Normalize()
		}
	}
	if t.Material.BumpTexture != nil {
		bump := t.Material.BumpTexture.BumpSample(uv.X, uv.Y)
		n = n.Add(tangent.Multiply(bump.X * t.Material.BumpMultiplier))
		n = n.Add(bitangent.Multiply(bump.Y * t.Material.BumpMultiplier))
	}
	return n.Normalize()
}

// tangentFrame derives the tangent and bitangent from the texture mapping
func (t *Triangle) tangentFrame() (core.Vec3, core.Vec3) {
	dv1 := t.V2.Subtract(t.V1)
	dv2 := t.V3.Subtract(t.V1)
	dt1 := t.T2.Subtract(t.T1)
	dt2 := t.T3.Subtract(t.T1)
	tangent := dv1.Multiply(dt2.Y).Subtract(dv2.Multiply(dt1.Y)).Normalize()
	bitangent := dv2.Multiply(dt1.X).Subtract(dv1.Multiply(dt2.X)).Normalize()
	return tangent, bitangent
}
