package geometry

import (
	"sync"

	"github.com/df07/go-kd-pathtracer/pkg/core"
)

// Mesh is a triangle soup with its own k-d tree. The tree is built by
// Compile and discarded whenever the triangles change.
type Mesh struct {
	Triangles []*Triangle

	mu   sync.Mutex
	box  *core.AABB
	tree *core.Tree
}

// NewMesh creates a mesh over the given triangles
func NewMesh(triangles []*Triangle) *Mesh {
	return &Mesh{Triangles: triangles}
}

func (m *Mesh) dirty() {
	m.box = nil
	m.tree = nil
}

// Copy returns a mesh with copies of every triangle
func (m *Mesh) Copy() *Mesh {
	triangles := make([]*Triangle, len(m.Triangles))
	for i, t := range m.Triangles {
		c := *t
		triangles[i] = &c
	}
	return NewMesh(triangles)
}

// Compile builds the triangle tree once
func (m *Mesh) Compile() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tree != nil {
		return
	}
	shapes := make([]core.Shape, len(m.Triangles))
	for i, t := range m.Triangles {
		shapes[i] = t
	}
	m.tree = core.NewTree(shapes)
}

// Add appends the triangles of b
func (m *Mesh) Add(b *Mesh) {
	m.Triangles = append(m.Triangles, b.Triangles...)
	m.dirty()
}

func (m *Mesh) BoundingBox() core.AABB {
	if m.box == nil {
		if len(m.Triangles) == 0 {
			return core.AABB{}
		}
		min := m.Triangles[0].V1
		max := m.Triangles[0].V1
		for _, t := range m.Triangles {
			min = min.Min(t.V1).Min(t.V2).Min(t.V3)
			max = max.Max(t.V1).Max(t.V2).Max(t.V3)
		}
		box := core.NewAABB(min, max)
		m.box = &box
	}
	return *m.box
}

// Intersect returns the nearest triangle hit. An uncompiled mesh never hits.
func (m *Mesh) Intersect(r core.Ray) core.Hit {
	if m.tree == nil {
		return core.NoHit
	}
	return m.tree.Intersect(r)
}

// Hits resolve to individual triangles, so the mesh itself carries no
// surface attributes.
func (m *Mesh) UV(core.Vec3) core.Vec3 {
	return core.Vec3{}
}

func (m *Mesh) MaterialAt(core.Vec3) core.Material {
	return core.Material{}
}

func (m *Mesh) NormalAt(core.Vec3) core.Vec3 {
	return core.Vec3{}
}

// Transform applies matrix to every vertex and normal
func (m *Mesh) Transform(matrix core.Matrix) {
	for _, t := range m.Triangles {
		t.V1 = matrix.MulPosition(t.V1)
		t.V2 = matrix.MulPosition(t.V2)
		t.V3 = matrix.MulPosition(t.V3)
		t.N1 = matrix.MulDirection(t.N1)
		t.N2 = matrix.MulDirection(t.N2)
		t.N3 = matrix.MulDirection(t.N3)
	}
	m.dirty()
}

// MoveTo translates the mesh so that its anchor point lands on position
func (m *Mesh) MoveTo(position, anchor core.Vec3) {
	m.Transform(core.Translate(position.Subtract(m.BoundingBox().Anchor(anchor))))
}

// FitInside uniformly scales and moves the mesh into box; anchor places the
// leftover space.
func (m *Mesh) FitInside(box core.AABB, anchor core.Vec3) {
	size := m.BoundingBox().Size()
	scale := box.Size().DivideVec(size).MinComponent()
	extra := box.Size().Subtract(size.Multiply(scale))
	matrix := core.Identity().
		Translate(m.BoundingBox().Min.Negate()).
		Scale(core.NewVec3(scale, scale, scale)).
		Translate(box.Min.Add(extra.MultiplyVec(anchor)))
	m.Transform(matrix)
}

// UnitCube fits the mesh into the unit cube centered on the origin
func (m *Mesh) UnitCube() {
	m.FitInside(core.NewAABB(core.Vec3{}, core.NewVec3(1, 1, 1)), core.Vec3{})
	m.MoveTo(core.Vec3{}, core.NewVec3(0.5, 0.5, 0.5))
}

// SetMaterial assigns material to every triangle
func (m *Mesh) SetMaterial(material core.Material) {
	for _, t := range m.Triangles {
		t.Material = material
	}
}

// SmoothNormals averages the face normals meeting at each vertex position
// into the vertex normals.
func (m *Mesh) SmoothNormals() {
	normals := make(map[core.Vec3]core.Vec3)
	for _, t := range m.Triangles {
		n := t.Normal()
		normals[t.V1] = normals[t.V1].Add(n)
		normals[t.V2] = normals[t.V2].Add(n)
		normals[t.V3] = normals[t.V3].Add(n)
	}
	for _, t := range m.Triangles {
		t.N1 = normals[t.V1].Normalize()
		t.N2 = normals[t.V2].Normalize()
		t.N3 = normals[t.V3].Normalize()
	}
	m.dirty()
}
