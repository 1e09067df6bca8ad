package core

import (
	"math"
	"math/rand"
	"testing"
)

// MockShape is a sphere with its own box, enough to exercise the tree
type MockShape struct {
	center Vec3
	radius float64
	hitFn  func(ray Ray) Hit
}

func (m *MockShape) BoundingBox() AABB {
	r := NewVec3(m.radius, m.radius, m.radius)
	return NewAABB(m.center.Subtract(r), m.center.Add(r))
}

func (m *MockShape) Intersect(ray Ray) Hit {
	if m.hitFn != nil {
		return m.hitFn(ray)
	}
	to := ray.Origin.Subtract(m.center)
	b := to.Dot(ray.Direction)
	c := to.Dot(to) - m.radius*m.radius
	d := b*b - c
	if d <= 0 {
		return NoHit
	}
	d = math.Sqrt(d)
	for _, t := range []float64{-b - d, -b + d} {
		if t > EPS {
			return Hit{Shape: m, T: t}
		}
	}
	return NoHit
}

func (m *MockShape) NormalAt(p Vec3) Vec3 {
	return p.Subtract(m.center).Normalize()
}

func (m *MockShape) MaterialAt(p Vec3) Material {
	return Material{Color: NewVec3(1, 1, 1)}
}

func (m *MockShape) UV(p Vec3) Vec3 {
	return Vec3{}
}

func randomShapes(random *rand.Rand, n int) []Shape {
	shapes := make([]Shape, n)
	for i := range shapes {
		shapes[i] = &MockShape{
			center: NewVec3(random.Float64()*20-10, random.Float64()*20-10, random.Float64()*20-10),
			radius: 0.1 + random.Float64()*0.8,
		}
	}
	return shapes
}

func bruteForce(shapes []Shape, r Ray) Hit {
	best := NoHit
	for _, s := range shapes {
		if h := s.Intersect(r); h.T < best.T {
			best = h
		}
	}
	return best
}

func TestTree_LeafThreshold(t *testing.T) {
	random := rand.New(rand.NewSource(1))

	tree := NewTree(randomShapes(random, leafThreshold-1))
	stats := tree.stats()
	if stats.totalNodes != 1 || !tree.Root.IsLeaf() {
		t.Errorf("Expected a single leaf below the threshold, got %d nodes", stats.totalNodes)
	}

	tree = NewTree(randomShapes(random, 200))
	stats = tree.stats()
	if stats.leafNodes < 2 {
		t.Errorf("Expected 200 scattered shapes to split, got %d leaves", stats.leafNodes)
	}
	if stats.totalShapes < 200 {
		t.Errorf("Expected every shape in at least one leaf, got %d references", stats.totalShapes)
	}
}

func TestTree_EmptyAndOverlapping(t *testing.T) {
	tree := NewTree(nil)
	if !tree.Root.IsLeaf() || tree.Root.Shapes == nil {
		t.Fatal("Expected empty tree to be a leaf with an empty shape list")
	}
	hit := tree.Intersect(NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, 1)))
	if hit.Ok() {
		t.Error("Expected no hit on empty tree")
	}

	// Identical shapes can never be separated, so the root must stay a leaf.
	shapes := make([]Shape, 20)
	for i := range shapes {
		shapes[i] = &MockShape{center: NewVec3(0, 0, 0), radius: 1}
	}
	tree = NewTree(shapes)
	if !tree.Root.IsLeaf() || len(tree.Root.Shapes) != 20 {
		t.Errorf("Expected unsplittable shapes to stay in one leaf")
	}
}

// Every interior node must have split its shapes so that the larger child is
// strictly below 85% of the parent and nothing was lost.
func TestTree_LeavesMatchPartition(t *testing.T) {
	random := rand.New(rand.NewSource(7))
	shapes := randomShapes(random, 500)
	tree := NewTree(shapes)

	var check func(n *Node, parent []Shape)
	check = func(n *Node, shapes []Shape) {
		if n.IsLeaf() {
			if n.Shapes == nil {
				t.Fatal("Leaf with nil shape list")
			}
			return
		}
		left, right := (&Node{Shapes: shapes}).partition(n.Axis, n.Point)
		if max(len(left), len(right)) >= int(float64(len(shapes))*splitRatio) {
			t.Errorf("Split of %d shapes kept %d/%d on the sides", len(shapes), len(left), len(right))
		}
		for _, s := range shapes {
			l, r := s.BoundingBox().Partition(n.Axis, n.Point)
			if !l && !r {
				t.Errorf("Shape dropped by split on %v at %f", n.Axis, n.Point)
			}
		}
		check(n.Left, left)
		check(n.Right, right)
	}
	check(tree.Root, shapes)
}

func TestTree_AgreesWithBruteForce(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	shapes := randomShapes(random, 300)
	tree := NewTree(shapes)

	for i := 0; i < 2000; i++ {
		origin := NewVec3(random.Float64()*40-20, random.Float64()*40-20, random.Float64()*40-20)
		target := NewVec3(random.Float64()*20-10, random.Float64()*20-10, random.Float64()*20-10)
		ray := NewRay(origin, target.Subtract(origin).Normalize())

		got := tree.Intersect(ray)
		want := bruteForce(shapes, ray)
		if got.Ok() != want.Ok() {
			t.Fatalf("Ray %d: tree hit=%v brute hit=%v", i, got.Ok(), want.Ok())
		}
		if want.Ok() && math.Abs(got.T-want.T) > 1e-9 {
			t.Fatalf("Ray %d: tree t=%f brute t=%f", i, got.T, want.T)
		}
	}
}

func TestTree_AxisAlignedRays(t *testing.T) {
	random := rand.New(rand.NewSource(3))
	shapes := randomShapes(random, 200)
	tree := NewTree(shapes)

	dirs := []Vec3{
		NewVec3(1, 0, 0), NewVec3(-1, 0, 0),
		NewVec3(0, 1, 0), NewVec3(0, -1, 0),
		NewVec3(0, 0, 1), NewVec3(0, 0, -1),
	}
	for i := 0; i < 300; i++ {
		origin := NewVec3(random.Float64()*20-10, random.Float64()*20-10, random.Float64()*20-10)
		for _, d := range dirs {
			ray := NewRay(origin, d)
			got := tree.Intersect(ray)
			want := bruteForce(shapes, ray)
			if got.Ok() != want.Ok() || (want.Ok() && math.Abs(got.T-want.T) > 1e-9) {
				t.Fatalf("Axis ray from %v along %v: tree t=%f brute t=%f", origin, d, got.T, want.T)
			}
		}
	}
}

func TestTree_RayPointingAway(t *testing.T) {
	shapes := []Shape{&MockShape{center: NewVec3(0, 0, 0), radius: 1}}
	tree := NewTree(shapes)
	hit := tree.Intersect(NewRay(NewVec3(0, 0, 5), NewVec3(0, 0, 1)))
	if hit.Ok() {
		t.Error("Expected no hit for a ray leaving the tree box")
	}
}
