package core

import (
	"math"
	"sort"

	"github.com/df07/go-kd-pathtracer/pkg/log"
)

var treeLogger = log.New("kdtree")

// Axis names a splitting axis of the tree. AxisNone marks a leaf.
type Axis int

const (
	AxisNone Axis = iota
	AxisX
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return "none"
}

const (
	// leafThreshold is the shape count below which a node is never split.
	leafThreshold = 8

	// splitRatio is the fraction of a node's shapes that the larger child
	// must stay strictly below for a split to be accepted.
	splitRatio = 0.85
)

// Node is one node of a k-d tree. Leaves hold a non-nil shape list and
// AxisNone; interior nodes hold an axis, a split point and two children.
type Node struct {
	Axis   Axis
	Point  float64
	Shapes []Shape
	Left   *Node
	Right  *Node
}

// Tree is a k-d tree over shapes with their overall bounding box.
type Tree struct {
	Box  AABB
	Root *Node
}

// NewTree builds a tree over shapes. The slice is not retained.
func NewTree(shapes []Shape) *Tree {
	owned := make([]Shape, len(shapes))
	copy(owned, shapes)

	root := newNode(owned)
	root.split()

	tree := &Tree{Box: BoxForShapes(shapes), Root: root}
	stats := tree.stats()
	treeLogger.Debugf("built tree over %d shapes: %d nodes, %d leaves, depth %d",
		len(shapes), stats.totalNodes, stats.leafNodes, stats.maxDepth)
	return tree
}

func newNode(shapes []Shape) *Node {
	return &Node{Axis: AxisNone, Shapes: shapes}
}

// IsLeaf reports whether the node holds shapes directly
func (n *Node) IsLeaf() bool {
	return n.Axis == AxisNone
}

// split recursively subdivides a leaf. The node stays a leaf when it holds
// fewer than leafThreshold shapes or when no candidate plane keeps the
// larger side below splitRatio of the shapes.
func (n *Node) split() {
	if len(n.Shapes) < leafThreshold {
		return
	}

	xs := make([]float64, 0, len(n.Shapes)*2)
	ys := make([]float64, 0, len(n.Shapes)*2)
	zs := make([]float64, 0, len(n.Shapes)*2)
	for _, shape := range n.Shapes {
		box := shape.BoundingBox()
		xs = append(xs, box.Min.X, box.Max.X)
		ys = append(ys, box.Min.Y, box.Max.Y)
		zs = append(zs, box.Min.Z, box.Max.Z)
	}
	sort.Float64s(xs)
	sort.Float64s(ys)
	sort.Float64s(zs)
	candidates := [3]struct {
		axis  Axis
		point float64
	}{
		{AxisX, Median(xs)},
		{AxisY, Median(ys)},
		{AxisZ, Median(zs)},
	}

	best := int(float64(len(n.Shapes)) * splitRatio)
	bestAxis := AxisNone
	bestPoint := 0.0
	for _, c := range candidates {
		if score := n.partitionScore(c.axis, c.point); score < best {
			best = score
			bestAxis = c.axis
			bestPoint = c.point
		}
	}
	if bestAxis == AxisNone {
		return
	}

	l, r := n.partition(bestAxis, bestPoint)
	n.Axis = bestAxis
	n.Point = bestPoint
	n.Left = newNode(l)
	n.Right = newNode(r)
	n.Left.split()
	n.Right.split()
	n.Shapes = nil
}

// partitionScore is the size of the larger side of a split, counting
// straddling shapes on both sides.
func (n *Node) partitionScore(axis Axis, point float64) int {
	left, right := 0, 0
	for _, shape := range n.Shapes {
		l, r := shape.BoundingBox().Partition(axis, point)
		if l {
			left++
		}
		if r {
			right++
		}
	}
	return max(left, right)
}

func (n *Node) partition(axis Axis, point float64) (left, right []Shape) {
	left = make([]Shape, 0, len(n.Shapes))
	right = make([]Shape, 0, len(n.Shapes))
	for _, shape := range n.Shapes {
		l, r := shape.BoundingBox().Partition(axis, point)
		if l {
			left = append(left, shape)
		}
		if r {
			right = append(right, shape)
		}
	}
	return left, right
}

// Intersect returns the nearest hit along the ray, or NoHit.
func (t *Tree) Intersect(r Ray) Hit {
	tmin, tmax := t.Box.Intersect(r)
	if tmax < tmin || tmax <= 0 {
		return NoHit
	}
	return t.Root.intersect(r, tmin, tmax)
}

func (n *Node) intersect(r Ray, tmin, tmax float64) Hit {
	if n.IsLeaf() {
		return n.intersectShapes(r)
	}

	point := n.Point
	o := r.Origin.Component(n.Axis)
	d := r.Direction.Component(n.Axis)
	tsplit := (point - o) / d

	leftFirst := o < point || (o == point && d <= 0)
	first, second := n.Left, n.Right
	if !leftFirst {
		first, second = n.Right, n.Left
	}

	if math.IsNaN(tsplit) || tsplit > tmax || tsplit <= 0 {
		return first.intersect(r, tmin, tmax)
	}
	if tsplit < tmin {
		return second.intersect(r, tmin, tmax)
	}

	h1 := first.intersect(r, tmin, tsplit)
	if h1.T <= tsplit {
		return h1
	}
	h2 := second.intersect(r, tsplit, math.Min(tmax, h1.T))
	if h2.T <= h1.T {
		return h2
	}
	return h1
}

// intersectShapes scans every shape of a leaf and keeps the nearest hit.
// Hits beyond the node's interval are kept; the caller compares them
// against the split.
func (n *Node) intersectShapes(r Ray) Hit {
	hit := NoHit
	for _, shape := range n.Shapes {
		if h := shape.Intersect(r); h.T < hit.T {
			hit = h
		}
	}
	return hit
}

type treeStats struct {
	totalNodes  int
	leafNodes   int
	maxDepth    int
	totalShapes int
}

func (t *Tree) stats() treeStats {
	stats := treeStats{}
	t.Root.collectStats(0, &stats)
	return stats
}

func (n *Node) collectStats(depth int, stats *treeStats) {
	stats.totalNodes++
	stats.maxDepth = max(stats.maxDepth, depth)
	if n.IsLeaf() {
		stats.leafNodes++
		stats.totalShapes += len(n.Shapes)
		return
	}
	n.Left.collectStats(depth+1, stats)
	n.Right.collectStats(depth+1, stats)
}
