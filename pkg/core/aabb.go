package core

import "math"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	box := AABB{points[0], points[0]}
	for _, p := range points[1:] {
		box.Min = box.Min.Min(p)
		box.Max = box.Max.Max(p)
	}
	return box
}

// BoxForShapes returns the union of the boxes of shapes. No shapes yields
// the empty box at the origin.
func BoxForShapes(shapes []Shape) AABB {
	if len(shapes) == 0 {
		return AABB{}
	}
	box := shapes[0].BoundingBox()
	for _, shape := range shapes[1:] {
		box = box.Extend(shape.BoundingBox())
	}
	return box
}

// Extend returns the smallest AABB containing both boxes
func (aabb AABB) Extend(other AABB) AABB {
	return AABB{aabb.Min.Min(other.Min), aabb.Max.Max(other.Max)}
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// Anchor returns the point at the given fraction of the box along each axis.
func (aabb AABB) Anchor(anchor Vec3) Vec3 {
	return aabb.Min.Add(aabb.Size().MultiplyVec(anchor))
}

// OuterRadius is the radius of the sphere centered on the box that touches its corners.
func (aabb AABB) OuterRadius() float64 {
	return aabb.Min.Subtract(aabb.Center()).Length()
}

// Contains reports whether p lies inside the box, borders included
func (aabb AABB) Contains(p Vec3) bool {
	return p.X >= aabb.Min.X && p.X <= aabb.Max.X &&
		p.Y >= aabb.Min.Y && p.Y <= aabb.Max.Y &&
		p.Z >= aabb.Min.Z && p.Z <= aabb.Max.Z
}

// Intersect clips the ray against the three slabs and returns the entry and
// exit parameters. The ray misses when tmax < tmin. Axes along which the
// direction is zero and the origin sits on a slab produce NaN and are skipped.
func (aabb AABB) Intersect(r Ray) (tmin, tmax float64) {
	tmin, tmax = math.Inf(-1), math.Inf(1)
	for axis := AxisX; axis <= AxisZ; axis++ {
		o := r.Origin.Component(axis)
		d := r.Direction.Component(axis)
		t0 := (aabb.Min.Component(axis) - o) / d
		t1 := (aabb.Max.Component(axis) - o) / d
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tmin {
			tmin = t0
		}
		if t1 < tmax {
			tmax = t1
		}
	}
	return tmin, tmax
}

// Partition reports which sides of the plane axis = point the box touches.
// A box that touches the plane counts on both sides.
func (aabb AABB) Partition(axis Axis, point float64) (left, right bool) {
	left = aabb.Min.Component(axis) <= point
	right = aabb.Max.Component(axis) >= point
	return left, right
}
