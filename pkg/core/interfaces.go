package core

// Shape is anything the tracer can intersect. Implementations must be safe
// for concurrent Intersect calls once compiled.
type Shape interface {
	// BoundingBox returns the world-space bounds of the shape.
	BoundingBox() AABB
	// Intersect returns the nearest hit with t > EPS, or NoHit.
	Intersect(ray Ray) Hit
	// NormalAt returns the outward unit normal at a point on the surface.
	NormalAt(p Vec3) Vec3
	// MaterialAt returns the unresolved material at a point on the surface.
	MaterialAt(p Vec3) Material
	// UV returns texture coordinates in X and Y for a point on the surface.
	UV(p Vec3) Vec3
}

// Compiler is implemented by shapes that need a preparation step, such as
// building an internal tree, before they can be intersected.
type Compiler interface {
	Compile()
}

// SphereLike is implemented by shapes that are exactly a sphere. Light
// sampling uses the true center and radius instead of the bounding box.
type SphereLike interface {
	AsSphere() (center Vec3, radius float64)
}

// InsideSuppressor is implemented by shapes with no meaningful interior
// side, such as signed distance fields. Their hits never report Inside.
type InsideSuppressor interface {
	SuppressesInside() bool
}

// Texture maps (u, v) coordinates to colors.
type Texture interface {
	Sample(u, v float64) Vec3
	NormalSample(u, v float64) Vec3
	BumpSample(u, v float64) Vec3
}
