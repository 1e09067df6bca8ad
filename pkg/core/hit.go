package core

// Hit is the result of a ray intersection. Ok reports whether anything was hit.
type Hit struct {
	Shape   Shape
	T       float64
	HitInfo *HitInfo // resolved lazily by Info; shapes may fill it in advance
}

// NoHit is returned when a ray hits nothing.
var NoHit = Hit{T: INF}

// Ok reports whether the hit is real
func (h *Hit) Ok() bool {
	return h.T < INF
}

// HitInfo is the shading context of a hit.
type HitInfo struct {
	Shape    Shape
	Position Vec3
	Normal   Vec3 // faces the incoming ray
	Ray      Ray  // the probe ray (Position, Normal)
	Material Material
	Inside   bool
}

// Info resolves and caches the shading context of the hit for the ray that
// produced it. The normal is flipped to face the ray; the inside flag is
// left unset for shapes that suppress it.
func (h *Hit) Info(r Ray) *HitInfo {
	if h.HitInfo != nil {
		return h.HitInfo
	}
	shape := h.Shape
	position := r.At(h.T)
	normal := shape.NormalAt(position)
	material := ResolveMaterial(shape, position)

	inside := false
	if normal.Dot(r.Direction) > 0 {
		normal = normal.Negate()
		inside = true
		if s, ok := shape.(InsideSuppressor); ok && s.SuppressesInside() {
			inside = false
		}
	}

	h.HitInfo = &HitInfo{
		Shape:    shape,
		Position: position,
		Normal:   normal,
		Ray:      Ray{position, normal},
		Material: material,
		Inside:   inside,
	}
	return h.HitInfo
}
