package scene

import (
	"sync"
	"sync/atomic"

	"github.com/df07/go-kd-pathtracer/pkg/core"
	"github.com/df07/go-kd-pathtracer/pkg/log"
)

var logger = log.New("scene")

// Scene holds the shapes to render, the subset of them that emit light and
// the environment seen by rays that escape. Shapes are added during setup;
// Compile builds the k-d tree used by Intersect.
type Scene struct {
	Color        core.Vec3    // background color when Texture is nil
	Texture      core.Texture // equirectangular environment map
	TextureAngle float64      // rotation of Texture around the up axis, in radians

	mu     sync.Mutex
	shapes []core.Shape
	lights []core.Shape
	state  atomic.Pointer[compiled]
	rays   atomic.Int64
}

// compiled is the read-only view of a scene shared by render workers
type compiled struct {
	tree   *core.Tree
	lights []core.Shape
}

// New creates an empty scene with a black background
func New() *Scene {
	return &Scene{}
}

// Add appends a shape. A shape whose material emits at the origin is also
// registered as a light. Adding to a compiled scene discards its tree.
func (s *Scene) Add(shape core.Shape) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.shapes = append(s.shapes, shape)
	if shape.MaterialAt(core.Vec3{}).Emittance > 0 {
		s.lights = append(s.lights, shape)
	}
	s.state.Store(nil)
}

// AddAll adds every shape in order
func (s *Scene) AddAll(shapes ...core.Shape) {
	for _, shape := range shapes {
		s.Add(shape)
	}
}

// Compile prepares every shape and builds the scene tree. Calling it on a
// compiled scene does nothing.
func (s *Scene) Compile() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Load() != nil {
		return
	}
	for _, shape := range s.shapes {
		if c, ok := shape.(core.Compiler); ok {
			c.Compile()
		}
	}
	lights := append([]core.Shape(nil), s.lights...)
	s.state.Store(&compiled{tree: core.NewTree(s.shapes), lights: lights})
	logger.Debugf("compiled %d shapes, %d lights", len(s.shapes), len(s.lights))
}

// Compiled reports whether Intersect can see the current shapes
func (s *Scene) Compiled() bool {
	return s.state.Load() != nil
}

// Intersect returns the closest hit along r and counts the ray. An
// uncompiled scene hits nothing.
func (s *Scene) Intersect(r core.Ray) core.Hit {
	s.rays.Add(1)
	c := s.state.Load()
	if c == nil {
		return core.NoHit
	}
	return c.tree.Intersect(r)
}

// Shapes returns a copy of the scene's shapes
func (s *Scene) Shapes() []core.Shape {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Shape(nil), s.shapes...)
}

// Lights returns the emissive shapes. Once compiled the slice is shared
// and must not be modified.
func (s *Scene) Lights() []core.Shape {
	if c := s.state.Load(); c != nil {
		return c.lights
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Shape(nil), s.lights...)
}

// BoundingBox returns the bounds of all shapes
func (s *Scene) BoundingBox() core.AABB {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.BoxForShapes(s.shapes)
}

// RayCount returns the number of Intersect calls since the last reset
func (s *Scene) RayCount() int64 {
	return s.rays.Load()
}

// ResetRayCount zeroes the ray counter and returns its previous value
func (s *Scene) ResetRayCount() int64 {
	return s.rays.Swap(0)
}
