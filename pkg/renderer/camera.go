package renderer

import (
	"math"

	"github.com/df07/go-kd-pathtracer/pkg/core"
	"github.com/df07/go-kd-pathtracer/pkg/scene"
)

// Camera is a pinhole camera with optional thin-lens depth of field
type Camera struct {
	p, u, v, w     core.Vec3 // eye and orthonormal basis, w looking forward
	m              float64   // 1 / tan(fovy / 2)
	focalDistance  float64
	apertureRadius float64
}

// LookAt creates a camera at eye looking at center. fovy is the vertical
// field of view in degrees.
func LookAt(eye, center, up core.Vec3, fovy float64) *Camera {
	c := &Camera{p: eye}
	c.w = center.Subtract(eye).Normalize()
	c.u = up.Cross(c.w).Normalize()
	c.v = c.w.Cross(c.u).Normalize()
	c.m = 1 / math.Tan(fovy*math.Pi/360)
	return c
}

// CameraForView builds the camera described by an example scene
func CameraForView(view scene.View) *Camera {
	c := LookAt(view.Eye, view.Center, view.Up, view.Fovy)
	if view.Aperture > 0 {
		c.SetFocus(view.FocalPoint, view.Aperture)
	}
	return c
}

// SetFocus keeps focalPoint sharp and blurs everything else with a lens of
// the given radius
func (c *Camera) SetFocus(focalPoint core.Vec3, apertureRadius float64) {
	c.focalDistance = focalPoint.Subtract(c.p).Length()
	c.apertureRadius = apertureRadius
}

// Position returns the eye point
func (c *Camera) Position() core.Vec3 {
	return c.p
}

// CastRay returns the primary ray through pixel (x, y) of a w×h image,
// offset inside the pixel by (u, v) in [0, 1)²
func (c *Camera) CastRay(x, y, w, h int, u, v float64, sampler core.Sampler) core.Ray {
	aspect := float64(w) / float64(h)
	px := ((float64(x)+u-0.5)/math.Max(float64(w-1), 1))*2 - 1
	py := ((float64(y)+v-0.5)/math.Max(float64(h-1), 1))*2 - 1

	d := c.u.Multiply(-px * aspect).
		Add(c.v.Multiply(-py)).
		Add(c.w.Multiply(c.m)).
		Normalize()
	p := c.p

	if c.apertureRadius > 0 {
		focal := p.Add(d.Multiply(c.focalDistance))
		angle := sampler.Get1D() * 2 * math.Pi
		radius := sampler.Get1D() * c.apertureRadius
		p = p.Add(c.u.Multiply(math.Cos(angle) * radius)).Add(c.v.Multiply(math.Sin(angle) * radius))
		d = focal.Subtract(p).Normalize()
	}

	return core.NewRay(p, d)
}
