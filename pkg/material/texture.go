package material

import (
	"github.com/df07/go-kd-pathtracer/pkg/core"
)

// ColorTexture is an RGB image sampled with wrapping bilinear filtering.
type ColorTexture struct {
	Width  int
	Height int
	Data   []core.Vec3 // Row-major: Data[y*Width + x]
}

// NewColorTexture creates a texture over width*height row-major pixels
func NewColorTexture(width, height int, data []core.Vec3) *ColorTexture {
	return &ColorTexture{Width: width, Height: height, Data: data}
}

func wrap(x float64) float64 {
	return core.Fract(core.Fract(x) + 1)
}

// Sample returns the color at (u, v). Coordinates wrap; v runs bottom to top.
func (t *ColorTexture) Sample(u, v float64) core.Vec3 {
	return t.bilinearSample(wrap(u), 1-wrap(v))
}

func (t *ColorTexture) bilinearSample(u, v float64) core.Vec3 {
	if u == 1 {
		u -= core.EPS
	}
	if v == 1 {
		v -= core.EPS
	}
	w := float64(t.Width - 1)
	h := float64(t.Height - 1)
	x0 := int(u * w)
	y0 := int(v * h)
	x := core.Fract(u * w)
	y := core.Fract(v * h)
	x1 := min(x0+1, t.Width-1)
	y1 := min(y0+1, t.Height-1)
	c00 := t.Data[y0*t.Width+x0]
	c01 := t.Data[y1*t.Width+x0]
	c10 := t.Data[y0*t.Width+x1]
	c11 := t.Data[y1*t.Width+x1]
	return c00.Multiply((1 - x) * (1 - y)).
		Add(c10.Multiply(x * (1 - y))).
		Add(c01.Multiply((1 - x) * y)).
		Add(c11.Multiply(x * y))
}

// NormalSample decodes the texel as a tangent-space normal
func (t *ColorTexture) NormalSample(u, v float64) core.Vec3 {
	c := t.Sample(u, v)
	return c.Multiply(2).SubtractScalar(1).Normalize()
}

// BumpSample returns the red channel gradient around (u, v)
func (t *ColorTexture) BumpSample(u, v float64) core.Vec3 {
	u = wrap(u)
	v = 1 - wrap(v)
	x := min(int(u*float64(t.Width)), t.Width-1)
	y := min(int(v*float64(t.Height)), t.Height-1)
	x1 := max(x-1, 0)
	x2 := min(x+1, t.Width-1)
	y1 := max(y-1, 0)
	y2 := min(y+1, t.Height-1)
	cx := t.Data[y*t.Width+x1].Subtract(t.Data[y*t.Width+x2])
	cy := t.Data[y1*t.Width+x].Subtract(t.Data[y2*t.Width+x])
	return core.NewVec3(cx.X, cy.X, 0)
}

// Pow raises every texel to a in place, for example to linearize sRGB data
func (t *ColorTexture) Pow(a float64) *ColorTexture {
	for i, c := range t.Data {
		t.Data[i] = c.Pow(a)
	}
	return t
}

// MulScalar scales every texel in place
func (t *ColorTexture) MulScalar(a float64) *ColorTexture {
	for i, c := range t.Data {
		t.Data[i] = c.Multiply(a)
	}
	return t
}
