package renderer

import (
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/df07/go-kd-pathtracer/pkg/core"
)

// Gamma is the display gamma applied by the Color channel
const Gamma = 2.2

// Channel selects what Framebuffer.Image renders
type Channel int

const (
	ColorChannel Channel = iota
	VarianceChannel
	StandardDeviationChannel
	SamplesChannel
)

func (c Channel) String() string {
	switch c {
	case ColorChannel:
		return "color"
	case VarianceChannel:
		return "variance"
	case StandardDeviationChannel:
		return "stddev"
	case SamplesChannel:
		return "samples"
	}
	return "unknown"
}

// Pixel accumulates samples with Welford's online mean and variance.
// All methods are safe for concurrent use.
type Pixel struct {
	mu      sync.Mutex
	samples int
	m       core.Vec3 // running mean
	v       core.Vec3 // sum of squared differences from the mean
}

// AddSample folds one sample into the running statistics
func (p *Pixel) AddSample(sample core.Vec3) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.samples++
	if p.samples == 1 {
		p.m = sample
		return
	}
	m := p.m
	p.m = p.m.Add(sample.Subtract(p.m).Divide(float64(p.samples)))
	p.v = p.v.Add(sample.Subtract(m).MultiplyVec(sample.Subtract(p.m)))
}

// Samples returns the number of accumulated samples
func (p *Pixel) Samples() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.samples
}

// Color returns the mean of all samples, black when there are none
func (p *Pixel) Color() core.Vec3 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.m
}

// Variance returns the sample variance, zero below two samples
func (p *Pixel) Variance() core.Vec3 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.samples < 2 {
		return core.Vec3{}
	}
	return p.v.Divide(float64(p.samples - 1))
}

// StandardDeviation returns the square root of the variance
func (p *Pixel) StandardDeviation() core.Vec3 {
	return p.Variance().Sqrt()
}

func (p *Pixel) snapshot() (int, core.Vec3, core.Vec3) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.samples, p.m, p.v
}

// Framebuffer is a W×H grid of independently locked pixels
type Framebuffer struct {
	W, H   int
	pixels []Pixel
}

// NewFramebuffer creates an empty framebuffer
func NewFramebuffer(w, h int) *Framebuffer {
	return &Framebuffer{W: w, H: h, pixels: make([]Pixel, w*h)}
}

// Pixel returns the pixel at (x, y)
func (f *Framebuffer) Pixel(x, y int) *Pixel {
	return &f.pixels[y*f.W+x]
}

// AddSample folds one radiance sample into the pixel at (x, y)
func (f *Framebuffer) AddSample(x, y int, sample core.Vec3) {
	f.Pixel(x, y).AddSample(sample)
}

// Samples returns the number of samples taken at (x, y)
func (f *Framebuffer) Samples(x, y int) int {
	return f.Pixel(x, y).Samples()
}

// Color returns the linear mean radiance at (x, y)
func (f *Framebuffer) Color(x, y int) core.Vec3 {
	return f.Pixel(x, y).Color()
}

// Variance returns the per-channel sample variance at (x, y)
func (f *Framebuffer) Variance(x, y int) core.Vec3 {
	return f.Pixel(x, y).Variance()
}

// StandardDeviation returns the per-channel standard deviation at (x, y)
func (f *Framebuffer) StandardDeviation(x, y int) core.Vec3 {
	return f.Pixel(x, y).StandardDeviation()
}

// Copy returns an independent snapshot of the framebuffer
func (f *Framebuffer) Copy() *Framebuffer {
	c := NewFramebuffer(f.W, f.H)
	for i := range f.pixels {
		c.pixels[i].samples, c.pixels[i].m, c.pixels[i].v = f.pixels[i].snapshot()
	}
	return c
}

// MaxSamples returns the largest per-pixel sample count
func (f *Framebuffer) MaxSamples() int {
	result := 0
	for i := range f.pixels {
		if n := f.pixels[i].Samples(); n > result {
			result = n
		}
	}
	return result
}

// Image renders one channel. Color is gamma corrected; Samples is
// normalized by the largest per-pixel count.
func (f *Framebuffer) Image(channel Channel) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.W, f.H))
	maxSamples := 1.0
	if channel == SamplesChannel {
		maxSamples = math.Max(float64(f.MaxSamples()), 1)
	}
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			p := f.Pixel(x, y)
			var c core.Vec3
			switch channel {
			case ColorChannel:
				c = p.Color().Pow(1 / Gamma)
			case VarianceChannel:
				c = p.Variance()
			case StandardDeviationChannel:
				c = p.StandardDeviation()
			case SamplesChannel:
				s := float64(p.Samples()) / maxSamples
				c = core.NewVec3(s, s, s)
			}
			img.SetRGBA(x, y, toRGBA(c))
		}
	}
	return img
}

// toRGBA clamps a color to [0, 1] and quantizes it to 8 bits
func toRGBA(c core.Vec3) color.RGBA {
	if !c.IsFinite() {
		c = core.Vec3{}
	}
	c = c.Clamp(0, 1)
	return color.RGBA{
		R: uint8(math.Round(255 * c.X)),
		G: uint8(math.Round(255 * c.Y)),
		B: uint8(math.Round(255 * c.Z)),
		A: 255,
	}
}
