package renderer

import (
	"math"
	"time"

	"github.com/df07/go-kd-pathtracer/pkg/core"
	"github.com/df07/go-kd-pathtracer/pkg/integrator"
	"github.com/df07/go-kd-pathtracer/pkg/scene"
)

// tileRenderer traces the pixels of one tile into the shared framebuffer.
// It holds no per-task state and is shared by all workers.
type tileRenderer struct {
	scene      *scene.Scene
	camera     *Camera
	integrator integrator.Integrator
	buffer     *Framebuffer
	options    Options
}

func (tr *tileRenderer) renderTile(tile *Tile) RenderStats {
	start := time.Now()
	stats := RenderStats{}
	for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
		for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
			stats.Add(tr.renderPixel(x, y, tile.Sampler))
		}
	}
	stats.Duration = time.Since(start)
	return stats
}

// renderPixel traces the base samples of one pixel, then spends the
// adaptive and firefly budgets according to its standard deviation
func (tr *tileRenderer) renderPixel(x, y int, sampler core.Sampler) RenderStats {
	o := tr.options
	stats := RenderStats{Pixels: 1}

	spp := max(o.SamplesPerPixel, 1)
	if o.StratifiedSampling {
		root := int(math.Sqrt(float64(spp)))
		for u := 0; u < root; u++ {
			for v := 0; v < root; v++ {
				fu := (float64(u) + sampler.Get1D()) / float64(root)
				fv := (float64(v) + sampler.Get1D()) / float64(root)
				stats.TotalSamples += tr.sample(x, y, fu, fv, sampler)
			}
		}
	} else {
		for i := 0; i < spp; i++ {
			stats.TotalSamples += tr.sample(x, y, sampler.Get1D(), sampler.Get1D(), sampler)
		}
	}

	if o.AdaptiveSamples > 0 {
		stddev := tr.buffer.StandardDeviation(x, y).MaxComponent()
		n := adaptiveSampleCount(stddev, o.AdaptiveThreshold, o.AdaptiveExponent, o.AdaptiveSamples)
		for i := 0; i < n; i++ {
			stats.AdaptiveSamples += tr.sample(x, y, sampler.Get1D(), sampler.Get1D(), sampler)
		}
	}

	if o.FireflySamples > 0 {
		stddev := tr.buffer.StandardDeviation(x, y).MaxComponent()
		if stddev > o.FireflyThreshold {
			for i := 0; i < o.FireflySamples; i++ {
				stats.FireflySamples += tr.sample(x, y, sampler.Get1D(), sampler.Get1D(), sampler)
			}
		}
	}

	stats.TotalSamples += stats.AdaptiveSamples + stats.FireflySamples
	return stats
}

// sample traces one primary ray through (x+u, y+v) and returns the number of
// samples added to the pixel. A panic drops the sample, not the tile.
func (tr *tileRenderer) sample(x, y int, u, v float64, sampler core.Sampler) (added int) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warningf("pixel (%d,%d): sample dropped: %v", x, y, r)
			added = 0
		}
	}()
	ray := tr.camera.CastRay(x, y, tr.options.Width, tr.options.Height, u, v, sampler)
	tr.buffer.AddSample(x, y, tr.integrator.Sample(tr.scene, ray, sampler))
	return 1
}

// adaptiveSampleCount maps a pixel's standard deviation to an extra sample
// budget: normalized by threshold, clamped to [0, 1], raised to exponent
// and scaled by budget
func adaptiveSampleCount(stddev, threshold, exponent float64, budget int) int {
	if budget <= 0 || threshold <= 0 {
		return 0
	}
	v := core.Clamp(stddev/threshold, 0, 1)
	v = math.Pow(v, exponent)
	return int(v * float64(budget))
}
