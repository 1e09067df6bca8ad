package renderer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/df07/go-kd-pathtracer/pkg/integrator"
	"github.com/df07/go-kd-pathtracer/pkg/log"
	"github.com/df07/go-kd-pathtracer/pkg/scene"
)

var logger = log.New("renderer")

var (
	ErrInvalidDimensions = errors.New("renderer: width and height must be positive")
	ErrNoScene           = errors.New("renderer: no scene")
	ErrNoCamera          = errors.New("renderer: no camera")
	ErrNoSampler         = errors.New("renderer: no integrator")
)

// Options control image size and how samples are spent per pixel
type Options struct {
	Width, Height int

	SamplesPerPixel    int  // base samples per pixel per pass
	StratifiedSampling bool // jitter on a √spp×√spp grid instead of at random

	AdaptiveSamples   int     // extra sample budget for noisy pixels
	AdaptiveThreshold float64 // standard deviation that earns the full budget
	AdaptiveExponent  float64 // shapes the budget curve below the threshold

	FireflySamples   int     // extra samples for pixels above FireflyThreshold
	FireflyThreshold float64 // standard deviation marking a firefly

	TileSize    int   // edge of a scheduling tile
	SubTileSize int   // edge of a work unit inside a tile
	NumWorkers  int   // 0 uses every logical CPU
	Seed        int64 // base seed of the per-tile random sequences
}

// DefaultOptions returns options for a width×height image with one random
// sample per pixel and no refinement
func DefaultOptions(width, height int) Options {
	return Options{
		Width:             width,
		Height:            height,
		SamplesPerPixel:   1,
		AdaptiveThreshold: 1,
		FireflyThreshold:  1,
		TileSize:          64,
		SubTileSize:       16,
	}
}

// Validate checks the options that cannot be defaulted
func (o Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, o.Width, o.Height)
	}
	return nil
}

// Renderer accumulates passes of a scene into a framebuffer
type Renderer struct {
	scene      *scene.Scene
	camera     *Camera
	integrator integrator.Integrator
	options    Options
	buffer     *Framebuffer
	tiles      []*Tile
	passes     int
}

// NewRenderer creates a renderer with an empty framebuffer
func NewRenderer(s *scene.Scene, camera *Camera, sampler integrator.Integrator, options Options) (*Renderer, error) {
	switch {
	case s == nil:
		return nil, ErrNoScene
	case camera == nil:
		return nil, ErrNoCamera
	case sampler == nil:
		return nil, ErrNoSampler
	}
	if err := options.Validate(); err != nil {
		return nil, err
	}
	if options.NumWorkers <= 0 {
		options.NumWorkers = DefaultWorkers()
	}

	return &Renderer{
		scene:      s,
		camera:     camera,
		integrator: sampler,
		options:    options,
		buffer:     NewFramebuffer(options.Width, options.Height),
		tiles:      NewTileGrid(options.Width, options.Height, options.TileSize, options.SubTileSize, options.Seed),
	}, nil
}

// Buffer returns the live framebuffer
func (r *Renderer) Buffer() *Framebuffer {
	return r.buffer
}

// Options returns the effective options
func (r *Renderer) Options() Options {
	return r.options
}

// RenderPass adds one pass of samples to every pixel and blocks until all
// tiles are done. The scene is compiled on first use.
func (r *Renderer) RenderPass() (RenderStats, error) {
	start := time.Now()
	r.scene.Compile()
	r.scene.ResetRayCount()
	r.passes++

	tr := &tileRenderer{
		scene:      r.scene,
		camera:     r.camera,
		integrator: r.integrator,
		buffer:     r.buffer,
		options:    r.options,
	}
	pool := NewWorkerPool(tr, r.options.NumWorkers, len(r.tiles))
	pool.Start()
	for i, tile := range r.tiles {
		pool.SubmitTask(TileTask{Tile: tile, PassNumber: r.passes, TaskID: i})
	}
	pool.Stop()

	stats := RenderStats{Passes: 1}
	var errs []error
	for {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		if result.Error != nil {
			errs = append(errs, result.Error)
			continue
		}
		stats.Add(result.Stats)
	}
	stats.Rays = r.scene.RayCount()
	stats.Duration = time.Since(start)

	logger.Infof("pass %d: %d tiles on %d workers, %d samples, %d rays in %v",
		r.passes, len(r.tiles), pool.NumWorkers(), stats.TotalSamples, stats.Rays, stats.Duration)

	if len(errs) > 0 {
		return stats, fmt.Errorf("pass %d: %d tiles failed: %w", r.passes, len(errs), errors.Join(errs...))
	}
	return stats, nil
}

// IterativeRender runs iterations passes. After each pass the gamma
// corrected image goes to progress, which may be nil; after the last one it
// goes to sink, which may also be nil. ctx is checked between passes only.
func (r *Renderer) IterativeRender(ctx context.Context, iterations int, progress ProgressSink, sink ImageSink) (RenderStats, error) {
	total := RenderStats{}
	for i := 1; i <= iterations; i++ {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		pass, err := r.RenderPass()
		total.Add(pass)
		if err != nil {
			return total, err
		}

		logger.Noticef("iteration %d of %d", i, iterations)
		if progress != nil {
			progress.Update(Progress{
				Iteration:  i,
				Iterations: iterations,
				Preview:    r.buffer.Image(ColorChannel),
				Pass:       pass,
				Total:      total,
			})
		}
	}

	if sink == nil {
		return total, nil
	}
	if err := sink.Save(ctx, r.buffer.Image(ColorChannel)); err != nil {
		return total, fmt.Errorf("save image: %w", err)
	}
	return total, nil
}
