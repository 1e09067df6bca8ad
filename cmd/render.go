package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
	"github.com/urfave/cli"

	"github.com/df07/go-kd-pathtracer/pkg/integrator"
	"github.com/df07/go-kd-pathtracer/pkg/output"
	"github.com/df07/go-kd-pathtracer/pkg/renderer"
	"github.com/df07/go-kd-pathtracer/pkg/scene"
)

var errMissingScene = errors.New("missing scene argument")

var renderFlags = []cli.Flag{
	cli.IntFlag{Name: "width", Value: 512, Usage: "frame width", EnvVar: "PT_WIDTH"},
	cli.IntFlag{Name: "height", Value: 512, Usage: "frame height", EnvVar: "PT_HEIGHT"},
	cli.IntFlag{Name: "spp", Value: 1, Usage: "camera samples per pixel per iteration", EnvVar: "PT_SPP"},
	cli.BoolFlag{Name: "stratified", Usage: "jitter camera samples on a grid", EnvVar: "PT_STRATIFIED"},
	cli.IntFlag{Name: "iterations, n", Usage: "number of passes (default: scene setting)", EnvVar: "PT_ITERATIONS"},
	cli.IntFlag{Name: "first-hit", Usage: "stratified bounces at the camera hit (default: scene setting)", EnvVar: "PT_FIRST_HIT"},
	cli.IntFlag{Name: "bounces", Usage: "maximum path depth (default: scene setting)", EnvVar: "PT_BOUNCES"},
	cli.IntFlag{Name: "adaptive", Usage: "extra samples for noisy pixels (default: scene setting)", EnvVar: "PT_ADAPTIVE"},
	cli.Float64Flag{Name: "adaptive-threshold", Value: 1, Usage: "standard deviation earning the full adaptive budget", EnvVar: "PT_ADAPTIVE_THRESHOLD"},
	cli.Float64Flag{Name: "adaptive-exponent", Value: 0, Usage: "shape of the adaptive budget curve", EnvVar: "PT_ADAPTIVE_EXPONENT"},
	cli.IntFlag{Name: "firefly", Usage: "extra samples for firefly pixels (default: scene setting)", EnvVar: "PT_FIREFLY"},
	cli.Float64Flag{Name: "firefly-threshold", Value: 1, Usage: "standard deviation marking a firefly", EnvVar: "PT_FIREFLY_THRESHOLD"},
	cli.StringFlag{Name: "light-mode", Value: "random", Usage: "lights sampled per diffuse hit: random or all", EnvVar: "PT_LIGHT_MODE"},
	cli.StringFlag{Name: "specular-mode", Value: "naive", Usage: "where to split specular and diffuse: naive, first or all", EnvVar: "PT_SPECULAR_MODE"},
	cli.BoolFlag{Name: "no-direct", Usage: "disable explicit light sampling", EnvVar: "PT_NO_DIRECT"},
	cli.BoolFlag{Name: "hard-shadows", Usage: "sample light centers only", EnvVar: "PT_HARD_SHADOWS"},
	cli.IntFlag{Name: "tile", Value: 64, Usage: "tile edge in pixels", EnvVar: "PT_TILE"},
	cli.IntFlag{Name: "sub-tile", Value: 16, Usage: "work unit edge in pixels", EnvVar: "PT_SUB_TILE"},
	cli.IntFlag{Name: "workers", Usage: "render goroutines, 0 for one per CPU", EnvVar: "PT_WORKERS"},
	cli.Int64Flag{Name: "seed", Usage: "random seed", EnvVar: "PT_SEED"},
	cli.StringFlag{Name: "mesh", Usage: "model file (obj, stl, ply) for the mesh scene", EnvVar: "PT_MESH"},
	cli.StringFlag{Name: "texture", Usage: "albedo texture for the mesh scene", EnvVar: "PT_TEXTURE"},
	cli.StringFlag{Name: "environment", Usage: "equirectangular environment map", EnvVar: "PT_ENVIRONMENT"},
	cli.StringFlag{Name: "out, o", Value: "render.png", Usage: "output file or s3://bucket/key", EnvVar: "PT_OUT"},
	cli.StringFlag{Name: "preview", Usage: "file rewritten after every iteration", EnvVar: "PT_PREVIEW"},
	cli.UintFlag{Name: "preview-size", Usage: "shrink previews to fit this many pixels", EnvVar: "PT_PREVIEW_SIZE"},
	cli.StringFlag{Name: "aux", Usage: "directory for variance, stddev and sample count images", EnvVar: "PT_AUX"},
}

// renderJob is everything a render needs, resolved from flags and the
// scene's own settings
type renderJob struct {
	setup      *scene.Setup
	options    renderer.Options
	config     integrator.Config
	iterations int
	out        string
	preview    string
	previewMax uint
	aux        string
}

// Render an example scene.
func Render(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	job, err := newRenderJob(ctx)
	if err != nil {
		return err
	}
	describeHost()

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rows, err := job.run(runCtx)
	if len(rows) > 0 {
		displayRenderStats(ctx, rows)
	}
	return err
}

func newRenderJob(ctx *cli.Context) (*renderJob, error) {
	if ctx.NArg() != 1 {
		return nil, errMissingScene
	}

	setup, err := scene.Build(ctx.Args().First(), scene.Options{
		MeshPath:        ctx.String("mesh"),
		TexturePath:     ctx.String("texture"),
		EnvironmentPath: ctx.String("environment"),
	})
	if err != nil {
		return nil, err
	}
	settings := setup.Settings

	lightMode, err := integrator.ParseLightMode(ctx.String("light-mode"))
	if err != nil {
		return nil, err
	}
	specularMode, err := integrator.ParseSpecularMode(ctx.String("specular-mode"))
	if err != nil {
		return nil, err
	}

	config := integrator.DefaultConfig(
		intOr(ctx, "first-hit", settings.FirstHitSamples),
		intOr(ctx, "bounces", settings.MaxBounces),
	)
	config.DirectLighting = !ctx.Bool("no-direct")
	config.SoftShadows = !ctx.Bool("hard-shadows")
	config.LightMode = lightMode
	config.SpecularMode = specularMode

	options := renderer.DefaultOptions(ctx.Int("width"), ctx.Int("height"))
	options.SamplesPerPixel = ctx.Int("spp")
	options.StratifiedSampling = ctx.Bool("stratified")
	options.AdaptiveSamples = intOr(ctx, "adaptive", settings.AdaptiveSamples)
	options.AdaptiveThreshold = ctx.Float64("adaptive-threshold")
	options.AdaptiveExponent = ctx.Float64("adaptive-exponent")
	options.FireflySamples = intOr(ctx, "firefly", settings.FireflySamples)
	options.FireflyThreshold = ctx.Float64("firefly-threshold")
	options.TileSize = ctx.Int("tile")
	options.SubTileSize = ctx.Int("sub-tile")
	options.NumWorkers = ctx.Int("workers")
	options.Seed = ctx.Int64("seed")
	if err := options.Validate(); err != nil {
		return nil, err
	}

	iterations := intOr(ctx, "iterations", settings.Iterations)
	if iterations < 1 {
		iterations = 1
	}

	return &renderJob{
		setup:      setup,
		options:    options,
		config:     config,
		iterations: iterations,
		out:        ctx.String("out"),
		preview:    ctx.String("preview"),
		previewMax: ctx.Uint("preview-size"),
		aux:        ctx.String("aux"),
	}, nil
}

// intOr returns the flag value when it was given, def otherwise
func intOr(ctx *cli.Context, name string, def int) int {
	if ctx.IsSet(name) {
		return ctx.Int(name)
	}
	return def
}

// run renders the job and returns one stats row per finished iteration
func (job *renderJob) run(ctx context.Context) ([]renderer.Progress, error) {
	sink, err := output.New(job.out, output.S3ConfigFromEnv())
	if err != nil {
		return nil, err
	}
	progress, err := job.progressSink(ctx)
	if err != nil {
		return nil, err
	}

	r, err := renderer.NewRenderer(
		job.setup.Scene,
		renderer.CameraForView(job.setup.View),
		integrator.NewPathTracingIntegrator(job.config),
		job.options,
	)
	if err != nil {
		return nil, err
	}

	logger.Noticef("rendering %s at %dx%d, %d iterations", job.setup.Name, job.options.Width, job.options.Height, job.iterations)
	var rows []renderer.Progress
	collect := renderer.ProgressFunc(func(p renderer.Progress) {
		p.Preview = nil
		rows = append(rows, p)
	})

	_, err = r.IterativeRender(ctx, job.iterations, renderer.MultiProgress(collect, progress), sink)
	if err != nil {
		return rows, err
	}
	if job.aux != "" {
		if err := saveChannels(ctx, r.Buffer(), job.aux); err != nil {
			return rows, err
		}
	}
	return rows, nil
}

// progressSink writes the preview file, shrunk when a preview size is set
func (job *renderJob) progressSink(ctx context.Context) (renderer.ProgressSink, error) {
	if job.preview == "" {
		return nil, nil
	}
	file, err := output.NewFileSink(job.preview)
	if err != nil {
		return nil, err
	}
	save := func(img image.Image, p renderer.Progress) {
		if err := file.Save(ctx, img); err != nil {
			logger.Warningf("preview %d of %d: %v", p.Iteration, p.Iterations, err)
		}
	}
	if job.previewMax > 0 {
		return &renderer.ThumbnailSink{MaxWidth: job.previewMax, MaxHeight: job.previewMax, Next: save}, nil
	}
	return renderer.ProgressFunc(func(p renderer.Progress) { save(p.Preview, p) }), nil
}

// saveChannels writes the diagnostic channels of the buffer into dir
func saveChannels(ctx context.Context, buffer *renderer.Framebuffer, dir string) error {
	for _, channel := range []renderer.Channel{renderer.VarianceChannel, renderer.StandardDeviationChannel, renderer.SamplesChannel} {
		sink, err := output.NewFileSink(filepath.Join(dir, channel.String()+".png"))
		if err != nil {
			return err
		}
		if err := sink.Save(ctx, buffer.Image(channel)); err != nil {
			return err
		}
	}
	return nil
}

func displayRenderStats(ctx *cli.Context, rows []renderer.Progress) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Iteration", "Samples", "Adaptive", "Firefly", "Rays", "Rays/s", "Pass time"})
	for _, row := range rows {
		table.Append([]string{
			fmt.Sprintf("%d/%d", row.Iteration, row.Iterations),
			fmt.Sprintf("%d", row.Pass.TotalSamples),
			fmt.Sprintf("%d", row.Pass.AdaptiveSamples),
			fmt.Sprintf("%d", row.Pass.FireflySamples),
			fmt.Sprintf("%d", row.Pass.Rays),
			fmt.Sprintf("%.3gM", row.Pass.RaysPerSecond()/1e6),
			row.Pass.Duration.Round(time.Millisecond).String(),
		})
	}
	total := rows[len(rows)-1].Total
	table.SetFooter([]string{
		"TOTAL",
		fmt.Sprintf("%d", total.TotalSamples),
		fmt.Sprintf("%d", total.AdaptiveSamples),
		fmt.Sprintf("%d", total.FireflySamples),
		fmt.Sprintf("%d", total.Rays),
		fmt.Sprintf("%.1f spp", total.AverageSamples()),
		total.Duration.Round(time.Millisecond).String(),
	})
	table.Render()
	fmt.Fprint(ctx.App.Writer, buf.String())
}

// describeHost logs the machine the render runs on
func describeHost() {
	infos, err := cpu.Info()
	if err == nil && len(infos) > 0 {
		logger.Infof("cpu: %s, %d logical cores", infos[0].ModelName, renderer.DefaultWorkers())
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		logger.Infof("memory: %d MiB total, %d MiB available", vm.Total>>20, vm.Available>>20)
	}
}
