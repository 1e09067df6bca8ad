package cmd

import (
	"github.com/urfave/cli"
)

// NewApp builds the command line application
func NewApp() *cli.App {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "go-kd-pathtracer"
	app.Usage = "render scenes with a k-d tree accelerated path tracer"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:   "log-level",
			Usage:  "debug, info, notice, warning or error",
			EnvVar: "PT_LOG_LEVEL",
		},
		cli.StringFlag{
			Name:  "env",
			Value: DefaultEnvFile,
			Usage: "dotenv file supplying PT_* and S3_* defaults",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "render",
			Usage:     "render an example scene",
			ArgsUsage: "scene",
			Description: `
Render one of the example scenes progressively. Every iteration adds one pass
of samples to each pixel; the image is written after the last iteration.

The output may be a local file or an s3://bucket/key URL. The format follows
the extension. Flags not given fall back to the values the scene was tuned
with.`,
			Flags:  renderFlags,
			Action: Render,
		},
		{
			Name:  "serve",
			Usage: "stream progressive renders to a browser",
			Description: `
Serve a small HTTP API. /api/render streams one preview per iteration as
server-sent events. /api/inspect reports what the camera sees through a pixel.`,
			Flags:  serveFlags,
			Action: Serve,
		},
		{
			Name:   "scenes",
			Usage:  "list the example scenes",
			Action: ListScenes,
		},
	}
	return app
}
