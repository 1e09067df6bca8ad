package cmd

import (
	"github.com/urfave/cli"

	"github.com/df07/go-kd-pathtracer/pkg/scene"
	"github.com/df07/go-kd-pathtracer/web/server"
)

var serveFlags = []cli.Flag{
	cli.StringFlag{Name: "addr", Value: ":8080", Usage: "listen address", EnvVar: "PT_ADDR"},
	cli.StringFlag{Name: "mesh", Usage: "model file (obj, stl, ply) for the mesh scene", EnvVar: "PT_MESH"},
	cli.StringFlag{Name: "texture", Usage: "albedo texture for the mesh scene", EnvVar: "PT_TEXTURE"},
	cli.StringFlag{Name: "environment", Usage: "equirectangular environment map", EnvVar: "PT_ENVIRONMENT"},
}

// Serve streams progressive renders over HTTP.
func Serve(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	s := server.NewServer(ctx.String("addr"), scene.Options{
		MeshPath:        ctx.String("mesh"),
		TexturePath:     ctx.String("texture"),
		EnvironmentPath: ctx.String("environment"),
	})
	return s.Start()
}
