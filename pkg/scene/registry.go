package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/df07/go-kd-pathtracer/pkg/core"
	"github.com/df07/go-kd-pathtracer/pkg/loaders"
	"github.com/df07/go-kd-pathtracer/pkg/material"
)

var (
	ErrUnknownScene = errors.New("scene: unknown scene")
	ErrMissingMesh  = errors.New("scene: mesh path required")
)

// View places the camera of an example scene. A zero Aperture disables
// depth of field.
type View struct {
	Eye, Center, Up core.Vec3
	Fovy            float64 // vertical field of view in degrees
	FocalPoint      core.Vec3
	Aperture        float64
}

// Settings are the sampling parameters an example scene was tuned with.
// Callers use them where the user gave no value.
type Settings struct {
	FirstHitSamples int
	MaxBounces      int
	AdaptiveSamples int
	FireflySamples  int
	Iterations      int
}

// Options are inputs shared by all example scenes
type Options struct {
	MeshPath        string // model file for the mesh scene
	TexturePath     string // optional albedo texture for the mesh scene
	EnvironmentPath string // optional equirectangular environment map
	Textures        *material.TextureCache
}

// Setup is a built example scene ready to render
type Setup struct {
	Name     string
	Scene    *Scene
	View     View
	Settings Settings
}

// Info describes a registered example scene
type Info struct {
	Name        string
	Description string
}

type builder func(opts Options) (*Setup, error)

type example struct {
	info  Info
	build builder
}

var examples = map[string]example{
	"cornell":    {Info{"cornell", "Closed box with colored walls, two spheres and a ceiling light"}, buildCornell},
	"spheres":    {Info{"spheres", "Material showcase: diffuse, specular, glossy, tinted glass, clear, metal"}, buildSpheres},
	"grid":       {Info{"grid", "40x40 grid of glossy spheres over a floor"}, buildGrid},
	"ellipsoids": {Info{"ellipsoids", "Scaled and rotated spheres through transformed shapes"}, buildEllipsoids},
	"cylinders":  {Info{"cylinders", "Cylinders on a plane, z-up"}, buildCylinders},
	"sdf":        {Info{"sdf", "Signed distance field solids"}, buildSDF},
	"focus":      {Info{"focus", "Spheres with a thin lens focused on the glass ball"}, buildFocus},
	"mesh":       {Info{"mesh", "A model file on a floor (requires a mesh path)"}, buildMesh},
}

// List returns the registered example scenes sorted by name
func List() []Info {
	infos := make([]Info, 0, len(examples))
	for _, e := range examples {
		infos = append(infos, e.info)
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})
	return infos
}

// Build constructs the named example scene. The environment map, when set,
// is loaded through opts.Textures and replaces the scene background.
func Build(name string, opts Options) (*Setup, error) {
	e, ok := examples[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
	if opts.Textures == nil {
		opts.Textures = material.NewTextureCache(loaders.LoadTexture)
	}

	setup, err := e.build(opts)
	if err != nil {
		return nil, fmt.Errorf("building scene %s: %w", name, err)
	}
	setup.Name = name

	if opts.EnvironmentPath != "" {
		texture, err := opts.Textures.Get(opts.EnvironmentPath)
		if err != nil {
			return nil, fmt.Errorf("loading environment: %w", err)
		}
		setup.Scene.Texture = texture
	}

	logger.Infof("built scene %s: %d shapes, %d lights", name, len(setup.Scene.Shapes()), len(setup.Scene.Lights()))
	return setup, nil
}
