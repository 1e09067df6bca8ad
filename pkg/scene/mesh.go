package scene

import (
	"fmt"

	"github.com/df07/go-kd-pathtracer/pkg/core"
	"github.com/df07/go-kd-pathtracer/pkg/geometry"
	"github.com/df07/go-kd-pathtracer/pkg/loaders"
	"github.com/df07/go-kd-pathtracer/pkg/material"
)

// NewMeshScene fits mesh into a 2x2x2 box standing on a floor, lit by one
// spherical light. The mesh's triangles are given m.
func NewMeshScene(mesh *geometry.Mesh, m core.Material) (*Scene, View) {
	s := New()

	mesh.SetMaterial(m)
	mesh.FitInside(core.NewAABB(core.NewVec3(-1, 0, -1), core.NewVec3(1, 2, 1)), core.NewVec3(0.5, 0, 0.5))
	s.Add(mesh)

	s.Add(geometry.NewCube(core.NewVec3(-1000, -1, -1000), core.NewVec3(1000, 0, 1000),
		material.Glossy(core.HexColor(0xFCFFF5), 1.2, core.Radians(30))))
	s.Add(geometry.NewSphere(core.NewVec3(2, 5, 3), 1, material.Light(white, 40)))

	return s, View{
		Eye:    core.NewVec3(0, 2.5, 5),
		Center: core.NewVec3(0, 0.9, 0),
		Up:     core.NewVec3(0, 1, 0),
		Fovy:   40,
	}
}

func buildMesh(opts Options) (*Setup, error) {
	if opts.MeshPath == "" {
		return nil, ErrMissingMesh
	}
	mesh, err := loaders.LoadMesh(opts.MeshPath)
	if err != nil {
		return nil, err
	}

	m := material.Glossy(core.HexColor(0xB7CA79), 1.5, core.Radians(20))
	if opts.TexturePath != "" {
		texture, err := opts.Textures.Get(opts.TexturePath)
		if err != nil {
			return nil, fmt.Errorf("loading mesh texture: %w", err)
		}
		m.Texture = texture
	}

	s, view := NewMeshScene(mesh, m)
	return &Setup{
		Scene:    s,
		View:     view,
		Settings: Settings{FirstHitSamples: 16, MaxBounces: 4, FireflySamples: 64, Iterations: 100},
	}, nil
}
