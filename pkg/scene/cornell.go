package scene

import (
	"github.com/df07/go-kd-pathtracer/pkg/core"
	"github.com/df07/go-kd-pathtracer/pkg/geometry"
	"github.com/df07/go-kd-pathtracer/pkg/material"
)

// NewCornellScene creates a fully enclosed box with a red left wall, a green
// right wall and a single emissive panel under the ceiling. The camera sits
// inside the box in front of the front wall.
func NewCornellScene() (*Scene, View) {
	s := New()

	white := material.Diffuse(core.NewVec3(0.73, 0.73, 0.73))
	red := material.Diffuse(core.NewVec3(0.65, 0.05, 0.05))
	green := material.Diffuse(core.NewVec3(0.12, 0.45, 0.15))

	// interior spans [-1, 1] on every axis; walls are 0.1 thick
	const t = 0.1
	s.AddAll(
		geometry.NewCube(core.NewVec3(-1-t, -1-t, -1-t), core.NewVec3(1+t, -1, 1+t), white), // floor
		geometry.NewCube(core.NewVec3(-1-t, 1, -1-t), core.NewVec3(1+t, 1+t, 1+t), white),   // ceiling
		geometry.NewCube(core.NewVec3(-1-t, -1, -1-t), core.NewVec3(1+t, 1, -1), white),     // back
		geometry.NewCube(core.NewVec3(-1-t, -1, 1), core.NewVec3(1+t, 1, 1+t), white),       // front
		geometry.NewCube(core.NewVec3(-1-t, -1, -1), core.NewVec3(-1, 1, 1), red),
		geometry.NewCube(core.NewVec3(1, -1, -1), core.NewVec3(1+t, 1, 1), green),
	)

	s.Add(geometry.NewCube(core.NewVec3(-0.3, 0.98, -0.3), core.NewVec3(0.3, 1, 0.3), material.Light(core.NewVec3(1, 1, 1), 15)))

	s.Add(geometry.NewSphere(core.NewVec3(-0.45, -0.6, -0.35), 0.4, material.Specular(core.NewVec3(0.73, 0.73, 0.73), 1.5)))
	s.Add(geometry.NewSphere(core.NewVec3(0.45, -0.65, 0.2), 0.35, material.Clear(1.5, 0)))

	view := View{
		Eye:    core.NewVec3(0, 0, 0.95),
		Center: core.NewVec3(0, 0, -1),
		Up:     core.NewVec3(0, 1, 0),
		Fovy:   70,
	}
	return s, view
}

func buildCornell(Options) (*Setup, error) {
	s, view := NewCornellScene()
	return &Setup{
		Scene:    s,
		View:     view,
		Settings: Settings{FirstHitSamples: 16, MaxBounces: 6, FireflySamples: 64, Iterations: 100},
	}, nil
}
