package scene

import (
	"github.com/df07/go-kd-pathtracer/pkg/core"
	"github.com/df07/go-kd-pathtracer/pkg/geometry"
	"github.com/df07/go-kd-pathtracer/pkg/material"
)

// NewCylindersScene stands a tube on an infinite floor and lays a second
// tube across it. The scene is z-up.
func NewCylindersScene() (*Scene, View) {
	s := New()
	floor := material.Diffuse(white)

	s.Add(geometry.NewPlane(core.Vec3{}, core.NewVec3(0, 0, 1), floor))

	const height = 2.0
	standing := geometry.NewTransformedShape(
		geometry.NewCylinder(1, 0, height, material.Glossy(core.NewVec3(0.4, 0.4, 1), 1.1, core.Radians(10))),
		core.Translate(core.NewVec3(0, 0, -height/2)),
	)
	s.Add(standing)
	s.Add(geometry.NewTransformedCylinder(core.NewVec3(-1.5, 1.5, 0.25), core.NewVec3(1.5, 1.5, 0.25), 0.25,
		material.Specular(core.HexColor(0xFD7400), 1.5)))

	s.Add(geometry.NewSphere(core.NewVec3(0, 0, 5), 1, material.Light(white, 8)))

	return s, View{
		Eye:    core.NewVec3(3, 3, 3),
		Center: core.NewVec3(0, 0, 0.5),
		Up:     core.NewVec3(0, 0, 1),
		Fovy:   50,
	}
}

func buildCylinders(Options) (*Setup, error) {
	s, view := NewCylindersScene()
	return &Setup{
		Scene:    s,
		View:     view,
		Settings: Settings{FirstHitSamples: 16, MaxBounces: 4, AdaptiveSamples: 128, FireflySamples: 32, Iterations: 100},
	}, nil
}

// NewSDFScene places a sphere-carved cube, a torus and a capsule on a
// floor. Each solid is sphere traced.
func NewSDFScene() (*Scene, View) {
	s := New()

	carved := geometry.NewDifferenceSDF(
		geometry.NewIntersectionSDF(
			geometry.NewCubeSDF(core.NewVec3(1.6, 1.6, 1.6)),
			geometry.NewSphereSDF(1.05),
		),
		geometry.NewSphereSDF(0.85),
	)
	s.Add(geometry.NewSDFShape(
		geometry.NewTransformSDF(carved, core.Translate(core.NewVec3(0, 0.8, 0))),
		material.Glossy(core.HexColor(0xD90000), 1.4, core.Radians(10)),
	))

	torus := core.Identity().
		Rotate(core.NewVec3(1, 0, 0), core.Radians(90)).
		Translate(core.NewVec3(-2, 0.25, 0.5))
	s.Add(geometry.NewSDFShape(
		geometry.NewTransformSDF(geometry.NewTorusSDF(0.6, 0.25), torus),
		material.Specular(core.HexColor(0x167F39), 1.5),
	))

	s.Add(geometry.NewSDFShape(
		geometry.NewCapsuleSDF(core.NewVec3(1.8, 0.3, -0.5), core.NewVec3(2.2, 1.5, 0.5), 0.3),
		material.Metallic(core.HexColor(0xEFC94C), core.Radians(15), 0.8),
	))

	s.Add(geometry.NewCube(core.NewVec3(-50, -1, -50), core.NewVec3(50, 0, 50), material.Diffuse(core.HexColor(0xFCFAE1))))
	s.Add(geometry.NewSphere(core.NewVec3(0, 6, 3), 1, material.Light(white, 30)))

	return s, View{
		Eye:    core.NewVec3(0, 3, 6),
		Center: core.NewVec3(0, 0.6, 0),
		Up:     core.NewVec3(0, 1, 0),
		Fovy:   40,
	}
}

func buildSDF(Options) (*Setup, error) {
	s, view := NewSDFScene()
	return &Setup{
		Scene:    s,
		View:     view,
		Settings: Settings{FirstHitSamples: 4, MaxBounces: 4, FireflySamples: 32, Iterations: 50},
	}, nil
}
