package scene

import (
	"github.com/df07/go-kd-pathtracer/pkg/core"
	"github.com/df07/go-kd-pathtracer/pkg/geometry"
	"github.com/df07/go-kd-pathtracer/pkg/material"
)

var white = core.NewVec3(1, 1, 1)

// NewSpheresScene lines up one sphere per material preset in front of a
// large metal ball
func NewSpheresScene() (*Scene, View) {
	s := New()
	const r = 0.4
	blue := core.HexColor(0x334D5C)

	s.AddAll(
		geometry.NewSphere(core.NewVec3(-2, r, 0), r, material.Diffuse(blue)),
		geometry.NewSphere(core.NewVec3(-1, r, 0), r, material.Specular(blue, 2)),
		geometry.NewSphere(core.NewVec3(0, r, 0), r, material.Glossy(blue, 2, core.Radians(50))),
		geometry.NewSphere(core.NewVec3(1, r, 0), r, material.Transparent(blue, 2, core.Radians(20), 1)),
		geometry.NewSphere(core.NewVec3(2, r, 0), r, material.Clear(2, 0)),
		geometry.NewSphere(core.NewVec3(0, 1.5, -4), 1.5, material.Metallic(white, 0, 1)),
	)
	s.Add(geometry.NewCube(core.NewVec3(-1000, -1, -1000), core.NewVec3(1000, 0, 1000),
		material.Glossy(white, 1.4, core.Radians(20))))
	s.Add(geometry.NewSphere(core.NewVec3(0, 5, 0), 1, material.Light(white, 25)))

	return s, View{
		Eye:    core.NewVec3(0, 3, 6),
		Center: core.NewVec3(0, 1, 0),
		Up:     core.NewVec3(0, 1, 0),
		Fovy:   30,
	}
}

func buildSpheres(Options) (*Setup, error) {
	s, view := NewSpheresScene()
	return &Setup{
		Scene:    s,
		View:     view,
		Settings: Settings{FirstHitSamples: 64, MaxBounces: 6, FireflySamples: 128, Iterations: 500},
	}, nil
}

// NewGridScene creates an n x n grid of small glossy spheres, enough
// shapes to give the scene tree real depth
func NewGridScene(n int) (*Scene, View) {
	s := New()
	gold := material.Glossy(core.HexColor(0xEFC94C), 3, core.Radians(30))
	offset := float64(n-1) / 2

	for x := 0; x < n; x++ {
		for z := 0; z < n; z++ {
			center := core.NewVec3(float64(x)-offset, 0, float64(z)-offset)
			s.Add(geometry.NewSphere(center, 0.4, gold))
		}
	}
	s.Add(geometry.NewCube(core.NewVec3(-100, -1, -100), core.NewVec3(100, 0, 100), material.Glossy(white, 3, core.Radians(30))))
	s.Add(geometry.NewSphere(core.NewVec3(-1, 4, -1), 1, material.Light(white, 20)))

	return s, View{
		Eye:    core.NewVec3(0, 4, -8),
		Center: core.NewVec3(0, 0, -2),
		Up:     core.NewVec3(0, 1, 0),
		Fovy:   45,
	}
}

func buildGrid(Options) (*Setup, error) {
	s, view := NewGridScene(40)
	return &Setup{
		Scene:    s,
		View:     view,
		Settings: Settings{FirstHitSamples: 32, MaxBounces: 4, Iterations: 100},
	}, nil
}

// NewEllipsoidsScene fans six flattened spheres around the y axis
func NewEllipsoidsScene() (*Scene, View) {
	s := New()
	wall := material.Glossy(core.HexColor(0xFCFAE1), 1.333, core.Radians(30))

	s.Add(geometry.NewSphere(core.NewVec3(10, 10, 10), 2, material.Light(white, 50)))
	s.Add(geometry.NewCube(core.NewVec3(-100, -100, -100), core.NewVec3(-12, 100, 100), wall))
	s.Add(geometry.NewCube(core.NewVec3(-100, -100, -100), core.NewVec3(100, -1, 100), wall))

	sphere := geometry.NewSphere(core.Vec3{}, 1, material.Glossy(core.HexColor(0x167F39), 1.333, core.Radians(30)))
	for i := 0; i < 180; i += 30 {
		m := core.Identity().
			Scale(core.NewVec3(0.3, 1, 5)).
			Rotate(core.NewVec3(0, 1, 0), core.Radians(float64(i)))
		s.Add(geometry.NewTransformedShape(sphere, m))
	}

	return s, View{
		Eye:    core.NewVec3(8, 8, 0),
		Center: core.NewVec3(1, 0, 0),
		Up:     core.NewVec3(0, 1, 0),
		Fovy:   45,
	}
}

func buildEllipsoids(Options) (*Setup, error) {
	s, view := NewEllipsoidsScene()
	return &Setup{
		Scene:    s,
		View:     view,
		Settings: Settings{FirstHitSamples: 4, MaxBounces: 4, FireflySamples: 128, Iterations: 50},
	}, nil
}

// NewFocusScene places colored spheres around a small glass ball and
// focuses a thin lens on the glass
func NewFocusScene() (*Scene, View) {
	s := New()
	s.AddAll(
		geometry.NewSphere(core.NewVec3(1.5, 1.25, 0), 1.25, material.Specular(core.HexColor(0x004358), 1.3)),
		geometry.NewSphere(core.NewVec3(-1, 1, 2), 1, material.Specular(core.HexColor(0xFFE11A), 1.3)),
		geometry.NewSphere(core.NewVec3(-2.5, 0.75, 0), 0.75, material.Specular(core.HexColor(0xFD7400), 1.3)),
		geometry.NewSphere(core.NewVec3(-0.75, 0.5, -1), 0.5, material.Clear(1.5, 0)),
	)
	s.Add(geometry.NewCube(core.NewVec3(-10, -1, -10), core.NewVec3(10, 0, 10), material.Glossy(white, 1.1, core.Radians(10))))
	s.Add(geometry.NewSphere(core.NewVec3(-1.5, 4, 0), 0.5, material.Light(white, 30)))

	return s, View{
		Eye:        core.NewVec3(0, 2, -5),
		Center:     core.NewVec3(0, 0.25, 3),
		Up:         core.NewVec3(0, 1, 0),
		Fovy:       45,
		FocalPoint: core.NewVec3(-0.75, 1, -1),
		Aperture:   0.1,
	}
}

func buildFocus(Options) (*Setup, error) {
	s, view := NewFocusScene()
	return &Setup{
		Scene:    s,
		View:     view,
		Settings: Settings{FirstHitSamples: 4, MaxBounces: 8, AdaptiveSamples: 32, FireflySamples: 256, Iterations: 1000},
	}, nil
}
