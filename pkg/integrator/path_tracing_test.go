package integrator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-kd-pathtracer/pkg/core"
	"github.com/df07/go-kd-pathtracer/pkg/geometry"
	"github.com/df07/go-kd-pathtracer/pkg/material"
	"github.com/df07/go-kd-pathtracer/pkg/scene"
)

var white = core.NewVec3(1, 1, 1)

func newSampler(seed int64) core.Sampler {
	return core.NewRandomSampler(rand.New(rand.NewSource(seed)))
}

func vecNear(a, b core.Vec3, tol float64) bool {
	return math.Abs(a.X-b.X) < tol && math.Abs(a.Y-b.Y) < tol && math.Abs(a.Z-b.Z) < tol
}

// MockTexture returns a fixed color and records the last lookup
type MockTexture struct {
	color core.Vec3
	u, v  float64
}

func (m *MockTexture) Sample(u, v float64) core.Vec3 {
	m.u, m.v = u, v
	return m.color
}

func (m *MockTexture) NormalSample(u, v float64) core.Vec3 { return core.NewVec3(0, 0, 1) }
func (m *MockTexture) BumpSample(u, v float64) core.Vec3   { return core.Vec3{} }

// MockPanicShape is a sphere that answers the first ray and panics on every
// later one
type MockPanicShape struct {
	*geometry.Sphere
	calls int
}

func (m *MockPanicShape) Intersect(r core.Ray) core.Hit {
	m.calls++
	if m.calls > 1 {
		panic("mock intersection failure")
	}
	hit := m.Sphere.Intersect(r)
	if hit.Ok() {
		hit.Shape = m
	}
	return hit
}

func lightScene() *scene.Scene {
	s := scene.New()
	s.Add(geometry.NewSphere(core.NewVec3(0, 5, 0), 0.5, material.Light(white, 10)))
	s.Compile()
	return s
}

func TestNewPathTracingIntegrator_RoundsSamples(t *testing.T) {
	tests := []struct{ in, want int }{{0, 1}, {1, 1}, {4, 4}, {8, 4}, {16, 16}, {-3, 1}}
	for _, tt := range tests {
		got := NewPathTracingIntegrator(DefaultConfig(tt.in, 2)).Config().FirstHitSamples
		if got != tt.want {
			t.Errorf("FirstHitSamples %d became %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestPathTracing_EmissionOnFirstHit(t *testing.T) {
	s := lightScene()
	pt := NewPathTracingIntegrator(DefaultConfig(4, 3))

	got := pt.Sample(s, core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0)), newSampler(1))
	if !vecNear(got, core.NewVec3(10, 10, 10), 1e-9) {
		t.Errorf("looking straight at a light: got %v, want (10, 10, 10)", got)
	}
}

func TestPathTracing_EmissionAfterDiffuseBounce(t *testing.T) {
	s := lightScene()
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0))

	pt := NewPathTracingIntegrator(DefaultConfig(1, 3))
	if got := pt.estimate(s, ray, false, 1, 1, newSampler(1)); got != (core.Vec3{}) {
		t.Errorf("direct lighting on: emission after a diffuse bounce counted: %v", got)
	}

	config := DefaultConfig(1, 3)
	config.DirectLighting = false
	pt = NewPathTracingIntegrator(config)
	if got := pt.estimate(s, ray, false, 1, 1, newSampler(1)); !vecNear(got, core.NewVec3(10, 10, 10), 1e-9) {
		t.Errorf("direct lighting off: got %v, want the light's emission", got)
	}
}

func TestPathTracing_DepthTermination(t *testing.T) {
	s := lightScene()
	pt := NewPathTracingIntegrator(DirectConfig())
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0))

	if got := pt.estimate(s, ray, true, 1, 1, newSampler(1)); got != (core.Vec3{}) {
		t.Errorf("vertex past MaxBounces returned %v", got)
	}
}

func TestSampleEnvironment(t *testing.T) {
	s := scene.New()
	s.Color = core.NewVec3(0.2, 0.3, 0.4)
	ray := core.NewRay(core.Vec3{}, core.NewVec3(1, 0, 0))

	if got := sampleEnvironment(s, ray); got != s.Color {
		t.Errorf("flat background: got %v, want %v", got, s.Color)
	}

	texture := &MockTexture{color: core.NewVec3(1, 0, 0)}
	s.Texture = texture
	if got := sampleEnvironment(s, ray); got != texture.color {
		t.Errorf("environment map: got %v", got)
	}
	if math.Abs(texture.u-0.5) > 1e-12 || math.Abs(texture.v-0.5) > 1e-12 {
		t.Errorf("+X maps to (%v, %v), want (0.5, 0.5)", texture.u, texture.v)
	}

	sampleEnvironment(s, core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0)))
	if math.Abs(texture.v-1) > 1e-12 {
		t.Errorf("+Y maps to v=%v, want 1", texture.v)
	}

	s.TextureAngle = math.Pi / 2
	sampleEnvironment(s, ray)
	if math.Abs(texture.u-0.75) > 1e-12 {
		t.Errorf("rotated map: u=%v, want 0.75", texture.u)
	}
}

func TestSampleLight(t *testing.T) {
	light := geometry.NewSphere(core.NewVec3(0, 5, 0), 0.5, material.Light(white, 10))
	config := DefaultConfig(1, 1)
	config.SoftShadows = false
	pt := NewPathTracingIntegrator(config)

	open := scene.New()
	open.Add(light)
	open.Compile()

	blocked := scene.New()
	blocked.Add(light)
	blocked.Add(geometry.NewCube(core.NewVec3(-1, 2, -1), core.NewVec3(1, 2.5, 1), material.Diffuse(white)))
	blocked.Compile()

	sin2 := 0.1 * 0.1
	unoccluded := 10 * sin2 / (1 - sin2)

	tests := []struct {
		name  string
		s     *scene.Scene
		probe core.Ray
		want  float64
	}{
		{"visible", open, core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0)), unoccluded},
		{"occluded", blocked, core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0)), 0},
		{"behind surface", open, core.NewRay(core.Vec3{}, core.NewVec3(0, -1, 0)), 0},
		{"grazing", open, core.NewRay(core.Vec3{}, core.NewVec3(1, 0, 0)), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pt.sampleLight(tt.s, tt.probe, light, newSampler(3))
			if !vecNear(got, core.NewVec3(tt.want, tt.want, tt.want), 1e-9) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSampleLight_SoftShadowsOccluded(t *testing.T) {
	light := geometry.NewSphere(core.NewVec3(0, 5, 0), 0.5, material.Light(white, 10))
	s := scene.New()
	s.Add(light)
	s.Add(geometry.NewCube(core.NewVec3(-2, 2, -2), core.NewVec3(2, 2.5, 2), material.Diffuse(white)))
	s.Compile()

	pt := NewPathTracingIntegrator(DefaultConfig(1, 1))
	sampler := newSampler(5)
	for i := 0; i < 200; i++ {
		probe := core.NewRay(core.NewVec3(sampler.Get1D()-0.5, 0, sampler.Get1D()-0.5), core.NewVec3(0, 1, 0))
		if got := pt.sampleLights(s, probe, sampler); got != (core.Vec3{}) {
			t.Fatalf("probe %v behind the occluder received %v", probe.Origin, got)
		}
	}
}

func TestSampleLights_Modes(t *testing.T) {
	s := scene.New()
	s.Add(geometry.NewSphere(core.NewVec3(-3, 4, 0), 0.5, material.Light(white, 10)))
	s.Add(geometry.NewSphere(core.NewVec3(3, 4, 0), 0.5, material.Light(white, 10)))
	s.Compile()
	probe := core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0))

	config := DefaultConfig(1, 1)
	config.SoftShadows = false
	config.LightMode = LightModeAll
	all := NewPathTracingIntegrator(config).sampleLights(s, probe, newSampler(1))

	config.LightMode = LightModeRandom
	random := NewPathTracingIntegrator(config)
	sampler := newSampler(2)
	for i := 0; i < 10; i++ {
		if got := random.sampleLights(s, probe, sampler); !vecNear(got, all, 1e-9) {
			t.Errorf("random light scaled by count = %v, all lights = %v", got, all)
		}
	}
	if all.X <= 0 {
		t.Errorf("symmetric lights contributed nothing")
	}

	if got := random.sampleLights(scene.New(), probe, sampler); got != (core.Vec3{}) {
		t.Errorf("scene without lights returned %v", got)
	}
}

func TestCoverage(t *testing.T) {
	tests := []struct {
		radius, distance, want float64
	}{
		{1, 0.5, 1},
		{1, 1, 1},
		{0, 5, 0},
		{0.5, 5, 0.01 / 0.99},
		{0.9, 1, 1},
	}
	for _, tt := range tests {
		if got := coverage(tt.radius, tt.distance); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("coverage(%v, %v) = %v, want %v", tt.radius, tt.distance, got, tt.want)
		}
	}
}

func TestBounceRay(t *testing.T) {
	up := core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0))
	down := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))
	oblique := core.NewRay(core.NewVec3(-1, 1, 0), core.NewVec3(1, -1, 0).Normalize())

	t.Run("metal reflects", func(t *testing.T) {
		info := &core.HitInfo{Ray: up, Material: material.Metallic(white, 0, 0)}
		b := bounceRay(oblique, info, 0.3, 0.7, BounceTypeAny, newSampler(1))
		want := core.NewVec3(1, 1, 0).Normalize()
		if !b.specular || b.probability != 1 || !vecNear(b.ray.Direction, want, 1e-12) {
			t.Errorf("got %+v, want mirror direction %v", b, want)
		}
	})

	t.Run("glass refracts at normal incidence", func(t *testing.T) {
		info := &core.HitInfo{Ray: up, Material: material.Clear(1.5, 0)}
		b := bounceRay(down, info, 0.3, 0.7, BounceTypeDiffuse, newSampler(1))
		if !b.specular || math.Abs(b.probability-0.96) > 1e-12 {
			t.Errorf("got specular=%v p=%v, want refraction with p=0.96", b.specular, b.probability)
		}
		if !vecNear(b.ray.Direction, core.NewVec3(0, -1, 0), 1e-12) {
			t.Errorf("normal incidence bent to %v", b.ray.Direction)
		}
	})

	t.Run("total internal reflection", func(t *testing.T) {
		info := &core.HitInfo{Ray: up, Material: material.Clear(1.5, 0), Inside: true}
		grazing := core.NewRay(core.NewVec3(-1, 1, 0), core.NewVec3(0.9, -0.3, 0).Normalize())
		b := bounceRay(grazing, info, 0.3, 0.7, BounceTypeDiffuse, newSampler(1))
		want := core.NewVec3(0.9, 0.3, 0).Normalize()
		if !vecNear(b.ray.Direction, want, 1e-12) {
			t.Errorf("got %v, want reflection %v", b.ray.Direction, want)
		}
	})

	t.Run("diffuse stays in the hemisphere", func(t *testing.T) {
		info := &core.HitInfo{Ray: up, Material: material.Diffuse(white)}
		sampler := newSampler(9)
		for i := 0; i < 100; i++ {
			b := bounceRay(oblique, info, sampler.Get1D(), sampler.Get1D(), BounceTypeAny, sampler)
			if b.specular || b.ray.Direction.Dot(up.Direction) < 0 {
				t.Fatalf("diffuse bounce %+v left the hemisphere", b)
			}
		}
	})
}

func TestPathTracing_RecoversFromPanics(t *testing.T) {
	s := scene.New()
	s.Add(&MockPanicShape{Sphere: geometry.NewSphere(core.Vec3{}, 1, material.Diffuse(white))})
	s.Compile()

	pt := NewPathTracingIntegrator(DefaultConfig(4, 3))
	got := pt.Sample(s, core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1)), newSampler(1))
	if got != (core.Vec3{}) {
		t.Errorf("failed strata contributed %v", got)
	}
}

func TestPathTracing_DropsNonFiniteStrata(t *testing.T) {
	s := scene.New()
	nan := math.NaN()
	s.Add(geometry.NewSphere(core.Vec3{}, 1, material.Diffuse(core.NewVec3(nan, nan, nan))))
	s.Compile()

	pt := NewPathTracingIntegrator(DefaultConfig(4, 3))
	got := pt.Sample(s, core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1)), newSampler(1))
	if !got.IsFinite() {
		t.Errorf("NaN material leaked into the estimate: %v", got)
	}
}

func TestPathTracing_Deterministic(t *testing.T) {
	s, view := scene.NewSpheresScene()
	s.Compile()
	pt := NewPathTracingIntegrator(DefaultConfig(4, 4))
	ray := core.NewRay(view.Eye, view.Center.Subtract(view.Eye).Normalize())

	a := pt.Sample(s, ray, newSampler(11))
	b := pt.Sample(s, ray, newSampler(11))
	if a != b {
		t.Errorf("same seed gave %v and %v", a, b)
	}
}

// TestPathTracing_EnergyBound renders a point inside the closed box and
// checks that the estimate stays finite, positive and below the emittance
// of its only light
func TestPathTracing_EnergyBound(t *testing.T) {
	s, view := scene.NewCornellScene()
	s.Compile()

	for _, mode := range []SpecularMode{SpecularModeNaive, SpecularModeFirst, SpecularModeAll} {
		config := DefaultConfig(1, 4)
		config.SpecularMode = mode
		pt := NewPathTracingIntegrator(config)
		sampler := newSampler(21)

		const n = 400
		sum := core.Vec3{}
		for i := 0; i < n; i++ {
			dir := core.NewVec3(sampler.Get1D()-0.5, sampler.Get1D()-0.5, -1).Normalize()
			c := pt.Sample(s, core.NewRay(view.Eye, dir), sampler)
			if !c.IsFinite() {
				t.Fatalf("%v: non-finite sample %v", mode, c)
			}
			sum = sum.Add(c)
		}
		mean := sum.Divide(n)
		if mean.MaxComponent() <= 0 || mean.MaxComponent() > 15 {
			t.Errorf("%v: mean radiance %v outside (0, 15]", mode, mean)
		}
	}
}

func TestParseModes(t *testing.T) {
	if m, err := ParseLightMode("ALL"); err != nil || m != LightModeAll {
		t.Errorf("ParseLightMode(ALL) = %v, %v", m, err)
	}
	if _, err := ParseLightMode("some"); err == nil {
		t.Error("ParseLightMode accepted an unknown name")
	}
	for _, m := range []SpecularMode{SpecularModeNaive, SpecularModeFirst, SpecularModeAll} {
		if got, err := ParseSpecularMode(m.String()); err != nil || got != m {
			t.Errorf("ParseSpecularMode(%q) = %v, %v", m.String(), got, err)
		}
	}
}
