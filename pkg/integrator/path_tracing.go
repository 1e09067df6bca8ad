package integrator

import (
	"math"

	"github.com/df07/go-kd-pathtracer/pkg/core"
	"github.com/df07/go-kd-pathtracer/pkg/scene"
)

// PathTracingIntegrator is a recursive, stratified Monte Carlo path tracer
// with explicit light sampling at diffuse vertices.
type PathTracingIntegrator struct {
	config Config
}

// NewPathTracingIntegrator creates a path tracer. FirstHitSamples is
// rounded down to a perfect square of at least one.
func NewPathTracingIntegrator(config Config) *PathTracingIntegrator {
	n := int(math.Sqrt(float64(config.FirstHitSamples)))
	if n < 1 {
		n = 1
	}
	if n*n != config.FirstHitSamples {
		logger.Warningf("first hit samples %d is not a square, using %d", config.FirstHitSamples, n*n)
		config.FirstHitSamples = n * n
	}
	if config.MaxBounces < 0 {
		config.MaxBounces = 0
	}
	return &PathTracingIntegrator{config: config}
}

// Config returns the effective configuration
func (pt *PathTracingIntegrator) Config() Config {
	return pt.config
}

// Sample estimates the radiance along a camera ray
func (pt *PathTracingIntegrator) Sample(s *scene.Scene, ray core.Ray, sampler core.Sampler) core.Vec3 {
	return pt.estimate(s, ray, true, pt.config.FirstHitSamples, 0, sampler)
}

// estimate returns the radiance along ray using samples stratified bounces
// at the first vertex. Emission is only counted when emission is set or
// lights are not sampled explicitly.
func (pt *PathTracingIntegrator) estimate(s *scene.Scene, ray core.Ray, emission bool, samples, depth int, sampler core.Sampler) core.Vec3 {
	if depth > pt.config.MaxBounces {
		return core.Vec3{}
	}

	hit := s.Intersect(ray)
	if !hit.Ok() {
		return sampleEnvironment(s, ray)
	}

	info := hit.Info(ray)
	material := info.Material
	result := core.Vec3{}

	if material.Emittance > 0 {
		if pt.config.DirectLighting && !emission {
			return core.Vec3{}
		}
		result = result.Add(material.Color.Multiply(material.Emittance * float64(samples)))
	}

	n := int(math.Sqrt(float64(samples)))
	if n < 1 {
		n = 1
	}

	modes := []BounceType{BounceTypeAny}
	if pt.config.SpecularMode == SpecularModeAll || (depth == 0 && pt.config.SpecularMode == SpecularModeFirst) {
		modes = []BounceType{BounceTypeDiffuse, BounceTypeSpecular}
	}

	for u := 0; u < n; u++ {
		for v := 0; v < n; v++ {
			fu := (float64(u) + sampler.Get1D()) / float64(n)
			fv := (float64(v) + sampler.Get1D()) / float64(n)
			for _, mode := range modes {
				result = result.Add(pt.stratum(s, ray, info, fu, fv, mode, depth, sampler))
			}
		}
	}

	return result.Divide(float64(n * n))
}

// stratum evaluates one bounce of one stratum. A panic or a non-finite
// result is logged and counts as zero.
func (pt *PathTracingIntegrator) stratum(s *scene.Scene, ray core.Ray, info *core.HitInfo, u, v float64, mode BounceType, depth int, sampler core.Sampler) (c core.Vec3) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warningf("dropped stratum at depth %d: %v", depth, r)
			c = core.Vec3{}
		}
	}()

	material := info.Material
	b := bounceRay(ray, info, u, v, mode, sampler)
	p := b.probability
	if mode == BounceTypeAny {
		p = 1
	}
	if p <= 0 {
		return core.Vec3{}
	}

	indirect := pt.estimate(s, b.ray, b.specular, 1, depth+1, sampler)
	if b.specular {
		tinted := indirect.Mix(material.Color.MultiplyVec(indirect), material.Tint)
		c = tinted.Multiply(p)
	} else {
		direct := core.Vec3{}
		if pt.config.DirectLighting {
			direct = pt.sampleLights(s, info.Ray, sampler)
		}
		c = material.Color.MultiplyVec(direct.Add(indirect)).Multiply(p)
	}

	if !c.IsFinite() {
		logger.Warningf("dropped non-finite stratum at depth %d: %v", depth, c)
		return core.Vec3{}
	}
	return c
}

// sampleEnvironment looks up the equirectangular environment map, or the
// flat background color when there is none
func sampleEnvironment(s *scene.Scene, ray core.Ray) core.Vec3 {
	if s.Texture == nil {
		return s.Color
	}
	d := ray.Direction
	u := math.Atan2(d.Z, d.X) + s.TextureAngle
	v := math.Atan2(d.Y, core.NewVec3(d.X, 0, d.Z).Length())
	u = (u + math.Pi) / (2 * math.Pi)
	v = (v + math.Pi/2) / math.Pi
	return s.Texture.Sample(u, v)
}
