package integrator

import (
	"math"

	"github.com/df07/go-kd-pathtracer/pkg/core"
	"github.com/df07/go-kd-pathtracer/pkg/scene"
)

// sampleLights estimates direct light at the probe ray (hit point, normal)
func (pt *PathTracingIntegrator) sampleLights(s *scene.Scene, probe core.Ray, sampler core.Sampler) core.Vec3 {
	lights := s.Lights()
	if len(lights) == 0 {
		return core.Vec3{}
	}

	if pt.config.LightMode == LightModeAll {
		result := core.Vec3{}
		for _, light := range lights {
			result = result.Add(pt.sampleLight(s, probe, light, sampler))
		}
		return result
	}

	light := lights[core.RandomIndex(sampler, len(lights))]
	return pt.sampleLight(s, probe, light, sampler).Multiply(float64(len(lights)))
}

// sampleLight returns the light arriving at the probe from one light. The
// shadow ray must hit exactly that light.
func (pt *PathTracingIntegrator) sampleLight(s *scene.Scene, probe core.Ray, light core.Shape, sampler core.Sampler) core.Vec3 {
	center, radius := lightBounds(light)

	point := center
	if pt.config.SoftShadows {
		d := core.RandomInUnitDisk(sampler)
		l := center.Subtract(probe.Origin).Normalize()
		u := l.Cross(core.RandomUnitVector(sampler)).Normalize()
		v := l.Cross(u)
		point = center.Add(u.Multiply(d.X * radius)).Add(v.Multiply(d.Y * radius))
	}

	ray := core.NewRay(probe.Origin, point.Subtract(probe.Origin).Normalize())
	diffuse := ray.Direction.Dot(probe.Direction)
	if diffuse <= 0 {
		return core.Vec3{}
	}

	hit := s.Intersect(ray)
	if !hit.Ok() || hit.Shape != light {
		return core.Vec3{}
	}

	cov := coverage(radius, center.Subtract(probe.Origin).Length())
	material := core.ResolveMaterial(light, point)
	return material.Color.Multiply(material.Emittance * diffuse * cov)
}

// lightBounds returns the sampling sphere of a light: the true sphere when
// the light is one, the bounding sphere of its box otherwise
func lightBounds(light core.Shape) (core.Vec3, float64) {
	if sphere, ok := light.(core.SphereLike); ok {
		return sphere.AsSphere()
	}
	box := light.BoundingBox()
	return box.Center(), box.OuterRadius()
}

// coverage is the fraction of the hemisphere subtended by a sphere of the
// given radius at the given distance, tan² of its half angle, capped at 1.
// A viewer inside the sphere is fully covered.
func coverage(radius, distance float64) float64 {
	if distance <= radius {
		return 1
	}
	sin := radius / distance
	sin2 := sin * sin
	return math.Min(sin2/(1-sin2), 1)
}
