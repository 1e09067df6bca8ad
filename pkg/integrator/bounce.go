package integrator

import (
	"github.com/df07/go-kd-pathtracer/pkg/core"
)

// bounce is a sampled continuation of a path
type bounce struct {
	ray         core.Ray
	specular    bool    // reflected or refracted, as opposed to diffuse
	probability float64 // probability of the chosen lobe
}

// bounceRay scatters the incoming ray at a hit. The reflection probability
// is the material's fixed reflectivity or the Fresnel reflectance. mode
// forces reflection (Specular), forbids it (Diffuse) or draws it (Any).
// Transparent materials refract instead of scattering diffusely, and
// reflect when refraction is impossible.
func bounceRay(incoming core.Ray, info *core.HitInfo, u, v float64, mode BounceType, sampler core.Sampler) bounce {
	incoming.Direction = incoming.Direction.Normalize()
	n := info.Ray
	material := info.Material

	n1, n2 := 1.0, material.Index
	if info.Inside {
		n1, n2 = n2, n1
	}

	var p float64
	if material.Reflectivity >= 0 {
		p = material.Reflectivity
	} else {
		p = n.Reflectance(incoming, n1, n2)
	}

	var reflect bool
	switch mode {
	case BounceTypeAny:
		reflect = sampler.Get1D() < p
	case BounceTypeDiffuse:
		reflect = false
	case BounceTypeSpecular:
		reflect = true
	}

	switch {
	case reflect:
		reflected := n.Reflect(incoming)
		return bounce{reflected.ConeBounce(material.Gloss, u, v, sampler), true, p}
	case material.Transparent:
		refracted := n.Refract(incoming, n1, n2)
		if refracted.Direction == (core.Vec3{}) {
			refracted = n.Reflect(incoming)
		}
		return bounce{refracted.ConeBounce(material.Gloss, u, v, sampler), true, 1 - p}
	default:
		return bounce{n.WeightedBounce(u, v, sampler), false, 1 - p}
	}
}
