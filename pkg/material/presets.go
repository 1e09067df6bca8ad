package material

import "github.com/df07/go-kd-pathtracer/pkg/core"

// Diffuse is a matte surface
func Diffuse(color core.Vec3) core.Material {
	return core.Material{Color: color, BumpMultiplier: 1, Index: 1, Reflectivity: -1}
}

// Specular is a dielectric coat over a diffuse base, reflecting by Fresnel
func Specular(color core.Vec3, index float64) core.Material {
	return core.Material{Color: color, BumpMultiplier: 1, Index: index, Reflectivity: -1}
}

// Glossy is Specular with a blurred reflection cone of gloss radians
func Glossy(color core.Vec3, index, gloss float64) core.Material {
	return core.Material{Color: color, BumpMultiplier: 1, Index: index, Gloss: gloss, Reflectivity: -1}
}

// Clear is colorless glass
func Clear(index, gloss float64) core.Material {
	return core.Material{BumpMultiplier: 1, Index: index, Gloss: gloss, Reflectivity: -1, Transparent: true}
}

// Transparent is tinted glass
func Transparent(color core.Vec3, index, gloss, tint float64) core.Material {
	return core.Material{
		Color:          color,
		BumpMultiplier: 1,
		Index:          index,
		Gloss:          gloss,
		Tint:           tint,
		Reflectivity:   -1,
		Transparent:    true,
	}
}

// Metallic always reflects; tint blends the reflection towards color
func Metallic(color core.Vec3, gloss, tint float64) core.Material {
	return core.Material{Color: color, BumpMultiplier: 1, Index: 1, Gloss: gloss, Tint: tint, Reflectivity: 1}
}

// Light emits color scaled by emittance
func Light(color core.Vec3, emittance float64) core.Material {
	return core.Material{Color: color, BumpMultiplier: 1, Emittance: emittance, Index: 1, Reflectivity: -1}
}
