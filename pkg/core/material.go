package core

// Material describes how a surface scatters and emits light.
type Material struct {
	Color          Vec3
	Texture        Texture
	NormalTexture  Texture
	BumpTexture    Texture
	GlossTexture   Texture
	BumpMultiplier float64
	Emittance      float64
	Index          float64 // refractive index
	Gloss          float64 // reflection cone angle in radians
	Tint           float64 // specular tinting in [0, 1]
	Reflectivity   float64 // fixed reflection probability; negative means Fresnel
	Transparent    bool
}

// ResolveMaterial evaluates the textures of shape's material at p.
// Texture replaces Color and GlossTexture replaces Gloss with the mean of
// its channels.
func ResolveMaterial(shape Shape, p Vec3) Material {
	material := shape.MaterialAt(p)
	if material.Texture == nil && material.GlossTexture == nil {
		return material
	}
	uv := shape.UV(p)
	if material.Texture != nil {
		material.Color = material.Texture.Sample(uv.X, uv.Y)
	}
	if material.GlossTexture != nil {
		material.Gloss = material.GlossTexture.Sample(uv.X, uv.Y).Average()
	}
	return material
}
