package scene

import "cyberwalk/core"

// Material describes Blinn-Phong surface appearance for a mesh.
type Material struct {
	Name      string
	Albedo    core.Color // base diffuse color, alpha used when Transparent
	Specular  core.Color
	Shininess float32
	Emissive  core.Color // added after lighting, unaffected by lights
	Unlit     bool       // output albedo * texture directly

	// Transparent meshes are drawn after opaque ones, sorted back to front,
	// with alpha blending and no depth writes.
	Transparent bool
	DoubleSided bool

	// Optional albedo texture; multiplied with Albedo.
	AlbedoTexture *Texture
}

// DefaultMaterial returns a plain white matte material.
func DefaultMaterial() *Material {
	return &Material{
		Name:      "Default",
		Albedo:    core.ColorWhite,
		Specular:  core.Color{R: 0.3, G: 0.3, B: 0.3, A: 1},
		Shininess: 32,
		Emissive:  core.ColorBlack,
	}
}

// NewMaterial creates a lit material with the given albedo color.
func NewMaterial(name string, albedo core.Color) *Material {
	return &Material{
		Name:      name,
		Albedo:    albedo,
		Specular:  core.Color{R: 0.5, G: 0.5, B: 0.5, A: 1},
		Shininess: 32,
		Emissive:  core.ColorBlack,
	}
}

// NewUnlitTextured is the material used by text panels and overlays.
func NewUnlitTextured(name string, tex *Texture) *Material {
	return &Material{
		Name:          name,
		Albedo:        core.ColorWhite,
		Unlit:         true,
		Transparent:   true,
		DoubleSided:   true,
		AlbedoTexture: tex,
	}
}
