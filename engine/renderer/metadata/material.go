package metadata

import "github.com/spaghettifunk/meshview/engine/math"

/** @brief The name of the default material. */
const DefaultMaterialName string = "default"

/**
 * @brief A Phong material read from a material library. Every property
 * that is absent from the file stays at its zero value.
 */
type Material struct {
	/** @brief The material name, unique within a mesh. */
	Name string
	/** @brief The ambient colour (Ka). */
	Ambient math.Vec3
	/** @brief The diffuse colour (Kd). */
	Diffuse math.Vec3
	/** @brief The specular colour (Ks). */
	Specular math.Vec3
	/** @brief The specular exponent (Ns). */
	Shininess float32
	/** @brief The diffuse texture map (map_Kd). Nil when the material has none. */
	DiffuseMap *TextureMap
}

func NewMaterial(name string) *Material {
	return &Material{Name: name}
}

// DefaultMaterial is bound to faces that appear before any material selection.
func DefaultMaterial() *Material {
	return &Material{
		Name:      DefaultMaterialName,
		Ambient:   math.NewVec3Splat(0.63),
		Diffuse:   math.NewVec3Splat(0.63),
		Specular:  math.NewVec3Splat(0.5),
		Shininess: 30,
	}
}
