package metadata

type ResourceType int

/** @brief Pre-defined resource types. */
const (
	/** @brief Not a resource handled by the engine. */
	ResourceTypeNone ResourceType = iota
	/** @brief Mesh resource type (OBJ model). */
	ResourceTypeMesh
	/** @brief Material library resource type (MTL). */
	ResourceTypeMaterial
	/** @brief Image resource type (textures). */
	ResourceTypeImage
)

func (rt ResourceType) String() string {
	switch rt {
	case ResourceTypeMesh:
		return "mesh"
	case ResourceTypeMaterial:
		return "material"
	case ResourceTypeImage:
		return "image"
	default:
		return "none"
	}
}

/**
 * @brief A generic structure for a resource. All resource loaders
 * load data into these.
 */
type Resource struct {
	/** @brief The resource type. */
	Type ResourceType
	/** @brief The name of the resource. */
	Name string
	/** @brief The full file path of the resource. */
	FullPath string
	/** @brief The size of the resource data in bytes. */
	DataSize uint64
	/** @brief The resource data. */
	Data interface{}
}
