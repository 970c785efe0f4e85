package metadata

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/math"
)

// MeshLoadParams are the options of one mesh load.
type MeshLoadParams struct {
	// Normalize rescales the mesh to a unit bounding box at the origin.
	Normalize bool
	// RequireAttributes rejects face corners without texcoord and normal indices.
	RequireAttributes bool
	// GenerateNormals fills flat face normals for corners without a normal index.
	GenerateNormals bool
}

/**
 * @brief A contiguous group of triangles sharing one material.
 */
type SubMesh struct {
	/** @brief Triangle corner indices into Mesh.Vertices, one triangle per consecutive triple. */
	Indices []uint32
	/** @brief The material of every triangle in the group. Not owned. */
	Material *Material
}

// TriangleCount returns the number of triangles in the submesh.
func (sm *SubMesh) TriangleCount() int {
	return len(sm.Indices) / 3
}

// MaterialName returns the bound material name, or an empty string.
func (sm *SubMesh) MaterialName() string {
	if sm.Material == nil {
		return ""
	}
	return sm.Material.Name
}

/**
 * @brief A triangle mesh parsed from a model file. Vertices are stored in the
 * order face corners were read and are never deduplicated.
 */
type Mesh struct {
	/** @brief Unique identifier assigned on load. */
	ID uuid.UUID
	/** @brief Base name of the source file. */
	Name string
	/** @brief Full path of the source file. */
	Path string

	Vertices  []math.Vertex3D
	SubMeshes []*SubMesh
	Materials map[string]*Material

	VertexCount   uint32
	TriangleCount uint32

	/** @brief The bounding-box center in model units. */
	Center math.Vec3
	/** @brief The bounding-box size, divided by its longest axis once normalized. */
	Extent math.Vec3
	/** @brief True once the normalizer rewrote the positions. */
	Normalized bool

	/** @brief The packaged buffers, set by the geometry system. */
	Geometry *GeometryBuffers
	/** @brief The handle returned by the renderer backend, if uploaded. */
	Handle GeometryHandle
}

func NewMesh(name, path string) *Mesh {
	return &Mesh{
		ID:        core.IdentifierAquireNewID(),
		Name:      name,
		Path:      path,
		Materials: make(map[string]*Material),
		Handle:    InvalidGeometryHandle,
	}
}

// Material looks up a material by name.
func (m *Mesh) Material(name string) (*Material, bool) {
	mat, ok := m.Materials[name]
	return mat, ok
}

// Summary renders the post-load diagnostics block.
func (m *Mesh) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Vertices: %d\n", m.VertexCount)
	fmt.Fprintf(&sb, "# Triangles: %d\n", m.TriangleCount)
	fmt.Fprintf(&sb, "Total %d subMeshes loaded\n", len(m.SubMeshes))
	for i, sm := range m.SubMeshes {
		fmt.Fprintf(&sb, "SubMesh %d with material: %s\n", i, sm.MaterialName())
		fmt.Fprintf(&sb, "Num. triangles in the subMesh: %d\n", sm.TriangleCount())
	}
	fmt.Fprintf(&sb, "Model Center: %g, %g, %g\n", m.Center.X, m.Center.Y, m.Center.Z)
	fmt.Fprintf(&sb, "Model Extent: %g x %g x %g\n", m.Extent.X, m.Extent.Y, m.Extent.Z)
	return sb.String()
}
