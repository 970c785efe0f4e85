package systems

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/renderer"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

// GeometrySystem packages meshes into GPU-ready buffers and hands them to
// the renderer backend.
type GeometrySystem struct {
	backend renderer.RendererBackend
}

func NewGeometrySystem(backend renderer.RendererBackend) (*GeometrySystem, error) {
	if backend == nil {
		err := fmt.Errorf("func NewGeometrySystem - a renderer backend is required")
		core.LogError(err.Error())
		return nil, err
	}
	return &GeometrySystem{backend: backend}, nil
}

/**
 * @brief Flattens the mesh into one interleaved vertex buffer
 * (position, normal, texcoord) and one index buffer per submesh.
 *
 * @param mesh The parsed mesh.
 * @return The packaged buffers, or an error if an index is out of range
 * or an index list is not made of whole triangles.
 */
func PackGeometry(mesh *metadata.Mesh) (*metadata.GeometryBuffers, error) {
	vertexCount := uint32(len(mesh.Vertices))
	if mesh.VertexCount != vertexCount {
		return nil, fmt.Errorf("%w: '%s' reports %d vertices but holds %d",
			core.ErrMalformedRecord, mesh.Name, mesh.VertexCount, vertexCount)
	}

	out := &metadata.GeometryBuffers{
		Vertices:    make([]float32, 0, int(vertexCount)*metadata.VertexFloatCount),
		VertexCount: vertexCount,
	}
	for _, v := range mesh.Vertices {
		out.Vertices = append(out.Vertices,
			v.Position.X, v.Position.Y, v.Position.Z,
			v.Normal.X, v.Normal.Y, v.Normal.Z,
			v.Texcoord.X, v.Texcoord.Y)
	}

	for i, sm := range mesh.SubMeshes {
		if len(sm.Indices)%3 != 0 {
			return nil, fmt.Errorf("%w: submesh %d of '%s' has %d indices, not a multiple of 3",
				core.ErrMalformedRecord, i, mesh.Name, len(sm.Indices))
		}
		if idx, found := lo.Find(sm.Indices, func(idx uint32) bool { return idx >= vertexCount }); found {
			return nil, fmt.Errorf("%w: submesh %d of '%s' references vertex %d of %d",
				core.ErrMalformedRecord, i, mesh.Name, idx, vertexCount)
		}
	}
	out.SubMeshes = lo.Map(mesh.SubMeshes, func(sm *metadata.SubMesh, _ int) metadata.SubMeshBuffer {
		return metadata.SubMeshBuffer{
			Indices:  slices.Clone(sm.Indices),
			Material: sm.Material,
		}
	})
	return out, nil
}

// Upload packages the mesh and creates its geometry on the backend.
func (gs *GeometrySystem) Upload(mesh *metadata.Mesh) error {
	buffers, err := PackGeometry(mesh)
	if err != nil {
		return err
	}
	handle, err := gs.backend.CreateGeometry(buffers)
	if err != nil {
		return fmt.Errorf("failed to create geometry for '%s': %w", mesh.Name, err)
	}
	mesh.Geometry = buffers
	mesh.Handle = handle
	return nil
}

// Release destroys the backend geometry of the mesh, if any.
func (gs *GeometrySystem) Release(mesh *metadata.Mesh) error {
	if mesh == nil || mesh.Handle == metadata.InvalidGeometryHandle {
		return nil
	}
	err := gs.backend.DestroyGeometry(mesh.Handle)
	mesh.Handle = metadata.InvalidGeometryHandle
	mesh.Geometry = nil
	return err
}
