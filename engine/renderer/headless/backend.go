package headless

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

// Upload is what the backend keeps for one geometry: the bytes a GPU
// backend would copy into its vertex and index buffers.
type Upload struct {
	VertexBuffer  []byte
	IndexBuffers  [][]byte
	MaterialNames []string
}

// Backend is an in-process renderer backend. It copies the buffers it is
// given and hands out handles, so callers can be exercised without a GPU.
type Backend struct {
	mu      sync.Mutex
	next    metadata.GeometryHandle
	uploads map[metadata.GeometryHandle]*Upload
}

func New() *Backend {
	return &Backend{
		uploads: make(map[metadata.GeometryHandle]*Upload),
	}
}

func (b *Backend) CreateGeometry(geometry *metadata.GeometryBuffers) (metadata.GeometryHandle, error) {
	if geometry == nil {
		return metadata.InvalidGeometryHandle, fmt.Errorf("%w: nil geometry", core.ErrBackendRejected)
	}
	if uint32(len(geometry.Vertices)) != geometry.VertexCount*metadata.VertexFloatCount {
		return metadata.InvalidGeometryHandle, fmt.Errorf("%w: vertex buffer holds %d floats for %d vertices",
			core.ErrBackendRejected, len(geometry.Vertices), geometry.VertexCount)
	}

	up := &Upload{VertexBuffer: geometry.VertexBytes()}
	for i := range geometry.SubMeshes {
		sb := &geometry.SubMeshes[i]
		up.IndexBuffers = append(up.IndexBuffers, sb.IndexBytes())
		name := ""
		if sb.Material != nil {
			name = sb.Material.Name
		}
		up.MaterialNames = append(up.MaterialNames, name)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	handle := b.next
	b.next++
	b.uploads[handle] = up

	core.LogDebug("headless backend: geometry %d created (%d bytes vertex data, %d index buffers)",
		handle, len(up.VertexBuffer), len(up.IndexBuffers))
	return handle, nil
}

func (b *Backend) DestroyGeometry(handle metadata.GeometryHandle) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.uploads[handle]; !ok {
		return fmt.Errorf("geometry handle %d not found", handle)
	}
	delete(b.uploads, handle)
	core.LogDebug("headless backend: geometry %d destroyed", handle)
	return nil
}

// Upload returns the stored buffers for handle.
func (b *Backend) Upload(handle metadata.GeometryHandle) (*Upload, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	up, ok := b.uploads[handle]
	return up, ok
}

// Live returns the number of geometries currently held.
func (b *Backend) Live() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.uploads)
}
