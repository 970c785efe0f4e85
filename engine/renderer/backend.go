package renderer

import "github.com/spaghettifunk/meshview/engine/renderer/metadata"

// RendererBackend receives packaged geometry. Shader binding, drawing and
// window management live behind the implementation.
type RendererBackend interface {
	CreateGeometry(geometry *metadata.GeometryBuffers) (metadata.GeometryHandle, error)
	DestroyGeometry(handle metadata.GeometryHandle) error
}
