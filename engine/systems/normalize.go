package systems

import (
	"fmt"

	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/math"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

// ComputeExtents returns the bounding box of the mesh vertex positions.
// ok is false for a mesh without vertices.
func ComputeExtents(mesh *metadata.Mesh) (math.Extents3D, bool) {
	return math.ExtentsFromVertices(mesh.Vertices)
}

// NormalizeMesh centers the mesh at the origin and scales it uniformly so
// that the longest axis of its bounding box spans exactly 1. Center and
// Extent are recorded on the mesh.
//
// A mesh without vertices, whose vertices all coincide, or whose bounding
// box is not finite fails with core.ErrDegenerateMesh and is left untouched.
func NormalizeMesh(mesh *metadata.Mesh) error {
	extents, ok := ComputeExtents(mesh)
	if !ok {
		return fmt.Errorf("%w: '%s' has no vertices", core.ErrDegenerateMesh, mesh.Name)
	}

	size := extents.Size()
	if !extents.Min.IsFinite() || !extents.Max.IsFinite() || !size.IsFinite() {
		return fmt.Errorf("%w: '%s' has a non-finite bounding box", core.ErrDegenerateMesh, mesh.Name)
	}
	maxLen := size.MaxComponent()
	if maxLen == 0 {
		return fmt.Errorf("%w: '%s' has a zero-size bounding box", core.ErrDegenerateMesh, mesh.Name)
	}

	center := extents.Center()
	for i := range mesh.Vertices {
		mesh.Vertices[i].Position = mesh.Vertices[i].Position.Sub(center).DivScalar(maxLen)
	}
	mesh.Center = center
	mesh.Extent = size.DivScalar(maxLen)
	mesh.Normalized = true

	core.LogDebug("Normalized '%s': center (%g, %g, %g), scale 1/%g.", mesh.Name, center.X, center.Y, center.Z, maxLen)
	return nil
}
