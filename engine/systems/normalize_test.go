package systems

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/math"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

const tolerance float32 = 1e-5

func meshFromPositions(positions ...math.Vec3) *metadata.Mesh {
	mesh := metadata.NewMesh("test", "test.obj")
	sm := &metadata.SubMesh{Material: metadata.DefaultMaterial()}
	for i, p := range positions {
		mesh.Vertices = append(mesh.Vertices, math.Vertex3D{Position: p})
		sm.Indices = append(sm.Indices, uint32(i))
	}
	sm.Indices = sm.Indices[:len(sm.Indices)-len(sm.Indices)%3]
	mesh.SubMeshes = []*metadata.SubMesh{sm}
	mesh.VertexCount = uint32(len(positions))
	mesh.TriangleCount = uint32(sm.TriangleCount())
	return mesh
}

func TestNormalizeMeshUnitLongestAxisAtOrigin(t *testing.T) {
	mesh := meshFromPositions(
		math.NewVec3(10, 20, 30),
		math.NewVec3(14, 20, 30),
		math.NewVec3(10, 22, 31),
	)
	require.NoError(t, NormalizeMesh(mesh))

	assert.True(t, mesh.Normalized)
	assert.True(t, mesh.Center.Compare(math.NewVec3(12, 21, 30.5), tolerance), "center %v", mesh.Center)
	assert.True(t, mesh.Extent.Compare(math.NewVec3(1, 0.5, 0.25), tolerance), "extent %v", mesh.Extent)

	extents, ok := ComputeExtents(mesh)
	require.True(t, ok)
	assert.InDelta(t, 1.0, extents.Size().MaxComponent(), 1e-5)
	assert.True(t, extents.Center().Compare(math.NewVec3Zero(), tolerance), "center after %v", extents.Center())

	assert.True(t, mesh.Vertices[0].Position.Compare(math.NewVec3(-0.5, -0.25, -0.125), tolerance))
}

func TestNormalizeMeshIsIdempotent(t *testing.T) {
	mesh := meshFromPositions(
		math.NewVec3(-3, 0, 0),
		math.NewVec3(5, 1, 0),
		math.NewVec3(0, 2, 7),
	)
	require.NoError(t, NormalizeMesh(mesh))
	first := append([]math.Vertex3D(nil), mesh.Vertices...)

	require.NoError(t, NormalizeMesh(mesh))
	for i := range first {
		assert.True(t, first[i].Position.Compare(mesh.Vertices[i].Position, tolerance))
	}
}

func TestNormalizeMeshDegenerate(t *testing.T) {
	t.Run("single point", func(t *testing.T) {
		p := math.NewVec3(1, 2, 3)
		mesh := meshFromPositions(p, p, p)
		err := NormalizeMesh(mesh)
		require.ErrorIs(t, err, core.ErrDegenerateMesh)
		assert.False(t, mesh.Normalized)
		assert.Equal(t, p, mesh.Vertices[0].Position, "mesh is left untouched")
	})

	t.Run("no vertices", func(t *testing.T) {
		mesh := metadata.NewMesh("empty", "empty.obj")
		require.ErrorIs(t, NormalizeMesh(mesh), core.ErrDegenerateMesh)
	})
}

func TestNormalizeMeshFlatMesh(t *testing.T) {
	// A flat quad has one zero axis but is not degenerate.
	mesh := meshFromPositions(
		math.NewVec3(0, 0, 0),
		math.NewVec3(2, 0, 0),
		math.NewVec3(2, 2, 0),
	)
	require.NoError(t, NormalizeMesh(mesh))
	assert.Equal(t, float32(0), mesh.Extent.Z)
	assert.InDelta(t, 1.0, mesh.Extent.X, 1e-6)
}

func TestNormalizeMeshNonFinite(t *testing.T) {
	cases := map[string]math.Vec3{
		"nan":          math.NewVec3(math32.NaN(), 0, 0),
		"inf":          math.NewVec3(math32.Inf(1), 0, 0),
		"negative inf": math.NewVec3(0, math32.Inf(-1), 0),
	}
	for name, bad := range cases {
		t.Run(name, func(t *testing.T) {
			mesh := meshFromPositions(bad, math.NewVec3(1, 0, 0), math.NewVec3(0, 1, 0))
			err := NormalizeMesh(mesh)
			require.ErrorIs(t, err, core.ErrDegenerateMesh)
			assert.False(t, mesh.Normalized)
			assert.Equal(t, math.NewVec3(1, 0, 0), mesh.Vertices[1].Position, "mesh is left untouched")
			assert.Equal(t, math.NewVec3Zero(), mesh.Extent)
		})
	}

	t.Run("overflowing size", func(t *testing.T) {
		mesh := meshFromPositions(
			math.NewVec3(-math.K_FLOAT_MAX, 0, 0),
			math.NewVec3(math.K_FLOAT_MAX, 0, 0),
			math.NewVec3(0, 1, 0),
		)
		require.ErrorIs(t, NormalizeMesh(mesh), core.ErrDegenerateMesh)
	})
}
