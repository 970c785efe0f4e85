package metadata

import (
	"encoding/binary"

	"github.com/chewxy/math32"
)

/** @brief The number of float32 values per interleaved vertex. */
const VertexFloatCount = 8

/** @brief The size in bytes of one interleaved vertex: position, normal, texcoord. */
const VertexStride uint32 = VertexFloatCount * 4

/** @brief Byte offsets of the vertex attributes within one vertex. */
const (
	VertexPositionOffset uint32 = 0
	VertexNormalOffset   uint32 = 12
	VertexTexcoordOffset uint32 = 24
)

/** @brief The size in bytes of one index. */
const IndexSize uint32 = 4

// GeometryHandle identifies geometry uploaded to a renderer backend.
type GeometryHandle uint32

const InvalidGeometryHandle GeometryHandle = 4294967295

/**
 * @brief The index buffer of one submesh together with its material.
 */
type SubMeshBuffer struct {
	/** @brief Triangle corner indices into the shared vertex buffer. */
	Indices []uint32
	/** @brief The material used to draw the submesh. Not owned. */
	Material *Material
}

/**
 * @brief GPU-ready data for one mesh: a single interleaved vertex buffer and
 * one index buffer per submesh.
 */
type GeometryBuffers struct {
	/** @brief Interleaved px py pz nx ny nz u v per vertex. */
	Vertices []float32
	/** @brief The number of vertices in Vertices. */
	VertexCount uint32
	SubMeshes   []SubMeshBuffer
}

// IndexCount returns the total number of indices over all submeshes.
func (gb *GeometryBuffers) IndexCount() int {
	total := 0
	for i := range gb.SubMeshes {
		total += len(gb.SubMeshes[i].Indices)
	}
	return total
}

// VertexBytes encodes the vertex buffer as little-endian bytes, VertexStride per vertex.
func (gb *GeometryBuffers) VertexBytes() []byte {
	out := make([]byte, len(gb.Vertices)*4)
	for i, f := range gb.Vertices {
		binary.LittleEndian.PutUint32(out[i*4:], math32.Float32bits(f))
	}
	return out
}

// IndexBytes encodes the index buffer as little-endian unsigned 32-bit values.
func (sb *SubMeshBuffer) IndexBytes() []byte {
	out := make([]byte, len(sb.Indices)*int(IndexSize))
	for i, idx := range sb.Indices {
		binary.LittleEndian.PutUint32(out[i*4:], idx)
	}
	return out
}
