package math

// GeometryGenerateNormals assigns a flat face normal to every corner of the
// triangles listed in indices for which needsNormal reports true.
// needsNormal may be nil, in which case every corner is rewritten.
func GeometryGenerateNormals(vertices []Vertex3D, indices []uint32, needsNormal func(vertex uint32) bool) {
	for i := 0; i+2 < len(indices); i += 3 {
		i0 := indices[i+0]
		i1 := indices[i+1]
		i2 := indices[i+2]

		edge1 := vertices[i1].Position.Sub(vertices[i0].Position)
		edge2 := vertices[i2].Position.Sub(vertices[i0].Position)

		// NOTE: This just generates a face normal. Degenerate triangles keep a zero normal.
		normal := edge1.Cross(edge2).Normalized()

		for _, idx := range [3]uint32{i0, i1, i2} {
			if needsNormal == nil || needsNormal(idx) {
				vertices[idx].Normal = normal
			}
		}
	}
}

// ExtentsFromVertices returns the axis-aligned bounding box of the vertex
// positions. ok is false when vertices is empty.
func ExtentsFromVertices(vertices []Vertex3D) (extents Extents3D, ok bool) {
	if len(vertices) == 0 {
		return Extents3D{}, false
	}
	extents.Min = NewVec3Splat(K_FLOAT_MAX)
	extents.Max = NewVec3Splat(-K_FLOAT_MAX)
	for i := range vertices {
		extents.Min = extents.Min.Min(vertices[i].Position)
		extents.Max = extents.Max.Max(vertices[i].Position)
	}
	return extents, true
}

// Size returns max - min.
func (e Extents3D) Size() Vec3 {
	return e.Max.Sub(e.Min)
}

// Center returns min + (max - min) * 0.5.
func (e Extents3D) Center() Vec3 {
	return e.Min.Add(e.Size().MulScalar(0.5))
}
