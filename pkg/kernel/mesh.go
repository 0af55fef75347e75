package kernel

// Mesh is a triangle mesh suitable for handing to a host display layer.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	Name     string    `json:"name"`     // which fastener part this came from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Triangle returns the three vertex positions of triangle i. It is used
// by exporters that need per-triangle access to the flat arrays.
func (m *Mesh) Triangle(i int) [3][3]float32 {
	var tri [3][3]float32
	for j := 0; j < 3; j++ {
		vi := int(m.Indices[i*3+j]) * 3
		tri[j] = [3]float32{m.Vertices[vi], m.Vertices[vi+1], m.Vertices[vi+2]}
	}
	return tri
}

// TriangleNormal returns the stored normal of triangle i (the normal of
// its first vertex; exporters treat triangles as flat-shaded).
func (m *Mesh) TriangleNormal(i int) [3]float32 {
	ni := int(m.Indices[i*3]) * 3
	return [3]float32{m.Normals[ni], m.Normals[ni+1], m.Normals[ni+2]}
}
