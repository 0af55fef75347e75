// Package export turns kernel meshes into host-facing artifacts: a
// binary STL stream and summary statistics. Nothing here feeds back
// into geometry construction.
package export

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/chazu/mandrel/pkg/kernel"
)

// MeshStats summarizes a triangle mesh.
type MeshStats struct {
	Vertices  int
	Triangles int
	Min       [3]float64
	Max       [3]float64
}

// Stats computes mesh statistics in one pass over the vertex array.
// An empty mesh yields the zero value.
func Stats(m *kernel.Mesh) MeshStats {
	st := MeshStats{
		Vertices:  m.VertexCount(),
		Triangles: m.TriangleCount(),
	}
	if m.IsEmpty() {
		return st
	}
	for j := 0; j < 3; j++ {
		st.Min[j] = math.Inf(1)
		st.Max[j] = math.Inf(-1)
	}
	for i := 0; i+2 < len(m.Vertices); i += 3 {
		for j := 0; j < 3; j++ {
			v := float64(m.Vertices[i+j])
			if v < st.Min[j] {
				st.Min[j] = v
			}
			if v > st.Max[j] {
				st.Max[j] = v
			}
		}
	}
	return st
}

// stlHeaderSize is the fixed preamble length of a binary STL file.
const stlHeaderSize = 80

// stlTriangle is the 50-byte binary STL triangle record.
type stlTriangle struct {
	Normal [3]float32
	Verts  [3][3]float32
	Attr   uint16
}

// WriteSTL writes the mesh as little-endian binary STL: an 80-byte
// header, a uint32 triangle count, then one 50-byte record per
// triangle. The mesh name lands in the header, prefixed so the file
// never starts with "solid" (readers would take it for ASCII STL).
func WriteSTL(w io.Writer, m *kernel.Mesh) error {
	bw := bufio.NewWriter(w)

	var header [stlHeaderSize]byte
	copy(header[:], "binary stl "+m.Name)
	if _, err := bw.Write(header[:]); err != nil {
		return fmt.Errorf("stl header: %w", err)
	}

	n := m.TriangleCount()
	if err := binary.Write(bw, binary.LittleEndian, uint32(n)); err != nil {
		return fmt.Errorf("stl triangle count: %w", err)
	}

	for i := 0; i < n; i++ {
		rec := stlTriangle{Verts: m.Triangle(i)}
		if len(m.Normals) > 0 {
			rec.Normal = m.TriangleNormal(i)
		} else {
			rec.Normal = facetNormal(rec.Verts)
		}
		if err := binary.Write(bw, binary.LittleEndian, &rec); err != nil {
			return fmt.Errorf("stl triangle %d: %w", i, err)
		}
	}
	return bw.Flush()
}

// STLSize returns the byte length WriteSTL will produce for the mesh.
func STLSize(m *kernel.Mesh) int {
	return stlHeaderSize + 4 + 50*m.TriangleCount()
}

// facetNormal computes the right-hand-rule unit normal of a triangle.
// Degenerate triangles get a zero normal; readers recompute those.
func facetNormal(v [3][3]float32) [3]float32 {
	var e1, e2 [3]float64
	for j := 0; j < 3; j++ {
		e1[j] = float64(v[1][j] - v[0][j])
		e2[j] = float64(v[2][j] - v[0][j])
	}
	n := [3]float64{
		e1[1]*e2[2] - e1[2]*e2[1],
		e1[2]*e2[0] - e1[0]*e2[2],
		e1[0]*e2[1] - e1[1]*e2[0],
	}
	mag := math.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
	if mag == 0 {
		return [3]float32{}
	}
	return [3]float32{float32(n[0] / mag), float32(n[1] / mag), float32(n[2] / mag)}
}
