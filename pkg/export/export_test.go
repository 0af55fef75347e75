package export_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/chazu/mandrel/pkg/export"
	"github.com/chazu/mandrel/pkg/kernel"
	"github.com/chazu/mandrel/pkg/kernel/sdfx"
)

// quadMesh returns two triangles covering the unit square at z=0.
func quadMesh() *kernel.Mesh {
	return &kernel.Mesh{
		Vertices: []float32{
			0, 0, 0, 1, 0, 0, 1, 1, 0,
			0, 0, 0, 1, 1, 0, 0, 1, 0,
		},
		Normals: []float32{
			0, 0, 1, 0, 0, 1, 0, 0, 1,
			0, 0, 1, 0, 0, 1, 0, 0, 1,
		},
		Indices: []uint32{0, 1, 2, 3, 4, 5},
		Name:    "quad",
	}
}

// f32at decodes the little-endian float32 at byte offset off.
func f32at(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off : off+4]))
}

func TestStats(t *testing.T) {
	st := export.Stats(quadMesh())

	if st.Vertices != 6 {
		t.Errorf("vertices = %d, want 6", st.Vertices)
	}
	if st.Triangles != 2 {
		t.Errorf("triangles = %d, want 2", st.Triangles)
	}
	if st.Min != [3]float64{0, 0, 0} {
		t.Errorf("min = %v, want origin", st.Min)
	}
	if st.Max != [3]float64{1, 1, 0} {
		t.Errorf("max = %v, want (1,1,0)", st.Max)
	}
}

func TestStatsEmptyMesh(t *testing.T) {
	st := export.Stats(&kernel.Mesh{})
	if st != (export.MeshStats{}) {
		t.Errorf("empty mesh stats = %+v, want zero value", st)
	}
}

func TestWriteSTLLayout(t *testing.T) {
	m := quadMesh()
	var buf bytes.Buffer
	if err := export.WriteSTL(&buf, m); err != nil {
		t.Fatalf("WriteSTL failed: %v", err)
	}

	b := buf.Bytes()
	if len(b) != export.STLSize(m) {
		t.Fatalf("wrote %d bytes, want %d", len(b), export.STLSize(m))
	}
	if len(b) != 84+2*50 {
		t.Fatalf("wrote %d bytes, want %d", len(b), 84+2*50)
	}

	header := string(b[:80])
	if strings.HasPrefix(header, "solid") {
		t.Error("binary STL header must not start with \"solid\"")
	}
	if !strings.Contains(header, "quad") {
		t.Errorf("header should carry the mesh name, got %q", strings.TrimRight(header, "\x00"))
	}

	if n := binary.LittleEndian.Uint32(b[80:84]); n != 2 {
		t.Errorf("triangle count field = %d, want 2", n)
	}

	// First record: normal, three vertices, zero attribute count.
	rec := b[84:]
	wantNormal := [3]float32{0, 0, 1}
	for j := 0; j < 3; j++ {
		if got := f32at(rec, j*4); got != wantNormal[j] {
			t.Errorf("normal[%d] = %g, want %g", j, got, wantNormal[j])
		}
	}
	wantVerts := [3][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}}
	for v := 0; v < 3; v++ {
		for j := 0; j < 3; j++ {
			off := 12 + v*12 + j*4
			if got := f32at(rec, off); got != wantVerts[v][j] {
				t.Errorf("vertex %d[%d] = %g, want %g", v, j, got, wantVerts[v][j])
			}
		}
	}
	if attr := binary.LittleEndian.Uint16(rec[48:50]); attr != 0 {
		t.Errorf("attribute count = %d, want 0", attr)
	}
}

func TestWriteSTLComputesMissingNormals(t *testing.T) {
	// No normal array: the first triangle gets its facet normal, the
	// second is degenerate and gets a zero normal.
	m := &kernel.Mesh{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Indices:  []uint32{0, 1, 2, 0, 0, 0},
	}

	var buf bytes.Buffer
	if err := export.WriteSTL(&buf, m); err != nil {
		t.Fatalf("WriteSTL failed: %v", err)
	}

	b := buf.Bytes()
	first := b[84:]
	want := [3]float32{0, 0, 1}
	for j := 0; j < 3; j++ {
		if got := f32at(first, j*4); got != want[j] {
			t.Errorf("facet normal[%d] = %g, want %g", j, got, want[j])
		}
	}

	second := b[84+50:]
	for j := 0; j < 3; j++ {
		if got := f32at(second, j*4); got != 0 {
			t.Errorf("degenerate normal[%d] = %g, want 0", j, got)
		}
	}
}

type errWriter struct{}

func (errWriter) Write(p []byte) (int, error) { return 0, errors.New("sink closed") }

func TestWriteSTLPropagatesWriterError(t *testing.T) {
	if err := export.WriteSTL(errWriter{}, quadMesh()); err == nil {
		t.Fatal("expected error from failing writer")
	}
}

func TestBoxMeshExport(t *testing.T) {
	k := sdfx.New(sdfx.WithMeshCells(32))

	mesh, err := k.ToMesh(k.Box(10, 10, 10))
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("mesh should not be empty")
	}

	st := export.Stats(mesh)
	if st.Triangles == 0 || st.Vertices == 0 {
		t.Fatalf("degenerate stats: %+v", st)
	}

	// The box is centered on the origin; marching cubes lands within a
	// cell of the exact faces.
	const tol = 1.0
	for j := 0; j < 3; j++ {
		if abs(st.Min[j]+5) > tol {
			t.Errorf("min[%d] = %.2f, expected near -5", j, st.Min[j])
		}
		if abs(st.Max[j]-5) > tol {
			t.Errorf("max[%d] = %.2f, expected near 5", j, st.Max[j])
		}
	}

	var buf bytes.Buffer
	if err := export.WriteSTL(&buf, mesh); err != nil {
		t.Fatalf("WriteSTL failed: %v", err)
	}
	if buf.Len() != export.STLSize(mesh) {
		t.Errorf("wrote %d bytes, want %d", buf.Len(), export.STLSize(mesh))
	}
	if n := binary.LittleEndian.Uint32(buf.Bytes()[80:84]); int(n) != st.Triangles {
		t.Errorf("triangle count field = %d, want %d", n, st.Triangles)
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
