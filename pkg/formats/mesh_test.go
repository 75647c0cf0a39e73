package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const quadOBJ = `# unit quad
o quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 1
f 1//1 2//1 3//1 4//1
`

// createTestSTL creates a binary STL with the given triangles.
func createTestSTL(header string, tris [][3][3]float32) []byte {
	buf := new(bytes.Buffer)

	h := make([]byte, stlHeaderSize)
	copy(h, header)
	buf.Write(h)

	binary.Write(buf, binary.LittleEndian, uint32(len(tris)))
	for _, tri := range tris {
		binary.Write(buf, binary.LittleEndian, [3]float32{0, 0, 1}) // normal
		for _, v := range tri {
			binary.Write(buf, binary.LittleEndian, v)
		}
		binary.Write(buf, binary.LittleEndian, uint16(0))
	}

	return buf.Bytes()
}

var quadTris = [][3][3]float32{
	{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}},
	{{0, 0, 0}, {1, 1, 0}, {0, 1, 0}},
}

func TestParseOBJ_Quad(t *testing.T) {
	m, err := ParseOBJ([]byte(quadOBJ))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}

	if m.Name != "quad" {
		t.Errorf("expected name 'quad', got %q", m.Name)
	}
	if len(m.Positions) != 4 {
		t.Errorf("expected 4 positions, got %d", len(m.Positions))
	}
	if m.TriangleCount() != 2 {
		t.Fatalf("expected 2 triangles from fan, got %d", m.TriangleCount())
	}

	want := [][3]uint32{{0, 1, 2}, {0, 2, 3}}
	for i, c := range want {
		if m.Cells[i] != c {
			t.Errorf("cell %d: expected %v, got %v", i, c, m.Cells[i])
		}
	}
}

func TestParseOBJ_NegativeIndices(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf -3 -2 -1\n"
	m, err := ParseOBJ([]byte(src))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	if m.Cells[0] != [3]uint32{0, 1, 2} {
		t.Errorf("expected cell {0 1 2}, got %v", m.Cells[0])
	}
}

func TestParseOBJ_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"short vertex", "v 1 2\n", ErrMalformedOBJVertex},
		{"bad float", "v 1 x 2\n", ErrMalformedOBJVertex},
		{"short face", "v 0 0 0\nv 1 0 0\nf 1 2\n", ErrMalformedOBJFace},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", ErrMalformedOBJFace},
		{"index past end", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n", ErrIndexOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOBJ([]byte(tt.src))
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParseSTL_BinaryWelds(t *testing.T) {
	// Header starting with "solid" must still be read as binary.
	data := createTestSTL("solid but binary", quadTris)

	m, err := ParseSTL(data)
	if err != nil {
		t.Fatalf("ParseSTL failed: %v", err)
	}

	if m.TriangleCount() != 2 {
		t.Errorf("expected 2 triangles, got %d", m.TriangleCount())
	}
	if len(m.Positions) != 4 {
		t.Errorf("expected 4 welded positions, got %d", len(m.Positions))
	}
	if m.Name != "solid but binary" {
		t.Errorf("expected header name, got %q", m.Name)
	}
}

func TestParseSTL_BinaryTruncated(t *testing.T) {
	data := createTestSTL("", quadTris)
	_, err := ParseSTL(data[:len(data)-10])
	if !errors.Is(err, ErrTruncatedSTLData) {
		t.Errorf("expected ErrTruncatedSTLData, got %v", err)
	}
}

func TestParseSTL_ASCII(t *testing.T) {
	src := `solid tri
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 0 1 0
    endloop
  endfacet
endsolid tri
`
	m, err := ParseSTL([]byte(src))
	if err != nil {
		t.Fatalf("ParseSTL failed: %v", err)
	}
	if m.Name != "tri" {
		t.Errorf("expected name 'tri', got %q", m.Name)
	}
	if m.TriangleCount() != 1 || len(m.Positions) != 3 {
		t.Errorf("expected 1 triangle with 3 positions, got %d/%d", m.TriangleCount(), len(m.Positions))
	}
}

func TestParseSTL_ASCIIMalformedFacet(t *testing.T) {
	src := "solid x\nfacet normal 0 0 1\nouter loop\nvertex 0 0 0\nvertex 1 0 0\nendloop\nendfacet\n"
	_, err := ParseSTL([]byte(src))
	if !errors.Is(err, ErrMalformedSTLFacet) {
		t.Errorf("expected ErrMalformedSTLFacet, got %v", err)
	}
}

func TestParseMesh(t *testing.T) {
	m, err := ParseMesh("models/Quad.OBJ", []byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"))
	if err != nil {
		t.Fatalf("ParseMesh failed: %v", err)
	}
	if m.Name != "Quad" {
		t.Errorf("expected name from file, got %q", m.Name)
	}

	if _, err := ParseMesh("mesh.ply", nil); !errors.Is(err, ErrUnknownMeshFormat) {
		t.Errorf("expected ErrUnknownMeshFormat, got %v", err)
	}

	if _, err := ParseMesh("empty.obj", []byte("v 0 0 0\n")); !errors.Is(err, ErrEmptyMesh) {
		t.Errorf("expected ErrEmptyMesh, got %v", err)
	}
}

func TestLoadMesh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.stl")
	if err := os.WriteFile(path, createTestSTL("", quadTris), 0644); err != nil {
		t.Fatalf("failed to write test mesh: %v", err)
	}

	m, err := LoadMesh(path)
	if err != nil {
		t.Fatalf("LoadMesh failed: %v", err)
	}
	if m.TriangleCount() != 2 {
		t.Errorf("expected 2 triangles, got %d", m.TriangleCount())
	}

	if _, err := LoadMesh(filepath.Join(t.TempDir(), "missing.obj")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	m := &Mesh{
		Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}},
		Cells:     [][3]uint32{{0, 1, 2}},
	}
	if err := m.Validate(); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}
