// Package formats provides parsers for triangle mesh datasets.
package formats

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Mesh errors.
var (
	ErrEmptyMesh         = errors.New("mesh has no triangles")
	ErrIndexOutOfRange   = errors.New("triangle index out of range")
	ErrUnknownMeshFormat = errors.New("unknown mesh format")
)

// Mesh is a simplicial complex: shared vertex positions and the
// triangles (cells) indexing into them.
type Mesh struct {
	Name      string
	Positions [][3]float32
	Cells     [][3]uint32
}

// TriangleCount returns the number of cells.
func (m *Mesh) TriangleCount() int {
	return len(m.Cells)
}

// Validate checks that the mesh has triangles and every index is in range.
func (m *Mesh) Validate() error {
	if len(m.Cells) == 0 {
		return ErrEmptyMesh
	}
	n := uint32(len(m.Positions))
	for i, c := range m.Cells {
		if c[0] >= n || c[1] >= n || c[2] >= n {
			return fmt.Errorf("%w: cell %d %v with %d positions", ErrIndexOutOfRange, i, c, n)
		}
	}
	return nil
}

// ParseMesh decodes data according to the extension of name.
func ParseMesh(name string, data []byte) (*Mesh, error) {
	var (
		m   *Mesh
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".obj":
		m, err = ParseOBJ(data)
	case ".stl":
		m, err = ParseSTL(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMeshFormat, ext)
	}
	if err != nil {
		return nil, err
	}
	if m.Name == "" {
		m.Name = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	}
	return m, m.Validate()
}

// LoadMesh reads and parses a mesh file from disk.
func LoadMesh(path string) (*Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mesh: %w", err)
	}
	return ParseMesh(path, data)
}
