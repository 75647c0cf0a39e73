package formats

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// STL format errors.
var (
	ErrTruncatedSTLData  = errors.New("truncated STL data")
	ErrMalformedSTLFacet = errors.New("malformed STL facet")
)

const (
	stlHeaderSize = 80
	stlFacetSize  = 50 // normal + 3 vertices (12 float32) + attribute uint16
)

// ParseSTL parses an ASCII or binary STL file.
// STL stores unshared triangles; identical corner positions are welded
// back into shared vertices so the mesh can be shaded smoothly.
func ParseSTL(data []byte) (*Mesh, error) {
	if isBinarySTL(data) {
		return parseBinarySTL(data)
	}
	if bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("solid")) {
		return parseASCIISTL(data)
	}
	return parseBinarySTL(data)
}

// isBinarySTL uses the facet count to tell binary files apart, since
// binary headers are allowed to start with "solid" too.
func isBinarySTL(data []byte) bool {
	if len(data) < stlHeaderSize+4 {
		return false
	}
	count := binary.LittleEndian.Uint32(data[stlHeaderSize:])
	return uint64(len(data)) == stlHeaderSize+4+uint64(count)*stlFacetSize
}

func parseBinarySTL(data []byte) (*Mesh, error) {
	if len(data) < stlHeaderSize+4 {
		return nil, ErrTruncatedSTLData
	}

	w := newWelder()
	w.mesh.Name = strings.TrimSpace(string(bytes.TrimRight(data[:stlHeaderSize], "\x00")))

	count := binary.LittleEndian.Uint32(data[stlHeaderSize:])
	if uint64(len(data)) < stlHeaderSize+4+uint64(count)*stlFacetSize {
		return nil, fmt.Errorf("%w: %d facets declared", ErrTruncatedSTLData, count)
	}

	off := stlHeaderSize + 4
	for i := uint32(0); i < count; i++ {
		// Skip the stored normal; normals are recomputed from topology.
		p := off + 12
		var cell [3]uint32
		for k := 0; k < 3; k++ {
			var v [3]float32
			for c := 0; c < 3; c++ {
				v[c] = math.Float32frombits(binary.LittleEndian.Uint32(data[p:]))
				p += 4
			}
			cell[k] = w.index(v)
		}
		w.mesh.Cells = append(w.mesh.Cells, cell)
		off += stlFacetSize
	}

	return w.mesh, nil
}

func parseASCIISTL(data []byte) (*Mesh, error) {
	w := newWelder()
	scanner := bufio.NewScanner(bytes.NewReader(data))
	var corners []uint32
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "solid":
			if len(fields) > 1 {
				w.mesh.Name = strings.Join(fields[1:], " ")
			}

		case "vertex":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: %w: short vertex", lineNo, ErrMalformedSTLFacet)
			}
			var v [3]float32
			for c := 0; c < 3; c++ {
				f, err := strconv.ParseFloat(fields[c+1], 32)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w: %v", lineNo, ErrMalformedSTLFacet, err)
				}
				v[c] = float32(f)
			}
			corners = append(corners, w.index(v))

		case "endfacet":
			if len(corners) != 3 {
				return nil, fmt.Errorf("line %d: %w: %d vertices", lineNo, ErrMalformedSTLFacet, len(corners))
			}
			w.mesh.Cells = append(w.mesh.Cells, [3]uint32{corners[0], corners[1], corners[2]})
			corners = corners[:0]
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ASCII STL: %w", err)
	}
	return w.mesh, nil
}

// welder deduplicates exact vertex positions.
type welder struct {
	mesh *Mesh
	seen map[[3]float32]uint32
}

func newWelder() *welder {
	return &welder{
		mesh: &Mesh{},
		seen: make(map[[3]float32]uint32),
	}
}

func (w *welder) index(v [3]float32) uint32 {
	if i, ok := w.seen[v]; ok {
		return i
	}
	i := uint32(len(w.mesh.Positions))
	w.mesh.Positions = append(w.mesh.Positions, v)
	w.seen[v] = i
	return i
}
