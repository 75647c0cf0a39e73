package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// OBJ format errors.
var (
	ErrMalformedOBJVertex = errors.New("malformed OBJ vertex")
	ErrMalformedOBJFace   = errors.New("malformed OBJ face")
)

// ParseOBJ parses the geometry of a Wavefront OBJ file.
// Only "v" and "f" records are used; polygons are fan-triangulated and
// texture/normal references in faces are ignored.
func ParseOBJ(data []byte) (*Mesh, error) {
	m := &Mesh{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "o":
			if m.Name == "" && len(fields) > 1 {
				m.Name = strings.Join(fields[1:], " ")
			}

		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: %w", lineNo, ErrMalformedOBJVertex)
			}
			var p [3]float32
			for i := 0; i < 3; i++ {
				f, err := strconv.ParseFloat(fields[i+1], 32)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w: %v", lineNo, ErrMalformedOBJVertex, err)
				}
				p[i] = float32(f)
			}
			m.Positions = append(m.Positions, p)

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: %w: need at least 3 vertices", lineNo, ErrMalformedOBJFace)
			}
			idx := make([]uint32, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				i, err := resolveOBJIndex(ref, len(m.Positions))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				idx = append(idx, i)
			}
			for k := 1; k+1 < len(idx); k++ {
				m.Cells = append(m.Cells, [3]uint32{idx[0], idx[k], idx[k+1]})
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ: %w", err)
	}
	return m, nil
}

// resolveOBJIndex converts a face reference ("7", "7/1", "7//3", "-1")
// to a zero-based position index.
func resolveOBJIndex(ref string, count int) (uint32, error) {
	head, _, _ := strings.Cut(ref, "/")
	n, err := strconv.Atoi(head)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("%w: bad index %q", ErrMalformedOBJFace, ref)
	}
	if n < 0 {
		n = count + n + 1
	}
	if n < 1 || n > count {
		return 0, fmt.Errorf("%w: index %q with %d vertices", ErrIndexOutOfRange, ref, count)
	}
	return uint32(n - 1), nil
}
