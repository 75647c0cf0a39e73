// Package geometry turns mesh datasets into render-ready vertex buffers.
package geometry

import (
	"fmt"
	"slices"

	"github.com/Faultbox/shaderbunny/pkg/formats"
	"github.com/Faultbox/shaderbunny/pkg/math"
)

// Scale is the uniform factor applied to every position after centering.
const Scale float32 = 0.2

// Options controls how a mesh is built.
type Options struct {
	// Flat unshares vertices per triangle so each face gets its own normal
	// (faceted look). When false, the shared index list is kept and normals
	// are averaged across adjacent faces (smooth look).
	Flat bool
}

// Geometry is an immutable set of vertex buffers.
// Positions and normals are packed xyz triples.
type Geometry struct {
	positions []float32
	normals   []float32
	indices   []uint32
	bounds    math.Box
}

// Build centers mesh on the origin, scales it by Scale and computes
// normals from the resulting topology. The input mesh is not modified.
func Build(mesh *formats.Mesh, opts Options) (*Geometry, error) {
	if mesh == nil {
		return nil, formats.ErrEmptyMesh
	}
	if err := mesh.Validate(); err != nil {
		return nil, fmt.Errorf("building geometry: %w", err)
	}

	g := &Geometry{}
	if opts.Flat {
		g.positions = unindex(mesh)
	} else {
		g.positions = flatten(mesh.Positions)
		g.indices = make([]uint32, 0, len(mesh.Cells)*3)
		for _, c := range mesh.Cells {
			g.indices = append(g.indices, c[0], c[1], c[2])
		}
	}

	g.center()
	g.scale(Scale)
	g.computeNormals()
	g.bounds = boundsOf(g.positions)

	return g, nil
}

// Positions returns a copy of the position buffer.
func (g *Geometry) Positions() []float32 {
	return slices.Clone(g.positions)
}

// Normals returns a copy of the normal buffer.
func (g *Geometry) Normals() []float32 {
	return slices.Clone(g.normals)
}

// Indices returns a copy of the index buffer, or nil for flat geometry.
func (g *Geometry) Indices() []uint32 {
	return slices.Clone(g.indices)
}

// Indexed reports whether the geometry carries a shared index list.
func (g *Geometry) Indexed() bool {
	return g.indices != nil
}

// VertexCount returns the number of vertices in the position buffer.
func (g *Geometry) VertexCount() int {
	return len(g.positions) / 3
}

// DrawCount returns how many vertices a draw call will emit.
func (g *Geometry) DrawCount() int {
	if g.indices != nil {
		return len(g.indices)
	}
	return g.VertexCount()
}

// Position returns vertex i.
func (g *Geometry) Position(i int) math.Vec3 {
	return vec3At(g.positions, i)
}

// Normal returns the normal of vertex i.
func (g *Geometry) Normal(i int) math.Vec3 {
	return vec3At(g.normals, i)
}

// Bounds returns the bounding box of the final positions.
func (g *Geometry) Bounds() math.Box {
	return g.bounds
}

// unindex copies each triangle's corners into their own vertices.
func unindex(mesh *formats.Mesh) []float32 {
	out := make([]float32, 0, len(mesh.Cells)*9)
	for _, c := range mesh.Cells {
		for _, idx := range c {
			p := mesh.Positions[idx]
			out = append(out, p[0], p[1], p[2])
		}
	}
	return out
}

func flatten(points [][3]float32) []float32 {
	out := make([]float32, 0, len(points)*3)
	for _, p := range points {
		out = append(out, p[0], p[1], p[2])
	}
	return out
}

func (g *Geometry) center() {
	c := boundsOf(g.positions).Center()
	for i := 0; i < len(g.positions); i += 3 {
		g.positions[i] -= c.X
		g.positions[i+1] -= c.Y
		g.positions[i+2] -= c.Z
	}
}

func (g *Geometry) scale(s float32) {
	for i := range g.positions {
		g.positions[i] *= s
	}
}

// computeNormals accumulates unnormalized face normals, which weights each
// face by its area, then normalizes per vertex. Winding is counter-clockwise.
func (g *Geometry) computeNormals() {
	g.normals = make([]float32, len(g.positions))

	faceNormal := func(a, b, c int) math.Vec3 {
		pa, pb, pc := vec3At(g.positions, a), vec3At(g.positions, b), vec3At(g.positions, c)
		return pc.Sub(pb).Cross(pa.Sub(pb))
	}
	add := func(i int, n math.Vec3) {
		g.normals[i*3] += n.X
		g.normals[i*3+1] += n.Y
		g.normals[i*3+2] += n.Z
	}

	if g.indices != nil {
		for t := 0; t+2 < len(g.indices); t += 3 {
			a, b, c := int(g.indices[t]), int(g.indices[t+1]), int(g.indices[t+2])
			n := faceNormal(a, b, c)
			add(a, n)
			add(b, n)
			add(c, n)
		}
	} else {
		for v := 0; v+2 < g.VertexCount(); v += 3 {
			n := faceNormal(v, v+1, v+2)
			add(v, n)
			add(v+1, n)
			add(v+2, n)
		}
	}

	for i := 0; i < g.VertexCount(); i++ {
		n := vec3At(g.normals, i).Normalize()
		g.normals[i*3], g.normals[i*3+1], g.normals[i*3+2] = n.X, n.Y, n.Z
	}
}

func boundsOf(packed []float32) math.Box {
	b := math.EmptyBox()
	for i := 0; i+2 < len(packed); i += 3 {
		b.Extend(math.Vec3{X: packed[i], Y: packed[i+1], Z: packed[i+2]})
	}
	return b
}

func vec3At(packed []float32, i int) math.Vec3 {
	return math.Vec3{X: packed[i*3], Y: packed[i*3+1], Z: packed[i*3+2]}
}
