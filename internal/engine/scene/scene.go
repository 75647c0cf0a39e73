// Package scene holds the scene graph: meshes pairing geometry with a
// shader material.
package scene

import "slices"

// Scene is the root of the graph. Meshes draw in insertion order.
type Scene struct {
	children []*Mesh
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{}
}

// Add appends meshes to the scene. A mesh already present is not added
// twice.
func (s *Scene) Add(meshes ...*Mesh) {
	for _, m := range meshes {
		if m == nil || slices.Contains(s.children, m) {
			continue
		}
		s.children = append(s.children, m)
	}
}

// Remove detaches a mesh. It reports whether the mesh was present.
func (s *Scene) Remove(m *Mesh) bool {
	i := slices.Index(s.children, m)
	if i < 0 {
		return false
	}
	s.children = slices.Delete(s.children, i, i+1)
	return true
}

// Children returns the meshes in draw order.
func (s *Scene) Children() []*Mesh {
	return slices.Clone(s.children)
}

// Visible calls fn for every visible mesh in draw order.
func (s *Scene) Visible(fn func(*Mesh)) {
	for _, m := range s.children {
		if m.Visible {
			fn(m)
		}
	}
}
