package scene

import (
	"github.com/Faultbox/shaderbunny/internal/engine/geometry"
	"github.com/Faultbox/shaderbunny/pkg/math"
)

// Mesh is a drawable: geometry, the material shading it and a transform.
type Mesh struct {
	Name     string
	Geometry *geometry.Geometry
	Material *RawShaderMaterial

	Position math.Vec3
	Scale    float32
	Visible  bool
}

// NewMesh creates a visible mesh at the origin with unit scale.
func NewMesh(g *geometry.Geometry, m *RawShaderMaterial) *Mesh {
	return &Mesh{
		Geometry: g,
		Material: m,
		Scale:    1,
		Visible:  true,
	}
}

// ModelMatrix returns the object-to-world transform.
func (m *Mesh) ModelMatrix() math.Mat4 {
	return math.Translate(m.Position.X, m.Position.Y, m.Position.Z).
		Mul(math.Scale(m.Scale, m.Scale, m.Scale))
}
