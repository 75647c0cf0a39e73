package scene

// TimeUniform is the name of the elapsed-time uniform.
const TimeUniform = "time"

// Uniform is a float value passed to a shader program.
type Uniform struct {
	Value float32
}

// RawShaderMaterial shades meshes with user-supplied GLSL. The renderer
// provides projectionMatrix, modelViewMatrix and normalMatrix; Uniforms
// holds everything else.
type RawShaderMaterial struct {
	Name           string
	VertexShader   string
	FragmentShader string
	Uniforms       map[string]*Uniform
}

// NewRawShaderMaterial creates a material with a zero time uniform.
func NewRawShaderMaterial(vertexShader, fragmentShader string) *RawShaderMaterial {
	return &RawShaderMaterial{
		VertexShader:   vertexShader,
		FragmentShader: fragmentShader,
		Uniforms: map[string]*Uniform{
			TimeUniform: {Value: 0},
		},
	}
}

// SetTime writes the time uniform.
func (m *RawShaderMaterial) SetTime(t float32) {
	if m.Uniforms == nil {
		m.Uniforms = make(map[string]*Uniform)
	}
	u, ok := m.Uniforms[TimeUniform]
	if !ok {
		u = &Uniform{}
		m.Uniforms[TimeUniform] = u
	}
	u.Value = t
}

// Time reads the time uniform.
func (m *RawShaderMaterial) Time() float32 {
	if u, ok := m.Uniforms[TimeUniform]; ok {
		return u.Value
	}
	return 0
}
