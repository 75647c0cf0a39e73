// Package renderer draws scenes with OpenGL.
package renderer

import (
	"fmt"
	"unsafe"

	"go.uber.org/zap"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/shaderbunny/internal/engine/camera"
	"github.com/Faultbox/shaderbunny/internal/engine/geometry"
	"github.com/Faultbox/shaderbunny/internal/engine/scene"
	"github.com/Faultbox/shaderbunny/internal/engine/shader"
	"github.com/Faultbox/shaderbunny/internal/logger"
	"github.com/Faultbox/shaderbunny/pkg/math"
)

// Uniforms the renderer fills for every draw.
const (
	ProjectionMatrixUniform = "projectionMatrix"
	ModelViewMatrixUniform  = "modelViewMatrix"
	NormalMatrixUniform     = "normalMatrix"
)

// Vertex attribute locations.
const (
	PositionAttrib = 0
	NormalAttrib   = 1
)

// Config holds renderer configuration.
type Config struct {
	Antialias  bool
	Alpha      bool
	ClearColor [4]float32
}

// Info reports what the last Render did.
type Info struct {
	DrawCalls int
	Triangles int
	Frames    uint64
}

// buffers is the GPU copy of one geometry.
type buffers struct {
	vao, vbo, nbo, ebo uint32
	count              int32
	indexed            bool
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config
	log    *zap.Logger

	pixelRatio    float32
	width, height int

	geometries map[*geometry.Geometry]*buffers
	programs   map[*scene.RawShaderMaterial]*shader.Program

	info Info
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:     cfg,
		log:        logger.Named("renderer"),
		pixelRatio: 1,
		geometries: make(map[*geometry.Geometry]*buffers),
		programs:   make(map[*scene.RawShaderMaterial]*shader.Program),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.Bool("antialias", cfg.Antialias),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	if cfg.Antialias {
		gl.Enable(gl.MULTISAMPLE)
	} else {
		gl.Disable(gl.MULTISAMPLE)
	}

	c := cfg.ClearColor
	if !cfg.Alpha {
		c[3] = 1
	}
	gl.ClearColor(c[0], c[1], c[2], c[3])

	return r, nil
}

// SetPixelRatio sets physical pixels per logical pixel.
func (r *Renderer) SetPixelRatio(ratio float32) {
	if ratio <= 0 {
		ratio = 1
	}
	r.pixelRatio = ratio
	r.applyViewport()
}

// SetSize resizes the drawing buffer to width x height logical pixels.
func (r *Renderer) SetSize(width, height int) {
	r.width, r.height = width, height
	r.applyViewport()
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Float32("pixel_ratio", r.pixelRatio),
	)
}

func (r *Renderer) applyViewport() {
	w := int32(float32(r.width) * r.pixelRatio)
	h := int32(float32(r.height) * r.pixelRatio)
	gl.Viewport(0, 0, max(w, 0), max(h, 0))
}

// Compile uploads every mesh's geometry and links every material's
// program so the first Render does no setup work.
func (r *Renderer) Compile(s *scene.Scene) error {
	for _, m := range s.Children() {
		if _, err := r.prepare(m); err != nil {
			return err
		}
	}
	return nil
}

// Render clears the frame and draws each visible mesh once.
func (r *Renderer) Render(s *scene.Scene, cam *camera.Perspective) error {
	r.info.DrawCalls = 0
	r.info.Triangles = 0

	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	projection := cam.ProjectionMatrix()
	view := cam.ViewMatrix()

	var err error
	s.Visible(func(m *scene.Mesh) {
		if err == nil {
			err = r.draw(m, &projection, &view)
		}
	})
	gl.BindVertexArray(0)

	r.info.Frames++
	return err
}

func (r *Renderer) draw(m *scene.Mesh, projection, view *math.Mat4) error {
	prog, err := r.prepare(m)
	if err != nil {
		return err
	}
	buf := r.geometries[m.Geometry]

	modelView := view.Mul(m.ModelMatrix())
	normal := modelView.NormalMatrix()

	prog.Use()
	prog.SetMat4(ProjectionMatrixUniform, projection)
	prog.SetMat4(ModelViewMatrixUniform, &modelView)
	prog.SetMat3(NormalMatrixUniform, &normal)
	for name, u := range m.Material.Uniforms {
		prog.SetFloat(name, u.Value)
	}

	gl.BindVertexArray(buf.vao)
	if buf.indexed {
		gl.DrawElements(gl.TRIANGLES, buf.count, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(gl.TRIANGLES, 0, buf.count)
	}
	r.info.DrawCalls++
	r.info.Triangles += int(buf.count) / 3
	return nil
}

// ReadPixels reads the back buffer as bottom-up RGBA rows. Call it after
// Render and before the buffers are swapped.
func (r *Renderer) ReadPixels() (pixels []byte, width, height int) {
	width = int(float32(r.width) * r.pixelRatio)
	height = int(float32(r.height) * r.pixelRatio)
	if width <= 0 || height <= 0 {
		return nil, 0, 0
	}
	pixels = make([]byte, width*height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, width, height
}

// Info returns statistics for the last frame.
func (r *Renderer) Info() Info {
	return r.info
}

func (r *Renderer) prepare(m *scene.Mesh) (*shader.Program, error) {
	if m.Geometry == nil || m.Material == nil {
		return nil, fmt.Errorf("mesh %q has no geometry or material", m.Name)
	}
	if _, ok := r.geometries[m.Geometry]; !ok {
		r.geometries[m.Geometry] = upload(m.Geometry)
		r.log.Debug("geometry uploaded",
			zap.String("mesh", m.Name),
			zap.Int("vertices", m.Geometry.VertexCount()),
			zap.Bool("indexed", m.Geometry.Indexed()),
		)
	}

	prog, ok := r.programs[m.Material]
	if !ok {
		var err error
		prog, err = shader.NewProgram(m.Material.VertexShader, m.Material.FragmentShader)
		if err != nil {
			return nil, fmt.Errorf("compiling material %q: %w", m.Material.Name, err)
		}
		r.programs[m.Material] = prog
		r.log.Debug("shader program created", zap.Uint32("program", prog.ID))
	}
	return prog, nil
}

func upload(g *geometry.Geometry) *buffers {
	b := &buffers{
		count:   int32(g.DrawCount()),
		indexed: g.Indexed(),
	}

	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)

	b.vbo = arrayBuffer(g.Positions(), PositionAttrib)
	b.nbo = arrayBuffer(g.Normals(), NormalAttrib)

	if b.indexed {
		indices := g.Indices()
		gl.GenBuffers(1, &b.ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return b
}

func arrayBuffer(data []float32, attrib uint32) uint32 {
	var id uint32
	gl.GenBuffers(1, &id)
	gl.BindBuffer(gl.ARRAY_BUFFER, id)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, unsafe.Pointer(&data[0]), gl.STATIC_DRAW)
	gl.VertexAttribPointer(attrib, 3, gl.FLOAT, false, 3*4, nil)
	gl.EnableVertexAttribArray(attrib)
	return id
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer",
		zap.Int("geometries", len(r.geometries)),
		zap.Int("programs", len(r.programs)),
	)
	for g, b := range r.geometries {
		gl.DeleteVertexArrays(1, &b.vao)
		for _, id := range []uint32{b.vbo, b.nbo, b.ebo} {
			if id != 0 {
				gl.DeleteBuffers(1, &id)
			}
		}
		delete(r.geometries, g)
	}
	for m, p := range r.programs {
		p.Delete()
		delete(r.programs, m)
	}
}
