// Package host runs the demo in an SDL window with an OpenGL renderer.
package host

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/shaderbunny/internal/app"
	"github.com/Faultbox/shaderbunny/internal/assets"
	"github.com/Faultbox/shaderbunny/internal/config"
	"github.com/Faultbox/shaderbunny/internal/engine/camera"
	"github.com/Faultbox/shaderbunny/internal/engine/capture"
	"github.com/Faultbox/shaderbunny/internal/engine/geometry"
	"github.com/Faultbox/shaderbunny/internal/engine/input"
	"github.com/Faultbox/shaderbunny/internal/engine/loop"
	"github.com/Faultbox/shaderbunny/internal/engine/renderer"
	"github.com/Faultbox/shaderbunny/internal/engine/scene"
	"github.com/Faultbox/shaderbunny/internal/engine/viewport"
	"github.com/Faultbox/shaderbunny/internal/engine/window"
	"github.com/Faultbox/shaderbunny/internal/logger"
	"github.com/Faultbox/shaderbunny/pkg/formats"
)

// idleDelay paces the loop while the window is minimized, where the
// buffer swap may not block.
const idleDelay = 50 // ms

// glBackend creates the GL renderer as the viewport's render surface.
// The GL context must already exist.
type glBackend struct {
	renderer *renderer.Renderer
}

func (b *glBackend) CreateSurface(opts viewport.SurfaceOptions) (viewport.Surface, error) {
	r, err := renderer.New(renderer.Config{
		Antialias:  opts.Antialias,
		Alpha:      opts.Alpha,
		ClearColor: opts.ClearColor,
	})
	if err != nil {
		return nil, err
	}
	b.renderer = r
	return r, nil
}

// App is the running demo.
type App struct {
	config *config.Config
	log    *zap.Logger

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input

	view     *viewport.Viewport
	assembly *app.Assembly
	queue    *loop.Queue
	loop     *loop.Loop

	screenshots *capture.Screenshots
	// Set by F12, served after the next frame is drawn.
	wantScreenshot bool
}

// New creates the window and renderer, loads the mesh and shaders and
// compiles the scene. Any failure here is fatal to startup.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		config: cfg,
		log:    logger.Named("host"),
		input:  input.New(),
		queue:  loop.NewQueue(),

		screenshots: capture.NewScreenshots(cfg.Screenshots.Dir, "shaderbunny"),
	}

	a.log.Info("initializing",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	// Create window (this also creates OpenGL context)
	var err error
	a.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
		Antialias:  cfg.Renderer.Antialias,
		HighDPI:    cfg.Window.HighDPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The renderer is created through the viewport, after the window.
	backend := &glBackend{}
	a.view, err = viewport.New(backend, a.window, cfg.ViewportOptions())
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create viewport: %w", err)
	}
	a.renderer = backend.renderer

	if err := a.buildScene(); err != nil {
		a.Close()
		return nil, err
	}

	a.loop = loop.New(a.queue, a.assembly.Frame)

	a.log.Info("initialized successfully")
	return a, nil
}

func (a *App) buildScene() error {
	mesh, err := a.loadMesh()
	if err != nil {
		return err
	}
	geom, err := geometry.Build(mesh, a.config.GeometryOptions())
	if err != nil {
		return fmt.Errorf("building geometry for %s: %w", mesh.Name, err)
	}
	a.log.Info("geometry built",
		zap.String("mesh", mesh.Name),
		zap.Int("triangles", mesh.TriangleCount()),
		zap.Int("vertices", geom.VertexCount()),
		zap.Bool("flat", a.config.Mesh.Flat),
	)

	shaders := assets.NewManager(assets.Open(a.config.Shaders.Dir))
	src, err := shaders.LoadShaders(a.config.Shaders.Vertex, a.config.Shaders.Fragment)
	if err != nil {
		return fmt.Errorf("loading shaders: %w", err)
	}
	mat := scene.NewRawShaderMaterial(src.Vertex, src.Fragment)
	mat.Name = "bunny"

	a.assembly, err = app.NewAssembly(a.view, a.renderer, geom, mat)
	if err != nil {
		return err
	}

	// Compile before the first frame so shader errors surface at startup.
	if err := a.renderer.Compile(a.assembly.Scene()); err != nil {
		return fmt.Errorf("compiling scene: %w", err)
	}
	return nil
}

func (a *App) loadMesh() (*formats.Mesh, error) {
	if a.config.Mesh.Path == "" {
		return assets.DefaultMesh()
	}
	mesh, err := formats.LoadMesh(a.config.Mesh.Path)
	if err != nil {
		return nil, fmt.Errorf("loading mesh: %w", err)
	}
	return mesh, nil
}

// Run pumps input and fires one frame per display refresh until the
// window closes or a frame fails.
func (a *App) Run() error {
	a.loop.Start()
	defer a.loop.Stop()

	frameCount := 0
	fpsTimer := time.Now()

	a.log.Info("starting render loop")

	for a.loop.Running() {
		if a.input.Update() {
			a.loop.Stop()
			break
		}
		a.handleEvents()

		if a.view.Empty() {
			sdl.Delay(idleDelay)
			continue
		}

		// Swapping with vsync on blocks until the next refresh, which
		// paces Fire to the display.
		if a.queue.Fire(time.Now()) > 0 {
			if a.wantScreenshot {
				a.captureScreenshot()
			}
			a.window.SwapBuffers()
			frameCount++
		}

		if time.Since(fpsTimer) >= time.Second {
			info := a.renderer.Info()
			a.log.Debug("fps",
				zap.Int("count", frameCount),
				zap.Int("draw_calls", info.DrawCalls),
				zap.Int("triangles", info.Triangles),
				zap.Float64("time", a.assembly.Time()),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	if err := a.loop.Err(); err != nil {
		return fmt.Errorf("render error: %w", err)
	}
	return nil
}

func (a *App) handleEvents() {
	controls := a.view.Controls()
	for _, event := range a.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			a.view.HandleResize()
		case input.EventMouseMove:
			if event.Dragging {
				w, h := a.view.Size()
				controls.Rotate(float32(event.XRel), float32(event.YRel), float32(w), float32(h))
			}
		case input.EventMouseWheel:
			controls.Zoom(event.WheelY * camera.WheelNotch)
		}
	}

	if a.input.IsKeyPressed(sdl.SCANCODE_ESCAPE) {
		a.loop.Stop()
	}
	if a.input.IsKeyPressed(sdl.SCANCODE_F12) {
		a.wantScreenshot = true
	}
}

func (a *App) captureScreenshot() {
	a.wantScreenshot = false

	pixels, w, h := a.renderer.ReadPixels()
	path, err := a.screenshots.SavePixels(pixels, w, h)
	if err != nil {
		a.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", path))
}

// Close releases the renderer and the window.
func (a *App) Close() {
	a.log.Info("closing")

	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
