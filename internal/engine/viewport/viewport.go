// Package viewport owns the render surface, the camera and the orbit
// controls, and keeps the camera in sync with the controls and the
// display size.
package viewport

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/shaderbunny/internal/engine/camera"
	"github.com/Faultbox/shaderbunny/internal/logger"
)

// Camera frustum. These are fixed for the viewport.
const (
	FieldOfView = 65   // degrees
	Near        = 0.01 // near clip plane
	Far         = 1000 // far clip plane
)

// Display is the host window the viewport is shown in.
type Display interface {
	// Size returns the window size in logical pixels.
	Size() (width, height int)
	// PixelRatio returns physical pixels per logical pixel.
	PixelRatio() float32
}

// Surface is the render target the camera draws into.
type Surface interface {
	SetPixelRatio(ratio float32)
	// SetSize resizes the backing buffer to width x height logical pixels.
	SetSize(width, height int)
}

// SurfaceOptions are handed to the backend untouched.
type SurfaceOptions struct {
	Antialias  bool
	Alpha      bool
	ClearColor [4]float32
}

// Backend creates render surfaces.
type Backend interface {
	CreateSurface(opts SurfaceOptions) (Surface, error)
}

// Options configures a Viewport. Surface and Controls are forwarded as-is
// to the backend and the orbit controls.
type Options struct {
	Surface  SurfaceOptions
	Controls camera.OrbitOptions
}

// DefaultOptions returns antialiasing on and the default orbit rig.
func DefaultOptions() Options {
	return Options{
		Surface: SurfaceOptions{
			Antialias:  true,
			ClearColor: [4]float32{0.1, 0.1, 0.15, 1.0},
		},
		Controls: camera.DefaultOrbitOptions(),
	}
}

// Viewport ties a surface, a perspective camera and orbit controls to a
// display. It is not safe for concurrent use; call it from the render
// thread.
type Viewport struct {
	display  Display
	surface  Surface
	camera   *camera.Perspective
	controls *camera.OrbitControls
}

// New creates the surface through backend, sets up the camera and
// controls and sizes everything to the display.
func New(backend Backend, display Display, opts Options) (*Viewport, error) {
	surface, err := backend.CreateSurface(opts.Surface)
	if err != nil {
		return nil, fmt.Errorf("creating render surface: %w", err)
	}
	surface.SetPixelRatio(display.PixelRatio())

	v := &Viewport{
		display: display,
		surface: surface,
		// Aspect is corrected by the first resize below.
		camera:   camera.NewPerspective(FieldOfView, 1, Near, Far),
		controls: camera.NewOrbitControls(opts.Controls),
	}

	v.HandleResize()
	return v, nil
}

// UpdateControls steps the orbit controls and copies their output into
// the camera, then refreshes the aspect ratio and projection. With an empty
// display (zero width or height) the aspect and projection are left as
// they were.
func (v *Viewport) UpdateControls() {
	v.controls.Update()

	v.camera.Position = v.controls.Position()
	v.camera.Up = v.controls.Up()
	v.camera.LookAt(v.controls.Direction().Add(v.camera.Position))

	width, height := v.display.Size()
	if width <= 0 || height <= 0 {
		return
	}
	v.camera.Aspect = float32(width) / float32(height)
	v.camera.UpdateProjectionMatrix()
}

// HandleResize resizes the surface to the display and updates the camera.
func (v *Viewport) HandleResize() {
	width, height := v.display.Size()
	v.surface.SetSize(width, height)
	if width <= 0 || height <= 0 {
		logger.Debug("viewport is empty, keeping projection",
			zap.Int("width", width),
			zap.Int("height", height),
		)
	}
	v.UpdateControls()
}

// Camera returns the viewport camera.
func (v *Viewport) Camera() *camera.Perspective {
	return v.camera
}

// Controls returns the orbit controls driving the camera.
func (v *Viewport) Controls() *camera.OrbitControls {
	return v.controls
}

// Surface returns the render surface.
func (v *Viewport) Surface() Surface {
	return v.surface
}

// Empty reports whether the display has no drawable area, as when the
// window is minimized.
func (v *Viewport) Empty() bool {
	width, height := v.display.Size()
	return width <= 0 || height <= 0
}

// Size returns the display size in logical pixels.
func (v *Viewport) Size() (width, height int) {
	return v.display.Size()
}
