// Package config handles demo configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/Faultbox/shaderbunny/internal/engine/camera"
	"github.com/Faultbox/shaderbunny/internal/engine/geometry"
	"github.com/Faultbox/shaderbunny/internal/engine/viewport"
)

// Config holds all settings.
type Config struct {
	Window      WindowConfig      `yaml:"window"`
	Renderer    RendererConfig    `yaml:"renderer"`
	Controls    ControlsConfig    `yaml:"controls"`
	Mesh        MeshConfig        `yaml:"mesh"`
	Shaders     ShadersConfig     `yaml:"shaders"`
	Screenshots ScreenshotsConfig `yaml:"screenshots"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
	HighDPI    bool   `yaml:"high_dpi"`
}

// RendererConfig is forwarded to the render surface.
type RendererConfig struct {
	Antialias  bool       `yaml:"antialias"`
	Alpha      bool       `yaml:"alpha"`
	ClearColor [4]float32 `yaml:"clear_color"`
}

// ControlsConfig sets up the orbit camera. Angles are in degrees.
type ControlsConfig struct {
	DistanceBounds [2]float32 `yaml:"distance_bounds"`
	Distance       float32    `yaml:"distance"`
	PhiDegrees     float32    `yaml:"phi_degrees"`
	ThetaDegrees   float32    `yaml:"theta_degrees"`
	Damping        float32    `yaml:"damping"`
	RotateSpeed    float32    `yaml:"rotate_speed"`
	ZoomSpeed      float32    `yaml:"zoom_speed"`
}

// MeshConfig selects the mesh dataset.
type MeshConfig struct {
	Path string `yaml:"path"` // .obj or .stl; empty uses the built-in mesh
	Flat bool   `yaml:"flat"`
}

// ShadersConfig selects the shader pair.
type ShadersConfig struct {
	Dir      string `yaml:"dir"` // empty uses the built-in shaders
	Vertex   string `yaml:"vertex"`
	Fragment string `yaml:"fragment"`
}

// ScreenshotsConfig sets where captured frames are written.
type ScreenshotsConfig struct {
	Dir string `yaml:"dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	orbit := camera.DefaultOrbitOptions()
	view := viewport.DefaultOptions()

	return &Config{
		Window: WindowConfig{
			Title:   "shaderbunny",
			Width:   1280,
			Height:  720,
			VSync:   true,
			HighDPI: true,
		},
		Renderer: RendererConfig{
			Antialias:  view.Surface.Antialias,
			Alpha:      view.Surface.Alpha,
			ClearColor: view.Surface.ClearColor,
		},
		Controls: ControlsConfig{
			DistanceBounds: orbit.DistanceBounds,
			Distance:       orbit.Distance,
			PhiDegrees:     degrees(orbit.Phi),
			ThetaDegrees:   degrees(orbit.Theta),
			Damping:        orbit.Damping,
			RotateSpeed:    orbit.RotateSpeed,
			ZoomSpeed:      orbit.ZoomSpeed,
		},
		Mesh: MeshConfig{
			Flat: true,
		},
		Shaders: ShadersConfig{
			Vertex:   "shaders/bunny.vert",
			Fragment: "shaders/bunny.frag",
		},
		Screenshots: ScreenshotsConfig{
			Dir: "screenshots",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports settings that cannot produce a working viewport.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	lo, hi := c.Controls.DistanceBounds[0], c.Controls.DistanceBounds[1]
	if lo <= 0 || hi < lo {
		errs = append(errs, fmt.Errorf("distance bounds [%g, %g] must satisfy 0 < min <= max", lo, hi))
	}
	// Zero damping turns inertia off.
	if d := c.Controls.Damping; d < 0 || d > 1 {
		errs = append(errs, fmt.Errorf("damping %g must be within [0, 1]", d))
	}
	if c.Shaders.Vertex == "" || c.Shaders.Fragment == "" {
		errs = append(errs, errors.New("shader paths must not be empty"))
	}
	return errors.Join(errs...)
}

// ViewportOptions converts the renderer and controls sections into
// viewport options. Bounds the file does not set keep their defaults.
func (c *Config) ViewportOptions() viewport.Options {
	orbit := camera.DefaultOrbitOptions()
	orbit.DistanceBounds = c.Controls.DistanceBounds
	orbit.Distance = c.Controls.Distance
	orbit.Phi = radians(c.Controls.PhiDegrees)
	orbit.Theta = radians(c.Controls.ThetaDegrees)
	orbit.Damping = c.Controls.Damping
	orbit.RotateSpeed = c.Controls.RotateSpeed
	orbit.ZoomSpeed = c.Controls.ZoomSpeed

	return viewport.Options{
		Surface: viewport.SurfaceOptions{
			Antialias:  c.Renderer.Antialias,
			Alpha:      c.Renderer.Alpha,
			ClearColor: c.Renderer.ClearColor,
		},
		Controls: orbit,
	}
}

// GeometryOptions returns the geometry build settings.
func (c *Config) GeometryOptions() geometry.Options {
	return geometry.Options{Flat: c.Mesh.Flat}
}

func radians(deg float32) float32 {
	return deg * math.Pi / 180
}

func degrees(rad float32) float32 {
	return rad * 180 / math.Pi
}
