// Package app assembles the demo scene: one shaded mesh, a viewport and
// the per-frame callback that animates and draws it.
package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/Faultbox/shaderbunny/internal/engine/camera"
	"github.com/Faultbox/shaderbunny/internal/engine/geometry"
	"github.com/Faultbox/shaderbunny/internal/engine/scene"
	"github.com/Faultbox/shaderbunny/internal/engine/viewport"
)

// MeshName names the demo mesh in the scene.
const MeshName = "bunny"

// Drawer issues the draw calls for a scene as seen by a camera.
type Drawer interface {
	Render(s *scene.Scene, cam *camera.Perspective) error
}

// Assembly owns the scene and drives one frame per loop tick.
type Assembly struct {
	view   *viewport.Viewport
	drawer Drawer

	scene    *scene.Scene
	mesh     *scene.Mesh
	material *scene.RawShaderMaterial

	// Seconds since the first frame. Accumulated in float64 so long
	// sessions do not lose precision before the uniform write.
	time   float64
	frames uint64
}

// NewAssembly pairs geom with mat in a mesh and adds it to a new scene.
func NewAssembly(view *viewport.Viewport, drawer Drawer, geom *geometry.Geometry, mat *scene.RawShaderMaterial) (*Assembly, error) {
	if view == nil || drawer == nil {
		return nil, errors.New("assembly needs a viewport and a drawer")
	}
	if geom == nil || mat == nil {
		return nil, errors.New("assembly needs geometry and a material")
	}

	mesh := scene.NewMesh(geom, mat)
	mesh.Name = MeshName

	a := &Assembly{
		view:     view,
		drawer:   drawer,
		scene:    scene.New(),
		mesh:     mesh,
		material: mat,
		time:     float64(mat.Time()),
	}
	a.scene.Add(mesh)
	return a, nil
}

// Frame advances the time uniform by dt, steps the camera and draws the
// scene once. It has the loop.FrameFunc signature.
func (a *Assembly) Frame(dt time.Duration) error {
	a.time += dt.Seconds()
	a.material.SetTime(float32(a.time))

	a.view.UpdateControls()

	if err := a.drawer.Render(a.scene, a.view.Camera()); err != nil {
		return fmt.Errorf("frame %d: %w", a.frames, err)
	}
	a.frames++
	return nil
}

// Time returns the accumulated time in seconds.
func (a *Assembly) Time() float64 {
	return a.time
}

// Frames returns the number of frames drawn.
func (a *Assembly) Frames() uint64 {
	return a.frames
}

// Scene returns the scene being drawn.
func (a *Assembly) Scene() *scene.Scene {
	return a.scene
}

// Mesh returns the demo mesh.
func (a *Assembly) Mesh() *scene.Mesh {
	return a.mesh
}

// Material returns the mesh material.
func (a *Assembly) Material() *scene.RawShaderMaterial {
	return a.material
}

// Viewport returns the viewport the scene is drawn through.
func (a *Assembly) Viewport() *viewport.Viewport {
	return a.view
}
