// Package camera provides the perspective camera and the orbit controls
// that drive it.
package camera

import (
	gomath "math"

	"github.com/Faultbox/shaderbunny/pkg/math"
)

// Perspective is a pinhole camera with a symmetric frustum.
type Perspective struct {
	FOV    float32 // Vertical field of view, degrees
	Aspect float32 // Width / height
	Near   float32
	Far    float32

	Position math.Vec3
	Up       math.Vec3

	target     math.Vec3
	view       math.Mat4
	projection math.Mat4
}

// NewPerspective creates a camera at the origin looking down -Z.
func NewPerspective(fov, aspect, near, far float32) *Perspective {
	c := &Perspective{
		FOV:    fov,
		Aspect: aspect,
		Near:   near,
		Far:    far,
		Up:     math.Vec3{Y: 1},
		target: math.Vec3{Z: -1},
	}
	c.LookAt(c.target)
	c.UpdateProjectionMatrix()
	return c
}

// LookAt orients the camera from its position toward target using Up.
func (c *Perspective) LookAt(target math.Vec3) {
	c.target = target
	c.view = math.LookAt(c.Position, target, c.Up)
}

// UpdateProjectionMatrix rebuilds the projection from FOV, Aspect, Near
// and Far. Call it after changing any of them.
func (c *Perspective) UpdateProjectionMatrix() {
	fovY := float32(float64(c.FOV) * gomath.Pi / 180)
	c.projection = math.Perspective(fovY, c.Aspect, c.Near, c.Far)
}

// Target returns the point passed to the last LookAt.
func (c *Perspective) Target() math.Vec3 {
	return c.target
}

// ViewMatrix returns the world-to-camera matrix.
func (c *Perspective) ViewMatrix() math.Mat4 {
	return c.view
}

// ProjectionMatrix returns the camera-to-clip matrix.
func (c *Perspective) ProjectionMatrix() math.Mat4 {
	return c.projection
}
