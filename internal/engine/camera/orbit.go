package camera

import (
	gomath "math"

	"github.com/Faultbox/shaderbunny/pkg/math"
)

// Keeps the view direction off the poles, where it would be parallel to up.
const polarEpsilon = 1e-4

// WheelNotch is the scroll distance, in Zoom units, of one mouse wheel
// notch. With the default ZoomSpeed a notch moves 9% of the distance.
const WheelNotch = 12

// settleThreshold is the pending motion below which damping snaps to rest.
const settleThreshold = 1e-6

// OrbitOptions configures OrbitControls.
type OrbitOptions struct {
	// Point the camera orbits and looks at.
	Target math.Vec3

	// Spherical coordinates: distance from target, polar angle from +Y and
	// azimuth around Y, both in radians.
	Distance float32
	Phi      float32
	Theta    float32

	// Constraints as [min, max].
	DistanceBounds [2]float32
	PhiBounds      [2]float32
	ThetaBounds    [2]float32

	// Fraction of the remaining motion applied per update. Input is spread
	// over the following updates and sums to the requested amount. 1, and
	// anything outside (0, 1], applies it in one update with no inertia.
	Damping float32

	// Sensitivity
	RotateSpeed float32
	ZoomSpeed   float32
}

// DefaultOrbitOptions returns the orbit defaults: distance 2.5 within
// [1, 10], 70 degrees from the pole.
func DefaultOrbitOptions() OrbitOptions {
	inf := float32(gomath.Inf(1))
	return OrbitOptions{
		Distance:       2.5,
		Phi:            70 * gomath.Pi / 180,
		DistanceBounds: [2]float32{1, 10},
		PhiBounds:      [2]float32{0, gomath.Pi},
		ThetaBounds:    [2]float32{-inf, inf},
		Damping:        0.25,
		RotateSpeed:    0.28,
		ZoomSpeed:      0.0075,
	}
}

// OrbitControls is a damped orbit rig around a fixed target.
// Input methods only queue motion; Update applies it and recomputes the
// derived position, direction and up vectors.
type OrbitControls struct {
	opts OrbitOptions

	distance float32
	phi      float32
	theta    float32

	// Pending motion
	dDistance float32
	dPhi      float32
	dTheta    float32

	position  math.Vec3
	direction math.Vec3
	up        math.Vec3
}

// NewOrbitControls creates controls with the given options. Initial
// spherical coordinates are clamped to the bounds.
func NewOrbitControls(opts OrbitOptions) *OrbitControls {
	c := &OrbitControls{
		opts:     opts,
		distance: opts.Distance,
		phi:      opts.Phi,
		theta:    opts.Theta,
		up:       math.Vec3{Y: 1},
	}
	c.clamp()
	c.derive()
	return c
}

// Rotate queues a drag of (dx, dy) pixels over a viewport of the given
// size. A drag across the full width turns RotateSpeed * 2π radians in
// total once the motion settles.
func (c *OrbitControls) Rotate(dx, dy, width, height float32) {
	if width <= 0 || height <= 0 {
		return
	}
	turn := 2 * gomath.Pi * c.opts.RotateSpeed * c.gain()
	c.dTheta -= dx / width * turn
	c.dPhi -= dy / height * turn
}

// Zoom queues a scroll step. Positive delta moves closer by
// delta * ZoomSpeed of the current distance in total.
func (c *OrbitControls) Zoom(delta float32) {
	c.dDistance -= delta * c.opts.ZoomSpeed * c.distance * c.gain()
}

// gain is the per-update share of pending motion. Queued deltas are scaled
// by it so their geometric sum equals the input.
func (c *OrbitControls) gain() float32 {
	if d := c.opts.Damping; d > 0 && d <= 1 {
		return d
	}
	return 1
}

// Update applies pending motion, clamps to the bounds, recomputes the
// derived vectors and decays the pending motion by Damping.
func (c *OrbitControls) Update() {
	prev := *c

	c.distance += c.dDistance
	c.phi += c.dPhi
	c.theta += c.dTheta
	c.clamp()
	c.derive()

	if !c.position.IsFinite() || !c.direction.IsFinite() {
		// Degenerate input; drop it and stay where we were.
		*c = prev
		c.dDistance, c.dPhi, c.dTheta = 0, 0, 0
		return
	}

	keep := 1 - c.gain()
	c.dDistance = settle(c.dDistance * keep)
	c.dPhi = settle(c.dPhi * keep)
	c.dTheta = settle(c.dTheta * keep)
}

// Position returns the camera position.
func (c *OrbitControls) Position() math.Vec3 {
	return c.position
}

// Direction returns the unit view direction toward the target.
func (c *OrbitControls) Direction() math.Vec3 {
	return c.direction
}

// Up returns the camera up vector.
func (c *OrbitControls) Up() math.Vec3 {
	return c.up
}

// Distance returns the current distance from the target.
func (c *OrbitControls) Distance() float32 {
	return c.distance
}

// Phi returns the current polar angle in radians.
func (c *OrbitControls) Phi() float32 {
	return c.phi
}

// Theta returns the current azimuth in radians.
func (c *OrbitControls) Theta() float32 {
	return c.theta
}

// Settled reports whether no motion is pending.
func (c *OrbitControls) Settled() bool {
	return c.dDistance == 0 && c.dPhi == 0 && c.dTheta == 0
}

func (c *OrbitControls) clamp() {
	c.distance = clampf(c.distance, c.opts.DistanceBounds[0], c.opts.DistanceBounds[1])
	c.theta = clampf(c.theta, c.opts.ThetaBounds[0], c.opts.ThetaBounds[1])

	lo := max(c.opts.PhiBounds[0], polarEpsilon)
	hi := min(c.opts.PhiBounds[1], gomath.Pi-polarEpsilon)
	c.phi = clampf(c.phi, lo, hi)
}

func (c *OrbitControls) derive() {
	offset := math.FromSpherical(c.distance, c.phi, c.theta)
	c.position = c.opts.Target.Add(offset)
	c.direction = c.opts.Target.Sub(c.position).Normalize()
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func settle(v float32) float32 {
	if v > -settleThreshold && v < settleThreshold {
		return 0
	}
	return v
}
