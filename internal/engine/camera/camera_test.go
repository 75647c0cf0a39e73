package camera

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/shaderbunny/pkg/math"
)

const eps = 1e-4

func approx(a, b float32) bool {
	return gomath.Abs(float64(a-b)) <= eps
}

func TestNewPerspective(t *testing.T) {
	c := NewPerspective(65, 1, 0.01, 1000)

	if c.Up != (math.Vec3{Y: 1}) {
		t.Errorf("expected +Y up, got %v", c.Up)
	}
	p := c.ProjectionMatrix()
	if p[11] != -1 || p[15] != 0 {
		t.Errorf("expected perspective projection, got %v", p)
	}
	if !approx(p[0], p[5]) {
		t.Errorf("aspect 1 should give equal x/y scale, got %f and %f", p[0], p[5])
	}
}

func TestPerspectiveAspect(t *testing.T) {
	c := NewPerspective(65, 1, 0.01, 1000)
	c.Aspect = 2
	c.UpdateProjectionMatrix()

	p := c.ProjectionMatrix()
	if !approx(p[0]*2, p[5]) {
		t.Errorf("aspect 2: x scale %f should be half of y scale %f", p[0], p[5])
	}
}

func TestPerspectiveLookAt(t *testing.T) {
	c := NewPerspective(65, 1, 0.01, 1000)
	c.Position = math.Vec3{X: 0, Y: 0, Z: 5}
	c.LookAt(math.Vec3{})

	if c.Target() != (math.Vec3{}) {
		t.Errorf("expected target at origin, got %v", c.Target())
	}

	// Target must land on the view axis in front of the camera.
	v := c.ViewMatrix().TransformVec3(math.Vec3{})
	if !approx(v.X, 0) || !approx(v.Y, 0) || !approx(v.Z, -5) {
		t.Errorf("origin in view space = %v, want (0, 0, -5)", v)
	}
}

func TestOrbitDefaults(t *testing.T) {
	c := NewOrbitControls(DefaultOrbitOptions())

	if c.Distance() != 2.5 {
		t.Errorf("expected distance 2.5, got %f", c.Distance())
	}
	if !approx(c.Phi(), 70*gomath.Pi/180) {
		t.Errorf("expected phi 70 degrees, got %f rad", c.Phi())
	}
	if !approx(c.Position().Length(), 2.5) {
		t.Errorf("expected position 2.5 from target, got %f", c.Position().Length())
	}
	if !approx(c.Direction().Length(), 1) {
		t.Errorf("expected unit direction, got length %f", c.Direction().Length())
	}

	// Direction points from the camera back at the target.
	back := c.Position().Add(c.Direction().Scale(c.Distance()))
	if back.Length() > eps {
		t.Errorf("position + direction*distance = %v, want target", back)
	}
	if !c.Settled() {
		t.Error("new controls should have no pending motion")
	}
}

func TestOrbitUpdateIdempotentWithoutInput(t *testing.T) {
	c := NewOrbitControls(DefaultOrbitOptions())

	c.Update()
	pos, dir, up := c.Position(), c.Direction(), c.Up()
	c.Update()

	if c.Position() != pos || c.Direction() != dir || c.Up() != up {
		t.Errorf("second update moved the camera: %v -> %v", pos, c.Position())
	}
}

func TestOrbitRotateDamps(t *testing.T) {
	c := NewOrbitControls(DefaultOrbitOptions())
	c.Rotate(100, 0, 1000, 1000)

	c.Update()
	first := c.Theta()
	if first >= 0 {
		t.Fatalf("dragging right should decrease theta, got %f", first)
	}

	c.Update()
	second := c.Theta() - first
	if second >= 0 || -second >= -first {
		t.Errorf("inertia step %f should continue the turn but be smaller than %f", second, first)
	}

	for i := 0; i < 200 && !c.Settled(); i++ {
		c.Update()
	}
	if !c.Settled() {
		t.Error("motion did not settle")
	}
}

func TestOrbitZoomClampsDistance(t *testing.T) {
	opts := DefaultOrbitOptions()
	opts.Damping = 1
	c := NewOrbitControls(opts)

	c.Zoom(-1e6)
	c.Update()
	if c.Distance() != 10 {
		t.Errorf("expected distance clamped to 10, got %f", c.Distance())
	}

	c.Zoom(1e6)
	c.Update()
	if c.Distance() != 1 {
		t.Errorf("expected distance clamped to 1, got %f", c.Distance())
	}
}

func TestOrbitPhiStaysOffPole(t *testing.T) {
	opts := DefaultOrbitOptions()
	opts.Phi = 0
	c := NewOrbitControls(opts)

	if c.Phi() <= 0 {
		t.Errorf("phi should be kept off the pole, got %f", c.Phi())
	}
	if !c.Direction().IsFinite() || c.Direction().Length() == 0 {
		t.Errorf("degenerate direction at pole: %v", c.Direction())
	}
}

func TestOrbitIgnoresNonFiniteInput(t *testing.T) {
	c := NewOrbitControls(DefaultOrbitOptions())
	pos := c.Position()

	c.Rotate(float32(gomath.NaN()), 0, 100, 100)
	c.Update()

	if c.Position() != pos {
		t.Errorf("NaN input moved the camera to %v", c.Position())
	}
	if !c.Settled() {
		t.Error("NaN input should be discarded")
	}
}

func TestOrbitRotateIgnoresEmptyViewport(t *testing.T) {
	c := NewOrbitControls(DefaultOrbitOptions())
	c.Rotate(10, 10, 0, 0)
	if !c.Settled() {
		t.Error("rotate over an empty viewport should be ignored")
	}
}

func settleAll(c *OrbitControls) {
	for i := 0; i < 1000 && !c.Settled(); i++ {
		c.Update()
	}
}

func TestOrbitWheelNotchMovesFraction(t *testing.T) {
	tests := []struct {
		name   string
		notch  float32
		closer bool
	}{
		{"zoom in", 1, true},
		{"zoom out", -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewOrbitControls(DefaultOrbitOptions())
			before := c.Distance()

			c.Zoom(tt.notch * WheelNotch)
			settleAll(c)

			change := (c.Distance() - before) / before
			if tt.closer && change >= 0 || !tt.closer && change <= 0 {
				t.Fatalf("distance %f -> %f moved the wrong way", before, c.Distance())
			}
			if gomath.Abs(float64(change)) > 0.2 {
				t.Errorf("one notch moved the distance by %.0f%%, want under 20%%", change*100)
			}
			want := before * (1 - tt.notch*WheelNotch*DefaultOrbitOptions().ZoomSpeed)
			if !approx(c.Distance(), want) {
				t.Errorf("settled distance = %f, want %f", c.Distance(), want)
			}
		})
	}
}

func TestOrbitRotateTotalIndependentOfDamping(t *testing.T) {
	var thetas []float32
	for _, damping := range []float32{0.1, 0.25, 1} {
		opts := DefaultOrbitOptions()
		opts.Damping = damping
		c := NewOrbitControls(opts)

		c.Rotate(100, 0, 1000, 1000)
		settleAll(c)
		if !c.Settled() {
			t.Fatalf("damping %g: motion did not settle", damping)
		}
		thetas = append(thetas, c.Theta())
	}

	want := float32(-0.1 * 2 * gomath.Pi * DefaultOrbitOptions().RotateSpeed)
	for i, got := range thetas {
		if gomath.Abs(float64(got-want)) > 1e-4 {
			t.Errorf("run %d: theta = %f, want %f", i, got, want)
		}
	}
}

func TestOrbitZeroDampingHasNoInertia(t *testing.T) {
	opts := DefaultOrbitOptions()
	opts.Damping = 0
	c := NewOrbitControls(opts)

	c.Rotate(10, 0, 1000, 1000)
	c.Update()
	after := c.Theta()

	if !c.Settled() {
		t.Error("zero damping should apply the drag in one update")
	}
	for i := 0; i < 10; i++ {
		c.Update()
	}
	if c.Theta() != after {
		t.Errorf("camera kept turning after the drag: %f -> %f", after, c.Theta())
	}
}
