package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewStartsOnXAxis(t *testing.T) {
	cam := New(6, 3, 0.1, 75, 0)
	pos := cam.Position()
	if pos.Sub(mgl32.Vec3{6, 3, 0}).Len() > 1e-5 {
		t.Errorf("expected (6, 3, 0), got %v", pos)
	}
}

func TestUpdateOrbits(t *testing.T) {
	cam := New(4, 2, math.Pi/2, 75, 0)
	cam.Update(1) // quarter turn

	pos := cam.Position()
	if pos.Sub(mgl32.Vec3{0, 2, 4}).Len() > 1e-4 {
		t.Errorf("expected (0, 2, 4) after a quarter turn, got %v", pos)
	}

	// Horizontal distance stays constant
	flat := mgl32.Vec2{pos.X(), pos.Z()}
	if math.Abs(float64(flat.Len()-4)) > 1e-4 {
		t.Errorf("orbit radius drifted: %f", flat.Len())
	}
}

func TestUpdateIgnoresBadDt(t *testing.T) {
	cam := New(4, 2, 1, 75, 0.5)
	for _, dt := range []float32{0, -1, float32(math.NaN())} {
		cam.Update(dt)
	}
	if cam.Angle() != 0.5 {
		t.Errorf("angle changed to %f", cam.Angle())
	}
}

func TestAngleWraps(t *testing.T) {
	cam := New(4, 2, 1, 75, 0)
	for i := 0; i < 100; i++ {
		cam.Update(1)
	}
	if a := cam.Angle(); a < 0 || a >= 2*math.Pi {
		t.Errorf("angle not wrapped: %f", a)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(6, 3, 0, 75, 0)
	cam.ZoomBy(0.0001)
	if cam.Distance != cam.MinDistance {
		t.Errorf("expected min distance %f, got %f", cam.MinDistance, cam.Distance)
	}
	cam.ZoomBy(1e6)
	if cam.Distance != cam.MaxDistance {
		t.Errorf("expected max distance %f, got %f", cam.MaxDistance, cam.Distance)
	}
}

func TestTargetOffset(t *testing.T) {
	cam := New(2, 1, 0, 75, 0)
	cam.Target = mgl32.Vec3{10, 0, -5}
	if got := cam.Position(); got.Sub(mgl32.Vec3{12, 1, -5}).Len() > 1e-5 {
		t.Errorf("position = %v", got)
	}
	// The view matrix maps the target onto the -Z axis in view space.
	v := cam.View().Mul4x1(cam.Target.Vec4(1))
	if math.Abs(float64(v.X())) > 1e-4 || math.Abs(float64(v.Y())) > 1e-4 || v.Z() >= 0 {
		t.Errorf("target not centred in view: %v", v)
	}
}
