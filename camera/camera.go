// Package camera provides an orbiting 3D camera.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Orbit circles a target at a fixed height, looking at it.
type Orbit struct {
	Target mgl32.Vec3

	// Horizontal distance from the target and height above it
	Distance, Height float32

	// Angular speed in radians per second; 0 holds still
	Speed float32

	// Vertical field of view in degrees
	FOV float32

	// Distance constraints
	MinDistance, MaxDistance float32

	angle float32
}

// New creates an orbit camera around the origin, starting on the +X axis
// rotated by startAngle radians.
func New(distance, height, speed, fov, startAngle float32) *Orbit {
	return &Orbit{
		Distance:    distance,
		Height:      height,
		Speed:       speed,
		FOV:         fov,
		MinDistance: 0.5,
		MaxDistance: 100,
		angle:       startAngle,
	}
}

// Update advances the orbit by dt seconds.
func (o *Orbit) Update(dt float32) {
	if !(dt > 0) {
		return
	}
	o.angle = math32.Mod(o.angle+o.Speed*dt, 2*math32.Pi)
}

// Angle returns the current orbit angle in radians.
func (o *Orbit) Angle() float32 {
	return o.angle
}

// Position returns the eye position in world coordinates.
func (o *Orbit) Position() mgl32.Vec3 {
	s, c := math32.Sincos(o.angle)
	return o.Target.Add(mgl32.Vec3{c * o.Distance, o.Height, s * o.Distance})
}

// SetDistance sets the orbit distance, clamped to min/max.
func (o *Orbit) SetDistance(d float32) {
	o.Distance = mgl32.Clamp(d, o.MinDistance, o.MaxDistance)
}

// ZoomBy scales the orbit distance by factor.
func (o *Orbit) ZoomBy(factor float32) {
	o.SetDistance(o.Distance * factor)
}

// View returns the view matrix looking from Position at Target.
func (o *Orbit) View() mgl32.Mat4 {
	return mgl32.LookAtV(o.Position(), o.Target, mgl32.Vec3{0, 1, 0})
}
