package renderer

import (
	"github.com/go-gl/mathgl/mgl32"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/galaxy/field"
)

// PointCloud draws a particle field as camera-facing quads with additive
// blending. It keeps its own vertex buffers: Replace reallocates them for a
// new field, Refresh copies changed contents into the existing ones.
type PointCloud struct {
	positions []rl.Vector3
	colors    []rl.Color
	sizes     []float32

	version   uint64
	replaced  int
	refreshed int
}

// NewPointCloud creates an empty point cloud.
func NewPointCloud() *PointCloud {
	return &PointCloud{}
}

// Replace discards the current buffers and builds new ones from f.
// A nil or released field leaves the cloud empty.
func (p *PointCloud) Replace(f *field.ParticleField) {
	p.positions, p.colors, p.sizes = nil, nil, nil
	p.replaced++
	if f == nil || f.Released() {
		p.version = 0
		return
	}

	n := f.Count()
	p.positions = make([]rl.Vector3, n)
	p.colors = make([]rl.Color, n)
	p.sizes = make([]float32, n)
	p.copyFrom(f)
	p.version = f.Version()
	f.ClearDirty()
}

// Refresh uploads the contents of a field whose buffers were changed in
// place. A field from another generation falls back to Replace.
func (p *PointCloud) Refresh(f *field.ParticleField) {
	if f == nil || f.Released() || f.Version() != p.version || f.Count() != len(p.positions) {
		p.Replace(f)
		return
	}
	if !f.Dirty() {
		return
	}
	p.copyFrom(f)
	p.refreshed++
	f.ClearDirty()
}

func (p *PointCloud) copyFrom(f *field.ParticleField) {
	for i := range p.positions {
		x, y, z := f.Position(i)
		p.positions[i] = rl.NewVector3(x, y, z)

		c := f.Color(i)
		p.colors[i] = rl.NewColor(channel(c.R), channel(c.G), channel(c.B), 255)
		p.sizes[i] = f.Size(i)
	}
}

func channel(v float32) uint8 {
	return uint8(mgl32.Clamp(v, 0, 1)*255 + 0.5)
}

// Len returns the number of points held.
func (p *PointCloud) Len() int {
	return len(p.positions)
}

// Version returns the field generation the buffers were built from.
func (p *PointCloud) Version() uint64 {
	return p.version
}

// Uploads returns how many times the buffers were rebuilt and refreshed.
func (p *PointCloud) Uploads() (replaced, refreshed int) {
	return p.replaced, p.refreshed
}

// Draw renders every point facing cam. Must be called inside BeginMode3D.
func (p *PointCloud) Draw(cam rl.Camera3D) {
	if len(p.positions) == 0 {
		return
	}
	right, up := billboardAxes(cam)

	rl.BeginBlendMode(rl.BlendAdditive)
	rl.DisableDepthMask()
	rl.Begin(rl.Quads)
	for i, pos := range p.positions {
		h := p.sizes[i] * 0.5
		c := p.colors[i]
		rx, ry, rz := right[0]*h, right[1]*h, right[2]*h
		ux, uy, uz := up[0]*h, up[1]*h, up[2]*h

		rl.Color4ub(c.R, c.G, c.B, c.A)
		rl.Vertex3f(pos.X-rx-ux, pos.Y-ry-uy, pos.Z-rz-uz)
		rl.Vertex3f(pos.X+rx-ux, pos.Y+ry-uy, pos.Z+rz-uz)
		rl.Vertex3f(pos.X+rx+ux, pos.Y+ry+uy, pos.Z+rz+uz)
		rl.Vertex3f(pos.X-rx+ux, pos.Y-ry+uy, pos.Z-rz+uz)
	}
	rl.End()
	rl.EnableDepthMask()
	rl.EndBlendMode()
}

// billboardAxes returns the camera's screen-space right and up directions.
func billboardAxes(cam rl.Camera3D) (mgl32.Vec3, mgl32.Vec3) {
	eye := vec(cam.Position)
	forward := vec(cam.Target).Sub(eye)
	if forward.Len() < 1e-6 {
		return mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}
	}
	forward = forward.Normalize()
	right := forward.Cross(vec(cam.Up))
	if right.Len() < 1e-6 {
		right = mgl32.Vec3{1, 0, 0}
	}
	right = right.Normalize()
	return right, right.Cross(forward)
}

func vec(v rl.Vector3) mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}
