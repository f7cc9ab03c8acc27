// Package field builds procedural point clouds (galaxy arms, random scatter,
// wave grids) as flat attribute buffers ready for a point renderer.
package field

// ParticleField holds the parallel attribute buffers of one generated point cloud.
// Index i in Positions corresponds to index i in Colors and Sizes.
type ParticleField struct {
	// Positions holds x, y, z per particle.
	Positions []float32
	// Colors holds r, g, b per particle. May be nil.
	Colors []float32
	// Sizes holds one size per particle. Nil means PointSize applies to all.
	Sizes []float32
	// PointSize is the size shared by every particle when Sizes is nil.
	PointSize float32

	// refX is the generation-time x of every particle. Animate reads it
	// instead of the live buffer so in-place writes can never compound.
	refX []float32

	params   GenerationParameters
	version  uint64
	dirty    bool
	released bool
}

func newParticleField(p GenerationParameters) *ParticleField {
	f := &ParticleField{
		Positions: make([]float32, p.Count*3),
		Colors:    make([]float32, p.Count*3),
		PointSize: p.Size,
		refX:      make([]float32, p.Count),
		params:    p,
	}
	if p.SizeVariation > 0 {
		f.Sizes = make([]float32, p.Count)
	}
	return f
}

// Count returns the number of particles.
func (f *ParticleField) Count() int {
	if f == nil {
		return 0
	}
	return len(f.Positions) / 3
}

// Position returns the position of particle i.
func (f *ParticleField) Position(i int) (x, y, z float32) {
	i3 := i * 3
	return f.Positions[i3], f.Positions[i3+1], f.Positions[i3+2]
}

// Color returns the colour of particle i, or white when the field has no colours.
func (f *ParticleField) Color(i int) RGB {
	if f.Colors == nil {
		return RGB{1, 1, 1}
	}
	i3 := i * 3
	return RGB{f.Colors[i3], f.Colors[i3+1], f.Colors[i3+2]}
}

// Size returns the size of particle i.
func (f *ParticleField) Size(i int) float32 {
	if f.Sizes == nil {
		return f.PointSize
	}
	return f.Sizes[i]
}

// Parameters returns the parameters the field was generated from.
func (f *ParticleField) Parameters() GenerationParameters {
	return f.params
}

// Version identifies the generation that produced this field.
func (f *ParticleField) Version() uint64 {
	return f.version
}

// Dirty reports whether buffer contents changed in place since ClearDirty.
func (f *ParticleField) Dirty() bool {
	return f.dirty
}

// ClearDirty marks the in-place changes as consumed by the renderer.
func (f *ParticleField) ClearDirty() {
	f.dirty = false
}

// Released reports whether Release was called.
func (f *ParticleField) Released() bool {
	return f.released
}

// Release drops every buffer. The field reports Count() == 0 afterwards.
func (f *ParticleField) Release() {
	if f == nil || f.released {
		return
	}
	f.Positions = nil
	f.Colors = nil
	f.Sizes = nil
	f.refX = nil
	f.dirty = false
	f.released = true
}

// snapshotReference records the generation-time x of every particle.
func (f *ParticleField) snapshotReference() {
	for i := range f.refX {
		f.refX[i] = f.Positions[i*3]
	}
}
