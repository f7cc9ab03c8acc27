package field

import (
	"math/rand"
	"time"

	"github.com/chewxy/math32"
)

// DefaultMaxCount bounds Count when the generator is built without a ceiling.
const DefaultMaxCount = 1_000_000

// Generator builds fields and owns the most recent one.
// Generating a new field releases the previous one first.
type Generator struct {
	maxCount int
	current  *ParticleField
	version  uint64
}

// NewGenerator creates a generator. maxCount <= 0 uses DefaultMaxCount.
func NewGenerator(maxCount int) *Generator {
	if maxCount <= 0 {
		maxCount = DefaultMaxCount
	}
	return &Generator{maxCount: maxCount}
}

// MaxCount returns the allocation ceiling.
func (g *Generator) MaxCount() int {
	return g.maxCount
}

// Current returns the field from the last successful Generate, or nil.
func (g *Generator) Current() *ParticleField {
	return g.current
}

// Release drops the held field.
func (g *Generator) Release() {
	if g.current != nil {
		g.current.Release()
		g.current = nil
	}
}

// Generate validates p, releases the held field and builds a new one.
// On a validation error the held field is left untouched.
func (g *Generator) Generate(p GenerationParameters) (*ParticleField, error) {
	if err := p.Validate(g.maxCount); err != nil {
		return nil, err
	}

	// Free the old buffers before allocating the new ones
	g.Release()

	f := newParticleField(p)
	rng := newRand(p.Seed)

	switch p.Mode {
	case ModeGalaxy:
		buildGalaxy(f, p, rng)
	case ModeScatter:
		buildScatter(f, p, rng)
	case ModeWaveGrid:
		buildWaveGrid(f, p)
	}

	if f.Sizes != nil {
		for i := range f.Sizes {
			f.Sizes[i] = p.Size * (1 - p.SizeVariation*rng.Float32())
		}
	}

	f.snapshotReference()
	g.version++
	f.version = g.version
	g.current = f
	return f, nil
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// buildGalaxy places particles on spiral arms.
func buildGalaxy(f *ParticleField, p GenerationParameters, rng *rand.Rand) {
	branches := float32(p.Branches)
	for i := 0; i < p.Count; i++ {
		i3 := i * 3

		r := rng.Float32() * p.Radius
		spinAngle := r * p.Spin
		branchAngle := float32(i%p.Branches) / branches * 2 * math32.Pi
		angle := branchAngle + spinAngle

		var jx, jy, jz float32
		if p.Randomness > 0 {
			jx = jitter(rng, p, r)
			jy = jitter(rng, p, r)
			jz = jitter(rng, p, r)
		}

		f.Positions[i3] = math32.Cos(angle)*r + jx
		f.Positions[i3+1] = jy
		f.Positions[i3+2] = math32.Sin(angle)*r + jz

		var t float32
		if p.Radius > 0 {
			t = r / p.Radius
		}
		setColor(f, i, p.InsideColor.Lerp(p.OutsideColor, t))
	}
}

// jitter returns u^power * sign * randomness * r, biased towards zero by power.
func jitter(rng *rand.Rand, p GenerationParameters, r float32) float32 {
	sign := float32(1)
	if rng.Intn(2) == 0 {
		sign = -1
	}
	return math32.Pow(rng.Float32(), p.RandomnessPower) * sign * p.Randomness * r
}

// buildScatter fills a cube of side Radius with random points and colours.
func buildScatter(f *ParticleField, p GenerationParameters, rng *rand.Rand) {
	for i := range f.Positions {
		f.Positions[i] = (rng.Float32() - 0.5) * p.Radius
		f.Colors[i] = rng.Float32()
	}
}

// buildWaveGrid lays particles on a square x/z grid centred on the origin.
// Colour runs from inside to outside along x.
func buildWaveGrid(f *ParticleField, p GenerationParameters) {
	side := int(math32.Ceil(math32.Sqrt(float32(p.Count))))
	step := float32(0)
	if side > 1 {
		step = p.Radius / float32(side-1)
	}
	half := p.Radius / 2

	for i := 0; i < p.Count; i++ {
		col := i % side
		row := i / side
		x := float32(col)*step - half
		z := float32(row)*step - half
		if side == 1 {
			x, z = 0, 0
		}

		i3 := i * 3
		f.Positions[i3] = x
		f.Positions[i3+1] = 0
		f.Positions[i3+2] = z

		var t float32
		if side > 1 {
			t = float32(col) / float32(side-1)
		}
		setColor(f, i, p.InsideColor.Lerp(p.OutsideColor, t))
	}
}

func setColor(f *ParticleField, i int, c RGB) {
	i3 := i * 3
	f.Colors[i3] = c.R
	f.Colors[i3+1] = c.G
	f.Colors[i3+2] = c.B
}
