package field

import (
	"math"
	"slices"
	"testing"
)

func waveField(t *testing.T, count int) *ParticleField {
	t.Helper()
	p := galaxyParams()
	p.Mode = ModeWaveGrid
	p.Count = count
	p.Radius = 10
	f, err := NewGenerator(0).Generate(p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return f
}

func TestAnimateWave(t *testing.T) {
	f := waveField(t, 400)
	before := f.Count()
	posPtr := &f.Positions[0]

	Animate(f, 1.25)

	if f.Count() != before {
		t.Fatalf("count changed: %d -> %d", before, f.Count())
	}
	if &f.Positions[0] != posPtr {
		t.Fatal("Animate reallocated the position buffer")
	}
	if !f.Dirty() {
		t.Error("Animate should mark the field dirty")
	}

	for i := 0; i < f.Count(); i++ {
		x, y, _ := f.Position(i)
		want := math.Sin(1.25 + float64(x))
		if math.Abs(float64(y)-want) > 1e-5 {
			t.Fatalf("particle %d: y=%f, want %f", i, y, want)
		}
	}
}

func TestAnimateIdempotent(t *testing.T) {
	f := waveField(t, 100)

	Animate(f, 3.5)
	first := slices.Clone(f.Positions)
	Animate(f, 3.5)

	if !slices.Equal(first, f.Positions) {
		t.Error("animating twice with the same time should give identical buffers")
	}
}

func TestAnimateNoDriftAcrossFrames(t *testing.T) {
	f := waveField(t, 64)
	Animate(f, 0.5)
	reference := slices.Clone(f.Positions)

	for frame := 0; frame < 500; frame++ {
		Animate(f, float32(frame)*0.016)
	}
	Animate(f, 0.5)

	if !slices.Equal(reference, f.Positions) {
		t.Error("buffer drifted after many frames")
	}
}

func TestAnimateUsesGenerationTimeX(t *testing.T) {
	f := waveField(t, 16)
	// Corrupt the live x; the animation must keep using the original value.
	x0 := f.Positions[0]
	f.Positions[0] = 1000

	Animate(f, 0)

	want := float32(math.Sin(float64(x0)))
	if got := f.Positions[1]; math.Abs(float64(got-want)) > 1e-5 {
		t.Errorf("expected y from original x (%f), got %f", want, got)
	}
}

func TestAnimateEmptyAndReleased(t *testing.T) {
	Animate(nil, 1) // must not panic

	f := waveField(t, 4)
	f.Release()
	Animate(f, 1)
	if f.Dirty() {
		t.Error("released field should not be marked dirty")
	}
}

func TestClearDirty(t *testing.T) {
	f := waveField(t, 4)
	if f.Dirty() {
		t.Error("fresh field should not be dirty")
	}
	Animate(f, 1)
	f.ClearDirty()
	if f.Dirty() {
		t.Error("ClearDirty should reset the flag")
	}
}

func TestWaveGridLayout(t *testing.T) {
	f := waveField(t, 9)
	// 3x3 grid spanning [-5, 5]
	wantX := []float32{-5, 0, 5}
	for i := 0; i < 9; i++ {
		x, y, z := f.Position(i)
		if x != wantX[i%3] || z != wantX[i/3] || y != 0 {
			t.Errorf("particle %d at (%f, %f, %f)", i, x, y, z)
		}
	}
}

func TestSummarize(t *testing.T) {
	p := galaxyParams()
	f, err := NewGenerator(0).Generate(p)
	if err != nil {
		t.Fatal(err)
	}

	s := Summarize(f)
	if s.Count != p.Count {
		t.Errorf("expected count %d, got %d", p.Count, s.Count)
	}
	if s.MaxRadius > float64(p.Radius)+1e-4 {
		t.Errorf("max radius %f exceeds %f", s.MaxRadius, p.Radius)
	}
	if s.MeanRadius <= 0 || s.MeanRadius >= s.MaxRadius {
		t.Errorf("mean radius %f not in (0, %f)", s.MeanRadius, s.MaxRadius)
	}
	if s.MinY != 0 || s.MaxY != 0 {
		t.Errorf("expected flat galaxy, got y in [%f, %f]", s.MinY, s.MaxY)
	}

	if (Summarize(nil) != Summary{}) {
		t.Error("nil field should summarize to zero")
	}
}
