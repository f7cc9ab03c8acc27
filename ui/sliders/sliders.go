// Package sliders describes how each numeric generation parameter is
// edited: range, step, readout format and visibility per mode. It has no
// raylib dependency so the edit rules can be tested on their own.
package sliders

import (
	"math"

	"github.com/pthm-cable/galaxy/field"
)

// Descriptor defines how one numeric parameter is edited.
type Descriptor struct {
	ID     string
	Label  string
	Min    float32
	Max    float32
	Step   float32 // values snap to multiples of Step from Min; 0 disables snapping
	Format string  // Printf format for the value readout

	Visible func(field.GenerationParameters) bool // nil = always visible
	Get     func(field.GenerationParameters) float32
	Set     func(*field.GenerationParameters, float32)
}

// Quantize clamps v to the slider range and snaps it to the step. The
// snap is done in float64 and rounded to the step's decimal places so
// values already on the grid come back unchanged.
func (d Descriptor) Quantize(v float32) float32 {
	v = min(max(v, d.Min), d.Max)
	if d.Step <= 0 {
		return v
	}
	step := float64(d.Step)
	lo := float64(d.Min)
	n := math.Round((float64(v) - lo) / step)
	scale := math.Pow(10, float64(decimals(step)))
	q := math.Round((lo+n*step)*scale) / scale
	return min(float32(q), d.Max)
}

// Edit applies a raw widget value to cur. It reports a change only when
// the widget moved the value by at least half a step; a widget echoing
// cur back is never an edit.
func (d Descriptor) Edit(cur, raw float32) (float32, bool) {
	if raw == cur {
		return cur, false
	}
	q := d.Quantize(raw)
	tol := d.Step / 2
	if d.Step <= 0 {
		tol = 0
	}
	if diff := q - cur; diff <= tol && diff >= -tol {
		return cur, false
	}
	return q, true
}

// decimals returns the number of decimal places needed to print step,
// capped at 6.
func decimals(step float64) int {
	for n := 0; n < 6; n++ {
		p := math.Pow(10, float64(n))
		if math.Abs(step*p-math.Round(step*p)) < 1e-6*p {
			return n
		}
	}
	return 6
}

func galaxyOnly(p field.GenerationParameters) bool {
	return p.Mode == field.ModeGalaxy
}

// ForParameters returns the sliders for every numeric generation
// parameter. maxCount caps the count slider.
func ForParameters(maxCount int) []Descriptor {
	if maxCount < 100 {
		maxCount = 100
	}
	return []Descriptor{
		{
			ID: "count", Label: "Count", Min: 100, Max: float32(maxCount), Step: 100, Format: "%.0f",
			Get: func(p field.GenerationParameters) float32 { return float32(p.Count) },
			Set: func(p *field.GenerationParameters, v float32) { p.Count = int(v) },
		},
		{
			ID: "size", Label: "Size", Min: 0.001, Max: 0.1, Step: 0.001, Format: "%.3f",
			Get: func(p field.GenerationParameters) float32 { return p.Size },
			Set: func(p *field.GenerationParameters, v float32) { p.Size = v },
		},
		{
			ID: "size_variation", Label: "Size var", Min: 0, Max: 1, Step: 0.01, Format: "%.2f",
			Get: func(p field.GenerationParameters) float32 { return p.SizeVariation },
			Set: func(p *field.GenerationParameters, v float32) { p.SizeVariation = v },
		},
		{
			ID: "radius", Label: "Radius", Min: 0.01, Max: 20, Step: 0.01, Format: "%.2f",
			Get: func(p field.GenerationParameters) float32 { return p.Radius },
			Set: func(p *field.GenerationParameters, v float32) { p.Radius = v },
		},
		{
			ID: "branches", Label: "Branches", Min: 2, Max: 20, Step: 1, Format: "%.0f",
			Visible: galaxyOnly,
			Get:     func(p field.GenerationParameters) float32 { return float32(p.Branches) },
			Set:     func(p *field.GenerationParameters, v float32) { p.Branches = int(v) },
		},
		{
			ID: "spin", Label: "Spin", Min: -5, Max: 5, Step: 0.001, Format: "%.3f",
			Visible: galaxyOnly,
			Get:     func(p field.GenerationParameters) float32 { return p.Spin },
			Set:     func(p *field.GenerationParameters, v float32) { p.Spin = v },
		},
		{
			ID: "randomness", Label: "Random", Min: 0, Max: 2, Step: 0.001, Format: "%.3f",
			Visible: galaxyOnly,
			Get:     func(p field.GenerationParameters) float32 { return p.Randomness },
			Set:     func(p *field.GenerationParameters, v float32) { p.Randomness = v },
		},
		{
			ID: "randomness_power", Label: "Power", Min: 1, Max: 10, Step: 0.001, Format: "%.3f",
			Visible: galaxyOnly,
			Get:     func(p field.GenerationParameters) float32 { return p.RandomnessPower },
			Set:     func(p *field.GenerationParameters, v float32) { p.RandomnessPower = v },
		},
	}
}
