package game

import (
	"log/slog"

	"github.com/pthm-cable/galaxy/field"
	"github.com/pthm-cable/galaxy/telemetry"
)

// Regenerate replaces the particle field. On error the current field and
// parameters are kept.
func (g *Game) Regenerate(p field.GenerationParameters) error {
	g.perf.StartPhase(telemetry.PhaseFieldGenerate)
	f, err := g.generator.Generate(p)
	if err != nil {
		slog.Warn("field regeneration rejected", "error", err)
		return err
	}
	g.params = p
	g.elapsed = 0

	slog.Info("field regenerated",
		"version", f.Version(),
		"mode", p.Mode.String(),
		"seed", p.Seed,
		"summary", field.Summarize(f),
	)
	return nil
}

// Field returns the current particle field, or nil.
func (g *Game) Field() *field.ParticleField {
	return g.generator.Current()
}

// Params returns the parameters of the current field.
func (g *Game) Params() field.GenerationParameters {
	return g.params
}

// MaxCount returns the particle count ceiling.
func (g *Game) MaxCount() int {
	return g.generator.MaxCount()
}

// SetAnimate switches the wave animation on or off.
func (g *Game) SetAnimate(on bool) {
	g.animate = on
}

// Animating reports whether the field is animated each frame.
func (g *Game) Animating() bool {
	return g.animate
}
