package game

import (
	"log/slog"

	"github.com/pthm-cable/galaxy/field"
	"github.com/pthm-cable/galaxy/telemetry"
)

// BeginFrame starts timing a frame. Work done before EndFrame, including
// Regenerate and Step, is attributed to it.
func (g *Game) BeginFrame() {
	g.perf.StartTick()
}

// Step advances one frame by dt seconds: the field animation first, then
// one simulation tick and transform sync. Only wave grids animate; the
// other modes keep their generated heights.
func (g *Game) Step(dt float32) error {
	if f := g.generator.Current(); g.animate && f != nil && dt > 0 && f.Parameters().Mode == field.ModeWaveGrid {
		g.perf.StartPhase(telemetry.PhaseFieldAnimate)
		g.elapsed += dt
		field.Animate(f, g.elapsed)
	}
	return g.loop.Tick(dt)
}

// EndFrame records the frame's timing and counters and flushes a
// telemetry window when one is complete.
func (g *Game) EndFrame() {
	g.perf.EndTick()
	g.perf.RecordFrame()

	stats := g.world.Stats()
	impacts := g.reactor.Triggered()
	g.frames.Record(telemetry.FrameSample{
		Entities: g.registry.Len(),
		Contacts: stats.LastContacts,
		SubSteps: stats.LastSubSteps,
		Impacts:  impacts - g.lastImpacts,
	})
	g.lastImpacts = impacts
	g.tick++

	if g.tick-g.lastFlush >= uint64(g.cfg.Telemetry.StatsWindow) {
		g.flushTelemetry()
	}
}

// UpdateHeadless runs one frame at the fixed step without graphics.
func (g *Game) UpdateHeadless() error {
	g.BeginFrame()
	err := g.Step(g.cfg.Derived.FixedStep32)
	g.EndFrame()
	return err
}

// flushTelemetry closes the current stats window.
func (g *Game) flushTelemetry() {
	stats := g.frames.Flush()
	stats.WindowEndTick = g.tick
	stats.SimTimeSec = g.loop.SimTime()
	if f := g.generator.Current(); f != nil {
		stats.FieldCount = f.Count()
		stats.FieldVersion = f.Version()
	}
	g.lastFlush = g.tick
	perfStats := g.perf.Stats()

	if g.logStats {
		slog.Info("stats", "window", stats)
		slog.Info("perf", "window", perfStats)
	}

	if err := g.output.WriteFrames(stats); err != nil {
		slog.Error("failed to write frames", "error", err)
	}
	if err := g.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range g.bookmarks.Check(stats) {
		bm.LogBookmark()
		g.saveBookmarkSnapshot(bm)
	}
}
