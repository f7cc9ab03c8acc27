package game

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/galaxy/config"
	"github.com/pthm-cable/galaxy/field"
	"github.com/pthm-cable/galaxy/physics"
	"github.com/pthm-cable/galaxy/systems"
	"github.com/pthm-cable/galaxy/telemetry"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	cfg.Field.Count = 500
	cfg.Field.Seed = 7
	return cfg
}

func newTestGame(t *testing.T, cfg *config.Config, opts Options) *Game {
	t.Helper()
	opts.Config = cfg
	g, err := NewGame(opts)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	return g
}

type recordingEffect struct {
	strengths []float32
}

func (e *recordingEffect) Impact(strength float32) {
	e.strengths = append(e.strengths, strength)
}

func TestNewGame(t *testing.T) {
	g := newTestGame(t, testConfig(t), Options{Seed: 1, Spawn: 2})
	defer g.Unload()

	if g.Registry().Len() != 2 {
		t.Errorf("expected 2 initial bodies, got %d", g.Registry().Len())
	}
	if g.World().BodyCount() != 3 {
		t.Errorf("expected floor plus 2 bodies, got %d", g.World().BodyCount())
	}
	if g.Graph().Len() != 2 {
		t.Errorf("expected 2 scene nodes, got %d", g.Graph().Len())
	}
	f := g.Field()
	if f == nil || f.Count() != 500 {
		t.Fatalf("expected a 500 particle field, got %v", f)
	}
	if g.Params().Mode != field.ModeGalaxy {
		t.Errorf("mode = %v", g.Params().Mode)
	}
}

func TestNewGameRejectsBadFieldConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"mode", func(c *config.Config) { c.Field.Mode = "spiral" }},
		{"colour", func(c *config.Config) { c.Field.InsideColor = "orange" }},
		{"count", func(c *config.Config) { c.Field.Count = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.mutate(cfg)
			if _, err := NewGame(Options{Config: cfg}); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestRegenerateKeepsFieldOnError(t *testing.T) {
	g := newTestGame(t, testConfig(t), Options{})
	defer g.Unload()

	before := g.Field()
	params := g.Params()

	bad := params
	bad.Count = g.MaxCount() + 1
	if err := g.Regenerate(bad); !errors.Is(err, field.ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
	if g.Field() != before || before.Released() {
		t.Error("previous field was not kept")
	}
	if g.Params() != params {
		t.Error("parameters changed on a rejected regeneration")
	}

	good := params
	good.Count = 200
	good.Branches = 5
	if err := g.Regenerate(good); err != nil {
		t.Fatal(err)
	}
	if !before.Released() {
		t.Error("previous field not released")
	}
	if g.Field().Count() != 200 || g.Field().Version() <= before.Version() {
		t.Errorf("unexpected field count=%d version=%d", g.Field().Count(), g.Field().Version())
	}
}

func TestStepAnimatesWaveField(t *testing.T) {
	cfg := testConfig(t)
	cfg.Field.Mode = "wave"
	cfg.Field.Animate = true
	g := newTestGame(t, cfg, Options{})
	defer g.Unload()

	f := g.Field()
	x0 := make([]float32, f.Count())
	for i := range x0 {
		x0[i], _, _ = f.Position(i)
	}

	g.BeginFrame()
	if err := g.Step(0.25); err != nil {
		t.Fatal(err)
	}
	g.EndFrame()

	if !f.Dirty() {
		t.Error("animated field not marked dirty")
	}
	for i := range x0 {
		_, y, _ := f.Position(i)
		if want := math32.Sin(0.25 + x0[i]); math32.Abs(y-want) > 1e-5 {
			t.Fatalf("particle %d: y=%f want %f", i, y, want)
		}
	}

	g.SetAnimate(false)
	f.ClearDirty()
	g.Step(0.25)
	if f.Dirty() {
		t.Error("field animated while animation is off")
	}
}

func TestStepLeavesGalaxyHeights(t *testing.T) {
	for _, mode := range []string{"galaxy", "scatter"} {
		t.Run(mode, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Field.Mode = mode
			cfg.Field.Animate = true
			g := newTestGame(t, cfg, Options{})
			defer g.Unload()

			f := g.Field()
			y0 := make([]float32, f.Count())
			for i := range y0 {
				_, y0[i], _ = f.Position(i)
			}
			f.ClearDirty()

			for i := 0; i < 5; i++ {
				g.BeginFrame()
				if err := g.Step(0.25); err != nil {
					t.Fatal(err)
				}
				g.EndFrame()
			}
			if f.Dirty() {
				t.Error("field marked dirty without animating")
			}
			for i := range y0 {
				if _, y, _ := f.Position(i); y != y0[i] {
					t.Fatalf("particle %d: y changed from %f to %f", i, y0[i], y)
				}
			}
		})
	}
}

func TestStepRejectsInvalidTimestep(t *testing.T) {
	g := newTestGame(t, testConfig(t), Options{Spawn: 1})
	defer g.Unload()

	if err := g.Step(-1); !errors.Is(err, systems.ErrInvalidTimestep) {
		t.Errorf("expected ErrInvalidTimestep, got %v", err)
	}
	if err := g.UpdateHeadless(); err != nil {
		t.Errorf("valid frame after rejection failed: %v", err)
	}
}

func TestResetRemovesEverything(t *testing.T) {
	g := newTestGame(t, testConfig(t), Options{Seed: 3, Spawn: 6})
	defer g.Unload()

	for i := 0; i < 30; i++ {
		if err := g.UpdateHeadless(); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if g.Registry().Len() != 0 || g.Graph().Len() != 0 {
		t.Errorf("leftover entities=%d nodes=%d", g.Registry().Len(), g.Graph().Len())
	}
	if g.World().BodyCount() != 1 || g.World().SubscriptionCount() != 0 {
		t.Errorf("leftover bodies=%d subs=%d", g.World().BodyCount(), g.World().SubscriptionCount())
	}
}

func TestSpawnRandomWithinBounds(t *testing.T) {
	cfg := testConfig(t)
	g := newTestGame(t, cfg, Options{Seed: 11})
	defer g.Unload()

	s := cfg.Spawn
	for i := 0; i < 40; i++ {
		h, err := g.SpawnRandom()
		if err != nil {
			t.Fatal(err)
		}
		snap, _ := g.Registry().Get(h)
		p := snap.Position
		half := float32(s.Spread / 2)
		if math32.Abs(p.X()) > half || math32.Abs(p.Z()) > half || p.Y() != float32(s.Height) {
			t.Errorf("spawn point %v outside the drop area", p)
		}
		switch snap.Shape.Kind {
		case physics.ShapeSphere:
			r := snap.Shape.Radius
			if r < float32(s.MinDimension) || r > float32(s.MaxRadius) {
				t.Errorf("radius %f out of range", r)
			}
		case physics.ShapeBox:
			for _, e := range snap.Shape.HalfExtents.Mul(2) {
				if e < float32(s.MinDimension)-1e-6 || e > float32(s.MaxBoxSize)+1e-6 {
					t.Errorf("box edge %f out of range", e)
				}
			}
		default:
			t.Errorf("unexpected shape %v", snap.Shape.Kind)
		}
	}
}

func TestImpactEffectOnLanding(t *testing.T) {
	cfg := testConfig(t)
	effect := &recordingEffect{}
	g := newTestGame(t, cfg, Options{Effect: effect})
	defer g.Unload()

	if _, err := g.SpawnSphere(0.5, mgl32.Vec3{0, 3, 0}); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 120; i++ {
		if err := g.UpdateHeadless(); err != nil {
			t.Fatal(err)
		}
	}
	if len(effect.strengths) == 0 {
		t.Fatal("landing did not play an impact")
	}
	threshold := float32(cfg.Audio.ImpactThreshold)
	for _, s := range effect.strengths {
		if s <= threshold {
			t.Errorf("impact %f at or below threshold %f", s, threshold)
		}
	}
	if g.Reactor().Triggered() != len(effect.strengths) {
		t.Errorf("reactor counted %d, effect got %d", g.Reactor().Triggered(), len(effect.strengths))
	}
}

func TestHeadlessOutput(t *testing.T) {
	cfg := testConfig(t)
	cfg.Telemetry.StatsWindow = 10
	dir := t.TempDir()
	g := newTestGame(t, cfg, Options{OutputDir: dir, Spawn: 1})

	for i := 0; i < 25; i++ {
		if err := g.UpdateHeadless(); err != nil {
			t.Fatal(err)
		}
	}
	if g.Tick() != 25 {
		t.Errorf("tick = %d, want 25", g.Tick())
	}
	g.Unload()

	var rows []telemetry.WindowStats
	if err := readCSV(filepath.Join(dir, "frames.csv"), &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 windows (two full, one partial), got %d", len(rows))
	}
	wantEnds := []uint64{10, 20, 25}
	for i, r := range rows {
		if r.WindowEndTick != wantEnds[i] {
			t.Errorf("row %d ends at %d, want %d", i, r.WindowEndTick, wantEnds[i])
		}
		if r.FieldCount != 500 {
			t.Errorf("row %d field count %d", i, r.FieldCount)
		}
	}
	if rows[2].Frames != 5 {
		t.Errorf("partial window has %d frames, want 5", rows[2].Frames)
	}

	var perf []telemetry.PerfStatsCSV
	if err := readCSV(filepath.Join(dir, "perf.csv"), &perf); err != nil {
		t.Fatal(err)
	}
	if len(perf) != 3 {
		t.Errorf("expected 3 perf rows, got %d", len(perf))
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config snapshot missing: %v", err)
	}
}

func readCSV(path string, out any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.UnmarshalFile(f, out)
}
