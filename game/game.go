// Package game wires the particle field, the rigid-body world and the
// scene graph into one frame-driven application state.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/galaxy/config"
	"github.com/pthm-cable/galaxy/field"
	"github.com/pthm-cable/galaxy/physics"
	"github.com/pthm-cable/galaxy/scene"
	"github.com/pthm-cable/galaxy/systems"
	"github.com/pthm-cable/galaxy/telemetry"
)

// Options configures a new game.
type Options struct {
	Config    *config.Config       // nil uses config.Cfg()
	Seed      int64                // RNG seed for spawns and the field; 0 = time-based
	LogStats  bool                 // log window stats via slog
	OutputDir string               // CSV output directory; empty disables output
	Effect    systems.ImpactEffect // played on hard contacts; nil is silent
	Spawn     int                  // initial random bodies; negative uses the config
}

// Game holds the complete application state.
type Game struct {
	cfg  *config.Config
	rng  *rand.Rand
	seed int64

	// Field
	generator *field.Generator
	params    field.GenerationParameters
	animate   bool
	elapsed   float32

	// Simulation
	world    *physics.World
	floor    physics.BodyID
	graph    *scene.Graph
	registry *systems.Registry
	loop     *systems.Loop
	reactor  *systems.ImpactReactor

	// Telemetry
	phases      *systems.PhaseRegistry
	perf        *telemetry.PerfCollector
	frames      *telemetry.FrameStats
	output      *telemetry.OutputManager
	bookmarks   *telemetry.BookmarkDetector
	logStats    bool
	lastImpacts int
	lastFlush   uint64

	tick uint64
}

// NewGame builds the world, generates the initial field and spawns the
// initial bodies.
func NewGame(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	params, err := FieldParams(cfg.Field)
	if err != nil {
		return nil, err
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if opts.Seed != 0 && params.Seed == 0 {
		params.Seed = opts.Seed
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	world := physics.NewWorld(PhysicsConfig(cfg))
	floor, err := world.AddBody(physics.BodyDesc{
		Shape:    physics.Plane(),
		Position: mgl32.Vec3{0, cfg.Derived.FloorY32, 0},
	})
	if err != nil {
		output.Close()
		return nil, fmt.Errorf("adding floor: %w", err)
	}

	graph := scene.NewGraph()
	registry := systems.NewRegistry(world, graph, nil)
	reactor := systems.NewImpactReactor(float32(cfg.Audio.ImpactThreshold), opts.Effect)
	registry.SetObserver(reactor)

	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	loop := systems.NewLoop(world, registry, LoopConfig(cfg))
	loop.SetTimer(perf)

	g := &Game{
		cfg:       cfg,
		rng:       rand.New(rand.NewSource(seed)),
		seed:      seed,
		generator: field.NewGenerator(cfg.Field.MaxCount),
		animate:   cfg.Field.Animate,
		world:     world,
		floor:     floor,
		graph:     graph,
		registry:  registry,
		loop:      loop,
		reactor:   reactor,
		phases:    systems.NewPhaseRegistry(),
		perf:      perf,
		frames:    telemetry.NewFrameStats(),
		output:    output,
		bookmarks: telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistory),
		logStats:  opts.LogStats,
	}

	if err := g.Regenerate(params); err != nil {
		g.Unload()
		return nil, err
	}

	spawn := opts.Spawn
	if spawn < 0 {
		spawn = cfg.Spawn.Initial
	}
	for i := 0; i < spawn; i++ {
		if _, err := g.SpawnRandom(); err != nil {
			g.Unload()
			return nil, err
		}
	}

	slog.Info("game initialized",
		"seed", seed,
		"field_mode", params.Mode.String(),
		"field_count", params.Count,
		"bodies", g.registry.Len(),
		"output_dir", opts.OutputDir,
	)
	return g, nil
}

// Config returns the configuration the game was built with.
func (g *Game) Config() *config.Config { return g.cfg }

// Registry returns the entity registry.
func (g *Game) Registry() *systems.Registry { return g.registry }

// Graph returns the scene graph mirrored from the simulation.
func (g *Game) Graph() *scene.Graph { return g.graph }

// World returns the physics world.
func (g *Game) World() *physics.World { return g.world }

// Loop returns the sync loop.
func (g *Game) Loop() *systems.Loop { return g.loop }

// Reactor returns the contact reactor.
func (g *Game) Reactor() *systems.ImpactReactor { return g.reactor }

// Phases returns the frame phase metadata.
func (g *Game) Phases() *systems.PhaseRegistry { return g.phases }

// Perf returns the frame timing collector.
func (g *Game) Perf() *telemetry.PerfCollector { return g.perf }

// Tick returns the number of completed frames.
func (g *Game) Tick() uint64 { return g.tick }

// Unload flushes pending telemetry and releases every resource. The game
// must not be used afterwards.
func (g *Game) Unload() {
	if g.frames.Len() > 0 {
		g.flushTelemetry()
	}
	if err := g.registry.Clear(); err != nil {
		slog.Warn("clearing registry on unload", "error", err)
	}
	g.generator.Release()
	if err := g.output.Close(); err != nil {
		slog.Error("closing output", "error", err)
	}
}
