package main

import (
	"flag"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/galaxy/audio"
	"github.com/pthm-cable/galaxy/config"
	"github.com/pthm-cable/galaxy/game"
	"github.com/pthm-cable/galaxy/telemetry"
	"github.com/pthm-cable/galaxy/viewer"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics or audio")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N frames (0 = unlimited)")
	spawn := flag.Int("spawn", -1, "Bodies dropped at startup (-1 = use config)")
	mute := flag.Bool("mute", false, "Disable impact sounds")
	restorePath := flag.String("restore", "", "Scene snapshot JSON to restore at startup")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	opts := game.Options{
		Config:    cfg,
		Seed:      *seed,
		LogStats:  *logStats,
		OutputDir: *outputDir,
		Spawn:     *spawn,
	}

	if *headless {
		// Headless mode - pure CPU simulation, no raylib needed
		g, err := game.NewGame(opts)
		if err != nil {
			slog.Error("failed to start", "error", err)
			os.Exit(1)
		}
		defer g.Unload()
		restore(g, *restorePath)

		slog.Info("starting headless simulation",
			"seed", *seed,
			"max_ticks", *maxTicks,
		)

		for {
			if err := g.UpdateHeadless(); err != nil {
				slog.Error("simulation stopped", "tick", g.Tick(), "error", err)
				return
			}

			if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
				slog.Info("max ticks reached", "tick", g.Tick())
				return
			}
		}
	}

	// Graphical mode
	if cfg.Audio.Enabled && !*mute {
		if player := startAudio(cfg); player != nil {
			defer player.Close()
			opts.Effect = player
		}
	}

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Galaxy")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGame(opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		return
	}
	defer g.Unload()
	restore(g, *restorePath)

	v := viewer.New(g)
	defer v.Unload()

	for !rl.WindowShouldClose() {
		v.Update()
		v.Draw()

		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			break
		}
	}
}

// restore loads a scene snapshot into g. Failures are logged and the
// freshly built scene is kept.
func restore(g *game.Game, path string) {
	if path == "" {
		return
	}
	snap, err := telemetry.LoadSnapshot(path)
	if err != nil {
		slog.Error("failed to load snapshot", "path", path, "error", err)
		return
	}
	if err := g.Restore(snap); err != nil {
		slog.Warn("snapshot restored with errors", "path", path, "error", err)
	}
}

// startAudio opens the speaker. Without a device it returns nil and the
// game runs silent.
func startAudio(cfg *config.Config) *audio.Player {
	player := audio.NewPlayer(audio.SettingsFromConfig(cfg.Audio))
	if err := player.Init(); err != nil {
		slog.Warn("audio unavailable", "error", err)
		return nil
	}
	return player
}
