// Package viewer is the graphical front end: it draws the particle field
// and the simulated objects, and turns panel actions into game calls.
package viewer

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/galaxy/camera"
	"github.com/pthm-cable/galaxy/game"
	"github.com/pthm-cable/galaxy/renderer"
	"github.com/pthm-cable/galaxy/telemetry"
	"github.com/pthm-cable/galaxy/ui"
)

const panelWidth = 280

// Viewer drives a game from the raylib window loop. Requires an open window.
type Viewer struct {
	game *game.Game

	camera *camera.Orbit
	points *renderer.PointCloud
	scene  *renderer.SceneRenderer

	panel     *ui.Panel
	hud       *ui.HUD
	perfPanel *ui.PerfPanel

	// Actions from the last Draw, applied by the next Update
	actions ui.Actions

	// Last frame error; the loop halts on consistency errors
	lastErr error
}

// New creates a viewer for g.
func New(g *game.Game) *Viewer {
	cfg := g.Config()
	cam := camera.New(
		float32(cfg.Camera.Distance),
		float32(cfg.Camera.Height),
		float32(cfg.Camera.Speed),
		float32(cfg.Camera.FOV),
		0,
	)

	w := int32(rl.GetScreenWidth())
	v := &Viewer{
		game:      g,
		camera:    cam,
		points:    renderer.NewPointCloud(),
		scene:     renderer.NewSceneRenderer(cfg.Derived.FloorY32),
		panel:     ui.NewPanel(w-panelWidth-10, 10, panelWidth, g.MaxCount()),
		hud:       ui.NewHUD(),
		perfPanel: ui.NewPerfPanel(10, 120),
	}
	v.actions.Animate = g.Animating()
	v.points.Replace(g.Field())
	return v
}

// Update applies the previous frame's panel actions and advances the game
// by the frame time.
func (v *Viewer) Update() {
	v.game.BeginFrame()
	v.handleResize()
	v.applyActions()

	dt := rl.GetFrameTime()
	v.camera.Update(dt)
	if err := v.game.Step(dt); err != nil && err != v.lastErr {
		slog.Error("frame failed", "tick", v.game.Tick(), "error", err)
		v.lastErr = err
	}
	v.uploadField()
}

// applyActions performs what the panel requested during the last Draw.
func (v *Viewer) applyActions() {
	a := v.actions
	v.actions = ui.Actions{Animate: a.Animate}

	if a.Regenerate {
		// Errors are logged by Regenerate; the previous field stays visible
		_ = v.game.Regenerate(a.Params)
	}
	if a.Animate != v.game.Animating() {
		v.game.SetAnimate(a.Animate)
	}
	if a.SpawnSphere {
		if _, err := v.game.SpawnRandomSphere(); err != nil {
			slog.Error("spawning sphere", "error", err)
		}
	}
	if a.SpawnBox {
		if _, err := v.game.SpawnRandomBox(); err != nil {
			slog.Error("spawning box", "error", err)
		}
	}
	if a.Reset {
		if err := v.game.Reset(); err != nil {
			slog.Error("reset", "error", err)
		}
	}
}

// uploadField rebuilds the point buffers for a new field and refreshes
// them when the current one was animated in place.
func (v *Viewer) uploadField() {
	f := v.game.Field()
	switch {
	case f == nil:
		if v.points.Len() > 0 {
			v.points.Replace(nil)
		}
	case f.Version() != v.points.Version():
		v.points.Replace(f)
	case f.Dirty():
		v.points.Refresh(f)
	}
}

// handleResize keeps the panel docked to the right edge.
func (v *Viewer) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	v.panel.SetPosition(int32(rl.GetScreenWidth())-panelWidth-10, 10)
}

// Draw renders the frame and closes it.
func (v *Viewer) Draw() {
	g := v.game
	g.Perf().StartPhase(telemetry.PhaseRender)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	cam := renderer.Camera3D(v.camera)
	rl.BeginMode3D(cam)
	v.scene.Draw(g.Graph())
	v.points.Draw(cam)
	rl.EndMode3D()

	v.drawUI()

	rl.EndDrawing()
	g.EndFrame()
}

func (v *Viewer) drawUI() {
	g := v.game
	params := g.Params()
	stats := g.World().Stats()

	var particles int
	var version uint64
	if f := g.Field(); f != nil {
		particles = f.Count()
		version = f.Version()
	}

	v.hud.Draw(ui.HUDData{
		Title:        "Galaxy",
		Mode:         params.Mode.String(),
		Particles:    particles,
		FieldVersion: version,
		Bodies:       g.Registry().Len(),
		Contacts:     stats.LastContacts,
		Impacts:      g.Reactor().Triggered(),
		Tick:         g.Tick(),
		SimTime:      g.Loop().SimTime(),
		FPS:          rl.GetFPS(),
		Halted:       g.Loop().Halted(),
	})
	v.perfPanel.Draw(ui.PerfPanelData{
		Stats:    g.Perf().Stats(),
		Registry: g.Phases(),
	})

	actions := v.panel.Draw(params, v.actions.Animate)
	v.actions = actions
}

// Unload releases the viewer's buffers.
func (v *Viewer) Unload() {
	v.points.Replace(nil)
}
