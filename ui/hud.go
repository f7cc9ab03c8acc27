package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/galaxy/systems"
	"github.com/pthm-cable/galaxy/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	Mode         string
	Particles    int
	FieldVersion uint64
	Bodies       int
	Contacts     int
	Impacts      int
	Tick         uint64
	SimTime      float64
	FPS          int32
	Halted       error
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Field: %s | Particles: %d | Version: %d", data.Mode, data.Particles, data.FieldVersion),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Bodies: %d | Contacts: %d | Impacts: %d", data.Bodies, data.Contacts, data.Impacts),
		10, 55, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Tick: %d | Time: %.1fs | FPS: %d", data.Tick, data.SimTime, data.FPS),
		10, 75, 16, rl.LightGray,
	)

	if data.Halted != nil {
		rl.DrawText("HALTED: "+data.Halted.Error(), 10, 95, 16, rl.Red)
	}
}

// PerfPanelData holds performance metrics for display.
type PerfPanelData struct {
	Stats    telemetry.PerfStats
	Registry *systems.PhaseRegistry
}

// PerfPanel renders the frame phase timing panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(data PerfPanelData) {
	x := p.x
	y := p.y

	rl.DrawText("Frame Performance", x, y, 16, rl.White)
	y += 20

	total := data.Stats.AvgTickDuration
	rl.DrawText(fmt.Sprintf("Total: %s", total.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 16

	ids := data.Stats.SortedPhases()
	if data.Registry != nil {
		ids = data.Registry.IDs()
	}
	for _, id := range ids {
		if _, ok := data.Stats.PhaseAvg[id]; !ok {
			continue
		}
		avg := data.Stats.PhaseAvg[id]
		pct := data.Stats.PhasePct[id]

		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}

		// Use registry to get display name if available
		displayName := id
		if data.Registry != nil {
			displayName = data.Registry.GetName(id)
		}

		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", displayName, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
