package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/galaxy/field"
	"github.com/pthm-cable/galaxy/ui/sliders"
)

// Actions reports what the user asked for during one Draw.
type Actions struct {
	// Regenerate is set when an edit was committed; Params holds the
	// parameters to generate from.
	Regenerate bool
	Params     field.GenerationParameters

	SpawnSphere bool
	SpawnBox    bool
	Reset       bool

	// Animate is the requested animation state.
	Animate bool
}

// Panel edits generation parameters. Slider drags only change a pending
// draft; the draft is committed when the mouse button is released, so a
// drag regenerates the field once instead of every frame.
type Panel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	height   int32

	sliders []sliders.Descriptor
	draft   field.GenerationParameters
	pending bool
}

// NewPanel creates a parameter panel. maxCount caps the count slider.
func NewPanel(x, y, width int32, maxCount int) *Panel {
	return &Panel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		sliders:  sliders.ForParameters(maxCount),
	}
}

// SetPosition updates the panel position.
func (p *Panel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the panel for the current parameters and returns the
// requested actions.
func (p *Panel) Draw(current field.GenerationParameters, animating bool) Actions {
	actions := Actions{Animate: animating}
	if !p.pending {
		p.draft = current
	}

	r := p.renderer
	th := r.Theme
	r.DrawPanel(p.x, p.y, p.width, p.height)

	x := p.x + th.Padding
	y := p.y + th.Padding
	inner := p.width - 2*th.Padding

	y = r.DrawSectionHeader(x, y, "Field")

	// Mode changes commit at once
	mode := gui.ToggleGroup(
		rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(inner-8) / 3, Height: 20},
		"galaxy;scatter;wave",
		int32(p.draft.Mode),
	)
	if field.Mode(mode) != p.draft.Mode {
		p.draft.Mode = field.Mode(mode)
		p.commit(&actions)
	}
	y += 28

	sliderX := float32(x + th.LabelWidth)
	sliderW := float32(inner - th.LabelWidth - 60)
	for _, d := range p.sliders {
		if d.Visible != nil && !d.Visible(p.draft) {
			continue
		}
		cur := d.Get(p.draft)
		rl.DrawText(d.Label, x, y+1, th.FontSize, th.LabelColor)
		next := gui.SliderBar(
			rl.Rectangle{X: sliderX, Y: float32(y), Width: sliderW, Height: float32(th.SliderHeight)},
			"", "",
			cur, d.Min, d.Max,
		)
		if v, ok := d.Edit(cur, next); ok {
			d.Set(&p.draft, v)
			p.pending = true
		}
		color := th.ValueColor
		if p.pending {
			color = th.PendingColor
		}
		rl.DrawText(fmt.Sprintf(d.Format, d.Get(p.draft)), int32(sliderX+sliderW)+6, y+1, th.FontSize, color)
		y += th.LineHeight + 4
	}

	if p.pending && rl.IsMouseButtonReleased(rl.MouseLeftButton) {
		p.commit(&actions)
	}

	actions.Animate = gui.CheckBox(
		rl.Rectangle{X: float32(x), Y: float32(y), Width: 14, Height: 14},
		"Animate wave", animating,
	)
	y += 24

	y = r.DrawSectionHeader(x, y, "Objects")
	bw := float32(inner-10) / 3
	actions.SpawnSphere = gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: bw, Height: 24}, "Sphere")
	actions.SpawnBox = gui.Button(rl.Rectangle{X: float32(x) + bw + 5, Y: float32(y), Width: bw, Height: 24}, "Box")
	actions.Reset = gui.Button(rl.Rectangle{X: float32(x) + 2*(bw+5), Y: float32(y), Width: bw, Height: 24}, "Reset")
	y += 24 + th.Padding

	p.height = y - p.y
	return actions
}

func (p *Panel) commit(a *Actions) {
	a.Regenerate = true
	a.Params = p.draft
	p.pending = false
}
