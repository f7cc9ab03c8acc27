package sliders

import (
	"testing"

	"github.com/pthm-cable/galaxy/field"
)

func TestDefaultsAreFixedPoints(t *testing.T) {
	p := field.DefaultParameters()
	for _, d := range ForParameters(1_000_000) {
		cur := d.Get(p)
		if q := d.Quantize(cur); q != cur {
			t.Errorf("%s: Quantize(%v) = %v", d.ID, cur, q)
		}
		if v, changed := d.Edit(cur, cur); changed || v != cur {
			t.Errorf("%s: echoing %v reported an edit to %v", d.ID, cur, v)
		}
	}
}

func TestIdleWidgetDoesNotMarkPending(t *testing.T) {
	// Widgets report the value they were given, possibly with float noise.
	p := field.DefaultParameters()
	for _, d := range ForParameters(1_000_000) {
		cur := d.Get(p)
		noisy := cur + d.Step/10
		if _, changed := d.Edit(cur, noisy); changed {
			t.Errorf("%s: sub-step noise %v -> %v counted as an edit", d.ID, cur, noisy)
		}
	}
}

func TestEditSnapsToStep(t *testing.T) {
	var spin Descriptor
	for _, d := range ForParameters(1000) {
		if d.ID == "spin" {
			spin = d
		}
	}
	if spin.ID == "" {
		t.Fatal("no spin slider")
	}

	tests := []struct {
		name    string
		cur     float32
		raw     float32
		want    float32
		changed bool
	}{
		{"one step up", 1, 1.0012, 1.001, true},
		{"several steps down", 1, 0.4996, 0.5, true},
		{"clamped high", 1, 9, 5, true},
		{"clamped low", 1, -9, -5, true},
		{"below half step", 1, 1.0004, 1, false},
		{"unchanged", 1, 1, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := spin.Edit(tt.cur, tt.raw)
			if got != tt.want || changed != tt.changed {
				t.Errorf("Edit(%v, %v) = %v, %v; want %v, %v", tt.cur, tt.raw, got, changed, tt.want, tt.changed)
			}
		})
	}
}

func TestCountSliderIsCapped(t *testing.T) {
	d := ForParameters(5000)[0]
	if d.ID != "count" || d.Max != 5000 {
		t.Fatalf("count slider = %+v", d)
	}
	if q := d.Quantize(7777); q != 5000 {
		t.Errorf("Quantize(7777) = %v, want 5000", q)
	}
	if q := d.Quantize(1234); q != 1200 {
		t.Errorf("Quantize(1234) = %v, want 1200", q)
	}
	if small := ForParameters(10)[0]; small.Max != 100 {
		t.Errorf("minimum cap = %v, want 100", small.Max)
	}
}

func TestGalaxyOnlySlidersHideInOtherModes(t *testing.T) {
	p := field.DefaultParameters()
	p.Mode = field.ModeScatter
	var shown []string
	for _, d := range ForParameters(1000) {
		if d.Visible == nil || d.Visible(p) {
			shown = append(shown, d.ID)
		}
	}
	want := []string{"count", "size", "size_variation", "radius"}
	if len(shown) != len(want) {
		t.Fatalf("visible in scatter mode: %v, want %v", shown, want)
	}
	for i := range want {
		if shown[i] != want[i] {
			t.Errorf("visible[%d] = %s, want %s", i, shown[i], want[i])
		}
	}
}
