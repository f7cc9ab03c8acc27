package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// FrameSample is what one frame contributes to the window.
type FrameSample struct {
	Entities int
	Contacts int // solver contacts across the frame's sub-steps
	SubSteps int
	Impacts  int // impact effects fired
}

// WindowStats holds aggregated statistics for a window of frames.
type WindowStats struct {
	WindowEndTick uint64  `csv:"window_end"`
	SimTimeSec    float64 `csv:"sim_time"`
	Frames        int     `csv:"frames"`

	FieldCount   int    `csv:"field_count"`
	FieldVersion uint64 `csv:"field_version"`

	EntitiesEnd  int     `csv:"entities"`
	EntitiesMean float64 `csv:"entities_mean"`

	ContactsMean float64 `csv:"contacts_mean"`
	ContactsP90  float64 `csv:"contacts_p90"`
	SubStepsMean float64 `csv:"substeps_mean"`

	Impacts int `csv:"impacts"`
}

// FrameStats accumulates frame samples until flushed.
type FrameStats struct {
	entities []float64
	contacts []float64
	subSteps []float64
	impacts  int
	last     FrameSample
}

// NewFrameStats creates an empty accumulator.
func NewFrameStats() *FrameStats {
	return &FrameStats{}
}

// Record adds one frame.
func (f *FrameStats) Record(s FrameSample) {
	f.entities = append(f.entities, float64(s.Entities))
	f.contacts = append(f.contacts, float64(s.Contacts))
	f.subSteps = append(f.subSteps, float64(s.SubSteps))
	f.impacts += s.Impacts
	f.last = s
}

// Len returns the number of frames recorded since the last flush.
func (f *FrameStats) Len() int {
	return len(f.entities)
}

// Flush aggregates the recorded frames and resets the accumulator. The
// caller fills in the tick, time and field fields.
func (f *FrameStats) Flush() WindowStats {
	w := WindowStats{
		Frames:      len(f.entities),
		EntitiesEnd: f.last.Entities,
		Impacts:     f.impacts,
	}
	if w.Frames > 0 {
		w.EntitiesMean = stat.Mean(f.entities, nil)
		w.ContactsMean = stat.Mean(f.contacts, nil)
		w.SubStepsMean = stat.Mean(f.subSteps, nil)

		sorted := append([]float64(nil), f.contacts...)
		sort.Float64s(sorted)
		w.ContactsP90 = stat.Quantile(0.9, stat.Empirical, sorted, nil)
	}

	f.entities = f.entities[:0]
	f.contacts = f.contacts[:0]
	f.subSteps = f.subSteps[:0]
	f.impacts = 0
	return w
}

// LogValue implements slog.LogValuer.
func (w WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("tick", w.WindowEndTick),
		slog.Float64("sim_time", w.SimTimeSec),
		slog.Int("field_count", w.FieldCount),
		slog.Int("entities", w.EntitiesEnd),
		slog.Float64("contacts_mean", w.ContactsMean),
		slog.Float64("substeps_mean", w.SubStepsMean),
		slog.Int("impacts", w.Impacts),
	)
}
