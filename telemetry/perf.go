package telemetry

import (
	"cmp"
	"log/slog"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase names for one frame.
const (
	PhaseFieldGenerate = "field_generate"
	PhaseFieldAnimate  = "field_animate"
	PhasePhysicsStep   = "physics_step"
	PhaseTransformSync = "transform_sync"
	PhaseRender        = "render"
)

const numPhases = 5

// Phases lists every phase in frame order.
var Phases = []string{
	PhaseFieldGenerate, PhaseFieldAnimate, PhasePhysicsStep, PhaseTransformSync, PhaseRender,
}

// frameTiming is one recorded frame: total wall time and time per phase,
// indexed like Phases. ran marks phases that were entered at all.
type frameTiming struct {
	total  time.Duration
	phases [numPhases]time.Duration
	ran    [numPhases]bool
}

// PerfCollector times frame phases into a ring of the last N frames.
// Phases not listed in Phases are ignored.
type PerfCollector struct {
	now func() time.Time

	ring  []frameTiming
	next  int
	count int

	cur        frameTiming
	frameStart time.Time
	phase      int // index into Phases, -1 when idle
	phaseStart time.Time

	lastPresent time.Time
	present     time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize frames.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		now:   time.Now,
		ring:  make([]frameTiming, windowSize),
		phase: -1,
	}
}

// StartTick begins timing a new frame.
func (p *PerfCollector) StartTick() {
	p.cur = frameTiming{}
	p.frameStart = p.now()
	p.phase = -1
}

// StartPhase closes the running phase, if any, and opens phase.
func (p *PerfCollector) StartPhase(phase string) {
	t := p.now()
	p.closePhase(t)
	p.phase = slices.Index(Phases, phase)
	p.phaseStart = t
}

func (p *PerfCollector) closePhase(t time.Time) {
	if p.phase < 0 {
		return
	}
	p.cur.phases[p.phase] += t.Sub(p.phaseStart)
	p.cur.ran[p.phase] = true
	p.phase = -1
}

// EndTick closes the frame and pushes it into the ring.
func (p *PerfCollector) EndTick() {
	t := p.now()
	p.closePhase(t)
	p.cur.total = t.Sub(p.frameStart)
	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	p.count = min(p.count+1, len(p.ring))
}

// RecordFrame marks a presented frame; the gap between two calls is the
// wall-clock frame time.
func (p *PerfCollector) RecordFrame() {
	t := p.now()
	if !p.lastPresent.IsZero() {
		p.present = t.Sub(p.lastPresent)
	}
	p.lastPresent = t
}

// PerfStats holds aggregated timing statistics.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	// Keyed by phase name; only phases that ran in the window appear.
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	TicksPerSecond float64

	FrameDuration time.Duration
	FPS           float64
}

// Stats aggregates the frames in the ring.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.present,
	}
	if p.present > 0 {
		s.FPS = float64(time.Second) / float64(p.present)
	}
	if p.count == 0 {
		return s
	}

	totals := make([]float64, p.count)
	perPhase := make([][]float64, len(Phases))
	ran := make([]bool, len(Phases))
	for i, f := range p.ring[:p.count] {
		totals[i] = float64(f.total)
		for k := range Phases {
			perPhase[k] = append(perPhase[k], float64(f.phases[k]))
			ran[k] = ran[k] || f.ran[k]
		}
	}

	s.AvgTickDuration = time.Duration(stat.Mean(totals, nil))
	s.MinTickDuration = time.Duration(slices.Min(totals))
	s.MaxTickDuration = time.Duration(slices.Max(totals))
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}
	for k, name := range Phases {
		if !ran[k] {
			continue
		}
		avg := stat.Mean(perPhase[k], nil)
		s.PhaseAvg[name] = time.Duration(avg)
		if s.AvgTickDuration > 0 {
			s.PhasePct[name] = avg / float64(s.AvgTickDuration) * 100
		}
	}
	return s
}

// SortedPhases returns the phases with samples, slowest first. Ties keep
// frame order.
func (s PerfStats) SortedPhases() []string {
	var names []string
	for _, name := range Phases {
		if _, ok := s.PhaseAvg[name]; ok {
			names = append(names, name)
		}
	}
	slices.SortStableFunc(names, func(a, b string) int {
		return cmp.Compare(s.PhaseAvg[b], s.PhaseAvg[a])
	})
	return names
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat row of perf.csv.
type PerfStatsCSV struct {
	WindowEnd        uint64  `csv:"window_end"`
	AvgTickUS        int64   `csv:"avg_tick_us"`
	MinTickUS        int64   `csv:"min_tick_us"`
	MaxTickUS        int64   `csv:"max_tick_us"`
	TicksPerSec      float64 `csv:"ticks_per_sec"`
	FPS              float64 `csv:"fps"`
	FieldGeneratePct float64 `csv:"field_generate_pct"`
	FieldAnimatePct  float64 `csv:"field_animate_pct"`
	PhysicsStepPct   float64 `csv:"physics_step_pct"`
	TransformSyncPct float64 `csv:"transform_sync_pct"`
	RenderPct        float64 `csv:"render_pct"`
}

// ToCSV flattens the stats for the window ending at tick windowEnd.
func (s PerfStats) ToCSV(windowEnd uint64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:        windowEnd,
		AvgTickUS:        s.AvgTickDuration.Microseconds(),
		MinTickUS:        s.MinTickDuration.Microseconds(),
		MaxTickUS:        s.MaxTickDuration.Microseconds(),
		TicksPerSec:      s.TicksPerSecond,
		FPS:              s.FPS,
		FieldGeneratePct: s.PhasePct[PhaseFieldGenerate],
		FieldAnimatePct:  s.PhasePct[PhaseFieldAnimate],
		PhysicsStepPct:   s.PhasePct[PhasePhysicsStep],
		TransformSyncPct: s.PhasePct[PhaseTransformSync],
		RenderPct:        s.PhasePct[PhaseRender],
	}
}
