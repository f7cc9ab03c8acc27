package systems

import (
	"fmt"
	"log/slog"

	"github.com/chewxy/math32"

	"github.com/pthm-cable/galaxy/telemetry"
)

// PhaseTimer receives phase boundaries. *telemetry.PerfCollector satisfies it.
type PhaseTimer interface {
	StartPhase(phase string)
}

// LoopConfig controls how the simulation is stepped.
type LoopConfig struct {
	FixedStep   float32 // internal sub-step, seconds
	MaxSubSteps int     // sub-step budget per tick
}

// DefaultLoopConfig steps at 60 Hz with up to three catch-up sub-steps.
func DefaultLoopConfig() LoopConfig {
	return LoopConfig{FixedStep: 1.0 / 60.0, MaxSubSteps: 3}
}

// Loop advances the simulation once per frame and mirrors the result onto
// the registry's entities.
type Loop struct {
	sim Simulation
	reg *Registry
	cfg LoopConfig

	timer PhaseTimer

	halted  error
	ticks   uint64
	simTime float64
}

// NewLoop creates a sync loop. Invalid config values fall back to defaults.
func NewLoop(sim Simulation, reg *Registry, cfg LoopConfig) *Loop {
	def := DefaultLoopConfig()
	if !(cfg.FixedStep > 0) || math32.IsInf(cfg.FixedStep, 0) {
		cfg.FixedStep = def.FixedStep
	}
	if cfg.MaxSubSteps < 1 {
		cfg.MaxSubSteps = def.MaxSubSteps
	}
	return &Loop{sim: sim, reg: reg, cfg: cfg}
}

// Config returns the effective loop configuration.
func (l *Loop) Config() LoopConfig {
	return l.cfg
}

// SetTimer sets the timer notified of the step and sync phases. nil disables timing.
func (l *Loop) SetTimer(t PhaseTimer) {
	l.timer = t
}

func (l *Loop) phase(name string) {
	if l.timer != nil {
		l.timer.StartPhase(name)
	}
}

// Tick steps the simulation exactly once and then copies every body
// transform onto its entity. A negative, NaN or infinite dt is rejected
// without touching anything. After a consistency failure the loop stays
// halted and every later Tick returns the same error.
func (l *Loop) Tick(dt float32) error {
	if l.halted != nil {
		return l.halted
	}
	if math32.IsNaN(dt) || math32.IsInf(dt, 0) || dt < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidTimestep, dt)
	}

	l.phase(telemetry.PhasePhysicsStep)
	l.sim.Step(l.cfg.FixedStep, dt, l.cfg.MaxSubSteps)
	l.phase(telemetry.PhaseTransformSync)
	if err := l.reg.sync(); err != nil {
		l.halted = err
		slog.Error("sync loop halted",
			"tick", l.ticks,
			"entities", l.reg.Len(),
			"err", err,
		)
		return err
	}

	l.ticks++
	l.simTime += float64(dt)
	return nil
}

// Halted returns the error that stopped the loop, or nil.
func (l *Loop) Halted() error {
	return l.halted
}

// Ticks returns the number of completed ticks.
func (l *Loop) Ticks() uint64 {
	return l.ticks
}

// SimTime returns the total dt passed to completed ticks.
func (l *Loop) SimTime() float64 {
	return l.simTime
}
