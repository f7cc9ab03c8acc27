package physics

import (
	"errors"
	"fmt"
	"slices"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrUnknownBody is returned for IDs that are not in the world.
	ErrUnknownBody = errors.New("unknown body")
	// ErrUnknownSubscription is returned when unsubscribing twice.
	ErrUnknownSubscription = errors.New("unknown subscription")
	// ErrLiveSubscriptions is returned when removing a body that still has listeners.
	ErrLiveSubscriptions = errors.New("body has live contact subscriptions")
)

// Config holds world-wide simulation parameters.
type Config struct {
	Gravity        mgl32.Vec3
	Material       Material // default contact material
	Iterations     int      // solver iterations per sub-step
	LinearDamping  float32  // fraction of velocity lost per second
	AngularDamping float32
}

// DefaultConfig returns earth gravity with a slightly bouncy default material.
func DefaultConfig() Config {
	return Config{
		Gravity:        mgl32.Vec3{0, -9.82, 0},
		Material:       Material{Friction: 0.1, Restitution: 0.7},
		Iterations:     10,
		LinearDamping:  0.01,
		AngularDamping: 0.01,
	}
}

// Stats reports counters from the most recent Step.
type Stats struct {
	LastSubSteps int
	LastContacts int
	TotalSteps   uint64
	SimTime      float64
}

// World owns bodies and advances them in fixed sub-steps.
type World struct {
	cfg Config

	bodies []*Body
	byID   map[BodyID]*Body
	nextID BodyID

	subs     map[Subscription]subscription
	bodySubs map[BodyID][]Subscription
	nextSub  Subscription

	accumulator float32
	contacts    []contact
	manifolds   []manifold
	stats       Stats
}

// NewWorld creates an empty world.
func NewWorld(cfg Config) *World {
	if cfg.Iterations < 1 {
		cfg.Iterations = 1
	}
	return &World{
		cfg:      cfg,
		byID:     make(map[BodyID]*Body),
		subs:     make(map[Subscription]subscription),
		bodySubs: make(map[BodyID][]Subscription),
	}
}

// Config returns the world configuration.
func (w *World) Config() Config {
	return w.cfg
}

// AddBody creates a body from desc and returns its ID.
func (w *World) AddBody(desc BodyDesc) (BodyID, error) {
	w.nextID++
	b, err := newBody(w.nextID, desc, w.cfg.Material)
	if err != nil {
		return 0, err
	}
	w.bodies = append(w.bodies, b)
	w.byID[b.id] = b
	return b.id, nil
}

// RemoveBody detaches a body. Its contact subscriptions must be removed first.
func (w *World) RemoveBody(id BodyID) error {
	if _, ok := w.byID[id]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBody, id)
	}
	if n := len(w.bodySubs[id]); n > 0 {
		return fmt.Errorf("%w: body %d has %d", ErrLiveSubscriptions, id, n)
	}
	delete(w.byID, id)
	delete(w.bodySubs, id)
	w.bodies = slices.DeleteFunc(w.bodies, func(b *Body) bool { return b.id == id })
	return nil
}

// Body returns the body with the given ID.
func (w *World) Body(id BodyID) (*Body, bool) {
	b, ok := w.byID[id]
	return b, ok
}

// BodyTransform returns the position and orientation of a body.
func (w *World) BodyTransform(id BodyID) (mgl32.Vec3, mgl32.Quat, bool) {
	b, ok := w.byID[id]
	if !ok {
		return mgl32.Vec3{}, mgl32.Quat{}, false
	}
	return b.Position, b.Rotation, true
}

// BodyCount returns the number of bodies in the world.
func (w *World) BodyCount() int {
	return len(w.bodies)
}

// Stats returns counters from the most recent Step.
func (w *World) Stats() Stats {
	return w.stats
}

// Step advances the world by dt in sub-steps of fixedStep, taking at most
// maxSubSteps of them. Time the budget cannot cover is dropped. A dt of zero
// never moves anything.
func (w *World) Step(fixedStep, dt float32, maxSubSteps int) {
	w.stats.LastSubSteps = 0
	w.stats.LastContacts = 0
	if !(fixedStep > 0) || !(dt > 0) || math32.IsInf(dt, 0) {
		return
	}
	if maxSubSteps < 1 {
		maxSubSteps = 1
	}

	w.accumulator += dt
	for w.accumulator >= fixedStep && w.stats.LastSubSteps < maxSubSteps {
		w.internalStep(fixedStep)
		w.accumulator -= fixedStep
		w.stats.LastSubSteps++
	}
	if w.accumulator >= fixedStep {
		w.accumulator = math32.Mod(w.accumulator, fixedStep)
	}
}

func (w *World) internalStep(h float32) {
	linDamp := math32.Pow(1-w.cfg.LinearDamping, h)
	angDamp := math32.Pow(1-w.cfg.AngularDamping, h)

	for _, b := range w.bodies {
		if b.invMass == 0 {
			continue
		}
		b.Velocity = b.Velocity.Add(w.cfg.Gravity.Mul(h)).Mul(linDamp)
		b.AngularVelocity = b.AngularVelocity.Mul(angDamp)
		b.integrate(h)
	}

	w.detect()
	for i := range w.contacts {
		prepare(&w.contacts[i])
	}
	for it := 0; it < w.cfg.Iterations; it++ {
		for i := range w.contacts {
			solve(&w.contacts[i])
		}
	}
	correctPositions(w.contacts, w.manifolds)

	w.stats.LastContacts += len(w.contacts)
	w.stats.TotalSteps++
	w.stats.SimTime += float64(h)

	w.dispatch()
}

// detect rebuilds the contact list for every pair with at least one dynamic body.
func (w *World) detect() {
	w.contacts = w.contacts[:0]
	w.manifolds = w.manifolds[:0]
	for i, a := range w.bodies {
		for _, b := range w.bodies[i+1:] {
			if a.invMass == 0 && b.invMass == 0 {
				continue
			}
			start := len(w.contacts)
			w.contacts = collide(a, b, w.contacts)
			if end := len(w.contacts); end > start {
				w.manifolds = append(w.manifolds, manifold{a: a, b: b, start: start, end: end})
			}
		}
	}
}
