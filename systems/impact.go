package systems

import "github.com/pthm-cable/galaxy/physics"

// ImpactReactor forwards hard contacts to an effect. It only reads contact
// data and never mutates the simulation.
type ImpactReactor struct {
	Threshold float32 // minimum impact speed, exclusive
	Effect    ImpactEffect

	observed  int
	triggered int
}

// NewImpactReactor creates a reactor firing effect above threshold.
func NewImpactReactor(threshold float32, effect ImpactEffect) *ImpactReactor {
	return &ImpactReactor{Threshold: threshold, Effect: effect}
}

// OnContact implements physics.ContactListener.
func (r *ImpactReactor) OnContact(ev physics.ContactEvent) {
	r.observed++
	if ev.ImpactSpeed <= r.Threshold || r.Effect == nil {
		return
	}
	r.triggered++
	r.Effect.Impact(ev.ImpactSpeed)
}

// Observed returns the number of contact events seen.
func (r *ImpactReactor) Observed() int { return r.observed }

// Triggered returns the number of events that fired the effect.
func (r *ImpactReactor) Triggered() int { return r.triggered }
