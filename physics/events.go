package physics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ContactEvent describes a contact seen from one of the two bodies.
type ContactEvent struct {
	Body  BodyID
	Other BodyID
	// Normal points from Other towards Body.
	Normal mgl32.Vec3
	Point  mgl32.Vec3
	// ImpactSpeed is the approach speed along the normal before the solver ran.
	ImpactSpeed float32
}

// ContactListener receives contact events for the bodies it is subscribed to.
type ContactListener interface {
	OnContact(ev ContactEvent)
}

// ContactFunc adapts a function to ContactListener.
type ContactFunc func(ev ContactEvent)

// OnContact calls f(ev).
func (f ContactFunc) OnContact(ev ContactEvent) { f(ev) }

// Subscription identifies one listener registration.
type Subscription uint64

type subscription struct {
	body     BodyID
	listener ContactListener
}

// Subscribe registers l for contacts involving the body.
func (w *World) Subscribe(id BodyID, l ContactListener) (Subscription, error) {
	if _, ok := w.byID[id]; !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownBody, id)
	}
	w.nextSub++
	s := w.nextSub
	w.subs[s] = subscription{body: id, listener: l}
	w.bodySubs[id] = append(w.bodySubs[id], s)
	return s, nil
}

// Unsubscribe removes a registration.
func (w *World) Unsubscribe(s Subscription) error {
	sub, ok := w.subs[s]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownSubscription, s)
	}
	delete(w.subs, s)
	list := w.bodySubs[sub.body]
	for i, other := range list {
		if other == s {
			w.bodySubs[sub.body] = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(w.bodySubs[sub.body]) == 0 {
		delete(w.bodySubs, sub.body)
	}
	return nil
}

// SubscriptionCount returns the number of live registrations.
func (w *World) SubscriptionCount() int {
	return len(w.subs)
}

// dispatch emits one event per body pair, using the strongest impact of the pair.
func (w *World) dispatch() {
	if len(w.subs) == 0 {
		return
	}
	for _, m := range w.manifolds {
		strongest := &w.contacts[m.start]
		for i := m.start + 1; i < m.end; i++ {
			if w.contacts[i].impact > strongest.impact {
				strongest = &w.contacts[i]
			}
		}
		w.emit(ContactEvent{
			Body:        m.b.id,
			Other:       m.a.id,
			Normal:      strongest.normal,
			Point:       strongest.point,
			ImpactSpeed: strongest.impact,
		})
		w.emit(ContactEvent{
			Body:        m.a.id,
			Other:       m.b.id,
			Normal:      strongest.normal.Mul(-1),
			Point:       strongest.point,
			ImpactSpeed: strongest.impact,
		})
	}
}

func (w *World) emit(ev ContactEvent) {
	// Copy: a listener may unsubscribe while being notified.
	list := append([]Subscription(nil), w.bodySubs[ev.Body]...)
	for _, s := range list {
		if sub, ok := w.subs[s]; ok {
			sub.listener.OnContact(ev)
		}
	}
}
