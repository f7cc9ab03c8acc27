package systems

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/galaxy/physics"
	"github.com/pthm-cable/galaxy/scene"
)

// fakeSim records every call and moves bodies by a fixed velocity per Step.
type fakeSim struct {
	bodies map[physics.BodyID]*fakeBody
	subs   map[physics.Subscription]physics.BodyID
	nextID physics.BodyID
	nextS  physics.Subscription

	calls   []string
	steps   int
	lastDt  float32
	removed int

	failAdd       error
	failSubscribe error
}

type fakeBody struct {
	pos mgl32.Vec3
	rot mgl32.Quat
	vel mgl32.Vec3
}

func newFakeSim() *fakeSim {
	return &fakeSim{
		bodies: make(map[physics.BodyID]*fakeBody),
		subs:   make(map[physics.Subscription]physics.BodyID),
	}
}

func (s *fakeSim) Step(fixedStep, dt float32, maxSubSteps int) {
	s.calls = append(s.calls, "step")
	s.steps++
	s.lastDt = dt
	for _, b := range s.bodies {
		b.pos = b.pos.Add(b.vel.Mul(dt))
	}
}

func (s *fakeSim) AddBody(desc physics.BodyDesc) (physics.BodyID, error) {
	if s.failAdd != nil {
		return 0, s.failAdd
	}
	s.nextID++
	s.bodies[s.nextID] = &fakeBody{pos: desc.Position, rot: desc.Rotation, vel: mgl32.Vec3{0, -1, 0}}
	s.calls = append(s.calls, fmt.Sprintf("add_body %d", s.nextID))
	return s.nextID, nil
}

func (s *fakeSim) RemoveBody(id physics.BodyID) error {
	if _, ok := s.bodies[id]; !ok {
		return physics.ErrUnknownBody
	}
	for _, owner := range s.subs {
		if owner == id {
			return physics.ErrLiveSubscriptions
		}
	}
	delete(s.bodies, id)
	s.removed++
	s.calls = append(s.calls, fmt.Sprintf("remove_body %d", id))
	return nil
}

func (s *fakeSim) BodyTransform(id physics.BodyID) (mgl32.Vec3, mgl32.Quat, bool) {
	s.calls = append(s.calls, "transform")
	b, ok := s.bodies[id]
	if !ok {
		return mgl32.Vec3{}, mgl32.Quat{}, false
	}
	return b.pos, b.rot, true
}

func (s *fakeSim) Subscribe(id physics.BodyID, l physics.ContactListener) (physics.Subscription, error) {
	if s.failSubscribe != nil {
		return 0, s.failSubscribe
	}
	s.nextS++
	s.subs[s.nextS] = id
	s.calls = append(s.calls, fmt.Sprintf("subscribe %d", id))
	return s.nextS, nil
}

func (s *fakeSim) Unsubscribe(sub physics.Subscription) error {
	id, ok := s.subs[sub]
	if !ok {
		return physics.ErrUnknownSubscription
	}
	delete(s.subs, sub)
	s.calls = append(s.calls, fmt.Sprintf("unsubscribe %d", id))
	return nil
}

// dropSubscriptions removes every subscription on a body behind the
// registry's back.
func (s *fakeSim) dropSubscriptions(id physics.BodyID) {
	for sub, owner := range s.subs {
		if owner == id {
			delete(s.subs, sub)
		}
	}
}

// forget drops a body behind the registry's back.
func (s *fakeSim) forget(id physics.BodyID) {
	delete(s.bodies, id)
}

// fakeGraph wraps a real graph and records removals in call order.
type fakeGraph struct {
	*scene.Graph
	sim     *fakeSim
	removed int
}

func newFakeGraph(sim *fakeSim) *fakeGraph {
	return &fakeGraph{Graph: scene.NewGraph(), sim: sim}
}

func (g *fakeGraph) Remove(id scene.NodeID) error {
	if err := g.Graph.Remove(id); err != nil {
		return err
	}
	g.removed++
	g.sim.calls = append(g.sim.calls, fmt.Sprintf("remove_node %d", id))
	return nil
}

type recordingEffect struct {
	strengths []float32
}

func (e *recordingEffect) Impact(strength float32) {
	e.strengths = append(e.strengths, strength)
}

var errBoom = errors.New("boom")
