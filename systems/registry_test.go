package systems

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/galaxy/physics"
	"github.com/pthm-cable/galaxy/scene"
)

func newTestRegistry() (*Registry, *fakeSim, *fakeGraph) {
	sim := newFakeSim()
	graph := newFakeGraph(sim)
	return NewRegistry(sim, graph, nil), sim, graph
}

func TestSpawnCreatesOnePairing(t *testing.T) {
	reg, sim, graph := newTestRegistry()

	h, err := reg.Spawn(SphereDescriptor(0.5, 1), mgl32.Vec3{0, 5, 0})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if reg.Len() != 1 || len(sim.bodies) != 1 || graph.Len() != 1 {
		t.Fatalf("expected one of each, got registry=%d bodies=%d nodes=%d", reg.Len(), len(sim.bodies), graph.Len())
	}
	if len(sim.subs) != 0 {
		t.Errorf("no observer set but %d subscriptions exist", len(sim.subs))
	}

	snap, ok := reg.Get(h)
	if !ok {
		t.Fatal("spawned entity not found")
	}
	if snap.Handle != h || snap.Position != (mgl32.Vec3{0, 5, 0}) || snap.Shape.Kind != physics.ShapeSphere {
		t.Errorf("unexpected snapshot %+v", snap)
	}
	node, ok := graph.Node(snap.Node)
	if !ok {
		t.Fatal("scene node missing")
	}
	if node.Scale != (mgl32.Vec3{0.5, 0.5, 0.5}) {
		t.Errorf("sphere node scale = %v, want radius on every axis", node.Scale)
	}
}

func TestSpawnBoxScalesToEdgeLengths(t *testing.T) {
	reg, _, graph := newTestRegistry()
	h, err := reg.Spawn(BoxDescriptor(mgl32.Vec3{1, 2, 3}, 1), mgl32.Vec3{})
	if err != nil {
		t.Fatal(err)
	}
	snap, _ := reg.Get(h)
	if snap.Shape.HalfExtents != (mgl32.Vec3{0.5, 1, 1.5}) {
		t.Errorf("half extents = %v", snap.Shape.HalfExtents)
	}
	node, _ := graph.Node(snap.Node)
	if node.Scale != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("box node scale = %v", node.Scale)
	}
}

func TestSpawnRejectsInvalidShapes(t *testing.T) {
	nan := float32(math.NaN())
	tests := []struct {
		name  string
		shape ShapeDescriptor
		pos   mgl32.Vec3
	}{
		{"zero radius", SphereDescriptor(0, 1), mgl32.Vec3{}},
		{"negative radius", SphereDescriptor(-1, 1), mgl32.Vec3{}},
		{"flat box", BoxDescriptor(mgl32.Vec3{1, 0, 1}, 1), mgl32.Vec3{}},
		{"negative mass", SphereDescriptor(1, -2), mgl32.Vec3{}},
		{"nan mass", SphereDescriptor(1, nan), mgl32.Vec3{}},
		{"plane", ShapeDescriptor{Shape: physics.Plane()}, mgl32.Vec3{}},
		{"nan position", SphereDescriptor(1, 1), mgl32.Vec3{0, nan, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, sim, graph := newTestRegistry()
			reg.SetObserver(physics.ContactFunc(func(physics.ContactEvent) {}))

			_, err := reg.Spawn(tt.shape, tt.pos)
			if !errors.Is(err, ErrInvalidShape) {
				t.Fatalf("expected ErrInvalidShape, got %v", err)
			}
			if reg.Len() != 0 || len(sim.bodies) != 0 || graph.Len() != 0 || len(sim.subs) != 0 {
				t.Errorf("partial state left behind: registry=%d bodies=%d nodes=%d subs=%d",
					reg.Len(), len(sim.bodies), graph.Len(), len(sim.subs))
			}
		})
	}
}

func TestSpawnRollsBackOnCollaboratorFailure(t *testing.T) {
	t.Run("add body", func(t *testing.T) {
		reg, sim, graph := newTestRegistry()
		sim.failAdd = errBoom
		if _, err := reg.Spawn(SphereDescriptor(1, 1), mgl32.Vec3{}); !errors.Is(err, errBoom) {
			t.Fatalf("expected errBoom, got %v", err)
		}
		if reg.Len() != 0 || graph.Len() != 0 {
			t.Error("partial state left behind")
		}
	})
	t.Run("subscribe", func(t *testing.T) {
		reg, sim, graph := newTestRegistry()
		reg.SetObserver(physics.ContactFunc(func(physics.ContactEvent) {}))
		sim.failSubscribe = errBoom
		if _, err := reg.Spawn(SphereDescriptor(1, 1), mgl32.Vec3{}); !errors.Is(err, errBoom) {
			t.Fatalf("expected errBoom, got %v", err)
		}
		if reg.Len() != 0 || graph.Len() != 0 || len(sim.bodies) != 0 {
			t.Errorf("partial state left behind: bodies=%d", len(sim.bodies))
		}
	})
}

func TestClearReleasesEverything(t *testing.T) {
	reg, sim, graph := newTestRegistry()
	reg.SetObserver(physics.ContactFunc(func(physics.ContactEvent) {}))

	const k = 5
	for i := 0; i < k; i++ {
		desc := SphereDescriptor(0.3, 1)
		if i%2 == 1 {
			desc = BoxDescriptor(mgl32.Vec3{0.5, 0.5, 0.5}, 1)
		}
		if _, err := reg.Spawn(desc, mgl32.Vec3{float32(i), 3, 0}); err != nil {
			t.Fatal(err)
		}
	}
	if len(sim.subs) != k {
		t.Fatalf("expected %d subscriptions, got %d", k, len(sim.subs))
	}

	if err := reg.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if reg.Len() != 0 {
		t.Errorf("registry not empty: %d", reg.Len())
	}
	if sim.removed != k || graph.removed != k {
		t.Errorf("expected %d removed bodies and nodes, got %d and %d", k, sim.removed, graph.removed)
	}
	if len(sim.subs) != 0 {
		t.Errorf("%d subscriptions left behind", len(sim.subs))
	}
	if graph.Len() != 0 || len(sim.bodies) != 0 {
		t.Errorf("leftover nodes=%d bodies=%d", graph.Len(), len(sim.bodies))
	}

	count := 0
	reg.Each(func(Snapshot) { count++ })
	if count != 0 {
		t.Errorf("Each visited %d entities after Clear", count)
	}
}

func TestRemoveOrder(t *testing.T) {
	reg, sim, _ := newTestRegistry()
	reg.SetObserver(physics.ContactFunc(func(physics.ContactEvent) {}))
	h, _ := reg.Spawn(SphereDescriptor(1, 1), mgl32.Vec3{})
	snap, _ := reg.Get(h)

	sim.calls = nil
	if err := reg.Remove(h); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	want := []string{"unsubscribe 1", "remove_body 1", "remove_node 1"}
	if !slices.Equal(sim.calls, want) {
		t.Errorf("calls = %v, want %v", sim.calls, want)
	}
	if snap.Body != 1 || snap.Node != 1 {
		t.Fatalf("unexpected ids in %+v", snap)
	}

	if _, ok := reg.Get(h); ok {
		t.Error("removed entity still reachable")
	}
	if err := reg.Remove(h); !errors.Is(err, ErrUnknownEntity) {
		t.Errorf("expected ErrUnknownEntity, got %v", err)
	}
}

func TestHandlesAreNotReused(t *testing.T) {
	reg, _, _ := newTestRegistry()
	a, _ := reg.Spawn(SphereDescriptor(1, 1), mgl32.Vec3{})
	reg.Remove(a)
	b, _ := reg.Spawn(SphereDescriptor(1, 1), mgl32.Vec3{})
	if a == b {
		t.Errorf("handle %d reused", a)
	}
	if _, ok := reg.Get(a); ok {
		t.Error("stale handle resolves to the new entity")
	}
}

func TestClearReportsMissingBodies(t *testing.T) {
	reg, sim, graph := newTestRegistry()
	h1, _ := reg.Spawn(SphereDescriptor(1, 1), mgl32.Vec3{})
	reg.Spawn(SphereDescriptor(1, 1), mgl32.Vec3{})
	snap, _ := reg.Get(h1)
	sim.forget(snap.Body)

	err := reg.Clear()
	if !errors.Is(err, ErrRegistryConsistency) {
		t.Fatalf("expected ErrRegistryConsistency, got %v", err)
	}
	var ce *ConsistencyError
	if !errors.As(err, &ce) || ce.Op != "remove_body" || ce.Entity != h1 {
		t.Errorf("unexpected consistency error %+v", ce)
	}
	if reg.Len() != 0 || graph.Len() != 0 {
		t.Errorf("Clear left registry=%d nodes=%d", reg.Len(), graph.Len())
	}
}

func TestRemoveFreesBodyAfterFailedUnsubscribe(t *testing.T) {
	reg, sim, graph := newTestRegistry()
	reg.SetObserver(physics.ContactFunc(func(physics.ContactEvent) {}))
	h, _ := reg.Spawn(SphereDescriptor(1, 1), mgl32.Vec3{})
	keep, _ := reg.Spawn(SphereDescriptor(1, 1), mgl32.Vec3{2, 0, 0})
	snap, _ := reg.Get(h)
	sim.dropSubscriptions(snap.Body)

	err := reg.Remove(h)
	var ce *ConsistencyError
	if !errors.As(err, &ce) || ce.Op != "unsubscribe" || !errors.Is(err, physics.ErrUnknownSubscription) {
		t.Fatalf("expected an unsubscribe consistency error, got %v", err)
	}
	if _, ok := sim.bodies[snap.Body]; ok {
		t.Error("body left in the simulation without an owner")
	}
	if reg.Len() != 1 || graph.Len() != 1 || len(sim.bodies) != 1 {
		t.Errorf("registry=%d nodes=%d bodies=%d, want 1 each", reg.Len(), graph.Len(), len(sim.bodies))
	}
	if _, ok := reg.Get(keep); !ok {
		t.Error("unrelated entity was removed")
	}
}

func TestTemplatesAreShared(t *testing.T) {
	reg, _, graph := newTestRegistry()
	for i := 0; i < 10; i++ {
		reg.Spawn(SphereDescriptor(0.1+float32(i)*0.05, 1), mgl32.Vec3{})
		reg.Spawn(BoxDescriptor(mgl32.Vec3{1, 1, 1}, 1), mgl32.Vec3{})
	}
	if got := reg.Templates().Allocations(); got != 2 {
		t.Errorf("expected 2 template allocations, got %d", got)
	}

	sphere := reg.Templates().Template(physics.ShapeSphere)
	box := reg.Templates().Template(physics.ShapeBox)
	if sphere.Material.Color.Hex() != "#d8d8e0" || box.Material.Color.Hex() != "#c8b49a" {
		t.Errorf("template colours = %s, %s", sphere.Material.Color.Hex(), box.Material.Color.Hex())
	}
	graph.Each(func(n *scene.Node) {
		if n.Template.Geometry.Kind == sphere.Geometry.Kind && n.Template != sphere {
			t.Errorf("node %d has its own sphere template", n.ID)
		}
	})
}
