package systems

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/galaxy/components"
	"github.com/pthm-cable/galaxy/physics"
	"github.com/pthm-cable/galaxy/scene"
)

// EntityHandle identifies a simulated entity. Handles are never reused.
type EntityHandle uint64

// ShapeDescriptor describes what to spawn.
type ShapeDescriptor struct {
	Shape    physics.Shape
	Mass     float32
	Material *physics.Material // nil uses the world default
}

// SphereDescriptor returns a dynamic sphere descriptor.
func SphereDescriptor(radius, mass float32) ShapeDescriptor {
	return ShapeDescriptor{Shape: physics.Sphere(radius), Mass: mass}
}

// BoxDescriptor returns a dynamic box descriptor from full edge lengths.
func BoxDescriptor(size mgl32.Vec3, mass float32) ShapeDescriptor {
	return ShapeDescriptor{Shape: physics.Box(size.Mul(0.5)), Mass: mass}
}

// Validate rejects planes, non-positive dimensions and negative or
// non-finite masses.
func (d ShapeDescriptor) Validate() error {
	if d.Shape.Kind == physics.ShapePlane {
		return fmt.Errorf("%w: planes cannot be spawned", ErrInvalidShape)
	}
	if err := d.Shape.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidShape, err)
	}
	if !(d.Mass >= 0) || math32.IsInf(d.Mass, 0) {
		return fmt.Errorf("%w: mass %v", ErrInvalidShape, d.Mass)
	}
	return nil
}

// Snapshot is a read-only copy of one entity's state.
type Snapshot struct {
	Handle     EntityHandle
	Shape      physics.Shape
	Mass       float32
	Position   mgl32.Vec3
	Rotation   mgl32.Quat
	Body       physics.BodyID
	Node       scene.NodeID
	Subscribed bool
}

// Registry exclusively owns the pairing of simulation bodies and scene
// nodes. Each pairing is one ECS entity.
type Registry struct {
	sim      Simulation
	graph    SceneGraph
	pool     *TemplatePool
	observer physics.ContactListener

	world *ecs.World

	mapper *ecs.Map5[
		components.Handle,
		components.Transform,
		components.BodyRef,
		components.VisualRef,
		components.Shape,
	]
	filter *ecs.Filter5[
		components.Handle,
		components.Transform,
		components.BodyRef,
		components.VisualRef,
		components.Shape,
	]

	byHandle   map[EntityHandle]ecs.Entity
	nextHandle EntityHandle
}

// NewRegistry creates an empty registry. A nil pool gets a fresh one.
func NewRegistry(sim Simulation, graph SceneGraph, pool *TemplatePool) *Registry {
	if pool == nil {
		pool = NewTemplatePool()
	}
	world := ecs.NewWorld()
	return &Registry{
		sim:   sim,
		graph: graph,
		pool:  pool,
		world: world,
		mapper: ecs.NewMap5[
			components.Handle,
			components.Transform,
			components.BodyRef,
			components.VisualRef,
			components.Shape,
		](world),
		filter: ecs.NewFilter5[
			components.Handle,
			components.Transform,
			components.BodyRef,
			components.VisualRef,
			components.Shape,
		](world),
		byHandle: make(map[EntityHandle]ecs.Entity),
	}
}

// SetObserver sets the contact listener subscribed on later spawns.
// Existing entities keep their current subscription. nil disables it.
func (r *Registry) SetObserver(l physics.ContactListener) {
	r.observer = l
}

// Templates returns the registry's template pool.
func (r *Registry) Templates() *TemplatePool {
	return r.pool
}

// Spawn creates a body, a scene node and a registry entry for shape at pos.
// On error nothing is left behind.
func (r *Registry) Spawn(shape ShapeDescriptor, pos mgl32.Vec3) (EntityHandle, error) {
	if err := shape.Validate(); err != nil {
		return 0, err
	}
	if !finiteVec(pos) {
		return 0, fmt.Errorf("%w: position %v", ErrInvalidShape, pos)
	}

	body, err := r.sim.AddBody(physics.BodyDesc{
		Shape:    shape.Shape,
		Mass:     shape.Mass,
		Position: pos,
		Rotation: mgl32.QuatIdent(),
		Material: shape.Material,
	})
	if err != nil {
		return 0, fmt.Errorf("adding body: %w", err)
	}

	ref := components.BodyRef{ID: body}
	if r.observer != nil {
		sub, err := r.sim.Subscribe(body, r.observer)
		if err != nil {
			if rmErr := r.sim.RemoveBody(body); rmErr != nil {
				return 0, errors.Join(fmt.Errorf("subscribing: %w", err), rmErr)
			}
			return 0, fmt.Errorf("subscribing: %w", err)
		}
		ref.Sub = sub
		ref.Subscribed = true
	}

	template := r.pool.Template(shape.Shape.Kind)
	node := r.graph.Add(template, NodeScale(shape.Shape), pos)

	r.nextHandle++
	handle := r.nextHandle
	entity := r.mapper.NewEntity(
		&components.Handle{ID: uint64(handle)},
		&components.Transform{Position: pos, Rotation: mgl32.QuatIdent()},
		&ref,
		&components.VisualRef{Node: node},
		&components.Shape{Shape: shape.Shape, Mass: shape.Mass},
	)
	r.byHandle[handle] = entity

	slog.Debug("entity spawned",
		"entity", handle,
		"shape", shape.Shape.Kind.String(),
		"body", body,
		"node", node,
	)
	return handle, nil
}

// Remove detaches an entity: contact subscription, then body, then scene
// node, then the registry entry.
func (r *Registry) Remove(h EntityHandle) error {
	entity, ok := r.byHandle[h]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownEntity, h)
	}
	return r.release(h, entity)
}

// Clear removes every entity in the same order as Remove. The registry is
// empty afterwards even if some detachments failed; those failures are
// returned joined.
func (r *Registry) Clear() error {
	// First pass: collect (the world is locked while querying)
	type pending struct {
		handle EntityHandle
		entity ecs.Entity
	}
	var toRemove []pending
	query := r.filter.Query()
	for query.Next() {
		handle, _, _, _, _ := query.Get()
		toRemove = append(toRemove, pending{handle: EntityHandle(handle.ID), entity: query.Entity()})
	}

	// Second pass: detach and remove
	var errs []error
	for _, p := range toRemove {
		if err := r.release(p.handle, p.entity); err != nil {
			errs = append(errs, err)
		}
	}
	slog.Info("registry cleared", "removed", len(toRemove), "errors", len(errs))
	return errors.Join(errs...)
}

// release runs the detach sequence for one entity and always drops it.
func (r *Registry) release(h EntityHandle, entity ecs.Entity) error {
	_, _, ref, visual, _ := r.mapper.Get(entity)
	body, node := ref.ID, visual.Node

	var errs []error
	if ref.Subscribed {
		// A failed unsubscribe usually means the simulation already dropped
		// the subscription, so the body removal is still attempted.
		if err := r.sim.Unsubscribe(ref.Sub); err != nil {
			errs = append(errs, &ConsistencyError{Entity: h, Body: body, Op: "unsubscribe", Err: err})
		}
		ref.Subscribed = false
	}
	if err := r.sim.RemoveBody(body); err != nil {
		errs = append(errs, &ConsistencyError{Entity: h, Body: body, Op: "remove_body", Err: err})
	}
	if err := r.graph.Remove(node); err != nil {
		errs = append(errs, &ConsistencyError{Entity: h, Body: body, Op: "remove_node", Err: err})
	}

	r.world.RemoveEntity(entity)
	delete(r.byHandle, h)
	return errors.Join(errs...)
}

// Len returns the number of entities.
func (r *Registry) Len() int {
	return len(r.byHandle)
}

// Get returns a snapshot of one entity.
func (r *Registry) Get(h EntityHandle) (Snapshot, bool) {
	entity, ok := r.byHandle[h]
	if !ok || !r.world.Alive(entity) {
		return Snapshot{}, false
	}
	handle, tr, ref, visual, shape := r.mapper.Get(entity)
	return snapshot(handle, tr, ref, visual, shape), true
}

// Each calls fn with a snapshot of every entity. fn must not spawn or remove.
func (r *Registry) Each(fn func(s Snapshot)) {
	query := r.filter.Query()
	for query.Next() {
		fn(snapshot(query.Get()))
	}
}

// sync copies every body transform onto its entity and scene node.
func (r *Registry) sync() error {
	query := r.filter.Query()
	for query.Next() {
		handle, tr, ref, visual, _ := query.Get()
		pos, rot, ok := r.sim.BodyTransform(ref.ID)
		if !ok {
			query.Close()
			return &ConsistencyError{Entity: EntityHandle(handle.ID), Body: ref.ID, Op: "sync", Err: physics.ErrUnknownBody}
		}
		tr.Position = pos
		tr.Rotation = rot
		if err := r.graph.SetTransform(visual.Node, pos, rot); err != nil {
			query.Close()
			return &ConsistencyError{Entity: EntityHandle(handle.ID), Body: ref.ID, Op: "set_transform", Err: err}
		}
	}
	return nil
}

func snapshot(
	handle *components.Handle,
	tr *components.Transform,
	ref *components.BodyRef,
	visual *components.VisualRef,
	shape *components.Shape,
) Snapshot {
	return Snapshot{
		Handle:     EntityHandle(handle.ID),
		Shape:      shape.Shape,
		Mass:       shape.Mass,
		Position:   tr.Position,
		Rotation:   tr.Rotation,
		Body:       ref.ID,
		Node:       visual.Node,
		Subscribed: ref.Subscribed,
	}
}

func finiteVec(v mgl32.Vec3) bool {
	for _, c := range v {
		if math32.IsNaN(c) || math32.IsInf(c, 0) {
			return false
		}
	}
	return true
}
