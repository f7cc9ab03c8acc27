// Package components defines ECS components for simulated entities.
package components

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/galaxy/physics"
	"github.com/pthm-cable/galaxy/scene"
)

// Handle is the stable public identifier of a simulated entity.
// Handles are never reused, unlike ECS entity slots.
type Handle struct {
	ID uint64
}

// Transform caches the last synced world transform.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
}

// BodyRef links an entity to its simulation body.
type BodyRef struct {
	ID         physics.BodyID
	Sub        physics.Subscription
	Subscribed bool // Sub is live and must be removed before the body
}

// VisualRef links an entity to its scene node.
type VisualRef struct {
	Node scene.NodeID
}

// Shape records what the entity was spawned as.
type Shape struct {
	Shape physics.Shape
	Mass  float32
}
