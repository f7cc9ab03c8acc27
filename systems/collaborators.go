package systems

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/galaxy/physics"
	"github.com/pthm-cable/galaxy/scene"
)

// Simulation is the rigid-body world the loop steps and queries.
// *physics.World satisfies it.
type Simulation interface {
	Step(fixedStep, dt float32, maxSubSteps int)
	AddBody(desc physics.BodyDesc) (physics.BodyID, error)
	RemoveBody(id physics.BodyID) error
	BodyTransform(id physics.BodyID) (mgl32.Vec3, mgl32.Quat, bool)
	Subscribe(id physics.BodyID, l physics.ContactListener) (physics.Subscription, error)
	Unsubscribe(s physics.Subscription) error
}

// SceneGraph is the visual side that mirrors simulated bodies.
// *scene.Graph satisfies it.
type SceneGraph interface {
	Add(t *scene.Template, scale, pos mgl32.Vec3) scene.NodeID
	Remove(id scene.NodeID) error
	SetTransform(id scene.NodeID, pos mgl32.Vec3, rot mgl32.Quat) error
}

// ImpactEffect reacts to a collision of the given strength.
type ImpactEffect interface {
	Impact(strength float32)
}

var (
	_ Simulation = (*physics.World)(nil)
	_ SceneGraph = (*scene.Graph)(nil)
)
