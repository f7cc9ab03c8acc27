package physics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// BodyID identifies a body within its world.
type BodyID uint32

// Material holds surface response coefficients.
type Material struct {
	Friction    float32
	Restitution float32
}

// BodyDesc describes a body to add to a world.
type BodyDesc struct {
	Shape    Shape
	Mass     float32 // 0 = static
	Position mgl32.Vec3
	Rotation mgl32.Quat // zero value means identity
	Velocity mgl32.Vec3
	Material *Material // nil uses the world default
}

// Body is a rigid body owned by a World.
type Body struct {
	id         BodyID
	shape      Shape
	mass       float32
	invMass    float32
	invInertia mgl32.Vec3 // local diagonal
	material   Material

	Position        mgl32.Vec3
	Rotation        mgl32.Quat
	Velocity        mgl32.Vec3
	AngularVelocity mgl32.Vec3
}

func newBody(id BodyID, desc BodyDesc, def Material) (*Body, error) {
	if err := desc.Shape.Validate(); err != nil {
		return nil, err
	}
	if !(desc.Mass >= 0) {
		return nil, fmt.Errorf("%w: mass %v", ErrInvalidShape, desc.Mass)
	}

	b := &Body{
		id:       id,
		shape:    desc.Shape,
		material: def,
		Position: desc.Position,
		Rotation: desc.Rotation,
		Velocity: desc.Velocity,
	}
	if desc.Material != nil {
		b.material = *desc.Material
	}
	if b.Rotation.Len() == 0 {
		b.Rotation = mgl32.QuatIdent()
	} else {
		b.Rotation = b.Rotation.Normalize()
	}

	// Planes never move
	if desc.Shape.Kind != ShapePlane && desc.Mass > 0 {
		b.mass = desc.Mass
		b.invMass = 1 / desc.Mass
		in := desc.Shape.inertia(desc.Mass)
		b.invInertia = mgl32.Vec3{1 / in[0], 1 / in[1], 1 / in[2]}
	} else {
		b.Velocity = mgl32.Vec3{}
	}
	return b, nil
}

// ID returns the body's identifier.
func (b *Body) ID() BodyID { return b.id }

// Shape returns the body's collision shape.
func (b *Body) Shape() Shape { return b.shape }

// Mass returns the body's mass; 0 for static bodies.
func (b *Body) Mass() float32 { return b.mass }

// Static reports whether the body is immovable.
func (b *Body) Static() bool { return b.invMass == 0 }

// Material returns the body's surface material.
func (b *Body) Material() Material { return b.material }

// applyImpulse applies an impulse at offset r from the centre of mass.
func (b *Body) applyImpulse(p, r mgl32.Vec3) {
	if b.invMass == 0 {
		return
	}
	b.Velocity = b.Velocity.Add(p.Mul(b.invMass))
	b.AngularVelocity = b.AngularVelocity.Add(b.invInertiaWorld(r.Cross(p)))
}

// velocityAt returns the velocity of the point at offset r from the centre of mass.
func (b *Body) velocityAt(r mgl32.Vec3) mgl32.Vec3 {
	return b.Velocity.Add(b.AngularVelocity.Cross(r))
}

// invInertiaWorld applies the world-space inverse inertia tensor to v.
func (b *Body) invInertiaWorld(v mgl32.Vec3) mgl32.Vec3 {
	local := b.Rotation.Conjugate().Rotate(v)
	local = mgl32.Vec3{
		local[0] * b.invInertia[0],
		local[1] * b.invInertia[1],
		local[2] * b.invInertia[2],
	}
	return b.Rotation.Rotate(local)
}

// integrate advances position and orientation by h.
func (b *Body) integrate(h float32) {
	b.Position = b.Position.Add(b.Velocity.Mul(h))

	w := mgl32.Quat{W: 0, V: b.AngularVelocity}
	dq := w.Mul(b.Rotation).Scale(0.5 * h)
	b.Rotation = b.Rotation.Add(dq).Normalize()
}
