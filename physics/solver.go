package physics

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// restitutionThreshold is the approach speed below which contacts do not bounce.
	restitutionThreshold = 1.0
	// positional correction: fraction of penetration removed per step, and tolerated slop.
	correctionPercent = 0.8
	correctionSlop    = 0.005
)

// effectiveMass returns 1/K for an impulse along dir at the contact.
func effectiveMass(c *contact, dir mgl32.Vec3) float32 {
	k := c.a.invMass + c.b.invMass
	if c.a.invMass > 0 {
		k += dir.Dot(c.a.invInertiaWorld(c.ra.Cross(dir)).Cross(c.ra))
	}
	if c.b.invMass > 0 {
		k += dir.Dot(c.b.invInertiaWorld(c.rb.Cross(dir)).Cross(c.rb))
	}
	if k <= 0 {
		return 0
	}
	return 1 / k
}

func relativeVelocity(c *contact) mgl32.Vec3 {
	return c.b.velocityAt(c.rb).Sub(c.a.velocityAt(c.ra))
}

// prepare computes lever arms, masses, friction basis and restitution bias.
func prepare(c *contact) {
	c.ra = c.point.Sub(c.a.Position)
	c.rb = c.point.Sub(c.b.Position)
	c.normalMass = effectiveMass(c, c.normal)
	c.t1, c.t2 = tangentBasis(c.normal)
	c.tangentMass1 = effectiveMass(c, c.t1)
	c.tangentMass2 = effectiveMass(c, c.t2)

	ma, mb := c.a.material, c.b.material
	c.friction = math32.Sqrt(ma.Friction * mb.Friction)
	restitution := max(ma.Restitution, mb.Restitution)

	vn := relativeVelocity(c).Dot(c.normal)
	c.impact = max(-vn, 0)
	c.bias = 0
	if vn < -restitutionThreshold {
		c.bias = -restitution * vn
	}
}

// solve applies one iteration of normal and friction impulses.
func solve(c *contact) {
	vn := relativeVelocity(c).Dot(c.normal)
	lambda := (c.bias - vn) * c.normalMass
	old := c.jn
	c.jn = max(old+lambda, 0)
	applyPair(c, c.normal.Mul(c.jn-old))

	limit := c.friction * c.jn
	c.jt1 = solveTangent(c, c.t1, c.tangentMass1, c.jt1, limit)
	c.jt2 = solveTangent(c, c.t2, c.tangentMass2, c.jt2, limit)
}

func solveTangent(c *contact, t mgl32.Vec3, mass, acc, limit float32) float32 {
	vt := relativeVelocity(c).Dot(t)
	next := mgl32.Clamp(acc-vt*mass, -limit, limit)
	applyPair(c, t.Mul(next-acc))
	return next
}

func applyPair(c *contact, p mgl32.Vec3) {
	c.a.applyImpulse(p.Mul(-1), c.ra)
	c.b.applyImpulse(p, c.rb)
}

// correctPositions pushes each pair apart along its deepest contact.
func correctPositions(cs []contact, ms []manifold) {
	for _, m := range ms {
		deepest := &cs[m.start]
		for i := m.start + 1; i < m.end; i++ {
			if cs[i].depth > deepest.depth {
				deepest = &cs[i]
			}
		}
		total := m.a.invMass + m.b.invMass
		if total == 0 {
			continue
		}
		amount := max(deepest.depth-correctionSlop, 0) * correctionPercent / total
		if amount == 0 {
			continue
		}
		m.a.Position = m.a.Position.Sub(deepest.normal.Mul(amount * m.a.invMass))
		m.b.Position = m.b.Position.Add(deepest.normal.Mul(amount * m.b.invMass))
	}
}

// tangentBasis returns two unit vectors orthogonal to n and each other.
func tangentBasis(n mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	ref := mgl32.Vec3{1, 0, 0}
	if math32.Abs(n[0]) > 0.9 {
		ref = mgl32.Vec3{0, 0, 1}
	}
	t1 := n.Cross(ref).Normalize()
	t2 := n.Cross(t1)
	return t1, t2
}
