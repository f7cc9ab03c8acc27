package physics

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

var upAxis = mgl32.Vec3{0, 1, 0}

// contact is one contact point between a and b. normal points from a to b.
type contact struct {
	a, b   *Body
	normal mgl32.Vec3
	point  mgl32.Vec3
	depth  float32

	ra, rb       mgl32.Vec3
	t1, t2       mgl32.Vec3
	normalMass   float32
	tangentMass1 float32
	tangentMass2 float32
	bias         float32
	friction     float32
	impact       float32

	jn, jt1, jt2 float32
}

// manifold groups the contacts of one body pair.
type manifold struct {
	a, b       *Body
	start, end int
}

// collide appends the contacts between a and b to out.
func collide(a, b *Body, out []contact) []contact {
	ka, kb := a.shape.Kind, b.shape.Kind
	switch {
	case ka == ShapePlane && kb == ShapePlane:
		return out
	case ka == ShapePlane && kb == ShapeSphere:
		return collidePlaneSphere(a, b, out)
	case ka == ShapePlane && kb == ShapeBox:
		return collidePlaneBox(a, b, out)
	case kb == ShapePlane:
		return flip(collide(b, a, nil), out)
	case ka == ShapeSphere && kb == ShapeSphere:
		return collideSphereSphere(a, b, out)
	case ka == ShapeSphere && kb == ShapeBox:
		return collideSphereBox(a, b, out)
	case ka == ShapeBox && kb == ShapeSphere:
		return flip(collideSphereBox(b, a, nil), out)
	case ka == ShapeBox && kb == ShapeBox:
		return collideBoxBox(a, b, out)
	}
	return out
}

// flip swaps the roles of a and b in every contact and appends them to out.
func flip(cs []contact, out []contact) []contact {
	for _, c := range cs {
		c.a, c.b = c.b, c.a
		c.normal = c.normal.Mul(-1)
		out = append(out, c)
	}
	return out
}

func planeNormal(p *Body) mgl32.Vec3 {
	return p.Rotation.Rotate(upAxis)
}

func collidePlaneSphere(p, s *Body, out []contact) []contact {
	n := planeNormal(p)
	d := n.Dot(s.Position.Sub(p.Position))
	depth := s.shape.Radius - d
	if depth <= 0 {
		return out
	}
	return append(out, contact{
		a:      p,
		b:      s,
		normal: n,
		point:  s.Position.Sub(n.Mul(s.shape.Radius)),
		depth:  depth,
	})
}

func collidePlaneBox(p, box *Body, out []contact) []contact {
	n := planeNormal(p)
	for _, c := range boxCorners(box) {
		d := n.Dot(c.Sub(p.Position))
		if d < 0 {
			out = append(out, contact{a: p, b: box, normal: n, point: c, depth: -d})
		}
	}
	return out
}

func collideSphereSphere(a, b *Body, out []contact) []contact {
	delta := b.Position.Sub(a.Position)
	dist := delta.Len()
	depth := a.shape.Radius + b.shape.Radius - dist
	if depth <= 0 {
		return out
	}
	n := upAxis
	if dist > 1e-6 {
		n = delta.Mul(1 / dist)
	}
	return append(out, contact{
		a:      a,
		b:      b,
		normal: n,
		point:  a.Position.Add(n.Mul(a.shape.Radius)),
		depth:  depth,
	})
}

func collideSphereBox(s, box *Body, out []contact) []contact {
	h := box.shape.HalfExtents
	inv := box.Rotation.Conjugate()
	local := inv.Rotate(s.Position.Sub(box.Position))

	clamped := mgl32.Vec3{
		mgl32.Clamp(local[0], -h[0], h[0]),
		mgl32.Clamp(local[1], -h[1], h[1]),
		mgl32.Clamp(local[2], -h[2], h[2]),
	}

	if clamped != local {
		closest := box.Position.Add(box.Rotation.Rotate(clamped))
		delta := closest.Sub(s.Position)
		dist := delta.Len()
		if dist >= s.shape.Radius || dist < 1e-6 {
			return out
		}
		return append(out, contact{
			a:      s,
			b:      box,
			normal: delta.Mul(1 / dist),
			point:  closest,
			depth:  s.shape.Radius - dist,
		})
	}

	// Centre inside the box: push out through the nearest face.
	axis, pen := nearestFace(local, h)
	outward := mgl32.Vec3{}
	outward[axis] = sign(local[axis])
	return append(out, contact{
		a:      s,
		b:      box,
		normal: box.Rotation.Rotate(outward).Mul(-1),
		point:  s.Position,
		depth:  s.shape.Radius + pen,
	})
}

// collideBoxBox tests the corners of each box against the other. Edge/edge
// contacts are not detected.
func collideBoxBox(a, b *Body, out []contact) []contact {
	out = cornersInside(a, b, out, false)
	return cornersInside(b, a, out, true)
}

// cornersInside appends a contact for every corner of src inside dst.
// The normal points from src to dst, or the reverse when swapped.
func cornersInside(src, dst *Body, out []contact, swapped bool) []contact {
	h := dst.shape.HalfExtents
	inv := dst.Rotation.Conjugate()
	for _, c := range boxCorners(src) {
		local := inv.Rotate(c.Sub(dst.Position))
		if math32.Abs(local[0]) >= h[0] || math32.Abs(local[1]) >= h[1] || math32.Abs(local[2]) >= h[2] {
			continue
		}
		axis, pen := nearestFace(local, h)
		outward := mgl32.Vec3{}
		outward[axis] = sign(local[axis])
		n := dst.Rotation.Rotate(outward).Mul(-1) // src towards dst
		ct := contact{a: src, b: dst, normal: n, point: c, depth: pen}
		if swapped {
			ct.a, ct.b = dst, src
			ct.normal = n.Mul(-1)
		}
		out = append(out, ct)
	}
	return out
}

// nearestFace returns the axis whose face is closest to the local point and
// the distance to it.
func nearestFace(local, h mgl32.Vec3) (int, float32) {
	axis := 0
	pen := h[0] - math32.Abs(local[0])
	for k := 1; k < 3; k++ {
		if p := h[k] - math32.Abs(local[k]); p < pen {
			axis, pen = k, p
		}
	}
	return axis, pen
}

func sign(v float32) float32 {
	if v < 0 {
		return -1
	}
	return 1
}
