// Package physics is a small rigid-body world: spheres and boxes falling onto
// static planes, stepped at a fixed rate with a sequential-impulse solver.
package physics

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ShapeKind identifies a collision shape.
type ShapeKind uint8

const (
	ShapeSphere ShapeKind = iota
	ShapeBox
	ShapePlane // infinite, static; normal is the body's local +Y
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeSphere:
		return "sphere"
	case ShapeBox:
		return "box"
	case ShapePlane:
		return "plane"
	}
	return fmt.Sprintf("ShapeKind(%d)", k)
}

// ErrInvalidShape is returned for shapes with non-positive or non-finite dimensions.
var ErrInvalidShape = errors.New("invalid shape")

// Shape is a collision shape in body-local coordinates.
type Shape struct {
	Kind        ShapeKind
	Radius      float32    // sphere
	HalfExtents mgl32.Vec3 // box
}

// Sphere returns a sphere shape.
func Sphere(radius float32) Shape {
	return Shape{Kind: ShapeSphere, Radius: radius}
}

// Box returns a box shape from its half extents.
func Box(halfExtents mgl32.Vec3) Shape {
	return Shape{Kind: ShapeBox, HalfExtents: halfExtents}
}

// Plane returns an infinite plane shape.
func Plane() Shape {
	return Shape{Kind: ShapePlane}
}

// Validate checks the shape dimensions.
func (s Shape) Validate() error {
	switch s.Kind {
	case ShapeSphere:
		if !(s.Radius > 0) || math32.IsInf(s.Radius, 0) {
			return fmt.Errorf("%w: sphere radius %v", ErrInvalidShape, s.Radius)
		}
	case ShapeBox:
		for _, h := range s.HalfExtents {
			if !(h > 0) || math32.IsInf(h, 0) {
				return fmt.Errorf("%w: box half extents %v", ErrInvalidShape, s.HalfExtents)
			}
		}
	case ShapePlane:
	default:
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidShape, s.Kind)
	}
	return nil
}

// inertia returns the diagonal of the local inertia tensor for the given mass.
func (s Shape) inertia(mass float32) mgl32.Vec3 {
	switch s.Kind {
	case ShapeSphere:
		i := 0.4 * mass * s.Radius * s.Radius
		return mgl32.Vec3{i, i, i}
	case ShapeBox:
		x, y, z := 2*s.HalfExtents[0], 2*s.HalfExtents[1], 2*s.HalfExtents[2]
		k := mass / 12
		return mgl32.Vec3{k * (y*y + z*z), k * (x*x + z*z), k * (x*x + y*y)}
	}
	return mgl32.Vec3{}
}

// boxCorners returns the eight world-space corners of a box body.
func boxCorners(b *Body) [8]mgl32.Vec3 {
	h := b.shape.HalfExtents
	var out [8]mgl32.Vec3
	for i := range out {
		local := mgl32.Vec3{h[0], h[1], h[2]}
		if i&1 != 0 {
			local[0] = -local[0]
		}
		if i&2 != 0 {
			local[1] = -local[1]
		}
		if i&4 != 0 {
			local[2] = -local[2]
		}
		out[i] = b.Position.Add(b.Rotation.Rotate(local))
	}
	return out
}
