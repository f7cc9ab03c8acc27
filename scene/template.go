package scene

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

// GeometryKind selects the unit mesh a template draws.
type GeometryKind uint8

const (
	GeometrySphere GeometryKind = iota // radius 1
	GeometryBox                        // 1x1x1 cube
	GeometryPlane                      // 1x1 quad in XZ
)

func (k GeometryKind) String() string {
	switch k {
	case GeometrySphere:
		return "sphere"
	case GeometryBox:
		return "box"
	case GeometryPlane:
		return "plane"
	}
	return fmt.Sprintf("GeometryKind(%d)", k)
}

// Geometry is a unit mesh; nodes scale it to size.
type Geometry struct {
	Kind     GeometryKind
	Segments int // tessellation for spheres
}

// Material describes surface colour only.
type Material struct {
	Color     colorful.Color
	Wireframe bool
}

// Template pairs a geometry with a material. Templates are shared by every
// node that draws the same kind of object.
type Template struct {
	Name     string
	Geometry Geometry
	Material Material
}

// AxisAngle converts a unit quaternion into an axis and an angle in degrees.
// The identity rotation yields the Y axis and zero degrees.
func AxisAngle(q mgl32.Quat) (mgl32.Vec3, float32) {
	q = q.Normalize()
	w := mgl32.Clamp(q.W, -1, 1)
	s := math32.Sqrt(1 - w*w)
	if s < 1e-6 {
		return mgl32.Vec3{0, 1, 0}, 0
	}
	angle := 2 * math32.Acos(w)
	return q.V.Mul(1 / s), mgl32.RadToDeg(angle)
}
