package renderer

import (
	"github.com/go-gl/mathgl/mgl32"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/galaxy/camera"
	"github.com/pthm-cable/galaxy/scene"
)

// SceneRenderer draws the nodes of a scene graph plus the floor.
type SceneRenderer struct {
	FloorY    float32
	FloorSize float32
	FloorGrid bool
	floor     rl.Color
}

// NewSceneRenderer creates a renderer with a grey floor at floorY.
func NewSceneRenderer(floorY float32) *SceneRenderer {
	return &SceneRenderer{
		FloorY:    floorY,
		FloorSize: 10,
		FloorGrid: true,
		floor:     rl.NewColor(119, 119, 119, 255),
	}
}

// Draw renders every node of g. Must be called inside BeginMode3D.
func (r *SceneRenderer) Draw(g *scene.Graph) {
	r.drawFloor()
	g.Each(func(n *scene.Node) {
		if n.Template == nil {
			return
		}
		axis, deg := scene.AxisAngle(n.Rotation)

		rl.PushMatrix()
		rl.Translatef(n.Position.X(), n.Position.Y(), n.Position.Z())
		rl.Rotatef(deg, axis.X(), axis.Y(), axis.Z())
		rl.Scalef(n.Scale.X(), n.Scale.Y(), n.Scale.Z())
		drawUnit(n.Template)
		rl.PopMatrix()
	})
}

func (r *SceneRenderer) drawFloor() {
	center := rl.NewVector3(0, r.FloorY, 0)
	rl.DrawPlane(center, rl.NewVector2(r.FloorSize, r.FloorSize), r.floor)
	if r.FloorGrid {
		rl.PushMatrix()
		rl.Translatef(0, r.FloorY+0.001, 0)
		rl.DrawGrid(int32(r.FloorSize), 1)
		rl.PopMatrix()
	}
}

// drawUnit draws the template's unit geometry at the origin.
func drawUnit(t *scene.Template) {
	r, g, b := t.Material.Color.RGB255()
	color := rl.NewColor(r, g, b, 255)
	origin := rl.NewVector3(0, 0, 0)

	switch t.Geometry.Kind {
	case scene.GeometrySphere:
		seg := int32(max(t.Geometry.Segments, 8))
		if t.Material.Wireframe {
			rl.DrawSphereWires(origin, 1, seg, seg, color)
			return
		}
		rl.DrawSphereEx(origin, 1, seg, seg, color)
	case scene.GeometryBox:
		if t.Material.Wireframe {
			rl.DrawCubeWires(origin, 1, 1, 1, color)
			return
		}
		rl.DrawCube(origin, 1, 1, 1, color)
		rl.DrawCubeWires(origin, 1, 1, 1, rl.Fade(rl.Black, 0.3))
	case scene.GeometryPlane:
		rl.DrawPlane(origin, rl.NewVector2(1, 1), color)
	}
}

// Camera3D converts an orbit camera into a raylib camera.
func Camera3D(o *camera.Orbit) rl.Camera3D {
	pos := o.Position()
	return rl.Camera3D{
		Position:   toRL(pos),
		Target:     toRL(o.Target),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       o.FOV,
		Projection: rl.CameraPerspective,
	}
}

func toRL(v mgl32.Vec3) rl.Vector3 {
	return rl.NewVector3(v.X(), v.Y(), v.Z())
}
