package systems

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/galaxy/physics"
	"github.com/pthm-cable/galaxy/scene"
)

// unitTemplates maps each shape kind to the unit mesh and material its
// nodes share.
var unitTemplates = map[physics.ShapeKind]scene.Template{
	physics.ShapeSphere: {
		Name:     "sphere",
		Geometry: scene.Geometry{Kind: scene.GeometrySphere, Segments: 20},
		Material: scene.Material{Color: mustHex("#d8d8e0")},
	},
	physics.ShapeBox: {
		Name:     "box",
		Geometry: scene.Geometry{Kind: scene.GeometryBox},
		Material: scene.Material{Color: mustHex("#c8b49a")},
	},
	physics.ShapePlane: {
		Name:     "floor",
		Geometry: scene.Geometry{Kind: scene.GeometryPlane},
		Material: scene.Material{Color: mustHex("#777777")},
	},
}

// mustHex parses a "#rrggbb" colour and panics on error.
func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// TemplatePool hands out one shared template per shape kind, created on
// first use.
type TemplatePool struct {
	templates   map[physics.ShapeKind]*scene.Template
	allocations int
}

// NewTemplatePool creates an empty pool.
func NewTemplatePool() *TemplatePool {
	return &TemplatePool{templates: make(map[physics.ShapeKind]*scene.Template)}
}

// Template returns the shared template for kind.
func (p *TemplatePool) Template(kind physics.ShapeKind) *scene.Template {
	if t, ok := p.templates[kind]; ok {
		return t
	}
	base, ok := unitTemplates[kind]
	if !ok {
		base = unitTemplates[physics.ShapeSphere]
	}
	t := &base
	p.templates[kind] = t
	p.allocations++
	return t
}

// Allocations returns how many templates the pool has created.
func (p *TemplatePool) Allocations() int {
	return p.allocations
}

// NodeScale returns the per-axis scale that sizes a unit template to shape.
func NodeScale(shape physics.Shape) mgl32.Vec3 {
	switch shape.Kind {
	case physics.ShapeSphere:
		r := shape.Radius
		return mgl32.Vec3{r, r, r}
	case physics.ShapeBox:
		return shape.HalfExtents.Mul(2)
	}
	return mgl32.Vec3{1, 1, 1}
}
