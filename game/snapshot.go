package game

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/galaxy/config"
	"github.com/pthm-cable/galaxy/field"
	"github.com/pthm-cable/galaxy/physics"
	"github.com/pthm-cable/galaxy/systems"
	"github.com/pthm-cable/galaxy/telemetry"
)

// FieldConfigOf converts generation parameters back into a field config
// section. MaxCount and Animate come from the caller.
func FieldConfigOf(p field.GenerationParameters, maxCount int, animate bool) config.FieldConfig {
	return config.FieldConfig{
		Mode:            p.Mode.String(),
		Count:           p.Count,
		MaxCount:        maxCount,
		Size:            float64(p.Size),
		SizeVariation:   float64(p.SizeVariation),
		Radius:          float64(p.Radius),
		Branches:        p.Branches,
		Spin:            float64(p.Spin),
		Randomness:      float64(p.Randomness),
		RandomnessPower: float64(p.RandomnessPower),
		InsideColor:     p.InsideColor.Hex(),
		OutsideColor:    p.OutsideColor.Hex(),
		Seed:            p.Seed,
		Animate:         animate,
	}
}

// Snapshot captures the field parameters and every spawned body.
func (g *Game) Snapshot(bm *telemetry.Bookmark) *telemetry.Snapshot {
	s := &telemetry.Snapshot{
		Version:  telemetry.SnapshotVersion,
		RNGSeed:  g.seed,
		Tick:     g.tick,
		SimTime:  g.loop.SimTime(),
		Field:    FieldConfigOf(g.params, g.generator.MaxCount(), g.animate),
		Bookmark: bm,
	}
	g.registry.Each(func(e systems.Snapshot) {
		rot := e.Rotation
		s.Entities = append(s.Entities, telemetry.EntityState{
			Handle:      uint64(e.Handle),
			Shape:       e.Shape.Kind.String(),
			Radius:      e.Shape.Radius,
			HalfExtents: e.Shape.HalfExtents,
			Mass:        e.Mass,
			Position:    e.Position,
			Rotation:    [4]float32{rot.W, rot.V.X(), rot.V.Y(), rot.V.Z()},
		})
	})
	return s
}

// Restore replaces the scene with the snapshot's field and bodies. Bodies
// are respawned at rest with identity rotation and new handles. The
// current field is kept if the snapshot's field is rejected.
func (g *Game) Restore(s *telemetry.Snapshot) error {
	params, err := FieldParams(s.Field)
	if err != nil {
		return fmt.Errorf("snapshot field: %w", err)
	}
	if err := g.Regenerate(params); err != nil {
		return err
	}
	g.animate = s.Field.Animate

	var errs []error
	if err := g.registry.Clear(); err != nil {
		errs = append(errs, err)
	}
	for _, e := range s.Entities {
		desc, err := entityDescriptor(e)
		if err != nil {
			errs = append(errs, fmt.Errorf("entity %d: %w", e.Handle, err))
			continue
		}
		if _, err := g.registry.Spawn(desc, e.Position); err != nil {
			errs = append(errs, fmt.Errorf("entity %d: %w", e.Handle, err))
		}
	}

	slog.Info("snapshot restored",
		"tick", s.Tick,
		"bodies", g.registry.Len(),
		"errors", len(errs),
	)
	return errors.Join(errs...)
}

func entityDescriptor(e telemetry.EntityState) (systems.ShapeDescriptor, error) {
	switch e.Shape {
	case physics.ShapeSphere.String():
		return systems.ShapeDescriptor{Shape: physics.Sphere(e.Radius), Mass: e.Mass}, nil
	case physics.ShapeBox.String():
		return systems.ShapeDescriptor{Shape: physics.Box(mgl32.Vec3(e.HalfExtents)), Mass: e.Mass}, nil
	}
	return systems.ShapeDescriptor{}, fmt.Errorf("%w: shape %q", systems.ErrInvalidShape, e.Shape)
}

// saveBookmarkSnapshot writes a snapshot for bm into the output directory.
func (g *Game) saveBookmarkSnapshot(bm telemetry.Bookmark) {
	if g.output == nil || !g.cfg.Telemetry.Snapshots {
		return
	}
	path, err := telemetry.SaveSnapshot(g.Snapshot(&bm), filepath.Join(g.output.Dir(), "snapshots"))
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Debug("snapshot saved", "path", path, "type", string(bm.Type))
}
