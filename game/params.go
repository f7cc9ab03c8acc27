package game

import (
	"fmt"

	"github.com/pthm-cable/galaxy/config"
	"github.com/pthm-cable/galaxy/field"
	"github.com/pthm-cable/galaxy/physics"
	"github.com/pthm-cable/galaxy/systems"
)

// FieldParams converts the field config section into generation parameters.
func FieldParams(c config.FieldConfig) (field.GenerationParameters, error) {
	mode, err := field.ParseMode(c.Mode)
	if err != nil {
		return field.GenerationParameters{}, fmt.Errorf("field.mode: %w", err)
	}
	inside, err := field.ParseHex(c.InsideColor)
	if err != nil {
		return field.GenerationParameters{}, fmt.Errorf("field.inside_color: %w", err)
	}
	outside, err := field.ParseHex(c.OutsideColor)
	if err != nil {
		return field.GenerationParameters{}, fmt.Errorf("field.outside_color: %w", err)
	}
	return field.GenerationParameters{
		Mode:            mode,
		Count:           c.Count,
		Radius:          float32(c.Radius),
		Branches:        c.Branches,
		Spin:            float32(c.Spin),
		Randomness:      float32(c.Randomness),
		RandomnessPower: float32(c.RandomnessPower),
		InsideColor:     inside,
		OutsideColor:    outside,
		Size:            float32(c.Size),
		SizeVariation:   float32(c.SizeVariation),
		Seed:            c.Seed,
	}, nil
}

// PhysicsConfig converts the physics config section into a world config.
func PhysicsConfig(c *config.Config) physics.Config {
	p := c.Physics
	return physics.Config{
		Gravity: c.Derived.Gravity,
		Material: physics.Material{
			Friction:    float32(p.Friction),
			Restitution: float32(p.Restitution),
		},
		Iterations:     p.SolverIterations,
		LinearDamping:  float32(p.LinearDamping),
		AngularDamping: float32(p.AngularDamping),
	}
}

// LoopConfig converts the physics config section into a loop config.
func LoopConfig(c *config.Config) systems.LoopConfig {
	return systems.LoopConfig{
		FixedStep:   c.Derived.FixedStep32,
		MaxSubSteps: c.Physics.MaxSubSteps,
	}
}
