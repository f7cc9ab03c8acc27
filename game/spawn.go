package game

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/galaxy/systems"
)

// SpawnSphere drops a sphere of the given radius at pos.
func (g *Game) SpawnSphere(radius float32, pos mgl32.Vec3) (systems.EntityHandle, error) {
	return g.registry.Spawn(systems.SphereDescriptor(radius, float32(g.cfg.Spawn.Mass)), pos)
}

// SpawnBox drops a box with the given edge lengths at pos.
func (g *Game) SpawnBox(size mgl32.Vec3, pos mgl32.Vec3) (systems.EntityHandle, error) {
	return g.registry.Spawn(systems.BoxDescriptor(size, float32(g.cfg.Spawn.Mass)), pos)
}

// SpawnRandomSphere drops a sphere of random radius above a random point.
func (g *Game) SpawnRandomSphere() (systems.EntityHandle, error) {
	s := g.cfg.Spawn
	radius := g.randomDimension(s.MaxRadius)
	return g.SpawnSphere(radius, g.randomDropPoint())
}

// SpawnRandomBox drops a box of random size above a random point.
func (g *Game) SpawnRandomBox() (systems.EntityHandle, error) {
	s := g.cfg.Spawn
	size := mgl32.Vec3{
		g.randomDimension(s.MaxBoxSize),
		g.randomDimension(s.MaxBoxSize),
		g.randomDimension(s.MaxBoxSize),
	}
	return g.SpawnBox(size, g.randomDropPoint())
}

// SpawnRandom drops a random sphere or box.
func (g *Game) SpawnRandom() (systems.EntityHandle, error) {
	if g.rng.Float64() < g.cfg.Spawn.BoxProbability {
		return g.SpawnRandomBox()
	}
	return g.SpawnRandomSphere()
}

// Reset removes every spawned object.
func (g *Game) Reset() error {
	n := g.registry.Len()
	err := g.registry.Clear()
	slog.Info("scene reset", "removed", n, "tick", g.tick)
	return err
}

// randomDimension returns U·max, clamped below by the configured minimum.
func (g *Game) randomDimension(max float64) float32 {
	return float32(maxf(g.rng.Float64()*max, g.cfg.Spawn.MinDimension))
}

// randomDropPoint returns ((U-0.5)·spread, height, (U-0.5)·spread).
func (g *Game) randomDropPoint() mgl32.Vec3 {
	s := g.cfg.Spawn
	return mgl32.Vec3{
		float32((g.rng.Float64() - 0.5) * s.Spread),
		float32(s.Height),
		float32((g.rng.Float64() - 0.5) * s.Spread),
	}
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
