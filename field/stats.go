package field

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the spatial spread of a field.
type Summary struct {
	Count      int
	MeanRadius float64 // planar distance sqrt(x²+z²)
	StdRadius  float64
	MaxRadius  float64
	MinY       float64
	MaxY       float64
}

// Summarize computes planar radius and height statistics for f.
func Summarize(f *ParticleField) Summary {
	n := f.Count()
	if n == 0 {
		return Summary{}
	}

	radii := make([]float64, n)
	heights := make([]float64, n)
	for i := 0; i < n; i++ {
		x, y, z := f.Position(i)
		radii[i] = math.Hypot(float64(x), float64(z))
		heights[i] = float64(y)
	}

	mean, std := stat.MeanStdDev(radii, nil)
	if n == 1 {
		std = 0
	}
	return Summary{
		Count:      n,
		MeanRadius: mean,
		StdRadius:  std,
		MaxRadius:  floats.Max(radii),
		MinY:       floats.Min(heights),
		MaxY:       floats.Max(heights),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("count", s.Count),
		slog.Float64("mean_radius", s.MeanRadius),
		slog.Float64("std_radius", s.StdRadius),
		slog.Float64("max_radius", s.MaxRadius),
		slog.Float64("min_y", s.MinY),
		slog.Float64("max_y", s.MaxY),
	)
}
