package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/galaxy/config"
	"github.com/pthm-cable/galaxy/field"
	"github.com/pthm-cable/galaxy/game"
)

// Target holds the distribution statistics a field should reproduce.
// Zero fields are ignored.
type Target struct {
	MeanRadius float64
	StdRadius  float64
	Thickness  float64 // max_y - min_y
}

// FitnessEvaluator generates fields and scores them against a target.
type FitnessEvaluator struct {
	params     *ParamVector
	seeds      []int64
	count      int
	baseConfig *config.Config
	target     Target

	mu          sync.Mutex
	bestFitness float64
	bestSummary field.Summary
	lastSummary field.Summary
}

// NewFitnessEvaluator creates a new evaluator. count overrides the particle
// count of every generated field.
func NewFitnessEvaluator(params *ParamVector, seeds []int64, count int, baseCfg *config.Config, target Target) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		seeds:       seeds,
		count:       count,
		baseConfig:  baseCfg,
		target:      target,
		bestFitness: math.Inf(1),
	}
}

// LastSummary returns the seed-averaged summary of the most recent evaluation.
func (fe *FitnessEvaluator) LastSummary() field.Summary {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSummary
}

// BestSummary returns the seed-averaged summary of the best evaluation.
func (fe *FitnessEvaluator) BestSummary() field.Summary {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestSummary
}

// Evaluate computes fitness for a parameter vector (lower = better): the
// summed squared relative error against the target, averaged over seeds.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)
	base, err := game.FieldParams(cfg.Field)
	if err != nil {
		return math.Inf(1)
	}
	base.Count = fe.count

	// Run all seeds in parallel; each has its own generator
	summaries := make([]field.Summary, len(fe.seeds))
	failed := make([]bool, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			p := base
			p.Seed = s
			gen := field.NewGenerator(0)
			f, err := gen.Generate(p)
			if err != nil {
				failed[idx] = true
				return
			}
			summaries[idx] = field.Summarize(f)
			gen.Release()
		}(i, seed)
	}
	wg.Wait()

	var avg field.Summary
	for i, s := range summaries {
		if failed[i] {
			return math.Inf(1)
		}
		avg.Count += s.Count
		avg.MeanRadius += s.MeanRadius
		avg.StdRadius += s.StdRadius
		avg.MaxRadius += s.MaxRadius
		avg.MinY += s.MinY
		avg.MaxY += s.MaxY
	}
	n := float64(len(fe.seeds))
	avg.Count = int(float64(avg.Count) / n)
	avg.MeanRadius /= n
	avg.StdRadius /= n
	avg.MaxRadius /= n
	avg.MinY /= n
	avg.MaxY /= n

	fitness := fe.score(avg)

	fe.mu.Lock()
	fe.lastSummary = avg
	if fitness < fe.bestFitness {
		fe.bestFitness = fitness
		fe.bestSummary = avg
	}
	fe.mu.Unlock()

	return fitness
}

// score sums the squared relative errors of the targeted statistics.
func (fe *FitnessEvaluator) score(s field.Summary) float64 {
	var total float64
	add := func(got, want float64) {
		if want == 0 {
			return
		}
		rel := (got - want) / want
		total += rel * rel
	}
	add(s.MeanRadius, fe.target.MeanRadius)
	add(s.StdRadius, fe.target.StdRadius)
	add(s.MaxY-s.MinY, fe.target.Thickness)
	return total
}

// copyConfig returns a copy of the base config that is safe to mutate.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	cfg.Physics.Gravity = append([]float64(nil), fe.baseConfig.Physics.Gravity...)
	return &cfg
}
