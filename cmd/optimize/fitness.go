package main

import (
	"math"
	"sync"
	"time"

	"github.com/pthm-cable/gas/config"
	"github.com/pthm-cable/gas/game"
	"github.com/pthm-cable/gas/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxSimTime float64 // simulated seconds before a run is cut off
	seeds      []uint64
	baseConfig *config.Config

	mu         sync.Mutex
	lastResult runSummary // averaged over seeds, from the most recent Evaluate
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxSimTime float64, seeds []uint64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxSimTime: maxSimTime,
		seeds:      seeds,
		baseConfig: baseCfg,
	}
}

// runSummary holds the measurements from one simulation run.
type runSummary struct {
	EquilibriumSec float64 // simulated seconds until equilibrium, or maxSimTime
	WallSec        float64 // wall clock seconds spent reaching it
	Drift          float64 // largest |energy drift| seen
	Reached        bool
}

// LastResult returns the seed-averaged summary of the most recent evaluation.
func (fe *FitnessEvaluator) LastResult() runSummary {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastResult
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]runSummary, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s uint64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(x, s)
		}(i, seed)
	}
	wg.Wait()

	var avg runSummary
	var total float64
	reached := 0
	for _, r := range results {
		total += fe.computeFitness(r)
		avg.EquilibriumSec += r.EquilibriumSec
		avg.WallSec += r.WallSec
		avg.Drift = math.Max(avg.Drift, r.Drift)
		if r.Reached {
			reached++
		}
	}
	n := float64(len(results))
	avg.EquilibriumSec /= n
	avg.WallSec /= n
	avg.Reached = reached == len(results)

	fe.mu.Lock()
	fe.lastResult = avg
	fe.mu.Unlock()

	return total / n
}

// runSimulation executes a single headless run until the speed distribution
// settles on the Rayleigh shape for the configured number of windows.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed uint64) runSummary {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	need := cfg.Bookmarks.EquilibriumWindows
	if need < 1 {
		need = 1
	}
	tol := cfg.Bookmarks.EquilibriumTolerance

	var res runSummary
	streak := 0
	g, err := game.NewGameWithOptions(game.Options{
		Seed:           seed,
		Headless:       true,
		StepsPerUpdate: 1,
		Config:         cfg,
		StatsCallback: func(s telemetry.WindowStats) {
			res.Drift = math.Max(res.Drift, math.Abs(s.EnergyDrift))
			if math.Abs(s.SpeedCV-telemetry.RayleighCV) <= tol {
				streak++
			} else {
				streak = 0
			}
			if streak >= need && !res.Reached {
				res.Reached = true
				res.EquilibriumSec = s.SimTimeSec
			}
		},
	})
	if err != nil {
		return runSummary{EquilibriumSec: fe.maxSimTime, WallSec: math.Inf(1)}
	}
	defer g.Unload()

	start := time.Now()
	var simTime float64
	for !res.Reached && simTime < fe.maxSimTime {
		g.UpdateHeadless()
		simTime += g.DT()
	}
	res.WallSec = time.Since(start).Seconds()
	if !res.Reached {
		res.EquilibriumSec = fe.maxSimTime
	}
	return res
}

// copyConfig returns a copy of the base config. Config holds only values,
// so a struct copy is deep enough.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// Fitness weights.
const (
	unreachedPenalty = 4.0  // multiplier for runs that never settle
	driftWeight      = 10.0 // per unit of relative energy drift
)

// computeFitness calculates the scalar fitness (lower = better).
// Formula: wall seconds to equilibrium × (1 + driftWeight × drift), scaled
// up when equilibrium is never reached.
func (fe *FitnessEvaluator) computeFitness(r runSummary) float64 {
	f := r.WallSec * (1 + driftWeight*r.Drift)
	if !r.Reached {
		f *= unreachedPenalty
	}
	return f
}
