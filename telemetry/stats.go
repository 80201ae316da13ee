// Package telemetry provides gas health tracking, bookmarking, and snapshots.
package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// RayleighCV is the coefficient of variation of particle speed in a 2D gas
// at equilibrium, where speeds follow a Rayleigh distribution.
var RayleighCV = math.Sqrt(4/math.Pi - 1)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`
	DT              float64 `csv:"dt"` // time step at window end

	Particles int `csv:"particles"`

	// Events during window
	Ticks       int `csv:"ticks"`
	Collisions  int `csv:"collisions"`
	WallBounces int `csv:"wall_bounces"`
	Migrated    int `csv:"migrated"`
	Settled     int `csv:"settled"`

	CollisionsPerTick float64 `csv:"collisions_per_tick"`

	// Speed distribution (sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedCV   float64 `csv:"speed_cv"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`

	// Energy (unit mass)
	KineticEnergy float64 `csv:"kinetic_energy"`
	EnergyDrift   float64 `csv:"energy_drift"` // relative to the first window

	// Storage
	MaxOccupancy int `csv:"max_occupancy"`
	PoolInUse    int `csv:"pool_in_use"`
	PoolCapacity int `csv:"pool_capacity"`
}

// PoolUsage returns the fraction of pool slots in use.
func (s WindowStats) PoolUsage() float64 {
	if s.PoolCapacity == 0 {
		return 0
	}
	return float64(s.PoolInUse) / float64(s.PoolCapacity)
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// SpeedStats summarises a set of particle speeds.
type SpeedStats struct {
	Mean, Std     float64
	P10, P50, P90 float64
	KineticEnergy float64
}

// ComputeSpeedStats calculates mean, population std, percentiles and total
// kinetic energy. values is sorted in place.
func ComputeSpeedStats(values []float64) SpeedStats {
	if len(values) == 0 {
		return SpeedStats{}
	}

	mean, std := stat.PopMeanStdDev(values, nil)
	sort.Float64s(values)

	return SpeedStats{
		Mean:          mean,
		Std:           std,
		P10:           Percentile(values, 0.10),
		P50:           Percentile(values, 0.50),
		P90:           Percentile(values, 0.90),
		KineticEnergy: 0.5 * floats.Dot(values, values),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Float64("dt", s.DT),
		slog.Int("particles", s.Particles),
		slog.Int("ticks", s.Ticks),
		slog.Int("collisions", s.Collisions),
		slog.Int("wall_bounces", s.WallBounces),
		slog.Int("migrated", s.Migrated),
		slog.Int("settled", s.Settled),
		slog.Float64("collisions_per_tick", s.CollisionsPerTick),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_cv", s.SpeedCV),
		slog.Float64("speed_p10", s.SpeedP10),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("kinetic_energy", s.KineticEnergy),
		slog.Float64("energy_drift", s.EnergyDrift),
		slog.Int("max_occupancy", s.MaxOccupancy),
		slog.Int("pool_in_use", s.PoolInUse),
		slog.Int("pool_capacity", s.PoolCapacity),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"dt", s.DT,
		"particles", s.Particles,
		"ticks", s.Ticks,
		"collisions", s.Collisions,
		"wall_bounces", s.WallBounces,
		"migrated", s.Migrated,
		"collisions_per_tick", s.CollisionsPerTick,
		"speed_mean", s.SpeedMean,
		"speed_std", s.SpeedStd,
		"speed_cv", s.SpeedCV,
		"speed_p50", s.SpeedP50,
		"kinetic_energy", s.KineticEnergy,
		"energy_drift", s.EnergyDrift,
		"max_occupancy", s.MaxOccupancy,
		"pool_in_use", s.PoolInUse,
	)
}
