package telemetry

import (
	"github.com/pthm-cable/gas/systems"
)

// Collector accumulates per-tick counters within time windows and produces
// WindowStats. Windows are measured in simulated seconds because dt can be
// changed while the simulation runs.
type Collector struct {
	windowDurationSec float64

	// Current window tracking
	windowStartTick int32
	windowStartTime float64
	simTime         float64
	dt              float64

	// Event counters for current window
	ticks       int
	collisions  int
	wallBounces int
	migrated    int
	settled     int

	// Kinetic energy of the first flushed window, for drift tracking
	baselineEnergy float64
	hasBaseline    bool

	speeds []float64 // scratch reused across flushes
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
func NewCollector(windowDurationSec float64) *Collector {
	if windowDurationSec <= 0 {
		windowDurationSec = 1
	}
	return &Collector{windowDurationSec: windowDurationSec}
}

// RecordTick adds the counters from one Advance of dt seconds.
func (c *Collector) RecordTick(ts systems.TickStats, dt float64) {
	c.ticks++
	c.collisions += ts.Collisions
	c.wallBounces += ts.WallBounces
	c.migrated += ts.Migrated
	c.settled += ts.Settled
	c.simTime += dt
	c.dt = dt
}

// SimTime returns the total simulated time recorded so far.
func (c *Collector) SimTime() float64 {
	return c.simTime
}

// ShouldFlush returns true once the current window covers enough simulated time.
func (c *Collector) ShouldFlush() bool {
	return c.simTime-c.windowStartTime >= c.windowDurationSec
}

// Flush produces a WindowStats from the window counters and a sample of the
// gas at currentTick, then resets counters for the next window.
func (c *Collector) Flush(currentTick int32, gas *systems.Gas) WindowStats {
	c.speeds = c.speeds[:0]
	for p := range gas.All() {
		c.speeds = append(c.speeds, p.Speed())
	}
	ss := ComputeSpeedStats(c.speeds)

	if !c.hasBaseline && len(c.speeds) > 0 {
		c.baselineEnergy = ss.KineticEnergy
		c.hasBaseline = true
	}
	var drift float64
	if c.baselineEnergy > 0 {
		drift = (ss.KineticEnergy - c.baselineEnergy) / c.baselineEnergy
	}

	var perTick, cv float64
	if c.ticks > 0 {
		perTick = float64(c.collisions) / float64(c.ticks)
	}
	if ss.Mean > 0 {
		cv = ss.Std / ss.Mean
	}

	grid := gas.Grid()
	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      c.simTime,
		DT:              c.dt,

		Particles: len(c.speeds),

		Ticks:       c.ticks,
		Collisions:  c.collisions,
		WallBounces: c.wallBounces,
		Migrated:    c.migrated,
		Settled:     c.settled,

		CollisionsPerTick: perTick,

		SpeedMean: ss.Mean,
		SpeedStd:  ss.Std,
		SpeedCV:   cv,
		SpeedP10:  ss.P10,
		SpeedP50:  ss.P50,
		SpeedP90:  ss.P90,

		KineticEnergy: ss.KineticEnergy,
		EnergyDrift:   drift,

		MaxOccupancy: grid.MaxOccupancy(),
		PoolInUse:    grid.Pool().InUse(),
		PoolCapacity: grid.Pool().Capacity(),
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.windowStartTime = c.simTime
	c.ticks = 0
	c.collisions = 0
	c.wallBounces = 0
	c.migrated = 0
	c.settled = 0

	return stats
}
