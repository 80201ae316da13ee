package telemetry

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/gas/components"
	"github.com/pthm-cable/gas/systems"
)

func TestCollector_WindowBySimTime(t *testing.T) {
	c := NewCollector(0.01)

	for i := 0; i < 3; i++ {
		c.RecordTick(systems.TickStats{}, 0.0025)
	}
	if c.ShouldFlush() {
		t.Error("window should not be complete after 0.0075s")
	}
	c.RecordTick(systems.TickStats{}, 0.0025)
	if !c.ShouldFlush() {
		t.Error("window should be complete after 0.01s")
	}
	if math.Abs(c.SimTime()-0.01) > 1e-12 {
		t.Errorf("SimTime = %v, want 0.01", c.SimTime())
	}
}

func TestCollector_DefaultWindow(t *testing.T) {
	c := NewCollector(0)
	c.RecordTick(systems.TickStats{}, 0.5)
	if c.ShouldFlush() {
		t.Error("default window is one second")
	}
	c.RecordTick(systems.TickStats{}, 0.5)
	if !c.ShouldFlush() {
		t.Error("expected flush after one second")
	}
}

func TestCollector_Flush(t *testing.T) {
	gas, err := systems.NewEmptyGas(40, 40, 20, 4, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	gas.Add(components.Particle{Pos: r2.Vec{X: 5, Y: 5}, Vel: r2.Vec{X: 3, Y: 4}})
	gas.Add(components.Particle{Pos: r2.Vec{X: 30, Y: 30}, Vel: r2.Vec{X: 0, Y: 5}})

	c := NewCollector(1)
	c.RecordTick(systems.TickStats{Collisions: 4, WallBounces: 1, Migrated: 2}, 0.5)
	c.RecordTick(systems.TickStats{Collisions: 2, Settled: 1}, 0.25)

	stats := c.Flush(2, gas)

	if stats.Ticks != 2 {
		t.Errorf("Ticks = %d, want 2", stats.Ticks)
	}
	if stats.Collisions != 6 || stats.WallBounces != 1 || stats.Migrated != 2 || stats.Settled != 1 {
		t.Errorf("counters = %+v", stats)
	}
	if stats.CollisionsPerTick != 3 {
		t.Errorf("CollisionsPerTick = %v, want 3", stats.CollisionsPerTick)
	}
	if stats.DT != 0.25 {
		t.Errorf("DT = %v, want last dt 0.25", stats.DT)
	}
	if stats.Particles != 2 {
		t.Errorf("Particles = %d, want 2", stats.Particles)
	}
	if math.Abs(stats.SpeedMean-5) > 1e-9 || stats.SpeedStd > 1e-9 {
		t.Errorf("speed mean/std = %v/%v, want 5/0", stats.SpeedMean, stats.SpeedStd)
	}
	if math.Abs(stats.KineticEnergy-25) > 1e-9 {
		t.Errorf("KineticEnergy = %v, want 25", stats.KineticEnergy)
	}
	if stats.EnergyDrift != 0 {
		t.Errorf("first window drift = %v, want 0", stats.EnergyDrift)
	}
	if stats.PoolCapacity != 4 {
		t.Errorf("PoolCapacity = %d, want 4", stats.PoolCapacity)
	}
	if stats.MaxOccupancy != 1 {
		t.Errorf("MaxOccupancy = %d, want 1", stats.MaxOccupancy)
	}

	// Counters reset; the next window starts at tick 2.
	c.RecordTick(systems.TickStats{Collisions: 1}, 0.25)
	next := c.Flush(3, gas)
	if next.WindowStartTick != 2 || next.Ticks != 1 || next.Collisions != 1 {
		t.Errorf("second window = start %d ticks %d collisions %d", next.WindowStartTick, next.Ticks, next.Collisions)
	}
}

func TestCollector_EnergyDrift(t *testing.T) {
	gas, err := systems.NewEmptyGas(40, 40, 20, 4, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	gas.Add(components.Particle{Pos: r2.Vec{X: 5, Y: 5}, Vel: r2.Vec{X: 4, Y: 0}})

	c := NewCollector(1)
	c.RecordTick(systems.TickStats{}, 1)
	c.Flush(1, gas)

	// A second particle doubles the kinetic energy.
	gas.Add(components.Particle{Pos: r2.Vec{X: 30, Y: 30}, Vel: r2.Vec{X: 0, Y: 4}})
	c.RecordTick(systems.TickStats{}, 1)
	stats := c.Flush(2, gas)
	if math.Abs(stats.EnergyDrift-1) > 1e-9 {
		t.Errorf("EnergyDrift = %v, want 1", stats.EnergyDrift)
	}
}
