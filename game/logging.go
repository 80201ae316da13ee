package game

import (
	"log/slog"
)

// logSummary logs the final state of the run.
func (g *Game) logSummary() {
	grid := g.gas.Grid()
	resX, resY := grid.Res()
	attrs := []any{
		"tick", g.tick,
		"sim_time", g.collector.SimTime(),
		"dt", g.dt,
		"particles", g.gas.Count(),
		"grid", []int{resX, resY},
		"max_occupancy", grid.MaxOccupancy(),
		"pool_in_use", grid.Pool().InUse(),
	}
	if g.lastStats.Ticks > 0 {
		attrs = append(attrs,
			"speed_cv", g.lastStats.SpeedCV,
			"kinetic_energy", g.lastStats.KineticEnergy,
			"energy_drift", g.lastStats.EnergyDrift,
		)
	}
	if g.outputManager != nil {
		attrs = append(attrs, "output_dir", g.outputManager.Dir())
	}
	slog.Info("run summary", attrs...)
}
