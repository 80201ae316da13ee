package game

import (
	"github.com/pthm-cable/gas/telemetry"
	"github.com/pthm-cable/gas/ui"
)

// Update handles input and runs stepsPerUpdate ticks unless paused.
func (g *Game) Update() {
	g.handleInput()

	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.simulationStep()
	}
}

// UpdateHeadless runs stepsPerUpdate ticks without input handling.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.simulationStep()
	}
}

// simulationStep runs a single tick of the gas and its telemetry.
func (g *Game) simulationStep() {
	g.perfCollector.StartTick()

	g.gas.Advance(g.dt)
	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.collector.RecordTick(g.gas.LastTick(), g.dt)
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// scaleDT multiplies the time step by factor, clamped to the configured range.
func (g *Game) scaleDT(factor float64) {
	g.setDT(g.dt * factor)
}

// setDT sets the time step, clamped to the configured range.
func (g *Game) setDT(dt float64) {
	g.dt = g.cfg.ClampDT(dt)
}

// setHistogram turns speed histogram sampling on or off and keeps the
// overlay in step.
func (g *Game) setHistogram(on bool) {
	g.gas.SetHistogramEnabled(on)
	if g.overlays != nil {
		g.overlays.SetEnabled(ui.OverlayHistogram, on)
	}
}

// TogglePause pauses or resumes the simulation.
func (g *Game) TogglePause() {
	g.paused = !g.paused
}
