package game

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gas/systems"
	"github.com/pthm-cable/gas/telemetry"
	"github.com/pthm-cable/gas/ui"
)

// timedPhases lists the phases shown in the perf panel, in tick order.
var timedPhases = []string{
	systems.PhaseIntegrate,
	systems.PhaseMigrate,
	systems.PhaseWalls,
	systems.PhaseCollide,
	systems.PhaseSettle,
	systems.PhaseHistogram,
	telemetry.PhaseTelemetry,
}

// drawOverlays renders the HUD and the optional panels.
func (g *Game) drawOverlays() {
	if g.overlays.IsEnabled(ui.OverlayHUD) {
		last := g.gas.LastTick()
		g.hud.Draw(ui.HUDData{
			Title:       "Ideal Gas",
			Particles:   g.gas.Population(),
			Tick:        g.tick,
			SimTime:     g.collector.SimTime(),
			DT:          g.dt,
			FPS:         rl.GetFPS(),
			Paused:      g.paused,
			Collisions:  last.Collisions,
			WallBounces: last.WallBounces,
			SpeedMean:   g.lastStats.SpeedMean,
			SpeedCV:     g.lastStats.SpeedCV,
			Zoom:        g.camera.Zoom,
		})
		g.hud.DrawControls(int32(g.screenWidth), int32(g.screenHeight), controlsLegend)
	}

	if g.overlays.IsEnabled(ui.OverlayPerf) {
		stats := g.perfCollector.Stats()
		g.perfPanel.Draw(ui.PerfPanelData{
			Phases:         timedPhases,
			PhasePct:       stats.PhasePct,
			AvgTick:        stats.AvgTickDuration,
			TicksPerSecond: stats.TicksPerSecond,
		})
	}

	if g.overlays.IsEnabled(ui.OverlayControls) {
		res := g.controlsPanel.Draw(ui.ControlsState{
			DT:          g.dt,
			MinDT:       g.cfg.Physics.MinDT,
			MaxDT:       g.cfg.Physics.MaxDT,
			Paused:      g.paused,
			HistogramOn: g.gas.HistogramEnabled(),
		})
		g.applyControls(res)
	}
}

// applyControls applies changes made through the controls panel.
func (g *Game) applyControls(res ui.ControlsResult) {
	if res.TogglePause {
		g.TogglePause()
	}
	if res.ToggleHistogram {
		g.setHistogram(!g.gas.HistogramEnabled())
	}
	if res.ResetCamera && g.camera != nil {
		g.camera.Reset()
	}
	if res.DT != g.dt {
		g.setDT(res.DT)
	}
}

// hoverLabel formats the hovered cell for display.
func hoverLabel(h cellHover) string {
	return fmt.Sprintf("(%.1f, %.1f) cell %d,%d: %d", h.wx, h.wy, h.cx, h.cy, h.count)
}
