package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gas/ui"
)

// Draw renders the game.
func (g *Game) Draw() {
	g.perfCollector.RecordFrame()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	if g.overlays.IsEnabled(ui.OverlayWalls) {
		g.wallRenderer.Draw(g.camera)
	}
	g.particleRenderer.Draw(g.gas, g.camera)

	if g.gas.HistogramEnabled() {
		g.histogramRenderer.Draw(g.gas.Histogram(), g.gas.Population(), int32(g.screenHeight))
	}

	g.drawHover()
	g.drawOverlays()
	g.drawInspector()

	rl.EndDrawing()
}
