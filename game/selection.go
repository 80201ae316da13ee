package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gas/systems"
)

// cellHover describes the grid cell under the cursor.
type cellHover struct {
	valid  bool
	wx, wy float64 // world position of the cursor
	cx, cy int     // cell coordinates
	count  int     // particles stored in the cell
}

// inspectCell returns the cell containing world position (wx, wy).
// Positions outside the world yield an invalid hover.
func inspectCell(grid *systems.SpatialGrid, wx, wy float64) cellHover {
	c, ok := grid.LookupPosition(wx, wy)
	if !ok {
		return cellHover{}
	}
	cx, cy := grid.Coords(c)
	return cellHover{
		valid: true,
		wx:    wx,
		wy:    wy,
		cx:    cx,
		cy:    cy,
		count: grid.CountInCell(c),
	}
}

// updateHover refreshes the hovered cell from the mouse position.
func (g *Game) updateHover(m rl.Vector2) {
	wx, wy := g.camera.ScreenToWorld(m.X, m.Y)
	g.hover = inspectCell(g.gas.Grid(), float64(wx), float64(wy))
}

// drawHover outlines the hovered cell and labels its occupancy.
func (g *Game) drawHover() {
	if !g.hover.valid {
		return
	}
	cw, ch := g.gas.Grid().CellSize()
	x0, y0 := g.camera.WorldToScreen(float32(float64(g.hover.cx)*cw), float32(float64(g.hover.cy)*ch))
	w := float32(cw) * g.camera.Zoom
	h := float32(ch) * g.camera.Zoom
	if w >= 4 {
		rl.DrawRectangleLines(int32(x0), int32(y0), int32(w), int32(h), rl.Color{R: 255, G: 255, B: 0, A: 160})
	}

	m := rl.GetMousePosition()
	rl.DrawText(hoverLabel(g.hover), int32(m.X)+12, int32(m.Y)+12, 12, rl.Yellow)
}

// drawInspector refreshes the pinned cell, outlines it and draws its panel.
func (g *Game) drawInspector() {
	grid := g.gas.Grid()
	g.inspector.Refresh(grid, g.lastStats.SpeedMean)

	cx, cy, ok := g.inspector.Selected()
	if !ok {
		return
	}
	cw, ch := grid.CellSize()
	sx, sy := g.camera.WorldToScreen(float32(float64(cx)*cw), float32(float64(cy)*ch))
	g.inspector.DrawSelection(sx, sy, float32(cw)*g.camera.Zoom, float32(ch)*g.camera.Zoom)
	g.inspector.Draw()
}
