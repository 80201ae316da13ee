// Package inspector draws a panel describing a pinned grid cell and the
// particles stored in it. Struct fields are laid out by reflection from
// their inspect tags.
package inspector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gas/systems"
)

// Panel dimensions
const (
	PanelWidth   = 260
	PanelPadding = 10
	HeaderHeight = 26

	// MaxListed caps the particles listed for one cell.
	MaxListed = 3
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorCloseBtn    = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorSelection   = rl.Color{R: 0, G: 220, B: 255, A: 200}
)

// Inspector tracks the pinned cell and renders its panel.
type Inspector struct {
	selected bool
	cx, cy   int
	panelX   int32
	panelY   int32
	height   int32 // height of the last drawn panel

	cell      CellView
	particles []ParticleView
}

// NewInspector creates an inspector whose panel sits at (x, y).
func NewInspector(x, y int32) *Inspector {
	return &Inspector{panelX: x, panelY: y}
}

// SetPosition moves the panel.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.panelX = x
	ins.panelY = y
}

// Select pins the cell containing world position (wx, wy). Positions outside
// the world clear the selection. Returns whether a cell is now selected.
func (ins *Inspector) Select(grid *systems.SpatialGrid, wx, wy float64) bool {
	c, ok := grid.LookupPosition(wx, wy)
	if !ok {
		ins.Deselect()
		return false
	}
	ins.cx, ins.cy = grid.Coords(c)
	ins.selected = true
	return true
}

// Deselect clears the selection.
func (ins *Inspector) Deselect() {
	ins.selected = false
	ins.cell = CellView{}
	ins.particles = nil
}

// Selected returns the pinned cell coordinates.
func (ins *Inspector) Selected() (cx, cy int, ok bool) {
	return ins.cx, ins.cy, ins.selected
}

// Refresh re-reads the pinned cell. Particles move between cells every tick,
// so it runs once per frame.
func (ins *Inspector) Refresh(grid *systems.SpatialGrid, meanSpeed float64) {
	if !ins.selected {
		return
	}
	ins.cell, ins.particles = Collect(grid, ins.cx, ins.cy, MaxListed, meanSpeed)
}

// HandleClick reports whether a click at screen position (mx, my) belongs to
// the panel. A click on the close button also deselects.
func (ins *Inspector) HandleClick(mx, my float32) bool {
	if !ins.selected {
		return false
	}
	x, y := int32(mx), int32(my)

	closeX := ins.panelX + PanelWidth - 22
	closeY := ins.panelY + 4
	if x >= closeX && x <= closeX+18 && y >= closeY && y <= closeY+18 {
		ins.Deselect()
		return true
	}
	return x >= ins.panelX && x <= ins.panelX+PanelWidth &&
		y >= ins.panelY && y <= ins.panelY+ins.height
}

// Draw renders the panel when a cell is pinned.
func (ins *Inspector) Draw() {
	if !ins.selected {
		return
	}

	x := ins.panelX
	y := ins.panelY
	height := ins.height
	if height == 0 {
		height = HeaderHeight
	}

	rl.DrawRectangle(x, y, PanelWidth, height, ColorPanelBg)
	rl.DrawRectangleLines(x, y, PanelWidth, height, ColorPanelBorder)

	rl.DrawRectangle(x, y, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText(fmt.Sprintf("Cell %d,%d", ins.cx, ins.cy), x+PanelPadding, y+6, 16, ColorHeaderText)

	closeX := x + PanelWidth - 22
	rl.DrawRectangle(closeX, y+4, 18, 18, ColorCloseBtn)
	rl.DrawText("x", closeX+5, y+5, 16, ColorHeaderText)

	cy := y + HeaderHeight + 6
	for _, f := range ExtractFields(ins.cell) {
		cy += DrawField(x+PanelPadding, cy, f)
	}

	for i := range ins.particles {
		cy += 4
		rl.DrawLine(x+PanelPadding, cy, x+PanelWidth-PanelPadding, cy, ColorPanelBorder)
		cy += 4
		for _, f := range ExtractFields(&ins.particles[i]) {
			cy += DrawField(x+PanelPadding, cy, f)
		}
	}
	if hidden := ins.cell.Particles - len(ins.particles); hidden > 0 {
		rl.DrawText(fmt.Sprintf("+%d more", hidden), x+PanelPadding, cy+4, 14, ColorTextDim)
		cy += 20
	}

	ins.height = cy - y + PanelPadding
}

// DrawSelection outlines the pinned cell given its screen rectangle.
func (ins *Inspector) DrawSelection(sx, sy, w, h float32) {
	if !ins.selected {
		return
	}
	rl.DrawRectangleLinesEx(rl.Rectangle{X: sx, Y: sy, Width: w, Height: h}, 2, ColorSelection)
}
