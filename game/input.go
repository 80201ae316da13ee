package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gas/ui"
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	// Window resize propagation
	g.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.TogglePause()
	}

	// Time step: scaled every frame while held
	if rl.IsKeyDown(rl.KeyUp) {
		g.scaleDT(g.cfg.Physics.DTStep)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.scaleDT(1 / g.cfg.Physics.DTStep)
	}

	if rl.IsKeyPressed(rl.KeyS) {
		g.saveSnapshot(nil)
	}

	// Overlay toggles
	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		if id, on, ok := g.overlays.HandleKeyPress(key); ok && id == ui.OverlayHistogram {
			g.gas.SetHistogramEnabled(on)
		}
	}

	// Camera controls
	g.handleCameraInput()

	g.updateHover(rl.GetMousePosition())
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.camera.Resize(w, h)
	g.perfPanel.SetPosition(int32(w)-270, 40)
	g.controlsPanel.SetPosition(int32(w)-270, 40)
}

// handleCameraInput processes camera pan/zoom controls.
func (g *Game) handleCameraInput() {
	// Right click pins a cell in the inspector
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		m := rl.GetMousePosition()
		if !g.inspector.HandleClick(m.X, m.Y) && !g.overPanel(m) {
			wx, wy := g.camera.ScreenToWorld(m.X, m.Y)
			g.inspector.Select(g.gas.Grid(), float64(wx), float64(wy))
		}
	}

	// Drag with the left or middle button to pan
	if rl.IsMouseButtonDown(rl.MouseButtonLeft) || rl.IsMouseButtonDown(rl.MouseButtonMiddle) {
		m := rl.GetMousePosition()
		if !g.overPanel(m) && !g.inspector.HandleClick(m.X, m.Y) {
			d := rl.GetMouseDelta()
			g.camera.Pan(-d.X, -d.Y)
		}
	}

	// Zoom toward/away from cursor position
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		m := rl.GetMousePosition()
		g.camera.ZoomAt(m.X, m.Y, 1+wheel*0.1)
	}

	// Keyboard zoom with +/- (= and - keys)
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}

	// Home key to reset camera
	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}

// overPanel reports whether the cursor is over the controls panel, where
// clicks belong to raygui.
func (g *Game) overPanel(m rl.Vector2) bool {
	if !g.overlays.IsEnabled(ui.OverlayControls) {
		return false
	}
	return m.X >= g.screenWidth-270 && m.Y >= 40 && m.Y <= 190
}
