package ui

import (
	"fmt"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsState is the input the controls panel displays.
type ControlsState struct {
	DT, MinDT, MaxDT float64
	Paused           bool
	HistogramOn      bool
}

// ControlsResult reports what the user changed in the panel this frame.
type ControlsResult struct {
	DT              float64 // new time step; equals the input when unchanged
	TogglePause     bool
	ToggleHistogram bool
	ResetCamera     bool
}

// ControlsPanel renders buttons and a logarithmic time step slider.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// Draw renders the controls panel and returns the user's changes.
func (c *ControlsPanel) Draw(state ControlsState) ControlsResult {
	r := c.renderer
	padding := r.Theme.Padding
	res := ControlsResult{DT: state.DT}

	r.DrawPanel(c.x, c.y, c.width, 150)

	x := float32(c.x + padding)
	y := float32(c.y + padding)
	w := float32(c.width - padding*2)

	r.DrawSectionHeader(int32(x), int32(y), "Controls")
	y += 22

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: w/2 - 4, Height: 24}, toggleText(state.Paused, "Resume", "Pause")) {
		res.TogglePause = true
	}
	if gui.Button(rl.Rectangle{X: x + w/2 + 4, Y: y, Width: w/2 - 4, Height: 24}, toggleText(state.HistogramOn, "Hide histogram", "Show histogram")) {
		res.ToggleHistogram = true
	}
	y += 32

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: w/2 - 4, Height: 24}, "Reset view") {
		res.ResetCamera = true
	}
	y += 32

	rl.DrawText(fmt.Sprintf("dt %.2e", state.DT), int32(x), int32(y), r.Theme.FontSize, r.Theme.LabelColor)
	y += 16
	pos := SliderPosition(state.DT, state.MinDT, state.MaxDT)
	newPos := gui.SliderBar(rl.Rectangle{X: x, Y: y, Width: w, Height: 16}, "", "", pos, 0, 1)
	if newPos != pos {
		res.DT = SliderDT(newPos, state.MinDT, state.MaxDT)
	}

	return res
}

// SliderPosition maps dt in [min, max] to [0, 1] on a log scale.
func SliderPosition(dt, min, max float64) float32 {
	if min <= 0 || max <= min {
		return 0
	}
	p := math.Log(dt/min) / math.Log(max/min)
	return float32(math.Max(0, math.Min(1, p)))
}

// SliderDT is the inverse of SliderPosition.
func SliderDT(pos float32, min, max float64) float64 {
	if min <= 0 || max <= min {
		return min
	}
	p := math.Max(0, math.Min(1, float64(pos)))
	return min * math.Pow(max/min, p)
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
