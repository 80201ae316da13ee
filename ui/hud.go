package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title       string
	Particles   int
	Tick        int32
	SimTime     float64
	DT          float64
	FPS         int32
	Paused      bool
	Collisions  int // during the last tick
	WallBounces int
	SpeedMean   float64 // from the last stats window
	SpeedCV     float64
	Zoom        float32
}

// HUD renders the main heads-up display.
type HUD struct{}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	// Title
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Particles: %d | Tick: %d | Time: %.3fs | dt: %.2e", data.Particles, data.Tick, data.SimTime, data.DT),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Collisions/tick: %d | Wall bounces: %d | Zoom: %.2fx", data.Collisions, data.WallBounces, data.Zoom),
		10, 55, 16, rl.LightGray,
	)
	if data.SpeedMean > 0 {
		rl.DrawText(
			fmt.Sprintf("Mean speed: %.1f | Speed CV: %.3f", data.SpeedMean, data.SpeedCV),
			10, 75, 16, rl.LightGray,
		)
	}

	if data.Paused {
		rl.DrawText("PAUSED", 10, 95, 16, rl.Yellow)
	}

	// FPS top right
	fps := fmt.Sprintf("FPS: %d", data.FPS)
	rl.DrawText(fps, int32(rl.GetScreenWidth())-rl.MeasureText(fps, 16)-10, 10, 16, rl.White)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	w := rl.MeasureText(controls, 14)
	rl.DrawText(controls, screenWidth-w-10, screenHeight-25, 14, rl.Gray)
}

// PerfPanelData holds performance metrics for display.
type PerfPanelData struct {
	Phases         []string           // display order
	PhasePct       map[string]float64 // share of tick time
	AvgTick        time.Duration
	TicksPerSecond float64
}

// PerfPanel renders the per-phase timing panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y, width int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(data PerfPanelData) {
	r := p.renderer
	padding := r.Theme.Padding
	height := padding*2 + r.Theme.LineHeight*2 + int32(len(data.Phases))*(r.Theme.LineHeight+2)
	r.DrawPanel(p.x, p.y, p.width, height)

	x := p.x + padding
	y := p.y + padding

	y = r.DrawSectionHeader(x, y, "Phase Timing")
	y = r.DrawLabelValue(x, y, "Tick", fmt.Sprintf("%s (%.0f/s)", data.AvgTick.Round(time.Microsecond), data.TicksPerSecond))

	for _, phase := range data.Phases {
		y = r.DrawBar(x, y, phase, data.PhasePct[phase], 40, p.width-padding*2)
	}
}
