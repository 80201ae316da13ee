package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gas/systems"
)

// HistogramRenderer draws speed histogram bars along the bottom-left of the
// screen.
type HistogramRenderer struct {
	BarWidth int32
	Color    rl.Color

	heights []int32
}

// NewHistogramRenderer creates a histogram renderer with 4 pixel bars.
func NewHistogramRenderer() *HistogramRenderer {
	return &HistogramRenderer{
		BarWidth: 4,
		Color:    rl.Color{R: 255, G: 99, B: 99, A: 255},
	}
}

// BarHeights scales bin counts so that a bin holding the whole population
// is 1000 pixels tall. dst is reused when it has room.
func BarHeights(dst []int32, bins []int, population int) []int32 {
	dst = dst[:0]
	if population <= 0 {
		for range bins {
			dst = append(dst, 0)
		}
		return dst
	}
	scale := 1000 / float64(population)
	for _, n := range bins {
		dst = append(dst, int32(float64(n)*scale))
	}
	return dst
}

// Draw renders the bars of h for a gas of the given population.
func (r *HistogramRenderer) Draw(h *systems.Histogram, population int, screenH int32) {
	r.heights = BarHeights(r.heights, h.Bins(), population)
	for i, bh := range r.heights {
		if bh <= 0 {
			continue
		}
		rl.DrawRectangle(int32(i)*r.BarWidth, screenH-bh, r.BarWidth, bh, r.Color)
	}
}
