// Package renderer draws the gas, its walls and the speed histogram with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gas/camera"
	"github.com/pthm-cable/gas/components"
	"github.com/pthm-cable/gas/systems"
)

// OutlineZoom is the zoom at which particles switch from single pixels to
// circle outlines.
const OutlineZoom = 2.5

// ParticleRenderer draws every particle of a gas.
type ParticleRenderer struct {
	Color rl.Color
}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer() *ParticleRenderer {
	return &ParticleRenderer{Color: rl.White}
}

// Draw renders all particles visible through cam.
func (r *ParticleRenderer) Draw(gas *systems.Gas, cam *camera.Camera) {
	outline := cam.Zoom >= OutlineZoom
	radius := float32(components.ParticleRadius) * cam.Zoom
	col := r.Color

	gas.Each(func(x, y float64) {
		wx, wy := float32(x), float32(y)
		if !cam.IsVisible(wx, wy, components.ParticleRadius) {
			return
		}
		sx, sy := cam.WorldToScreen(wx, wy)
		if outline {
			rl.DrawCircleLines(int32(sx), int32(sy), radius, col)
		} else {
			rl.DrawPixel(int32(sx), int32(sy), col)
		}
	})
}
