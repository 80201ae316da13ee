package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gas/camera"
	"github.com/pthm-cable/gas/components"
	"github.com/pthm-cable/gas/systems"
)

// WallOutlineZoom is the zoom at which wall spheres switch from pixels to
// circle outlines.
const WallOutlineZoom = 1.5

// WallNormalLength is the world length of the surface normal drawn from
// each sphere when outlines are shown.
const WallNormalLength = 3

// WallRenderer draws the sphere samples of static walls.
type WallRenderer struct {
	points  []rl.Vector2 // sphere centres in world coordinates
	normals []rl.Vector2 // normal tips in world coordinates
	radius  float32
	Color   rl.Color
}

// NewWallRenderer captures the sphere positions of walls. A nil wall system
// yields a renderer that draws nothing.
func NewWallRenderer(walls *systems.WallSystem) *WallRenderer {
	r := &WallRenderer{Color: rl.Color{R: 50, G: 255, B: 25, A: 255}}
	if walls == nil {
		return r
	}
	r.radius = float32(walls.Radius())
	r.points = make([]rl.Vector2, 0, walls.Count())
	r.normals = make([]rl.Vector2, 0, walls.Count())
	walls.Each(func(ws *components.WallSphere) {
		r.points = append(r.points, rl.Vector2{X: float32(ws.Pos.X), Y: float32(ws.Pos.Y)})
		r.normals = append(r.normals, normalTip(ws))
	})
	return r
}

// Draw renders wall spheres visible through cam.
func (r *WallRenderer) Draw(cam *camera.Camera) {
	outline := cam.Zoom >= WallOutlineZoom
	radius := r.radius * cam.Zoom
	for i, p := range r.points {
		if !cam.IsVisible(p.X, p.Y, r.radius) {
			continue
		}
		sx, sy := cam.WorldToScreen(p.X, p.Y)
		if outline {
			rl.DrawCircleLines(int32(sx), int32(sy), radius, r.Color)
			tx, ty := cam.WorldToScreen(r.normals[i].X, r.normals[i].Y)
			rl.DrawLine(int32(sx), int32(sy), int32(tx), int32(ty), r.Color)
		} else {
			rl.DrawPixel(int32(sx), int32(sy), r.Color)
		}
	}
}

// normalTip returns the end of the normal line drawn from ws.
func normalTip(ws *components.WallSphere) rl.Vector2 {
	return rl.Vector2{
		X: float32(ws.Pos.X + WallNormalLength*ws.Normal.X),
		Y: float32(ws.Pos.Y + WallNormalLength*ws.Normal.Y),
	}
}
