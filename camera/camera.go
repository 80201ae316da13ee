// Package camera provides a 2D camera system for viewport control.
package camera

// Default zoom limits.
const (
	DefaultMinZoom = 0.5
	DefaultMaxZoom = 20.0
)

// Camera controls the viewport into the simulation world.
// Supports pan and zoom over a bounded world.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	// Zoom level in screen pixels per world unit
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// World dimensions (for clamping the camera center)
	WorldW, WorldH float32

	// Zoom constraints
	MinZoom, MaxZoom float32

	fitZoom float32 // zoom at which the whole world fits the viewport
}

// New creates a camera centered on the world, zoomed so the whole world fits
// the viewport.
func New(viewportW, viewportH, worldW, worldH float32) *Camera {
	c := &Camera{
		ViewportW: viewportW,
		ViewportH: viewportH,
		WorldW:    worldW,
		WorldH:    worldH,
		MinZoom:   DefaultMinZoom,
		MaxZoom:   DefaultMaxZoom,
	}
	c.fitZoom = fitZoom(viewportW, viewportH, worldW, worldH)
	c.Reset()
	return c
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 + (wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y + (sy-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// IsVisible returns true if a circle at (wx, wy) with given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius
	return absf(wx-c.X) <= halfW && absf(wy-c.Y) <= halfH
}

// Resize updates viewport dimensions and the fit zoom.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.fitZoom = fitZoom(viewportW, viewportH, c.WorldW, c.WorldH)
}

// Pan moves the camera by the given delta in screen pixels. The camera
// center stays inside the world.
func (c *Camera) Pan(dx, dy float32) {
	c.X = clamp(c.X+dx/c.Zoom, 0, c.WorldW)
	c.Y = clamp(c.Y+dy/c.Zoom, 0, c.WorldH)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// ZoomAt multiplies the zoom by factor while keeping the world point under
// screen position (sx, sy) fixed.
func (c *Camera) ZoomAt(sx, sy, factor float32) {
	wx, wy := c.ScreenToWorld(sx, sy)
	c.ZoomBy(factor)
	c.X = clamp(wx-(sx-c.ViewportW/2)/c.Zoom, 0, c.WorldW)
	c.Y = clamp(wy-(sy-c.ViewportH/2)/c.Zoom, 0, c.WorldH)
}

// Reset returns the camera to the world center at the fit zoom.
func (c *Camera) Reset() {
	c.X = c.WorldW / 2
	c.Y = c.WorldH / 2
	c.SetZoom(c.fitZoom)
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area
// clipped to the world. Returns (minX, minY, maxX, maxY).
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)

	minX = clamp(c.X-halfW, 0, c.WorldW)
	maxX = clamp(c.X+halfW, 0, c.WorldW)
	minY = clamp(c.Y-halfH, 0, c.WorldH)
	maxY = clamp(c.Y+halfH, 0, c.WorldH)
	return
}

// fitZoom returns the largest zoom at which the whole world is visible.
func fitZoom(viewportW, viewportH, worldW, worldH float32) float32 {
	if worldW <= 0 || worldH <= 0 {
		return 1
	}
	z := viewportW / worldW
	if zy := viewportH / worldH; zy < z {
		z = zy
	}
	return z
}

// absf returns the absolute value of a float32.
func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
