package systems

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aquilax/go-perlin"
	"golang.org/x/image/bmp"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/gas/components"
)

// wallThreshold is the green-channel level above which a mask pixel is wall.
const wallThreshold = 128

// Compass directions in the order N, NE, E, SE, S, SW, W, NW.
var compassDirs = [8][2]int{
	{0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1},
}

// WallMask is a one-bit-per-pixel map of wall locations. One mask pixel is
// one world unit. It is used to keep seeded particles out of walls and to
// derive the wall surface spheres used for collisions.
type WallMask struct {
	grid   [][]bool
	width  int
	height int
}

// NewWallMask creates an empty mask.
func NewWallMask(width, height int) *WallMask {
	grid := make([][]bool, height)
	for y := range grid {
		grid[y] = make([]bool, width)
	}
	return &WallMask{grid: grid, width: width, height: height}
}

// LoadWallMask reads a BMP or PNG image. Pixels whose green channel exceeds
// wallThreshold are walls.
func LoadWallMask(path string) (*WallMask, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening wall mask: %w", err)
	}
	defer f.Close()

	var img image.Image
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		img, err = bmp.Decode(f)
	case ".png":
		img, err = png.Decode(f)
	default:
		return nil, fmt.Errorf("unsupported wall mask format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("decoding wall mask: %w", err)
	}
	return WallMaskFromImage(img), nil
}

// WallMaskFromImage thresholds an image into a mask.
func WallMaskFromImage(img image.Image) *WallMask {
	b := img.Bounds()
	m := NewWallMask(b.Dx(), b.Dy())
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			_, g, _, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			if g>>8 > wallThreshold {
				m.grid[y][x] = true
			}
		}
	}
	return m
}

// GenerateWallMask builds a procedural mask from 2D Perlin noise: pixels
// whose noise value exceeds threshold become wall. A border of margin pixels
// along the world edges is kept open.
func GenerateWallMask(width, height int, seed int64, scale, threshold float64, margin int) *WallMask {
	m := NewWallMask(width, height)
	noise := perlin.NewPerlin(2, 2, 3, seed)

	for y := margin; y < height-margin; y++ {
		for x := margin; x < width-margin; x++ {
			if noise.Noise2D(float64(x)*scale, float64(y)*scale) > threshold {
				m.grid[y][x] = true
			}
		}
	}
	return m
}

// Size returns the mask dimensions in pixels.
func (m *WallMask) Size() (w, h int) {
	return m.width, m.height
}

// IsWall reports whether pixel (x, y) is wall. Pixels outside the mask are open.
func (m *WallMask) IsWall(x, y int) bool {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return false
	}
	return m.grid[y][x]
}

// Set marks pixel (x, y) as wall.
func (m *WallMask) Set(x, y int) {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return
	}
	m.grid[y][x] = true
}

// Count returns the number of wall pixels.
func (m *WallMask) Count() int {
	n := 0
	for y := range m.grid {
		for _, wall := range m.grid[y] {
			if wall {
				n++
			}
		}
	}
	return n
}

// NormalAt estimates the outward surface normal at wall pixel (x, y) by
// summing the directions towards its open neighbours. ok is false when the
// pixel is isolated or fully enclosed, where no surface direction exists.
func (m *WallMask) NormalAt(x, y int) (n r2.Vec, ok bool) {
	open := 0
	for _, d := range compassDirs {
		if !m.IsWall(x+d[0], y+d[1]) {
			n = r2.Add(n, r2.Unit(r2.Vec{X: float64(d[0]), Y: float64(d[1])}))
			open++
		}
	}
	if open == 0 || open == len(compassDirs) {
		return r2.Vec{}, false
	}
	if r2.Norm(n) == 0 {
		// Open neighbours on opposite sides cancel out: a one-pixel sliver.
		return r2.Vec{}, false
	}
	return r2.Unit(n), true
}

// SurfaceSpheres returns one sphere for every wall pixel with a defined
// surface normal. Interior and isolated pixels produce none.
func (m *WallMask) SurfaceSpheres() []components.WallSphere {
	var spheres []components.WallSphere
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			if !m.grid[y][x] {
				continue
			}
			n, ok := m.NormalAt(x, y)
			if !ok {
				continue
			}
			spheres = append(spheres, components.WallSphere{
				Pos:    r2.Vec{X: float64(x), Y: float64(y)},
				Normal: n,
			})
		}
	}
	return spheres
}

// Image renders the mask as grayscale: walls white, open space black.
// LoadWallMask reads the result back unchanged.
func (m *WallMask) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.width, m.height))
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			if m.grid[y][x] {
				img.Pix[y*img.Stride+x] = 255
			}
		}
	}
	return img
}

// SaveWallMask writes m as a PNG or BMP, chosen by the path extension.
// Nothing is created when the extension is not supported.
func SaveWallMask(m *WallMask, path string) error {
	var encode func(io.Writer, image.Image) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		encode = bmp.Encode
	case ".png":
		encode = png.Encode
	default:
		return fmt.Errorf("unsupported wall mask format %q", filepath.Ext(path))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating wall mask: %w", err)
	}
	defer f.Close()

	if err := encode(f, m.Image()); err != nil {
		return fmt.Errorf("encoding wall mask: %w", err)
	}
	return f.Close()
}
