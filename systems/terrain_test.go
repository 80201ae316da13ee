package systems

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
)

// halfPlaneMask returns a mask whose left half (x < split) is wall.
func halfPlaneMask(w, h, split int) *WallMask {
	m := NewWallMask(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < split; x++ {
			m.Set(x, y)
		}
	}
	return m
}

func TestWallMask_IsWallOutOfRange(t *testing.T) {
	m := halfPlaneMask(10, 10, 5)
	tests := []struct {
		x, y int
		want bool
	}{
		{0, 0, true},
		{4, 9, true},
		{5, 0, false},
		{-1, 0, false},
		{0, 10, false},
	}
	for _, tc := range tests {
		if got := m.IsWall(tc.x, tc.y); got != tc.want {
			t.Errorf("IsWall(%d, %d) = %v, want %v", tc.x, tc.y, got, tc.want)
		}
	}
	if m.Count() != 50 {
		t.Errorf("count = %d, want 50", m.Count())
	}
}

func TestWallMask_NormalAt(t *testing.T) {
	m := halfPlaneMask(10, 10, 5)

	n, ok := m.NormalAt(4, 5)
	if !ok {
		t.Fatal("expected a normal on the wall surface")
	}
	if math.Abs(n.X-1) > 1e-9 || math.Abs(n.Y) > 1e-9 {
		t.Errorf("normal = %v, want (1, 0)", n)
	}

	if _, ok := m.NormalAt(2, 5); ok {
		t.Error("interior pixel should have no normal")
	}

	iso := NewWallMask(5, 5)
	iso.Set(2, 2)
	if _, ok := iso.NormalAt(2, 2); ok {
		t.Error("isolated pixel should have no normal")
	}
}

func TestWallMask_SurfaceSpheres(t *testing.T) {
	m := halfPlaneMask(10, 10, 5)
	spheres := m.SurfaceSpheres()
	// The x=4 column; mask edges count as open, so rows 0 and 9 and
	// column 0 also have surfaces.
	for _, s := range spheres {
		if s.Pos.X > 4 {
			t.Errorf("sphere outside the wall at %v", s.Pos)
		}
		if math.Abs(s.Normal.X*s.Normal.X+s.Normal.Y*s.Normal.Y-1) > 1e-9 {
			t.Errorf("normal %v is not unit length", s.Normal)
		}
	}
	found := 0
	for _, s := range spheres {
		if s.Pos.X == 4 && s.Pos.Y > 0 && s.Pos.Y < 9 {
			found++
		}
	}
	if found != 8 {
		t.Errorf("found %d surface spheres on the x=4 face, want 8", found)
	}
}

func TestWallMaskFromImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	img.Set(1, 0, color.RGBA{G: 255, A: 255})
	img.Set(3, 1, color.RGBA{G: 129, A: 255})
	img.Set(2, 1, color.RGBA{G: 128, A: 255}) // at threshold: open
	img.Set(0, 1, color.RGBA{R: 255, A: 255}) // red only: open

	m := WallMaskFromImage(img)
	if w, h := m.Size(); w != 4 || h != 2 {
		t.Fatalf("size = %dx%d, want 4x2", w, h)
	}
	if !m.IsWall(1, 0) || !m.IsWall(3, 1) {
		t.Error("expected green pixels to be walls")
	}
	if m.IsWall(2, 1) || m.IsWall(0, 1) {
		t.Error("expected threshold and red pixels to be open")
	}
}

func TestLoadWallMask(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			img.Set(x, y, color.RGBA{A: 255})
		}
	}
	img.Set(1, 1, color.RGBA{G: 255, A: 255})
	dir := t.TempDir()

	encoders := map[string]func(f *os.File) error{
		"mask.png": func(f *os.File) error { return png.Encode(f, img) },
		"mask.bmp": func(f *os.File) error { return bmp.Encode(f, img) },
	}
	for name, enc := range encoders {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			f, err := os.Create(path)
			if err != nil {
				t.Fatal(err)
			}
			if err := enc(f); err != nil {
				t.Fatal(err)
			}
			f.Close()

			m, err := LoadWallMask(path)
			if err != nil {
				t.Fatalf("LoadWallMask: %v", err)
			}
			if m.Count() != 1 || !m.IsWall(1, 1) {
				t.Errorf("expected single wall at (1, 1), count %d", m.Count())
			}
		})
	}

	if _, err := LoadWallMask(filepath.Join(dir, "mask.gif")); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestGenerateWallMask_KeepsMarginOpen(t *testing.T) {
	const margin = 5
	m := GenerateWallMask(120, 80, 11, 0.05, -0.1, margin)
	if m.Count() == 0 {
		t.Fatal("expected some wall pixels with a low threshold")
	}
	w, h := m.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			inMargin := x < margin || y < margin || x >= w-margin || y >= h-margin
			if inMargin && m.IsWall(x, y) {
				t.Fatalf("wall at (%d, %d) inside the open margin", x, y)
			}
		}
	}

	again := GenerateWallMask(120, 80, 11, 0.05, -0.1, margin)
	if again.Count() != m.Count() {
		t.Errorf("same seed produced %d and %d wall pixels", m.Count(), again.Count())
	}
}

func TestSaveWallMask_Roundtrip(t *testing.T) {
	m := halfPlaneMask(12, 8, 5)
	m.Set(9, 2)

	for _, ext := range []string{".png", ".bmp"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "mask"+ext)
			if err := SaveWallMask(m, path); err != nil {
				t.Fatalf("SaveWallMask: %v", err)
			}
			got, err := LoadWallMask(path)
			if err != nil {
				t.Fatalf("LoadWallMask: %v", err)
			}
			if w, h := got.Size(); w != 12 || h != 8 {
				t.Fatalf("size = %dx%d, want 12x8", w, h)
			}
			for y := 0; y < 8; y++ {
				for x := 0; x < 12; x++ {
					if got.IsWall(x, y) != m.IsWall(x, y) {
						t.Errorf("pixel (%d, %d): got %v, want %v", x, y, got.IsWall(x, y), m.IsWall(x, y))
					}
				}
			}
		})
	}

	gif := filepath.Join(t.TempDir(), "mask.gif")
	if err := SaveWallMask(m, gif); err == nil {
		t.Error("expected an error for an unsupported extension")
	}
	if _, err := os.Stat(gif); !os.IsNotExist(err) {
		t.Errorf("unsupported extension left a file behind: %v", err)
	}
}
