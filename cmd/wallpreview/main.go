// Wall mask preview tool - interactive Perlin wall generation with sliders.
//
// Usage: go run ./cmd/wallpreview -out walls.png
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"

	rl "github.com/gen2brain/raylib-go/raylib"
	gui "github.com/gen2brain/raylib-go/raygui"

	"github.com/pthm-cable/gas/config"
	"github.com/pthm-cable/gas/systems"
)

const (
	windowWidth  = 1100
	windowHeight = 720
	previewMax   = 640
	panelWidth   = windowWidth - previewMax - 40
)

// WallParams holds the generator settings.
type WallParams struct {
	Scale     float32
	Threshold float32
	Margin    int
	Seed      int64
}

func paramsFromConfig(cfg *config.Config, seed int64) WallParams {
	return WallParams{
		Scale:     float32(cfg.Walls.NoiseScale),
		Threshold: float32(cfg.Walls.Threshold),
		Margin:    cfg.Walls.Margin,
		Seed:      seed,
	}
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	outPath := flag.String("out", "walls.png", "Where Save writes the mask (.png or .bmp)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	worldW, worldH := int(cfg.Derived.WorldW), int(cfg.Derived.WorldH)
	defaults := paramsFromConfig(cfg, int64(cfg.Particles.Seed))
	params := defaults

	// Fit the preview inside previewMax on its longer side
	scale := float32(previewMax) / float32(max(worldW, worldH))
	previewW, previewH := float32(worldW)*scale, float32(worldH)*scale

	rl.InitWindow(windowWidth, windowHeight, "Wall Mask Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	img := rl.GenImageColor(worldW, worldH, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	pixels := make([]color.RGBA, worldW*worldH)
	var mask *systems.WallMask
	var wallPixels, spheres int
	status := ""
	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			mask = systems.GenerateWallMask(worldW, worldH, params.Seed, float64(params.Scale), float64(params.Threshold), params.Margin)
			wallPixels = mask.Count()
			spheres = len(mask.SurfaceSpheres())
			updateTexture(texture, pixels, mask)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: float32(worldW), Height: float32(worldH)},
			rl.Rectangle{X: 10, Y: 10, Width: previewW, Height: previewH},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, int32(previewW), int32(previewH), rl.DarkGray)

		statsY := int32(previewH + 25)
		coverage := 100 * float64(wallPixels) / float64(worldW*worldH)
		rl.DrawText(fmt.Sprintf("World: %dx%d  Wall: %d px (%.1f%%)  Spheres: %d", worldW, worldH, wallPixels, coverage, spheres), 15, statsY, 16, rl.DarkGray)
		if status != "" {
			rl.DrawText(status, 15, statsY+20, 16, rl.DarkGray)
		}

		panelX := float32(previewMax + 30)
		panelY := float32(10)

		rl.DrawText("Wall Generator", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		slider := func(label, lo, hi, format string, value, min, max float32) float32 {
			rl.DrawText(label, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			v := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
				lo, hi, value, min, max,
			)
			rl.DrawText(fmt.Sprintf(format, value), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			panelY += 35
			return v
		}

		if v := slider("Noise scale (feature frequency)", "0.002", "0.05", "%.4f", params.Scale, 0.002, 0.05); v != params.Scale {
			params.Scale = v
			needsRegen = true
		}
		if v := slider("Threshold (higher = sparser)", "-0.3", "0.6", "%.3f", params.Threshold, -0.3, 0.6); v != params.Threshold {
			params.Threshold = v
			needsRegen = true
		}
		if v := slider("Margin (open border)", "0", "120", "%.0f", float32(params.Margin), 0, 120); int(v) != params.Margin {
			params.Margin = int(v)
			needsRegen = true
		}
		if v := slider("Seed", "0", "99999", "%.0f", float32(params.Seed), 0, 99999); int64(v) != params.Seed {
			params.Seed = int64(v)
			needsRegen = true
		}
		panelY += 10

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			params.Seed = int64(rl.GetRandomValue(0, 99999))
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaults
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 250, Height: 30}, "Save "+*outPath) {
			if err := systems.SaveWallMask(mask, *outPath); err != nil {
				status = "save failed: " + err.Error()
			} else {
				status = "saved " + *outPath
			}
		}
		panelY += 55

		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		for _, line := range yamlLines(params) {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			text := ""
			for _, line := range yamlLines(params) {
				text += line + "\n"
			}
			rl.SetClipboardText(text)
		}

		rl.EndDrawing()
	}
}

func yamlLines(p WallParams) []string {
	return []string{
		"walls:",
		"  generate: true",
		fmt.Sprintf("  noise_scale: %.4f", p.Scale),
		fmt.Sprintf("  threshold: %.3f", p.Threshold),
		fmt.Sprintf("  margin: %d", p.Margin),
		"particles:",
		fmt.Sprintf("  seed: %d", p.Seed),
	}
}

// updateTexture uploads the mask: walls light grey, open space dark blue.
func updateTexture(texture rl.Texture2D, pixels []color.RGBA, mask *systems.WallMask) {
	w, h := mask.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{R: 10, G: 20, B: 60, A: 255}
			if mask.IsWall(x, y) {
				c = color.RGBA{R: 200, G: 200, B: 200, A: 255}
			}
			pixels[y*w+x] = c
		}
	}
	rl.UpdateTexture(texture, pixels)
}
