package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/gas/config"
	"github.com/pthm-cable/gas/systems"
)

// buildWalls loads or generates the wall mask. A mask file takes precedence
// over generation. Returns nils when the world has no walls.
func buildWalls(cfg *config.Config, seed uint64) (*systems.WallSystem, *systems.WallMask, error) {
	wc := cfg.Walls
	worldW, worldH := int(cfg.Derived.WorldW), int(cfg.Derived.WorldH)

	var mask *systems.WallMask
	switch {
	case wc.MaskPath != "":
		m, err := systems.LoadWallMask(wc.MaskPath)
		if err != nil {
			return nil, nil, fmt.Errorf("loading wall mask: %w", err)
		}
		if w, h := m.Size(); w != worldW || h != worldH {
			return nil, nil, fmt.Errorf("wall mask %s is %dx%d, world is %dx%d", wc.MaskPath, w, h, worldW, worldH)
		}
		mask = m
	case wc.Generate:
		mask = systems.GenerateWallMask(worldW, worldH, int64(seed), wc.NoiseScale, wc.Threshold, wc.Margin)
	default:
		return nil, nil, nil
	}

	walls := systems.NewWallSystemFromMask(mask, wc.SphereRadius)
	slog.Info("walls ready",
		"source", wallSource(wc),
		"wall_pixels", mask.Count(),
		"spheres", walls.Count(),
	)
	return walls, mask, nil
}

func wallSource(wc config.WallsConfig) string {
	if wc.MaskPath != "" {
		return wc.MaskPath
	}
	return "perlin"
}

// buildGas seeds a new gas from the config.
func buildGas(cfg *config.Config, seed uint64, mask *systems.WallMask) (*systems.Gas, error) {
	opts := systems.Options{
		Width:           cfg.Derived.WorldW,
		Height:          cfg.Derived.WorldH,
		Count:           cfg.Particles.Count,
		PoolCapacity:    cfg.Particles.PoolCapacity,
		GridResX:        cfg.Particles.GridResX,
		MaxInitialSpeed: cfg.Particles.MaxInitialSpeed,
		HistogramBins:   cfg.Histogram.Bins,
		Seed:            seed,
	}
	if mask != nil {
		opts.Mask = mask
	}

	gas, err := systems.NewGas(opts)
	if err != nil {
		return nil, fmt.Errorf("building gas: %w", err)
	}
	return gas, nil
}
