// Package game hosts a gas simulation: it owns the frame loop state, input,
// drawing and telemetry around a systems.Gas.
package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/gas/camera"
	"github.com/pthm-cable/gas/config"
	"github.com/pthm-cable/gas/inspector"
	"github.com/pthm-cable/gas/renderer"
	"github.com/pthm-cable/gas/systems"
	"github.com/pthm-cable/gas/telemetry"
	"github.com/pthm-cable/gas/ui"
)

// Game holds the complete simulation host state.
type Game struct {
	cfg  *config.Config
	seed uint64

	gas   *systems.Gas
	walls *systems.WallSystem // nil without walls

	// State
	tick           int32
	dt             float64
	paused         bool
	stepsPerUpdate int
	headless       bool

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	statsCallback    func(telemetry.WindowStats)
	logStats         bool
	snapshotDir      string
	lastStats        telemetry.WindowStats

	// Rendering, nil when headless
	camera            *camera.Camera
	particleRenderer  *renderer.ParticleRenderer
	wallRenderer      *renderer.WallRenderer
	histogramRenderer *renderer.HistogramRenderer
	hud               *ui.HUD
	perfPanel         *ui.PerfPanel
	controlsPanel     *ui.ControlsPanel
	overlays          *ui.OverlayRegistry
	inspector         *inspector.Inspector
	hover             cellHover

	screenWidth, screenHeight float32
}

// NewGameWithOptions builds the gas, its walls and the telemetry pipeline.
// In windowed mode it must be called after the raylib window is created.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	seed := opts.Seed
	if seed == 0 {
		seed = cfg.Particles.Seed
	}
	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}
	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	g := &Game{
		cfg:            cfg,
		seed:           seed,
		dt:             cfg.Physics.DT,
		stepsPerUpdate: steps,
		headless:       opts.Headless,

		collector:        telemetry.NewCollector(statsWindow),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistorySize, cfg.Bookmarks),
		statsCallback:    opts.StatsCallback,
		logStats:         opts.LogStats,
		snapshotDir:      opts.SnapshotDir,
	}

	walls, mask, err := buildWalls(cfg, seed)
	if err != nil {
		return nil, err
	}
	g.walls = walls

	if opts.Resume != nil {
		g.gas, err = opts.Resume.Restore(cfg.Particles.MaxInitialSpeed, cfg.Histogram.Bins)
		if err != nil {
			return nil, err
		}
		g.tick = opts.Resume.Tick
		if opts.Resume.DT > 0 {
			g.dt = cfg.ClampDT(opts.Resume.DT)
		}
		slog.Info("resumed from snapshot", "tick", g.tick, "particles", g.gas.Population())
	} else {
		g.gas, err = buildGas(cfg, seed, mask)
		if err != nil {
			return nil, err
		}
	}

	if g.walls != nil {
		g.gas.SetObstacles(g.walls)
	}
	g.gas.SetTracer(g.perfCollector)
	g.gas.SetHistogramEnabled(cfg.Histogram.Enabled)

	g.outputManager, err = telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	if err := g.outputManager.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	if !opts.Headless {
		g.initRendering()
	}

	return g, nil
}

// initRendering creates the camera, renderers and UI panels.
func (g *Game) initRendering() {
	cfg := g.cfg
	g.screenWidth = cfg.Derived.ScreenW32
	g.screenHeight = cfg.Derived.ScreenH32

	g.camera = camera.New(g.screenWidth, g.screenHeight, cfg.Derived.WorldW32, cfg.Derived.WorldH32)
	g.particleRenderer = renderer.NewParticleRenderer()
	g.wallRenderer = renderer.NewWallRenderer(g.walls)
	g.histogramRenderer = renderer.NewHistogramRenderer()
	g.hud = ui.NewHUD()
	g.perfPanel = ui.NewPerfPanel(int32(g.screenWidth)-270, 40, 260)
	g.controlsPanel = ui.NewControlsPanel(int32(g.screenWidth)-270, 40, 260)
	g.overlays = ui.NewOverlayRegistry()
	g.inspector = inspector.NewInspector(10, 170)
	g.overlays.SetEnabled(ui.OverlayHistogram, g.gas.HistogramEnabled())
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.tick
}

// DT returns the current time step.
func (g *Game) DT() float64 {
	return g.dt
}

// Gas returns the simulated gas.
func (g *Game) Gas() *systems.Gas {
	return g.gas
}

// Paused reports whether the simulation is paused.
func (g *Game) Paused() bool {
	return g.paused
}
