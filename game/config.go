package game

import (
	"github.com/pthm-cable/gas/config"
	"github.com/pthm-cable/gas/telemetry"
)

// Options configures a new Game.
type Options struct {
	Seed           uint64  // 0 = particles.seed from config
	LogStats       bool    // log window and perf stats via slog
	StatsWindowSec float64 // 0 = telemetry.stats_window from config
	SnapshotDir    string  // save a snapshot on every bookmark when set
	OutputDir      string  // CSV logs and config copy when set
	Headless       bool    // no window, renderers or input
	StepsPerUpdate int     // ticks per Update call; 0 = 1

	// Config overrides the global config when set.
	Config *config.Config

	// Resume restores particles from a snapshot instead of seeding.
	Resume *telemetry.Snapshot

	// StatsCallback receives every flushed stats window.
	StatsCallback func(telemetry.WindowStats)
}

// Controls legend shown at the bottom of the window.
const controlsLegend = "Drag: pan | Right click: inspect cell | Wheel: zoom | Home: reset view | Up/Down: dt | Space: pause | H: histogram | W: walls | P: perf | C: controls | S: snapshot"
