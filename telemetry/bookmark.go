package telemetry

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/pthm-cable/gas/config"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkEquilibrium    BookmarkType = "equilibrium"
	BookmarkEnergyDrift    BookmarkType = "energy_drift"
	BookmarkCollisionSpike BookmarkType = "collision_spike"
	BookmarkPoolPressure   BookmarkType = "pool_pressure"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Tick        int32        `csv:"tick" json:"tick"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	cfg config.BookmarksConfig

	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	equilibriumWindows int     // consecutive windows with a Rayleigh-like speed spread
	driftBaseline      float64 // kinetic energy the drift check compares against
	poolPressured      bool    // latched while the pool stays above the threshold
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int, cfg config.BookmarksConfig) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3 // minimum for a rolling collision average
	}
	if cfg.EquilibriumWindows < 1 {
		cfg.EquilibriumWindows = 1
	}
	return &BookmarkDetector{
		cfg:         cfg,
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	// Equilibrium: speed spread matches the 2D Maxwell-Boltzmann shape
	if b := bd.checkEquilibrium(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	// Energy drift: kinetic energy moved away from its baseline
	if b := bd.checkEnergyDrift(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	// Collision spike: collisions per tick well above the rolling average
	if b := bd.checkCollisionSpike(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	// Pool pressure: overflow slots nearly exhausted
	if b := bd.checkPoolPressure(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkEquilibrium(stats WindowStats) *Bookmark {
	if stats.Particles < 2 {
		bd.equilibriumWindows = 0
		return nil
	}

	if math.Abs(stats.SpeedCV-RayleighCV) <= bd.cfg.EquilibriumTolerance {
		bd.equilibriumWindows++
	} else {
		bd.equilibriumWindows = 0
	}

	if bd.equilibriumWindows == bd.cfg.EquilibriumWindows { // trigger exactly once per run of windows
		return &Bookmark{
			Type: BookmarkEquilibrium,
			Tick: stats.WindowEndTick,
			Description: fmt.Sprintf("Speed CV %.3f within %.3f of Rayleigh %.3f over %d windows",
				stats.SpeedCV, bd.cfg.EquilibriumTolerance, RayleighCV, bd.equilibriumWindows),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkEnergyDrift(stats WindowStats) *Bookmark {
	if bd.driftBaseline == 0 {
		bd.driftBaseline = stats.KineticEnergy
		return nil
	}
	if bd.cfg.EnergyDrift <= 0 {
		return nil
	}

	drift := (stats.KineticEnergy - bd.driftBaseline) / bd.driftBaseline
	if math.Abs(drift) > bd.cfg.EnergyDrift {
		// Re-baseline after triggering
		old := bd.driftBaseline
		bd.driftBaseline = stats.KineticEnergy

		return &Bookmark{
			Type:        BookmarkEnergyDrift,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Kinetic energy drifted %+.2f%% from %.4g to %.4g", drift*100, old, stats.KineticEnergy),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkCollisionSpike(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 || bd.cfg.CollisionSpike <= 0 {
		return nil
	}

	// Calculate rolling average collisions per tick
	var total float64
	for _, h := range history {
		total += h.CollisionsPerTick
	}
	avg := total / float64(len(history))
	if avg == 0 {
		return nil
	}

	if stats.CollisionsPerTick > avg*bd.cfg.CollisionSpike {
		return &Bookmark{
			Type: BookmarkCollisionSpike,
			Tick: stats.WindowEndTick,
			Description: fmt.Sprintf("Collisions per tick %.1f is %.1fx average (%.1f)",
				stats.CollisionsPerTick, stats.CollisionsPerTick/avg, avg),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkPoolPressure(stats WindowStats) *Bookmark {
	if bd.cfg.PoolPressure <= 0 {
		return nil
	}
	usage := stats.PoolUsage()
	if usage < bd.cfg.PoolPressure {
		bd.poolPressured = false
		return nil
	}
	if bd.poolPressured {
		return nil
	}
	bd.poolPressured = true

	return &Bookmark{
		Type: BookmarkPoolPressure,
		Tick: stats.WindowEndTick,
		Description: fmt.Sprintf("Pool %d/%d slots in use (%.0f%%), max cell occupancy %d",
			stats.PoolInUse, stats.PoolCapacity, usage*100, stats.MaxOccupancy),
	}
}
