package telemetry

import (
	"testing"

	"github.com/pthm-cable/gas/config"
)

var testBookmarks = config.BookmarksConfig{
	EquilibriumTolerance: 0.02,
	EquilibriumWindows:   3,
	EnergyDrift:          0.01,
	CollisionSpike:       2.0,
	PoolPressure:         0.9,
}

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_Equilibrium(t *testing.T) {
	bd := NewBookmarkDetector(10, testBookmarks)

	// Far from equilibrium: uniform initial velocities
	for i := 0; i < 3; i++ {
		bms := bd.Check(WindowStats{WindowEndTick: int32(i * 400), Particles: 1000, SpeedCV: 0.40, KineticEnergy: 100})
		if hasBookmark(bms, BookmarkEquilibrium) {
			t.Fatal("equilibrium triggered too early")
		}
	}

	// Relaxed distribution for three windows
	var fired int
	for i := 3; i < 8; i++ {
		bms := bd.Check(WindowStats{WindowEndTick: int32(i * 400), Particles: 1000, SpeedCV: RayleighCV + 0.005, KineticEnergy: 100})
		if hasBookmark(bms, BookmarkEquilibrium) {
			fired++
			if i != 5 {
				t.Errorf("equilibrium fired at window %d, want 5", i)
			}
		}
	}
	if fired != 1 {
		t.Errorf("equilibrium fired %d times, want 1", fired)
	}
}

func TestBookmarkDetector_EnergyDrift(t *testing.T) {
	bd := NewBookmarkDetector(10, testBookmarks)

	bd.Check(WindowStats{WindowEndTick: 0, KineticEnergy: 1000})
	if bms := bd.Check(WindowStats{WindowEndTick: 400, KineticEnergy: 1005}); hasBookmark(bms, BookmarkEnergyDrift) {
		t.Error("0.5% drift should not trigger")
	}

	bms := bd.Check(WindowStats{WindowEndTick: 800, KineticEnergy: 1020})
	if !hasBookmark(bms, BookmarkEnergyDrift) {
		t.Error("expected energy_drift bookmark at 2%")
	}

	// Baseline moved to 1020
	if bms := bd.Check(WindowStats{WindowEndTick: 1200, KineticEnergy: 1021}); hasBookmark(bms, BookmarkEnergyDrift) {
		t.Error("drift should be measured from the new baseline")
	}
}

func TestBookmarkDetector_CollisionSpike(t *testing.T) {
	bd := NewBookmarkDetector(10, testBookmarks)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 400), CollisionsPerTick: 100, KineticEnergy: 1})
	}

	bms := bd.Check(WindowStats{WindowEndTick: 2000, CollisionsPerTick: 450, KineticEnergy: 1})
	if !hasBookmark(bms, BookmarkCollisionSpike) {
		t.Error("expected collision_spike bookmark")
	}
}

func TestBookmarkDetector_PoolPressure(t *testing.T) {
	bd := NewBookmarkDetector(10, testBookmarks)

	if bms := bd.Check(WindowStats{PoolInUse: 50, PoolCapacity: 100}); hasBookmark(bms, BookmarkPoolPressure) {
		t.Error("50% usage should not trigger")
	}
	if bms := bd.Check(WindowStats{PoolInUse: 95, PoolCapacity: 100}); !hasBookmark(bms, BookmarkPoolPressure) {
		t.Error("expected pool_pressure bookmark at 95%")
	}
	// Latched while still high
	if bms := bd.Check(WindowStats{PoolInUse: 96, PoolCapacity: 100}); hasBookmark(bms, BookmarkPoolPressure) {
		t.Error("pool_pressure should not repeat while latched")
	}
	// Re-arms after dropping below
	bd.Check(WindowStats{PoolInUse: 10, PoolCapacity: 100})
	if bms := bd.Check(WindowStats{PoolInUse: 99, PoolCapacity: 100}); !hasBookmark(bms, BookmarkPoolPressure) {
		t.Error("expected pool_pressure to re-arm")
	}
}
