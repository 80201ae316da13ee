package telemetry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/gas/components"
	"github.com/pthm-cable/gas/systems"
)

func newTestGas(t *testing.T, count int) *systems.Gas {
	t.Helper()
	g, err := systems.NewGas(systems.Options{
		Width: 60, Height: 40, Count: count, GridResX: 24, MaxInitialSpeed: 80, Seed: 5,
	})
	if err != nil {
		t.Fatalf("NewGas: %v", err)
	}
	return g
}

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	gas := newTestGas(t, 300)
	for i := 0; i < 10; i++ {
		gas.Advance(1.0 / 400)
	}

	snapshot := NewSnapshot(gas, 5, 10, 1.0/400)
	snapshot.Bookmark = &Bookmark{
		Type:        BookmarkEquilibrium,
		Tick:        10,
		Description: "Test bookmark",
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Snapshot file not created at %s", path)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if loaded.Version != snapshot.Version {
		t.Errorf("Version mismatch: got %d, want %d", loaded.Version, snapshot.Version)
	}
	if loaded.Seed != snapshot.Seed {
		t.Errorf("Seed mismatch: got %d, want %d", loaded.Seed, snapshot.Seed)
	}
	if loaded.Tick != snapshot.Tick {
		t.Errorf("Tick mismatch: got %d, want %d", loaded.Tick, snapshot.Tick)
	}
	if len(loaded.Particles) != 300 {
		t.Errorf("Particles count mismatch: got %d, want 300", len(loaded.Particles))
	}
	if loaded.Bookmark == nil {
		t.Error("Bookmark not loaded")
	} else if loaded.Bookmark.Type != snapshot.Bookmark.Type {
		t.Errorf("Bookmark type mismatch: got %s, want %s", loaded.Bookmark.Type, snapshot.Bookmark.Type)
	}
}

func TestSnapshotRestoreContinuesIdentically(t *testing.T) {
	// Dense enough that many cells hold three or more particles.
	gas := newTestGas(t, 3000)
	for i := 0; i < 5; i++ {
		gas.Advance(1.0 / 400)
	}
	if gas.Grid().MaxOccupancy() < 3 {
		t.Fatalf("max occupancy %d, want chains of at least 3", gas.Grid().MaxOccupancy())
	}

	restored, err := NewSnapshot(gas, 5, 5, 1.0/400).Restore(80, 0)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if restored.Count() != gas.Count() {
		t.Fatalf("restored %d particles, want %d", restored.Count(), gas.Count())
	}

	for i := 0; i < 20; i++ {
		gas.Advance(1.0 / 400)
		restored.Advance(1.0 / 400)
	}
	var a, b []components.Particle
	for p := range gas.All() {
		a = append(a, p)
	}
	for p := range restored.All() {
		b = append(b, p)
	}
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("particle %d diverged: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestSnapshotRestoreKeepsHistogramBins(t *testing.T) {
	gas := newTestGas(t, 100)
	restored, err := NewSnapshot(gas, 5, 0, 1.0/400).Restore(80, 40)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if got := len(restored.Histogram().Bins()); got != 40 {
		t.Errorf("restored histogram has %d bins, want 40", got)
	}
}

func TestSnapshotRestoreRejectsVersion(t *testing.T) {
	s := &Snapshot{Version: SnapshotVersion + 1, WorldWidth: 10, WorldHeight: 10, GridResX: 5}
	if _, err := s.Restore(1, 0); err == nil {
		t.Error("expected version error")
	}
}

func TestSnapshotFilename(t *testing.T) {
	tmpDir := t.TempDir()

	// Test with bookmark
	snapshot := &Snapshot{
		Version: SnapshotVersion,
		Tick:    5000,
		Bookmark: &Bookmark{
			Type: BookmarkEnergyDrift,
			Tick: 5000,
		},
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	expected := filepath.Join(tmpDir, "snapshot_5000_energy_drift.json")
	if path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}

	// Test without bookmark
	snapshotNoBookmark := &Snapshot{
		Version: SnapshotVersion,
		Tick:    3000,
	}

	path, err = SaveSnapshot(snapshotNoBookmark, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	expected = filepath.Join(tmpDir, "snapshot_3000.json")
	if path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}
}
