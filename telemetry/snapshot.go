package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/gas/components"
	"github.com/pthm-cable/gas/systems"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the complete gas state for replay.
type Snapshot struct {
	Version int    `json:"version"`
	Seed    uint64 `json:"seed"`

	WorldWidth  float64 `json:"world_width"`
	WorldHeight float64 `json:"world_height"`
	GridResX    int     `json:"grid_res_x"`
	DT          float64 `json:"dt"`

	Tick int32 `json:"tick"`

	Particles []ParticleState `json:"particles"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// ParticleState holds one particle's state.
type ParticleState struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	VelX float64 `json:"vel_x"`
	VelY float64 `json:"vel_y"`
}

// NewSnapshot captures every particle of gas.
func NewSnapshot(gas *systems.Gas, seed uint64, tick int32, dt float64) *Snapshot {
	w, h := gas.Grid().Bounds()
	resX, _ := gas.Grid().Res()

	s := &Snapshot{
		Version:     SnapshotVersion,
		Seed:        seed,
		WorldWidth:  w,
		WorldHeight: h,
		GridResX:    resX,
		DT:          dt,
		Tick:        tick,
		Particles:   make([]ParticleState, 0, gas.Population()),
	}
	for p := range gas.All() {
		s.Particles = append(s.Particles, ParticleState{
			X: p.Pos.X, Y: p.Pos.Y, VelX: p.Vel.X, VelY: p.Vel.Y,
		})
	}
	return s
}

// Restore rebuilds a gas holding the snapshot's particles. Particles were
// captured in All order, so appending them rebuilds every cell chain in its
// original order and the restored gas advances exactly as the captured one.
func (s *Snapshot) Restore(maxInitialSpeed float64, histogramBins int) (*systems.Gas, error) {
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", s.Version, SnapshotVersion)
	}
	gas, err := systems.NewEmptyGas(s.WorldWidth, s.WorldHeight, s.GridResX, len(s.Particles), maxInitialSpeed, histogramBins)
	if err != nil {
		return nil, fmt.Errorf("restore snapshot: %w", err)
	}
	for _, ps := range s.Particles {
		gas.Append(components.Particle{
			Pos: r2.Vec{X: ps.X, Y: ps.Y},
			Vel: r2.Vec{X: ps.VelX, Y: ps.VelY},
		})
	}
	return gas, nil
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	// Build filename
	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		// Sanitize bookmark type for filename
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	name += ".json"

	path := filepath.Join(dir, name)

	data, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}
