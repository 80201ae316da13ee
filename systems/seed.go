package systems

import (
	"errors"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/pthm-cable/gas/components"
)

// maxPlacementAttempts bounds the rejection sampling used to avoid walls.
const maxPlacementAttempts = 1000

// ErrNoFreeSpace is returned when no wall-free position could be found.
var ErrNoFreeSpace = errors.New("no free space for particle")

// Mask reports whether a world pixel is inside a wall.
type Mask interface {
	IsWall(x, y int) bool
}

// Seeder draws initial particle states: uniformly random in-bounds positions
// that avoid wall pixels, and per-axis uniform velocities in
// [-maxSpeed, maxSpeed].
type Seeder struct {
	posX, posY distuv.Uniform
	vel        distuv.Uniform
	mask       Mask
}

// NewSeeder creates a seeder for a width×height world. The same seed always
// produces the same sequence.
func NewSeeder(width, height, maxSpeed float64, seed uint64, mask Mask) *Seeder {
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	return &Seeder{
		// Keep a small margin off the far edges so no particle starts
		// exactly on the boundary.
		posX: distuv.Uniform{Min: 0, Max: width * 0.999, Src: src},
		posY: distuv.Uniform{Min: 0, Max: height * 0.999, Src: src},
		vel:  distuv.Uniform{Min: -maxSpeed, Max: maxSpeed, Src: src},
		mask: mask,
	}
}

// Next returns the next particle.
func (s *Seeder) Next() (components.Particle, error) {
	var pos r2.Vec
	placed := false
	for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
		pos = r2.Vec{X: s.posX.Rand(), Y: s.posY.Rand()}
		if s.mask == nil || !s.mask.IsWall(int(pos.X), int(pos.Y)) {
			placed = true
			break
		}
	}
	if !placed {
		return components.Particle{}, ErrNoFreeSpace
	}

	return components.Particle{
		Pos: pos,
		Vel: r2.Vec{X: s.vel.Rand(), Y: s.vel.Rand()},
	}, nil
}
