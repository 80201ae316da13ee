package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/gas/components"
)

// neighborOffset is a grid displacement from the current cell.
type neighborOffset struct {
	dx, dy int
}

// halfNeighborhood holds the NW, N, NE and W neighbours. Walking the grid
// in raster order (rows top to bottom, columns left to right) and pairing
// each cell with only these neighbours visits every adjacent pair of cells
// exactly once: the later cell of a pair always sees the earlier one here.
var halfNeighborhood = [4]neighborOffset{
	{-1, -1}, {0, -1}, {1, -1}, {-1, 0},
}

// fallbackNormal is used when two particles are exactly coincident and the
// contact normal is undefined.
var fallbackNormal = r2.Vec{X: 1, Y: 0}

// contactDistSq is squared in float64 arithmetic so particles exactly
// contactDist apart compare as touching, not overlapping.
var (
	contactDistance = float64(contactDist)
	contactDistSq   = contactDistance * contactDistance
)

// ResolveCollisions detects and resolves every overlapping pair of particles
// and returns the number of pairs resolved. The raster order is part of the
// contract: changing it breaks the exactly-once guarantee.
func (g *SpatialGrid) ResolveCollisions() int {
	resolved := 0
	for cy := 0; cy < g.resY; cy++ {
		for cx := 0; cx < g.resX; cx++ {
			cell := Cell(cy*g.resX + cx)
			if g.IsEmpty(cell) {
				continue
			}

			for _, off := range halfNeighborhood {
				other, ok := g.CellAt(cx+off.dx, cy+off.dy)
				if !ok || g.IsEmpty(other) {
					continue
				}
				resolved += g.handleCollisions(cell, other)
			}
			resolved += g.handleCollisionsSelf(cell)
		}
	}
	return resolved
}

// handleCollisions checks every particle of a against every particle of b.
func (g *SpatialGrid) handleCollisions(a, b Cell) int {
	n := 0
	for ca := g.Cursor(a); ca.Next(); {
		p1 := ca.Particle()
		for cb := g.Cursor(b); cb.Next(); {
			if Collide(p1, cb.Particle()) {
				n++
			}
		}
	}
	return n
}

// handleCollisionsSelf checks every unordered pair within one cell once,
// pairing each particle only with those after it in the chain.
func (g *SpatialGrid) handleCollisionsSelf(c Cell) int {
	n := 0
	for ca := g.Cursor(c); ca.Next(); {
		p1 := ca.Particle()
		cb := ca
		for cb.Next() {
			if Collide(p1, cb.Particle()) {
				n++
			}
		}
	}
	return n
}

// Collide resolves an elastic collision between p1 and p2 if they overlap,
// reporting whether they did.
func Collide(p1, p2 *components.Particle) bool {
	delta := r2.Sub(p2.Pos, p1.Pos)
	distSq := r2.Norm2(delta)
	if distSq >= contactDistSq {
		return false
	}
	resolve(p1, p2, delta, math.Sqrt(distSq))
	return true
}

// resolve applies the equal-mass elastic response. Only the velocity
// components along the contact normal change, and for equal masses they are
// simply exchanged; tangential components are kept. The particles are then
// pushed apart by half the overlap each so they do not stick together on
// the next tick. The push is a position correction only.
func resolve(p1, p2 *components.Particle, delta r2.Vec, dist float64) {
	norm := fallbackNormal
	if dist > 0 {
		norm = r2.Scale(1/dist, delta)
	}
	tang := r2.Vec{X: norm.Y, Y: -norm.X}

	v1n := r2.Dot(p1.Vel, norm)
	v2n := r2.Dot(p2.Vel, norm)
	v1t := r2.Dot(p1.Vel, tang)
	v2t := r2.Dot(p2.Vel, tang)

	p1.Vel = r2.Add(r2.Scale(v2n, norm), r2.Scale(v1t, tang))
	p2.Vel = r2.Add(r2.Scale(v1n, norm), r2.Scale(v2t, tang))

	push := r2.Scale((contactDist-dist)*0.5, norm)
	p1.Pos = r2.Sub(p1.Pos, push)
	p2.Pos = r2.Add(p2.Pos, push)
}
