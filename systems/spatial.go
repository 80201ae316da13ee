// Package systems implements the particle core: the spatial grid with pooled
// overflow storage, integration and migration, collision resolution and the
// speed diagnostics.
package systems

import (
	"errors"
	"fmt"
	"math"

	"github.com/pthm-cable/gas/components"
)

// DefaultGridResX is the number of grid columns used when none is configured.
const DefaultGridResX = 300

// contactDist is the centre distance at which two particles touch.
const contactDist = 2 * components.ParticleRadius

// ErrInvalidWorld is returned when the world or grid dimensions cannot hold
// a valid grid.
var ErrInvalidWorld = errors.New("invalid world dimensions")

// Cell addresses one grid cell as a flat row-major index.
type Cell int32

// SpatialGrid is a uniform grid covering the world. Every cell owns one
// inline particle slot plus a singly linked chain of pool slots.
//
// A cell whose inline slot carries the InvalidX sentinel is empty, and its
// chain is empty too: insertion always fills the inline slot first.
type SpatialGrid struct {
	cells []slot
	pool  *ParticlePool

	resX, resY    int
	width, height float64
	cellW, cellH  float64
	invCellW      float64
	invCellH      float64
	maxX, maxY    float64 // largest in-bounds coordinates
}

// NewSpatialGrid creates an empty grid over a width×height world with resX
// columns. Rows are chosen to keep cells approximately square. Cells must be
// at least one particle diameter wide or the neighbour stencil would miss
// contacts.
func NewSpatialGrid(width, height float64, resX int, pool *ParticlePool) (*SpatialGrid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("world %vx%v: %w", width, height, ErrInvalidWorld)
	}
	if resX <= 0 {
		resX = DefaultGridResX
	}
	resY := int(float64(resX) * height / width)
	if resY < 1 {
		resY = 1
	}

	cellW := width / float64(resX)
	cellH := height / float64(resY)
	if cellW < contactDist || cellH < contactDist {
		return nil, fmt.Errorf("cell %.3fx%.3f smaller than particle diameter %.3f: %w",
			cellW, cellH, contactDist, ErrInvalidWorld)
	}

	g := &SpatialGrid{
		cells:    make([]slot, resX*resY),
		pool:     pool,
		resX:     resX,
		resY:     resY,
		width:    width,
		height:   height,
		cellW:    cellW,
		cellH:    cellH,
		invCellW: 1 / cellW,
		invCellH: 1 / cellH,
		maxX:     math.Nextafter(width, 0),
		maxY:     math.Nextafter(height, 0),
	}
	g.Clear()
	return g, nil
}

// Clear empties every cell and returns all overflow slots to the pool.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i].p.Clear()
		g.cells[i].next = nilSlot
	}
	g.pool.Reset()
}

// Res returns the grid resolution in cells.
func (g *SpatialGrid) Res() (x, y int) {
	return g.resX, g.resY
}

// CellSize returns the width and height of one cell in world units.
func (g *SpatialGrid) CellSize() (w, h float64) {
	return g.cellW, g.cellH
}

// Bounds returns the world extent covered by the grid.
func (g *SpatialGrid) Bounds() (w, h float64) {
	return g.width, g.height
}

// Pool returns the overflow pool backing the grid.
func (g *SpatialGrid) Pool() *ParticlePool {
	return g.pool
}

// CellAt returns the cell at grid coordinates (cx, cy). ok is false when the
// coordinates fall outside the grid; that is "no neighbour", not an error.
func (g *SpatialGrid) CellAt(cx, cy int) (c Cell, ok bool) {
	if cx < 0 || cy < 0 || cx >= g.resX || cy >= g.resY {
		return 0, false
	}
	return Cell(cy*g.resX + cx), true
}

// Coords returns the grid coordinates of c.
func (g *SpatialGrid) Coords(c Cell) (cx, cy int) {
	return int(c) % g.resX, int(c) / g.resX
}

// CellForPosition returns the cell owning world position (x, y).
// Positions outside the world are clamped onto the nearest edge cell.
func (g *SpatialGrid) CellForPosition(x, y float64) Cell {
	cx := int(x * g.invCellW)
	cy := int(y * g.invCellH)

	if cx < 0 {
		cx = 0
	} else if cx >= g.resX {
		cx = g.resX - 1
	}
	if cy < 0 {
		cy = 0
	} else if cy >= g.resY {
		cy = g.resY - 1
	}

	return Cell(cy*g.resX + cx)
}

// LookupPosition is the checked form of CellForPosition for callers that may
// sample positions outside the world.
func (g *SpatialGrid) LookupPosition(x, y float64) (Cell, bool) {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return 0, false
	}
	return g.CellForPosition(x, y), true
}

// CellRange returns the inclusive range of grid coordinates overlapping the
// world rectangle [minX,maxX]×[minY,maxY], clamped to the grid.
func (g *SpatialGrid) CellRange(minX, minY, maxX, maxY float64) (cx0, cy0, cx1, cy1 int) {
	lo := g.CellForPosition(minX, minY)
	hi := g.CellForPosition(maxX, maxY)
	cx0, cy0 = g.Coords(lo)
	cx1, cy1 = g.Coords(hi)
	return cx0, cy0, cx1, cy1
}

// IsEmpty reports whether cell c holds no particles.
func (g *SpatialGrid) IsEmpty(c Cell) bool {
	return g.cells[c].p.IsEmpty()
}

// Insert stores p in cell c. The inline slot is used when free; otherwise a
// pool slot is spliced in at the head of the cell's chain. Running out of
// pool slots is a configuration bug and panics with ErrPoolExhausted.
func (g *SpatialGrid) Insert(c Cell, p components.Particle) {
	head := &g.cells[c]
	if head.p.IsEmpty() {
		head.p = p
		return
	}

	i := g.pool.alloc()
	if i == nilSlot {
		panic(fmt.Errorf("inserting into cell %d: %w", c, ErrPoolExhausted))
	}
	s := &g.pool.slots[i]
	s.p = p
	s.next = head.next
	head.next = i
}

// Add inserts p into the cell owning its position.
func (g *SpatialGrid) Add(p components.Particle) {
	g.Insert(g.CellForPosition(p.Pos.X, p.Pos.Y), p)
}

// Append stores p after every particle already in cell c. Appending a
// cell's particles in Cursor order rebuilds the same chain order.
func (g *SpatialGrid) Append(c Cell, p components.Particle) {
	head := &g.cells[c]
	if head.p.IsEmpty() {
		head.p = p
		return
	}

	i := g.pool.alloc()
	if i == nilSlot {
		panic(fmt.Errorf("appending to cell %d: %w", c, ErrPoolExhausted))
	}
	g.pool.slots[i] = slot{p: p, next: nilSlot}

	tail := &head.next
	for *tail != nilSlot {
		tail = &g.pool.slots[*tail].next
	}
	*tail = i
}

// removeHead removes the particle in c's inline slot. The first chained
// particle, if any, is promoted into the inline slot and its pool slot freed.
func (g *SpatialGrid) removeHead(c Cell) {
	head := &g.cells[c]
	if head.next == nilSlot {
		head.p.Clear()
		return
	}
	i := head.next
	s := &g.pool.slots[i]
	head.p = s.p
	head.next = s.next
	g.pool.free(i)
}

// CountInCell returns the number of particles stored in c.
func (g *SpatialGrid) CountInCell(c Cell) int {
	n := 0
	for cur := g.Cursor(c); cur.Next(); {
		n++
	}
	return n
}

// Count returns the number of particles stored in the whole grid.
func (g *SpatialGrid) Count() int {
	n := 0
	for c := range g.cells {
		n += g.CountInCell(Cell(c))
	}
	return n
}

// MaxOccupancy returns the largest number of particles held by one cell.
func (g *SpatialGrid) MaxOccupancy() int {
	best := 0
	for c := range g.cells {
		if n := g.CountInCell(Cell(c)); n > best {
			best = n
		}
	}
	return best
}

// Cursor walks the particles of one cell, inline slot first.
// A Cursor is a plain value: copying it forks the walk at the current
// position, which the self-collision pass relies on.
type Cursor struct {
	pool []slot
	head *slot
	cur  *slot
}

// Cursor returns a cursor positioned before the first particle of c.
func (g *SpatialGrid) Cursor(c Cell) Cursor {
	head := &g.cells[c]
	if head.p.IsEmpty() {
		return Cursor{}
	}
	return Cursor{pool: g.pool.slots, head: head}
}

// Next advances to the next particle, returning false at the end of the chain.
func (c *Cursor) Next() bool {
	if c.cur == nil {
		if c.head == nil {
			return false
		}
		c.cur = c.head
		c.head = nil
		return true
	}
	if c.cur.next == nilSlot {
		c.cur = nil
		return false
	}
	c.cur = &c.pool[c.cur.next]
	return true
}

// Particle returns the particle under the cursor. Callers may mutate its
// velocity in place; position changes must go through a migration pass.
func (c *Cursor) Particle() *components.Particle {
	return &c.cur.p
}
