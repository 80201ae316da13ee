package systems

import "github.com/pthm-cable/gas/components"

// Integrate advances every particle by dt and reflects particles off the
// world edges. It does not relocate particles; call Migrate afterwards to
// restore the containment invariant.
func (g *SpatialGrid) Integrate(dt float64) {
	for c := range g.cells {
		if g.cells[c].p.IsEmpty() {
			continue
		}
		for cur := g.Cursor(Cell(c)); cur.Next(); {
			g.step(cur.Particle(), dt)
		}
	}
}

// step moves one particle. A velocity component is negated only when the
// particle is at or past an edge and still heading outward, so a particle
// that has already turned back is never reflected twice. The position is
// then clamped inside the world so a stationary particle sitting on an edge
// cannot drift out of the grid.
func (g *SpatialGrid) step(p *components.Particle, dt float64) {
	p.Pos.X += p.Vel.X * dt
	if (p.Pos.X <= 0 && p.Vel.X < 0) || (p.Pos.X >= g.width && p.Vel.X > 0) {
		p.Vel.X = -p.Vel.X
	}
	p.Pos.X = clampAxis(p.Pos.X, g.maxX)

	p.Pos.Y += p.Vel.Y * dt
	if (p.Pos.Y <= 0 && p.Vel.Y < 0) || (p.Pos.Y >= g.height && p.Vel.Y > 0) {
		p.Vel.Y = -p.Vel.Y
	}
	p.Pos.Y = clampAxis(p.Pos.Y, g.maxY)
}

func clampAxis(v, max float64) float64 {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

// Migrate moves every particle whose position has left its cell into the
// cell that now owns it, and returns how many particles moved.
//
// The inline slot is re-examined until it either holds a resident particle
// or is empty, because removing it promotes the next chained particle. The
// chain is walked with a saved previous link and a saved next index, so a
// slot freed (and possibly reused by Insert) is never read again. A particle
// moved into a cell later in raster order is checked again there, which is
// harmless: it is already resident.
func (g *SpatialGrid) Migrate() int {
	moved := 0
	for c := range g.cells {
		head := &g.cells[c]
		cell := Cell(c)

		for !head.p.IsEmpty() {
			dst := g.CellForPosition(head.p.Pos.X, head.p.Pos.Y)
			if dst == cell {
				break
			}
			p := head.p
			g.removeHead(cell)
			g.Insert(dst, p)
			moved++
		}
		if head.p.IsEmpty() {
			continue
		}

		prev := nilSlot // nilSlot means the inline slot
		for i := head.next; i != nilSlot; {
			s := &g.pool.slots[i]
			next := s.next

			dst := g.CellForPosition(s.p.Pos.X, s.p.Pos.Y)
			if dst != cell {
				p := s.p
				if prev == nilSlot {
					head.next = next
				} else {
					g.pool.slots[prev].next = next
				}
				g.pool.free(i)
				g.Insert(dst, p)
				moved++
			} else {
				prev = i
			}
			i = next
		}
	}
	return moved
}
