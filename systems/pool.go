package systems

import (
	"errors"

	"github.com/pthm-cable/gas/components"
)

// ErrPoolExhausted is returned (or panicked with, inside a tick) when a cell
// needs an overflow slot and the pool has none left. It always means the
// population was configured larger than the pool can hold.
var ErrPoolExhausted = errors.New("particle pool exhausted")

// nilSlot terminates a chain or the free list.
const nilSlot int32 = -1

// slot is one storage record. Grid cells embed one slot inline; the pool
// holds the overflow slots. next indexes the pool.
type slot struct {
	p    components.Particle
	next int32
}

// ParticlePool is fixed-capacity overflow storage for particles that do not
// fit in their cell's inline slot. Free slots are linked through their next
// field into a LIFO free list, so Alloc and Free are O(1).
//
// A slot is owned by exactly one chain at a time: either a cell's overflow
// chain or the free list.
type ParticlePool struct {
	slots     []slot
	firstFree int32
	inUse     int
}

// NewParticlePool preallocates a pool with room for capacity overflow particles.
func NewParticlePool(capacity int) *ParticlePool {
	p := &ParticlePool{
		slots: make([]slot, capacity),
	}
	p.Reset()
	return p
}

// Reset returns every slot to the free list.
func (p *ParticlePool) Reset() {
	for i := range p.slots {
		p.slots[i].next = int32(i + 1)
	}
	if len(p.slots) > 0 {
		p.slots[len(p.slots)-1].next = nilSlot
		p.firstFree = 0
	} else {
		p.firstFree = nilSlot
	}
	p.inUse = 0
}

// alloc pops a slot off the free list. Returns nilSlot when exhausted.
func (p *ParticlePool) alloc() int32 {
	i := p.firstFree
	if i == nilSlot {
		return nilSlot
	}
	p.firstFree = p.slots[i].next
	p.slots[i].next = nilSlot
	p.inUse++
	return i
}

// free pushes slot i back onto the free list. The caller must already have
// unlinked it from its cell chain.
func (p *ParticlePool) free(i int32) {
	p.slots[i].next = p.firstFree
	p.firstFree = i
	p.inUse--
}

// Capacity returns the total number of slots.
func (p *ParticlePool) Capacity() int {
	return len(p.slots)
}

// InUse returns the number of slots currently linked into cell chains.
func (p *ParticlePool) InUse() int {
	return p.inUse
}

// FreeLen walks the free list and returns its length.
// Intended for invariant checks, not the hot path.
func (p *ParticlePool) FreeLen() int {
	n := 0
	for i := p.firstFree; i != nilSlot; i = p.slots[i].next {
		n++
		if n > len(p.slots) {
			// Cycle in the free list; report something impossible.
			return -1
		}
	}
	return n
}
