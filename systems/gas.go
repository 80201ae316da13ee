package systems

import (
	"fmt"
	"iter"

	"github.com/pthm-cable/gas/components"
)

// Phase names reported to a Tracer during Advance.
const (
	PhaseIntegrate = "integrate"
	PhaseMigrate   = "migrate"
	PhaseWalls     = "walls"
	PhaseCollide   = "collide"
	PhaseSettle    = "settle"
	PhaseHistogram = "histogram"
)

// Tracer receives a call at the start of each phase of a tick.
// telemetry.PerfCollector satisfies it.
type Tracer interface {
	StartPhase(phase string)
}

// Obstacles is a static-obstacle collaborator. Collide runs once per tick
// after migration and before particle-particle collisions. It may change
// particle velocities in place and returns the number of reflections.
type Obstacles interface {
	Collide(g *SpatialGrid) int
}

// TickStats counts what happened during the most recent Advance.
type TickStats struct {
	Migrated    int // particles relocated after integration
	Settled     int // particles relocated after collision pushes
	Collisions  int // particle pairs resolved
	WallBounces int // reflections off obstacles
}

// Options configures a new Gas.
type Options struct {
	Width, Height   float64 // world extent
	Count           int     // particle population, fixed for the run
	PoolCapacity    int     // overflow slots; 0 means Count
	GridResX        int     // grid columns; 0 means DefaultGridResX
	MaxInitialSpeed float64 // per-axis bound for seeded velocities
	HistogramBins   int     // 0 means DefaultHistogramBins
	Seed            uint64
	Mask            Mask // optional; seeding avoids wall pixels
}

// Gas is one simulation instance: a grid of particles plus the
// diagnostics and collaborators that act on it each tick.
type Gas struct {
	grid      *SpatialGrid
	hist      *Histogram
	obstacles Obstacles
	tracer    Tracer
	count     int
	last      TickStats
}

// NewGas builds the grid and pool and seeds the population. It fails with
// ErrPoolExhausted when the population cannot be guaranteed room in the pool.
func NewGas(opts Options) (*Gas, error) {
	if opts.Count < 0 {
		return nil, fmt.Errorf("negative population %d", opts.Count)
	}
	capacity := opts.PoolCapacity
	if capacity == 0 {
		capacity = opts.Count
	}
	if opts.Count > capacity {
		return nil, fmt.Errorf("population %d exceeds pool capacity %d: %w",
			opts.Count, capacity, ErrPoolExhausted)
	}

	grid, err := NewSpatialGrid(opts.Width, opts.Height, opts.GridResX, NewParticlePool(capacity))
	if err != nil {
		return nil, fmt.Errorf("creating grid: %w", err)
	}

	s := &Gas{
		grid: grid,
		hist: NewHistogram(opts.HistogramBins, opts.MaxInitialSpeed, opts.Count),
	}

	seeder := NewSeeder(opts.Width, opts.Height, opts.MaxInitialSpeed, opts.Seed, opts.Mask)
	for i := 0; i < opts.Count; i++ {
		p, err := seeder.Next()
		if err != nil {
			return nil, fmt.Errorf("seeding particle %d: %w", i, err)
		}
		s.Add(p)
	}
	return s, nil
}

// NewEmptyGas builds a gas with no particles. Particles are placed with Add
// or Append. histogramBins of 0 means DefaultHistogramBins.
func NewEmptyGas(width, height float64, gridResX, poolCapacity int, maxInitialSpeed float64, histogramBins int) (*Gas, error) {
	grid, err := NewSpatialGrid(width, height, gridResX, NewParticlePool(poolCapacity))
	if err != nil {
		return nil, fmt.Errorf("creating grid: %w", err)
	}
	return &Gas{
		grid: grid,
		hist: NewHistogram(histogramBins, maxInitialSpeed, poolCapacity),
	}, nil
}

// Add places p in the cell owning its position.
func (s *Gas) Add(p components.Particle) {
	s.grid.Add(p)
	s.count++
}

// Append places p behind the particles already in its cell. Re-adding a
// gas's particles in All order with Append reproduces its cell chains
// exactly, so the copy advances identically.
func (s *Gas) Append(p components.Particle) {
	s.grid.Append(s.grid.CellForPosition(p.Pos.X, p.Pos.Y), p)
	s.count++
}

// Advance runs one full tick: integrate, migrate, obstacle collisions,
// particle collisions, then a settle pass that relocates particles nudged
// across a cell edge by collision pushes. When the histogram is enabled it
// samples the final velocities.
func (s *Gas) Advance(dt float64) {
	s.phase(PhaseIntegrate)
	s.grid.Integrate(dt)

	s.phase(PhaseMigrate)
	s.last.Migrated = s.grid.Migrate()

	s.last.WallBounces = 0
	if s.obstacles != nil {
		s.phase(PhaseWalls)
		s.last.WallBounces = s.obstacles.Collide(s.grid)
	}

	s.phase(PhaseCollide)
	s.last.Collisions = s.grid.ResolveCollisions()

	// Collision pushes can carry a particle over a cell edge; every particle
	// must sit in its owning cell when Advance returns.
	s.phase(PhaseSettle)
	s.last.Settled = s.grid.Migrate()

	if s.hist.Enabled() {
		s.phase(PhaseHistogram)
		s.hist.Sample(s.grid)
	}
}

func (s *Gas) phase(name string) {
	if s.tracer != nil {
		s.tracer.StartPhase(name)
	}
}

// All iterates over every live particle in raster order. The sequence
// yields copies and is safe to use between ticks.
func (s *Gas) All() iter.Seq[components.Particle] {
	return func(yield func(components.Particle) bool) {
		g := s.grid
		for c := range g.cells {
			if g.cells[c].p.IsEmpty() {
				continue
			}
			for cur := g.Cursor(Cell(c)); cur.Next(); {
				if !yield(*cur.Particle()) {
					return
				}
			}
		}
	}
}

// Each calls fn with the position of every live particle.
// It is the allocation-free path used by renderers.
func (s *Gas) Each(fn func(x, y float64)) {
	g := s.grid
	for c := range g.cells {
		if g.cells[c].p.IsEmpty() {
			continue
		}
		for cur := g.Cursor(Cell(c)); cur.Next(); {
			p := cur.Particle()
			fn(p.Pos.X, p.Pos.Y)
		}
	}
}

// Population returns the number of particles placed at construction.
func (s *Gas) Population() int {
	return s.count
}

// Count walks the grid and returns the number of particles stored in it.
// It equals Population unless the grid is corrupt.
func (s *Gas) Count() int {
	return s.grid.Count()
}

// Grid exposes the spatial grid for obstacle collaborators and tests.
func (s *Gas) Grid() *SpatialGrid {
	return s.grid
}

// SetObstacles installs the static-obstacle collaborator; nil removes it.
func (s *Gas) SetObstacles(o Obstacles) {
	s.obstacles = o
}

// SetTracer installs a phase tracer; nil removes it.
func (s *Gas) SetTracer(t Tracer) {
	s.tracer = t
}

// SetHistogramEnabled toggles the speed histogram without affecting physics.
func (s *Gas) SetHistogramEnabled(on bool) {
	s.hist.SetEnabled(on)
}

// HistogramEnabled reports whether the speed histogram is sampled each tick.
func (s *Gas) HistogramEnabled() bool {
	return s.hist.Enabled()
}

// Histogram returns the speed histogram.
func (s *Gas) Histogram() *Histogram {
	return s.hist
}

// LastTick returns the counters from the most recent Advance.
func (s *Gas) LastTick() TickStats {
	return s.last
}
