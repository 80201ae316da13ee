package systems

import (
	"errors"
	"iter"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/gas/components"
)

func newTestGas(t testing.TB, count int, seed uint64) *Gas {
	t.Helper()
	s, err := NewGas(Options{
		Width:           100,
		Height:          80,
		Count:           count,
		GridResX:        40,
		MaxInitialSpeed: 120,
		Seed:            seed,
	})
	if err != nil {
		t.Fatalf("NewGas: %v", err)
	}
	return s
}

func TestNewGas_Population(t *testing.T) {
	s := newTestGas(t, 2000, 1)
	if s.Population() != 2000 {
		t.Errorf("population = %d, want 2000", s.Population())
	}
	if got := s.Count(); got != 2000 {
		t.Errorf("count = %d, want 2000", got)
	}
	checkGridInvariants(t, s.Grid())
}

func TestNewGas_PoolTooSmall(t *testing.T) {
	_, err := NewGas(Options{
		Width: 100, Height: 100, Count: 500, PoolCapacity: 100, MaxInitialSpeed: 1, GridResX: 10,
	})
	if !errors.Is(err, ErrPoolExhausted) {
		t.Errorf("err = %v, want ErrPoolExhausted", err)
	}
}

func TestNewGas_InvalidWorld(t *testing.T) {
	_, err := NewGas(Options{Width: 0, Height: 100, Count: 1, MaxInitialSpeed: 1})
	if !errors.Is(err, ErrInvalidWorld) {
		t.Errorf("err = %v, want ErrInvalidWorld", err)
	}
}

func TestNewGas_EmptyPopulation(t *testing.T) {
	s := newTestGas(t, 0, 1)
	s.Advance(0.01)
	if s.Count() != 0 {
		t.Errorf("count = %d, want 0", s.Count())
	}
}

func TestAdvance_ConservesPopulationAndContainment(t *testing.T) {
	s := newTestGas(t, 2000, 7)
	for tick := 0; tick < 200; tick++ {
		s.Advance(1.0 / 400)
		if got := s.Count(); got != 2000 {
			t.Fatalf("tick %d: count = %d, want 2000", tick, got)
		}
		if tick%20 == 0 {
			checkGridInvariants(t, s.Grid())
		}
	}
	checkGridInvariants(t, s.Grid())
}

func TestAdvance_Deterministic(t *testing.T) {
	a := newTestGas(t, 500, 42)
	b := newTestGas(t, 500, 42)
	for i := 0; i < 50; i++ {
		a.Advance(1.0 / 400)
		b.Advance(1.0 / 400)
	}

	var pa, pb []components.Particle
	for p := range a.All() {
		pa = append(pa, p)
	}
	for p := range b.All() {
		pb = append(pb, p)
	}
	if len(pa) != len(pb) {
		t.Fatalf("lengths differ: %d vs %d", len(pa), len(pb))
	}
	for i := range pa {
		if pa[i] != pb[i] {
			t.Fatalf("particle %d differs: %+v vs %+v", i, pa[i], pb[i])
		}
	}
}

func TestAdvance_HeadOnPair(t *testing.T) {
	s, err := NewEmptyGas(20, 20, 10, 4, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	s.Add(components.Particle{Pos: r2.Vec{X: 10, Y: 10}, Vel: r2.Vec{X: 1}})
	s.Add(components.Particle{Pos: r2.Vec{X: 10.5, Y: 10}, Vel: r2.Vec{X: -1}})

	s.Advance(0)

	if got := s.LastTick().Collisions; got != 1 {
		t.Errorf("collisions = %d, want 1", got)
	}
	for p := range s.All() {
		want := 1.0
		if p.Pos.X < 10.25 {
			want = -1
		}
		if math.Abs(p.Vel.X-want) > 1e-9 {
			t.Errorf("particle at %v has vx %v, want %v", p.Pos, p.Vel.X, want)
		}
	}
}

func TestAdvance_BoundaryReflection(t *testing.T) {
	s, err := NewEmptyGas(20, 20, 10, 1, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	s.Add(components.Particle{Pos: r2.Vec{X: -0.01, Y: 5}, Vel: r2.Vec{X: -5}})

	s.Advance(0.001)

	for p := range s.All() {
		if p.Vel.X != 5 {
			t.Errorf("vx = %v, want 5", p.Vel.X)
		}
		if p.Pos.X < 0 {
			t.Errorf("x = %v, want >= 0", p.Pos.X)
		}
	}
}

func TestAdvance_SettlesPushedParticles(t *testing.T) {
	s, err := NewEmptyGas(20, 20, 10, 4, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	// Both start in one cell; the push moves the left one across x=10.
	s.Add(components.Particle{Pos: r2.Vec{X: 10.05, Y: 5}})
	s.Add(components.Particle{Pos: r2.Vec{X: 10.25, Y: 5}})

	s.Advance(0)

	if s.LastTick().Settled != 1 {
		t.Errorf("settled = %d, want 1", s.LastTick().Settled)
	}
	checkGridInvariants(t, s.Grid())
}

type recordingTracer struct {
	phases []string
}

func (r *recordingTracer) StartPhase(phase string) {
	r.phases = append(r.phases, phase)
}

type countingObstacles struct {
	t     *testing.T
	calls int
}

func (o *countingObstacles) Collide(g *SpatialGrid) int {
	o.calls++
	// Obstacles run after migration, so the grid must already be consistent.
	checkGridInvariants(o.t, g)
	return 3
}

func TestAdvance_PhaseOrder(t *testing.T) {
	s := newTestGas(t, 100, 3)
	tr := &recordingTracer{}
	obs := &countingObstacles{t: t}
	s.SetTracer(tr)
	s.SetObstacles(obs)
	s.SetHistogramEnabled(true)

	s.Advance(1.0 / 400)

	want := []string{PhaseIntegrate, PhaseMigrate, PhaseWalls, PhaseCollide, PhaseSettle, PhaseHistogram}
	if len(tr.phases) != len(want) {
		t.Fatalf("phases = %v, want %v", tr.phases, want)
	}
	for i := range want {
		if tr.phases[i] != want[i] {
			t.Errorf("phase %d = %q, want %q", i, tr.phases[i], want[i])
		}
	}
	if obs.calls != 1 {
		t.Errorf("obstacles called %d times, want 1", obs.calls)
	}
	if s.LastTick().WallBounces != 3 {
		t.Errorf("wall bounces = %d, want 3", s.LastTick().WallBounces)
	}
}

func TestAdvance_HistogramDoesNotAffectPhysics(t *testing.T) {
	a := newTestGas(t, 300, 9)
	b := newTestGas(t, 300, 9)
	b.SetHistogramEnabled(true)
	for i := 0; i < 20; i++ {
		a.Advance(1.0 / 400)
		b.Advance(1.0 / 400)
	}

	next, stop := iter.Pull(b.All())
	defer stop()
	for p := range a.All() {
		q, ok := next()
		if !ok || p != q {
			t.Fatalf("trajectories diverged at %+v vs %+v", p, q)
		}
	}

	total := 0
	for _, n := range b.Histogram().Bins() {
		total += n
	}
	if total != 300 {
		t.Errorf("histogram total = %d, want 300", total)
	}
}

func TestGas_EachVisitsEveryParticle(t *testing.T) {
	s := newTestGas(t, 250, 5)
	n := 0
	s.Each(func(x, y float64) {
		if x < 0 || x >= 100 || y < 0 || y >= 80 {
			t.Errorf("position (%v, %v) outside world", x, y)
		}
		n++
	})
	if n != 250 {
		t.Errorf("visited %d, want 250", n)
	}
}

func TestGas_AllStopsEarly(t *testing.T) {
	s := newTestGas(t, 50, 5)
	n := 0
	for range s.All() {
		n++
		if n == 10 {
			break
		}
	}
	if n != 10 {
		t.Errorf("iterated %d, want 10", n)
	}
}

func BenchmarkAdvance(b *testing.B) {
	s, err := NewGas(Options{
		Width:           800,
		Height:          600,
		Count:           80000,
		GridResX:        DefaultGridResX,
		MaxInitialSpeed: 120,
		Seed:            1,
	})
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Advance(1.0 / 400)
	}
}
