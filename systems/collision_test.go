package systems

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/gas/components"
)

func kinetic(ps ...components.Particle) float64 {
	e := 0.0
	for _, p := range ps {
		e += 0.5 * r2.Norm2(p.Vel)
	}
	return e
}

func TestCollide_HeadOnSwap(t *testing.T) {
	p1 := components.Particle{Pos: r2.Vec{X: 10, Y: 10}, Vel: r2.Vec{X: 1, Y: 0}}
	p2 := components.Particle{Pos: r2.Vec{X: 10.5, Y: 10}, Vel: r2.Vec{X: -1, Y: 0}}

	if !Collide(&p1, &p2) {
		t.Fatal("expected overlapping particles to collide")
	}
	if math.Abs(p1.Vel.X+1) > 1e-12 || math.Abs(p1.Vel.Y) > 1e-12 {
		t.Errorf("p1 vel = %v, want (-1, 0)", p1.Vel)
	}
	if math.Abs(p2.Vel.X-1) > 1e-12 || math.Abs(p2.Vel.Y) > 1e-12 {
		t.Errorf("p2 vel = %v, want (1, 0)", p2.Vel)
	}
	// Overlap 0.208 split evenly.
	if math.Abs(p1.Pos.X-9.896) > 1e-9 {
		t.Errorf("p1 x = %v, want 9.896", p1.Pos.X)
	}
	if math.Abs(p2.Pos.X-10.604) > 1e-9 {
		t.Errorf("p2 x = %v, want 10.604", p2.Pos.X)
	}
}

func TestCollide_NoContact(t *testing.T) {
	tests := []struct {
		name string
		d    float64
	}{
		{"far apart", 5},
		{"exactly touching", contactDist},
		{"just past touching", math.Nextafter(contactDist, 1)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p1 := components.Particle{Pos: r2.Vec{X: 0, Y: 5}, Vel: r2.Vec{X: 1}}
			p2 := components.Particle{Pos: r2.Vec{X: tc.d, Y: 5}, Vel: r2.Vec{X: -1}}
			b1, b2 := p1, p2
			if Collide(&p1, &p2) {
				t.Error("Collide reported contact")
			}
			if p1 != b1 || p2 != b2 {
				t.Error("non-touching particles were modified")
			}
		})
	}
}

func TestCollide_ConservesEnergyAndMomentum(t *testing.T) {
	tests := []struct {
		name   string
		p1, p2 components.Particle
	}{
		{
			name: "oblique",
			p1:   components.Particle{Pos: r2.Vec{X: 5, Y: 5}, Vel: r2.Vec{X: 30, Y: -12}},
			p2:   components.Particle{Pos: r2.Vec{X: 5.3, Y: 5.4}, Vel: r2.Vec{X: -7, Y: 55}},
		},
		{
			name: "one at rest",
			p1:   components.Particle{Pos: r2.Vec{X: 1, Y: 1}, Vel: r2.Vec{X: 100, Y: 0}},
			p2:   components.Particle{Pos: r2.Vec{X: 1.1, Y: 1.6}, Vel: r2.Vec{}},
		},
		{
			name: "same direction",
			p1:   components.Particle{Pos: r2.Vec{X: 8, Y: 8}, Vel: r2.Vec{X: 40, Y: 40}},
			p2:   components.Particle{Pos: r2.Vec{X: 8.2, Y: 8.1}, Vel: r2.Vec{X: 10, Y: 20}},
		},
		{
			name: "coincident",
			p1:   components.Particle{Pos: r2.Vec{X: 3, Y: 3}, Vel: r2.Vec{X: 2, Y: 9}},
			p2:   components.Particle{Pos: r2.Vec{X: 3, Y: 3}, Vel: r2.Vec{X: -4, Y: 1}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p1, p2 := tc.p1, tc.p2
			e0 := kinetic(p1, p2)
			m0 := r2.Add(p1.Vel, p2.Vel)

			if !Collide(&p1, &p2) {
				t.Fatal("expected contact")
			}

			if e1 := kinetic(p1, p2); math.Abs(e1-e0) > 1e-9*math.Max(1, e0) {
				t.Errorf("kinetic energy %v -> %v", e0, e1)
			}
			m1 := r2.Add(p1.Vel, p2.Vel)
			if r2.Norm(r2.Sub(m1, m0)) > 1e-9 {
				t.Errorf("momentum %v -> %v", m0, m1)
			}
			dist := r2.Norm(r2.Sub(p2.Pos, p1.Pos))
			if math.Abs(dist-contactDist) > 1e-9 {
				t.Errorf("separation after push = %v, want %v", dist, contactDist)
			}
		})
	}
}

func TestCollide_CoincidentStaysFinite(t *testing.T) {
	p1 := components.Particle{Pos: r2.Vec{X: 4, Y: 4}, Vel: r2.Vec{X: 1, Y: 1}}
	p2 := components.Particle{Pos: r2.Vec{X: 4, Y: 4}, Vel: r2.Vec{X: -1, Y: 2}}
	Collide(&p1, &p2)

	for _, v := range []float64{p1.Pos.X, p1.Pos.Y, p2.Pos.X, p2.Pos.Y, p1.Vel.X, p1.Vel.Y, p2.Vel.X, p2.Vel.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("non-finite state: p1=%+v p2=%+v", p1, p2)
		}
	}
	// Pushed apart along the fallback normal.
	if p2.Pos.X <= p1.Pos.X {
		t.Errorf("expected p2 right of p1, got %v and %v", p1.Pos, p2.Pos)
	}
}

func TestResolveCollisions_SameCell(t *testing.T) {
	g := newTestGrid(t, 4)
	g.Add(components.Particle{Pos: r2.Vec{X: 10, Y: 10}, Vel: r2.Vec{X: 1}})
	g.Add(components.Particle{Pos: r2.Vec{X: 10.5, Y: 10}, Vel: r2.Vec{X: -1}})

	if n := g.ResolveCollisions(); n != 1 {
		t.Errorf("resolved = %d, want 1", n)
	}
	for p := range gasOf(g).All() {
		if (p.Pos.X < 10 && math.Abs(p.Vel.X+1) > 1e-9) || (p.Pos.X > 10.5 && math.Abs(p.Vel.X-1) > 1e-9) {
			t.Errorf("unexpected state %+v", p)
		}
	}
}

func TestResolveCollisions_AdjacentCellsResolvedOnce(t *testing.T) {
	g := newTestGrid(t, 4)
	g.Add(components.Particle{Pos: r2.Vec{X: 9.8, Y: 10}, Vel: r2.Vec{X: 1}})
	g.Add(components.Particle{Pos: r2.Vec{X: 10.2, Y: 10}, Vel: r2.Vec{X: -1}})
	if g.CellForPosition(9.8, 10) == g.CellForPosition(10.2, 10) {
		t.Fatal("test particles must straddle a cell edge")
	}

	if n := g.ResolveCollisions(); n != 1 {
		t.Errorf("resolved = %d, want 1", n)
	}
	left := g.Cursor(g.CellForPosition(9.8, 10))
	left.Next()
	if v := left.Particle().Vel.X; math.Abs(v+1) > 1e-9 {
		t.Errorf("left particle vx = %v, want -1 (swapped exactly once)", v)
	}
}

// Each pair sits across one neighbour direction, far from every other pair.
// Every direction must be found exactly once.
func TestResolveCollisions_EveryNeighbourDirection(t *testing.T) {
	g, err := NewSpatialGrid(40, 40, 20, NewParticlePool(32))
	if err != nil {
		t.Fatal(err)
	}
	dirs := []neighborOffset{
		{0, 0},
		{-1, -1}, {0, -1}, {1, -1},
		{-1, 0}, {1, 0},
		{-1, 1}, {0, 1}, {1, 1},
	}
	for k, d := range dirs {
		cx := 2 + 4*(k%4)
		cy := 2 + 4*(k/4)
		centre := r2.Vec{X: float64(cx)*2 + 1, Y: float64(cy)*2 + 1}
		dir := r2.Vec{X: float64(d.dx), Y: float64(d.dy)}
		if d.dx == 0 && d.dy == 0 {
			g.Add(components.Particle{Pos: centre})
			g.Add(components.Particle{Pos: r2.Add(centre, r2.Vec{X: 0.3})})
			continue
		}
		p1 := r2.Add(centre, r2.Scale(0.8, dir))
		p2 := r2.Add(p1, r2.Scale(0.3, dir))
		g.Add(components.Particle{Pos: p1})
		g.Add(components.Particle{Pos: p2})
		if g.CellForPosition(p1.X, p1.Y) == g.CellForPosition(p2.X, p2.Y) {
			t.Fatalf("direction %v: pair landed in one cell", d)
		}
	}

	if n := g.ResolveCollisions(); n != len(dirs) {
		t.Errorf("resolved = %d, want %d", n, len(dirs))
	}
}

func TestResolveCollisions_EmptyGrid(t *testing.T) {
	g := newTestGrid(t, 0)
	if n := g.ResolveCollisions(); n != 0 {
		t.Errorf("resolved = %d on an empty grid", n)
	}
}

func TestResolveCollisions_ThreeInOneCell(t *testing.T) {
	g := newTestGrid(t, 4)
	// All three mutually overlapping: three pairs checked in one pass.
	g.Add(at(10.2, 10.2))
	g.Add(at(10.4, 10.2))
	g.Add(at(10.3, 10.35))

	if n := g.ResolveCollisions(); n < 2 || n > 3 {
		t.Errorf("resolved = %d, want 2 or 3 (earlier pushes may separate a later pair)", n)
	}
}

// gasOf wraps a bare grid for iteration helpers.
func gasOf(g *SpatialGrid) *Gas {
	return &Gas{grid: g, hist: NewHistogram(0, 1, 0)}
}
