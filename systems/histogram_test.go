package systems

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/gas/components"
)

func TestHistogram_BinFor(t *testing.T) {
	h := NewHistogram(20, 120, 0) // bins of width 18 over [0, 360)
	tests := []struct {
		speed float64
		want  int
	}{
		{0, 0},
		{17.9, 0},
		{18, 1},
		{180, 10},
		{359.9, 19},
		{360, 19},
		{5000, 19},
		{-1, 0},
	}
	for _, tc := range tests {
		if got := h.BinFor(tc.speed); got != tc.want {
			t.Errorf("BinFor(%v) = %d, want %d", tc.speed, got, tc.want)
		}
	}
}

func TestHistogram_BinRange(t *testing.T) {
	h := NewHistogram(20, 120, 0)
	lo, hi := h.BinRange(3)
	if math.Abs(lo-54) > 1e-9 || math.Abs(hi-72) > 1e-9 {
		t.Errorf("BinRange(3) = [%v, %v), want [54, 72)", lo, hi)
	}
}

func TestHistogram_DefaultBins(t *testing.T) {
	h := NewHistogram(0, 120, 0)
	if len(h.Bins()) != DefaultHistogramBins {
		t.Errorf("bins = %d, want %d", len(h.Bins()), DefaultHistogramBins)
	}
	if h.Enabled() {
		t.Error("new histogram should start disabled")
	}
}

func TestHistogram_SampleCountsEveryParticle(t *testing.T) {
	g := newTestGrid(t, 8)
	g.Add(components.Particle{Pos: r2.Vec{X: 1, Y: 1}, Vel: r2.Vec{X: 3, Y: 4}})    // 5
	g.Add(components.Particle{Pos: r2.Vec{X: 1, Y: 1}, Vel: r2.Vec{X: 0, Y: 0}})    // 0
	g.Add(components.Particle{Pos: r2.Vec{X: 15, Y: 3}, Vel: r2.Vec{X: 300, Y: 0}}) // clamps
	g.Add(components.Particle{Pos: r2.Vec{X: 9, Y: 18}, Vel: r2.Vec{X: 0, Y: -9}})  // 9

	h := NewHistogram(10, 10, 4) // bins of width 3 over [0, 30)
	h.Sample(g)

	want := []int{1, 1, 0, 1, 0, 0, 0, 0, 0, 1}
	for i, n := range h.Bins() {
		if n != want[i] {
			t.Errorf("bin %d = %d, want %d", i, n, want[i])
		}
	}

	// Resampling starts from zero.
	h.Sample(g)
	total := 0
	for _, n := range h.Bins() {
		total += n
	}
	if total != 4 {
		t.Errorf("total after resample = %d, want 4", total)
	}
}

func TestHistogram_Summary(t *testing.T) {
	g := newTestGrid(t, 4)
	g.Add(components.Particle{Pos: r2.Vec{X: 1, Y: 1}, Vel: r2.Vec{X: 3, Y: 4}})
	g.Add(components.Particle{Pos: r2.Vec{X: 5, Y: 5}, Vel: r2.Vec{X: 0, Y: 1}})

	h := NewHistogram(10, 10, 2)
	h.Sample(g)
	s := h.Summary()

	if s.Count != 2 {
		t.Errorf("count = %d, want 2", s.Count)
	}
	if math.Abs(s.MeanSpeed-3) > 1e-9 {
		t.Errorf("mean speed = %v, want 3", s.MeanSpeed)
	}
	// Sample standard deviation of {5, 1}.
	if math.Abs(s.StdDevSpeed-math.Sqrt(8)) > 1e-9 {
		t.Errorf("std speed = %v, want %v", s.StdDevSpeed, math.Sqrt(8))
	}
	if math.Abs(s.KineticEnergy-13) > 1e-9 {
		t.Errorf("kinetic energy = %v, want 13", s.KineticEnergy)
	}
}

func TestHistogram_SummaryEdgeCases(t *testing.T) {
	h := NewHistogram(10, 10, 1)
	if s := h.Summary(); s != (Summary{}) {
		t.Errorf("empty summary = %+v", s)
	}

	g := newTestGrid(t, 0)
	g.Add(components.Particle{Pos: r2.Vec{X: 1, Y: 1}, Vel: r2.Vec{X: 2}})
	h.Sample(g)
	s := h.Summary()
	if s.StdDevSpeed != 0 || math.IsNaN(s.StdDevSpeed) {
		t.Errorf("single-sample std = %v, want 0", s.StdDevSpeed)
	}
}
