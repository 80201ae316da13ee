package systems

import (
	"log/slog"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultHistogramBins is the bin count used when none is configured.
const DefaultHistogramBins = 20

// Histogram counts particle speeds into fixed linear bins over
// [0, 3*maxInitialSpeed). It only observes the grid and never feeds back
// into the physics.
type Histogram struct {
	bins     []int
	speeds   []float64 // scratch, preallocated to the population
	maxSpeed float64   // upper edge of the last bin
	enabled  bool
}

// NewHistogram creates a disabled histogram with the given number of bins.
func NewHistogram(bins int, maxInitialSpeed float64, population int) *Histogram {
	if bins <= 0 {
		bins = DefaultHistogramBins
	}
	return &Histogram{
		bins:     make([]int, bins),
		speeds:   make([]float64, 0, population),
		maxSpeed: 3 * maxInitialSpeed,
	}
}

// SetEnabled turns sampling on or off. Disabling keeps the last counts.
func (h *Histogram) SetEnabled(on bool) {
	h.enabled = on
}

// Enabled reports whether the histogram samples each tick.
func (h *Histogram) Enabled() bool {
	return h.enabled
}

// Bins returns the counts from the most recent sample. The slice is owned by
// the histogram and is overwritten on the next sample.
func (h *Histogram) Bins() []int {
	return h.bins
}

// BinRange returns the speed interval [lo, hi) covered by bin i.
func (h *Histogram) BinRange(i int) (lo, hi float64) {
	w := h.maxSpeed / float64(len(h.bins))
	return float64(i) * w, float64(i+1) * w
}

// BinFor returns the bin index for a speed, clamped to the valid range.
func (h *Histogram) BinFor(speed float64) int {
	n := len(h.bins)
	i := int(float64(n) * speed / h.maxSpeed)
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// Sample recomputes the counts from zero using every particle in g.
func (h *Histogram) Sample(g *SpatialGrid) {
	for i := range h.bins {
		h.bins[i] = 0
	}
	h.speeds = h.speeds[:0]

	for c := range g.cells {
		if g.cells[c].p.IsEmpty() {
			continue
		}
		for cur := g.Cursor(Cell(c)); cur.Next(); {
			s := cur.Particle().Speed()
			h.bins[h.BinFor(s)]++
			h.speeds = append(h.speeds, s)
		}
	}
}

// Summary describes the speed distribution of the most recent sample.
type Summary struct {
	Count         int
	MeanSpeed     float64
	StdDevSpeed   float64
	KineticEnergy float64 // sum of v²/2 with unit mass
}

// Summary returns statistics for the most recent sample.
func (h *Histogram) Summary() Summary {
	if len(h.speeds) == 0 {
		return Summary{}
	}
	mean, std := stat.MeanStdDev(h.speeds, nil)
	if len(h.speeds) == 1 {
		std = 0
	}
	return Summary{
		Count:         len(h.speeds),
		MeanSpeed:     mean,
		StdDevSpeed:   std,
		KineticEnergy: 0.5 * floats.Dot(h.speeds, h.speeds),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("count", s.Count),
		slog.Float64("mean_speed", s.MeanSpeed),
		slog.Float64("std_speed", s.StdDevSpeed),
		slog.Float64("kinetic_energy", s.KineticEnergy),
	)
}
