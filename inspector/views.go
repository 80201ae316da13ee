package inspector

import (
	"math"

	"github.com/pthm-cable/gas/components"
	"github.com/pthm-cable/gas/systems"
)

// CellView summarises one grid cell.
type CellView struct {
	Cell      [2]int  `inspect:"skip"`
	Particles int     `inspect:"label"`
	MeanSpeed float64 `inspect:"label,fmt:%.2f"`
	Crowded   bool    `inspect:"bool"` // more particles than the cell can hold without overlap
}

// ParticleView is the displayed form of one particle.
type ParticleView struct {
	X        float64 `inspect:"label,fmt:%.2f"`
	Y        float64 `inspect:"label,fmt:%.2f"`
	Speed    float64 `inspect:"label,fmt:%.2f"`
	Relative float64 `inspect:"bar,max:2"` // speed over the gas mean speed
	Heading  float64 `inspect:"angle"`
}

// Collect reads the particles of cell (cx, cy), returning the cell summary
// and views of at most limit particles in chain order. meanSpeed is the gas
// mean speed used for ParticleView.Relative; zero leaves it unset.
func Collect(grid *systems.SpatialGrid, cx, cy, limit int, meanSpeed float64) (CellView, []ParticleView) {
	c, ok := grid.CellAt(cx, cy)
	if !ok {
		return CellView{}, nil
	}

	view := CellView{Cell: [2]int{cx, cy}}
	var views []ParticleView
	var speedSum float64
	cur := grid.Cursor(c)
	for cur.Next() {
		p := cur.Particle()
		speed := p.Speed()
		speedSum += speed
		view.Particles++
		if len(views) >= limit {
			continue
		}
		pv := ParticleView{
			X:       p.Pos.X,
			Y:       p.Pos.Y,
			Speed:   speed,
			Heading: math.Atan2(p.Vel.Y, p.Vel.X),
		}
		if meanSpeed > 0 {
			pv.Relative = speed / meanSpeed
		}
		views = append(views, pv)
	}
	if view.Particles > 0 {
		view.MeanSpeed = speedSum / float64(view.Particles)
	}
	view.Crowded = view.Particles > cellCapacity(grid)
	return view, views
}

// cellCapacity is how many touching particles fit a cell in a square packing.
func cellCapacity(grid *systems.SpatialGrid) int {
	w, h := grid.CellSize()
	d := 2 * components.ParticleRadius
	n := int(w/d) * int(h/d)
	if n < 1 {
		n = 1
	}
	return n
}
