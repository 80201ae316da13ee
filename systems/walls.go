package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/gas/components"
)

// DefaultWallSphereRadius is the radius shared by every wall sphere.
const DefaultWallSphereRadius = 1.5

// WallSystem reflects particles off static walls. Each wall surface sample
// is an entity carrying a WallSphere component.
type WallSystem struct {
	world  *ecs.World
	mapper *ecs.Map1[components.WallSphere]
	filter *ecs.Filter1[components.WallSphere]
	radius float64
	count  int
}

// NewWallSystem creates an empty wall system with the given sphere radius.
func NewWallSystem(radius float64) *WallSystem {
	if radius <= 0 {
		radius = DefaultWallSphereRadius
	}
	world := ecs.NewWorld()
	return &WallSystem{
		world:  world,
		mapper: ecs.NewMap1[components.WallSphere](world),
		filter: ecs.NewFilter1[components.WallSphere](world),
		radius: radius,
	}
}

// NewWallSystemFromMask creates a wall system with one sphere per surface
// pixel of the mask.
func NewWallSystemFromMask(mask *WallMask, radius float64) *WallSystem {
	s := NewWallSystem(radius)
	for _, ws := range mask.SurfaceSpheres() {
		s.AddSphere(ws)
	}
	return s
}

// AddSphere adds one wall surface sample.
func (s *WallSystem) AddSphere(ws components.WallSphere) {
	s.mapper.NewEntity(&ws)
	s.count++
}

// Count returns the number of wall spheres.
func (s *WallSystem) Count() int {
	return s.count
}

// Radius returns the shared sphere radius.
func (s *WallSystem) Radius() float64 {
	return s.radius
}

// Each calls fn for every wall sphere.
func (s *WallSystem) Each(fn func(ws *components.WallSphere)) {
	query := s.filter.Query()
	for query.Next() {
		fn(query.Get())
	}
}

// Collide reflects every particle touching a wall sphere and moving into the
// wall. Particles already moving away from the surface are left alone, so a
// particle touching several spheres is reflected at most once per normal.
// Only velocities change; positions are never moved here.
func (s *WallSystem) Collide(g *SpatialGrid) int {
	reach := s.radius + components.ParticleRadius
	reachSq := reach * reach
	bounces := 0

	query := s.filter.Query()
	for query.Next() {
		ws := query.Get()

		cx0, cy0, cx1, cy1 := g.CellRange(ws.Pos.X-reach, ws.Pos.Y-reach, ws.Pos.X+reach, ws.Pos.Y+reach)
		for cy := cy0; cy <= cy1; cy++ {
			for cx := cx0; cx <= cx1; cx++ {
				cell := Cell(cy*g.resX + cx)
				for cur := g.Cursor(cell); cur.Next(); {
					p := cur.Particle()
					if r2.Norm2(r2.Sub(ws.Pos, p.Pos)) >= reachSq {
						continue
					}
					dp := r2.Dot(p.Vel, ws.Normal)
					if dp < 0 {
						p.Vel = r2.Sub(p.Vel, r2.Scale(2*dp, ws.Normal))
						bounces++
					}
				}
			}
		}
	}
	return bounces
}
