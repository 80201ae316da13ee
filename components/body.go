package components

import "gonum.org/v1/gonum/spatial/r2"

// WallSphere is one sample of a wall surface. All spheres share the same
// radius, so only the centre and the outward surface normal are stored.
// A string of overlapping spheres traces the outline of every wall.
type WallSphere struct {
	Pos    r2.Vec // centre in world coordinates
	Normal r2.Vec // unit normal pointing away from the wall
}
