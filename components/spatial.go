// Package components defines the plain data types shared by the simulation.
package components

import "gonum.org/v1/gonum/spatial/r2"

// ParticleRadius is the radius shared by every particle, in world units.
const ParticleRadius = 0.354

// InvalidX marks a grid storage slot that holds no particle.
// It lies outside every valid world, so a live particle never carries it.
const InvalidX = -1000.0

// Particle is a single gas molecule. Particles have no identity beyond the
// grid cell that currently stores them.
type Particle struct {
	Pos r2.Vec // world position
	Vel r2.Vec // world units per second
}

// IsEmpty reports whether the slot holding p is unoccupied.
func (p *Particle) IsEmpty() bool {
	return p.Pos.X == InvalidX
}

// Clear marks the slot holding p as unoccupied.
func (p *Particle) Clear() {
	p.Pos = r2.Vec{X: InvalidX}
	p.Vel = r2.Vec{}
}

// Speed returns the magnitude of the particle's velocity.
func (p *Particle) Speed() float64 {
	return r2.Norm(p.Vel)
}
