// Package metrics provides step-wise observables over a particle set.
package metrics

import (
	"github.com/san-kum/grav2d/internal/body"
	"github.com/san-kum/grav2d/internal/kahan"
)

// Energy tracks the total mechanical energy of the particle set, kinetic
// plus pairwise gravitational potential.
type Energy struct {
	G    float64
	last float64
}

func NewEnergy(g float64) *Energy { return &Energy{G: g} }

func (e *Energy) Name() string { return "energy" }

func (e *Energy) Observe(particles []body.Particle, t float64) {
	e.last = TotalEnergy(particles, e.G)
}

func (e *Energy) Value() float64 { return e.last }
func (e *Energy) Reset()         { e.last = 0 }

// TotalEnergy computes the exact pairwise energy of the set. Coincident
// pairs contribute no potential.
func TotalEnergy(particles []body.Particle, g float64) float64 {
	var sum kahan.Sum
	for i := range particles {
		p := &particles[i]
		sum.Add(0.5 * p.Mass * p.Vel.SqNorm())
	}
	for i := range particles {
		for j := i + 1; j < len(particles); j++ {
			r := particles[j].Pos.Sub(particles[i].Pos).Norm()
			if r == 0 {
				continue
			}
			sum.Add(-g * particles[i].Mass * particles[j].Mass / r)
		}
	}
	return sum.Value()
}

// EnergyDrift reports the relative departure of the current energy from the
// first observed value. A well behaved symplectic run keeps this small.
type EnergyDrift struct {
	G       float64
	initial float64
	primed  bool
	last    float64
}

func NewEnergyDrift(g float64) *EnergyDrift { return &EnergyDrift{G: g} }

func (d *EnergyDrift) Name() string { return "energy_drift" }

func (d *EnergyDrift) Observe(particles []body.Particle, t float64) {
	e := TotalEnergy(particles, d.G)
	if !d.primed {
		d.initial = e
		d.primed = true
	}
	if d.initial != 0 {
		d.last = (e - d.initial) / d.initial
	} else {
		d.last = e - d.initial
	}
}

func (d *EnergyDrift) Value() float64 { return d.last }
func (d *EnergyDrift) Reset()         { *d = EnergyDrift{G: d.G} }
