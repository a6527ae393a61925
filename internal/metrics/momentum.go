package metrics

import (
	"github.com/san-kum/grav2d/internal/body"
	"github.com/san-kum/grav2d/internal/kahan"
)

// Momentum tracks the magnitude of the total linear momentum.
type Momentum struct {
	last float64
}

func NewMomentum() *Momentum { return &Momentum{} }

func (m *Momentum) Name() string { return "momentum" }

func (m *Momentum) Observe(particles []body.Particle, t float64) {
	var sum kahan.Vec2Sum
	for i := range particles {
		p := &particles[i]
		sum.Add(p.Vel.Scale(p.Mass))
	}
	m.last = sum.Value().Norm()
}

func (m *Momentum) Value() float64 { return m.last }
func (m *Momentum) Reset()         { m.last = 0 }

// AngularMomentum tracks the total angular momentum about the origin.
type AngularMomentum struct {
	last float64
}

func NewAngularMomentum() *AngularMomentum { return &AngularMomentum{} }

func (a *AngularMomentum) Name() string { return "angular_momentum" }

func (a *AngularMomentum) Observe(particles []body.Particle, t float64) {
	var sum kahan.Sum
	for i := range particles {
		p := &particles[i]
		sum.Add(p.Mass * p.Pos.Cross(p.Vel))
	}
	a.last = sum.Value()
}

func (a *AngularMomentum) Value() float64 { return a.last }
func (a *AngularMomentum) Reset()         { a.last = 0 }
