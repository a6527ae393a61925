package bhtree

import (
	"github.com/san-kum/grav2d/internal/body"
	"github.com/san-kum/grav2d/internal/geom"
)

// Aggregate summarizes a contiguous run of particles: total mass, the
// mass-weighted center, and a radius bounding every particle in the run. The
// zero value is the empty aggregate.
type Aggregate struct {
	Center geom.Vec2
	Radius float64
	Mass   float64
}

// NewAggregate computes the summary of a non-empty run of particles.
func NewAggregate(particles []body.Particle) Aggregate {
	var a Aggregate
	if len(particles) == 1 {
		// The exact position matters here: the traversal identifies the
		// observer's own leaf by comparing centers bit for bit, and the
		// round trip through the weighted mean may perturb the value.
		a.Center = particles[0].Pos
		a.Mass = particles[0].Mass
		return a
	}
	var wx, wy float64
	for i := range particles {
		p := &particles[i]
		a.Mass += p.Mass
		wx += p.Mass * p.Pos.X
		wy += p.Mass * p.Pos.Y
	}
	a.Center = geom.Vec2{X: wx / a.Mass, Y: wy / a.Mass}
	for i := range particles {
		if r := particles[i].Pos.Sub(a.Center).Norm(); r > a.Radius {
			a.Radius = r
		}
	}
	return a
}

// Merge folds b into a. The radius rule is asymmetric: the merged radius is
// the larger of a's radius and b's radius expanded by the distance from b's
// center to the merged center. a's radius is not expanded by the shift of
// the center, so when the center moves toward a heavier b, particles of a
// can lie outside the merged radius.
func (a *Aggregate) Merge(b *Aggregate) {
	if a == b {
		// Merging with self doubles the mass.
		a.Mass += a.Mass
		return
	}
	sum := a.Mass + b.Mass
	c := a.Center.Scale(a.Mass / sum).Add(b.Center.Scale(b.Mass / sum))
	a.Center = c
	a.Mass = sum
	if r := b.Radius + b.Center.Sub(c).Norm(); r > a.Radius {
		a.Radius = r
	}
}
