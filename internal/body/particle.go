// Package body defines the particle type shared by the tree builder and the
// simulation driver.
package body

import "github.com/san-kum/grav2d/internal/geom"

// Particle is a circular mass with kinematic state. Its identity is stable
// within one simulation step; position and velocity change across steps.
// Code caches the particle's Morton key for the current step; HasCode is
// false when the position falls outside the representable grid.
type Particle struct {
	Pos    geom.Vec2 `json:"pos"`
	Vel    geom.Vec2 `json:"vel"`
	Mass   float64   `json:"mass"`
	Radius float64   `json:"radius"`

	Code    uint64 `json:"-"`
	HasCode bool   `json:"-"`
}

// New returns a particle with the given state. Mass and radius must be
// finite and positive.
func New(pos, vel geom.Vec2, mass, radius float64) Particle {
	return Particle{Pos: pos, Vel: vel, Mass: mass, Radius: radius}
}

// Circle returns the disk the particle occupies.
func (p Particle) Circle() geom.Circle {
	return geom.Circle{Center: p.Pos, Radius: p.Radius}
}

// Finite reports whether position and velocity are free of NaN and Inf.
func (p Particle) Finite() bool {
	return p.Pos.IsFinite() && p.Vel.IsFinite()
}
