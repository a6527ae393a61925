// Package integrators provides symplectic steppers for a single body under
// a positional acceleration probe.
package integrators

import (
	"fmt"

	"github.com/san-kum/grav2d/internal/geom"
)

// Probe evaluates the acceleration at a position. Within one step it must be
// a pure function of position; the driver guarantees this by freezing the
// force tree for the duration of the step.
type Probe func(pos geom.Vec2) geom.Vec2

// Integrator advances a (position, velocity) pair by a step of size h,
// calling the probe at one or more trial positions.
type Integrator interface {
	Step(h float64, accel Probe)
	State() (pos, vel geom.Vec2)
}

// New returns the named integrator primed with the given state.
func New(name string, pos, vel geom.Vec2) (Integrator, error) {
	switch name {
	case "verlet", "velocity_verlet":
		return &VelocityVerlet{Y0: pos, Y1: vel}, nil
	case "yoshida4":
		return &Yoshida4{Y0: pos, Y1: vel}, nil
	default:
		return nil, fmt.Errorf("unknown integrator %q", name)
	}
}

// Names lists the accepted integrator names.
func Names() []string { return []string{"velocity_verlet", "yoshida4"} }
