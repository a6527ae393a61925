package integrators

import "github.com/san-kum/grav2d/internal/geom"

// VelocityVerlet is the second-order symplectic velocity-Verlet scheme. Two
// probe evaluations per step.
type VelocityVerlet struct {
	Y0, Y1 geom.Vec2
}

func (v *VelocityVerlet) Step(h float64, accel Probe) {
	a := accel(v.Y0)
	v.Y0 = v.Y0.Add(v.Y1.Scale(h)).Add(a.Scale(0.5 * h * h))
	b := accel(v.Y0)
	v.Y1 = v.Y1.Add(a.Add(b).Scale(0.5 * h))
}

func (v *VelocityVerlet) State() (geom.Vec2, geom.Vec2) { return v.Y0, v.Y1 }
