package integrators

import (
	"math"

	"github.com/san-kum/grav2d/internal/geom"
)

// Coefficients of the fourth-order Yoshida composition.
var (
	cbrt2 = math.Cbrt(2)
	w0    = -cbrt2 / (2 - cbrt2)
	w1    = 1 / (2 - cbrt2)
	c1    = w1 / 2
	c2    = (w0 + w1) / 2
)

// Yoshida4 is the fourth-order symplectic Yoshida scheme. Three probe
// evaluations per step.
type Yoshida4 struct {
	Y0, Y1 geom.Vec2
}

func (y *Yoshida4) Step(h float64, accel Probe) {
	y.Y0 = y.Y0.Add(y.Y1.Scale(c1 * h))
	y.Y1 = y.Y1.Add(accel(y.Y0).Scale(w1 * h))
	y.Y0 = y.Y0.Add(y.Y1.Scale(c2 * h))
	y.Y1 = y.Y1.Add(accel(y.Y0).Scale(w0 * h))
	y.Y0 = y.Y0.Add(y.Y1.Scale(c2 * h))
	y.Y1 = y.Y1.Add(accel(y.Y0).Scale(w1 * h))
	y.Y0 = y.Y0.Add(y.Y1.Scale(c1 * h))
}

func (y *Yoshida4) State() (geom.Vec2, geom.Vec2) { return y.Y0, y.Y1 }
