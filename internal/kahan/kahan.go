// Package kahan implements compensated summation. The compensation term
// relies on small non-zero differences surviving, so subnormal numbers must
// not be flushed to zero.
package kahan

import "github.com/san-kum/grav2d/internal/geom"

// Sum accumulates float64 values with a running error term.
type Sum struct {
	s, e float64
}

// New returns an accumulator primed with an initial value.
func New(v float64) Sum { return Sum{s: v} }

func (k *Sum) Add(v float64) {
	y := v - k.e
	t := k.s + y
	k.e = (t - k.s) - y
	k.s = t
}

func (k *Sum) Value() float64 { return k.s }

// Vec2Sum accumulates 2-D vectors componentwise.
type Vec2Sum struct {
	x, y Sum
}

func (k *Vec2Sum) Add(v geom.Vec2) {
	k.x.Add(v.X)
	k.y.Add(v.Y)
}

func (k *Vec2Sum) Value() geom.Vec2 {
	return geom.Vec2{X: k.x.Value(), Y: k.y.Value()}
}
