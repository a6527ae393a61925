package bhtree

import (
	"math"

	"github.com/san-kum/grav2d/internal/geom"
	"github.com/san-kum/grav2d/internal/gravity"
	"github.com/san-kum/grav2d/internal/kahan"
)

// Accel evaluates the gravitational acceleration at pos for an observer of
// the given radius by walking the tree with the Barnes-Hut acceptance test.
//
// A subtree is expanded when the observer sits inside its bounding circle or
// when the circle's viewing half-angle, approximated by its tangent, exceeds
// tanTheta. Accepted nodes are fed to the kernel as point sources; a
// single-particle node centered exactly at pos is the observer itself and is
// skipped. With tanTheta = 0 every multi-particle node is expanded and the
// walk degenerates to the exact pairwise sum.
func Accel(t *Tree, kern *gravity.Kernel, pos geom.Vec2, radius, tanTheta float64) geom.Vec2 {
	var acc kahan.Vec2Sum
	tan2 := tanTheta * tanTheta
	t.Walk(func(n *Node) Decision {
		g := &n.Agg
		if g.Center == pos && n.Len() == 1 {
			return Ignore
		}
		d2 := g.Center.Sub(pos).SqNorm()
		// The inside test precedes the angle test; a tie at the exact
		// boundary descends.
		if d2 <= g.Radius*g.Radius {
			return Deeper
		}
		if g.Radius*g.Radius > tan2*d2 {
			return Deeper
		}
		acc.Add(kern.Field(
			geom.Circle{Center: pos, Radius: radius},
			geom.Circle{Center: g.Center, Radius: g.Radius},
			g.Mass, math.Sqrt(d2),
		))
		return Ignore
	})
	return acc.Value()
}
