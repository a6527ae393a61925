// Package gravity computes the Newtonian attraction between pairs of
// circular masses.
package gravity

import (
	"github.com/san-kum/grav2d/internal/geom"
	"github.com/san-kum/grav2d/internal/halton"
)

// Kernel evaluates the gravitational field of one circle at another. Disjoint
// circles interact as point masses; overlapping circles fall back to a
// Monte-Carlo integration over a cached quasi-random disk, applying Newton's
// shell theorem pointwise.
type Kernel struct {
	// G is the universal gravitational constant.
	G float64

	disk *halton.Disk
}

// New returns a kernel with G = 1 and the given number of Monte-Carlo
// samples (halton.DefaultDiskSize if samples <= 0).
func New(samples int) *Kernel {
	return &Kernel{G: 1, disk: halton.NewDisk(samples)}
}

// Refresh re-draws the sample disk. Call between simulation steps so a fixed
// sample set does not introduce a systematic offset.
func (k *Kernel) Refresh() { k.disk.Refresh() }

// Samples returns the number of cached disk samples.
func (k *Kernel) Samples() int { return len(k.disk.Points) }

// Field returns the acceleration of a test particle occupying the observer
// circle due to a source circle of the given mass. If dist is positive it is
// taken as the precomputed center distance; otherwise the distance is
// derived from the circle centers. Coincident centers yield zero.
func (k *Kernel) Field(observer, source geom.Circle, mass, dist float64) geom.Vec2 {
	delta := source.Center.Sub(observer.Center)
	r := dist
	if r <= 0 {
		r = delta.Norm()
	}
	if r == 0 {
		return geom.Vec2{}
	}
	if source.Radius+observer.Radius <= r {
		// Disjoint: both bodies act as point masses.
		return delta.Scale(k.G * mass / (r * r * r))
	}
	return k.overlap(observer.Radius, source, delta, mass)
}

// overlap averages the field over sample points spread across the observer's
// disk. Samples landing inside the source contribute nothing: within a
// radially symmetric body the shell contributions cancel.
func (k *Kernel) overlap(r0 float64, source geom.Circle, delta geom.Vec2, mass float64) geom.Vec2 {
	var sum geom.Vec2
	for _, p := range k.disk.Points {
		q := delta.Sub(p.Scale(r0))
		qr := q.Norm()
		if qr > source.Radius {
			s := 1 / qr
			sum = sum.Add(q.Scale(s * s * s))
		}
	}
	return sum.Scale(k.G * mass / float64(len(k.disk.Points)))
}
