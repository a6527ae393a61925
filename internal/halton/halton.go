// Package halton produces low-discrepancy sequences and a quasi-random
// sampling of the unit disk.
package halton

import (
	"sort"

	"github.com/san-kum/grav2d/internal/geom"
)

// indexLimit bounds the sequence index; past it, the index wraps around.
const indexLimit = 0x1000

// At returns the i-th term of the Halton sequence with the given base by
// folding the base-b digits of i into [0, 1).
func At(i, base int) float64 {
	r, f := 0.0, 1.0
	for i > 0 {
		f /= float64(base)
		r += f * float64(i%base)
		i /= base
	}
	return r
}

// Sequence iterates a Halton sequence. The zero value is not ready for use;
// construct with NewSequence.
type Sequence struct {
	base int
	i    int
}

func NewSequence(base int) *Sequence { return &Sequence{base: base} }

// Next advances the sequence and returns the next term in [0, 1).
func (s *Sequence) Next() float64 {
	s.i = s.i%indexLimit + 1
	return At(s.i, s.base)
}

// DefaultDiskSize is the number of cached disk samples.
const DefaultDiskSize = 30

// Disk caches quasi-random points on the open unit disk. The points feed the
// Monte-Carlo branch of the gravity kernel; callers refresh the buffer
// between simulation steps so the same sample set does not bias the result
// over many steps.
type Disk struct {
	h2, h3 *Sequence
	Points []geom.Vec2
}

// NewDisk returns a disk with n cached samples (DefaultDiskSize if n <= 0).
func NewDisk(n int) *Disk {
	if n <= 0 {
		n = DefaultDiskSize
	}
	d := &Disk{
		h2:     NewSequence(2),
		h3:     NewSequence(3),
		Points: make([]geom.Vec2, n),
	}
	// Skip the early, strongly correlated terms.
	for i := 0; i < 1234; i++ {
		d.h2.Next()
		d.h3.Next()
	}
	d.Refresh()
	return d
}

// Refresh replaces every cached point by rejection-sampling the unit square
// onto the open unit disk. The result is deterministic given the internal
// sequence indices.
func (d *Disk) Refresh() {
	for i := range d.Points {
		for {
			p := geom.Vec2{
				X: 2*d.h2.Next() - 1,
				Y: 2*d.h3.Next() - 1,
			}
			if p.SqNorm() < 1 {
				d.Points[i] = p
				break
			}
		}
	}
	// Sorting along one axis makes the kernel's inside/outside branch more
	// predictable.
	sort.Slice(d.Points, func(i, j int) bool {
		return d.Points[i].X < d.Points[j].X
	})
}
