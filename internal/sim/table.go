package sim

import (
	"fmt"
	"sort"

	"github.com/san-kum/grav2d/internal/bhtree"
	"github.com/san-kum/grav2d/internal/body"
	"github.com/san-kum/grav2d/internal/geom"
	"github.com/san-kum/grav2d/internal/gravity"
	"github.com/san-kum/grav2d/internal/integrators"
	"github.com/san-kum/grav2d/internal/morton"
)

// Params collects the tunables of a particle table. The zero value is not
// usable; call DefaultParams and override.
type Params struct {
	// G is the gravitational constant passed to the kernel.
	G float64
	// TanAngle is the tangent of the opening half-angle for the tree
	// acceptance test. Zero forces exact pairwise summation.
	TanAngle float64
	// Precision is the fixed-point scale for position encoding.
	Precision float64
	// Integrator names the per-particle stepping scheme.
	Integrator string
	// Samples is the size of the quasi-random disk used for overlapping
	// source evaluation.
	Samples int
	// FarFieldCutoff removes particles farther than this from the origin.
	// Zero or negative disables the cutoff.
	FarFieldCutoff float64
	// ParticleCap bounds the table size; Add evicts the oldest particle
	// when full. Zero or negative means unbounded.
	ParticleCap int
	// Workers sets the parallelism of the integration sweep. Values
	// below 2 keep the sweep serial.
	Workers int
}

// DefaultParams returns G = 1, an opening-angle tangent of 0.5, the default
// Morton precision, velocity Verlet, 30 disk samples and a serial sweep, with
// no far-field cutoff and no particle cap.
func DefaultParams() Params {
	return Params{
		G:          1,
		TanAngle:   0.5,
		Precision:  morton.DefaultPrecision,
		Integrator: "velocity_verlet",
		Samples:    30,
		Workers:    1,
	}
}

// Table owns a set of particles and advances them through tree-accelerated
// gravity. It is not safe for concurrent use.
type Table struct {
	Particles []body.Particle

	params  Params
	kern    *gravity.Kernel
	scratch []body.Particle
}

// NewTable builds a table over the given particles. The particle slice is
// taken over, not copied.
func NewTable(particles []body.Particle, params Params) (*Table, error) {
	if _, err := integrators.New(params.Integrator, geom.Vec2{}, geom.Vec2{}); err != nil {
		return nil, err
	}
	if params.Precision <= 0 {
		return nil, fmt.Errorf("precision must be positive, got %g", params.Precision)
	}
	kern := gravity.New(params.Samples)
	kern.G = params.G
	return &Table{Particles: particles, params: params, kern: kern}, nil
}

// Params returns the table's configuration.
func (t *Table) Params() Params { return t.params }

// Len reports the current particle count.
func (t *Table) Len() int { return len(t.Particles) }

// Add appends a particle. When the table is at its cap the oldest particle
// is evicted first.
func (t *Table) Add(p body.Particle) {
	if limit := t.params.ParticleCap; limit > 0 && len(t.Particles) >= limit {
		n := copy(t.Particles, t.Particles[len(t.Particles)-limit+1:])
		t.Particles = t.Particles[:n]
	}
	t.Particles = append(t.Particles, p)
}

// Reset replaces the table's contents. The slice is taken over, not copied.
func (t *Table) Reset(particles []body.Particle) {
	t.Particles = particles
}

// Step advances every particle by dt. The force tree is frozen at the
// pre-step positions, so the sweep order does not affect the result and the
// sweep may run on several workers.
//
// After the sweep the quasi-random disk is refreshed and particles that left
// the far-field cutoff are dropped. A particle whose state became non-finite
// is also dropped and the step reports ErrUnstable; the surviving particles
// are still advanced and valid.
func (t *Table) Step(dt float64) error {
	if len(t.Particles) == 0 {
		return nil
	}

	for i := range t.Particles {
		p := &t.Particles[i]
		p.Code, p.HasCode = morton.Encode(p.Pos, t.params.Precision)
	}
	sort.SliceStable(t.Particles, func(i, j int) bool {
		a, b := &t.Particles[i], &t.Particles[j]
		if a.HasCode != b.HasCode {
			return a.HasCode
		}
		return a.HasCode && a.Code < b.Code
	})

	tree := bhtree.Build(t.Particles, func(p *body.Particle, mask uint64) (uint64, bool) {
		return morton.Masked(p.Code, p.HasCode, mask)
	})

	t.scratch = append(t.scratch[:0], t.Particles...)
	snapshot := t.scratch

	t.sweep(func(i int) {
		p := &t.Particles[i]
		radius := snapshot[i].Radius
		self := geom.Circle{Center: snapshot[i].Pos}
		probe := func(pos geom.Vec2) geom.Vec2 {
			// The tree holds this particle's own leaf at its pre-step
			// position. Accel skips that leaf only when pos equals it
			// exactly, so at a displaced trial position its pull is
			// removed here; at the undisplaced position Field yields zero.
			a := bhtree.Accel(tree, t.kern, pos, radius, t.params.TanAngle)
			own := t.kern.Field(geom.Circle{Center: pos, Radius: radius}, self, snapshot[i].Mass, 0)
			return a.Sub(own)
		}
		ig, _ := integrators.New(t.params.Integrator, snapshot[i].Pos, snapshot[i].Vel)
		ig.Step(dt, probe)
		p.Pos, p.Vel = ig.State()
	})

	t.kern.Refresh()

	var unstable bool
	kept := t.Particles[:0]
	for i := range t.Particles {
		p := t.Particles[i]
		if !p.Finite() {
			unstable = true
			continue
		}
		if c := t.params.FarFieldCutoff; c > 0 && p.Pos.SqNorm() > c*c {
			continue
		}
		kept = append(kept, p)
	}
	t.Particles = kept
	if unstable {
		return ErrUnstable
	}
	return nil
}

func (t *Table) sweep(fn func(i int)) {
	n := len(t.Particles)
	if t.params.Workers < 2 || n < 2 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}
	parallelFor(n, t.params.Workers, fn)
}
