package sim

import (
	"context"
	"errors"

	"github.com/san-kum/grav2d/internal/body"
)

// Metric samples a scalar from the particle set after each step.
type Metric interface {
	Name() string
	Observe(particles []body.Particle, t float64)
	Value() float64
	Reset()
}

// Observer is notified after every completed step.
type Observer interface {
	OnStep(step int, t float64, particles []body.Particle)
}

// Runner drives a table for a fixed number of steps, feeding metrics and
// observers along the way.
type Runner struct {
	Table    *Table
	Dt       float64
	Steps    int
	Metrics  []Metric
	Observer Observer

	// ResetFn, when set, supplies fresh initial conditions after an
	// unstable step. When nil instability aborts the run.
	ResetFn func() []body.Particle
}

// Result summarizes a completed run.
type Result struct {
	StepsTaken int
	Resets     int
	Metrics    map[string]float64
}

// Run executes the configured number of steps or until the context is
// canceled, whichever comes first.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	res := Result{Metrics: make(map[string]float64)}
	t := 0.0
	for step := 0; step < r.Steps; step++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		err := r.Table.Step(r.Dt)
		if err != nil {
			if !errors.Is(err, ErrUnstable) || r.ResetFn == nil {
				return res, err
			}
			r.Table.Reset(r.ResetFn())
			res.Resets++
			for _, m := range r.Metrics {
				m.Reset()
			}
		}
		t += r.Dt
		res.StepsTaken++
		for _, m := range r.Metrics {
			m.Observe(r.Table.Particles, t)
			res.Metrics[m.Name()] = m.Value()
		}
		if r.Observer != nil {
			r.Observer.OnStep(step, t, r.Table.Particles)
		}
	}
	return res, nil
}
