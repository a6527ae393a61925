package sim

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/grav2d/internal/body"
	"github.com/san-kum/grav2d/internal/geom"
	"github.com/san-kum/grav2d/internal/kahan"
)

func figure8() []body.Particle {
	c0 := geom.Vec2{X: -0.97000436, Y: 0.24308753}
	v0 := geom.Vec2{X: 0.4662036850, Y: 0.4323657300}
	v1 := geom.Vec2{X: -0.93240737, Y: -0.86473146}
	return []body.Particle{
		{Pos: c0, Vel: v0, Mass: 1, Radius: 1e-3},
		{Pos: geom.Vec2{}, Vel: v1, Mass: 1, Radius: 1e-3},
		{Pos: c0.Scale(-1), Vel: v0, Mass: 1, Radius: 1e-3},
	}
}

func exactParams() Params {
	p := DefaultParams()
	p.TanAngle = 0 // expand everything
	return p
}

func TestStepEmptyTable(t *testing.T) {
	tb, err := NewTable(nil, DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if err := tb.Step(0.01); err != nil {
		t.Errorf("empty step: %v", err)
	}
}

func TestNewTableRejectsBadParams(t *testing.T) {
	p := DefaultParams()
	p.Integrator = "rk45"
	if _, err := NewTable(nil, p); err == nil {
		t.Error("unknown integrator accepted")
	}
	p = DefaultParams()
	p.Precision = 0
	if _, err := NewTable(nil, p); err == nil {
		t.Error("zero precision accepted")
	}
}

func TestFigure8ClosesOnItself(t *testing.T) {
	// The three-body figure-eight choreography has period near 6.32. After
	// one period each body returns close to some initial position.
	p := exactParams()
	p.Integrator = "yoshida4"
	tb, err := NewTable(figure8(), p)
	if err != nil {
		t.Fatal(err)
	}
	initial := figure8()

	dt := 0.04
	for i := 0; i < 158; i++ {
		if err := tb.Step(dt); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	if tb.Len() != 3 {
		t.Fatalf("particle count %d, want 3", tb.Len())
	}
	for i := range tb.Particles {
		best := math.Inf(1)
		for j := range initial {
			if d := tb.Particles[i].Pos.Sub(initial[j].Pos).Norm(); d < best {
				best = d
			}
		}
		if best > 0.1 {
			t.Errorf("body %d ended %g away from every initial position", i, best)
		}
	}
}

func TestStepMatchesPairwiseSum(t *testing.T) {
	// One exact-angle tree step must agree with a direct pairwise
	// integration of the same initial conditions.
	rng := rand.New(rand.NewSource(3))
	n := 80
	initial := make([]body.Particle, n)
	for i := range initial {
		initial[i] = body.Particle{
			Pos:    geom.Vec2{X: rng.NormFloat64() * 20, Y: rng.NormFloat64() * 20},
			Vel:    geom.Vec2{X: rng.NormFloat64(), Y: rng.NormFloat64()},
			Mass:   rng.Float64() + 0.5,
			Radius: 1e-4,
		}
	}

	tb, err := NewTable(append([]body.Particle(nil), initial...), exactParams())
	if err != nil {
		t.Fatal(err)
	}
	if err := tb.Step(0.01); err != nil {
		t.Fatal(err)
	}

	// Direct velocity-Verlet on the same snapshot.
	accel := func(ps []body.Particle, pos geom.Vec2, self int) geom.Vec2 {
		var acc kahan.Vec2Sum
		for j := range ps {
			if j == self {
				continue
			}
			d := ps[j].Pos.Sub(pos)
			r := d.Norm()
			acc.Add(d.Scale(ps[j].Mass / (r * r * r)))
		}
		return acc.Value()
	}
	want := make([]body.Particle, n)
	copy(want, initial)
	h := 0.01
	for i := range want {
		a := accel(initial, want[i].Pos, i)
		want[i].Pos = want[i].Pos.Add(want[i].Vel.Scale(h)).Add(a.Scale(0.5 * h * h))
		b := accel(initial, want[i].Pos, i)
		want[i].Vel = want[i].Vel.Add(a.Add(b).Scale(0.5 * h))
	}

	for i := range want {
		found := false
		for j := range tb.Particles {
			if tb.Particles[j].Pos.Sub(want[i].Pos).Norm() < 1e-3 &&
				tb.Particles[j].Vel.Sub(want[i].Vel).Norm() < 1e-3 {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("no tree-stepped particle matches direct result %d", i)
		}
	}
}

func TestStepReportsUnstable(t *testing.T) {
	ps := figure8()
	ps[1].Vel = geom.Vec2{X: math.NaN()}
	tb, err := NewTable(ps, exactParams())
	if err != nil {
		t.Fatal(err)
	}
	err = tb.Step(0.01)
	if !errors.Is(err, ErrUnstable) {
		t.Fatalf("step error = %v, want ErrUnstable", err)
	}
	// The poisoned particle is gone; survivors are finite.
	for i := range tb.Particles {
		if !tb.Particles[i].Finite() {
			t.Errorf("particle %d still non-finite after eviction", i)
		}
	}
	if tb.Len() >= 3 {
		t.Errorf("particle count %d after eviction, want < 3", tb.Len())
	}
}

func TestFarFieldEviction(t *testing.T) {
	p := exactParams()
	p.FarFieldCutoff = 100
	ps := figure8()
	ps = append(ps, body.Particle{Pos: geom.Vec2{X: 150}, Vel: geom.Vec2{}, Mass: 1e-12, Radius: 1e-3})
	tb, err := NewTable(ps, p)
	if err != nil {
		t.Fatal(err)
	}
	if err := tb.Step(0.001); err != nil {
		t.Fatal(err)
	}
	if tb.Len() != 3 {
		t.Errorf("particle count %d, want 3 after far-field removal", tb.Len())
	}
	for i := range tb.Particles {
		if tb.Particles[i].Pos.Norm() > 100 {
			t.Errorf("particle %d beyond the cutoff survived", i)
		}
	}
}

func TestAddRespectsCap(t *testing.T) {
	p := DefaultParams()
	p.ParticleCap = 3
	tb, err := NewTable(nil, p)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		tb.Add(body.Particle{Pos: geom.Vec2{X: float64(i)}, Mass: 1, Radius: 1e-3})
	}
	if tb.Len() != 3 {
		t.Fatalf("len = %d, want 3", tb.Len())
	}
	// Oldest evicted first: positions 2, 3, 4 remain.
	for i, want := range []float64{2, 3, 4} {
		if tb.Particles[i].Pos.X != want {
			t.Errorf("slot %d holds x=%g, want %g", i, tb.Particles[i].Pos.X, want)
		}
	}
}

func TestStepParallelMatchesSerial(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	ps := make([]body.Particle, 100)
	for i := range ps {
		ps[i] = body.Particle{
			Pos:    geom.Vec2{X: rng.NormFloat64() * 10, Y: rng.NormFloat64() * 10},
			Mass:   1,
			Radius: 1e-4,
		}
	}
	serialPs := append([]body.Particle(nil), ps...)
	parallelPs := append([]body.Particle(nil), ps...)

	serial := DefaultParams()
	serial.Workers = 1
	par := DefaultParams()
	par.Workers = 4

	a, err := NewTable(serialPs, serial)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewTable(parallelPs, par)
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Step(0.01); err != nil {
		t.Fatal(err)
	}
	if err := b.Step(0.01); err != nil {
		t.Fatal(err)
	}
	for i := range a.Particles {
		if a.Particles[i].Pos != b.Particles[i].Pos || a.Particles[i].Vel != b.Particles[i].Vel {
			t.Fatalf("worker count changed the result at particle %d", i)
		}
	}
}

func TestRunnerResetsOnInstability(t *testing.T) {
	ps := figure8()
	ps[0].Vel = geom.Vec2{X: math.Inf(1)}
	tb, err := NewTable(ps, exactParams())
	if err != nil {
		t.Fatal(err)
	}
	r := &Runner{
		Table:   tb,
		Dt:      0.01,
		Steps:   5,
		ResetFn: figure8,
	}
	res, err := r.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Resets != 1 {
		t.Errorf("resets = %d, want 1", res.Resets)
	}
	if res.StepsTaken != 5 {
		t.Errorf("steps taken = %d, want 5", res.StepsTaken)
	}
	if tb.Len() != 3 {
		t.Errorf("table was not reset: %d particles", tb.Len())
	}
}

func TestRunnerHonorsContext(t *testing.T) {
	tb, err := NewTable(figure8(), exactParams())
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &Runner{Table: tb, Dt: 0.01, Steps: 1000}
	if _, err := r.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("run error = %v, want context.Canceled", err)
	}
}
