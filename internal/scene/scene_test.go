package scene

import (
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/grav2d/internal/kahan"
)

func TestNewKnowsEveryName(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, name := range Names() {
		ps, err := New(name, rng, 100)
		if err != nil {
			t.Fatalf("New(%q): %v", name, err)
		}
		if len(ps) == 0 {
			t.Errorf("scene %q is empty", name)
		}
	}
	if _, err := New("nope", rng, 100); err == nil {
		t.Error("unknown scene accepted")
	}
}

func TestFigure8Symmetry(t *testing.T) {
	ps := Figure8()
	if len(ps) != 3 {
		t.Fatalf("figure8 has %d bodies, want 3", len(ps))
	}
	// Outer bodies mirror through the origin; the middle one sits on it.
	if ps[0].Pos.Add(ps[2].Pos).Norm() > 1e-12 {
		t.Errorf("outer bodies not mirrored: %v vs %v", ps[0].Pos, ps[2].Pos)
	}
	if ps[1].Pos.Norm() != 0 {
		t.Errorf("middle body off origin: %v", ps[1].Pos)
	}
	// Total momentum vanishes.
	var mom kahan.Vec2Sum
	for i := range ps {
		mom.Add(ps[i].Vel.Scale(ps[i].Mass))
	}
	if mom.Value().Norm() > 1e-7 {
		t.Errorf("net momentum %v", mom.Value())
	}
}

func TestOrbitCircular(t *testing.T) {
	ps := Orbit()
	if len(ps) != 2 {
		t.Fatalf("orbit has %d bodies, want 2", len(ps))
	}
	r := ps[1].Pos.Sub(ps[0].Pos).Norm()
	v := ps[1].Vel.Norm()
	// Circular orbit speed: v^2 = G M / r with G = M = r = 1.
	if math.Abs(r-1) > 1e-12 || math.Abs(v-1) > 1e-12 {
		t.Errorf("r = %g, v = %g; want 1, 1", r, v)
	}
	if ps[1].Pos.Dot(ps[1].Vel) != 0 {
		t.Errorf("velocity not tangential")
	}
	if ps[1].Mass >= ps[0].Mass {
		t.Errorf("satellite mass %g not below primary %g", ps[1].Mass, ps[0].Mass)
	}
}

func TestGalaxiesRespectsLimit(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	ps := Galaxies(rng, 500)
	if len(ps) == 0 || len(ps) > 500 {
		t.Fatalf("galaxies produced %d particles, want 1..500", len(ps))
	}
	for i := range ps {
		if ps[i].Mass <= 0 || ps[i].Radius <= 0 {
			t.Fatalf("particle %d has mass %g, radius %g", i, ps[i].Mass, ps[i].Radius)
		}
		if !ps[i].Finite() {
			t.Fatalf("particle %d non-finite", i)
		}
	}
}

func TestGalaxiesDeterministicPerSeed(t *testing.T) {
	a := Galaxies(rand.New(rand.NewSource(7)), 200)
	b := Galaxies(rand.New(rand.NewSource(7)), 200)
	if len(a) != len(b) {
		t.Fatalf("sizes differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("particle %d differs between identical seeds", i)
		}
	}
}
