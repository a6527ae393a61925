package kahan

import (
	"testing"

	"github.com/san-kum/grav2d/internal/geom"
)

func TestSumCompensates(t *testing.T) {
	// Adding many tiny values to a large one loses them under naive
	// accumulation but not under compensated accumulation.
	var s Sum
	s.Add(1e16)
	for i := 0; i < 1000; i++ {
		s.Add(1.0)
	}
	s.Add(-1e16)
	if got := s.Value(); got != 1000 {
		t.Errorf("compensated sum = %g, want 1000", got)
	}

	naive := 1e16
	for i := 0; i < 1000; i++ {
		naive += 1.0
	}
	naive -= 1e16
	if naive == 1000 {
		t.Skip("platform arithmetic does not expose the cancellation")
	}
}

func TestSumZeroValue(t *testing.T) {
	var s Sum
	if s.Value() != 0 {
		t.Errorf("zero sum = %g", s.Value())
	}
}

func TestNew(t *testing.T) {
	s := New(2.5)
	s.Add(0.5)
	if s.Value() != 3 {
		t.Errorf("New(2.5)+0.5 = %g", s.Value())
	}
}

func TestVec2Sum(t *testing.T) {
	var s Vec2Sum
	s.Add(geom.Vec2{X: 1e16, Y: -1e16})
	for i := 0; i < 100; i++ {
		s.Add(geom.Vec2{X: 1, Y: -1})
	}
	s.Add(geom.Vec2{X: -1e16, Y: 1e16})
	got := s.Value()
	if got.X != 100 || got.Y != -100 {
		t.Errorf("vector sum = %v, want {100 -100}", got)
	}
}
