package solver

import (
	"testing"

	"github.com/RomanSalimgareev/friction-problem/internal/fem"
	"github.com/RomanSalimgareev/friction-problem/internal/friction"
	"github.com/RomanSalimgareev/friction-problem/internal/initial"
)

// buildProblem assembles the default element with a lumped mass matrix.
func buildProblem(e fem.Element, mode friction.Mode, c initial.Conditions) (Problem, error) {
	k, err := fem.Stiffness(e)
	if err != nil {
		return Problem{}, err
	}
	m, err := fem.Mass(e, fem.Lumped)
	if err != nil {
		return Problem{}, err
	}
	st, err := initial.Build(k, c)
	if err != nil {
		return Problem{}, err
	}
	return Problem{Stiffness: k, Mass: m, Initial: st, Friction: friction.DefaultParams(mode)}, nil
}

func mustProblem(t testing.TB, mode friction.Mode, c initial.Conditions) Problem {
	t.Helper()
	p, err := buildProblem(fem.DefaultElement(), mode, c)
	if err != nil {
		t.Fatalf("build problem: %v", err)
	}
	return p
}

type countingObserver struct {
	steps  int
	sticks int
}

func (o *countingObserver) OnStep(s StepInfo) {
	o.steps++
	if s.Decision.Stick {
		o.sticks++
	}
}

type lastTime struct{ t float64 }

func (m *lastTime) Name() string       { return "last_time" }
func (m *lastTime) Observe(s StepInfo) { m.t = s.Time }
func (m *lastTime) Value() float64     { return m.t }
func (m *lastTime) Reset()             { m.t = -1 }
