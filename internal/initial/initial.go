// Package initial builds the initial displacement, speed and acceleration
// of the full element before symmetry reduction.
package initial

import (
	"fmt"

	"github.com/RomanSalimgareev/friction-problem/internal/linalg"
	"github.com/RomanSalimgareev/friction-problem/internal/symmetry"
)

// Conditions are the scalar inputs of the initial state. Speed and
// Acceleration are applied at every symmetry.Initial DOF. When FromStatic
// is set, the displacement solves the static problem under StaticForce
// spread over the same DOF.
type Conditions struct {
	Speed        float64 `yaml:"speed" json:"speed"`
	Acceleration float64 `yaml:"acceleration" json:"acceleration"`
	FromStatic   bool    `yaml:"from_static" json:"from_static"`
	StaticForce  float64 `yaml:"static_force" json:"static_force"`
}

// State is the initial kinematic state of the full system.
type State struct {
	Displacement linalg.Vector
	Speed        linalg.Vector
	Acceleration linalg.Vector
}

// AccelerationNonZero reports whether any initial acceleration is set.
func (s *State) AccelerationNonZero() bool {
	for _, a := range s.Acceleration {
		if a != 0 {
			return true
		}
	}
	return false
}

// Kinematic returns a vector of size zeros with value at every
// symmetry.Initial index.
func Kinematic(size int, value float64) linalg.Vector {
	v := make(linalg.Vector, size)
	if value == 0 {
		return v
	}
	spread(v, value)
	return v
}

// StaticLoad spreads total equally over the symmetry.Initial DOF.
func StaticLoad(size int, total float64) linalg.Vector {
	v := make(linalg.Vector, size)
	spread(v, total/float64(len(symmetry.Initial)))
	return v
}

func spread(v linalg.Vector, value float64) {
	for _, idx := range symmetry.Initial {
		if idx >= len(v) {
			continue
		}
		v[idx] = value
	}
}

// Displacements solves the penalized static problem K·x = F for the
// given total force. k is not modified.
func Displacements(k *linalg.Matrix, total float64) (linalg.Vector, error) {
	if total == 0 {
		return make(linalg.Vector, k.Rows()), nil
	}
	constrained := k.Clone()
	if err := symmetry.ApplyStatic(constrained); err != nil {
		return nil, err
	}
	l, err := linalg.Cholesky(constrained)
	if err != nil {
		return nil, fmt.Errorf("static displacement: %w", err)
	}
	x, err := linalg.SolveCholesky(l, StaticLoad(k.Rows(), total))
	if err != nil {
		return nil, fmt.Errorf("static displacement: %w", err)
	}
	return x, nil
}

// Build assembles the initial state for stiffness k.
func Build(k *linalg.Matrix, c Conditions) (*State, error) {
	n := k.Rows()
	s := &State{
		Displacement: make(linalg.Vector, n),
		Speed:        Kinematic(n, c.Speed),
		Acceleration: Kinematic(n, c.Acceleration),
	}
	if c.FromStatic {
		x, err := Displacements(k, c.StaticForce)
		if err != nil {
			return nil, err
		}
		s.Displacement = x
	}
	return s, nil
}
