// Package symmetry holds the fixed DOF index sets of the quarter-symmetric
// element model and applies the symmetry boundary conditions.
//
// Indices in Initial and Conditions refer to the full 24-DOF system;
// Active and NormalReaction refer to the 12-DOF system left after
// ReduceDynamic.
package symmetry

import (
	"fmt"
	"log/slog"

	"github.com/RomanSalimgareev/friction-problem/internal/linalg"
)

const (
	FullDOF    = 24
	ReducedDOF = 12

	// StaticPenalty scales the constrained diagonal entries in the static
	// problem.
	StaticPenalty = 1e11
)

var (
	// Initial are the x-direction DOF of nodes 1, 2, 5 and 6 in the full system.
	Initial = []int{0, 3, 12, 15}

	// Conditions are the DOF fixed by symmetry, in ascending order.
	Conditions = []int{1, 2, 5, 6, 8, 9, 10, 11, 13, 18, 21, 22}

	// Active are the x-direction DOF of nodes 1, 2, 5 and 6 after reduction.
	Active = []int{0, 1, 4, 6}

	// NormalReaction are the reduced DOF loaded by the tube wall.
	NormalReaction = []int{2, 3, 5, 7, 8, 9, 10, 11}
)

// ApplyStatic multiplies the diagonal entries at Conditions by
// StaticPenalty in place. Indices beyond the matrix are skipped.
func ApplyStatic(k *linalg.Matrix) error {
	if !k.IsSquare() {
		return fmt.Errorf("static symmetry: %dx%d matrix: %w", k.Rows(), k.Cols(), linalg.ErrDimensionMismatch)
	}
	for _, idx := range Conditions {
		if idx >= k.Rows() {
			slog.Warn("static symmetry: index skipped", "index", idx, "size", k.Rows())
			continue
		}
		k.Set(idx, idx, k.At(idx, idx)*StaticPenalty)
	}
	return nil
}

// System is the set of quantities reduced together by ReduceDynamic.
// History columns are DOF; vectors may be nil only if they are empty.
type System struct {
	Stiffness    *linalg.Matrix
	Mass         *linalg.Matrix
	History      *linalg.Matrix
	Speed        linalg.Vector
	Acceleration linalg.Vector
	Force        linalg.Vector
}

// ReduceDynamic removes every symmetry DOF from the system, highest index
// first so earlier removals do not shift pending ones.
func ReduceDynamic(s *System) error {
	k, m := s.Stiffness, s.Mass
	if !k.IsSquare() || !m.IsSquare() || k.Rows() != m.Rows() {
		return fmt.Errorf("dynamic symmetry: stiffness %dx%d, mass %dx%d: %w",
			k.Rows(), k.Cols(), m.Rows(), m.Cols(), linalg.ErrDimensionMismatch)
	}

	last := Conditions[len(Conditions)-1]
	if k.Rows() <= last {
		return fmt.Errorf("dynamic symmetry: matrix order %d, need > %d: %w", k.Rows(), last, linalg.ErrOutOfRange)
	}
	vectors := []struct {
		name string
		v    *linalg.Vector
	}{
		{"speed", &s.Speed},
		{"acceleration", &s.Acceleration},
		{"force", &s.Force},
	}
	for _, vec := range vectors {
		if len(*vec.v) <= last {
			return fmt.Errorf("dynamic symmetry: %s length %d, need > %d: %w",
				vec.name, len(*vec.v), last, linalg.ErrOutOfRange)
		}
	}
	if s.History != nil && !s.History.Empty() && s.History.Cols() <= last {
		return fmt.Errorf("dynamic symmetry: history has %d columns, need > %d: %w",
			s.History.Cols(), last, linalg.ErrOutOfRange)
	}

	for i := len(Conditions) - 1; i >= 0; i-- {
		idx := Conditions[i]
		for _, mat := range []*linalg.Matrix{k, m} {
			if err := mat.EraseRow(idx); err != nil {
				return err
			}
			if err := mat.EraseColumn(idx); err != nil {
				return err
			}
		}
		for _, vec := range vectors {
			if err := vec.v.Erase(idx); err != nil {
				return err
			}
		}
		if s.History != nil && !s.History.Empty() {
			if err := s.History.EraseColumn(idx); err != nil {
				return err
			}
		}
	}
	return nil
}
