package fem

import (
	"fmt"

	"github.com/RomanSalimgareev/friction-problem/internal/linalg"
)

// MassKind selects the mass matrix discretization.
type MassKind string

const (
	// Lumped spreads the element mass equally over the diagonal.
	Lumped MassKind = "lumped"
	// Consistent integrates N_i·N_j over the element.
	Consistent MassKind = "consistent"
)

func ParseMassKind(s string) (MassKind, error) {
	switch MassKind(s) {
	case Lumped, "":
		return Lumped, nil
	case Consistent, "joint":
		return Consistent, nil
	}
	return "", fmt.Errorf("fem: unknown mass matrix kind %q", s)
}

// LumpedMass returns the diagonal mass matrix.
func LumpedMass(e Element) (*linalg.Matrix, error) {
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("lumped mass: %w", err)
	}
	m := linalg.NewMatrix(DOF, DOF)
	share := e.Mass() / DOF
	for i := 0; i < DOF; i++ {
		m.Set(i, i, share)
	}
	return m, nil
}

// ConsistentMass returns the fully integrated mass matrix. Each
// translational component couples only with the same component of
// other nodes.
func ConsistentMass(e Element) (*linalg.Matrix, error) {
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("consistent mass: %w", err)
	}
	m := linalg.NewMatrix(DOF, DOF)
	w := e.JacobianDet() * e.Density
	for _, q := range QuadraturePoints() {
		var n [Nodes]float64
		for i := range n {
			n[i] = ShapeFunction(q, i)
		}
		for i := 0; i < Nodes; i++ {
			for j := 0; j < Nodes; j++ {
				v := n[i] * n[j] * w
				for d := 0; d < NodeDOF; d++ {
					r, c := i*NodeDOF+d, j*NodeDOF+d
					m.Set(r, c, m.At(r, c)+v)
				}
			}
		}
	}
	return m, nil
}

// Mass builds the mass matrix of the requested kind.
func Mass(e Element, kind MassKind) (*linalg.Matrix, error) {
	switch kind {
	case Lumped, "":
		return LumpedMass(e)
	case Consistent:
		return ConsistentMass(e)
	}
	return nil, fmt.Errorf("fem: unknown mass matrix kind %q", kind)
}
