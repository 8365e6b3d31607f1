package fem

import (
	"fmt"

	"github.com/RomanSalimgareev/friction-problem/internal/linalg"
)

// StrainComponents is the number of rows of the strain-displacement matrix.
const StrainComponents = 6

// ElasticConstants returns the 6×6 isotropic constitutive matrix.
func ElasticConstants(e Element) (*linalg.Matrix, error) {
	nu := e.PoissonRatio
	if nu >= MaxPoissonRatio {
		return nil, &PropertyError{PropPoissonRatio, nu, "constitutive matrix is singular"}
	}
	E := e.ModulusElastic
	factor := E / ((1 + nu) * (1 - 2*nu))
	normal := factor * (1 - nu)
	coupling := factor * nu
	shear := E / (2 * (1 + nu))

	d := linalg.NewMatrix(StrainComponents, StrainComponents)
	for i := 0; i < Dimension; i++ {
		for j := 0; j < Dimension; j++ {
			if i == j {
				d.Set(i, j, normal)
			} else {
				d.Set(i, j, coupling)
			}
		}
		d.Set(i+Dimension, i+Dimension, shear)
	}
	return d, nil
}

// StrainDisplacement builds the 6×24 matrix B mapping nodal displacements
// to strains at the local point q. Rows are εx, εy, εz, γxy, γyz, γzx.
func (e Element) StrainDisplacement(q Point) *linalg.Matrix {
	b := linalg.NewMatrix(StrainComponents, DOF)
	for n := 0; n < Nodes; n++ {
		g := e.ShapeGradient(q, n)
		c := n * NodeDOF

		b.Set(0, c, g[0])
		b.Set(1, c+1, g[1])
		b.Set(2, c+2, g[2])

		b.Set(3, c, g[1])
		b.Set(3, c+1, g[0])

		b.Set(4, c+1, g[2])
		b.Set(4, c+2, g[1])

		b.Set(5, c, g[2])
		b.Set(5, c+2, g[0])
	}
	return b
}

// Stiffness integrates Bᵀ·D·B over the element with 2×2×2 Gauss quadrature.
func Stiffness(e Element) (*linalg.Matrix, error) {
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("stiffness: %w", err)
	}
	d, err := ElasticConstants(e)
	if err != nil {
		return nil, fmt.Errorf("stiffness: %w", err)
	}

	det := e.JacobianDet()
	k := linalg.NewMatrix(DOF, DOF)
	for _, q := range QuadraturePoints() {
		b := e.StrainDisplacement(q)
		db, err := linalg.Mul(d, b)
		if err != nil {
			return nil, err
		}
		btdb, err := linalg.Mul(linalg.Transpose(b), db)
		if err != nil {
			return nil, err
		}
		if k, err = linalg.Add(k, linalg.Scale(det, btdb)); err != nil {
			return nil, err
		}
	}
	return k, nil
}
