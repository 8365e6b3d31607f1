package linalg

import (
	"fmt"
	"math"
)

// Cholesky returns the lower-triangular L with L·Lᵀ = m.
func Cholesky(m *Matrix) (*Matrix, error) {
	if !m.IsSquare() || m.Empty() {
		return nil, fmt.Errorf("cholesky: %dx%d matrix: %w", m.Rows(), m.Cols(), ErrDimensionMismatch)
	}
	n := m.Rows()
	l := NewMatrix(n, n)
	for j := 0; j < n; j++ {
		lj := l.data[j]
		sum := m.data[j][j]
		for k := 0; k < j; k++ {
			sum -= lj[k] * lj[k]
		}
		if sum < 0 {
			return nil, fmt.Errorf("cholesky: column %d: %w", j, ErrNotPositiveDefinite)
		}
		diag := math.Sqrt(sum)
		if diag <= Epsilon {
			return nil, fmt.Errorf("cholesky: column %d: %w", j, ErrDivideByZero)
		}
		lj[j] = diag
		for i := j + 1; i < n; i++ {
			li := l.data[i]
			s := m.data[i][j]
			for k := 0; k < j; k++ {
				s -= li[k] * lj[k]
			}
			li[j] = s / diag
		}
	}
	return l, nil
}

// SolveCholesky solves L·Lᵀ·x = b given the factor L.
func SolveCholesky(l *Matrix, b Vector) (Vector, error) {
	n := l.Rows()
	if !l.IsSquare() || len(b) != n {
		return nil, fmt.Errorf("cholesky solve: %dx%d factor, rhs %d: %w",
			l.Rows(), l.Cols(), len(b), ErrDimensionMismatch)
	}

	y := make(Vector, n)
	for i := 0; i < n; i++ {
		d := l.data[i][i]
		if math.Abs(d) <= Epsilon {
			return nil, fmt.Errorf("cholesky solve: forward row %d: %w", i, ErrDivideByZero)
		}
		s := b[i]
		for k := 0; k < i; k++ {
			s -= l.data[i][k] * y[k]
		}
		y[i] = s / d
	}

	x := make(Vector, n)
	for i := n - 1; i >= 0; i-- {
		s := y[i]
		for k := i + 1; k < n; k++ {
			s -= l.data[k][i] * x[k]
		}
		x[i] = s / l.data[i][i]
	}
	return x, nil
}
