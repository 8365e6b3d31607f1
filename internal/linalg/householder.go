package linalg

import (
	"fmt"
	"math"
)

// Solver solves a fixed linear system for successive right-hand sides.
type Solver interface {
	Solve(b Vector) (Vector, error)
}

// QR holds a Householder triangularization of a square matrix. The upper
// triangle of r is R; the reflector vectors are kept separately so the
// factorization can be applied to many right-hand sides.
type QR struct {
	r          *Matrix
	reflectors []Vector
}

// Factorize triangularizes a with Householder reflections. a is not modified.
func Factorize(a *Matrix) (*QR, error) {
	if !a.IsSquare() || a.Empty() {
		return nil, fmt.Errorf("householder: %dx%d matrix: %w", a.Rows(), a.Cols(), ErrDimensionMismatch)
	}
	n := a.Rows()
	r := a.Clone()
	qr := &QR{r: r, reflectors: make([]Vector, 0, n-1)}
	tol := pivotTolerance(r)

	for k := 0; k < n-1; k++ {
		norm := 0.0
		for i := k; i < n; i++ {
			norm += r.data[i][k] * r.data[i][k]
		}
		norm = math.Sqrt(norm)

		sign := 1.0
		if r.data[k][k] < 0 {
			sign = -1.0
		}
		alpha := -sign * norm

		w := make(Vector, n-k)
		for i := k; i < n; i++ {
			w[i-k] = r.data[i][k]
		}
		w[0] -= alpha

		wnorm := w.Norm()
		if wnorm <= tol {
			return nil, fmt.Errorf("householder: reflector %d: %w", k, ErrDivideByZero)
		}
		for i := range w {
			w[i] /= wnorm
		}

		for j := k; j < n; j++ {
			s := 0.0
			for i := k; i < n; i++ {
				s += w[i-k] * r.data[i][j]
			}
			s *= 2
			for i := k; i < n; i++ {
				r.data[i][j] -= s * w[i-k]
			}
		}
		qr.reflectors = append(qr.reflectors, w)
	}

	for i := 0; i < n; i++ {
		if math.Abs(r.data[i][i]) <= tol {
			return nil, fmt.Errorf("householder: pivot %d: %w", i, ErrDivideByZero)
		}
	}
	return qr, nil
}

// pivotTolerance scales machine epsilon by the order and magnitude of a,
// so that round-off left in a singular column is still reported.
func pivotTolerance(a *Matrix) float64 {
	scale := 0.0
	for _, row := range a.data {
		if m := Vector(row).MaxAbs(); m > scale {
			scale = m
		}
	}
	return Epsilon * math.Max(1, float64(a.Rows())*scale)
}

// Size returns the order of the factorized system.
func (q *QR) Size() int { return q.r.Rows() }

// Solve returns x with A·x = b for the factorized A.
func (q *QR) Solve(b Vector) (Vector, error) {
	n := q.r.Rows()
	if len(b) != n {
		return nil, fmt.Errorf("householder solve: rhs %d, want %d: %w", len(b), n, ErrDimensionMismatch)
	}
	x := b.Clone()
	for k, w := range q.reflectors {
		s := 0.0
		for i := range w {
			s += w[i] * x[k+i]
		}
		s *= 2
		for i := range w {
			x[k+i] -= s * w[i]
		}
	}
	for i := n - 1; i >= 0; i-- {
		row := q.r.data[i]
		s := x[i]
		for j := i + 1; j < n; j++ {
			s -= row[j] * x[j]
		}
		x[i] = s / row[i]
	}
	return x, nil
}

// Solve solves a·x = b.
func Solve(a *Matrix, b Vector) (Vector, error) {
	if a.Rows() != len(b) {
		return nil, fmt.Errorf("solve: %dx%d system, rhs %d: %w", a.Rows(), a.Cols(), len(b), ErrDimensionMismatch)
	}
	qr, err := Factorize(a)
	if err != nil {
		return nil, err
	}
	return qr.Solve(b)
}
