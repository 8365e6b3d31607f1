package linalg

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

func sameShape(op string, a, b *Matrix) error {
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		return fmt.Errorf("%s: %dx%d and %dx%d: %w",
			op, a.Rows(), a.Cols(), b.Rows(), b.Cols(), ErrDimensionMismatch)
	}
	return nil
}

// Add returns a + b.
func Add(a, b *Matrix) (*Matrix, error) {
	if err := sameShape("add", a, b); err != nil {
		return nil, err
	}
	out := NewMatrix(a.Rows(), a.Cols())
	for i := range out.data {
		floats.AddTo(out.data[i], a.data[i], b.data[i])
	}
	return out, nil
}

// Sub returns a - b.
func Sub(a, b *Matrix) (*Matrix, error) {
	if err := sameShape("sub", a, b); err != nil {
		return nil, err
	}
	out := NewMatrix(a.Rows(), a.Cols())
	for i := range out.data {
		floats.SubTo(out.data[i], a.data[i], b.data[i])
	}
	return out, nil
}

// Scale returns s·a.
func Scale(s float64, a *Matrix) *Matrix {
	out := NewMatrix(a.Rows(), a.Cols())
	for i := range out.data {
		floats.ScaleTo(out.data[i], s, a.data[i])
	}
	return out
}

// Mul returns the matrix product a·b.
func Mul(a, b *Matrix) (*Matrix, error) {
	if a.Cols() != b.Rows() {
		return nil, fmt.Errorf("mul: %dx%d by %dx%d: %w",
			a.Rows(), a.Cols(), b.Rows(), b.Cols(), ErrDimensionMismatch)
	}
	out := NewMatrix(a.Rows(), b.Cols())
	for i, arow := range a.data {
		orow := out.data[i]
		for k, aik := range arow {
			if aik == 0 {
				continue
			}
			floats.AddScaled(orow, aik, b.data[k])
		}
	}
	return out, nil
}

// MulVec returns a·x.
func MulVec(a *Matrix, x Vector) (Vector, error) {
	out := make(Vector, a.Rows())
	if err := MulVecTo(out, a, x); err != nil {
		return nil, err
	}
	return out, nil
}

// MulVecTo stores a·x in dst.
func MulVecTo(dst Vector, a *Matrix, x Vector) error {
	if a.Cols() != len(x) || a.Rows() != len(dst) {
		return fmt.Errorf("mul vec: %dx%d by %d into %d: %w",
			a.Rows(), a.Cols(), len(x), len(dst), ErrDimensionMismatch)
	}
	for i, row := range a.data {
		dst[i] = floats.Dot(row, x)
	}
	return nil
}

// VecMul returns the row-vector product xᵀ·a.
func VecMul(x Vector, a *Matrix) (Vector, error) {
	if a.Rows() != len(x) {
		return nil, fmt.Errorf("vec mul: %d by %dx%d: %w",
			len(x), a.Rows(), a.Cols(), ErrDimensionMismatch)
	}
	out := make(Vector, a.Cols())
	for i, row := range a.data {
		floats.AddScaled(out, x[i], row)
	}
	return out, nil
}

// Outer returns x·yᵀ.
func Outer(x, y Vector) *Matrix {
	out := NewMatrix(len(x), len(y))
	for i, xi := range x {
		floats.ScaleTo(out.data[i], xi, y)
	}
	return out
}

func Transpose(a *Matrix) *Matrix {
	out := NewMatrix(a.Cols(), a.Rows())
	for i, row := range a.data {
		for j, v := range row {
			out.data[j][i] = v
		}
	}
	return out
}

// IsSymmetric reports whether a equals its transpose within tol.
func IsSymmetric(a *Matrix, tol float64) bool {
	if !a.IsSquare() {
		return false
	}
	for i := range a.data {
		for j := i + 1; j < len(a.data); j++ {
			d := a.data[i][j] - a.data[j][i]
			if d > tol || d < -tol {
				return false
			}
		}
	}
	return true
}
