package linalg

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Vector is a dense column vector.
type Vector []float64

func NewVector(n int) Vector { return make(Vector, n) }

func (v Vector) Clone() Vector {
	c := make(Vector, len(v))
	copy(c, v)
	return c
}

// Zero sets every element to zero.
func (v Vector) Zero() {
	for i := range v {
		v[i] = 0
	}
}

// Erase removes element i from the vector in place.
func (v *Vector) Erase(i int) error {
	if len(*v) == 0 {
		return fmt.Errorf("erase element %d: empty vector: %w", i, ErrOutOfRange)
	}
	if i < 0 || i >= len(*v) {
		return fmt.Errorf("erase element %d of %d: %w", i, len(*v), ErrOutOfRange)
	}
	*v = append((*v)[:i], (*v)[i+1:]...)
	return nil
}

func (v Vector) Norm() float64 {
	if len(v) == 0 {
		return 0
	}
	return floats.Norm(v, 2)
}

// MaxAbs returns the largest absolute element.
func (v Vector) MaxAbs() float64 {
	m := 0.0
	for _, x := range v {
		if x < 0 {
			x = -x
		}
		if x > m {
			m = x
		}
	}
	return m
}

func sameLength(op string, a, b Vector) error {
	if len(a) != len(b) {
		return fmt.Errorf("%s: lengths %d and %d: %w", op, len(a), len(b), ErrDimensionMismatch)
	}
	return nil
}

func Dot(a, b Vector) (float64, error) {
	if err := sameLength("dot", a, b); err != nil {
		return 0, err
	}
	return floats.Dot(a, b), nil
}

func AddVec(a, b Vector) (Vector, error) {
	if err := sameLength("add", a, b); err != nil {
		return nil, err
	}
	return floats.AddTo(make(Vector, len(a)), a, b), nil
}

func SubVec(a, b Vector) (Vector, error) {
	if err := sameLength("sub", a, b); err != nil {
		return nil, err
	}
	return floats.SubTo(make(Vector, len(a)), a, b), nil
}

func ScaleVec(s float64, a Vector) Vector {
	return floats.ScaleTo(make(Vector, len(a)), s, a)
}

// AddScaled returns y + alpha·x.
func AddScaled(y Vector, alpha float64, x Vector) (Vector, error) {
	if err := sameLength("add scaled", y, x); err != nil {
		return nil, err
	}
	return floats.AddScaledTo(make(Vector, len(y)), y, alpha, x), nil
}
