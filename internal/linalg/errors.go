package linalg

import "errors"

var (
	// ErrDimensionMismatch indicates operands of incompatible shape.
	ErrDimensionMismatch = errors.New("linalg: dimension mismatch")

	// ErrOutOfRange indicates an index outside the container bounds.
	ErrOutOfRange = errors.New("linalg: index out of range")

	// ErrDivideByZero indicates a divisor numerically indistinguishable from zero.
	ErrDivideByZero = errors.New("linalg: division by zero")

	// ErrNotPositiveDefinite indicates a failed Cholesky precondition.
	ErrNotPositiveDefinite = errors.New("linalg: matrix is not positive definite")
)

// Epsilon is the threshold below which a divisor is treated as zero.
const Epsilon = 2.220446049250313e-16
