// Package linalg provides the dense matrix and vector algebra used by the
// element assembly and the time-stepping solver.
//
// Matrices are small (24×24 at most) and stored row-major. Operations that
// combine operands check shapes and return [ErrDimensionMismatch] instead
// of panicking; index lookups return [ErrOutOfRange]. [Matrix.At] and
// [Matrix.Set] are the unchecked accessors used in hot loops.
//
// Two factorizations are provided:
//
//   - [Cholesky] with [SolveCholesky] for the symmetric positive-definite
//     static pre-solve,
//   - [Factorize], a Householder QR whose [QR.Solve] is reused by the
//     dynamic solver on every step.
package linalg
