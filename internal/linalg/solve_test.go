package linalg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func spdMatrix(t *testing.T) *Matrix {
	t.Helper()
	b := mustRows(t,
		[]float64{2, -1, 0, 0.5},
		[]float64{1, 3, 1, 0},
		[]float64{0, 1, 4, -1},
		[]float64{0.5, 0, 2, 1},
	)
	btb, err := Mul(Transpose(b), b)
	require.NoError(t, err)
	sum, err := Add(btb, Identity(4))
	require.NoError(t, err)
	return sum
}

func toDense(m *Matrix) *mat.Dense {
	d := mat.NewDense(m.Rows(), m.Cols(), nil)
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			d.Set(i, j, m.At(i, j))
		}
	}
	return d
}

func TestCholeskyReconstructs(t *testing.T) {
	m := spdMatrix(t)

	l, err := Cholesky(m)
	require.NoError(t, err)

	for i := 0; i < l.Rows(); i++ {
		for j := i + 1; j < l.Cols(); j++ {
			assert.Zero(t, l.At(i, j), "upper triangle must be zero")
		}
	}

	llt, err := Mul(l, Transpose(l))
	require.NoError(t, err)
	assert.True(t, Equal(llt, m, 1e-12))

	sym := mat.NewSymDense(m.Rows(), nil)
	for i := 0; i < m.Rows(); i++ {
		for j := i; j < m.Cols(); j++ {
			sym.SetSym(i, j, m.At(i, j))
		}
	}
	var chol mat.Cholesky
	require.True(t, chol.Factorize(sym))
	var ref mat.TriDense
	chol.LTo(&ref)
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j <= i; j++ {
			assert.InDelta(t, ref.At(i, j), l.At(i, j), 1e-12)
		}
	}
}

func TestCholeskyFailures(t *testing.T) {
	tests := []struct {
		name string
		rows [][]float64
		want error
	}{
		{"negative pivot", [][]float64{{1, 2}, {2, 1}}, ErrNotPositiveDefinite},
		{"negative diagonal", [][]float64{{-1, 0}, {0, 1}}, ErrNotPositiveDefinite},
		{"zero pivot", [][]float64{{0, 0}, {0, 1}}, ErrDivideByZero},
		{"not square", [][]float64{{1, 0, 0}, {0, 1, 0}}, ErrDimensionMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustRows(t, tt.rows...)
			_, err := Cholesky(m)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSolveCholesky(t *testing.T) {
	m := spdMatrix(t)
	b := Vector{1, -2, 3, 0.5}

	l, err := Cholesky(m)
	require.NoError(t, err)
	x, err := SolveCholesky(l, b)
	require.NoError(t, err)

	ax, err := MulVec(m, x)
	require.NoError(t, err)
	r, _ := SubVec(ax, b)
	assert.Less(t, r.Norm(), 1e-12)
}

func TestSolveResidual(t *testing.T) {
	a := mustRows(t,
		[]float64{4, -2, 1, 0, 3},
		[]float64{1, 5, -1, 2, 0},
		[]float64{0, 2, 6, -3, 1},
		[]float64{-2, 0, 1, 7, 2},
		[]float64{3, 1, 0, -1, 8},
	)
	b := Vector{1, 2, 3, 4, 5}

	x, err := Solve(a, b)
	require.NoError(t, err)

	ax, err := MulVec(a, x)
	require.NoError(t, err)
	r, _ := SubVec(ax, b)
	assert.Less(t, r.Norm(), 1e-12)

	var ref mat.VecDense
	require.NoError(t, ref.SolveVec(toDense(a), mat.NewVecDense(len(b), b.Clone())))
	for i := range x {
		assert.InDelta(t, ref.AtVec(i), x[i], 1e-12)
	}
}

func TestFactorizeReuse(t *testing.T) {
	a := spdMatrix(t)
	qr, err := Factorize(a)
	require.NoError(t, err)
	assert.Equal(t, 4, qr.Size())

	var s Solver = qr
	for _, b := range []Vector{{1, 0, 0, 0}, {0, 1, 0, 0}, {1, 2, 3, 4}} {
		x, err := s.Solve(b)
		require.NoError(t, err)
		ax, _ := MulVec(a, x)
		r, _ := SubVec(ax, b)
		assert.Less(t, r.Norm(), 1e-12)
	}

	_, err = qr.Solve(Vector{1, 2})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestSolveSingular(t *testing.T) {
	tests := []struct {
		name string
		rows [][]float64
	}{
		{"zero matrix", [][]float64{{0, 0}, {0, 0}}},
		{"zero column", [][]float64{{1, 0}, {0, 0}}},
		{"zero row", [][]float64{{1, 2}, {0, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := mustRows(t, tt.rows...)
			_, err := Solve(a, make(Vector, a.Rows()))
			assert.ErrorIs(t, err, ErrDivideByZero)
		})
	}
}

func TestSolveShape(t *testing.T) {
	_, err := Solve(NewMatrix(2, 3), Vector{1, 2})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
	_, err = Solve(Identity(2), Vector{1})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}
