package linalg

import (
	"fmt"
	"strings"
)

// Matrix is a rectangular dense matrix. The zero value is an empty matrix.
type Matrix struct {
	data [][]float64
	cols int
}

// NewMatrix returns a rows×cols matrix of zeros.
func NewMatrix(rows, cols int) *Matrix {
	if rows <= 0 || cols <= 0 {
		return &Matrix{}
	}
	backing := make([]float64, rows*cols)
	data := make([][]float64, rows)
	for i := range data {
		data[i] = backing[i*cols : (i+1)*cols : (i+1)*cols]
	}
	return &Matrix{data: data, cols: cols}
}

// FromRows builds a matrix from row slices. The rows are copied.
func FromRows(rows ...[]float64) (*Matrix, error) {
	if len(rows) == 0 {
		return &Matrix{}, nil
	}
	cols := len(rows[0])
	m := NewMatrix(len(rows), cols)
	for i, r := range rows {
		if len(r) != cols {
			return nil, fmt.Errorf("from rows: row %d has %d columns, want %d: %w",
				i, len(r), cols, ErrDimensionMismatch)
		}
		copy(m.data[i], r)
	}
	return m, nil
}

// Identity returns the n×n identity matrix.
func Identity(n int) *Matrix {
	m := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		m.data[i][i] = 1
	}
	return m
}

// Diagonal returns a square matrix with d on its diagonal.
func Diagonal(d Vector) *Matrix {
	m := NewMatrix(len(d), len(d))
	for i, v := range d {
		m.data[i][i] = v
	}
	return m
}

func (m *Matrix) Rows() int { return len(m.data) }

func (m *Matrix) Cols() int {
	if len(m.data) == 0 {
		return 0
	}
	return m.cols
}

func (m *Matrix) Empty() bool { return len(m.data) == 0 || m.cols == 0 }

func (m *Matrix) IsSquare() bool { return m.Rows() == m.Cols() }

// At returns the element at (i, j) without bounds reporting.
func (m *Matrix) At(i, j int) float64 { return m.data[i][j] }

// Set stores v at (i, j) without bounds reporting.
func (m *Matrix) Set(i, j int, v float64) { m.data[i][j] = v }

// Row returns row i. The returned vector aliases the matrix storage.
func (m *Matrix) Row(i int) (Vector, error) {
	if i < 0 || i >= len(m.data) {
		return nil, fmt.Errorf("row %d of %d: %w", i, len(m.data), ErrOutOfRange)
	}
	return m.data[i], nil
}

// SetRow copies v into row i.
func (m *Matrix) SetRow(i int, v Vector) error {
	row, err := m.Row(i)
	if err != nil {
		return err
	}
	if len(v) != len(row) {
		return fmt.Errorf("set row %d: length %d, want %d: %w", i, len(v), len(row), ErrDimensionMismatch)
	}
	copy(row, v)
	return nil
}

// Column returns a copy of column j.
func (m *Matrix) Column(j int) (Vector, error) {
	if j < 0 || j >= m.Cols() {
		return nil, fmt.Errorf("column %d of %d: %w", j, m.Cols(), ErrOutOfRange)
	}
	out := make(Vector, len(m.data))
	for i, row := range m.data {
		out[i] = row[j]
	}
	return out, nil
}

// RawRows exposes the row slices. Callers must not change their length.
func (m *Matrix) RawRows() [][]float64 { return m.data }

func (m *Matrix) Clone() *Matrix {
	c := NewMatrix(m.Rows(), m.Cols())
	for i, row := range m.data {
		copy(c.data[i], row)
	}
	return c
}

// EraseRow removes row i in place.
func (m *Matrix) EraseRow(i int) error {
	if m.Empty() {
		return fmt.Errorf("erase row %d: empty matrix: %w", i, ErrOutOfRange)
	}
	if i < 0 || i >= len(m.data) {
		return fmt.Errorf("erase row %d of %d: %w", i, len(m.data), ErrOutOfRange)
	}
	m.data = append(m.data[:i], m.data[i+1:]...)
	if len(m.data) == 0 {
		m.cols = 0
	}
	return nil
}

// EraseColumn removes column j from every row in place.
func (m *Matrix) EraseColumn(j int) error {
	if m.Empty() {
		return fmt.Errorf("erase column %d: empty matrix: %w", j, ErrOutOfRange)
	}
	if j < 0 || j >= m.cols {
		return fmt.Errorf("erase column %d of %d: %w", j, m.cols, ErrOutOfRange)
	}
	for i, row := range m.data {
		m.data[i] = append(row[:j], row[j+1:]...)
	}
	m.cols--
	if m.cols == 0 {
		m.data = nil
	}
	return nil
}

// Equal reports whether a and b have the same shape and all elements
// differ by at most tol.
func Equal(a, b *Matrix, tol float64) bool {
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		return false
	}
	for i := range a.data {
		for j := range a.data[i] {
			d := a.data[i][j] - b.data[i][j]
			if d > tol || d < -tol {
				return false
			}
		}
	}
	return true
}

func (m *Matrix) String() string {
	var sb strings.Builder
	for _, row := range m.data {
		for j, v := range row {
			if j > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%12.5e", v)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
