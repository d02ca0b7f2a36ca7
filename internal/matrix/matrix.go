// Package matrix implements the dense linear-algebra kernels the autodiff
// engine is built on: a generic row-major matrix type with dynamic
// dimensions, elementwise and matrix operations, valid 2-D
// cross-correlation, and block/reshape manipulation.
//
// Kernels panic on shape violations. Callers that expose a public surface
// (the autodiff package) are expected to validate shapes first, so these
// panics are unreachable through the engine's API.
package matrix

import (
	"fmt"
	"math/rand"

	"golang.org/x/exp/constraints"

	"github.com/LexaHoods/tensorslow/internal/parallel"
)

// par is the shared loop configuration for the data-parallel kernels.
var par = parallel.DefaultConfig()

// Dense is a dense matrix of a float element type, stored row-major.
type Dense[T constraints.Float] struct {
	rows, cols int
	data       []T
}

// New returns a zero-valued rows x cols matrix.
func New[T constraints.Float](rows, cols int) *Dense[T] {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Sprintf("matrix: invalid dimensions %dx%d", rows, cols))
	}
	return &Dense[T]{
		rows: rows,
		cols: cols,
		data: make([]T, rows*cols),
	}
}

// FromSlice builds a rows x cols matrix from row-major data. The slice is
// copied.
func FromSlice[T constraints.Float](rows, cols int, data []T) *Dense[T] {
	if len(data) != rows*cols {
		panic(fmt.Sprintf("matrix: %dx%d matrix needs %d elements, got %d",
			rows, cols, rows*cols, len(data)))
	}
	m := New[T](rows, cols)
	copy(m.data, data)
	return m
}

// FromRows builds a matrix from a non-empty slice of equal-length rows.
func FromRows[T constraints.Float](rows [][]T) *Dense[T] {
	if len(rows) == 0 || len(rows[0]) == 0 {
		panic("matrix: FromRows needs at least one non-empty row")
	}
	m := New[T](len(rows), len(rows[0]))
	for r, row := range rows {
		if len(row) != m.cols {
			panic(fmt.Sprintf("matrix: row %d has %d elements, want %d", r, len(row), m.cols))
		}
		copy(m.data[r*m.cols:], row)
	}
	return m
}

// Ones returns a rows x cols matrix filled with 1.
func Ones[T constraints.Float](rows, cols int) *Dense[T] {
	return Full[T](rows, cols, 1)
}

// Full returns a rows x cols matrix filled with v.
func Full[T constraints.Float](rows, cols int, v T) *Dense[T] {
	m := New[T](rows, cols)
	for i := range m.data {
		m.data[i] = v
	}
	return m
}

// Random returns a rows x cols matrix with entries uniform in [-1, 1).
// Used for parameter initialization.
func Random[T constraints.Float](rows, cols int, rng *rand.Rand) *Dense[T] {
	m := New[T](rows, cols)
	for i := range m.data {
		m.data[i] = T(2*rng.Float64() - 1)
	}
	return m
}

// Rows returns the row count.
func (m *Dense[T]) Rows() int { return m.rows }

// Cols returns the column count.
func (m *Dense[T]) Cols() int { return m.cols }

// Dims returns (rows, cols).
func (m *Dense[T]) Dims() (int, int) { return m.rows, m.cols }

// At returns the element at (r, c).
func (m *Dense[T]) At(r, c int) T {
	m.checkIndex(r, c)
	return m.data[r*m.cols+c]
}

// Set assigns the element at (r, c).
func (m *Dense[T]) Set(r, c int, v T) {
	m.checkIndex(r, c)
	m.data[r*m.cols+c] = v
}

func (m *Dense[T]) checkIndex(r, c int) {
	if r < 0 || r >= m.rows || c < 0 || c >= m.cols {
		panic(fmt.Sprintf("matrix: index (%d,%d) out of range %dx%d", r, c, m.rows, m.cols))
	}
}

// Clone returns a deep copy.
func (m *Dense[T]) Clone() *Dense[T] {
	out := New[T](m.rows, m.cols)
	copy(out.data, m.data)
	return out
}

// Equal reports exact elementwise equality, including shape.
func (m *Dense[T]) Equal(other *Dense[T]) bool {
	if m.rows != other.rows || m.cols != other.cols {
		return false
	}
	for i, v := range m.data {
		if v != other.data[i] {
			return false
		}
	}
	return true
}

// EqualApprox reports elementwise equality within eps.
func (m *Dense[T]) EqualApprox(other *Dense[T], eps float64) bool {
	if m.rows != other.rows || m.cols != other.cols {
		return false
	}
	for i, v := range m.data {
		d := float64(v) - float64(other.data[i])
		if d < -eps || d > eps {
			return false
		}
	}
	return true
}

// String renders the matrix row by row.
func (m *Dense[T]) String() string {
	s := ""
	for r := 0; r < m.rows; r++ {
		s += fmt.Sprintln(m.data[r*m.cols : (r+1)*m.cols])
	}
	return s
}

func sameShape[T constraints.Float](a, b *Dense[T], op string) {
	if a.rows != b.rows || a.cols != b.cols {
		panic(fmt.Sprintf("matrix: %s shape mismatch %dx%d vs %dx%d",
			op, a.rows, a.cols, b.rows, b.cols))
	}
}
