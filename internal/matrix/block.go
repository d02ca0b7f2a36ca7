package matrix

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Block returns a copy of the h x w submatrix starting at (r, c).
func (m *Dense[T]) Block(r, c, h, w int) *Dense[T] {
	if r < 0 || c < 0 || h <= 0 || w <= 0 || r+h > m.rows || c+w > m.cols {
		panic(fmt.Sprintf("matrix: block (%d,%d,%d,%d) out of range %dx%d",
			r, c, h, w, m.rows, m.cols))
	}
	out := New[T](h, w)
	for i := 0; i < h; i++ {
		copy(out.data[i*w:(i+1)*w], m.data[(r+i)*m.cols+c:(r+i)*m.cols+c+w])
	}
	return out
}

// SetBlock assigns src into m starting at (r, c).
func (m *Dense[T]) SetBlock(r, c int, src *Dense[T]) {
	if r < 0 || c < 0 || r+src.rows > m.rows || c+src.cols > m.cols {
		panic(fmt.Sprintf("matrix: set block %dx%d at (%d,%d) out of range %dx%d",
			src.rows, src.cols, r, c, m.rows, m.cols))
	}
	for i := 0; i < src.rows; i++ {
		copy(m.data[(r+i)*m.cols+c:(r+i)*m.cols+c+src.cols], src.data[i*src.cols:(i+1)*src.cols])
	}
}

// ReverseBoth returns the matrix reversed along both axes, so entry (r, c)
// maps to (rows-1-r, cols-1-c). Used to flip convolution kernels.
func ReverseBoth[T constraints.Float](a *Dense[T]) *Dense[T] {
	out := New[T](a.rows, a.cols)
	n := len(a.data)
	for i, v := range a.data {
		out.data[n-1-i] = v
	}
	return out
}

// FlattenRowMajor reshapes a into a (rows*cols) x 1 column vector in
// row-major order.
func FlattenRowMajor[T constraints.Float](a *Dense[T]) *Dense[T] {
	out := New[T](a.rows*a.cols, 1)
	copy(out.data, a.data)
	return out
}

// Unflatten reshapes a (rows*cols) x 1 column vector back into a
// rows x cols matrix in row-major order.
func Unflatten[T constraints.Float](a *Dense[T], rows, cols int) *Dense[T] {
	if a.cols != 1 || a.rows != rows*cols {
		panic(fmt.Sprintf("matrix: cannot unflatten %dx%d into %dx%d",
			a.rows, a.cols, rows, cols))
	}
	out := New[T](rows, cols)
	copy(out.data, a.data)
	return out
}
