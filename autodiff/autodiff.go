// Package autodiff implements a reverse-mode automatic differentiation
// engine over dense matrices of a generic float element type.
//
// Every primitive operation performed on tracked tensors is recorded as a
// node on an append-only tape (a Wengert list). Calling Grad on a tracked
// tensor walks the tape top-down and accumulates the partial derivative of
// that tensor with respect to every earlier node.
//
// Usage:
//
//	tape := autodiff.NewTape[float64]()
//	x := tape.Track(matrix.FromRows([][]float64{{1, 2}}))
//	y := tape.Track(matrix.FromRows([][]float64{{3}, {4}}))
//	z, err := autodiff.MatProd(x, y)
//	g, err := z.Grad()
//	g.At(x) // [[3, 4]]
//
// Primitives return errors eagerly: a shape or tape violation surfaces as
// a wrapped sentinel (ErrShapeMismatch, ErrTapeMismatch, ...) and records
// nothing. A tape is not safe for concurrent use; the kernels underneath
// may parallelize across matrix entries on their own.
package autodiff

import (
	"golang.org/x/exp/constraints"

	"github.com/LexaHoods/tensorslow/internal/matrix"
)

// Tensor is a tracked matrix: a computed value paired with the tape that
// recorded its producing operation and its index on that tape. Tensors are
// lightweight handles; they borrow from their tape and must not outlive
// it.
type Tensor[T constraints.Float] struct {
	value *matrix.Dense[T]
	tape  *Tape[T]
	index int
}

// Value returns the tensor's matrix. The matrix is shared, not copied;
// mutating it between recording and a Grad call is the caller's
// responsibility (the optimizer mutates parameter values between steps,
// after the tape has been reset).
func (x Tensor[T]) Value() *matrix.Dense[T] {
	return x.value
}

// Dims returns the tensor's (rows, cols).
func (x Tensor[T]) Dims() (int, int) {
	return x.value.Dims()
}

// Index returns the tensor's position on its tape.
func (x Tensor[T]) Index() int {
	return x.index
}

func (x Tensor[T]) isScalar() bool {
	r, c := x.value.Dims()
	return r == 1 && c == 1
}
