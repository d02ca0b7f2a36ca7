package autodiff

import (
	"golang.org/x/exp/constraints"

	"github.com/LexaHoods/tensorslow/internal/matrix"
)

// Gradient is the bundle produced by a reverse sweep: one derivative
// matrix per tape index at or below the sweep's root. A bundle owns its
// matrices and stays valid independently of later tape growth.
type Gradient[T constraints.Float] struct {
	tape        *Tape[T]
	derivatives []*matrix.Dense[T]
}

// At returns the partial derivative of the sweep's root with respect to
// x, shaped like x's value. Tensors outside the sweep's range (recorded
// after the root, or on another tape) yield a zero matrix of their own
// shape.
func (g Gradient[T]) At(x Tensor[T]) *matrix.Dense[T] {
	if x.tape != g.tape || x.index < 0 || x.index >= len(g.derivatives) {
		return matrix.New[T](x.value.Dims())
	}
	return g.derivatives[x.index]
}

// IsEmpty reports whether the bundle holds no derivatives.
func (g Gradient[T]) IsEmpty() bool {
	return len(g.derivatives) == 0
}
