package autodiff

import (
	"fmt"

	"golang.org/x/exp/constraints"

	"github.com/LexaHoods/tensorslow/internal/matrix"
)

// MatProd computes the matrix product x·y. Requires cols(x) == rows(y).
//
//	a = x·y
//	da/dx = yᵀ (right-multiplied against the child derivative)
//	da/dy = xᵀ (left-multiplied against the child derivative)
//
// The factors are stored pre-transposed so the reverse sweep only performs
// ordinary products.
func MatProd[T constraints.Float](x, y Tensor[T]) (Tensor[T], error) {
	if x.tape == nil || y.tape == nil || x.tape != y.tape {
		return Tensor[T]{}, ErrTapeMismatch
	}
	xr, xc := x.value.Dims()
	yr, yc := y.value.Dims()
	if xc != yr {
		return Tensor[T]{}, fmt.Errorf("%w: matProd %dx%d · %dx%d", ErrShapeMismatch, xr, xc, yr, yc)
	}

	x.tape.markShapeCrossing()

	return x.tape.append(matrix.MatMul(x.value, y.value), node[T]{
		kind: opMatProd,
		rows: xr, cols: yc,
		deps:    []int{x.index, y.index},
		factors: []*matrix.Dense[T]{matrix.Transpose(y.value), matrix.Transpose(x.value)},
	}), nil
}

// SquaredNorm computes the squared Euclidean norm Σ x(i,j)² as a 1x1
// tensor.
//
//	a = ‖x‖²
//	da/dx = 2x
func SquaredNorm[T constraints.Float](x Tensor[T]) (Tensor[T], error) {
	if x.tape == nil {
		return Tensor[T]{}, ErrTapeMismatch
	}

	x.tape.markShapeCrossing()

	value := matrix.FromSlice(1, 1, []T{matrix.SumSquares(x.value)})
	return x.tape.append(value, node[T]{
		kind: opNorm,
		rows: 1, cols: 1,
		deps:    []int{x.index},
		factors: []*matrix.Dense[T]{matrix.Scale(x.value, 2)},
	}), nil
}
