package autodiff

import (
	"fmt"

	"golang.org/x/exp/constraints"

	"github.com/LexaHoods/tensorslow/internal/matrix"
)

// VertCat stacks the given tensors row-wise, xs[i] below xs[i-1]. Requires
// at least one tensor, all on the same tape with equal column counts.
//
// The node stores a cumulative row-offset table h[0..m] with h[0]=0 and
// h[m] the output row count; parent j's derivative is the block
// d[h[j]..h[j+1], :] of the child derivative.
func VertCat[T constraints.Float](xs []Tensor[T]) (Tensor[T], error) {
	if len(xs) == 0 {
		return Tensor[T]{}, ErrEmptyInput
	}
	tape := xs[0].tape
	if tape == nil {
		return Tensor[T]{}, ErrTapeMismatch
	}

	width := xs[0].value.Cols()
	offsets := make([]int, 1, len(xs)+1)
	deps := make([]int, 0, len(xs))
	height := 0

	for _, x := range xs {
		if x.tape != tape {
			return Tensor[T]{}, ErrTapeMismatch
		}
		if x.value.Cols() != width {
			return Tensor[T]{}, fmt.Errorf("%w: vertCat widths %d vs %d",
				ErrShapeMismatch, width, x.value.Cols())
		}
		height += x.value.Rows()
		offsets = append(offsets, height)
		deps = append(deps, x.index)
	}

	tape.markShapeCrossing()

	value := matrix.New[T](height, width)
	for i, x := range xs {
		value.SetBlock(offsets[i], 0, x.value)
	}

	return tape.append(value, node[T]{
		kind: opVertCat,
		rows: height, cols: width,
		deps:    deps,
		offsets: offsets,
	}), nil
}

// Flattening reshapes x of shape (r, c) into a (r·c) x 1 column vector in
// row-major order: x(0,0), ..., x(0,c-1), x(1,0), ..., x(r-1,c-1).
//
// The local derivative is the identity; the node only records the original
// shape so the reverse sweep can fold the column vector back.
func Flattening[T constraints.Float](x Tensor[T]) (Tensor[T], error) {
	if x.tape == nil {
		return Tensor[T]{}, ErrTapeMismatch
	}

	x.tape.markShapeCrossing()

	r, c := x.value.Dims()
	return x.tape.append(matrix.FlattenRowMajor(x.value), node[T]{
		kind: opFlatten,
		rows: r * c, cols: 1,
		deps:     []int{x.index},
		origRows: r, origCols: c,
	}), nil
}
