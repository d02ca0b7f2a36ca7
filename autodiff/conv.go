package autodiff

import (
	"fmt"

	"golang.org/x/exp/constraints"

	"github.com/LexaHoods/tensorslow/internal/matrix"
)

// Convolution computes the valid 2-D cross-correlation of mat with ker.
// Requires the kernel no larger than the input along both axes; the output
// has shape (rows(mat)-rows(ker)+1, cols(mat)-cols(ker)+1). The forward
// pass uses the im2col rearrangement.
//
// Factor storage: for the input slot, a zero-padded matrix holding the
// axis-reversed kernel at offset (outRows-1, outCols-1), sized
// (2·outRows+kerRows-2, 2·outCols+kerCols-2) so that valid-correlating the
// child derivative against it yields the input's shape; the reverse sweep
// flips that result along both axes to obtain the full correlation of the
// derivative with the flipped kernel. For the kernel slot, the input matrix itself:
// valid-correlating it against the child derivative yields the kernel's
// shape.
func Convolution[T constraints.Float](mat, ker Tensor[T]) (Tensor[T], error) {
	if mat.tape == nil || ker.tape == nil || mat.tape != ker.tape {
		return Tensor[T]{}, ErrTapeMismatch
	}
	mr, mc := mat.value.Dims()
	kr, kc := ker.value.Dims()
	if mr < kr || mc < kc {
		return Tensor[T]{}, fmt.Errorf("%w: convolution kernel %dx%d larger than input %dx%d",
			ErrShapeMismatch, kr, kc, mr, mc)
	}

	mat.tape.markShapeCrossing()

	value := matrix.CorrelateIm2col(mat.value, ker.value)
	outRows, outCols := value.Dims()

	dMat := matrix.New[T](2*outRows+kr-2, 2*outCols+kc-2)
	dMat.SetBlock(outRows-1, outCols-1, matrix.ReverseBoth(ker.value))

	return mat.tape.append(value, node[T]{
		kind: opConv,
		rows: outRows, cols: outCols,
		deps:    []int{mat.index, ker.index},
		factors: []*matrix.Dense[T]{dMat, mat.value.Clone()},
	}), nil
}
