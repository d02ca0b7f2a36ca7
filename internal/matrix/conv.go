package matrix

import (
	"fmt"

	"golang.org/x/exp/constraints"

	"github.com/LexaHoods/tensorslow/internal/parallel"
)

// Correlate computes the valid 2-D cross-correlation of m with ker using
// a sliding-window accumulation. The output has shape
// (rows(m)-rows(ker)+1, cols(m)-cols(ker)+1). Requires ker no larger than
// m along both axes.
func Correlate[T constraints.Float](m, ker *Dense[T]) *Dense[T] {
	checkKernel(m, ker)

	outRows := m.rows - ker.rows + 1
	outCols := m.cols - ker.cols + 1
	out := New[T](outRows, outCols)

	parallel.ForGrid(outRows, outCols, func(r, c int) {
		var s T
		for i := 0; i < ker.rows; i++ {
			mrow := m.data[(r+i)*m.cols+c:]
			krow := ker.data[i*ker.cols:]
			for j := 0; j < ker.cols; j++ {
				s += mrow[j] * krow[j]
			}
		}
		out.data[r*outCols+c] = s
	}, par)
	return out
}

// CorrelateIm2col computes the same valid cross-correlation through the
// im2col rearrangement: each window is flattened into a row of a
// (outRows*outCols) x (kerRows*kerCols) matrix, multiplied against the
// flattened kernel, and the product reshaped back. Trades memory for a
// single matrix product.
func CorrelateIm2col[T constraints.Float](m, ker *Dense[T]) *Dense[T] {
	checkKernel(m, ker)

	outRows := m.rows - ker.rows + 1
	outCols := m.cols - ker.cols + 1
	window := ker.rows * ker.cols

	cols := New[T](outRows*outCols, window)
	parallel.ForGrid(outRows, outCols, func(r, c int) {
		row := cols.data[(r*outCols+c)*window:]
		for i := 0; i < ker.rows; i++ {
			copy(row[i*ker.cols:(i+1)*ker.cols], m.data[(r+i)*m.cols+c:(r+i)*m.cols+c+ker.cols])
		}
	}, par)

	prod := MatMul(cols, FlattenRowMajor(ker))
	return Unflatten(prod, outRows, outCols)
}

func checkKernel[T constraints.Float](m, ker *Dense[T]) {
	if m.rows < ker.rows || m.cols < ker.cols {
		panic(fmt.Sprintf("matrix: kernel %dx%d larger than input %dx%d",
			ker.rows, ker.cols, m.rows, m.cols))
	}
}
