package autodiff

import (
	"fmt"

	"golang.org/x/exp/constraints"

	"github.com/LexaHoods/tensorslow/internal/matrix"
)

// MaxPooling downsamples x by keeping the maximum of each non-overlapping
// ph x pw window. ph addresses rows and pw columns; both must divide the
// corresponding input dimension. The output has shape
// (rows(x)/ph, cols(x)/pw).
//
// The stored factor is a mask the shape of x with 1 at each window's
// argmax position and 0 elsewhere. Ties break to the first element in
// row-major window order.
func MaxPooling[T constraints.Float](x Tensor[T], ph, pw int) (Tensor[T], error) {
	if x.tape == nil {
		return Tensor[T]{}, ErrTapeMismatch
	}
	r, c := x.value.Dims()
	if ph <= 0 || pw <= 0 || r%ph != 0 || c%pw != 0 {
		return Tensor[T]{}, fmt.Errorf("%w: pool %dx%d does not divide input %dx%d",
			ErrShapeMismatch, ph, pw, r, c)
	}

	x.tape.markShapeCrossing()

	outRows := r / ph
	outCols := c / pw
	value := matrix.New[T](outRows, outCols)
	mask := matrix.New[T](r, c)

	for i := 0; i < outRows; i++ {
		for j := 0; j < outCols; j++ {
			maxR, maxC := i*ph, j*pw
			maxVal := x.value.At(maxR, maxC)

			for k := 0; k < ph; k++ {
				for l := 0; l < pw; l++ {
					if v := x.value.At(i*ph+k, j*pw+l); v > maxVal {
						maxVal = v
						maxR, maxC = i*ph+k, j*pw+l
					}
				}
			}

			value.Set(i, j, maxVal)
			mask.Set(maxR, maxC, 1)
		}
	}

	return x.tape.append(value, node[T]{
		kind: opPool,
		rows: outRows, cols: outCols,
		deps:     []int{x.index},
		factors:  []*matrix.Dense[T]{mask},
		poolRows: ph, poolCols: pw,
	}), nil
}
