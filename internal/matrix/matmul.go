package matrix

import (
	"fmt"

	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/mat"

	"github.com/LexaHoods/tensorslow/internal/parallel"
)

// MatMul returns the matrix product a·b. Requires cols(a) == rows(b).
//
// float64 matrices are delegated to gonum's BLAS-backed mat.Dense; other
// element types use the naive triple loop with the outer rows
// parallelized.
func MatMul[T constraints.Float](a, b *Dense[T]) *Dense[T] {
	if a.cols != b.rows {
		panic(fmt.Sprintf("matrix: matmul shape mismatch %dx%d · %dx%d",
			a.rows, a.cols, b.rows, b.cols))
	}

	if out := matmulGonum(a, b); out != nil {
		return out
	}

	m, k, n := a.rows, a.cols, b.cols
	out := New[T](m, n)
	parallel.For(m, func(i int) {
		for l := 0; l < k; l++ {
			av := a.data[i*k+l]
			if av == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				out.data[i*n+j] += av * b.data[l*n+j]
			}
		}
	}, par)
	return out
}

// matmulGonum is the float64 fast path. Returns nil when T is not float64.
func matmulGonum[T constraints.Float](a, b *Dense[T]) *Dense[T] {
	ad, ok := any(a.data).([]float64)
	if !ok {
		return nil
	}
	bd := any(b.data).([]float64)

	var c mat.Dense
	c.Mul(mat.NewDense(a.rows, a.cols, ad), mat.NewDense(b.rows, b.cols, bd))

	out := &Dense[T]{rows: a.rows, cols: b.cols}
	out.data = any(c.RawMatrix().Data).([]T)
	return out
}

// Transpose returns aᵀ.
func Transpose[T constraints.Float](a *Dense[T]) *Dense[T] {
	out := New[T](a.cols, a.rows)
	for r := 0; r < a.rows; r++ {
		for c := 0; c < a.cols; c++ {
			out.data[c*a.rows+r] = a.data[r*a.cols+c]
		}
	}
	return out
}
