package autodiff

import (
	"golang.org/x/exp/constraints"

	"github.com/LexaHoods/tensorslow/internal/matrix"
)

// opKind tags a node with the operation that produced it. The reverse
// sweep is a single routine dispatching on this tag; per-variant state
// lives in the node payload fields.
type opKind uint8

const (
	opLeaf opKind = iota // external input or parameter
	opElementwise        // pointwise ops: +, -, ⊙, ⊘, sigmoid
	opMatProd            // matrix product
	opNorm               // squared Euclidean norm (1x1 output)
	opConv               // valid 2-D cross-correlation
	opPool               // max-pooling
	opVertCat            // row-wise concatenation
	opFlatten            // row-major flattening to a column vector
)

// node describes how one intermediate matrix was produced from earlier
// matrices, and carries the local partial-derivative factors the reverse
// sweep combines with child derivatives.
//
// Factor contents per kind:
//
//	opElementwise: factors[j](r,c) = ∂output(r,c)/∂parent_j(r,c)
//	opMatProd:     factors[0] = yᵀ, factors[1] = xᵀ (pre-transposed)
//	opNorm:        factors[0] = 2x
//	opConv:        factors[0] = zero-padded, axis-reversed kernel sized so
//	               a valid correlation against the child derivative yields
//	               the input's shape (reversed on both axes by the sweep);
//	               factors[1] = the input matrix
//	opPool:        factors[0] = argmax mask the shape of the parent
//	opVertCat:     no factors; offsets holds the cumulative row table
//	opFlatten:     no factors; origRows/origCols hold the parent's shape
type node[T constraints.Float] struct {
	kind       opKind
	rows, cols int // output shape
	deps       []int
	factors    []*matrix.Dense[T]

	poolRows, poolCols int   // opPool window
	offsets            []int // opVertCat cumulative row offsets, len(deps)+1
	origRows, origCols int   // opFlatten parent shape

	optimizable bool // leaves only; read by optimizers, ignored here
}
