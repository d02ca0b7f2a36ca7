package autodiff

import (
	"fmt"

	"golang.org/x/exp/constraints"

	"github.com/LexaHoods/tensorslow/internal/matrix"
)

// Grad computes the partial derivative of x with respect to every node at
// or below x on its tape, by a single reverse sweep.
//
// x must be 1x1 unless the tape is still elementwise-only. Pointwise
// traces factor into independent scalar programs per matrix entry, so
// sweeping them with a seed of ones yields the elementwise Jacobian
// directly; once a shape-crossing primitive has been recorded, only a
// scalar root admits a well-defined gradient and Grad fails with
// ErrNotScalar otherwise.
//
// The sweep does not mutate the tape: repeated calls, on the same or
// different roots, produce independent bundles.
func (x Tensor[T]) Grad() (Gradient[T], error) {
	t := x.tape
	if t == nil {
		return Gradient[T]{}, ErrTapeMismatch
	}
	if !t.elementwiseOnly && !x.isScalar() {
		r, c := x.value.Dims()
		return Gradient[T]{}, fmt.Errorf("%w: root is %dx%d", ErrNotScalar, r, c)
	}

	d := make([]*matrix.Dense[T], x.index+1)
	d[x.index] = matrix.Ones[T](x.value.Dims())

	for i := x.index; i >= 0; i-- {
		if d[i] == nil {
			continue
		}
		n := &t.nodes[i]
		for j, p := range n.deps {
			if p < 0 || p >= i {
				return Gradient[T]{}, fmt.Errorf("%w: node %d depends on %d", ErrCorruptTape, i, p)
			}
			c := contribution(n, d[i], j)
			if d[p] == nil {
				d[p] = c
			} else {
				matrix.AddInPlace(d[p], c)
			}
		}
	}

	// Untouched indices surface as zero matrices of the node's shape.
	for i := range d {
		if d[i] == nil {
			d[i] = matrix.New[T](t.nodes[i].rows, t.nodes[i].cols)
		}
	}

	return Gradient[T]{tape: t, derivatives: d}, nil
}

// contribution converts the child derivative d of node n into the
// parent-derivative increment for dependency slot j.
func contribution[T constraints.Float](n *node[T], d *matrix.Dense[T], j int) *matrix.Dense[T] {
	switch n.kind {
	case opElementwise:
		return matrix.MulElem(d, n.factors[j])

	case opMatProd:
		// Factors are pre-transposed: d·yᵀ for the left parent,
		// xᵀ·d for the right.
		if j == 0 {
			return matrix.MatMul(d, n.factors[0])
		}
		return matrix.MatMul(n.factors[1], d)

	case opNorm:
		return matrix.Scale(n.factors[0], d.At(0, 0))

	case opConv:
		// Both directions reduce to a valid correlation with the larger
		// operand first; the input-slot factor was pre-padded so the
		// result has the input's shape. For the input slot that
		// correlation comes out reversed along both axes, so it is
		// flipped back.
		f := n.factors[j]
		var c *matrix.Dense[T]
		if d.Rows() > f.Rows() && d.Cols() > f.Cols() {
			c = matrix.Correlate(d, f)
		} else {
			c = matrix.Correlate(f, d)
		}
		if j == 0 {
			return matrix.ReverseBoth(c)
		}
		return c

	case opPool:
		return upsample(d, n.factors[0], n.poolRows, n.poolCols)

	case opVertCat:
		return d.Block(n.offsets[j], 0, n.offsets[j+1]-n.offsets[j], d.Cols())

	case opFlatten:
		return matrix.Unflatten(d, n.origRows, n.origCols)

	default:
		panic(fmt.Sprintf("autodiff: node kind %d has no dependencies", n.kind))
	}
}

// upsample tiles each entry of d across its pool window, then keeps only
// the argmax positions recorded in mask.
func upsample[T constraints.Float](d, mask *matrix.Dense[T], ph, pw int) *matrix.Dense[T] {
	out := matrix.New[T](mask.Dims())
	for i := 0; i < d.Rows(); i++ {
		for j := 0; j < d.Cols(); j++ {
			v := d.At(i, j)
			for k := 0; k < ph; k++ {
				for l := 0; l < pw; l++ {
					r, c := i*ph+k, j*pw+l
					out.Set(r, c, v*mask.At(r, c))
				}
			}
		}
	}
	return out
}
