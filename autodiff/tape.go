package autodiff

import (
	"golang.org/x/exp/constraints"

	"github.com/LexaHoods/tensorslow/internal/matrix"
)

// Tape is an append-only Wengert list. It owns every recorded node,
// including their local-factor matrices; tracked tensors are non-owning
// handles into it. Indices are stable for the tape's lifetime.
//
// A tape starts elementwise-only. The first shape-crossing primitive
// (matrix product, norm, convolution, pooling, concatenation, flattening)
// clears the flag permanently, after which Grad only accepts 1x1 roots.
type Tape[T constraints.Float] struct {
	nodes           []node[T]
	elementwiseOnly bool
}

// NewTape returns an empty tape.
func NewTape[T constraints.Float]() *Tape[T] {
	return &Tape[T]{
		nodes:           make([]node[T], 0, 64),
		elementwiseOnly: true,
	}
}

// Size returns the number of recorded nodes.
func (t *Tape[T]) Size() int {
	return len(t.nodes)
}

// Track appends a leaf node for the given matrix and returns the tracked
// tensor at that index. The matrix is not copied.
func (t *Tape[T]) Track(m *matrix.Dense[T]) Tensor[T] {
	r, c := m.Dims()
	return t.append(m, node[T]{kind: opLeaf, rows: r, cols: c})
}

// append records a node and returns the tensor referencing it.
func (t *Tape[T]) append(value *matrix.Dense[T], n node[T]) Tensor[T] {
	t.nodes = append(t.nodes, n)
	return Tensor[T]{
		value: value,
		tape:  t,
		index: len(t.nodes) - 1,
	}
}

// ToggleOptimize marks or unmarks a leaf as a trainable parameter. The
// engine records the flag without acting on it; optimizers read it to
// decide which leaves to update. Non-leaf tensors and tensors from other
// tapes are ignored.
func (t *Tape[T]) ToggleOptimize(x Tensor[T], enable bool) {
	if x.tape != t || x.index < 0 || x.index >= len(t.nodes) {
		return
	}
	if t.nodes[x.index].kind != opLeaf {
		return
	}
	t.nodes[x.index].optimizable = enable
}

// Optimizable reports whether a tensor is a leaf marked for optimization.
func (t *Tape[T]) Optimizable(x Tensor[T]) bool {
	if x.tape != t || x.index < 0 || x.index >= len(t.nodes) {
		return false
	}
	return t.nodes[x.index].optimizable
}

// markShapeCrossing clears the elementwise-only flag. Monotonic: never
// re-set for the tape's lifetime.
func (t *Tape[T]) markShapeCrossing() {
	t.elementwiseOnly = false
}
