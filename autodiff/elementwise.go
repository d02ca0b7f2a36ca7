package autodiff

import (
	"fmt"

	"golang.org/x/exp/constraints"

	"github.com/LexaHoods/tensorslow/internal/matrix"
)

// checkElementwise validates the shared-tape and shape rules common to the
// binary pointwise primitives.
func checkElementwise[T constraints.Float](x, y Tensor[T]) error {
	if x.tape == nil || y.tape == nil || x.tape != y.tape {
		return ErrTapeMismatch
	}
	xr, xc := x.value.Dims()
	yr, yc := y.value.Dims()
	if xr != yr || xc != yc {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrShapeMismatch, xr, xc, yr, yc)
	}
	return nil
}

// Add computes the elementwise sum x + y.
//
//	a = x + y
//	da/dx = 1
//	da/dy = 1
func Add[T constraints.Float](x, y Tensor[T]) (Tensor[T], error) {
	if err := checkElementwise(x, y); err != nil {
		return Tensor[T]{}, err
	}
	r, c := x.value.Dims()
	ones := matrix.Ones[T](r, c)
	return x.tape.append(matrix.Add(x.value, y.value), node[T]{
		kind: opElementwise,
		rows: r, cols: c,
		deps:    []int{x.index, y.index},
		factors: []*matrix.Dense[T]{ones, ones},
	}), nil
}

// Sub computes the elementwise difference x - y.
//
//	a = x - y
//	da/dx = 1
//	da/dy = -1
func Sub[T constraints.Float](x, y Tensor[T]) (Tensor[T], error) {
	if err := checkElementwise(x, y); err != nil {
		return Tensor[T]{}, err
	}
	r, c := x.value.Dims()
	return x.tape.append(matrix.Sub(x.value, y.value), node[T]{
		kind: opElementwise,
		rows: r, cols: c,
		deps:    []int{x.index, y.index},
		factors: []*matrix.Dense[T]{matrix.Ones[T](r, c), matrix.Full[T](r, c, -1)},
	}), nil
}

// Mul computes the Hadamard product x ⊙ y.
//
//	a = x ⊙ y
//	da/dx = y
//	da/dy = x
func Mul[T constraints.Float](x, y Tensor[T]) (Tensor[T], error) {
	if err := checkElementwise(x, y); err != nil {
		return Tensor[T]{}, err
	}
	r, c := x.value.Dims()
	return x.tape.append(matrix.MulElem(x.value, y.value), node[T]{
		kind: opElementwise,
		rows: r, cols: c,
		deps:    []int{x.index, y.index},
		factors: []*matrix.Dense[T]{y.value.Clone(), x.value.Clone()},
	}), nil
}

// Div computes the elementwise quotient x ⊘ y. Behaviour on zero entries
// of y is undefined; non-finite values propagate.
//
//	a = x ⊘ y
//	da/dx = 1/y
//	da/dy = -x/y²
func Div[T constraints.Float](x, y Tensor[T]) (Tensor[T], error) {
	if err := checkElementwise(x, y); err != nil {
		return Tensor[T]{}, err
	}
	r, c := x.value.Dims()
	dx := matrix.Apply(y.value, func(v T) T { return 1 / v })
	dy := matrix.Apply(matrix.DivElem(x.value, matrix.MulElem(y.value, y.value)), func(v T) T { return -v })
	return x.tape.append(matrix.DivElem(x.value, y.value), node[T]{
		kind: opElementwise,
		rows: r, cols: c,
		deps:    []int{x.index, y.index},
		factors: []*matrix.Dense[T]{dx, dy},
	}), nil
}

// Sigmoid computes the elementwise sigmoid function.
//
//	a = eˣ / (eˣ + 1)
//	da/dx = eˣ / (eˣ + 1)²
func Sigmoid[T constraints.Float](x Tensor[T]) (Tensor[T], error) {
	if x.tape == nil {
		return Tensor[T]{}, ErrTapeMismatch
	}
	r, c := x.value.Dims()
	e := matrix.Exp(x.value)
	denom := matrix.AddScalar(e, 1)
	return x.tape.append(matrix.DivElem(e, denom), node[T]{
		kind: opElementwise,
		rows: r, cols: c,
		deps:    []int{x.index},
		factors: []*matrix.Dense[T]{matrix.DivElem(e, matrix.Pow(denom, 2))},
	}), nil
}
