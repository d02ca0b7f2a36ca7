package matrix

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Add returns a + b elementwise.
func Add[T constraints.Float](a, b *Dense[T]) *Dense[T] {
	sameShape(a, b, "add")
	out := New[T](a.rows, a.cols)
	for i := range a.data {
		out.data[i] = a.data[i] + b.data[i]
	}
	return out
}

// Sub returns a - b elementwise.
func Sub[T constraints.Float](a, b *Dense[T]) *Dense[T] {
	sameShape(a, b, "sub")
	out := New[T](a.rows, a.cols)
	for i := range a.data {
		out.data[i] = a.data[i] - b.data[i]
	}
	return out
}

// MulElem returns the Hadamard product a ⊙ b.
func MulElem[T constraints.Float](a, b *Dense[T]) *Dense[T] {
	sameShape(a, b, "mulElem")
	out := New[T](a.rows, a.cols)
	for i := range a.data {
		out.data[i] = a.data[i] * b.data[i]
	}
	return out
}

// DivElem returns the elementwise quotient a ⊘ b. Division by zero follows
// IEEE semantics and propagates non-finite values.
func DivElem[T constraints.Float](a, b *Dense[T]) *Dense[T] {
	sameShape(a, b, "divElem")
	out := New[T](a.rows, a.cols)
	for i := range a.data {
		out.data[i] = a.data[i] / b.data[i]
	}
	return out
}

// Scale returns k * a.
func Scale[T constraints.Float](a *Dense[T], k T) *Dense[T] {
	out := New[T](a.rows, a.cols)
	for i := range a.data {
		out.data[i] = k * a.data[i]
	}
	return out
}

// AddScalar returns a + k applied to every entry.
func AddScalar[T constraints.Float](a *Dense[T], k T) *Dense[T] {
	out := New[T](a.rows, a.cols)
	for i := range a.data {
		out.data[i] = a.data[i] + k
	}
	return out
}

// AddScaledInPlace sets a = a + k*b. Used by the optimizer's parameter
// updates.
func AddScaledInPlace[T constraints.Float](a, b *Dense[T], k T) {
	sameShape(a, b, "addScaled")
	for i := range a.data {
		a.data[i] += k * b.data[i]
	}
}

// AddInPlace sets a = a + b. Used by the reverse sweep's gradient
// accumulation.
func AddInPlace[T constraints.Float](a, b *Dense[T]) {
	sameShape(a, b, "add")
	for i := range a.data {
		a.data[i] += b.data[i]
	}
}

// Apply returns f mapped over every entry.
func Apply[T constraints.Float](a *Dense[T], f func(T) T) *Dense[T] {
	out := New[T](a.rows, a.cols)
	for i, v := range a.data {
		out.data[i] = f(v)
	}
	return out
}

// Exp returns e^a elementwise.
func Exp[T constraints.Float](a *Dense[T]) *Dense[T] {
	return Apply(a, func(v T) T { return T(math.Exp(float64(v))) })
}

// Pow returns a^n elementwise for integer n >= 0.
func Pow[T constraints.Float](a *Dense[T], n int) *Dense[T] {
	out := Ones[T](a.rows, a.cols)
	for ; n > 0; n-- {
		for i := range out.data {
			out.data[i] *= a.data[i]
		}
	}
	return out
}

// Sum returns the sum of all entries.
func Sum[T constraints.Float](a *Dense[T]) T {
	var s T
	for _, v := range a.data {
		s += v
	}
	return s
}

// SumSquares returns the squared Euclidean norm of a.
func SumSquares[T constraints.Float](a *Dense[T]) T {
	var s T
	for _, v := range a.data {
		s += v * v
	}
	return s
}
