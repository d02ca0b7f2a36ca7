// Package nn provides differentiable models built on the autodiff engine:
// a polynomial, a multilayer perceptron, and a convolutional network. A
// model owns its tape, tracks its parameters as leaves, and rebuilds both
// on Reset so the tape does not grow across training steps.
package nn

import (
	"errors"

	"golang.org/x/exp/constraints"

	"github.com/LexaHoods/tensorslow/autodiff"
	"github.com/LexaHoods/tensorslow/internal/matrix"
)

// ErrBadDimensions means a model constructor or Compute was given sizes
// that do not fit the model's architecture.
var ErrBadDimensions = errors.New("nn: dimensions do not fit the model")

// Model is a differentiable function with trainable parameters. Inputs
// passed to Compute must be tracked on the model's own tape (obtained via
// Tape after the most recent Reset).
type Model[T constraints.Float] interface {
	// Compute runs the forward pass, recording it on the model's tape.
	Compute(input autodiff.Tensor[T]) (autodiff.Tensor[T], error)

	// Tape returns the tape the model's parameters are tracked on.
	Tape() *autodiff.Tape[T]

	// Parameters returns the tracked parameter tensors, in a stable order.
	Parameters() []autodiff.Tensor[T]

	// ToggleGlobalOptimize marks or unmarks every parameter as trainable.
	ToggleGlobalOptimize(enable bool)

	// Reset replaces the tape with a fresh one and re-tracks the current
	// parameter values. Outstanding tensors from the old tape are
	// invalidated.
	Reset()
}

// base carries the tape and parameter bookkeeping shared by all models.
type base[T constraints.Float] struct {
	tape     *autodiff.Tape[T]
	values   []*matrix.Dense[T]
	params   []autodiff.Tensor[T]
	optimize bool
}

func (b *base[T]) Tape() *autodiff.Tape[T] {
	return b.tape
}

func (b *base[T]) Parameters() []autodiff.Tensor[T] {
	return b.params
}

func (b *base[T]) ToggleGlobalOptimize(enable bool) {
	b.optimize = enable
	for _, p := range b.params {
		b.tape.ToggleOptimize(p, enable)
	}
}

func (b *base[T]) Reset() {
	b.track()
}

// track builds a fresh tape and re-tracks every parameter value on it.
func (b *base[T]) track() {
	b.tape = autodiff.NewTape[T]()
	b.params = make([]autodiff.Tensor[T], len(b.values))
	for i, v := range b.values {
		b.params[i] = b.tape.Track(v)
		if b.optimize {
			b.tape.ToggleOptimize(b.params[i], true)
		}
	}
}

// setValues replaces the parameter values (after a Load) and re-tracks.
func (b *base[T]) setValues(values []*matrix.Dense[T]) {
	b.values = values
	b.track()
}
