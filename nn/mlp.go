package nn

import (
	"fmt"
	"io"
	"math/rand"

	"golang.org/x/exp/constraints"

	"github.com/LexaHoods/tensorslow/autodiff"
	"github.com/LexaHoods/tensorslow/internal/matrix"
)

// MultiLayerPerceptron is a fully connected network with sigmoid
// activations. Layer i maps a column vector through
// sigmoid(Wᵢ·x + bᵢ). Parameters are stored [W₀, b₀, W₁, b₁, ...].
type MultiLayerPerceptron[T constraints.Float] struct {
	base[T]
	inputSize int
}

// NewMultiLayerPerceptron builds an MLP mapping an inputSize x 1 column
// vector through the given layer sizes, weights and biases initialized
// uniform in [-1, 1).
func NewMultiLayerPerceptron[T constraints.Float](inputSize int, layers []int, rng *rand.Rand) (*MultiLayerPerceptron[T], error) {
	if inputSize <= 0 || len(layers) == 0 {
		return nil, fmt.Errorf("%w: input size %d, %d layers", ErrBadDimensions, inputSize, len(layers))
	}
	for _, l := range layers {
		if l <= 0 {
			return nil, fmt.Errorf("%w: layer of size %d", ErrBadDimensions, l)
		}
	}

	m := &MultiLayerPerceptron[T]{inputSize: inputSize}
	prev := inputSize
	for _, l := range layers {
		m.values = append(m.values,
			matrix.Random[T](l, prev, rng), // weights
			matrix.Random[T](l, 1, rng),    // biases
		)
		prev = l
	}
	m.track()
	return m, nil
}

// InputSize returns the expected input vector length.
func (m *MultiLayerPerceptron[T]) InputSize() int {
	return m.inputSize
}

// Compute runs the forward pass on an inputSize x 1 column vector tracked
// on the model's tape.
func (m *MultiLayerPerceptron[T]) Compute(input autodiff.Tensor[T]) (autodiff.Tensor[T], error) {
	r, c := input.Dims()
	if r != m.inputSize || c != 1 {
		return autodiff.Tensor[T]{}, fmt.Errorf("%w: input %dx%d, want %dx1",
			ErrBadDimensions, r, c, m.inputSize)
	}
	return forwardDense(input, m.params)
}

// forwardDense chains sigmoid(W·x + b) over [W₀, b₀, W₁, b₁, ...] pairs.
func forwardDense[T constraints.Float](x autodiff.Tensor[T], params []autodiff.Tensor[T]) (autodiff.Tensor[T], error) {
	for i := 0; i+1 < len(params); i += 2 {
		wx, err := autodiff.MatProd(params[i], x)
		if err != nil {
			return autodiff.Tensor[T]{}, err
		}
		pre, err := autodiff.Add(wx, params[i+1])
		if err != nil {
			return autodiff.Tensor[T]{}, err
		}
		if x, err = autodiff.Sigmoid(pre); err != nil {
			return autodiff.Tensor[T]{}, err
		}
	}
	return x, nil
}

// Save writes the weight and bias matrices to w.
func (m *MultiLayerPerceptron[T]) Save(w io.Writer) error {
	return writeMatrices(w, m.values)
}

// Load replaces the parameters with matrices read from r and resets the
// tape. The matrices must form valid (weight, bias) pairs.
func (m *MultiLayerPerceptron[T]) Load(r io.Reader) error {
	values, err := readMatrices[T](r)
	if err != nil {
		return err
	}
	if len(values) == 0 || len(values)%2 != 0 {
		return fmt.Errorf("%w: %d matrices do not form weight/bias pairs", ErrBadDimensions, len(values))
	}
	prev := values[0].Cols()
	for i := 0; i+1 < len(values); i += 2 {
		w, b := values[i], values[i+1]
		if w.Cols() != prev || b.Rows() != w.Rows() || b.Cols() != 1 {
			return fmt.Errorf("%w: layer %d is %dx%d with bias %dx%d",
				ErrBadDimensions, i/2, w.Rows(), w.Cols(), b.Rows(), b.Cols())
		}
		prev = w.Rows()
	}
	m.inputSize = values[0].Cols()
	m.setValues(values)
	return nil
}
