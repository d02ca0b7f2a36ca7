package nn

import (
	"fmt"
	"io"
	"math/rand"

	"golang.org/x/exp/constraints"

	"github.com/LexaHoods/tensorslow/autodiff"
	"github.com/LexaHoods/tensorslow/internal/matrix"
)

// ConvolutionalNetwork chains convolution stages over a 2-D input and
// feeds the flattened result through fully connected layers. Each stage
// applies sigmoid(convolution(x, kernel)) followed by max-pooling.
// Parameters are stored [K₀, ..., Kₙ, W₀, b₀, W₁, b₁, ...].
type ConvolutionalNetwork[T constraints.Float] struct {
	base[T]
	inputRows, inputCols int
	poolRows, poolCols   int
	numKernels           int
}

// NewConvolutionalNetwork builds a CNN over inputRows x inputCols
// matrices. kernels lists the (rows, cols) of each convolution kernel,
// pool the window applied after every stage, and dense the sizes of the
// fully connected layers fed by the flattened final feature map. The
// constructor verifies every stage's arithmetic: each convolution must
// leave a positive shape and the pool window must divide it.
func NewConvolutionalNetwork[T constraints.Float](
	inputRows, inputCols int,
	kernels [][2]int,
	pool [2]int,
	dense []int,
	rng *rand.Rand,
) (*ConvolutionalNetwork[T], error) {
	if inputRows <= 0 || inputCols <= 0 {
		return nil, fmt.Errorf("%w: input %dx%d", ErrBadDimensions, inputRows, inputCols)
	}
	if pool[0] <= 0 || pool[1] <= 0 {
		return nil, fmt.Errorf("%w: pool %dx%d", ErrBadDimensions, pool[0], pool[1])
	}

	rows, cols := inputRows, inputCols
	for i, k := range kernels {
		if k[0] <= 0 || k[1] <= 0 {
			return nil, fmt.Errorf("%w: kernel %d is %dx%d", ErrBadDimensions, i, k[0], k[1])
		}
		rows, cols = rows-k[0]+1, cols-k[1]+1
		if rows <= 0 || cols <= 0 {
			return nil, fmt.Errorf("%w: kernel %d leaves %dx%d", ErrBadDimensions, i, rows, cols)
		}
		if rows%pool[0] != 0 || cols%pool[1] != 0 {
			return nil, fmt.Errorf("%w: pool %dx%d does not divide stage %d output %dx%d",
				ErrBadDimensions, pool[0], pool[1], i, rows, cols)
		}
		rows, cols = rows/pool[0], cols/pool[1]
	}

	for _, l := range dense {
		if l <= 0 {
			return nil, fmt.Errorf("%w: dense layer of size %d", ErrBadDimensions, l)
		}
	}

	c := &ConvolutionalNetwork[T]{
		inputRows: inputRows, inputCols: inputCols,
		poolRows: pool[0], poolCols: pool[1],
		numKernels: len(kernels),
	}

	for _, k := range kernels {
		c.values = append(c.values, matrix.Random[T](k[0], k[1], rng))
	}

	// First dense layer consumes the flattened final feature map.
	prev := rows * cols
	for _, l := range dense {
		c.values = append(c.values,
			matrix.Random[T](l, prev, rng),
			matrix.Random[T](l, 1, rng),
		)
		prev = l
	}

	c.track()
	return c, nil
}

// Compute runs the forward pass on an inputRows x inputCols matrix
// tracked on the model's tape.
func (c *ConvolutionalNetwork[T]) Compute(input autodiff.Tensor[T]) (autodiff.Tensor[T], error) {
	r, cl := input.Dims()
	if r != c.inputRows || cl != c.inputCols {
		return autodiff.Tensor[T]{}, fmt.Errorf("%w: input %dx%d, want %dx%d",
			ErrBadDimensions, r, cl, c.inputRows, c.inputCols)
	}

	x := input
	for _, kernel := range c.params[:c.numKernels] {
		conv, err := autodiff.Convolution(x, kernel)
		if err != nil {
			return autodiff.Tensor[T]{}, err
		}
		if x, err = autodiff.Sigmoid(conv); err != nil {
			return autodiff.Tensor[T]{}, err
		}
		if x, err = autodiff.MaxPooling(x, c.poolRows, c.poolCols); err != nil {
			return autodiff.Tensor[T]{}, err
		}
	}

	x, err := autodiff.Flattening(x)
	if err != nil {
		return autodiff.Tensor[T]{}, err
	}

	return forwardDense(x, c.params[c.numKernels:])
}

// Save writes the network geometry followed by the kernel, weight and
// bias matrices.
func (c *ConvolutionalNetwork[T]) Save(w io.Writer) error {
	if _, err := fmt.Fprintln(w, c.inputRows, c.inputCols, c.poolRows, c.poolCols, c.numKernels); err != nil {
		return err
	}
	return writeMatrices(w, c.values)
}

// Load replaces the parameters with the geometry and matrices read from r
// and resets the tape.
func (c *ConvolutionalNetwork[T]) Load(r io.Reader) error {
	var inputRows, inputCols, poolRows, poolCols, numKernels int
	if _, err := fmt.Fscan(r, &inputRows, &inputCols, &poolRows, &poolCols, &numKernels); err != nil {
		return fmt.Errorf("nn: reading network geometry: %w", err)
	}
	values, err := readMatrices[T](r)
	if err != nil {
		return err
	}
	if inputRows <= 0 || inputCols <= 0 || poolRows <= 0 || poolCols <= 0 {
		return fmt.Errorf("%w: geometry %dx%d pool %dx%d", ErrBadDimensions, inputRows, inputCols, poolRows, poolCols)
	}
	if numKernels < 0 || numKernels > len(values) || (len(values)-numKernels)%2 != 0 {
		return fmt.Errorf("%w: %d matrices with %d kernels", ErrBadDimensions, len(values), numKernels)
	}
	c.inputRows, c.inputCols = inputRows, inputCols
	c.poolRows, c.poolCols = poolRows, poolCols
	c.numKernels = numKernels
	c.setValues(values)
	return nil
}
