package nn

import (
	"fmt"
	"io"
	"math/rand"

	"golang.org/x/exp/constraints"

	"github.com/LexaHoods/tensorslow/autodiff"
	"github.com/LexaHoods/tensorslow/internal/matrix"
)

// Polynom is an elementwise polynomial Σᵢ cᵢ ⊙ x^i of a given order, with
// one coefficient matrix per degree (degree 0 included). All coefficients
// and the input share one shape, so its trace stays elementwise-only and
// gradients can be taken for any root shape.
type Polynom[T constraints.Float] struct {
	base[T]
	rows, cols int
}

// NewPolynom builds a polynomial of the given order over rows x cols
// matrices, coefficients initialized uniform in [-1, 1).
func NewPolynom[T constraints.Float](order, rows, cols int, rng *rand.Rand) (*Polynom[T], error) {
	if order < 0 || rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: order %d, shape %dx%d", ErrBadDimensions, order, rows, cols)
	}

	p := &Polynom[T]{rows: rows, cols: cols}
	for i := 0; i <= order; i++ {
		p.values = append(p.values, matrix.Random[T](rows, cols, rng))
	}
	p.track()
	return p, nil
}

// Order returns the polynomial's degree.
func (p *Polynom[T]) Order() int {
	return len(p.values) - 1
}

// Rows returns the coefficient row count.
func (p *Polynom[T]) Rows() int { return p.rows }

// Cols returns the coefficient column count.
func (p *Polynom[T]) Cols() int { return p.cols }

// Compute evaluates the polynomial at input, which must match the
// coefficient shape and be tracked on the model's tape.
func (p *Polynom[T]) Compute(input autodiff.Tensor[T]) (autodiff.Tensor[T], error) {
	r, c := input.Dims()
	if r != p.rows || c != p.cols {
		return autodiff.Tensor[T]{}, fmt.Errorf("%w: input %dx%d, coefficients %dx%d",
			ErrBadDimensions, r, c, p.rows, p.cols)
	}

	result := p.tape.Track(matrix.New[T](p.rows, p.cols))
	for i, coeff := range p.params {
		element := coeff
		for j := 0; j < i; j++ {
			var err error
			if element, err = autodiff.Mul(element, input); err != nil {
				return autodiff.Tensor[T]{}, err
			}
		}
		var err error
		if result, err = autodiff.Add(result, element); err != nil {
			return autodiff.Tensor[T]{}, err
		}
	}
	return result, nil
}

// Save writes the coefficient matrices to w.
func (p *Polynom[T]) Save(w io.Writer) error {
	return writeMatrices(w, p.values)
}

// Load replaces the coefficients with matrices read from r and resets the
// tape.
func (p *Polynom[T]) Load(r io.Reader) error {
	values, err := readMatrices[T](r)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return fmt.Errorf("%w: no coefficients", ErrBadDimensions)
	}
	for _, v := range values {
		if v.Rows() != values[0].Rows() || v.Cols() != values[0].Cols() {
			return fmt.Errorf("%w: mixed coefficient shapes", ErrBadDimensions)
		}
	}
	p.rows, p.cols = values[0].Dims()
	p.setValues(values)
	return nil
}
