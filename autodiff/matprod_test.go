package autodiff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LexaHoods/tensorslow/autodiff"
	"github.com/LexaHoods/tensorslow/internal/matrix"
)

func TestMatProd(t *testing.T) {
	tape := autodiff.NewTape[float64]()
	x := tape.Track(matrix.FromRows([][]float64{{1, 2}}))
	y := tape.Track(matrix.FromRows([][]float64{{3}, {4}}))

	z, err := autodiff.MatProd(x, y)
	require.NoError(t, err)
	require.Equal(t, 11.0, z.Value().At(0, 0))

	g, err := z.Grad()
	require.NoError(t, err)
	assert.True(t, g.At(x).Equal(matrix.FromRows([][]float64{{3, 4}})), "grad wrt x should be yᵀ")
	assert.True(t, g.At(y).Equal(matrix.FromRows([][]float64{{1}, {2}})), "grad wrt y should be xᵀ")
}

func TestMatProd_InnerDimMismatch(t *testing.T) {
	tape := autodiff.NewTape[float64]()
	x := tape.Track(matrix.New[float64](2, 3))
	y := tape.Track(matrix.New[float64](2, 3))

	_, err := autodiff.MatProd(x, y)
	assert.ErrorIs(t, err, autodiff.ErrShapeMismatch)
}

func TestMatProd_TapeMismatch(t *testing.T) {
	x := autodiff.NewTape[float64]().Track(matrix.New[float64](2, 3))
	y := autodiff.NewTape[float64]().Track(matrix.New[float64](3, 2))

	_, err := autodiff.MatProd(x, y)
	assert.ErrorIs(t, err, autodiff.ErrTapeMismatch)
}

func TestSquaredNorm(t *testing.T) {
	tape := autodiff.NewTape[float64]()
	x := tape.Track(matrix.FromRows([][]float64{{3, 4}}))

	n, err := autodiff.SquaredNorm(x)
	require.NoError(t, err)
	r, c := n.Dims()
	require.Equal(t, 1, r)
	require.Equal(t, 1, c)
	assert.Equal(t, 25.0, n.Value().At(0, 0))

	g, err := n.Grad()
	require.NoError(t, err)
	assert.True(t, g.At(x).Equal(matrix.FromRows([][]float64{{6, 8}})))
}

// Chain rule through two primitives: z = ‖σ(x)‖² at x = 0. The pointwise
// derivative is 2σ(0)·σ'(0) = 2·0.5·0.25 = 0.25.
func TestChainRule(t *testing.T) {
	tape := autodiff.NewTape[float64]()
	x := tape.Track(matrix.FromRows([][]float64{{0, 0}}))

	s, err := autodiff.Sigmoid(x)
	require.NoError(t, err)
	n, err := autodiff.SquaredNorm(s)
	require.NoError(t, err)

	g, err := n.Grad()
	require.NoError(t, err)
	assert.True(t, g.At(x).EqualApprox(matrix.FromRows([][]float64{{0.25, 0.25}}), 1e-12))
	// The intermediate also receives its own derivative, 2σ(0) = 1.
	assert.True(t, g.At(s).EqualApprox(matrix.Ones[float64](1, 2), 1e-12))
}

// A value used twice accumulates contributions from both uses:
// z = x ⊙ x has dz/dx = 2x.
func TestGradientAccumulation(t *testing.T) {
	tape := autodiff.NewTape[float64]()
	x := tape.Track(matrix.FromRows([][]float64{{3, -5}}))

	z, err := autodiff.Mul(x, x)
	require.NoError(t, err)

	g, err := z.Grad()
	require.NoError(t, err)
	assert.True(t, g.At(x).Equal(matrix.FromRows([][]float64{{6, -10}})))
}
