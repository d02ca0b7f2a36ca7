package autodiff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LexaHoods/tensorslow/autodiff"
	"github.com/LexaHoods/tensorslow/internal/matrix"
)

// An elementwise-only trace admits gradients of any root shape.
func TestGrad_ElementwiseOnlyNonScalarRoot(t *testing.T) {
	tape := autodiff.NewTape[float64]()
	x := tape.Track(matrix.FromRows([][]float64{{1, 2}, {3, 4}}))
	y := tape.Track(matrix.FromRows([][]float64{{5, 6}, {7, 8}}))

	z, err := autodiff.Mul(x, y)
	require.NoError(t, err)

	g, err := z.Grad()
	require.NoError(t, err)
	assert.True(t, g.At(x).Equal(y.Value()))
	assert.True(t, g.At(y).Equal(x.Value()))
}

// Once a shape-crossing primitive has been recorded, a non-scalar root is
// rejected, even for tensors recorded before the crossing.
func TestGrad_NotScalarAfterShapeCrossing(t *testing.T) {
	tape := autodiff.NewTape[float64]()
	x := tape.Track(matrix.FromRows([][]float64{{1, 2}}))
	y := tape.Track(matrix.FromRows([][]float64{{3, 4}}))

	z, err := autodiff.Add(x, y)
	require.NoError(t, err)

	// Still elementwise-only: a 1x2 root is fine.
	_, err = z.Grad()
	require.NoError(t, err)

	_, err = autodiff.SquaredNorm(z)
	require.NoError(t, err)

	// Now the same 1x2 root must be refused.
	_, err = z.Grad()
	assert.ErrorIs(t, err, autodiff.ErrNotScalar)
}

func TestGrad_ScalarRootAlwaysAllowed(t *testing.T) {
	tape := autodiff.NewTape[float64]()
	x := tape.Track(matrix.FromRows([][]float64{{1, 2}}))

	n, err := autodiff.SquaredNorm(x)
	require.NoError(t, err)

	_, err = n.Grad()
	assert.NoError(t, err)
}

// Two consecutive sweeps return equal bundles; the tape is not mutated.
func TestGrad_Idempotent(t *testing.T) {
	tape := autodiff.NewTape[float64]()
	x := tape.Track(matrix.FromRows([][]float64{{1, -2}, {0.5, 3}}))

	s, err := autodiff.Sigmoid(x)
	require.NoError(t, err)
	n, err := autodiff.SquaredNorm(s)
	require.NoError(t, err)

	sizeBefore := tape.Size()
	g1, err := n.Grad()
	require.NoError(t, err)
	g2, err := n.Grad()
	require.NoError(t, err)

	assert.Equal(t, sizeBefore, tape.Size())
	assert.True(t, g1.At(x).Equal(g2.At(x)))
	assert.True(t, g1.At(s).Equal(g2.At(s)))
}

// Linearity: the gradient of a + b is the sum of the individual gradients.
func TestGrad_LinearityOfSum(t *testing.T) {
	tape := autodiff.NewTape[float64]()
	x := tape.Track(matrix.FromRows([][]float64{{2}}))

	a, err := autodiff.Mul(x, x) // da/dx = 2x = 4
	require.NoError(t, err)
	b, err := autodiff.Add(x, x) // db/dx = 2
	require.NoError(t, err)

	ga, err := a.Grad()
	require.NoError(t, err)
	gb, err := b.Grad()
	require.NoError(t, err)

	sum, err := autodiff.Add(a, b)
	require.NoError(t, err)
	gs, err := sum.Grad()
	require.NoError(t, err)

	assert.Equal(t, ga.At(x).At(0, 0)+gb.At(x).At(0, 0), gs.At(x).At(0, 0))
}

// Nodes with no path to the root get zero derivatives; nodes past the
// root are out of the sweep's range and also surface as zero.
func TestGrad_UnreachedAndOutOfRange(t *testing.T) {
	tape := autodiff.NewTape[float64]()
	x := tape.Track(matrix.FromRows([][]float64{{1, 2}}))
	unrelated := tape.Track(matrix.FromRows([][]float64{{9, 9, 9}}))

	n, err := autodiff.SquaredNorm(x)
	require.NoError(t, err)

	g, err := n.Grad()
	require.NoError(t, err)
	assert.False(t, g.IsEmpty())

	assert.True(t, g.At(unrelated).Equal(matrix.New[float64](1, 3)))

	later := tape.Track(matrix.FromRows([][]float64{{1}}))
	assert.True(t, g.At(later).Equal(matrix.New[float64](1, 1)))
}

// Grad of a root with respect to itself is a matrix of ones.
func TestGrad_RootSeed(t *testing.T) {
	tape := autodiff.NewTape[float64]()
	x := tape.Track(matrix.FromRows([][]float64{{1, 2}, {3, 4}}))

	g, err := x.Grad()
	require.NoError(t, err)
	assert.True(t, g.At(x).Equal(matrix.Ones[float64](2, 2)))
}
