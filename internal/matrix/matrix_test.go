package matrix

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Zeroed(t *testing.T) {
	m := New[float64](2, 3)
	r, c := m.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			assert.Zero(t, m.At(i, j))
		}
	}
}

func TestFromSlice_RowMajor(t *testing.T) {
	m := FromSlice(2, 2, []float32{1, 2, 3, 4})
	assert.Equal(t, float32(1), m.At(0, 0))
	assert.Equal(t, float32(2), m.At(0, 1))
	assert.Equal(t, float32(3), m.At(1, 0))
	assert.Equal(t, float32(4), m.At(1, 1))
}

func TestFromSlice_BadLengthPanics(t *testing.T) {
	assert.Panics(t, func() { FromSlice(2, 2, []float64{1, 2, 3}) })
}

func TestFromRows(t *testing.T) {
	m := FromRows([][]float64{{1, 2}, {3, 4}})
	assert.True(t, m.Equal(FromSlice(2, 2, []float64{1, 2, 3, 4})))

	assert.Panics(t, func() { FromRows([][]float64{{1, 2}, {3}}) })
}

func TestOnesFull(t *testing.T) {
	assert.True(t, Ones[float64](2, 2).Equal(FromSlice(2, 2, []float64{1, 1, 1, 1})))
	assert.True(t, Full[float64](1, 3, -2).Equal(FromSlice(1, 3, []float64{-2, -2, -2})))
}

func TestRandom_Range(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	m := Random[float64](8, 8, rng)
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			v := m.At(i, j)
			assert.GreaterOrEqual(t, v, -1.0)
			assert.Less(t, v, 1.0)
		}
	}
}

func TestSetAt(t *testing.T) {
	m := New[float64](2, 2)
	m.Set(1, 0, 7)
	assert.Equal(t, 7.0, m.At(1, 0))

	assert.Panics(t, func() { m.At(2, 0) })
	assert.Panics(t, func() { m.Set(0, -1, 1) })
}

func TestClone_Independent(t *testing.T) {
	m := FromSlice(1, 2, []float64{1, 2})
	c := m.Clone()
	require.True(t, m.Equal(c))

	c.Set(0, 0, 9)
	assert.Equal(t, 1.0, m.At(0, 0))
}

func TestEqualApprox(t *testing.T) {
	a := FromSlice(1, 2, []float64{1, 2})
	b := FromSlice(1, 2, []float64{1 + 1e-10, 2})
	assert.True(t, a.EqualApprox(b, 1e-9))
	assert.False(t, a.EqualApprox(b, 1e-11))
	assert.False(t, a.EqualApprox(New[float64](2, 1), 1))
}
