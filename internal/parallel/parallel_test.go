package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFor_CoversAllIndices(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 8}

	n := 1000
	var hits = make([]atomic.Int32, n)
	For(n, func(i int) {
		hits[i].Add(1)
	}, cfg)

	for i := range hits {
		assert.Equal(t, int32(1), hits[i].Load(), "index %d", i)
	}
}

func TestFor_SequentialFallback(t *testing.T) {
	cfg := Config{Enabled: false}

	order := make([]int, 0, 10)
	For(10, func(i int) {
		order = append(order, i)
	}, cfg)

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, order)
}

func TestFor_SmallNStaysSequential(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 64}

	// Below MinChunkSize the callback runs on the calling goroutine, so
	// unsynchronized access is safe.
	sum := 0
	For(10, func(i int) { sum += i }, cfg)
	assert.Equal(t, 45, sum)
}

func TestForGrid(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 2, MinChunkSize: 1}

	var hits = make([]atomic.Int32, 12)
	ForGrid(3, 4, func(r, c int) {
		hits[r*4+c].Add(1)
	}, cfg)

	for i := range hits {
		assert.Equal(t, int32(1), hits[i].Load())
	}
}
