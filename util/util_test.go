package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectionSample(t *testing.T) {
	rng := NewRNG(4711)

	sample := rng.SelectionSample(1000, 100)
	require.Len(t, sample, 100)

	seen := make(map[uint32]struct{}, len(sample))
	for _, idx := range sample {
		assert.Less(t, idx, uint32(1000))
		_, dup := seen[idx]
		assert.False(t, dup, "duplicate index %d", idx)
		seen[idx] = struct{}{}
	}
}

func TestSelectionSample_Deterministic(t *testing.T) {
	a := NewRNG(42).SelectionSample(500, 50)
	b := NewRNG(42).SelectionSample(500, 50)

	assert.Equal(t, a, b)
}

func TestSelectionSample_KExceedsN(t *testing.T) {
	sample := NewRNG(1).SelectionSample(10, 100)
	assert.Len(t, sample, 10)
}

func TestShuffle_Deterministic(t *testing.T) {
	mk := func() []uint32 {
		indices := make([]uint32, 64)
		for i := range indices {
			indices[i] = uint32(i)
		}
		return indices
	}

	a, b := mk(), mk()
	NewRNG(7).Shuffle(a)
	NewRNG(7).Shuffle(b)

	assert.Equal(t, a, b)
	assert.ElementsMatch(t, mk(), a)
}

func TestUniform(t *testing.T) {
	rng := NewRNG(99)
	for i := 0; i < 1000; i++ {
		v := rng.Uniform(5, 15)
		assert.GreaterOrEqual(t, v, 5)
		assert.Less(t, v, 15)
	}
}
