package packed

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArray_RoundTrip8(t *testing.T) {
	a := New(1000, 8)

	for i := 0; i < 1000; i++ {
		a.Write(i, uint64(i%256))
	}
	for i := 0; i < 1000; i++ {
		assert.Equal(t, uint64(i%256), a.Read(i))
	}
}

func TestArray_RoundTrip32(t *testing.T) {
	a := New(257, 32)

	rng := rand.New(rand.NewSource(42))
	values := make([]uint64, 257)
	for i := range values {
		values[i] = uint64(rng.Uint32())
		a.Write(i, values[i])
	}
	for i, v := range values {
		assert.Equal(t, v, a.Read(i))
	}
}

func TestArray_WordStraddle(t *testing.T) {
	// Width 7 guarantees fields that straddle 64-bit word boundaries.
	a := New(100, 7)

	for i := 0; i < 100; i++ {
		a.Write(i, uint64(i%128))
	}
	for i := 0; i < 100; i++ {
		require.Equal(t, uint64(i%128), a.Read(i), "index %d", i)
	}
}

func TestArray_AdjacentFieldsUndisturbed(t *testing.T) {
	a := New(10, 8)
	for i := 0; i < 10; i++ {
		a.Write(i, 0xAA)
	}

	a.Write(5, 0x11)

	for i := 0; i < 10; i++ {
		want := uint64(0xAA)
		if i == 5 {
			want = 0x11
		}
		assert.Equal(t, want, a.Read(i))
	}
}

func TestArray_Overwrite(t *testing.T) {
	a := New(3, 5)
	a.Write(1, 31)
	a.Write(1, 0)
	assert.Equal(t, uint64(0), a.Read(1))
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, WordCount(0, 8))
	assert.Equal(t, 1, WordCount(8, 8))
	assert.Equal(t, 2, WordCount(9, 8))
	assert.Equal(t, 1, WordCount(2, 32))
	assert.Equal(t, 2, WordCount(3, 32))
}

func TestArray_ValueTooWidePanics(t *testing.T) {
	a := New(4, 8)
	assert.Panics(t, func() { a.Write(0, 256) })
}

func TestArray_InvalidWidthPanics(t *testing.T) {
	assert.Panics(t, func() { New(1, 0) })
	assert.Panics(t, func() { New(1, 65) })
}

func TestPackGather(t *testing.T) {
	values := []uint8{0, 1, 2, 255, 17}
	a := Pack(values, 8)

	out := make([]uint8, len(values))
	Gather(a, out)
	assert.Equal(t, values, out)
}

func TestFromWords(t *testing.T) {
	src := Pack([]uint32{1, 2, 3, 4, 5}, 32)
	ref := FromWords(src.Words(), 5, 32)

	assert.Equal(t, uint64(4), ref.Read(3))
	assert.Panics(t, func() { FromWords(make([]uint64, 1), 100, 32) })
}
