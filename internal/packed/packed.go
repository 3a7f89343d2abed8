package packed

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Array stores fixed-width integer codes packed contiguously into 64-bit
// words with no inter-element padding. A code may straddle two adjacent
// words; Read and Write assemble or split the field accordingly.
type Array struct {
	words []uint64
	n     int
	bits  uint32
	mask  uint64
}

// WordCount returns the number of 64-bit words needed to store n codes of
// the given width.
func WordCount(n int, bits uint32) int {
	return int((uint64(n)*uint64(bits) + 63) / 64)
}

// New allocates a zeroed packed array for n codes of the given bit width.
func New(n int, bits uint32) *Array {
	if bits == 0 || bits > 64 {
		panic(fmt.Sprintf("packed: invalid bit width %d", bits))
	}
	if n < 0 {
		panic(fmt.Sprintf("packed: invalid length %d", n))
	}

	var mask uint64
	if bits == 64 {
		mask = ^uint64(0)
	} else {
		mask = (uint64(1) << bits) - 1
	}

	return &Array{
		words: make([]uint64, WordCount(n, bits)),
		n:     n,
		bits:  bits,
		mask:  mask,
	}
}

// FromWords wraps an existing word buffer. The buffer is referenced, not
// copied; the caller must not mutate it concurrently.
func FromWords(words []uint64, n int, bits uint32) *Array {
	a := New(0, bits)
	if len(words) < WordCount(n, bits) {
		panic(fmt.Sprintf("packed: buffer too small: %d words for %d codes of width %d", len(words), n, bits))
	}
	a.words = words
	a.n = n
	return a
}

// Len returns the number of codes stored.
func (a *Array) Len() int { return a.n }

// Bits returns the per-code bit width.
func (a *Array) Bits() uint32 { return a.bits }

// Words returns the underlying word buffer.
func (a *Array) Words() []uint64 { return a.words }

// SizeBytes returns the size of the underlying storage.
func (a *Array) SizeBytes() uint64 { return uint64(len(a.words)) * 8 }

// Read returns the code at index i.
func (a *Array) Read(i int) uint64 {
	bitOff := uint64(i) * uint64(a.bits)
	w := bitOff >> 6
	sh := bitOff & 63

	v := a.words[w] >> sh
	if sh+uint64(a.bits) > 64 {
		v |= a.words[w+1] << (64 - sh)
	}

	return v & a.mask
}

// Write stores v at index i without disturbing adjacent codes.
// v must fit in the configured bit width; a wider value is a caller bug.
func (a *Array) Write(i int, v uint64) {
	if v&^a.mask != 0 {
		panic(fmt.Sprintf("packed: value %d exceeds %d-bit width", v, a.bits))
	}

	bitOff := uint64(i) * uint64(a.bits)
	w := bitOff >> 6
	sh := bitOff & 63

	a.words[w] = (a.words[w] &^ (a.mask << sh)) | (v << sh)
	if sh+uint64(a.bits) > 64 {
		rem := 64 - sh
		a.words[w+1] = (a.words[w+1] &^ (a.mask >> rem)) | (v >> rem)
	}
}

// Pack builds a packed array from a slice of unsigned codes.
func Pack[T constraints.Unsigned](values []T, bits uint32) *Array {
	a := New(len(values), bits)
	for i, v := range values {
		a.Write(i, uint64(v))
	}
	return a
}

// Gather unpacks all codes into out, which must have length Len().
func Gather[T constraints.Unsigned](a *Array, out []T) {
	if len(out) != a.n {
		panic(fmt.Sprintf("packed: gather length mismatch: %d != %d", len(out), a.n))
	}
	for i := range out {
		out[i] = T(a.Read(i))
	}
}
