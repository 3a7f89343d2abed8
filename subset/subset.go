package subset

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// Mapping is a logical index mapping from output position to physical
// storage position. Implementations are immutable once constructed.
type Mapping interface {
	// Size returns the number of output positions.
	Size() int

	// Index maps an output position to its physical source position.
	Index(i int) uint32

	// ForEach calls fn for every output position in ascending order.
	ForEach(fn func(i int, src uint32))
}

// Full is the identity mapping over [0, size).
type Full struct {
	size int
}

// NewFull creates an identity mapping of the given size.
func NewFull(size int) *Full { return &Full{size: size} }

func (f *Full) Size() int          { return f.size }
func (f *Full) Index(i int) uint32 { return uint32(i) }

func (f *Full) ForEach(fn func(i int, src uint32)) {
	for i := 0; i < f.size; i++ {
		fn(i, uint32(i))
	}
}

// Block is a half-open range of contiguous source positions.
type Block struct {
	Begin uint32
	End   uint32
}

// Ranges maps output positions onto a sequence of source blocks. It is the
// memory-efficient representation when the selection is a few contiguous
// runs (e.g. a size-bounded prefix of already-shuffled data).
type Ranges struct {
	blocks []Block
	size   int
}

// NewRanges creates a mapping over the concatenation of the given blocks.
func NewRanges(blocks ...Block) *Ranges {
	size := 0
	for _, b := range blocks {
		if b.End < b.Begin {
			panic(fmt.Sprintf("subset: invalid block [%d, %d)", b.Begin, b.End))
		}
		size += int(b.End - b.Begin)
	}
	return &Ranges{blocks: blocks, size: size}
}

// NewPrefix creates a mapping over the first n source positions.
func NewPrefix(n int) *Ranges {
	return NewRanges(Block{Begin: 0, End: uint32(n)})
}

func (r *Ranges) Size() int { return r.size }

func (r *Ranges) Index(i int) uint32 {
	for _, b := range r.blocks {
		n := int(b.End - b.Begin)
		if i < n {
			return b.Begin + uint32(i)
		}
		i -= n
	}
	panic(fmt.Sprintf("subset: index %d out of range", i))
}

func (r *Ranges) ForEach(fn func(i int, src uint32)) {
	i := 0
	for _, b := range r.blocks {
		for src := b.Begin; src < b.End; src++ {
			fn(i, src)
			i++
		}
	}
}

// Indexed maps each output position through an explicit source index.
type Indexed []uint32

func (s Indexed) Size() int          { return len(s) }
func (s Indexed) Index(i int) uint32 { return s[i] }

func (s Indexed) ForEach(fn func(i int, src uint32)) {
	for i, src := range s {
		fn(i, src)
	}
}

// FromBitmap builds an Indexed mapping from the set bits of a roaring
// row-selection bitmap, in ascending order.
func FromBitmap(bm *roaring.Bitmap) Indexed {
	indices := make(Indexed, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		indices = append(indices, it.Next())
	}
	return indices
}

// Compose chains two mappings: the result maps output position i to
// outer.Index(inner.Index(i)). Identity mappings compose without
// materialization; any other combination materializes an Indexed mapping.
func Compose(outer, inner Mapping) Mapping {
	if _, ok := outer.(*Full); ok {
		return inner
	}
	if _, ok := inner.(*Full); ok {
		return outer
	}

	composed := make(Indexed, inner.Size())
	inner.ForEach(func(i int, src uint32) {
		composed[i] = outer.Index(int(src))
	})
	return composed
}
