package dataset

import (
	"math"

	"github.com/hupe1980/quantgo/borders"
	"github.com/hupe1980/quantgo/featinfo"
	"github.com/hupe1980/quantgo/internal/packed"
	"github.com/hupe1980/quantgo/subset"
)

// FloatCodes is a quantized float feature column: either a materialized
// bit-packed code array or an external lazy view over the raw values. The
// variant is fixed at construction.
type FloatCodes interface {
	// FeatureIdx returns the per-type feature index.
	FeatureIdx() uint32

	// Len returns the number of rows.
	Len() int

	// Materialized reports whether codes are stored bit-packed.
	Materialized() bool

	// Code returns the quantized code of the i-th row. External views
	// compute it on the fly.
	Code(i int) uint8
}

// MaterializedFloatCodes stores 8-bit codes bit-packed, plus the output
// subset indexing of the quantized dataset.
type MaterializedFloatCodes struct {
	idx      uint32
	codes    *packed.Array
	indexing subset.Mapping
}

// NewMaterializedFloatCodes wraps a packed code array.
func NewMaterializedFloatCodes(idx uint32, codes *packed.Array, indexing subset.Mapping) *MaterializedFloatCodes {
	return &MaterializedFloatCodes{idx: idx, codes: codes, indexing: indexing}
}

func (c *MaterializedFloatCodes) FeatureIdx() uint32 { return c.idx }
func (c *MaterializedFloatCodes) Len() int           { return c.codes.Len() }
func (c *MaterializedFloatCodes) Materialized() bool { return true }

func (c *MaterializedFloatCodes) Code(i int) uint8 {
	return uint8(c.codes.Read(int(c.indexing.Index(i))))
}

// Packed returns the underlying packed array.
func (c *MaterializedFloatCodes) Packed() *packed.Array { return c.codes }

// ExternalFloatCodes is the lazy variant used when the consumer is the
// accelerator path and the raw source need not be destroyed: it keeps a
// reference to the raw values and quantizes on access.
type ExternalFloatCodes struct {
	idx      uint32
	raw      []float32
	bs       []float32
	nanMode  borders.NanMode
	indexing subset.Mapping
}

// NewExternalFloatCodes creates a lazy quantized view.
func NewExternalFloatCodes(idx uint32, raw []float32, bs []float32, nanMode borders.NanMode, indexing subset.Mapping) *ExternalFloatCodes {
	return &ExternalFloatCodes{idx: idx, raw: raw, bs: bs, nanMode: nanMode, indexing: indexing}
}

func (c *ExternalFloatCodes) FeatureIdx() uint32 { return c.idx }
func (c *ExternalFloatCodes) Len() int           { return c.indexing.Size() }
func (c *ExternalFloatCodes) Materialized() bool { return false }

func (c *ExternalFloatCodes) Code(i int) uint8 {
	v := c.raw[c.indexing.Index(i)]
	if math.IsNaN(float64(v)) {
		if c.nanMode == borders.NanModeMax {
			return uint8(len(c.bs))
		}
		return 0
	}
	return borders.Bin(c.bs, v)
}

// Raw returns the referenced raw values.
func (c *ExternalFloatCodes) Raw() []float32 { return c.raw }

// Borders returns the referenced border set.
func (c *ExternalFloatCodes) Borders() []float32 { return c.bs }

// Materialize produces the equivalent bit-packed column.
func (c *ExternalFloatCodes) Materialize() *MaterializedFloatCodes {
	n := c.indexing.Size()
	codes := packed.New(n, 8)
	for i := 0; i < n; i++ {
		codes.Write(i, uint64(c.Code(i)))
	}
	return NewMaterializedFloatCodes(c.idx, codes, subset.NewFull(n))
}

// CatCodes is a quantized categorical feature column, materialized or
// external, carrying 32-bit dense ids.
type CatCodes interface {
	FeatureIdx() uint32
	Len() int
	Materialized() bool
	Code(i int) uint32
}

// MaterializedCatCodes stores 32-bit dense ids bit-packed.
type MaterializedCatCodes struct {
	idx      uint32
	codes    *packed.Array
	indexing subset.Mapping
}

// NewMaterializedCatCodes wraps a packed id array.
func NewMaterializedCatCodes(idx uint32, codes *packed.Array, indexing subset.Mapping) *MaterializedCatCodes {
	return &MaterializedCatCodes{idx: idx, codes: codes, indexing: indexing}
}

func (c *MaterializedCatCodes) FeatureIdx() uint32 { return c.idx }
func (c *MaterializedCatCodes) Len() int           { return c.codes.Len() }
func (c *MaterializedCatCodes) Materialized() bool { return true }

func (c *MaterializedCatCodes) Code(i int) uint32 {
	return uint32(c.codes.Read(int(c.indexing.Index(i))))
}

// Packed returns the underlying packed array.
func (c *MaterializedCatCodes) Packed() *packed.Array { return c.codes }

// ExternalCatCodes references the raw hashed values and the shared perfect
// hash table; ids are resolved on access.
type ExternalCatCodes struct {
	idx      uint32
	raw      []uint32
	hash     *featinfo.PerfectHash
	indexing subset.Mapping
}

// NewExternalCatCodes creates a lazy quantized view over hashed values.
func NewExternalCatCodes(idx uint32, raw []uint32, hash *featinfo.PerfectHash, indexing subset.Mapping) *ExternalCatCodes {
	return &ExternalCatCodes{idx: idx, raw: raw, hash: hash, indexing: indexing}
}

func (c *ExternalCatCodes) FeatureIdx() uint32 { return c.idx }
func (c *ExternalCatCodes) Len() int           { return c.indexing.Size() }
func (c *ExternalCatCodes) Materialized() bool { return false }

func (c *ExternalCatCodes) Code(i int) uint32 {
	id, _ := c.hash.Lookup(c.raw[c.indexing.Index(i)])
	return id
}

// Raw returns the referenced raw hashed values.
func (c *ExternalCatCodes) Raw() []uint32 { return c.raw }

// Materialize produces the equivalent bit-packed column.
func (c *ExternalCatCodes) Materialize() *MaterializedCatCodes {
	n := c.indexing.Size()
	codes := packed.New(n, 32)
	for i := 0; i < n; i++ {
		codes.Write(i, uint64(c.Code(i)))
	}
	return NewMaterializedCatCodes(c.idx, codes, subset.NewFull(n))
}

// Quantized is the result of quantizing a raw dataset: per-feature code
// columns, a reference to the shared quantization info, and the
// carried-over target metadata.
type Quantized struct {
	Layout        *FeaturesLayout
	FloatFeatures []FloatCodes
	CatFeatures   []CatCodes

	Info *featinfo.Info

	Target   []float32
	GroupIDs []uint64

	// CPUCompatible tags datasets whose columns are all materialized and
	// usable by the CPU training path.
	CPUCompatible bool
}

// ObjectCount returns the number of rows, derived from any available
// column.
func (q *Quantized) ObjectCount() int {
	for _, c := range q.FloatFeatures {
		if c != nil {
			return c.Len()
		}
	}
	for _, c := range q.CatFeatures {
		if c != nil {
			return c.Len()
		}
	}
	return 0
}
