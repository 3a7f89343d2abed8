package dataset

import (
	"fmt"

	"github.com/hupe1980/quantgo/internal/conv"
	"github.com/hupe1980/quantgo/subset"
)

// ObjectsOrder declares what is known about the logical row order of a
// dataset.
type ObjectsOrder int

const (
	// OrderUndefined means nothing is known about the ordering.
	OrderUndefined ObjectsOrder = iota

	// OrderOrdered means rows follow a meaningful external order (e.g.
	// timestamps); prefixes are biased samples.
	OrderOrdered

	// OrderRandomShuffled means rows are already randomly permuted, so a
	// size-bounded prefix is an unbiased sample.
	OrderRandomShuffled
)

// FloatColumn is the raw storage of one continuous feature. Values are
// addressed through the dataset's subset indexing, not directly.
type FloatColumn struct {
	id     uint32
	values []float32
}

// NewFloatColumn creates a raw float column for the given feature id.
func NewFloatColumn(id uint32, values []float32) *FloatColumn {
	return &FloatColumn{id: id, values: values}
}

// ID returns the feature id the column belongs to.
func (c *FloatColumn) ID() uint32 { return c.id }

// Values returns the physical value storage.
func (c *FloatColumn) Values() []float32 { return c.values }

// release drops the value storage so it can be reclaimed.
func (c *FloatColumn) release() { c.values = nil }

// HashedCatColumn is the raw storage of one categorical feature, holding
// 32-bit pre-hashed values.
type HashedCatColumn struct {
	id     uint32
	values []uint32
}

// NewHashedCatColumn creates a raw categorical column for the given
// feature id.
func NewHashedCatColumn(id uint32, values []uint32) *HashedCatColumn {
	return &HashedCatColumn{id: id, values: values}
}

// ID returns the feature id the column belongs to.
func (c *HashedCatColumn) ID() uint32 { return c.id }

// Values returns the physical value storage.
func (c *HashedCatColumn) Values() []uint32 { return c.values }

func (c *HashedCatColumn) release() { c.values = nil }

// Raw is an unquantized dataset: raw feature columns, a common subset
// indexing mapping logical order to physical storage, and carried-over
// target metadata.
type Raw struct {
	layout *FeaturesLayout

	// Per-type feature columns indexed by feature index; nil entries are
	// ignored features.
	floatFeatures []*FloatColumn
	catFeatures   []*HashedCatColumn

	indexing subset.Mapping
	order    ObjectsOrder

	target   []float32
	groupIDs []uint64

	exclusive bool
}

// RawConfig assembles a raw dataset.
type RawConfig struct {
	Layout        *FeaturesLayout
	FloatFeatures []*FloatColumn
	CatFeatures   []*HashedCatColumn

	// Indexing maps logical row order to physical storage positions. Nil
	// means identity over the column length.
	Indexing subset.Mapping

	Order    ObjectsOrder
	Target   []float32
	GroupIDs []uint64

	// Exclusive declares that the caller holds the sole reference to the
	// column storage, permitting destructive reuse during quantization.
	Exclusive bool
}

// NewRaw creates a raw dataset.
func NewRaw(cfg RawConfig) (*Raw, error) {
	if cfg.Layout == nil {
		return nil, fmt.Errorf("dataset: layout is required")
	}
	if len(cfg.FloatFeatures) != cfg.Layout.FloatFeatureCount() {
		return nil, fmt.Errorf("dataset: %d float columns for layout of %d", len(cfg.FloatFeatures), cfg.Layout.FloatFeatureCount())
	}
	if len(cfg.CatFeatures) != cfg.Layout.CatFeatureCount() {
		return nil, fmt.Errorf("dataset: %d cat columns for layout of %d", len(cfg.CatFeatures), cfg.Layout.CatFeatureCount())
	}

	// Row positions are addressed as uint32 throughout.
	for _, c := range cfg.FloatFeatures {
		if c == nil {
			continue
		}
		if _, err := conv.IntToUint32(len(c.Values())); err != nil {
			return nil, fmt.Errorf("dataset: float column #%d: %w", c.ID(), err)
		}
	}
	for _, c := range cfg.CatFeatures {
		if c == nil {
			continue
		}
		if _, err := conv.IntToUint32(len(c.Values())); err != nil {
			return nil, fmt.Errorf("dataset: cat column #%d: %w", c.ID(), err)
		}
	}

	indexing := cfg.Indexing
	if indexing == nil {
		n := 0
		for _, c := range cfg.FloatFeatures {
			if c != nil {
				n = len(c.Values())
				break
			}
		}
		if n == 0 {
			for _, c := range cfg.CatFeatures {
				if c != nil {
					n = len(c.Values())
					break
				}
			}
		}
		indexing = subset.NewFull(n)
	}

	return &Raw{
		layout:        cfg.Layout,
		floatFeatures: cfg.FloatFeatures,
		catFeatures:   cfg.CatFeatures,
		indexing:      indexing,
		order:         cfg.Order,
		target:        cfg.Target,
		groupIDs:      cfg.GroupIDs,
		exclusive:     cfg.Exclusive,
	}, nil
}

// Layout returns the dataset's features layout.
func (d *Raw) Layout() *FeaturesLayout { return d.layout }

// ObjectCount returns the logical number of rows.
func (d *Raw) ObjectCount() int { return d.indexing.Size() }

// Indexing returns the logical-to-physical row mapping.
func (d *Raw) Indexing() subset.Mapping { return d.indexing }

// Order returns the declared row ordering.
func (d *Raw) Order() ObjectsOrder { return d.order }

// Exclusive reports whether the caller holds the sole reference to the
// column storage.
func (d *Raw) Exclusive() bool { return d.exclusive }

// Target returns the target values.
func (d *Raw) Target() []float32 { return d.target }

// GroupIDs returns the row grouping ids.
func (d *Raw) GroupIDs() []uint64 { return d.groupIDs }

// FloatFeature returns the raw column of an available float feature, or
// nil.
func (d *Raw) FloatFeature(idx uint32) *FloatColumn {
	if int(idx) >= len(d.floatFeatures) {
		return nil
	}
	return d.floatFeatures[idx]
}

// CatFeature returns the raw column of an available categorical feature,
// or nil.
func (d *Raw) CatFeature(idx uint32) *HashedCatColumn {
	if int(idx) >= len(d.catFeatures) {
		return nil
	}
	return d.catFeatures[idx]
}

// ReleaseFloatFeature drops the storage of a float column after its
// quantized replacement is built. Only valid on exclusive datasets.
func (d *Raw) ReleaseFloatFeature(idx uint32) {
	if d.exclusive && d.floatFeatures[idx] != nil {
		d.floatFeatures[idx].release()
	}
}

// ReleaseCatFeature drops the storage of a categorical column.
func (d *Raw) ReleaseCatFeature(idx uint32) {
	if d.exclusive && d.catFeatures[idx] != nil {
		d.catFeatures[idx].release()
	}
}
