package dataset

import (
	"github.com/bits-and-blooms/bitset"
)

// FeaturesLayout describes the feature index spaces of a dataset: how many
// float and categorical features exist and which of them are available
// (not ignored). Feature indices are per-type, starting at 0.
type FeaturesLayout struct {
	availableFloat *bitset.BitSet
	availableCat   *bitset.BitSet
}

// NewFeaturesLayout creates a layout with all features available except
// the listed ignored ones.
func NewFeaturesLayout(floatCount, catCount int, ignoredFloat, ignoredCat []uint32) *FeaturesLayout {
	l := &FeaturesLayout{
		availableFloat: bitset.New(uint(floatCount)),
		availableCat:   bitset.New(uint(catCount)),
	}

	for i := 0; i < floatCount; i++ {
		l.availableFloat.Set(uint(i))
	}
	for i := 0; i < catCount; i++ {
		l.availableCat.Set(uint(i))
	}
	for _, idx := range ignoredFloat {
		l.availableFloat.Clear(uint(idx))
	}
	for _, idx := range ignoredCat {
		l.availableCat.Clear(uint(idx))
	}

	return l
}

// FloatFeatureCount returns the size of the float feature index space.
func (l *FeaturesLayout) FloatFeatureCount() int { return int(l.availableFloat.Len()) }

// CatFeatureCount returns the size of the categorical feature index space.
func (l *FeaturesLayout) CatFeatureCount() int { return int(l.availableCat.Len()) }

// FloatFeatureAvailable reports whether the float feature is not ignored.
func (l *FeaturesLayout) FloatFeatureAvailable(idx uint32) bool {
	return l.availableFloat.Test(uint(idx))
}

// CatFeatureAvailable reports whether the categorical feature is not
// ignored.
func (l *FeaturesLayout) CatFeatureAvailable(idx uint32) bool {
	return l.availableCat.Test(uint(idx))
}

// IterateAvailableFloat calls fn for every available float feature index
// in ascending order.
func (l *FeaturesLayout) IterateAvailableFloat(fn func(idx uint32)) {
	for i, ok := l.availableFloat.NextSet(0); ok; i, ok = l.availableFloat.NextSet(i + 1) {
		fn(uint32(i))
	}
}

// IterateAvailableCat calls fn for every available categorical feature
// index in ascending order.
func (l *FeaturesLayout) IterateAvailableCat(fn func(idx uint32)) {
	for i, ok := l.availableCat.NextSet(0); ok; i, ok = l.availableCat.NextSet(i + 1) {
		fn(uint32(i))
	}
}
