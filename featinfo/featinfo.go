package featinfo

import (
	"fmt"
	"sync"

	"github.com/hupe1980/quantgo/borders"
)

// Info is the shared quantization metadata of one model-training session:
// per float feature a computed (NanMode, border set) pair, per categorical
// feature a perfect hash table, keyed by per-type feature index.
//
// Entries transition Unset -> Computed and are then immutable for the
// lifetime of the instance, guaranteeing identical quantization of later
// datasets processed with the same Info. Reads take a shared lock, the
// publish step an exclusive one; expensive computation happens entirely
// outside any lock.
//
// A process may host several independent Info instances (e.g. one per
// cross-validation fold); nothing here is global.
type Info struct {
	mu        sync.RWMutex
	borders   map[uint32][]float32
	nanModes  map[uint32]borders.NanMode
	catHashes map[uint32]*PerfectHash

	allowNansInTestOnly bool
}

// NewInfo creates an empty quantization info store.
func NewInfo() *Info {
	return &Info{
		borders:   make(map[uint32][]float32),
		nanModes:  make(map[uint32]borders.NanMode),
		catHashes: make(map[uint32]*PerfectHash),
	}
}

// SetAllowNansInTestOnly permits NaN values in later datasets even for
// features whose learn-time sample was clean (NanMode Forbidden). Must be
// decided before the first quantization against this Info.
func (fi *Info) SetAllowNansInTestOnly(allow bool) {
	fi.mu.Lock()
	defer fi.mu.Unlock()

	fi.allowNansInTestOnly = allow
}

// AllowNansInTestOnly reports the NaN leniency for later datasets.
func (fi *Info) AllowNansInTestOnly() bool {
	fi.mu.RLock()
	defer fi.mu.RUnlock()

	return fi.allowNansInTestOnly
}

// HasBorders reports whether the float feature has a computed border set.
func (fi *Info) HasBorders(floatFeatureIdx uint32) bool {
	fi.mu.RLock()
	defer fi.mu.RUnlock()

	_, ok := fi.borders[floatFeatureIdx]
	return ok
}

// Borders returns the border set of the float feature. The returned slice
// is frozen and must not be mutated.
func (fi *Info) Borders(floatFeatureIdx uint32) ([]float32, bool) {
	fi.mu.RLock()
	defer fi.mu.RUnlock()

	bs, ok := fi.borders[floatFeatureIdx]
	return bs, ok
}

// HasNanMode reports whether the float feature has a computed NanMode.
func (fi *Info) HasNanMode(floatFeatureIdx uint32) bool {
	fi.mu.RLock()
	defer fi.mu.RUnlock()

	_, ok := fi.nanModes[floatFeatureIdx]
	return ok
}

// NanMode returns the NanMode of the float feature.
func (fi *Info) NanMode(floatFeatureIdx uint32) (borders.NanMode, bool) {
	fi.mu.RLock()
	defer fi.mu.RUnlock()

	mode, ok := fi.nanModes[floatFeatureIdx]
	return mode, ok
}

// BordersAndNanMode reads both entries of a float feature under a single
// shared lock.
func (fi *Info) BordersAndNanMode(floatFeatureIdx uint32) (bs []float32, hasBorders bool, mode borders.NanMode, hasNanMode bool) {
	fi.mu.RLock()
	defer fi.mu.RUnlock()

	bs, hasBorders = fi.borders[floatFeatureIdx]
	mode, hasNanMode = fi.nanModes[floatFeatureIdx]
	return bs, hasBorders, mode, hasNanMode
}

// SetBorders publishes the border set of a float feature. Calling it twice
// for the same feature is a logic error.
func (fi *Info) SetBorders(floatFeatureIdx uint32, bs []float32) error {
	fi.mu.Lock()
	defer fi.mu.Unlock()

	if _, ok := fi.borders[floatFeatureIdx]; ok {
		return fmt.Errorf("borders for float feature #%d already set", floatFeatureIdx)
	}
	fi.borders[floatFeatureIdx] = bs
	return nil
}

// SetNanMode publishes the NanMode of a float feature. Calling it twice
// for the same feature is a logic error.
func (fi *Info) SetNanMode(floatFeatureIdx uint32, mode borders.NanMode) error {
	fi.mu.Lock()
	defer fi.mu.Unlock()

	if _, ok := fi.nanModes[floatFeatureIdx]; ok {
		return fmt.Errorf("nan mode for float feature #%d already set", floatFeatureIdx)
	}
	fi.nanModes[floatFeatureIdx] = mode
	return nil
}

// CatHash returns the perfect hash table of the categorical feature,
// creating an empty one on first use. The table carries its own lock;
// callers mutate it through PerfectHash methods, not under fi's lock.
func (fi *Info) CatHash(catFeatureIdx uint32) *PerfectHash {
	fi.mu.RLock()
	h, ok := fi.catHashes[catFeatureIdx]
	fi.mu.RUnlock()
	if ok {
		return h
	}

	fi.mu.Lock()
	defer fi.mu.Unlock()

	if h, ok = fi.catHashes[catFeatureIdx]; ok {
		return h
	}
	h = NewPerfectHash()
	fi.catHashes[catFeatureIdx] = h
	return h
}

// FloatFeatureIndices returns the indices of float features with computed
// entries, in unspecified order.
func (fi *Info) FloatFeatureIndices() []uint32 {
	fi.mu.RLock()
	defer fi.mu.RUnlock()

	indices := make([]uint32, 0, len(fi.borders))
	for idx := range fi.borders {
		indices = append(indices, idx)
	}
	return indices
}

// CatFeatureIndices returns the indices of categorical features with hash
// tables, in unspecified order.
func (fi *Info) CatFeatureIndices() []uint32 {
	fi.mu.RLock()
	defer fi.mu.RUnlock()

	indices := make([]uint32, 0, len(fi.catHashes))
	for idx := range fi.catHashes {
		indices = append(indices, idx)
	}
	return indices
}

// RestoreFloat seeds a float feature entry from exported state. Used by
// schema import; the same set-once discipline applies.
func (fi *Info) RestoreFloat(floatFeatureIdx uint32, bs []float32, mode borders.NanMode) error {
	if err := fi.SetBorders(floatFeatureIdx, bs); err != nil {
		return err
	}
	return fi.SetNanMode(floatFeatureIdx, mode)
}

// RestoreCatHash seeds a categorical feature's table from exported state.
func (fi *Info) RestoreCatHash(catFeatureIdx uint32, ids map[uint32]uint32) {
	fi.CatHash(catFeatureIdx).restore(ids)
}
