package featinfo

import (
	"sync"

	"github.com/hupe1980/quantgo/subset"
)

// EstimatedPerfectHashNodeSize is the assumed per-entry overhead of a
// perfect hash table, used for worst-case memory estimates (every value
// novel).
const EstimatedPerfectHashNodeSize = 32

// PerfectHash assigns dense integer ids to raw categorical hash values in
// first-seen order, starting at 0. The mapping is append-only: an id, once
// assigned, never changes or is removed, which keeps separately quantized
// datasets (train vs. validation vs. test) consistent.
type PerfectHash struct {
	mu  sync.RWMutex
	ids map[uint32]uint32
}

// NewPerfectHash creates an empty perfect hash.
func NewPerfectHash() *PerfectHash {
	return &PerfectHash{ids: make(map[uint32]uint32)}
}

// UpdateAndQuantize maps every selected raw value to its dense id,
// assigning fresh ids to unseen values in encounter order. If out is
// non-nil it receives the id of each position and must have length
// sel.Size(); a nil out updates the table without emitting codes (the
// accelerator-external path).
//
// Mutations are serialized against concurrent readers of the same table.
func (h *PerfectHash) UpdateAndQuantize(values []uint32, sel subset.Mapping, out []uint32) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sel.ForEach(func(i int, src uint32) {
		raw := values[src]
		id, ok := h.ids[raw]
		if !ok {
			id = uint32(len(h.ids))
			h.ids[raw] = id
		}
		if out != nil {
			out[i] = id
		}
	})
}

// Lookup returns the dense id of a raw value.
func (h *PerfectHash) Lookup(raw uint32) (uint32, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	id, ok := h.ids[raw]
	return id, ok
}

// NumIDs returns the number of assigned ids.
func (h *PerfectHash) NumIDs() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.ids)
}

// Snapshot returns a copy of the raw-hash-to-id mapping.
func (h *PerfectHash) Snapshot() map[uint32]uint32 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	snapshot := make(map[uint32]uint32, len(h.ids))
	for raw, id := range h.ids {
		snapshot[raw] = id
	}
	return snapshot
}

// restore seeds the table from an exported mapping. Used by schema import.
func (h *PerfectHash) restore(ids map[uint32]uint32) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for raw, id := range ids {
		h.ids[raw] = id
	}
}
