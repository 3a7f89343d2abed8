package featinfo

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/quantgo/borders"
	"github.com/hupe1980/quantgo/subset"
)

func TestInfo_SetOnce(t *testing.T) {
	fi := NewInfo()

	require.False(t, fi.HasBorders(0))
	require.NoError(t, fi.SetBorders(0, []float32{1, 2}))
	require.NoError(t, fi.SetNanMode(0, borders.NanModeMax))

	assert.True(t, fi.HasBorders(0))
	assert.True(t, fi.HasNanMode(0))

	bs, ok := fi.Borders(0)
	require.True(t, ok)
	assert.Equal(t, []float32{1, 2}, bs)

	mode, ok := fi.NanMode(0)
	require.True(t, ok)
	assert.Equal(t, borders.NanModeMax, mode)

	// Second publish is a logic error.
	assert.Error(t, fi.SetBorders(0, []float32{3}))
	assert.Error(t, fi.SetNanMode(0, borders.NanModeMin))
}

func TestInfo_BordersAndNanMode(t *testing.T) {
	fi := NewInfo()
	require.NoError(t, fi.SetBorders(3, []float32{5}))

	bs, hasBorders, _, hasNanMode := fi.BordersAndNanMode(3)
	assert.True(t, hasBorders)
	assert.False(t, hasNanMode)
	assert.Equal(t, []float32{5}, bs)
}

func TestInfo_CatHashLazyAndStable(t *testing.T) {
	fi := NewInfo()

	h1 := fi.CatHash(7)
	h2 := fi.CatHash(7)
	assert.Same(t, h1, h2)

	assert.ElementsMatch(t, []uint32{7}, fi.CatFeatureIndices())
}

func TestInfo_ConcurrentReadersDuringPublish(t *testing.T) {
	fi := NewInfo()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(idx uint32) {
			defer wg.Done()
			require.NoError(t, fi.SetBorders(idx, []float32{float32(idx)}))
			require.NoError(t, fi.SetNanMode(idx, borders.NanModeForbidden))
		}(uint32(i))

		wg.Add(1)
		go func(idx uint32) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				fi.HasBorders(idx)
				fi.BordersAndNanMode(idx)
			}
		}(uint32(i))
	}
	wg.Wait()

	assert.Len(t, fi.FloatFeatureIndices(), 8)
}

func TestPerfectHash_FirstSeenOrder(t *testing.T) {
	h := NewPerfectHash()

	// [A, B, A, C]
	values := []uint32{0xA, 0xB, 0xA, 0xC}
	out := make([]uint32, 4)
	h.UpdateAndQuantize(values, subset.NewFull(4), out)

	assert.Equal(t, []uint32{0, 1, 0, 2}, out)
	assert.Equal(t, 3, h.NumIDs())

	// [B, D] against the same table: existing ids unchanged, D appended.
	values2 := []uint32{0xB, 0xD}
	out2 := make([]uint32, 2)
	h.UpdateAndQuantize(values2, subset.NewFull(2), out2)

	assert.Equal(t, []uint32{1, 3}, out2)

	id, ok := h.Lookup(0xA)
	require.True(t, ok)
	assert.Equal(t, uint32(0), id)
}

func TestPerfectHash_NoEmission(t *testing.T) {
	h := NewPerfectHash()

	h.UpdateAndQuantize([]uint32{9, 8, 9}, subset.NewFull(3), nil)
	assert.Equal(t, 2, h.NumIDs())
}

func TestPerfectHash_Snapshot(t *testing.T) {
	h := NewPerfectHash()
	h.UpdateAndQuantize([]uint32{5, 6}, subset.NewFull(2), nil)

	snap := h.Snapshot()
	assert.Equal(t, map[uint32]uint32{5: 0, 6: 1}, snap)

	// Mutating the snapshot must not touch the table.
	snap[7] = 2
	_, ok := h.Lookup(7)
	assert.False(t, ok)
}

func TestPerfectHash_SubsetSelection(t *testing.T) {
	h := NewPerfectHash()

	values := []uint32{10, 20, 30, 40}
	out := make([]uint32, 2)
	h.UpdateAndQuantize(values, subset.Indexed{3, 1}, out)

	// Encounter order is subset order: 40 first, then 20.
	assert.Equal(t, []uint32{0, 1}, out)
}
