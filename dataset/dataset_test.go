package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/quantgo/borders"
	"github.com/hupe1980/quantgo/featinfo"
	"github.com/hupe1980/quantgo/internal/packed"
	"github.com/hupe1980/quantgo/subset"
)

func TestFeaturesLayout(t *testing.T) {
	l := NewFeaturesLayout(4, 2, []uint32{1}, nil)

	assert.Equal(t, 4, l.FloatFeatureCount())
	assert.Equal(t, 2, l.CatFeatureCount())
	assert.True(t, l.FloatFeatureAvailable(0))
	assert.False(t, l.FloatFeatureAvailable(1))

	var visited []uint32
	l.IterateAvailableFloat(func(idx uint32) { visited = append(visited, idx) })
	assert.Equal(t, []uint32{0, 2, 3}, visited)

	visited = nil
	l.IterateAvailableCat(func(idx uint32) { visited = append(visited, idx) })
	assert.Equal(t, []uint32{0, 1}, visited)
}

func TestNewRaw_Validation(t *testing.T) {
	_, err := NewRaw(RawConfig{})
	assert.Error(t, err)

	_, err = NewRaw(RawConfig{
		Layout:        NewFeaturesLayout(2, 0, nil, nil),
		FloatFeatures: []*FloatColumn{NewFloatColumn(0, nil)},
	})
	assert.Error(t, err)
}

func TestNewRaw_DefaultIndexing(t *testing.T) {
	d, err := NewRaw(RawConfig{
		Layout:        NewFeaturesLayout(1, 0, nil, nil),
		FloatFeatures: []*FloatColumn{NewFloatColumn(0, []float32{1, 2, 3})},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, d.ObjectCount())
	assert.Equal(t, uint32(2), d.Indexing().Index(2))
}

func TestRaw_ReleaseRespectsOwnership(t *testing.T) {
	mk := func(exclusive bool) *Raw {
		d, err := NewRaw(RawConfig{
			Layout:        NewFeaturesLayout(1, 0, nil, nil),
			FloatFeatures: []*FloatColumn{NewFloatColumn(0, []float32{1, 2})},
			Exclusive:     exclusive,
		})
		require.NoError(t, err)
		return d
	}

	shared := mk(false)
	shared.ReleaseFloatFeature(0)
	assert.NotNil(t, shared.FloatFeature(0).Values(), "shared storage must survive")

	exclusive := mk(true)
	exclusive.ReleaseFloatFeature(0)
	assert.Nil(t, exclusive.FloatFeature(0).Values())
}

func TestMaterializedFloatCodes(t *testing.T) {
	codes := packed.Pack([]uint8{3, 1, 2}, 8)
	c := NewMaterializedFloatCodes(0, codes, subset.NewFull(3))

	assert.True(t, c.Materialized())
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, uint8(1), c.Code(1))
}

func TestExternalFloatCodes_MatchesMaterialized(t *testing.T) {
	raw := []float32{0.5, 1.5, float32(math.NaN()), 9}
	bs := []float32{1, 2, math.MaxFloat32}

	ext := NewExternalFloatCodes(0, raw, bs, borders.NanModeMax, subset.NewFull(4))
	assert.False(t, ext.Materialized())
	assert.Equal(t, uint8(3), ext.Code(2), "NaN maps to the top bin")

	mat := ext.Materialize()
	require.Equal(t, ext.Len(), mat.Len())
	for i := 0; i < ext.Len(); i++ {
		assert.Equal(t, ext.Code(i), mat.Code(i), "row %d", i)
	}
}

func TestExternalCatCodes_MatchesMaterialized(t *testing.T) {
	hash := featinfo.NewPerfectHash()
	raw := []uint32{7, 9, 7, 11}
	hash.UpdateAndQuantize(raw, subset.NewFull(4), nil)

	ext := NewExternalCatCodes(0, raw, hash, subset.NewFull(4))
	assert.Equal(t, uint32(0), ext.Code(0))
	assert.Equal(t, uint32(0), ext.Code(2))

	mat := ext.Materialize()
	for i := 0; i < ext.Len(); i++ {
		assert.Equal(t, ext.Code(i), mat.Code(i), "row %d", i)
	}
}

func TestQuantized_ObjectCount(t *testing.T) {
	q := &Quantized{
		FloatFeatures: []FloatCodes{
			NewMaterializedFloatCodes(0, packed.Pack([]uint8{1, 2}, 8), subset.NewFull(2)),
		},
	}
	assert.Equal(t, 2, q.ObjectCount())

	assert.Equal(t, 0, (&Quantized{}).ObjectCount())
}
