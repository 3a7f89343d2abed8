// Package schema exports learned quantization state (borders, NaN modes,
// perfect hash tables) as a JSON document and rebuilds an info store from
// one. It is an in-memory exchange format for external collaborators, not
// a persistence layer.
package schema

import (
	"fmt"
	"sort"

	gojson "github.com/goccy/go-json"

	"github.com/hupe1980/quantgo/borders"
	"github.com/hupe1980/quantgo/featinfo"
)

// FloatFeature is the exported state of one float feature.
type FloatFeature struct {
	FeatureIdx uint32    `json:"feature_idx"`
	NanMode    string    `json:"nan_mode"`
	Borders    []float32 `json:"borders"`
}

// CatFeature is the exported state of one categorical feature.
type CatFeature struct {
	FeatureIdx uint32            `json:"feature_idx"`
	Hash       map[uint32]uint32 `json:"hash"`
}

// Schema is the serializable view of an info store.
type Schema struct {
	FloatFeatures []FloatFeature `json:"float_features,omitempty"`
	CatFeatures   []CatFeature   `json:"cat_features,omitempty"`
}

// Export snapshots the computed entries of an info store. Features are
// listed in ascending index order.
func Export(fi *featinfo.Info) *Schema {
	s := &Schema{}

	floatIndices := fi.FloatFeatureIndices()
	sort.Slice(floatIndices, func(i, j int) bool { return floatIndices[i] < floatIndices[j] })
	for _, idx := range floatIndices {
		bs, _ := fi.Borders(idx)
		mode, _ := fi.NanMode(idx)
		s.FloatFeatures = append(s.FloatFeatures, FloatFeature{
			FeatureIdx: idx,
			NanMode:    mode.String(),
			Borders:    bs,
		})
	}

	catIndices := fi.CatFeatureIndices()
	sort.Slice(catIndices, func(i, j int) bool { return catIndices[i] < catIndices[j] })
	for _, idx := range catIndices {
		s.CatFeatures = append(s.CatFeatures, CatFeature{
			FeatureIdx: idx,
			Hash:       fi.CatHash(idx).Snapshot(),
		})
	}

	return s
}

// Import seeds an empty info store from an exported schema.
func Import(s *Schema, fi *featinfo.Info) error {
	for _, f := range s.FloatFeatures {
		mode, err := borders.ParseNanMode(f.NanMode)
		if err != nil {
			return fmt.Errorf("float feature #%d: %w", f.FeatureIdx, err)
		}
		if err := fi.RestoreFloat(f.FeatureIdx, f.Borders, mode); err != nil {
			return err
		}
	}
	for _, c := range s.CatFeatures {
		fi.RestoreCatHash(c.FeatureIdx, c.Hash)
	}
	return nil
}

// Marshal encodes the schema to JSON.
func Marshal(s *Schema) ([]byte, error) {
	return gojson.Marshal(s)
}

// Unmarshal decodes a schema from JSON.
func Unmarshal(data []byte) (*Schema, error) {
	s := &Schema{}
	if err := gojson.Unmarshal(data, s); err != nil {
		return nil, err
	}
	return s, nil
}
