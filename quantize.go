package quantgo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/time/rate"

	"github.com/hupe1980/quantgo/borders"
	"github.com/hupe1980/quantgo/dataset"
	"github.com/hupe1980/quantgo/executor"
	"github.com/hupe1980/quantgo/featinfo"
	"github.com/hupe1980/quantgo/internal/meminfo"
	"github.com/hupe1980/quantgo/internal/packed"
	"github.com/hupe1980/quantgo/subset"
	"github.com/hupe1980/quantgo/util"
)

// resourceWarnLimiter throttles the over-budget warning across calls so a
// long-running over-limit process does not spam the log.
var resourceWarnLimiter = rate.NewLimiter(rate.Every(10*time.Second), 1)

// Quantize converts the raw dataset's feature columns into bounded
// cardinality integer codes using (and extending) the shared quantization
// info: borders and NaN modes of float features are computed once and
// reused, categorical hash tables grow append-only. One task per feature
// runs on a memory-budget-aware executor.
//
// The rngSeed makes border subsampling reproducible. The returned dataset
// references the info store; it is safe to quantize further datasets (e.g.
// validation, test) against the same info concurrently with reads of this
// result.
func Quantize(ctx context.Context, raw *dataset.Raw, info *featinfo.Info, rngSeed int64, optFns ...Option) (*dataset.Quantized, error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	if !opts.cpuCompatibleFormat && !opts.gpuCompatibleFormat {
		return nil, ErrNoOutputFormat
	}

	layout := raw.Layout()
	objectCount := raw.ObjectCount()
	clearSrcData := raw.Exclusive()

	// The sampling subset is shared by every float feature's border
	// computation this call; it must exist before any float task starts.
	var subsetForBuildBorders subset.Mapping
	if needToCalcBorders(layout, info) {
		subsetForBuildBorders = buildBordersSubset(raw, &opts, util.NewRNG(rngSeed))
	}

	budget := opts.cpuRAMLimit
	if budget == 0 {
		budget = math.MaxUint64
	} else {
		rss := meminfo.ResidentSetSize()
		if rss >= budget {
			if resourceWarnLimiter.Allow() {
				opts.logger.Warn("resident memory exceeds the configured limit, proceeding with best-effort scheduling",
					"rss", humanize.Bytes(rss),
					"limit", humanize.Bytes(opts.cpuRAMLimit),
				)
			}
			budget = 0
		} else {
			budget -= rss
		}
	}

	exec := executor.New("CPU RAM", opts.workers, budget)

	floatResults := make([]dataset.FloatCodes, layout.FloatFeatureCount())
	floatCost := estimateFloatFeatureMem(objectCount, layout, info, &opts, clearSrcData)
	layout.IterateAvailableFloat(func(idx uint32) {
		col := raw.FloatFeature(idx)
		if col == nil {
			return
		}
		exec.Add(floatCost, func() error {
			codes, err := processFloatFeature(idx, col, raw, info, subsetForBuildBorders, &opts, clearSrcData)
			if err != nil {
				return err
			}
			floatResults[idx] = codes
			if clearSrcData {
				raw.ReleaseFloatFeature(idx)
			}
			return nil
		})
	})

	catResults := make([]dataset.CatCodes, layout.CatFeatureCount())
	catCost := estimateCatFeatureMem(objectCount, &opts, clearSrcData)
	layout.IterateAvailableCat(func(idx uint32) {
		col := raw.CatFeature(idx)
		if col == nil {
			return
		}
		exec.Add(catCost, func() error {
			catResults[idx] = processCatFeature(idx, col, raw, info, &opts, clearSrcData)
			if clearSrcData {
				raw.ReleaseCatFeature(idx)
			}
			return nil
		})
	})

	if err := exec.ExecTasks(ctx); err != nil {
		return nil, err
	}

	return &dataset.Quantized{
		Layout:        layout,
		FloatFeatures: floatResults,
		CatFeatures:   catResults,
		Info:          info,
		Target:        raw.Target(),
		GroupIDs:      raw.GroupIDs(),
		CPUCompatible: opts.cpuCompatibleFormat,
	}, nil
}

func needToCalcBorders(layout *dataset.FeaturesLayout, info *featinfo.Info) bool {
	need := false
	layout.IterateAvailableFloat(func(idx uint32) {
		if !info.HasBorders(idx) {
			need = true
		}
	})
	return need
}

// buildBordersSubset applies the sampling policy: a prefix when the data
// is already shuffled, otherwise a full reproducible shuffle or a partial
// selection-sampling pass. The result is composed with the dataset's own
// indexing.
func buildBordersSubset(raw *dataset.Raw, opts *options, rng *util.RNG) subset.Mapping {
	indexing := raw.Indexing()
	objectCount := indexing.Size()

	sampleSize := borders.SampleSize(objectCount, opts.borderSelection, opts.maxSubsetSizeForSlowBuildBordersAlgorithms)
	if sampleSize >= objectCount {
		return indexing
	}

	if raw.Order() == dataset.OrderRandomShuffled {
		// Already randomized: a prefix is an unbiased sample.
		return subset.Compose(indexing, subset.NewPrefix(sampleSize))
	}

	var sample subset.Indexed
	if opts.shuffleOverFullData {
		indices := make([]uint32, objectCount)
		for i := range indices {
			indices[i] = uint32(i)
		}
		rng.Shuffle(indices)
		sample = subset.Indexed(indices[:sampleSize])
	} else {
		sample = subset.Indexed(rng.SelectionSample(objectCount, sampleSize))
	}

	return subset.Compose(indexing, sample)
}

// estimateFloatFeatureMem is the worst-case peak memory of one float
// feature task, fed to the executor's admission control.
func estimateFloatFeatureMem(objectCount int, layout *dataset.FeaturesLayout, info *featinfo.Info, opts *options, clearSrcData bool) uint64 {
	var result uint64

	if needToCalcBorders(layout, info) {
		sampleSize := borders.SampleSize(objectCount, opts.borderSelection, opts.maxSubsetSizeForSlowBuildBordersAlgorithms)

		// Copy of the sampled values, NaNs stripped.
		result += 4 * uint64(sampleSize)
		result += borders.MemoryForFindBestSplit(opts.maxBorderCount, sampleSize, opts.borderSelection)
	}

	if opts.cpuCompatibleFormat || clearSrcData {
		// Quantized code storage.
		result += uint64(objectCount)
	}

	return result
}

// estimateCatFeatureMem assumes the worst case that every value is novel
// and inserted into the perfect hash.
func estimateCatFeatureMem(objectCount int, opts *options, clearSrcData bool) uint64 {
	result := uint64(featinfo.EstimatedPerfectHashNodeSize) * uint64(objectCount)

	if opts.cpuCompatibleFormat || clearSrcData {
		result += 4 * uint64(objectCount)
	}

	return result
}

func processFloatFeature(
	idx uint32,
	col *dataset.FloatColumn,
	raw *dataset.Raw,
	info *featinfo.Info,
	subsetForBuildBorders subset.Mapping,
	opts *options,
	clearSrcData bool,
) (dataset.FloatCodes, error) {
	bs, hasBorders, nanMode, hasNanMode := info.BordersAndNanMode(idx)

	if hasBorders != hasNanMode {
		return nil, &InternalError{
			Msg: fmt.Sprintf("float feature #%d: NanMode and borders must be specified or not specified together", idx),
		}
	}

	computed := false
	if !hasBorders {
		var err error
		nanMode, bs, err = borders.Compute(col.Values(), subsetForBuildBorders, borders.ComputeOptions{
			MaxBorderCount: opts.maxBorderCount,
			Algorithm:      opts.borderSelection,
			NanPolicy:      opts.nanPolicy,
		})
		if err != nil {
			if errors.Is(err, borders.ErrNanValuesForbidden) {
				return nil, &DataError{FeatureType: "float", FeatureIdx: idx, cause: err}
			}
			return nil, &InternalError{Msg: fmt.Sprintf("float feature #%d: border computation failed", idx), cause: err}
		}
		computed = true

		opts.logger.WithFeature("float", idx).Debug("computed borders",
			"count", len(bs),
			"nan_mode", nanMode.String(),
		)
	}

	var codes dataset.FloatCodes
	objectCount := raw.ObjectCount()

	if !opts.cpuCompatibleFormat && !clearSrcData {
		// Accelerator-only consumer and a shared source: keep the raw
		// column alive behind a lazy view.
		codes = dataset.NewExternalFloatCodes(idx, col.Values(), bs, nanMode, raw.Indexing())
	} else {
		// Learn-time NaNs were vetted during border computation; later
		// datasets may carry NaNs if a sentinel mode was assigned or the
		// session is explicitly lenient.
		allowNans := nanMode != borders.NanModeForbidden || info.AllowNansInTestOnly()

		out := make([]uint8, objectCount)
		if err := borders.Quantize(col.Values(), raw.Indexing(), bs, nanMode, allowNans, out); err != nil {
			return nil, &DataError{FeatureType: "float", FeatureIdx: idx, cause: err}
		}
		codes = dataset.NewMaterializedFloatCodes(idx, packed.Pack(out, 8), subset.NewFull(objectCount))
	}

	if computed {
		// Publish is the only step under the writer lock.
		if err := info.SetBorders(idx, bs); err != nil {
			return nil, &InternalError{Msg: "border publish", cause: err}
		}
		if err := info.SetNanMode(idx, nanMode); err != nil {
			return nil, &InternalError{Msg: "nan mode publish", cause: err}
		}
	}

	return codes, nil
}

func processCatFeature(
	idx uint32,
	col *dataset.HashedCatColumn,
	raw *dataset.Raw,
	info *featinfo.Info,
	opts *options,
	clearSrcData bool,
) dataset.CatCodes {
	hash := info.CatHash(idx)
	objectCount := raw.ObjectCount()

	storeAsExternal := !opts.cpuCompatibleFormat && !clearSrcData
	if storeAsExternal {
		// The consumer only needs the updated table.
		hash.UpdateAndQuantize(col.Values(), raw.Indexing(), nil)
		return dataset.NewExternalCatCodes(idx, col.Values(), hash, raw.Indexing())
	}

	out := make([]uint32, objectCount)
	hash.UpdateAndQuantize(col.Values(), raw.Indexing(), out)
	return dataset.NewMaterializedCatCodes(idx, packed.Pack(out, 32), subset.NewFull(objectCount))
}
