package quantgo

import (
	"runtime"

	"github.com/hupe1980/quantgo/borders"
)

const (
	// DefaultMaxBorderCount is the default number of borders per float
	// feature.
	DefaultMaxBorderCount = 128

	// DefaultMaxSubsetSizeForSlowBuildBordersAlgorithms caps the sample
	// size of the slow border selection algorithms.
	DefaultMaxSubsetSizeForSlowBuildBordersAlgorithms = 200000
)

type options struct {
	cpuCompatibleFormat bool
	gpuCompatibleFormat bool

	maxBorderCount  int
	borderSelection borders.SelectionAlgorithm
	nanPolicy       borders.NanMode

	maxSubsetSizeForSlowBuildBordersAlgorithms uint32

	// shuffleOverFullData selects a full reproducible shuffle over the
	// cheaper partial selection-sampling pass when sampling unordered data.
	shuffleOverFullData bool

	cpuRAMLimit uint64 // 0 means unlimited
	workers     int

	logger *Logger
}

func defaultOptions() options {
	return options{
		cpuCompatibleFormat: true,
		maxBorderCount:      DefaultMaxBorderCount,
		borderSelection:     borders.Median,
		nanPolicy:           borders.NanModeMin,
		maxSubsetSizeForSlowBuildBordersAlgorithms: DefaultMaxSubsetSizeForSlowBuildBordersAlgorithms,
		workers: runtime.GOMAXPROCS(0),
		logger:  NoopLogger(),
	}
}

// Option configures a quantization call.
type Option func(*options)

// WithCPUCompatibleFormat requests materialized bit-packed columns usable
// by the CPU training path.
func WithCPUCompatibleFormat(enabled bool) Option {
	return func(o *options) {
		o.cpuCompatibleFormat = enabled
	}
}

// WithGPUCompatibleFormat requests output usable by the accelerator path;
// columns stay external (lazy) unless the source is being destroyed or a
// CPU-compatible format is also requested.
func WithGPUCompatibleFormat(enabled bool) Option {
	return func(o *options) {
		o.gpuCompatibleFormat = enabled
	}
}

// WithMaxBorderCount sets the maximum number of borders per float feature,
// excluding NaN sentinels. Valid range is [1, 255].
func WithMaxBorderCount(count int) Option {
	return func(o *options) {
		o.maxBorderCount = count
	}
}

// WithBorderSelection sets the border selection algorithm.
func WithBorderSelection(algo borders.SelectionAlgorithm) Option {
	return func(o *options) {
		o.borderSelection = algo
	}
}

// WithNanPolicy sets the NanMode assigned to float features whose sampled
// data contains NaN.
func WithNanPolicy(mode borders.NanMode) Option {
	return func(o *options) {
		o.nanPolicy = mode
	}
}

// WithMaxSubsetSizeForSlowBuildBordersAlgorithms caps the border-building
// sample size of the slow selection algorithms (MaxLogSum, MinEntropy).
func WithMaxSubsetSizeForSlowBuildBordersAlgorithms(size uint32) Option {
	return func(o *options) {
		o.maxSubsetSizeForSlowBuildBordersAlgorithms = size
	}
}

// WithShuffleOverFullData selects a full randomized shuffle for border
// sampling instead of the partial selection-sampling pass. Slower, but
// reproduces the sampling of CPU-format runs exactly.
func WithShuffleOverFullData(enabled bool) Option {
	return func(o *options) {
		o.shuffleOverFullData = enabled
	}
}

// WithCPURAMLimit sets the advisory RAM ceiling in bytes for concurrent
// per-feature work. Zero means unlimited.
func WithCPURAMLimit(limit uint64) Option {
	return func(o *options) {
		o.cpuRAMLimit = limit
	}
}

// WithWorkers sets the size of the worker pool. Defaults to GOMAXPROCS.
func WithWorkers(workers int) Option {
	return func(o *options) {
		if workers > 0 {
			o.workers = workers
		}
	}
}

// WithLogger sets the logger. If nil is passed, logging is disabled.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}
