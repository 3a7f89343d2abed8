// Package quantgo converts raw tabular columns into compact, bounded
// cardinality integer codes for histogram-based model training.
//
// Continuous float features are discretized against a small set of learned
// split thresholds ("borders"); high-cardinality categorical features are
// mapped through an append-only perfect hash to dense ids. Both kinds of
// learned metadata live in a shared, reader/writer-locked info store
// (featinfo.Info), so that train, validation and test datasets quantized
// against the same store receive identical codes.
//
// Quantization of a dataset runs one task per feature on a fixed worker
// pool with memory-budget admission control: the summed estimated cost of
// concurrently running feature tasks stays below the configured RAM
// ceiling.
//
//	fi := featinfo.NewInfo()
//	quantized, err := quantgo.Quantize(ctx, raw, fi, 42,
//	    quantgo.WithMaxBorderCount(64),
//	    quantgo.WithNanPolicy(borders.NanModeMax),
//	    quantgo.WithCPURAMLimit(8<<30),
//	)
package quantgo
