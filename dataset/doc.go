// Package dataset defines raw and quantized tabular datasets.
//
// A raw dataset holds float and pre-hashed categorical columns behind a
// common subset indexing; a quantized dataset replaces each column with
// compact integer codes, either materialized bit-packed or as an external
// lazy view for the accelerator path.
package dataset
