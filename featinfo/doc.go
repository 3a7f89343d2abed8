// Package featinfo holds the learned quantization metadata shared across
// datasets of one training session: border sets and NaN modes of float
// features, and append-only perfect hash tables of categorical features.
package featinfo
