// Package borders computes discretization thresholds ("borders") and NaN
// handling modes for continuous float features.
//
// A border set is an ascending sequence of distinct float thresholds
// defining half-open bins; a value's code is the count of borders strictly
// below it, so every code fits in one byte (the set is always shorter than
// 256 entries, NaN sentinels included).
//
// Border selection is policy-driven: equal-frequency (Median), equal-width
// (Uniform), their combination, and greedy impurity-reduction variants
// (GreedyLogSum, MaxLogSum, MinEntropy). The slow variants operate on a
// size-capped sample.
package borders
