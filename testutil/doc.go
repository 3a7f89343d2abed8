// Package testutil provides testing utilities for Quantgo.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random feature columns with
// realistic value distributions.
//
// # Random Column Generation
//
//	rng := testutil.NewRNG(seed)
//	values := rng.UniformFloats(1000, -1, 1)   // uniform [-1, 1)
//	rng.InjectNaNs(values, 0.05)               // 5% missing
//	cats := rng.ZipfHashedCatValues(1000, 50, 1.5)
package testutil
