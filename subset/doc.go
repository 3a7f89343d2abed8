// Package subset provides composable index mappings over physical column
// storage.
//
// A Mapping decouples the logical order of a dataset from how its columns
// are laid out in memory, so that sampled or filtered views never copy the
// underlying values. Three representations exist:
//
//   - Full: the identity over [0, n)
//   - Ranges: a few contiguous source blocks (cheap prefixes)
//   - Indexed: an explicit per-position index (shuffles, bitmap selections)
package subset
