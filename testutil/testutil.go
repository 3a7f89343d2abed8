package testutil

import (
	"math"
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float32 returns, as a float32, a pseudo-random number in [0.0,1.0).
func (r *RNG) Float32() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float32()
}

// UniformFloats generates n random values in range [minVal, maxVal).
// Locks only once per call (preferred over calling Float32 in a loop).
func (r *RNG) UniformFloats(n int, minVal, maxVal float32) []float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	span := maxVal - minVal
	values := make([]float32, n)
	for i := range values {
		values[i] = minVal + r.rand.Float32()*span
	}
	return values
}

// GaussianFloats generates n values from a standard normal distribution.
func (r *RNG) GaussianFloats(n int) []float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	values := make([]float32, n)
	for i := range values {
		values[i] = float32(r.rand.NormFloat64())
	}
	return values
}

// InjectNaNs replaces each value with NaN with probability nanRate, in
// place, and returns the number of replacements.
func (r *RNG) InjectNaNs(values []float32, nanRate float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	nan := float32(math.NaN())
	injected := 0
	for i := range values {
		if r.rand.Float64() < nanRate {
			values[i] = nan
			injected++
		}
	}
	return injected
}

// LowCardinalityFloats generates n values drawn from a small set of
// distinct levels. Border selection on such columns exercises the
// deduplication path: there can never be more borders than levels.
func (r *RNG) LowCardinalityFloats(n, levels int) []float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	values := make([]float32, n)
	for i := range values {
		values[i] = float32(r.rand.Intn(levels))
	}
	return values
}

// HashedCatValues generates n categorical hash values drawn uniformly
// from a vocabulary of the given cardinality. The returned slice contains
// hash values, not ids; id assignment is the perfect hash's job.
func (r *RNG) HashedCatValues(n, cardinality int) []uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	values := make([]uint32, n)
	for i := range values {
		// Spread tokens so consecutive vocabulary entries do not look
		// like dense ids by accident.
		values[i] = uint32(r.rand.Intn(cardinality))*2654435761 + 1
	}
	return values
}

// ZipfHashedCatValues generates n categorical hash values with a Zipfian
// token frequency: a few tokens dominate, the tail is rare. This mirrors
// real categorical columns (ids, city names, user agents).
func (r *RNG) ZipfHashedCatValues(n, cardinality int, s float64) []uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	values := make([]uint32, n)
	for i := range values {
		values[i] = uint32(r.zipfLocked(cardinality, s))*2654435761 + 1
	}
	return values
}

// zipfLocked samples from a Zipf distribution over [0, n) with skew s
// (caller must hold lock).
func (r *RNG) zipfLocked(n int, s float64) int {
	if n <= 1 {
		return 0
	}

	var hns float64
	for i := 1; i <= n; i++ {
		hns += 1.0 / math.Pow(float64(i), s)
	}

	u := r.rand.Float64() * hns
	var cumulative float64
	for k := 1; k <= n; k++ {
		cumulative += 1.0 / math.Pow(float64(k), s)
		if u <= cumulative {
			return k - 1
		}
	}

	return n - 1
}

// Shuffled returns a random permutation of [0, n) as uint32 indices,
// e.g. for building explicitly shuffled datasets.
func (r *RNG) Shuffled(n int) []uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	indices := make([]uint32, n)
	for i := range indices {
		indices[i] = uint32(i)
	}
	r.rand.Shuffle(n, func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})
	return indices
}

// DistinctCount returns the number of distinct values in the slice.
func DistinctCount(values []uint32) int {
	seen := make(map[uint32]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	return len(seen)
}
