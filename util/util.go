package util

import "math/rand"

// RNG struct encapsulates the random number generator and seed.
// A fixed seed makes subset sampling reproducible across runs.
type RNG struct {
	rand *rand.Rand
	seed int64
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 { return r.seed }

// Uniform returns a uniformly distributed integer in [lo, hi).
func (r *RNG) Uniform(lo, hi int) int {
	return lo + r.rand.Intn(hi-lo)
}

// Shuffle randomly permutes an index slice.
func (r *RNG) Shuffle(indices []uint32) {
	r.rand.Shuffle(len(indices), func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})
}

// SelectionSample returns k distinct indices drawn uniformly from [0, n)
// without materializing a full permutation: each of the first k positions of
// an identity permutation is swapped with a uniformly chosen later position
// (partial Fisher-Yates). For k == n it degenerates to a full shuffle of the
// prefix.
func (r *RNG) SelectionSample(n, k int) []uint32 {
	if k > n {
		k = n
	}

	indices := make([]uint32, n)
	for i := range indices {
		indices[i] = uint32(i)
	}
	for i := 0; i < k; i++ {
		j := r.Uniform(i, n)
		indices[i], indices[j] = indices[j], indices[i]
	}

	return indices[:k:k]
}
