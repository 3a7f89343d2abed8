package borders

import (
	"fmt"
	"math"
	"sort"
)

// SelectionAlgorithm chooses how candidate borders are derived from the
// sampled finite values of a feature.
type SelectionAlgorithm int

const (
	// Median picks borders at equal-frequency quantile positions.
	Median SelectionAlgorithm = iota

	// Uniform picks equally spaced borders between the minimum and maximum.
	Uniform

	// UniformAndQuantiles combines half Uniform and half Median borders.
	UniformAndQuantiles

	// GreedyLogSum greedily splits the bin whose split best reduces the
	// weighted log-sum impurity, weighting by element count.
	GreedyLogSum

	// MaxLogSum optimizes the log-sum objective over distinct value groups.
	// Slow: subject to the configured sample-size cap.
	MaxLogSum

	// MinEntropy greedily minimizes the entropy of the bin mass
	// distribution. Slow: subject to the configured sample-size cap.
	MinEntropy
)

func (a SelectionAlgorithm) String() string {
	switch a {
	case Median:
		return "Median"
	case Uniform:
		return "Uniform"
	case UniformAndQuantiles:
		return "UniformAndQuantiles"
	case GreedyLogSum:
		return "GreedyLogSum"
	case MaxLogSum:
		return "MaxLogSum"
	case MinEntropy:
		return "MinEntropy"
	default:
		return fmt.Sprintf("SelectionAlgorithm(%d)", int(a))
	}
}

// Slow reports whether the algorithm's cost is superlinear enough that its
// sample size must be capped (MaxSubsetSizeForSlowBuildBordersAlgorithms).
func (a SelectionAlgorithm) Slow() bool {
	return a == MaxLogSum || a == MinEntropy
}

// SampleSize returns the number of objects to sample for border
// computation: slow algorithms are capped by maxSlowSubsetSize, the rest
// use the full data.
func SampleSize(objectCount int, algo SelectionAlgorithm, maxSlowSubsetSize uint32) int {
	if algo.Slow() && objectCount > int(maxSlowSubsetSize) {
		return int(maxSlowSubsetSize)
	}
	return objectCount
}

// MemoryForFindBestSplit estimates the working set of the selection
// algorithm in bytes as a function of sample size and requested border
// count. Feeds the executor's admission control.
func MemoryForFindBestSplit(borderCount int, sampleSize int, algo SelectionAlgorithm) uint64 {
	// Sorted copy of the sample.
	result := uint64(sampleSize) * 4

	switch algo {
	case GreedyLogSum, MaxLogSum, MinEntropy:
		// Distinct value groups (value, weight) plus bin bookkeeping.
		result += uint64(sampleSize)*(4+8) + uint64(borderCount)*48
	default:
		result += uint64(borderCount) * 8
	}

	return result
}

// valueGroup is a distinct sampled value with its occurrence count.
type valueGroup struct {
	value  float32
	weight float64
}

func groupValues(sorted []float32) []valueGroup {
	groups := make([]valueGroup, 0, min(len(sorted), 1024))
	for _, v := range sorted {
		if n := len(groups); n > 0 && groups[n-1].value == v {
			groups[n-1].weight++
		} else {
			groups = append(groups, valueGroup{value: v, weight: 1})
		}
	}
	return groups
}

// borderBetween returns a threshold separating two adjacent distinct
// values. The midpoint keeps codes stable under small perturbations of
// later datasets.
func borderBetween(lo, hi float32) float32 {
	b := lo + (hi-lo)/2
	if b <= lo { // midpoint underflow on adjacent floats
		b = hi
	}
	return b
}

// selectBorders runs the chosen algorithm over sorted finite values and
// returns at most maxBorderCount candidate thresholds, unsorted and
// possibly containing duplicates.
func selectBorders(sorted []float32, maxBorderCount int, algo SelectionAlgorithm) []float32 {
	if len(sorted) == 0 || maxBorderCount <= 0 {
		return nil
	}

	switch algo {
	case Median:
		return medianBorders(sorted, maxBorderCount)
	case Uniform:
		return uniformBorders(sorted, maxBorderCount)
	case UniformAndQuantiles:
		half := (maxBorderCount + 1) / 2
		result := uniformBorders(sorted, half)
		result = append(result, medianBorders(sorted, maxBorderCount-half)...)
		return result
	case GreedyLogSum, MaxLogSum:
		return greedySplitBorders(groupValues(sorted), maxBorderCount, logSumImpurity)
	case MinEntropy:
		return greedySplitBorders(groupValues(sorted), maxBorderCount, entropyImpurity)
	default:
		panic(fmt.Sprintf("borders: unknown selection algorithm %d", int(algo)))
	}
}

// medianBorders places borders at equal-frequency positions of the sorted
// sample.
func medianBorders(sorted []float32, count int) []float32 {
	n := len(sorted)
	result := make([]float32, 0, count)
	for i := 1; i <= count; i++ {
		idx := i * n / (count + 1)
		if idx == 0 || sorted[idx] == sorted[idx-1] {
			continue
		}
		result = append(result, borderBetween(sorted[idx-1], sorted[idx]))
	}
	return result
}

// uniformBorders places equally spaced borders between min and max.
func uniformBorders(sorted []float32, count int) []float32 {
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		return nil
	}

	result := make([]float32, 0, count)
	step := (float64(hi) - float64(lo)) / float64(count+1)
	for i := 1; i <= count; i++ {
		result = append(result, float32(float64(lo)+step*float64(i)))
	}
	return result
}

type impurityFunc func(weight float64) float64

// logSumImpurity penalizes heavy bins on a log scale.
func logSumImpurity(w float64) float64 {
	return w * math.Log(w)
}

// entropyImpurity is the (negated) entropy contribution of a bin mass.
func entropyImpurity(w float64) float64 {
	if w <= 0 {
		return 0
	}
	return w * math.Log2(w)
}

// bin is a half-open range of value groups [begin, end) with the cumulative
// weight of its elements.
type bin struct {
	begin, end int
	weight     float64
}

// greedySplitBorders repeatedly splits the bin position that most reduces
// total impurity until maxBorderCount borders are chosen or no bin can be
// split further.
func greedySplitBorders(groups []valueGroup, maxBorderCount int, impurity impurityFunc) []float32 {
	if len(groups) < 2 {
		return nil
	}

	// Prefix weights for O(1) bin mass queries.
	prefix := make([]float64, len(groups)+1)
	for i, g := range groups {
		prefix[i+1] = prefix[i] + g.weight
	}
	weightOf := func(begin, end int) float64 {
		return prefix[end] - prefix[begin]
	}

	bins := []bin{{begin: 0, end: len(groups), weight: weightOf(0, len(groups))}}
	result := make([]float32, 0, maxBorderCount)

	for len(result) < maxBorderCount {
		bestBin, bestSplit := -1, -1
		bestGain := 0.0

		for bi, b := range bins {
			if b.end-b.begin < 2 {
				continue
			}
			base := impurity(b.weight)
			for split := b.begin + 1; split < b.end; split++ {
				gain := base - impurity(weightOf(b.begin, split)) - impurity(weightOf(split, b.end))
				if gain > bestGain {
					bestGain = gain
					bestBin = bi
					bestSplit = split
				}
			}
		}

		if bestBin == -1 {
			break
		}

		b := bins[bestBin]
		result = append(result, borderBetween(groups[bestSplit-1].value, groups[bestSplit].value))

		bins[bestBin] = bin{begin: b.begin, end: bestSplit, weight: weightOf(b.begin, bestSplit)}
		bins = append(bins, bin{begin: bestSplit, end: b.end, weight: weightOf(bestSplit, b.end)})
	}

	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}
