package borders

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/hupe1980/quantgo/subset"
)

// MaxBorderSetSize bounds the border count so that a quantized float code
// always fits in one byte.
const MaxBorderSetSize = 256

// ErrNanValuesForbidden is returned by Compute when the sampled data
// contains NaN and the policy forbids them. The orchestrator wraps it with
// the offending feature's identity.
var ErrNanValuesForbidden = errors.New("nan values present and nan policy is Forbidden")

// ComputeOptions configures a border computation.
type ComputeOptions struct {
	// MaxBorderCount is the maximum number of borders excluding NaN
	// sentinels. Must be in [1, 255].
	MaxBorderCount int

	// Algorithm selects the histogram binarization strategy.
	Algorithm SelectionAlgorithm

	// NanPolicy is the NanMode assigned when NaNs are observed in the
	// sampled data. NanModeForbidden makes observed NaNs a hard error.
	NanPolicy NanMode
}

// Compute derives the NanMode and border set of a float feature from the
// sampled subset of its values.
//
// The resulting NanMode is the configured policy only if NaNs were actually
// observed; a clean sample resolves to NanModeForbidden and reserves no
// sentinel bin. The returned borders are strictly ascending, deduplicated,
// free of negative zero, and fewer than MaxBorderSetSize.
func Compute(values []float32, sample subset.Mapping, opts ComputeOptions) (NanMode, []float32, error) {
	if opts.MaxBorderCount < 1 || opts.MaxBorderCount >= MaxBorderSetSize {
		return NanModeForbidden, nil, fmt.Errorf("invalid max border count %d", opts.MaxBorderCount)
	}

	finite := make([]float32, 0, sample.Size())
	hasNans := false

	sample.ForEach(func(_ int, src uint32) {
		v := values[src]
		if math.IsNaN(float64(v)) {
			hasNans = true
		} else {
			finite = append(finite, v)
		}
	})

	if hasNans && opts.NanPolicy == NanModeForbidden {
		return NanModeForbidden, nil, ErrNanValuesForbidden
	}

	nanMode := NanModeForbidden
	if hasNans {
		nanMode = opts.NanPolicy
	}

	sort.Slice(finite, func(i, j int) bool { return finite[i] < finite[j] })

	result := selectBorders(finite, opts.MaxBorderCount, opts.Algorithm)
	result = canonicalize(result)

	switch nanMode {
	case NanModeMin:
		result = append([]float32{-math.MaxFloat32}, result...)
	case NanModeMax:
		result = append(result, math.MaxFloat32)
	}

	if len(result) >= MaxBorderSetSize {
		panic(fmt.Sprintf("borders: %d borders exceed the one-byte code space", len(result)))
	}

	return nanMode, result, nil
}

// canonicalize sorts ascending, normalizes negative zero to positive zero
// and removes duplicates.
func canonicalize(raw []float32) []float32 {
	for i, b := range raw {
		if b == 0 { // drops the sign of -0
			raw[i] = 0
		}
	}
	sort.Slice(raw, func(i, j int) bool { return raw[i] < raw[j] })

	result := raw[:0]
	for i, b := range raw {
		if i == 0 || b != result[len(result)-1] {
			result = append(result, b)
		}
	}
	return result
}

// Quantize assigns each selected value its bin code: the number of borders
// strictly below the value. NaN values map to the sentinel bin of the
// feature's NanMode; if allowNans is false they are an error.
//
// out must have length sel.Size().
func Quantize(values []float32, sel subset.Mapping, bs []float32, nanMode NanMode, allowNans bool, out []uint8) error {
	if len(out) != sel.Size() {
		panic(fmt.Sprintf("borders: output length %d != subset size %d", len(out), sel.Size()))
	}

	var nanErr error
	sel.ForEach(func(i int, src uint32) {
		v := values[src]
		if math.IsNaN(float64(v)) {
			switch {
			case !allowNans:
				if nanErr == nil {
					nanErr = ErrNanValuesForbidden
				}
			case nanMode == NanModeMax:
				out[i] = uint8(len(bs))
			default:
				out[i] = 0
			}
			return
		}
		out[i] = Bin(bs, v)
	})

	return nanErr
}

// Bin returns the code of a finite value: the count of borders strictly
// below it, found by binary search. A value equal to a border stays in the
// lower bin.
func Bin(bs []float32, v float32) uint8 {
	lo, hi := 0, len(bs)
	for lo < hi {
		mid := (lo + hi) / 2
		if bs[mid] < v {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return uint8(lo)
}
