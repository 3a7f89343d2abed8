package accel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hostScanner is a reference implementation of the contract, used to pin
// down its semantics for accelerator implementors.
type hostScanner struct{}

func (hostScanner) SegmentedScan(input []float32, segmentFlags []uint32, inclusive bool, flagMask uint32) ([]float32, error) {
	if err := Validate(len(input), len(segmentFlags)); err != nil {
		return nil, err
	}

	out := make([]float32, len(input))
	var acc float32
	for i, v := range input {
		if segmentFlags[i]&flagMask != 0 {
			acc = 0
		}
		if inclusive {
			acc += v
			out[i] = acc
		} else {
			out[i] = acc
			acc += v
		}
	}
	return out, nil
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(3, 3))
	assert.Error(t, Validate(3, 4))
}

func TestScannerContract_Exclusive(t *testing.T) {
	var s Scanner[float32] = hostScanner{}

	out, err := s.SegmentedScan(
		[]float32{1, 2, 3, 4},
		[]uint32{1, 0, 1, 0},
		false,
		1,
	)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1, 0, 3}, out)
}

func TestScannerContract_Inclusive(t *testing.T) {
	var s Scanner[float32] = hostScanner{}

	out, err := s.SegmentedScan(
		[]float32{1, 2, 3, 4},
		[]uint32{1, 0, 1, 0},
		true,
		1,
	)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 3, 3, 7}, out)
}

func TestScannerContract_FlagMask(t *testing.T) {
	var s Scanner[float32] = hostScanner{}

	// Flag bit 2 is not covered by mask 1: one single segment.
	out, err := s.SegmentedScan(
		[]float32{1, 1, 1},
		[]uint32{1, 2, 2},
		true,
		1,
	)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3}, out)
}
