// Package accel declares the narrow contract to the device-resident scan
// primitive used by the separate accelerator training stage.
//
// The primitive itself lives with the accelerator runtime and is consumed
// here only through the Scanner interface; this package implements no
// device code.
package accel

import "fmt"

// Scanner computes a prefix scan over input, restarted at every segment
// boundary. A segment starts at position i when segmentFlags[i]&flagMask
// != 0. The output has the same length as the input; inclusive selects
// whether element i contributes to its own prefix.
type Scanner[T any] interface {
	SegmentedScan(input []T, segmentFlags []uint32, inclusive bool, flagMask uint32) ([]T, error)
}

// Validate checks the length contract shared by all Scanner
// implementations.
func Validate(inputLen, flagsLen int) error {
	if inputLen != flagsLen {
		return fmt.Errorf("accel: segment flags length %d != input length %d", flagsLen, inputLen)
	}
	return nil
}
