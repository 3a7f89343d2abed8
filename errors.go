package quantgo

import (
	"errors"
	"fmt"
)

var (
	// ErrNoOutputFormat is returned when neither a CPU-compatible nor an
	// accelerator-compatible output format is requested.
	ErrNoOutputFormat = errors.New("at least one of CPUCompatibleFormat or GPUCompatibleFormat must be requested")
)

// DataError indicates invalid input data for a specific feature (e.g. NaN
// values under a Forbidden NaN policy). It aborts the quantization call.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type DataError struct {
	FeatureType string
	FeatureIdx  uint32
	cause       error
}

func (e *DataError) Error() string {
	return fmt.Sprintf("%s feature #%d: %v", e.FeatureType, e.FeatureIdx, e.cause)
}

func (e *DataError) Unwrap() error { return e.cause }

// InternalError indicates a violated internal consistency invariant: a
// developer bug signal, not a recoverable input condition.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type InternalError struct {
	Msg   string
	cause error
}

func (e *InternalError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("internal error: %s: %v", e.Msg, e.cause)
	}
	return fmt.Sprintf("internal error: %s", e.Msg)
}

func (e *InternalError) Unwrap() error { return e.cause }
