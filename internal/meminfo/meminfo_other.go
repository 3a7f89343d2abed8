//go:build !linux && !darwin

package meminfo

import "runtime"

// ResidentSetSize approximates RSS from the Go heap on platforms without a
// native probe.
func ResidentSetSize() uint64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return ms.Sys
}
