//go:build darwin

package meminfo

import "golang.org/x/sys/unix"

// ResidentSetSize returns the peak RSS of the process in bytes, or 0 if it
// cannot be determined. Darwin has no cheap current-RSS probe, so the peak
// is used as an upper-bound approximation.
func ResidentSetSize() uint64 {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0
	}
	// ru_maxrss is in bytes on Darwin.
	return uint64(ru.Maxrss)
}
