//go:build linux

package meminfo

import (
	"bytes"
	"os"
	"strconv"

	"golang.org/x/sys/unix"
)

// ResidentSetSize returns the current RSS of the process in bytes, or 0 if
// it cannot be determined.
func ResidentSetSize() uint64 {
	data, err := os.ReadFile("/proc/self/statm")
	if err != nil {
		return maxRSS()
	}

	// statm: size resident shared text lib data dt (in pages)
	fields := bytes.Fields(data)
	if len(fields) < 2 {
		return maxRSS()
	}

	pages, err := strconv.ParseUint(string(fields[1]), 10, 64)
	if err != nil {
		return maxRSS()
	}

	return pages * uint64(os.Getpagesize())
}

// maxRSS falls back to the peak RSS reported by getrusage.
func maxRSS() uint64 {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0
	}
	// ru_maxrss is in kilobytes on Linux.
	return uint64(ru.Maxrss) * 1024
}
