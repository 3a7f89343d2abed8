package conv

import (
	"fmt"
	"math"
)

// IntToUint32 converts int to uint32 safely. Row counts and feature
// indices are carried as uint32, so externally supplied lengths pass
// through this check once at construction time.
func IntToUint32(v int) (uint32, error) {
	if v < 0 {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to uint32 (negative)", v)
	}
	// On 64-bit systems, int can exceed uint32 max; on 32-bit, this is always false
	if uint64(v) > math.MaxUint32 {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to uint32 (too large)", v)
	}
	return uint32(v), nil
}
