package borders

import "fmt"

// NanMode controls how NaN values of a float feature are mapped to codes.
type NanMode int

const (
	// NanModeForbidden rejects NaN values as a data error.
	NanModeForbidden NanMode = iota

	// NanModeMin treats NaN as smaller than every finite value; a sentinel
	// border at the most-negative representable threshold reserves bin 0.
	NanModeMin

	// NanModeMax treats NaN as larger than every finite value; a sentinel
	// border at the most-positive representable threshold reserves the top
	// bin.
	NanModeMax
)

// ParseNanMode converts a NanMode name back to its value.
func ParseNanMode(s string) (NanMode, error) {
	switch s {
	case "Forbidden":
		return NanModeForbidden, nil
	case "Min":
		return NanModeMin, nil
	case "Max":
		return NanModeMax, nil
	default:
		return NanModeForbidden, fmt.Errorf("unknown nan mode %q", s)
	}
}

func (m NanMode) String() string {
	switch m {
	case NanModeForbidden:
		return "Forbidden"
	case NanModeMin:
		return "Min"
	case NanModeMax:
		return "Max"
	default:
		return fmt.Sprintf("NanMode(%d)", int(m))
	}
}
