package oracle

import (
	"fmt"
	"math"

	"github.com/x448/float16"
)

// Precision is the working floating-point representation of a session.
// Values are stored as float64 but rounded into the representation on ingest and
// after every reduction, so comparisons see exactly what the narrow type would hold.
type Precision string

const (
	Float16 Precision = "float16"
	Float32 Precision = "float32"
	Float64 Precision = "float64"
)

// maxFloat16 is the largest finite IEEE 754 binary16 value.
const maxFloat16 = 65504

var validPrecisions = map[Precision]bool{
	Float16: true,
	Float32: true,
	Float64: true,
}

// ParsePrecision maps a flag or config string to a Precision.
// The aliases "half", "single" and "double" (and fp16/fp32/fp64) are accepted too.
func ParsePrecision(s string) (Precision, error) {
	switch s {
	case "half", "fp16":
		return Float16, nil
	case "single", "fp32":
		return Float32, nil
	case "double", "fp64":
		return Float64, nil
	}
	p := Precision(s)
	if !validPrecisions[p] {
		return "", fmt.Errorf("%w: unknown precision %q; valid: float16, float32, float64", ErrInvalidConfig, s)
	}
	return p, nil
}

// IsValid reports whether p names a supported representation.
func (p Precision) IsValid() bool {
	return validPrecisions[p]
}

// Round returns v rounded to the nearest value representable in p.
// Values beyond the finite range become ±Inf.
func (p Precision) Round(v float64) float64 {
	switch p {
	case Float16:
		return float64(float16.Fromfloat32(float32(v)).Float32())
	case Float32:
		return float64(float32(v))
	default:
		return v
	}
}

// MaxValue is the largest finite value of the representation.
func (p Precision) MaxValue() float64 {
	switch p {
	case Float16:
		return maxFloat16
	case Float32:
		return math.MaxFloat32
	default:
		return math.MaxFloat64
	}
}

func (p Precision) String() string {
	return string(p)
}
