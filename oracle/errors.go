package oracle

import (
	"errors"
	"fmt"
)

// Sentinel errors. Typed errors below unwrap to these so callers can use errors.Is.
var (
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrNumericOverflow   = errors.New("numeric overflow")
	ErrEmptyPlaneSet     = errors.New("empty plane set")
	ErrEmptyBatch        = errors.New("empty batch")
	ErrNonFinite         = errors.New("non-finite value")
	ErrInvalidConfig     = errors.New("invalid config")
	ErrIndexOutOfRange   = errors.New("plane index out of range")
)

// DimensionMismatchError reports a width disagreement between an operand and the plane set.
type DimensionMismatchError struct {
	Operand  string // "plane", "workload point", "drift point", "drift vector", ...
	Index    int    // row of the offending operand, -1 if not applicable
	Expected int
	Got      int
}

func (e *DimensionMismatchError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s %d: width %d, expected %d", e.Operand, e.Index, e.Got, e.Expected)
	}
	return fmt.Sprintf("%s: width %d, expected %d", e.Operand, e.Got, e.Expected)
}

func (e *DimensionMismatchError) Unwrap() error { return ErrDimensionMismatch }

// NumericOverflowError reports a coefficient that cannot be represented safely
// in the session precision.
type NumericOverflowError struct {
	Plane       int
	Coefficient int
	Value       float64
	Precision   Precision
}

func (e *NumericOverflowError) Error() string {
	return fmt.Sprintf("plane %d coefficient %d: %v is not below the %s limit %v",
		e.Plane, e.Coefficient, e.Value, e.Precision, e.Precision.MaxValue())
}

func (e *NumericOverflowError) Unwrap() error { return ErrNumericOverflow }

func nonFinite(operand string, row, col int, v float64) error {
	if row < 0 {
		return fmt.Errorf("%w: %s coordinate %d is %v", ErrNonFinite, operand, col, v)
	}
	return fmt.Errorf("%w: %s %d coordinate %d is %v", ErrNonFinite, operand, row, col, v)
}

func outOfRange(i, n int) error {
	return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, n)
}
