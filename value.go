package appconfiguration

import (
	"fmt"
	"math"

	"github.com/ibm-appconfiguration/appconfiguration-go-sdk/internal/evaluator"
)

// DefaultValueSentinel is the literal rule value meaning "use the
// enclosing resource's own default path value" (enabled_value for
// features, value for properties). A correctly built catalog never
// returns this string itself from evaluation.
const DefaultValueSentinel = "$default"

// Value is a tagged variant over the recognised primitive types. Numeric
// coercion between signed and unsigned is permitted only when the value
// is exactly representable in the target type; every other cross-variant
// conversion fails with ErrMismatchType. This mirrors the source SDK's
// Value enum and its range-checked TryFrom conversions rather than
// leaning on Go's implicit numeric coercions.
type Value struct {
	variant evaluator.Variant
	i64     int64
	u64     uint64
	f64     float64
	b       bool
	s       string
}

func valueFromTyped(t evaluator.Typed) Value {
	return Value{
		variant: t.Variant,
		i64:     t.Int64,
		u64:     t.UInt64,
		f64:     t.Float64,
		b:       t.Bool,
		s:       t.String,
	}
}

// AsInt64 returns the value as a signed 64-bit integer. A stored unsigned
// value converts only if it fits in the range of int64.
func (v Value) AsInt64() (int64, error) {
	switch v.variant {
	case evaluator.VariantInt64:
		return v.i64, nil
	case evaluator.VariantUInt64:
		if v.u64 <= math.MaxInt64 {
			return int64(v.u64), nil
		}
		return 0, fmt.Errorf("%w: uint64 value %d overflows int64", ErrMismatchType, v.u64)
	default:
		return 0, fmt.Errorf("%w: value is not an integer", ErrMismatchType)
	}
}

// AsUInt64 returns the value as an unsigned 64-bit integer. A stored
// signed value converts only if it is non-negative.
func (v Value) AsUInt64() (uint64, error) {
	switch v.variant {
	case evaluator.VariantUInt64:
		return v.u64, nil
	case evaluator.VariantInt64:
		if v.i64 >= 0 {
			return uint64(v.i64), nil
		}
		return 0, fmt.Errorf("%w: negative int64 value %d has no uint64 representation", ErrMismatchType, v.i64)
	default:
		return 0, fmt.Errorf("%w: value is not an unsigned integer", ErrMismatchType)
	}
}

// AsFloat64 returns the value as a float64. No other variant converts.
func (v Value) AsFloat64() (float64, error) {
	if v.variant != evaluator.VariantFloat64 {
		return 0, fmt.Errorf("%w: value is not a float", ErrMismatchType)
	}
	return v.f64, nil
}

// AsBool returns the value as a bool. No other variant converts.
func (v Value) AsBool() (bool, error) {
	if v.variant != evaluator.VariantBool {
		return false, fmt.Errorf("%w: value is not a boolean", ErrMismatchType)
	}
	return v.b, nil
}

// AsString returns the value as a string. No other variant converts.
func (v Value) AsString() (string, error) {
	if v.variant != evaluator.VariantString {
		return "", fmt.Errorf("%w: value is not a string", ErrMismatchType)
	}
	return v.s, nil
}

// String renders the value's underlying primitive for display (CLI
// output, logging); it never fails.
func (v Value) String() string {
	switch v.variant {
	case evaluator.VariantInt64:
		return fmt.Sprintf("%d", v.i64)
	case evaluator.VariantUInt64:
		return fmt.Sprintf("%d", v.u64)
	case evaluator.VariantFloat64:
		return fmt.Sprintf("%g", v.f64)
	case evaluator.VariantBool:
		return fmt.Sprintf("%t", v.b)
	case evaluator.VariantString:
		return v.s
	default:
		return ""
	}
}
