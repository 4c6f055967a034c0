package utils

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ToString converts various types to string.
// Whole floats render without a fraction so 7 and 7.0 produce the same text.
// Integer kinds are formatted exactly, never through float64.
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return strconv.FormatInt(i, 10)
		}
		if f, err := v.Float64(); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return v.String()
	case int:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case int8:
		return strconv.FormatInt(int64(v), 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case uint16:
		return strconv.FormatUint(uint64(v), 10)
	case uint8:
		return strconv.FormatUint(uint64(v), 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// SortKey returns the case-insensitive comparison key of a value.
func SortKey(val any) string {
	return cases.Lower(language.Und).String(ToString(val))
}

// ToFloat converts numeric values (any int, uint or float kind and
// json.Number) to float64. The second result is false for non-numbers.
func ToFloat(val any) (float64, bool) {
	switch v := val.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case int16:
		return float64(v), true
	case int8:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint8:
		return float64(v), true
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// IsScalar reports whether val is a string or a number, the value shapes
// that may be used as an identifier.
func IsScalar(val any) bool {
	if _, ok := val.(string); ok {
		return true
	}
	_, ok := ToFloat(val)
	return ok
}

// Equal compares two scalar values. Numbers compare exactly by value
// regardless of their Go kind; values that are not comparable never match.
func Equal(a, b any) bool {
	na, aNum := exact(a)
	nb, bNum := exact(b)
	if aNum || bNum {
		return na != nil && nb != nil && na.Cmp(nb) == 0
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if !reflect.TypeOf(a).Comparable() || !reflect.TypeOf(b).Comparable() {
		return false
	}
	return a == b
}

// exact returns the value of a number without rounding integers wider than
// a float64 mantissa. NaN is a number without a value and equals nothing.
func exact(val any) (*big.Float, bool) {
	switch v := val.(type) {
	case int:
		return new(big.Float).SetInt64(int64(v)), true
	case int64:
		return new(big.Float).SetInt64(v), true
	case int32:
		return new(big.Float).SetInt64(int64(v)), true
	case int16:
		return new(big.Float).SetInt64(int64(v)), true
	case int8:
		return new(big.Float).SetInt64(int64(v)), true
	case uint:
		return new(big.Float).SetUint64(uint64(v)), true
	case uint64:
		return new(big.Float).SetUint64(v), true
	case uint32:
		return new(big.Float).SetUint64(uint64(v)), true
	case uint16:
		return new(big.Float).SetUint64(uint64(v)), true
	case uint8:
		return new(big.Float).SetUint64(uint64(v)), true
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return new(big.Float).SetInt64(i), true
		}
	}
	f, ok := ToFloat(val)
	if !ok {
		return nil, false
	}
	if math.IsNaN(f) {
		return nil, true
	}
	return new(big.Float).SetFloat64(f), true
}
