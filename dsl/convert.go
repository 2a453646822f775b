package dsl

import (
	"encoding/json"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"unicode/utf8"
)

// toFloat64 widens any numeric representation the sources produce (Go ints,
// floats, json.Number from the JSON driver, *big.Rat) into a float64 for
// bound comparison. ok is false for non-numeric values.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := strconv.ParseFloat(n.String(), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case *big.Rat:
		f, _ := n.Float64()
		return f, true
	default:
		return 0, false
	}
}

// toInt64 narrows a value to int64 under the implicit-coercion policy:
// integral floats are accepted, fractional ones are not. The second result
// distinguishes "not numeric at all" (false, false) from "numeric but not
// integral" (false, true).
func toInt64(v any) (n int64, ok bool, numeric bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true, true
	case int8:
		return int64(t), true, true
	case int16:
		return int64(t), true, true
	case int32:
		return int64(t), true, true
	case int64:
		return t, true, true
	case uint:
		return int64(t), true, true
	case uint8:
		return int64(t), true, true
	case uint16:
		return int64(t), true, true
	case uint32:
		return int64(t), true, true
	case uint64:
		if t > math.MaxInt64 {
			return 0, false, true
		}
		return int64(t), true, true
	case float32:
		return floatToInt64(float64(t))
	case float64:
		return floatToInt64(t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, true, true
		}
		f, err := strconv.ParseFloat(t.String(), 64)
		if err != nil {
			return 0, false, false
		}
		return floatToInt64(f)
	case *big.Rat:
		if !t.IsInt() {
			return 0, false, true
		}
		if !t.Num().IsInt64() {
			return 0, false, true
		}
		return t.Num().Int64(), true, true
	default:
		return 0, false, false
	}
}

func floatToInt64(f float64) (int64, bool, bool) {
	if isNaN(f) || math.IsInf(f, 0) {
		return 0, false, true
	}
	if math.Trunc(f) != f {
		return 0, false, true
	}
	if f < math.MinInt64 || f > math.MaxInt64 {
		return 0, false, true
	}
	return int64(f), true, true
}

func isNaN(f float64) bool { return f != f }

// lengthOf reports the length of strings, slices, arrays, and maps.
func lengthOf(v any) (int, bool) {
	if v == nil {
		return 0, false
	}
	if s, ok := v.(string); ok {
		return utf8.RuneCountInString(s), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	default:
		return 0, false
	}
}

// asSlice normalizes sequence-shaped input into []any. Strings and byte
// slices are not sequences here; callers reject them before this point.
func asSlice(v any) ([]any, bool) {
	if items, ok := v.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = rv.Index(i).Interface()
		}
		return out, true
	default:
		return nil, false
	}
}

func itoa(i int) string { return strconv.Itoa(i) }
