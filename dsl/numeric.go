package dsl

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	valise "github.com/soratobu/valise"
	"github.com/soratobu/valise/i18n"
)

// IntValidator accepts integer values and returns them as int64. The implicit
// coercion policy is deliberately narrow: a float is accepted only when it is
// integral, a json.Number only in integer form, a *big.Rat only with
// denominator 1. Strings convert only with explicit Coerce, and a failed
// conversion is a coercion error, distinct from the type error raised when
// coercion is disabled.
type IntValidator struct {
	coerce   bool
	min, max *int64
}

// Int returns an integer validator.
func Int() *IntValidator { return &IntValidator{} }

// Coerce enables string-to-integer conversion.
func (n *IntValidator) Coerce() *IntValidator { n.coerce = true; return n }

// Min sets an inclusive lower bound.
func (n *IntValidator) Min(v int64) *IntValidator { n.min = &v; return n }

// Max sets an inclusive upper bound.
func (n *IntValidator) Max(v int64) *IntValidator { n.max = &v; return n }

func (n *IntValidator) Validate(ctx context.Context, v any) (any, error) {
	if v == nil {
		return nil, nullIssue()
	}
	if f, ok := v.(float64); ok && isNaN(f) {
		return nil, valise.Issues{{Path: "/", Code: valise.CodeNotANumber, Message: i18n.T(valise.CodeNotANumber, nil), Rule: "int"}}
	}
	i, ok, numeric := toInt64(v)
	if !ok {
		if s, isStr := v.(string); isStr && n.coerce {
			parsed, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
			if err != nil {
				return nil, valise.Issues{{Path: "/", Code: valise.CodeCoercionFailed, Message: i18n.T(valise.CodeCoercionFailed, nil), Cause: err, Params: map[string]any{"got": s}, Rule: "int"}}
			}
			i = parsed
		} else {
			hint := "expected integer"
			if numeric {
				hint = "fractional part not allowed"
			}
			return nil, valise.Issues{{Path: "/", Code: valise.CodeInvalidType, Message: i18n.T(valise.CodeInvalidType, nil), Hint: hint, Rule: "int"}}
		}
	}
	if n.min != nil && i < *n.min {
		return nil, valise.Issues{{Path: "/", Code: valise.CodeTooSmall, Message: i18n.T(valise.CodeTooSmall, nil), Params: map[string]any{"min": *n.min, "got": i}, Rule: "int"}}
	}
	if n.max != nil && i > *n.max {
		return nil, valise.Issues{{Path: "/", Code: valise.CodeTooBig, Message: i18n.T(valise.CodeTooBig, nil), Params: map[string]any{"max": *n.max, "got": i}, Rule: "int"}}
	}
	return i, nil
}

func (n *IntValidator) Fingerprint() string {
	return fmt.Sprintf("int(coerce=%t,min=%s,max=%s)", n.coerce, fmtBound(n.min), fmtBound(n.max))
}

func fmtBound(b *int64) string {
	if b == nil {
		return "-"
	}
	return strconv.FormatInt(*b, 10)
}

// FloatValidator accepts numeric values and returns them as float64. NaN and
// infinities are rejected after type acceptance unless explicitly allowed.
type FloatValidator struct {
	coerce   bool
	allowNaN bool
	allowInf bool
}

// Float returns a float validator.
func Float() *FloatValidator { return &FloatValidator{} }

// Coerce enables string-to-float conversion.
func (f *FloatValidator) Coerce() *FloatValidator { f.coerce = true; return f }

// AllowNaN accepts NaN values.
func (f *FloatValidator) AllowNaN() *FloatValidator { f.allowNaN = true; return f }

// AllowInf accepts positive and negative infinity.
func (f *FloatValidator) AllowInf() *FloatValidator { f.allowInf = true; return f }

func (f *FloatValidator) Validate(ctx context.Context, v any) (any, error) {
	if v == nil {
		return nil, nullIssue()
	}
	out, ok := toFloat64(v)
	if !ok {
		if s, isStr := v.(string); isStr && f.coerce {
			parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, valise.Issues{{Path: "/", Code: valise.CodeCoercionFailed, Message: i18n.T(valise.CodeCoercionFailed, nil), Cause: err, Params: map[string]any{"got": s}, Rule: "float"}}
			}
			out = parsed
		} else {
			return nil, valise.Issues{{Path: "/", Code: valise.CodeInvalidType, Message: i18n.T(valise.CodeInvalidType, nil), Hint: "expected number", Rule: "float"}}
		}
	}
	if isNaN(out) && !f.allowNaN {
		return nil, valise.Issues{{Path: "/", Code: valise.CodeNotANumber, Message: i18n.T(valise.CodeNotANumber, nil), Rule: "float"}}
	}
	if math.IsInf(out, 0) && !f.allowInf {
		return nil, valise.Issues{{Path: "/", Code: valise.CodeNotFinite, Message: i18n.T(valise.CodeNotFinite, nil), Rule: "float"}}
	}
	return out, nil
}

func (f *FloatValidator) Fingerprint() string {
	return fmt.Sprintf("float(coerce=%t,nan=%t,inf=%t)", f.coerce, f.allowNaN, f.allowInf)
}

// RatValidator accepts exact rational values and returns them as *big.Rat.
// Integers and integral inputs convert losslessly; floats convert through
// their exact binary value. Strings convert only with explicit Coerce.
type RatValidator struct {
	coerce bool
}

// Rat returns a rational-number validator.
func Rat() *RatValidator { return &RatValidator{} }

// Coerce enables string-to-rational conversion ("3/4" or decimal forms).
func (r *RatValidator) Coerce() *RatValidator { r.coerce = true; return r }

func (r *RatValidator) Validate(ctx context.Context, v any) (any, error) {
	if v == nil {
		return nil, nullIssue()
	}
	switch t := v.(type) {
	case *big.Rat:
		return t, nil
	case float64:
		if isNaN(t) {
			return nil, valise.Issues{{Path: "/", Code: valise.CodeNotANumber, Message: i18n.T(valise.CodeNotANumber, nil), Rule: "rat"}}
		}
		if math.IsInf(t, 0) {
			return nil, valise.Issues{{Path: "/", Code: valise.CodeNotFinite, Message: i18n.T(valise.CodeNotFinite, nil), Rule: "rat"}}
		}
		return new(big.Rat).SetFloat64(t), nil
	case json.Number:
		if parsed, ok := new(big.Rat).SetString(t.String()); ok {
			return parsed, nil
		}
	case string:
		if !r.coerce {
			break
		}
		if parsed, ok := new(big.Rat).SetString(strings.TrimSpace(t)); ok {
			return parsed, nil
		}
		return nil, valise.Issues{{Path: "/", Code: valise.CodeCoercionFailed, Message: i18n.T(valise.CodeCoercionFailed, nil), Params: map[string]any{"got": t}, Rule: "rat"}}
	}
	if i, ok, _ := toInt64(v); ok {
		return new(big.Rat).SetInt64(i), nil
	}
	return nil, valise.Issues{{Path: "/", Code: valise.CodeInvalidType, Message: i18n.T(valise.CodeInvalidType, nil), Hint: "expected rational", Rule: "rat"}}
}

func (r *RatValidator) Fingerprint() string {
	return fmt.Sprintf("rat(coerce=%t)", r.coerce)
}

// BoolValidator accepts bool values directly. String coercion is opt-in via
// configured true/false sets, matched case-insensitively. Integers are
// deliberately never accepted as booleans.
type BoolValidator struct {
	trueStrings  []string
	falseStrings []string
}

// Bool returns a boolean validator.
func Bool() *BoolValidator { return &BoolValidator{} }

// Strings enables case-folded string coercion against the given true/false
// sets.
func (b *BoolValidator) Strings(trues, falses []string) *BoolValidator {
	b.trueStrings = trues
	b.falseStrings = falses
	return b
}

func (b *BoolValidator) Validate(ctx context.Context, v any) (any, error) {
	if v == nil {
		return nil, nullIssue()
	}
	if bv, ok := v.(bool); ok {
		return bv, nil
	}
	if s, ok := v.(string); ok && (len(b.trueStrings) > 0 || len(b.falseStrings) > 0) {
		folded := strings.ToLower(strings.TrimSpace(s))
		for _, t := range b.trueStrings {
			if folded == strings.ToLower(t) {
				return true, nil
			}
		}
		for _, t := range b.falseStrings {
			if folded == strings.ToLower(t) {
				return false, nil
			}
		}
		return nil, valise.Issues{{Path: "/", Code: valise.CodeCoercionFailed, Message: i18n.T(valise.CodeCoercionFailed, nil), Params: map[string]any{"got": s}, Rule: "bool"}}
	}
	return nil, valise.Issues{{Path: "/", Code: valise.CodeInvalidType, Message: i18n.T(valise.CodeInvalidType, nil), Hint: "expected bool", Rule: "bool"}}
}

func (b *BoolValidator) Fingerprint() string {
	return fmt.Sprintf("bool(true=%v,false=%v)", b.trueStrings, b.falseStrings)
}
