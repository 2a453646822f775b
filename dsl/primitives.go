package dsl

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	valise "github.com/soratobu/valise"
	"github.com/soratobu/valise/i18n"
)

// Anything accepts every value unchanged. It is the identity placeholder for
// schema composition.
func Anything() valise.Validator { return anythingValidator{} }

type anythingValidator struct{}

func (anythingValidator) Validate(ctx context.Context, v any) (any, error) { return v, nil }
func (anythingValidator) Fingerprint() string                              { return "anything()" }

// Const accepts only the single specified value; anything else is rejected.
// Intended for literal/tag fields.
func Const(want any) valise.Validator { return constValidator{want: want} }

type constValidator struct{ want any }

func (c constValidator) Validate(ctx context.Context, v any) (any, error) {
	if !reflect.DeepEqual(v, c.want) {
		return nil, valise.Issues{{
			Path: "/", Code: valise.CodeNotInChoices,
			Message: i18n.T(valise.CodeNotInChoices, nil),
			Params:  map[string]any{"expected": c.want, "got": v},
			Rule:    "const",
		}}
	}
	return v, nil
}

func (c constValidator) Fingerprint() string { return fmt.Sprintf("const(%v)", c.want) }

// BetweenValidator rejects values outside the configured bounds. Bounds are
// individually optional and inclusivity toggles per bound. NaN is detected and
// rejected before any bound comparison, and a value whose type cannot be
// compared against the bounds is a type error, never a silent pass.
type BetweenValidator struct {
	min, max         any
	minExcl, maxExcl bool
}

// Between returns an unbounded range validator; chain Min/Max to set bounds.
func Between() *BetweenValidator { return &BetweenValidator{} }

// Min sets the lower bound (inclusive unless ExclusiveMin is set).
func (b *BetweenValidator) Min(v any) *BetweenValidator { b.min = v; return b }

// Max sets the upper bound (inclusive unless ExclusiveMax is set).
func (b *BetweenValidator) Max(v any) *BetweenValidator { b.max = v; return b }

// ExclusiveMin makes the lower bound exclusive.
func (b *BetweenValidator) ExclusiveMin() *BetweenValidator { b.minExcl = true; return b }

// ExclusiveMax makes the upper bound exclusive.
func (b *BetweenValidator) ExclusiveMax() *BetweenValidator { b.maxExcl = true; return b }

func (b *BetweenValidator) Validate(ctx context.Context, v any) (any, error) {
	if v == nil {
		return nil, nullIssue()
	}
	if f, ok := toFloat64(v); ok {
		// NaN compares false against everything and would slip through the
		// bound checks below.
		if isNaN(f) {
			return nil, valise.Issues{{Path: "/", Code: valise.CodeNotANumber, Message: i18n.T(valise.CodeNotANumber, nil), Rule: "between"}}
		}
		if b.min != nil {
			mf, ok := toFloat64(b.min)
			if !ok {
				return nil, crossTypeIssue(v, b.min)
			}
			if f < mf || (b.minExcl && f == mf) {
				return nil, valise.Issues{{Path: "/", Code: valise.CodeTooSmall, Message: i18n.T(valise.CodeTooSmall, nil), Params: map[string]any{"min": b.min, "got": v}, Rule: "between"}}
			}
		}
		if b.max != nil {
			mf, ok := toFloat64(b.max)
			if !ok {
				return nil, crossTypeIssue(v, b.max)
			}
			if f > mf || (b.maxExcl && f == mf) {
				return nil, valise.Issues{{Path: "/", Code: valise.CodeTooBig, Message: i18n.T(valise.CodeTooBig, nil), Params: map[string]any{"max": b.max, "got": v}, Rule: "between"}}
			}
		}
		return v, nil
	}
	if s, ok := v.(string); ok {
		if b.min != nil {
			ms, ok := b.min.(string)
			if !ok {
				return nil, crossTypeIssue(v, b.min)
			}
			if s < ms || (b.minExcl && s == ms) {
				return nil, valise.Issues{{Path: "/", Code: valise.CodeTooSmall, Message: i18n.T(valise.CodeTooSmall, nil), Params: map[string]any{"min": b.min, "got": v}, Rule: "between"}}
			}
		}
		if b.max != nil {
			ms, ok := b.max.(string)
			if !ok {
				return nil, crossTypeIssue(v, b.max)
			}
			if s > ms || (b.maxExcl && s == ms) {
				return nil, valise.Issues{{Path: "/", Code: valise.CodeTooBig, Message: i18n.T(valise.CodeTooBig, nil), Params: map[string]any{"max": b.max, "got": v}, Rule: "between"}}
			}
		}
		return v, nil
	}
	return nil, valise.Issues{{Path: "/", Code: valise.CodeInvalidType, Message: i18n.T(valise.CodeInvalidType, nil), Hint: "value is not comparable against the bounds", Rule: "between"}}
}

func (b *BetweenValidator) Fingerprint() string {
	return fmt.Sprintf("between(min=%v,max=%v,minExcl=%t,maxExcl=%t)", b.min, b.max, b.minExcl, b.maxExcl)
}

func crossTypeIssue(got, bound any) valise.Issues {
	return valise.Issues{{
		Path: "/", Code: valise.CodeInvalidType,
		Message: i18n.T(valise.CodeInvalidType, nil),
		Hint:    fmt.Sprintf("cannot compare %T against %T bound", got, bound),
		Rule:    "between",
	}}
}

// ChoicesValidator rejects values not contained in a fixed set of allowed
// values. The non-empty first argument makes an empty choice set
// unrepresentable.
type ChoicesValidator struct{ allowed []any }

// Choices returns a validator accepting only the listed values.
func Choices(first any, rest ...any) *ChoicesValidator {
	return &ChoicesValidator{allowed: append([]any{first}, rest...)}
}

func (c *ChoicesValidator) Validate(ctx context.Context, v any) (any, error) {
	for _, a := range c.allowed {
		if reflect.DeepEqual(v, a) {
			return v, nil
		}
	}
	return nil, valise.Issues{{
		Path: "/", Code: valise.CodeNotInChoices,
		Message: i18n.T(valise.CodeNotInChoices, nil),
		Params:  map[string]any{"choices": c.allowed, "got": v},
		Rule:    "choices",
	}}
}

func (c *ChoicesValidator) Fingerprint() string {
	return fmt.Sprintf("choices(%v)", c.allowed)
}

// Excluding rejects values contained in the listed set.
func Excluding(first any, rest ...any) valise.Validator {
	return &excludingValidator{excluded: append([]any{first}, rest...)}
}

type excludingValidator struct{ excluded []any }

func (e *excludingValidator) Validate(ctx context.Context, v any) (any, error) {
	for _, x := range e.excluded {
		if reflect.DeepEqual(v, x) {
			return nil, valise.Issues{{
				Path: "/", Code: valise.CodeInExcluded,
				Message: i18n.T(valise.CodeInExcluded, nil),
				Params:  map[string]any{"excluded": e.excluded, "got": v},
				Rule:    "excluding",
			}}
		}
	}
	return v, nil
}

func (e *excludingValidator) Fingerprint() string {
	return fmt.Sprintf("excluding(%v)", e.excluded)
}

// EnumValidator accepts either a member name or a member value and returns
// the normalized member value either way. Name lookup wins when a name
// collides with another member's value.
type EnumValidator[E comparable] struct{ members map[string]E }

// Enum builds an enumeration validator from a name-to-value member table.
func Enum[E comparable](members map[string]E) *EnumValidator[E] {
	return &EnumValidator[E]{members: members}
}

func (e *EnumValidator[E]) Validate(ctx context.Context, v any) (any, error) {
	if s, ok := v.(string); ok {
		if val, ok := e.members[s]; ok {
			return val, nil
		}
	}
	for _, m := range e.members {
		if any(m) == v {
			return m, nil
		}
		// tolerate numeric representation drift (e.g. json.Number vs int)
		if mf, ok := toFloat64(any(m)); ok {
			if vf, ok := toFloat64(v); ok && mf == vf {
				return m, nil
			}
		}
	}
	return nil, valise.Issues{{
		Path: "/", Code: valise.CodeNotInChoices,
		Message: i18n.T(valise.CodeNotInChoices, nil),
		Params:  map[string]any{"got": v},
		Rule:    "enum",
	}}
}

func (e *EnumValidator[E]) Fingerprint() string {
	names := make([]string, 0, len(e.members))
	for n := range e.members {
		names = append(names, n)
	}
	sort.Strings(names)
	return fmt.Sprintf("enum(%s)", strings.Join(names, ","))
}

// LengthExactly validates that len(value) equals n. Values with no defined
// length are a type error, not a length error.
func LengthExactly(n int) valise.Validator { return &lengthValidator{exact: n, min: -1, max: -1} }

// LengthBetween validates that len(value) lies in [min, max]; a negative max
// means no upper bound.
func LengthBetween(min, max int) valise.Validator {
	return &lengthValidator{exact: -1, min: min, max: max}
}

type lengthValidator struct {
	exact, min, max int
}

func (l *lengthValidator) Validate(ctx context.Context, v any) (any, error) {
	n, ok := lengthOf(v)
	if !ok {
		return nil, valise.Issues{{Path: "/", Code: valise.CodeInvalidType, Message: i18n.T(valise.CodeInvalidType, nil), Hint: "value has no length", Rule: "length"}}
	}
	if l.exact >= 0 {
		if n != l.exact {
			return nil, valise.Issues{{Path: "/", Code: valise.CodeLengthMismatch, Message: i18n.T(valise.CodeLengthMismatch, nil), Params: map[string]any{"expected": l.exact, "got": n}, Rule: "length"}}
		}
		return v, nil
	}
	if l.min >= 0 && n < l.min {
		return nil, valise.Issues{{Path: "/", Code: valise.CodeTooShort, Message: i18n.T(valise.CodeTooShort, nil), Params: map[string]any{"min": l.min, "got": n}, Rule: "length"}}
	}
	if l.max >= 0 && n > l.max {
		return nil, valise.Issues{{Path: "/", Code: valise.CodeTooLong, Message: i18n.T(valise.CodeTooLong, nil), Params: map[string]any{"max": l.max, "got": n}, Rule: "length"}}
	}
	return v, nil
}

func (l *lengthValidator) Fingerprint() string {
	return fmt.Sprintf("length(exact=%d,min=%d,max=%d)", l.exact, l.min, l.max)
}

// Pattern compiles the expression and returns a validator matching strings
// against it. Compilation failures surface at construction.
func Pattern(expr string) (valise.Validator, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &patternValidator{re: re}, nil
}

// MustPattern is like Pattern but panics on a bad expression.
func MustPattern(expr string) valise.Validator {
	v, err := Pattern(expr)
	if err != nil {
		panic(err)
	}
	return v
}

type patternValidator struct{ re *regexp.Regexp }

func (p *patternValidator) Validate(ctx context.Context, v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, valise.Issues{{Path: "/", Code: valise.CodeInvalidType, Message: i18n.T(valise.CodeInvalidType, nil), Hint: "expected string", Rule: "pattern"}}
	}
	if !p.re.MatchString(s) {
		return nil, valise.Issues{{Path: "/", Code: valise.CodePattern, Message: i18n.T(valise.CodePattern, nil), Params: map[string]any{"pattern": p.re.String(), "got": s}, Rule: "pattern"}}
	}
	return s, nil
}

func (p *patternValidator) Fingerprint() string { return "pattern(" + p.re.String() + ")" }

// Nullable passes nil through untouched and delegates everything else to the
// inner validator. The nil short-circuit runs before any coercion or type
// checking of the inner validator.
func Nullable(inner valise.Validator) valise.Validator { return &nullableValidator{inner: inner} }

type nullableValidator struct{ inner valise.Validator }

func (n *nullableValidator) Validate(ctx context.Context, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	return n.inner.Validate(ctx, v)
}

func (n *nullableValidator) Fingerprint() string {
	return "nullable(" + n.inner.Fingerprint() + ")"
}

func nullIssue() valise.Issues {
	return valise.Issues{{Path: "/", Code: valise.CodeNullValue, Message: i18n.T(valise.CodeNullValue, nil)}}
}
