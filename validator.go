package valise

import (
	"context"
	"reflect"
	"sort"
)

// Validator is a rule object: it inspects a single value and returns a
// cleaned (possibly coerced) value, or an error describing every failure it
// found. Validators are immutable after construction and never mutate their
// input.
//
// Container validators (sequences, mappings, object schemas) return a
// best-effort partial result alongside a non-nil error; failed positions hold
// the Failed sentinel so callers can consume partial output without index
// drift.
type Validator interface {
	Validate(ctx context.Context, v any) (any, error)
	// Fingerprint is a stable string built from the validator kind and its
	// parameters. Two validators with equal fingerprints are interchangeable,
	// which makes fingerprints usable as map and cache keys.
	Fingerprint() string
}

// typeValidators maps native Go types to validator constructors. Populated at
// startup, read-only afterwards; duplicate registration is an error.
var typeValidators = NewRegistry[reflect.Type, func() Validator]("validator type")

// RegisterType associates a native type with a validator constructor.
// Registering the same type twice returns ErrDuplicateEntry.
func RegisterType(t reflect.Type, ctor func() Validator) error {
	return typeValidators.Register(t, ctor)
}

// MustRegisterType is like RegisterType but panics on error.
func MustRegisterType(t reflect.Type, ctor func() Validator) {
	if err := RegisterType(t, ctor); err != nil {
		panic(err)
	}
}

// ValidatorFor resolves a fresh validator for the value's runtime type.
// Resolution tries the exact type first, then the registered types the
// value's type is convertible to with the same kind (nearest named ancestor
// in Go terms), walked in sorted type-name order so the winner is the same on
// every call.
func ValidatorFor(v any) (Validator, bool) {
	if v == nil {
		return nil, false
	}
	t := reflect.TypeOf(v)
	if ctor, ok := typeValidators.Resolve(t); ok {
		return ctor(), true
	}
	keys := typeValidators.Keys()
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	for _, rt := range keys {
		if t.Kind() == rt.Kind() && t.ConvertibleTo(rt) {
			if ctor, ok := typeValidators.Resolve(rt); ok {
				return ctor(), true
			}
		}
	}
	return nil, false
}
