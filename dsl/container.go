package dsl

import (
	"context"
	"fmt"
	"reflect"
	"sort"

	valise "github.com/soratobu/valise"
	"github.com/soratobu/valise/i18n"
)

// SequenceValidator validates each element of a slice against an element
// validator. Strings and byte slices are not sequences here even though Go
// can range over them. Element failures are collected per index and the
// partial result carries the Failed sentinel at rejected positions.
type SequenceValidator struct {
	elem   valise.Validator
	minLen *int
	maxLen *int
	unique bool
	into   func([]any) any
}

// Sequence returns a validator applying elem to every element.
func Sequence(elem valise.Validator) *SequenceValidator {
	return &SequenceValidator{elem: elem}
}

// MinLen sets an inclusive minimum element count.
func (s *SequenceValidator) MinLen(n int) *SequenceValidator { s.minLen = &n; return s }

// MaxLen sets an inclusive maximum element count.
func (s *SequenceValidator) MaxLen(n int) *SequenceValidator { s.maxLen = &n; return s }

// Unique rejects sequences containing duplicate elements.
func (s *SequenceValidator) Unique() *SequenceValidator { s.unique = true; return s }

// Into converts a fully clean result through the given factory.
func (s *SequenceValidator) Into(f func([]any) any) *SequenceValidator { s.into = f; return s }

func (s *SequenceValidator) Validate(ctx context.Context, v any) (any, error) {
	if v == nil {
		return nil, nullIssue()
	}
	switch v.(type) {
	case string, []byte:
		return nil, valise.Issues{{Path: "/", Code: valise.CodeInvalidType, Message: i18n.T(valise.CodeInvalidType, nil), Hint: "expected sequence", Rule: "sequence"}}
	}
	items, ok := asSlice(v)
	if !ok {
		return nil, valise.Issues{{Path: "/", Code: valise.CodeInvalidType, Message: i18n.T(valise.CodeInvalidType, nil), Hint: "expected sequence", Rule: "sequence"}}
	}

	ctx, visit := valise.ContextVisit(ctx)
	leave, fresh := visit.Enter(v)
	if !fresh {
		return nil, valise.Issues{{Path: "/", Code: valise.CodeRecursiveRef, Message: i18n.T(valise.CodeRecursiveRef, nil), Rule: "sequence"}}
	}
	defer leave()

	var all valise.Issues
	if s.minLen != nil && len(items) < *s.minLen {
		all = append(all, valise.Issue{Path: "/", Code: valise.CodeTooShort, Message: i18n.T(valise.CodeTooShort, nil), Params: map[string]any{"min": *s.minLen, "got": len(items)}, Rule: "sequence"})
	}
	if s.maxLen != nil && len(items) > *s.maxLen {
		all = append(all, valise.Issue{Path: "/", Code: valise.CodeTooLong, Message: i18n.T(valise.CodeTooLong, nil), Params: map[string]any{"max": *s.maxLen, "got": len(items)}, Rule: "sequence"})
	}
	if len(all) > 0 && valise.IsFailFast(ctx) {
		return nil, all
	}

	out := make([]any, len(items))
	for i, item := range items {
		res, err := s.elem.Validate(ctx, item)
		if err != nil {
			all = valise.AppendIssues(all, valise.PrefixIssues("/"+itoa(i), err)...)
			out[i] = valise.Failed
			if valise.IsFailFast(ctx) {
				return out, all
			}
			continue
		}
		out[i] = res
	}

	if s.unique {
		all = valise.AppendIssues(all, checkUnique(out)...)
	}
	if len(all) > 0 {
		return out, all
	}
	if s.into != nil {
		return s.into(out), nil
	}
	return out, nil
}

// checkUnique flags each element that duplicates an earlier one. Comparable
// values go through a map; the rest fall back to pairwise DeepEqual.
func checkUnique(items []any) valise.Issues {
	var issues valise.Issues
	seen := map[any]int{}
	var odd []int
	for i, item := range items {
		if valise.IsFailed(item) {
			continue
		}
		if t := reflect.TypeOf(item); t != nil && !t.Comparable() {
			odd = append(odd, i)
			continue
		}
		if _, dup := seen[item]; dup {
			issues = append(issues, valise.Issue{Path: "/" + itoa(i), Code: valise.CodeUniqueness, Message: i18n.T(valise.CodeUniqueness, nil), Rule: "sequence"})
			continue
		}
		seen[item] = i
	}
	for k, i := range odd {
		for _, j := range odd[:k] {
			if reflect.DeepEqual(items[i], items[j]) {
				issues = append(issues, valise.Issue{Path: "/" + itoa(i), Code: valise.CodeUniqueness, Message: i18n.T(valise.CodeUniqueness, nil), Rule: "sequence"})
				break
			}
		}
	}
	return issues
}

func (s *SequenceValidator) Fingerprint() string {
	return fmt.Sprintf("sequence(%s,min=%s,max=%s,unique=%t)", s.elem.Fingerprint(), fmtIntBound(s.minLen), fmtIntBound(s.maxLen), s.unique)
}

// MappingValidator validates every key and value of a map. Per-entry failures
// on both sides are collected; key failures carry the "key" rule so they can
// be told apart from value failures under the same path. Entries are walked
// in a deterministic order.
type MappingValidator struct {
	key  valise.Validator
	val  valise.Validator
	into func(map[any]any) any
}

// Mapping returns a validator applying key and val to every entry.
func Mapping(key, val valise.Validator) *MappingValidator {
	return &MappingValidator{key: key, val: val}
}

// Into converts a fully clean result through the given factory.
func (m *MappingValidator) Into(f func(map[any]any) any) *MappingValidator { m.into = f; return m }

func (m *MappingValidator) Validate(ctx context.Context, v any) (any, error) {
	if v == nil {
		return nil, nullIssue()
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return nil, valise.Issues{{Path: "/", Code: valise.CodeInvalidType, Message: i18n.T(valise.CodeInvalidType, nil), Hint: "expected mapping", Rule: "mapping"}}
	}

	ctx, visit := valise.ContextVisit(ctx)
	leave, fresh := visit.Enter(v)
	if !fresh {
		return nil, valise.Issues{{Path: "/", Code: valise.CodeRecursiveRef, Message: i18n.T(valise.CodeRecursiveRef, nil), Rule: "mapping"}}
	}
	defer leave()

	type entry struct {
		key   any
		val   any
		label string
	}
	entries := make([]entry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := iter.Key().Interface()
		entries = append(entries, entry{key: k, val: iter.Value().Interface(), label: fmt.Sprint(k)})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].label < entries[j].label })

	var all valise.Issues
	out := make(map[any]any, len(entries))
	for _, e := range entries {
		clean := true
		k, err := m.key.Validate(ctx, e.key)
		if err != nil {
			for _, is := range valise.PrefixIssues("/"+e.label, err) {
				is.Rule = "key"
				all = append(all, is)
			}
			clean = false
		}
		val, err := m.val.Validate(ctx, e.val)
		if err != nil {
			all = valise.AppendIssues(all, valise.PrefixIssues("/"+e.label, err)...)
			clean = false
		}
		if !clean {
			if valise.IsFailFast(ctx) {
				return out, all
			}
			continue
		}
		out[k] = val
	}
	if len(all) > 0 {
		return out, all
	}
	if m.into != nil {
		return m.into(out), nil
	}
	return out, nil
}

func (m *MappingValidator) Fingerprint() string {
	return fmt.Sprintf("mapping(%s,%s)", m.key.Fingerprint(), m.val.Fingerprint())
}

// TupleValidator validates a fixed-arity sequence, pairing each position with
// its own validator. An arity mismatch is a precondition failure and no
// per-item validation runs.
type TupleValidator struct {
	items []valise.Validator
}

// Tuple returns a validator pairing each position with items[i].
func Tuple(items ...valise.Validator) *TupleValidator {
	return &TupleValidator{items: items}
}

func (t *TupleValidator) Validate(ctx context.Context, v any) (any, error) {
	if v == nil {
		return nil, nullIssue()
	}
	switch v.(type) {
	case string, []byte:
		return nil, valise.Issues{{Path: "/", Code: valise.CodeInvalidType, Message: i18n.T(valise.CodeInvalidType, nil), Hint: "expected tuple", Rule: "tuple"}}
	}
	items, ok := asSlice(v)
	if !ok {
		return nil, valise.Issues{{Path: "/", Code: valise.CodeInvalidType, Message: i18n.T(valise.CodeInvalidType, nil), Hint: "expected tuple", Rule: "tuple"}}
	}
	if len(items) != len(t.items) {
		return nil, valise.Issues{{Path: "/", Code: valise.CodeLengthMismatch, Message: i18n.T(valise.CodeLengthMismatch, nil), Params: map[string]any{"want": len(t.items), "got": len(items)}, Rule: "tuple"}}
	}

	var all valise.Issues
	out := make([]any, len(items))
	for i, item := range items {
		res, err := t.items[i].Validate(ctx, item)
		if err != nil {
			all = valise.AppendIssues(all, valise.PrefixIssues("/"+itoa(i), err)...)
			out[i] = valise.Failed
			if valise.IsFailFast(ctx) {
				return out, all
			}
			continue
		}
		out[i] = res
	}
	if len(all) > 0 {
		return out, all
	}
	return out, nil
}

func (t *TupleValidator) Fingerprint() string {
	return "tuple(" + joinFingerprints(t.items) + ")"
}
