package dsl

import (
	"context"
	"fmt"
	"sort"
	"strings"

	valise "github.com/soratobu/valise"
	"github.com/soratobu/valise/i18n"
)

type objectBuilder struct {
	fields        map[string]valise.Validator
	defaults      map[string]func(context.Context) (any, error)
	required      map[string]struct{}
	unknownPolicy valise.UnknownPolicy
}

type fieldStep struct {
	b    *objectBuilder
	name string
}

// Object creates a new object builder with safe defaults (UnknownStrict).
func Object() *objectBuilder {
	return &objectBuilder{
		fields:        map[string]valise.Validator{},
		defaults:      map[string]func(context.Context) (any, error){},
		required:      map[string]struct{}{},
		unknownPolicy: valise.UnknownStrict,
	}
}

// Field registers a field with its validator.
func (b *objectBuilder) Field(name string, v valise.Validator) *fieldStep {
	b.fields[name] = v
	return &fieldStep{b: b, name: name}
}

// Required marks the field as required and returns the builder.
func (f *fieldStep) Required() *objectBuilder {
	f.b.required[f.name] = struct{}{}
	return f.b
}

// Optional marks the field as optional (default) and returns the builder.
func (f *fieldStep) Optional() *objectBuilder {
	delete(f.b.required, f.name)
	return f.b
}

// Default sets a default applied when the field is absent. The default passes
// through the field's validator, so an invalid default surfaces at use time.
func (f *fieldStep) Default(v any) *objectBuilder {
	fv := f.b.fields[f.name]
	f.b.defaults[f.name] = func(ctx context.Context) (any, error) { return fv.Validate(ctx, v) }
	return f.b
}

// DefaultFunc sets a computed default, evaluated on each absent occurrence.
func (f *fieldStep) DefaultFunc(fn func() any) *objectBuilder {
	fv := f.b.fields[f.name]
	f.b.defaults[f.name] = func(ctx context.Context) (any, error) { return fv.Validate(ctx, fn()) }
	return f.b
}

func (f *fieldStep) Require(names ...string) *objectBuilder  { return f.b.Require(names...) }
func (f *fieldStep) UnknownStrict() *objectBuilder           { return f.b.UnknownStrict() }
func (f *fieldStep) UnknownStrip() *objectBuilder            { return f.b.UnknownStrip() }
func (f *fieldStep) UnknownPassthrough() *objectBuilder      { return f.b.UnknownPassthrough() }
func (f *fieldStep) Field(name string, v valise.Validator) *fieldStep {
	return f.b.Field(name, v)
}
func (f *fieldStep) Build() (valise.Validator, error) { return f.b.Build() }
func (f *fieldStep) MustBuild() valise.Validator      { return f.b.MustBuild() }

// Require marks one or more fields as required.
func (b *objectBuilder) Require(names ...string) *objectBuilder {
	for _, n := range names {
		b.required[n] = struct{}{}
	}
	return b
}

// UnknownStrict rejects keys that no field declares.
func (b *objectBuilder) UnknownStrict() *objectBuilder {
	b.unknownPolicy = valise.UnknownStrict
	return b
}

// UnknownStrip silently drops undeclared keys.
func (b *objectBuilder) UnknownStrip() *objectBuilder {
	b.unknownPolicy = valise.UnknownStrip
	return b
}

// UnknownPassthrough keeps undeclared keys in the result unchanged.
func (b *objectBuilder) UnknownPassthrough() *objectBuilder {
	b.unknownPolicy = valise.UnknownPassthrough
	return b
}

// Build finishes the builder.
func (b *objectBuilder) Build() (valise.Validator, error) {
	for name := range b.required {
		if _, ok := b.fields[name]; !ok {
			return nil, fmt.Errorf("required field %q has no validator", name)
		}
	}
	for name := range b.defaults {
		if _, ok := b.required[name]; ok {
			return nil, fmt.Errorf("field %q cannot be both required and defaulted", name)
		}
	}
	return &objectValidator{
		fields:        b.fields,
		defaults:      b.defaults,
		required:      b.required,
		unknownPolicy: b.unknownPolicy,
	}, nil
}

// MustBuild finishes the builder and panics on configuration errors.
func (b *objectBuilder) MustBuild() valise.Validator {
	v, err := b.Build()
	if err != nil {
		panic(err)
	}
	return v
}

type objectValidator struct {
	fields        map[string]valise.Validator
	defaults      map[string]func(context.Context) (any, error)
	required      map[string]struct{}
	unknownPolicy valise.UnknownPolicy
}

func (o *objectValidator) Validate(ctx context.Context, v any) (any, error) {
	if v == nil {
		return nil, nullIssue()
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, valise.Issues{{Path: "/", Code: valise.CodeInvalidType, Message: i18n.T(valise.CodeInvalidType, nil), Hint: "expected object", Rule: "object"}}
	}

	ctx, visit := valise.ContextVisit(ctx)
	leave, fresh := visit.Enter(v)
	if !fresh {
		return nil, valise.Issues{{Path: "/", Code: valise.CodeRecursiveRef, Message: i18n.T(valise.CodeRecursiveRef, nil), Rule: "object"}}
	}
	defer leave()

	var all valise.Issues
	out := make(map[string]any, len(m))

	names := make([]string, 0, len(o.fields))
	for name := range o.fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fv := o.fields[name]
		raw, present := m[name]
		if !present {
			if def, hasDef := o.defaults[name]; hasDef {
				dv, err := def(ctx)
				if err != nil {
					all = valise.AppendIssues(all, valise.PrefixIssues("/"+name, err)...)
					out[name] = valise.Failed
					if valise.IsFailFast(ctx) {
						return out, all
					}
					continue
				}
				out[name] = dv
				continue
			}
			if _, req := o.required[name]; req {
				all = append(all, valise.Issue{Path: "/" + name, Code: valise.CodeRequired, Message: i18n.T(valise.CodeRequired, nil), Rule: "object"})
				// the partial result marks the hole: absent, not present-nil
				out[name] = valise.Missing
				if valise.IsFailFast(ctx) {
					return out, all
				}
			}
			continue
		}
		res, err := fv.Validate(ctx, raw)
		if err != nil {
			all = valise.AppendIssues(all, valise.PrefixIssues("/"+name, err)...)
			out[name] = valise.Failed
			if valise.IsFailFast(ctx) {
				return out, all
			}
			continue
		}
		out[name] = res
	}

	unknown := make([]string, 0)
	for k := range m {
		if _, known := o.fields[k]; !known {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	for _, k := range unknown {
		switch o.unknownPolicy {
		case valise.UnknownStrict:
			all = append(all, valise.Issue{Path: "/" + k, Code: valise.CodeUnknownKey, Message: i18n.T(valise.CodeUnknownKey, nil), Rule: "object"})
			if valise.IsFailFast(ctx) {
				return out, all
			}
		case valise.UnknownPassthrough:
			out[k] = m[k]
		}
	}

	if len(all) > 0 {
		return out, all
	}
	return out, nil
}

func (o *objectValidator) Fingerprint() string {
	names := make([]string, 0, len(o.fields))
	for name := range o.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		mark := ""
		if _, req := o.required[name]; req {
			mark = "!"
		}
		if _, def := o.defaults[name]; def {
			mark = "?"
		}
		parts[i] = name + mark + ":" + o.fields[name].Fingerprint()
	}
	return fmt.Sprintf("object(%s,unknown=%d)", strings.Join(parts, ","), o.unknownPolicy)
}
