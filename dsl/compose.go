package dsl

import (
	"context"
	"fmt"
	"strings"

	valise "github.com/soratobu/valise"
	"github.com/soratobu/valise/i18n"
)

// AllOf runs validators as a pipeline, each step receiving the previous
// step's output. The first failing step ends the pipeline; its issues are
// reported under a "/<index>" prefix so the caller can tell which stage
// rejected the value. With CollectAll the remaining steps still run against
// the last successfully produced value and every failure is aggregated.
func AllOf(steps ...valise.Validator) *AllOfValidator {
	return &AllOfValidator{steps: steps}
}

type AllOfValidator struct {
	steps      []valise.Validator
	collectAll bool
}

// CollectAll keeps running later steps after a failure instead of stopping.
func (a *AllOfValidator) CollectAll() *AllOfValidator {
	a.collectAll = true
	return a
}

func (a *AllOfValidator) Validate(ctx context.Context, v any) (any, error) {
	cur := v
	var all valise.Issues
	for i, step := range a.steps {
		out, err := step.Validate(ctx, cur)
		if err != nil {
			all = valise.AppendIssues(all, valise.PrefixIssues("/"+itoa(i), err)...)
			if !a.collectAll || valise.IsFailFast(ctx) {
				return cur, all
			}
			continue
		}
		cur = out
	}
	if len(all) > 0 {
		return cur, all
	}
	return cur, nil
}

func (a *AllOfValidator) Fingerprint() string {
	return fmt.Sprintf("allof(collect=%t,%s)", a.collectAll, joinFingerprints(a.steps))
}

// AnyOf accepts a value when at least one alternative accepts it. Alternatives
// are tried in order against the original input, and the first success wins.
// When every alternative rejects, the child errors of all of them are
// reported in order, each under its alternative's index.
func AnyOf(alts ...valise.Validator) valise.Validator {
	return &anyOfValidator{alts: alts}
}

type anyOfValidator struct {
	alts []valise.Validator
}

func (a *anyOfValidator) Validate(ctx context.Context, v any) (any, error) {
	var all valise.Issues
	for i, alt := range a.alts {
		out, err := alt.Validate(ctx, v)
		if err == nil {
			return out, nil
		}
		all = valise.AppendIssues(all, valise.PrefixIssues("/"+itoa(i), err)...)
	}
	return nil, all
}

func (a *anyOfValidator) Fingerprint() string {
	return "anyof(" + joinFingerprints(a.alts) + ")"
}

// OnlyOneOf requires exactly one alternative to accept the value. Zero or
// multiple acceptances are both rejections.
func OnlyOneOf(alts ...valise.Validator) valise.Validator {
	return &onlyOneValidator{alts: alts}
}

type onlyOneValidator struct {
	alts []valise.Validator
}

func (o *onlyOneValidator) Validate(ctx context.Context, v any) (any, error) {
	var out any
	matched := 0
	for _, alt := range o.alts {
		res, err := alt.Validate(ctx, v)
		if err == nil {
			matched++
			if matched == 1 {
				out = res
			}
		}
	}
	if matched != 1 {
		return nil, valise.Issues{{Path: "/", Code: valise.CodeOnlyOne, Message: i18n.T(valise.CodeOnlyOne, nil), Params: map[string]any{"matched": matched}, Rule: "onlyoneof"}}
	}
	return out, nil
}

func (o *onlyOneValidator) Fingerprint() string {
	return "onlyoneof(" + joinFingerprints(o.alts) + ")"
}

// NotAnyOf rejects a value when any alternative accepts it. The original
// value passes through unchanged on success.
func NotAnyOf(alts ...valise.Validator) valise.Validator {
	return &noneOfValidator{alts: alts}
}

type noneOfValidator struct {
	alts []valise.Validator
}

func (n *noneOfValidator) Validate(ctx context.Context, v any) (any, error) {
	for i, alt := range n.alts {
		if _, err := alt.Validate(ctx, v); err == nil {
			return nil, valise.Issues{{Path: "/", Code: valise.CodeNoneOf, Message: i18n.T(valise.CodeNoneOf, nil), Params: map[string]any{"matched": i}, Rule: "notanyof"}}
		}
	}
	return v, nil
}

func (n *noneOfValidator) Fingerprint() string {
	return "notanyof(" + joinFingerprints(n.alts) + ")"
}

func joinFingerprints(vs []valise.Validator) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.Fingerprint()
	}
	return strings.Join(parts, ",")
}
