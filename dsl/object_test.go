package dsl_test

import (
	"context"
	"testing"

	valise "github.com/soratobu/valise"
	d "github.com/soratobu/valise/dsl"
)

func TestObject_DefaultsApply(t *testing.T) {
	ctx := context.Background()
	s := d.Object().
		Field("a", d.Int()).Required().
		Field("b", d.String()).Default("x").
		MustBuild()

	v, err := s.Validate(ctx, map[string]any{"a": 5})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	got := v.(map[string]any)
	if got["a"] != int64(5) || got["b"] != "x" {
		t.Fatalf("default filled in, got %v", got)
	}

	// present value overrides the default
	v, err = s.Validate(ctx, map[string]any{"a": 1, "b": "y"})
	if err != nil || v.(map[string]any)["b"] != "y" {
		t.Fatalf("override: v=%v err=%v", v, err)
	}
}

func TestObject_DefaultIsValidated(t *testing.T) {
	ctx := context.Background()
	s := d.Object().
		Field("n", d.Int().Min(10)).Default(3).
		MustBuild()

	_, err := s.Validate(ctx, map[string]any{})
	iss := wantCode(t, err, valise.CodeTooSmall)
	if iss[0].Path != "/n" {
		t.Fatalf("default failure at field path, got %v", iss)
	}
}

func TestObject_Required(t *testing.T) {
	ctx := context.Background()
	s := d.Object().
		Field("a", d.Int()).Required().
		Field("b", d.String()).
		MustBuild()

	_, err := s.Validate(ctx, map[string]any{"b": "ok"})
	iss := wantCode(t, err, valise.CodeRequired)
	if iss[0].Path != "/a" {
		t.Fatalf("required at field path, got %v", iss)
	}

	// optional absent field simply stays absent
	v, err := s.Validate(ctx, map[string]any{"a": 1})
	if err != nil {
		t.Fatalf("optional absent: %v", err)
	}
	if _, present := v.(map[string]any)["b"]; present {
		t.Fatalf("absent optional must not appear, got %v", v)
	}
}

func TestObject_UnknownPolicies(t *testing.T) {
	ctx := context.Background()
	in := map[string]any{"a": 1, "c": true}

	strict := d.Object().Field("a", d.Int()).MustBuild()
	_, err := strict.Validate(ctx, in)
	iss := wantCode(t, err, valise.CodeUnknownKey)
	if iss[0].Path != "/c" {
		t.Fatalf("unknown key path, got %v", iss)
	}

	strip := d.Object().Field("a", d.Int()).UnknownStrip().MustBuild()
	v, err := strip.Validate(ctx, in)
	if err != nil {
		t.Fatalf("strip: %v", err)
	}
	if _, present := v.(map[string]any)["c"]; present {
		t.Fatalf("stripped key must not appear, got %v", v)
	}

	pass := d.Object().Field("a", d.Int()).UnknownPassthrough().MustBuild()
	v, err = pass.Validate(ctx, in)
	if err != nil {
		t.Fatalf("passthrough: %v", err)
	}
	if v.(map[string]any)["c"] != true {
		t.Fatalf("passthrough keeps the key, got %v", v)
	}
}

func TestObject_AbsentVersusPresentNil(t *testing.T) {
	ctx := context.Background()
	s := d.Object().
		Field("a", d.Nullable(d.Int())).Required().
		Field("b", d.Int()).
		MustBuild()

	// absent required key: the partial result marks the hole with Missing
	res, err := s.Validate(ctx, map[string]any{"b": 1})
	wantCode(t, err, valise.CodeRequired)
	got := res.(map[string]any)
	if !valise.IsMissing(got["a"]) {
		t.Fatalf("absent key carries the Missing sentinel, got %v", got["a"])
	}
	if got["b"] != int64(1) {
		t.Fatalf("clean key survives, got %v", got)
	}

	// present with nil is not absent: the nullable field accepts it
	res, err = s.Validate(ctx, map[string]any{"a": nil, "b": 2})
	if err != nil {
		t.Fatalf("present nil: %v", err)
	}
	got = res.(map[string]any)
	if v, present := got["a"]; !present || v != nil || valise.IsMissing(v) {
		t.Fatalf("present nil stays nil, got %v", got)
	}
}

func TestObject_PartialResultOnFailure(t *testing.T) {
	ctx := context.Background()
	s := d.Object().
		Field("good", d.Int()).
		Field("bad", d.Int()).
		MustBuild()

	res, err := s.Validate(ctx, map[string]any{"good": 1, "bad": "x"})
	if err == nil {
		t.Fatalf("expected error")
	}
	got := res.(map[string]any)
	if got["good"] != int64(1) || !valise.IsFailed(got["bad"]) {
		t.Fatalf("partial result, got %v", got)
	}
}

func TestObject_FailFastStopsEarly(t *testing.T) {
	ctx := valise.WithFailFast(context.Background(), true)
	s := d.Object().
		Field("a", d.Int()).
		Field("b", d.Int()).
		MustBuild()

	_, err := s.Validate(ctx, map[string]any{"a": "x", "b": "y"})
	iss := mustIssues(t, err)
	if len(iss) != 1 {
		t.Fatalf("fail fast reports one issue, got %v", iss)
	}
}

func TestObject_BuildRejectsBadConfig(t *testing.T) {
	if _, err := d.Object().Require("ghost").Build(); err == nil {
		t.Fatalf("required without validator must fail")
	}
	b := d.Object().Field("a", d.Int()).Default(1).Require("a")
	if _, err := b.Build(); err == nil {
		t.Fatalf("required+default must fail")
	}
}

func TestObject_NotAMap(t *testing.T) {
	ctx := context.Background()
	s := d.Object().Field("a", d.Int()).MustBuild()

	_, err := s.Validate(ctx, []any{1})
	wantCode(t, err, valise.CodeInvalidType)
	_, err = s.Validate(ctx, nil)
	wantCode(t, err, valise.CodeNullValue)
}
