package dsl_test

import (
	"context"
	"reflect"
	"testing"

	valise "github.com/soratobu/valise"
	d "github.com/soratobu/valise/dsl"
)

func TestSequence_Normalizes(t *testing.T) {
	ctx := context.Background()
	s := d.Sequence(d.Int())

	v, err := s.Validate(ctx, []any{2.0, 0, 10, 8})
	if err != nil {
		t.Fatalf("clean sequence: %v", err)
	}
	want := []any{int64(2), int64(0), int64(10), int64(8)}
	if !reflect.DeepEqual(v, want) {
		t.Fatalf("normalized elements, got %v", v)
	}
}

func TestSequence_CollectsPerIndex(t *testing.T) {
	ctx := context.Background()
	s := d.Sequence(d.AllOf(d.Int(), d.Between().Min(0).Max(10)))

	res, err := s.Validate(ctx, []any{-2, "s", 7, 11})
	iss := mustIssues(t, err)
	if len(iss) != 3 {
		t.Fatalf("expected 3 issues, got %v", iss)
	}
	wantPaths := []string{"/0/1", "/1/0", "/3/1"}
	for i, is := range iss {
		if is.Path != wantPaths[i] {
			t.Fatalf("paths %v, got %v", wantPaths, iss)
		}
	}

	partial, ok := res.([]any)
	if !ok {
		t.Fatalf("partial result expected, got %T", res)
	}
	if !valise.IsFailed(partial[0]) || !valise.IsFailed(partial[1]) || !valise.IsFailed(partial[3]) {
		t.Fatalf("rejected positions carry the Failed sentinel, got %v", partial)
	}
	if partial[2] != int64(7) {
		t.Fatalf("clean position survives, got %v", partial[2])
	}
}

func TestSequence_RejectsStrings(t *testing.T) {
	ctx := context.Background()
	s := d.Sequence(d.Anything())

	_, err := s.Validate(ctx, "abc")
	wantCode(t, err, valise.CodeInvalidType)
	_, err = s.Validate(ctx, []byte("abc"))
	wantCode(t, err, valise.CodeInvalidType)
}

func TestSequence_BoundsAndUnique(t *testing.T) {
	ctx := context.Background()

	_, err := d.Sequence(d.Anything()).MinLen(2).Validate(ctx, []any{1})
	wantCode(t, err, valise.CodeTooShort)
	_, err = d.Sequence(d.Anything()).MaxLen(1).Validate(ctx, []any{1, 2})
	wantCode(t, err, valise.CodeTooLong)

	_, err = d.Sequence(d.Anything()).Unique().Validate(ctx, []any{1, 2, 1})
	iss := wantCode(t, err, valise.CodeUniqueness)
	if iss[0].Path != "/2" {
		t.Fatalf("duplicate flagged at its index, got %v", iss)
	}
}

func TestSequence_Into(t *testing.T) {
	ctx := context.Background()
	s := d.Sequence(d.Int()).Into(func(items []any) any { return len(items) })

	v, err := s.Validate(ctx, []any{1, 2, 3})
	if err != nil || v != 3 {
		t.Fatalf("factory applied: v=%v err=%v", v, err)
	}

	// factory is skipped when the result is dirty
	res, err := s.Validate(ctx, []any{1, "x"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if _, ok := res.([]any); !ok {
		t.Fatalf("dirty result stays a slice, got %T", res)
	}
}

func TestSequence_Recursion(t *testing.T) {
	ctx := context.Background()
	outer := []any{nil}
	outer[0] = outer

	_, err := d.Sequence(d.Sequence(d.Anything())).Validate(ctx, outer)
	iss := mustIssues(t, err)
	found := false
	for _, is := range iss {
		if is.Code == valise.CodeRecursiveRef {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected recursive_ref, got %v", iss)
	}
}

func TestMapping_KeysAndValues(t *testing.T) {
	ctx := context.Background()
	m := d.Mapping(d.String().MinLen(2), d.Int())

	v, err := m.Validate(ctx, map[string]any{"ab": 1, "cd": 2.0})
	if err != nil {
		t.Fatalf("clean mapping: %v", err)
	}
	got, ok := v.(map[any]any)
	if !ok || got["ab"] != int64(1) || got["cd"] != int64(2) {
		t.Fatalf("normalized entries, got %v", v)
	}

	_, err = m.Validate(ctx, map[string]any{"x": 1, "ok": "nope"})
	iss := mustIssues(t, err)
	if len(iss) != 2 {
		t.Fatalf("both sides reported, got %v", iss)
	}
	// deterministic order: "ok" sorts before "x"; key failures carry the key rule
	if iss[0].Path != "/ok" || iss[0].Rule == "key" {
		t.Fatalf("value failure first, got %v", iss)
	}
	if iss[1].Path != "/x" || iss[1].Rule != "key" {
		t.Fatalf("key failure tagged, got %v", iss)
	}
}

func TestMapping_NonStringKeys(t *testing.T) {
	ctx := context.Background()
	m := d.Mapping(d.Int(), d.String())

	v, err := m.Validate(ctx, map[int]any{1: "a", 2: "b"})
	if err != nil {
		t.Fatalf("int keys: %v", err)
	}
	got := v.(map[any]any)
	if got[int64(1)] != "a" || got[int64(2)] != "b" {
		t.Fatalf("normalized keys, got %v", got)
	}
}

func TestTuple_ArityFirst(t *testing.T) {
	ctx := context.Background()
	s := d.Tuple(d.String(), d.Int(), d.Bool())

	v, err := s.Validate(ctx, []any{"a", 1, true})
	if err != nil {
		t.Fatalf("clean tuple: %v", err)
	}
	if got := v.([]any); got[1] != int64(1) {
		t.Fatalf("per-position validation, got %v", got)
	}

	// arity mismatch short-circuits item validation
	_, err = s.Validate(ctx, []any{"a", "not-int"})
	iss := wantCode(t, err, valise.CodeLengthMismatch)
	if len(iss) != 1 || iss[0].Path != "/" {
		t.Fatalf("arity reported alone at root, got %v", iss)
	}

	_, err = s.Validate(ctx, []any{1, "x", true})
	iss = mustIssues(t, err)
	if iss[0].Path != "/0" || iss[1].Path != "/1" {
		t.Fatalf("item paths, got %v", iss)
	}
}
