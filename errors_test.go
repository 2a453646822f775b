package valise_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	valise "github.com/soratobu/valise"
)

func TestIssues_ErrorString(t *testing.T) {
	iss := valise.Issues{
		{Path: "/a", Code: valise.CodeRequired},
		{Path: "/b", Code: valise.CodeInvalidType},
	}
	msg := iss.Error()
	if !strings.Contains(msg, "required at /a") || !strings.Contains(msg, "invalid_type at /b") {
		t.Fatalf("error string, got %q", msg)
	}
}

func TestAsIssues(t *testing.T) {
	var err error = valise.Issues{{Path: "/", Code: valise.CodeParseError}}
	iss, ok := valise.AsIssues(err)
	if !ok || len(iss) != 1 {
		t.Fatalf("direct Issues, got %v %v", iss, ok)
	}

	wrapped := fmt.Errorf("context: %w", err)
	if _, ok := valise.AsIssues(wrapped); !ok {
		t.Fatalf("wrapped Issues must unwrap")
	}

	if _, ok := valise.AsIssues(errors.New("plain")); ok {
		t.Fatalf("plain error is not Issues")
	}
}

func TestPrefixIssues_Rebase(t *testing.T) {
	child := valise.Issues{
		{Path: "/", Code: valise.CodeTooSmall},
		{Path: "/inner", Code: valise.CodeRequired},
	}
	out := valise.PrefixIssues("/field", child)
	if out[0].Path != "/field" {
		t.Fatalf("root child rebases to the prefix, got %q", out[0].Path)
	}
	if out[1].Path != "/field/inner" {
		t.Fatalf("nested child appends, got %q", out[1].Path)
	}
}

func TestPrefixIssues_WrapsForeignErrors(t *testing.T) {
	out := valise.PrefixIssues("/field", errors.New("boom"))
	if len(out) != 1 || out[0].Code != valise.CodeParseError || out[0].Path != "/field" {
		t.Fatalf("foreign error wrapped, got %v", out)
	}
	if out[0].Cause == nil {
		t.Fatalf("cause preserved")
	}
}
