package valise_test

import (
	"errors"
	"sort"
	"testing"

	valise "github.com/soratobu/valise"
)

func TestRegistry_RejectsDuplicates(t *testing.T) {
	r := valise.NewRegistry[string, int]("test")

	if err := r.Register("a", 1); err != nil {
		t.Fatalf("first register: %v", err)
	}
	err := r.Register("a", 2)
	if !errors.Is(err, valise.ErrDuplicateEntry) {
		t.Fatalf("expected ErrDuplicateEntry, got %v", err)
	}

	// the original entry survives the rejected overwrite
	v, ok := r.Resolve("a")
	if !ok || v != 1 {
		t.Fatalf("resolve after duplicate: v=%v ok=%v", v, ok)
	}
}

func TestRegistry_ResolveAndKeys(t *testing.T) {
	r := valise.NewRegistry[string, string]("test")
	r.MustRegister("x", "1")
	r.MustRegister("y", "2")

	if _, ok := r.Resolve("z"); ok {
		t.Fatalf("missing key must not resolve")
	}
	if r.Len() != 2 {
		t.Fatalf("len, got %d", r.Len())
	}
	keys := r.Keys()
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "x" || keys[1] != "y" {
		t.Fatalf("keys, got %v", keys)
	}
}

func TestRegistry_MustRegisterPanics(t *testing.T) {
	r := valise.NewRegistry[string, int]("test")
	r.MustRegister("a", 1)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on duplicate")
		}
	}()
	r.MustRegister("a", 2)
}
