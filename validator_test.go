package valise_test

import (
	"context"
	"reflect"
	"testing"

	valise "github.com/soratobu/valise"
	d "github.com/soratobu/valise/dsl"
)

type temperature float64

func TestValidatorFor_TypeResolution(t *testing.T) {
	if err := valise.RegisterType(reflect.TypeOf(float64(0)), func() valise.Validator { return d.Float() }); err != nil {
		t.Fatalf("register: %v", err)
	}

	v, ok := valise.ValidatorFor(1.5)
	if !ok {
		t.Fatalf("exact type must resolve")
	}
	if _, err := v.Validate(context.Background(), 1.5); err != nil {
		t.Fatalf("resolved validator: %v", err)
	}

	// defined types fall through to their kind-compatible ancestor
	if _, ok := valise.ValidatorFor(temperature(36.6)); !ok {
		t.Fatalf("defined type must resolve through conversion")
	}

	if _, ok := valise.ValidatorFor(struct{ X int }{}); ok {
		t.Fatalf("unregistered type must not resolve")
	}
	if _, ok := valise.ValidatorFor(nil); ok {
		t.Fatalf("nil must not resolve")
	}
}

type alphaKind string

type betaKind string

type gammaKind string

func TestValidatorFor_ConvertibleWinnerIsStable(t *testing.T) {
	if err := valise.RegisterType(reflect.TypeOf(alphaKind("")), func() valise.Validator { return d.LengthExactly(1) }); err != nil {
		t.Fatalf("register alpha: %v", err)
	}
	if err := valise.RegisterType(reflect.TypeOf(betaKind("")), func() valise.Validator { return d.LengthExactly(2) }); err != nil {
		t.Fatalf("register beta: %v", err)
	}

	// gammaKind converts to both registered string kinds; resolution walks
	// candidates in sorted type-name order, so alphaKind wins on every call
	want := d.LengthExactly(1).Fingerprint()
	for i := 0; i < 8; i++ {
		v, ok := valise.ValidatorFor(gammaKind("x"))
		if !ok {
			t.Fatalf("must resolve through conversion")
		}
		if v.Fingerprint() != want {
			t.Fatalf("unstable winner: got %q, want %q", v.Fingerprint(), want)
		}
	}
}

func TestFingerprint_StructuralEquality(t *testing.T) {
	a := d.Int().Min(1).Max(9)
	b := d.Int().Min(1).Max(9)
	c := d.Int().Min(2).Max(9)

	if a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("same parameters, same fingerprint: %q vs %q", a.Fingerprint(), b.Fingerprint())
	}
	if a.Fingerprint() == c.Fingerprint() {
		t.Fatalf("different parameters must differ: %q", a.Fingerprint())
	}

	// fingerprints work as cache keys
	cache := map[string]valise.Validator{}
	cache[a.Fingerprint()] = a
	if cache[b.Fingerprint()] != valise.Validator(a) {
		t.Fatalf("fingerprint lookup")
	}
}
