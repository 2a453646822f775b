package i18n_test

import (
	"testing"

	"github.com/soratobu/valise/i18n"
)

func TestDictTranslator_Languages(t *testing.T) {
	i18n.SetLanguage("en")
	if got := i18n.T("required", nil); got != "required property missing" {
		t.Fatalf("en message, got %q", got)
	}

	i18n.SetLanguage("ja")
	if got := i18n.T("required", nil); got == "required property missing" || got == "required" {
		t.Fatalf("ja message expected, got %q", got)
	}
	i18n.SetLanguage("en")
}

func TestDictTranslator_UnknownCodeFallsBack(t *testing.T) {
	if got := i18n.T("no_such_code", nil); got != "no_such_code" {
		t.Fatalf("unknown code echoes, got %q", got)
	}
}

type fixedTranslator struct{}

func (fixedTranslator) Message(code string, _ map[string]string) string { return "always:" + code }

func TestSetTranslator(t *testing.T) {
	i18n.SetTranslator(fixedTranslator{})
	if got := i18n.T("required", nil); got != "always:required" {
		t.Fatalf("custom translator, got %q", got)
	}
	i18n.SetTranslator(nil)
	if got := i18n.T("required", nil); got != "required property missing" {
		t.Fatalf("nil resets to the dictionary, got %q", got)
	}
}
