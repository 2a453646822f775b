package dsl

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	valise "github.com/soratobu/valise"
	"github.com/soratobu/valise/i18n"
)

// StringValidator accepts string values, optionally decoding []byte input
// under a configured encoding first. Sub-checks run in a fixed order: choices,
// then length, then pattern. Lengths are measured in runes.
type StringValidator struct {
	encoding string
	choices  []string
	minLen   *int
	maxLen   *int
	exactLen *int
	pattern  *regexp.Regexp
}

// String returns a string validator.
func String() *StringValidator { return &StringValidator{} }

// Encoding sets the charset used to decode []byte input. Supported values are
// "utf-8" and "ascii".
func (s *StringValidator) Encoding(name string) *StringValidator {
	s.encoding = strings.ToLower(name)
	return s
}

// Choices restricts the value to the given set.
func (s *StringValidator) Choices(values ...string) *StringValidator {
	s.choices = values
	return s
}

// MinLen sets an inclusive minimum rune count.
func (s *StringValidator) MinLen(n int) *StringValidator { s.minLen = &n; return s }

// MaxLen sets an inclusive maximum rune count.
func (s *StringValidator) MaxLen(n int) *StringValidator { s.maxLen = &n; return s }

// Len requires an exact rune count.
func (s *StringValidator) Len(n int) *StringValidator { s.exactLen = &n; return s }

// Pattern requires the value to match a precompiled regexp.
func (s *StringValidator) Pattern(re *regexp.Regexp) *StringValidator {
	s.pattern = re
	return s
}

func (s *StringValidator) Validate(ctx context.Context, v any) (any, error) {
	if v == nil {
		return nil, nullIssue()
	}
	var str string
	switch t := v.(type) {
	case string:
		str = t
	case []byte:
		decoded, err := s.decode(t)
		if err != nil {
			return nil, valise.Issues{{Path: "/", Code: valise.CodeDecodeFailed, Message: i18n.T(valise.CodeDecodeFailed, nil), Cause: err, Params: map[string]any{"encoding": s.encoding}, Rule: "string"}}
		}
		str = decoded
	default:
		return nil, valise.Issues{{Path: "/", Code: valise.CodeInvalidType, Message: i18n.T(valise.CodeInvalidType, nil), Hint: "expected string", Rule: "string"}}
	}
	if len(s.choices) > 0 {
		ok := false
		for _, c := range s.choices {
			if str == c {
				ok = true
				break
			}
		}
		if !ok {
			return nil, valise.Issues{{Path: "/", Code: valise.CodeNotInChoices, Message: i18n.T(valise.CodeNotInChoices, nil), Params: map[string]any{"got": str, "choices": s.choices}, Rule: "string"}}
		}
	}
	n := utf8.RuneCountInString(str)
	if s.exactLen != nil && n != *s.exactLen {
		return nil, valise.Issues{{Path: "/", Code: valise.CodeLengthMismatch, Message: i18n.T(valise.CodeLengthMismatch, nil), Params: map[string]any{"want": *s.exactLen, "got": n}, Rule: "string"}}
	}
	if s.minLen != nil && n < *s.minLen {
		return nil, valise.Issues{{Path: "/", Code: valise.CodeTooShort, Message: i18n.T(valise.CodeTooShort, nil), Params: map[string]any{"min": *s.minLen, "got": n}, Rule: "string"}}
	}
	if s.maxLen != nil && n > *s.maxLen {
		return nil, valise.Issues{{Path: "/", Code: valise.CodeTooLong, Message: i18n.T(valise.CodeTooLong, nil), Params: map[string]any{"max": *s.maxLen, "got": n}, Rule: "string"}}
	}
	if s.pattern != nil && !s.pattern.MatchString(str) {
		return nil, valise.Issues{{Path: "/", Code: valise.CodePattern, Message: i18n.T(valise.CodePattern, nil), Params: map[string]any{"pattern": s.pattern.String(), "got": str}, Rule: "string"}}
	}
	return str, nil
}

func (s *StringValidator) decode(b []byte) (string, error) {
	switch s.encoding {
	case "", "utf-8", "utf8":
		if !utf8.Valid(b) {
			return "", fmt.Errorf("invalid utf-8 sequence")
		}
		return string(b), nil
	case "ascii":
		for i, c := range b {
			if c > 0x7f {
				return "", fmt.Errorf("non-ascii byte 0x%02x at offset %d", c, i)
			}
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("unsupported encoding %q", s.encoding)
	}
}

func (s *StringValidator) Fingerprint() string {
	var pat string
	if s.pattern != nil {
		pat = s.pattern.String()
	}
	return fmt.Sprintf("string(enc=%s,choices=%v,len=%s/%s/%s,pattern=%s)",
		s.encoding, s.choices, fmtIntBound(s.exactLen), fmtIntBound(s.minLen), fmtIntBound(s.maxLen), pat)
}

func fmtIntBound(b *int) string {
	if b == nil {
		return "-"
	}
	return itoa(*b)
}
