package valise

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType    = "invalid_type"
	CodeCoercionFailed = "coercion_failed"
	CodeRequired       = "required"
	CodeUnknownKey     = "unknown_key"
	CodeTooSmall       = "too_small"
	CodeTooBig         = "too_big"
	CodeTooShort       = "too_short"
	CodeTooLong        = "too_long"
	CodeLengthMismatch = "length_mismatch"
	CodePattern        = "pattern"
	CodeNotInChoices   = "not_in_choices"
	CodeInExcluded     = "in_excluded"
	CodeNotANumber     = "not_a_number"
	CodeNotFinite      = "not_finite"
	CodeNullValue      = "null_value"
	CodeDecodeFailed   = "decode_failed"
	CodeOnlyOne        = "only_one"
	CodeNoneOf         = "none_of"
	CodeUniqueness     = "uniqueness"
	CodeRecursiveRef   = "recursive_ref"
	CodeParseError     = "parse_error"
	// Serialization registry (asjson)
	CodeUnregisteredType = "unregistered_type"
	CodeUnknownTag       = "unknown_tag"
	CodeEncodeError      = "encode_error"
	CodeDecodeError      = "decode_error"
	CodeDuplicateCodec   = "duplicate_codec"
)

// Issue represents a single validation or serialization failure.
type Issue struct {
	Path    string // JSON Pointer (for example: /items/2/price).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, format names, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"min":1, "max":10, "got":42})
	// for i18n and observability.
	Params map[string]any
	// Rule optionally records the validator kind that produced this issue.
	Rule string
}

// Issues is a collection of failures that implements error. Iteration order is
// evaluation order, so reports are stable and reproducible.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_type at /path
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// PrefixIssues rebases the issues carried by err under the given path segment.
// Containers use it to attribute child failures to their index or key. Errors
// that are not Issues are wrapped as a single parse_error at the base path.
func PrefixIssues(base string, err error) Issues {
	if err == nil {
		return nil
	}
	child, ok := AsIssues(err)
	if !ok {
		return Issues{{Path: base, Code: CodeParseError, Message: err.Error(), Cause: err}}
	}
	out := make(Issues, 0, len(child))
	for _, it := range child {
		p := it.Path
		switch {
		case p == "" || p == "/":
			p = base
		case p[0] == '/':
			p = base + p
		default:
			p = base + "/" + p
		}
		it.Path = p
		out = append(out, it)
	}
	return out
}
