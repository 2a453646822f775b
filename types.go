package valise

import "context"

// UnknownPolicy controls how object schemas handle keys absent from the
// field table.
type UnknownPolicy int

const (
	UnknownStrict      UnknownPolicy = iota // Reject unknown keys with an error.
	UnknownStrip                            // Drop unknown keys.
	UnknownPassthrough                      // Preserve unknown keys unchanged.
)

// ValidateOpt bundles options for the Parse* entry points.
type ValidateOpt struct {
	// FailFast stops container validators at the first issue instead of
	// aggregating every failure.
	FailFast bool
}

// ---- Validation-time context options (exported for subpackages) ----

type contextKey int

const (
	_ctxKeyFailFast contextKey = iota
	_ctxKeyVisit
)

// WithFailFast returns a child context that marks fail-fast behavior. It is
// set by the Parse* entry points based on ValidateOpt and consumed by
// container validators.
func WithFailFast(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, _ctxKeyFailFast, enabled)
}

// IsFailFast reports whether the current validation should stop on the first
// issue.
func IsFailFast(ctx context.Context) bool {
	v := ctx.Value(_ctxKeyFailFast)
	b, _ := v.(bool)
	return b
}
