package valise

// Sentinel is a distinguishable singleton marker value. Sentinels compare by
// identity, so two sentinels are equal only if they are the same object, and
// a sentinel never equals any ordinary value.
type Sentinel struct{ name string }

// NewSentinel creates a named sentinel.
func NewSentinel(name string) *Sentinel { return &Sentinel{name: name} }

func (s *Sentinel) String() string { return "<" + s.name + ">" }

var (
	// Missing marks a value that was absent from the input, as opposed to
	// present with a nil value.
	Missing = NewSentinel("missing")
	// Failed is the placeholder inserted into a best-effort container result
	// at the position of an item that failed validation.
	Failed = NewSentinel("failed")
)

// IsMissing reports whether v is the Missing sentinel.
func IsMissing(v any) bool { return v == any(Missing) }

// IsFailed reports whether v is the Failed sentinel.
func IsFailed(v any) bool { return v == any(Failed) }
