package asjson

import "strings"

// Wire markers used by the envelope format. A value whose JSON form is an
// object carrying TypeKey and DataKey is an envelope; everything else passes
// through untouched.
const (
	TypeKey      = "__type__"
	DataKey      = "__data__"
	MetaKey      = "__meta__"
	RecursiveKey = "__recursive__"

	// syntheticPrefix marks map keys synthesized for non-string keys. Real
	// string keys that happen to start with the prefix are escaped by
	// doubling it.
	syntheticPrefix = "__nskey__:"
)

// Tag identifies a registered codec on the wire.
type Tag struct {
	Module   string `json:"module"`
	Qualname string `json:"qualname"`
}

func (t Tag) String() string {
	if t.Module == "" {
		return t.Qualname
	}
	return t.Module + "." + t.Qualname
}

// IsEnvelope reports whether v is a decoded envelope object.
func IsEnvelope(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	_, hasType := m[TypeKey]
	_, hasData := m[DataKey]
	return hasType && hasData
}

// IsRecursiveMarker reports whether v is the placeholder emitted for a value
// that referred back to one of its own containers during encoding.
func IsRecursiveMarker(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	r, ok := m[RecursiveKey].(bool)
	return ok && r
}

func envelope(tag Tag, data any, meta map[string]any) map[string]any {
	out := map[string]any{
		TypeKey: map[string]any{"module": tag.Module, "qualname": tag.Qualname},
		DataKey: data,
	}
	if len(meta) > 0 {
		out[MetaKey] = meta
	}
	return out
}

func tagOf(v any) (Tag, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return Tag{}, false
	}
	t, ok := m[TypeKey].(map[string]any)
	if !ok {
		return Tag{}, false
	}
	mod, _ := t["module"].(string)
	qual, ok := t["qualname"].(string)
	if !ok {
		return Tag{}, false
	}
	return Tag{Module: mod, Qualname: qual}, true
}

func escapeKey(k string) string {
	if strings.HasPrefix(k, syntheticPrefix) {
		return syntheticPrefix + k
	}
	return k
}

func unescapeKey(k string) (string, bool) {
	if !strings.HasPrefix(k, syntheticPrefix) {
		return k, false
	}
	rest := strings.TrimPrefix(k, syntheticPrefix)
	if strings.HasPrefix(rest, syntheticPrefix) {
		return rest, false
	}
	return rest, true
}
