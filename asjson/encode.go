package asjson

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	j "github.com/goccy/go-json"

	valise "github.com/soratobu/valise"
	"github.com/soratobu/valise/i18n"
)

// Encoder turns arbitrary values into JSON-ready structures: scalars, maps
// with string keys, slices, and envelopes for registered types. Containers
// that refer back to themselves are replaced with a recursion marker instead
// of looping.
type Encoder struct {
	codecs *Codecs
	visit  valise.Visit
}

// Encode converts v into a structure json.Marshal can serialize directly.
func Encode(v any) (any, error) { return Default().NewEncoder().Encode(v) }

// Marshal encodes v and serializes the result.
func Marshal(v any) ([]byte, error) {
	enc, err := Encode(v)
	if err != nil {
		return nil, err
	}
	return j.Marshal(enc)
}

func (e *Encoder) Encode(v any) (any, error) {
	switch t := v.(type) {
	case nil, bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return v, nil
	case json.Number:
		return t, nil
	case map[string]any:
		return e.encodeStringMap(t)
	case []any:
		return e.encodeSlice(t)
	}

	entry, ok := e.codecs.resolveEncoder(v)
	if !ok {
		return nil, valise.Issues{{
			Path:    "/",
			Code:    valise.CodeUnregisteredType,
			Message: i18n.T(valise.CodeUnregisteredType, nil),
			Params:  map[string]any{"type": fmt.Sprintf("%T", v)},
		}}
	}

	leave, fresh := e.visit.Enter(v)
	if !fresh {
		return map[string]any{RecursiveKey: true}, nil
	}
	defer leave()

	data, err := entry.enc(e, v)
	if err != nil {
		if iss, ok := valise.AsIssues(err); ok {
			return nil, iss
		}
		return nil, valise.Issues{{
			Path:    "/",
			Code:    valise.CodeEncodeError,
			Message: i18n.T(valise.CodeEncodeError, nil),
			Cause:   err,
			Params:  map[string]any{"type": fmt.Sprintf("%T", v)},
		}}
	}
	return envelope(entry.tag, data, nil), nil
}

func (e *Encoder) encodeStringMap(m map[string]any) (any, error) {
	leave, fresh := e.visit.Enter(m)
	if !fresh {
		return map[string]any{RecursiveKey: true}, nil
	}
	defer leave()

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]any, len(m))
	var all valise.Issues
	for _, k := range keys {
		enc, err := e.Encode(m[k])
		if err != nil {
			all = valise.AppendIssues(all, valise.PrefixIssues("/"+k, err)...)
			continue
		}
		out[escapeKey(k)] = enc
	}
	if len(all) > 0 {
		return nil, all
	}
	return out, nil
}

func (e *Encoder) encodeSlice(s []any) (any, error) {
	leave, fresh := e.visit.Enter(s)
	if !fresh {
		return map[string]any{RecursiveKey: true}, nil
	}
	defer leave()

	out := make([]any, len(s))
	var all valise.Issues
	for i, item := range s {
		enc, err := e.Encode(item)
		if err != nil {
			all = valise.AppendIssues(all, valise.PrefixIssues("/"+itoa(i), err)...)
			continue
		}
		out[i] = enc
	}
	if len(all) > 0 {
		return nil, all
	}
	return out, nil
}

func itoa(i int) string { return strconv.Itoa(i) }
