package asjson

import (
	"bytes"
	"io"

	j "github.com/goccy/go-json"

	valise "github.com/soratobu/valise"
	"github.com/soratobu/valise/i18n"
)

// Recursive is the sentinel substituted where the wire form carried a
// recursion marker. The original self-reference cannot be rebuilt, so the
// decoder surfaces the placeholder instead.
var Recursive = valise.NewSentinel("recursive")

// Decoder rebuilds values from their JSON-ready form. Envelopes are resolved
// through the registry; everything else is returned structurally unchanged.
type Decoder struct {
	codecs *Codecs
}

// Decode converts a JSON-ready structure back into the registered Go values.
func Decode(v any) (any, error) { return Default().NewDecoder().Decode(v) }

// Unmarshal parses JSON data and decodes the result. Numbers are kept as
// json.Number so integer payloads survive the round trip.
func Unmarshal(data []byte) (any, error) {
	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, valise.Issues{{Path: "/", Code: valise.CodeParseError, Message: err.Error(), Cause: err}}
	}
	if err := checkEOF(dec); err != nil {
		return nil, err
	}
	return Decode(v)
}

func checkEOF(dec *j.Decoder) error {
	var extra any
	if err := dec.Decode(&extra); err != io.EOF {
		return valise.Issues{{Path: "/", Code: valise.CodeParseError, Message: "trailing data after JSON value"}}
	}
	return nil
}

func (d *Decoder) Decode(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		if IsRecursiveMarker(t) {
			return Recursive, nil
		}
		if IsEnvelope(t) {
			return d.decodeEnvelope(t)
		}
		return d.decodeStringMap(t)
	case []any:
		out := make([]any, len(t))
		var all valise.Issues
		for i, item := range t {
			dec, err := d.Decode(item)
			if err != nil {
				all = valise.AppendIssues(all, valise.PrefixIssues("/"+itoa(i), err)...)
				continue
			}
			out[i] = dec
		}
		if len(all) > 0 {
			return nil, all
		}
		return out, nil
	default:
		return v, nil
	}
}

func (d *Decoder) decodeEnvelope(m map[string]any) (any, error) {
	tag, ok := tagOf(m)
	if !ok {
		return nil, valise.Issues{{Path: "/", Code: valise.CodeUnknownTag, Message: i18n.T(valise.CodeUnknownTag, nil), Hint: "malformed type tag"}}
	}
	entry, ok := d.codecs.resolveTag(tag)
	if !ok {
		return nil, valise.Issues{{
			Path:    "/",
			Code:    valise.CodeUnknownTag,
			Message: i18n.T(valise.CodeUnknownTag, nil),
			Params:  map[string]any{"tag": tag.String()},
		}}
	}
	out, err := entry.dec(d, m[DataKey])
	if err != nil {
		if iss, ok := valise.AsIssues(err); ok {
			return nil, iss
		}
		return nil, valise.Issues{{
			Path:    "/",
			Code:    valise.CodeDecodeError,
			Message: i18n.T(valise.CodeDecodeError, nil),
			Cause:   err,
			Params:  map[string]any{"tag": tag.String()},
		}}
	}
	return out, nil
}

func (d *Decoder) decodeStringMap(m map[string]any) (any, error) {
	out := make(map[string]any, len(m))
	var all valise.Issues
	for k, raw := range m {
		dec, err := d.Decode(raw)
		if err != nil {
			all = valise.AppendIssues(all, valise.PrefixIssues("/"+k, err)...)
			continue
		}
		key, _ := unescapeKey(k)
		out[key] = dec
	}
	if len(all) > 0 {
		return nil, all
	}
	return out, nil
}
