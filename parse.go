package valise

import (
	"bytes"
	"context"
	"io"

	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ParseJSON decodes a JSON document with go-json (numbers preserved as
// json.Number) and validates the result. Malformed input surfaces as a
// parse_error issue, never a raw decoder error.
func ParseJSON(ctx context.Context, val Validator, data []byte, opts ...ValidateOpt) (any, error) {
	return ParseJSONReader(ctx, val, bytes.NewReader(data), opts...)
}

// ParseJSONReader is like ParseJSON but consumes an io.Reader.
func ParseJSONReader(ctx context.Context, val Validator, r io.Reader, opts ...ValidateOpt) (any, error) {
	if val == nil {
		return nil, Issues{{Path: "/", Code: CodeParseError, Message: "nil validator"}}
	}
	ctx = applyOpt(ctx, opts)
	dec := j.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, Issues{{Path: "/", Code: CodeParseError, Message: err.Error(), Cause: err}}
	}
	if err := dec.Decode(new(any)); err != io.EOF {
		return nil, Issues{{Path: "/", Code: CodeParseError, Message: "trailing data after JSON value"}}
	}
	return val.Validate(ctx, v)
}

// ParseYAML decodes a YAML document and validates the result. Mappings arrive
// as map[string]any, so object schemas work unchanged across both sources.
func ParseYAML(ctx context.Context, val Validator, data []byte, opts ...ValidateOpt) (any, error) {
	if val == nil {
		return nil, Issues{{Path: "/", Code: CodeParseError, Message: "nil validator"}}
	}
	ctx = applyOpt(ctx, opts)
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, Issues{{Path: "/", Code: CodeParseError, Message: err.Error(), Cause: err}}
	}
	return val.Validate(ctx, v)
}

func applyOpt(ctx context.Context, opts []ValidateOpt) context.Context {
	if len(opts) == 0 {
		return ctx
	}
	opt := opts[len(opts)-1]
	if opt.FailFast {
		ctx = WithFailFast(ctx, true)
	}
	return ctx
}
