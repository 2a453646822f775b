package dsl

import (
	"context"

	"github.com/mitchellh/mapstructure"

	valise "github.com/soratobu/valise"
	"github.com/soratobu/valise/i18n"
)

// Bind validates v against schema and decodes the clean result into T using
// json field tags. Validation issues are returned as-is; a decode failure
// after clean validation is reported as a decode error at the root.
func Bind[T any](ctx context.Context, schema valise.Validator, v any) (T, error) {
	var out T
	res, err := schema.Validate(ctx, v)
	if err != nil {
		return out, err
	}
	dec, derr := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		TagName:          "json",
		WeaklyTypedInput: false,
	})
	if derr != nil {
		return out, valise.Issues{{Path: "/", Code: valise.CodeDecodeError, Message: i18n.T(valise.CodeDecodeError, nil), Cause: derr, Rule: "bind"}}
	}
	if derr := dec.Decode(res); derr != nil {
		return out, valise.Issues{{Path: "/", Code: valise.CodeDecodeError, Message: i18n.T(valise.CodeDecodeError, nil), Cause: derr, Rule: "bind"}}
	}
	return out, nil
}
