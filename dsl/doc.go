// Package dsl provides the validator construction surface for valise.
//
// Validators are composed fluently:
//
//	schema := dsl.Object().
//	    Field("name", dsl.String().MinLen(1)).Required().
//	    Field("port", dsl.Int().Min(1).Max(65535)).Default(8080).
//	    UnknownStrict().
//	    MustBuild()
//
// Every constructor returns a value implementing valise.Validator. Validation
// collects all issues by default; wrap the context with valise.WithFailFast
// to stop at the first one.
package dsl
