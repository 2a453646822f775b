package valise

// Package valise provides:
//
// - Composable validation rules returning cleaned values or a structured
//   error tree (Issues: JSON Pointer, code, message)
// - Multi-error aggregation with positional attribution and best-effort
//   partial results (Failed markers at failed positions)
// - A type-directed, JSON-extensible serialization registry (asjson/) with a
//   tagged envelope format and round-trip encode/decode contracts
// - Explicit registries with a reject-on-duplicate policy so extensions
//   cannot silently shadow each other
//
// Design policy:
// - Keep only public APIs in the root package; put the validator DSL under
//   dsl/ and the serialization registry under asjson/.
// - Registries are append-only process-wide state populated at startup;
//   isolated instances are available for tests.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	schema := dsl.Object().
//		Field("id", dsl.String()).Required().
//		Field("count", dsl.Int().Min(0)).Default(0).
//		MustBuild()
//	v, err := valise.ParseJSON(ctx, schema, data)
//
//	wire, err := asjson.Encode(value)
//	back, err := asjson.Decode(wire)
