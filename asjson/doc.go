// Package asjson serializes Go values that plain JSON cannot carry.
//
// Values outside JSON's native set are wrapped in a tagged envelope:
//
//	{"__type__": {"module": "...", "qualname": "..."}, "__data__": ...}
//
// Codecs registered in a Codecs registry translate between the Go value and
// its payload. A standard set covers tuples, sets, ranges, byte slices,
// complex numbers, big integers and rationals, timestamps, dates, clock
// times, durations, UUIDs, and maps with non-string keys. Custom types plug
// in via Register:
//
//	asjson.Default().MustRegister(reflect.TypeOf(Point{}),
//	    func(e *asjson.Encoder, v any) (any, error) {
//	        p := v.(Point)
//	        return map[string]any{"x": p.X, "y": p.Y}, nil
//	    },
//	    func(d *asjson.Decoder, data any) (any, error) {
//	        m := data.(map[string]any)
//	        return Point{X: m["x"].(float64), Y: m["y"].(float64)}, nil
//	    })
//
// Encoding a container that refers back to itself produces a recursion
// marker; decoding the marker yields the Recursive sentinel.
package asjson
