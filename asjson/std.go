package asjson

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Tuple is a fixed snapshot of heterogeneous values. On the wire it is a
// plain array; the envelope tag is what distinguishes it from a slice.
type Tuple []any

// Set is an unordered collection of comparable values.
type Set map[any]struct{}

// NewSet builds a Set from its members.
func NewSet(members ...any) Set {
	s := make(Set, len(members))
	for _, m := range members {
		s[m] = struct{}{}
	}
	return s
}

// Range is a half-open integer interval with a stride, covering start,
// start+step, ... up to but excluding stop.
type Range struct {
	Start int64
	Stop  int64
	Step  int64
}

// Date is a calendar date without a time component.
type Date struct {
	Year  int
	Month int
	Day   int
}

func (d Date) String() string { return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day) }

// TimeOfDay is a wall-clock time without a date component.
type TimeOfDay struct {
	Hour  int
	Min   int
	Sec   int
	Micro int
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d.%06d", t.Hour, t.Min, t.Sec, t.Micro)
}

const (
	timeLayout      = "2006-01-02T15:04:05.000000Z07:00"
	timeLayoutNaive = "2006-01-02T15:04:05.000000"
	dateLayout      = "2006-01-02"
	clockLayout     = "15:04:05.000000"
)

func init() {
	c := defaultCodecs

	c.MustRegister(reflect.TypeOf(Tuple(nil)), encodeTuple, decodeTuple)
	c.MustRegister(reflect.TypeOf(Set(nil)), encodeSet, decodeSet)
	c.MustRegister(reflect.TypeOf(Range{}), encodeRange, decodeRange)
	c.MustRegister(reflect.TypeOf(Date{}), encodeDate, decodeDate)
	c.MustRegister(reflect.TypeOf(TimeOfDay{}), encodeTimeOfDay, decodeTimeOfDay)
	c.MustRegister(reflect.TypeOf(time.Time{}), encodeTime, decodeTime)
	c.MustRegister(reflect.TypeOf(time.Duration(0)), encodeDuration, decodeDuration)
	c.MustRegister(reflect.TypeOf(complex128(0)), encodeComplex, decodeComplex)
	c.MustRegister(reflect.TypeOf(uuid.UUID{}), encodeUUID, decodeUUID)

	c.MustRegisterTagged(reflect.TypeOf([]byte(nil)), Tag{Qualname: "bytes"}, encodeBytes, decodeBytes)
	c.MustRegisterTagged(reflect.TypeOf(map[any]any(nil)), Tag{Qualname: "map"}, encodeAnyMap, decodeAnyMap)
	c.MustRegisterTagged(reflect.TypeOf((*big.Int)(nil)), Tag{Module: "math/big", Qualname: "Int"}, encodeBigInt, decodeBigInt)
	c.MustRegisterTagged(reflect.TypeOf((*big.Rat)(nil)), Tag{Module: "math/big", Qualname: "Rat"}, encodeBigRat, decodeBigRat)
}

// as asserts v to T, falling back to a reflect conversion for defined types
// that reached the codec through the kind-compatible lookup.
func as[T any](v any) T {
	if t, ok := v.(T); ok {
		return t
	}
	target := reflect.TypeOf((*T)(nil)).Elem()
	return reflect.ValueOf(v).Convert(target).Interface().(T)
}

func encodeTuple(e *Encoder, v any) (any, error) {
	t := as[Tuple](v)
	out := make([]any, len(t))
	for i, item := range t {
		enc, err := e.Encode(item)
		if err != nil {
			return nil, err
		}
		out[i] = enc
	}
	return out, nil
}

func decodeTuple(d *Decoder, data any) (any, error) {
	items, ok := data.([]any)
	if !ok {
		return nil, fmt.Errorf("tuple payload must be an array, got %T", data)
	}
	out := make(Tuple, len(items))
	for i, item := range items {
		dec, err := d.Decode(item)
		if err != nil {
			return nil, err
		}
		out[i] = dec
	}
	return out, nil
}

func encodeSet(e *Encoder, v any) (any, error) {
	s := as[Set](v)
	out := make([]any, 0, len(s))
	for member := range s {
		enc, err := e.Encode(member)
		if err != nil {
			return nil, err
		}
		out = append(out, enc)
	}
	sort.Slice(out, func(i, j int) bool { return fmt.Sprint(out[i]) < fmt.Sprint(out[j]) })
	return out, nil
}

func decodeSet(d *Decoder, data any) (any, error) {
	items, ok := data.([]any)
	if !ok {
		return nil, fmt.Errorf("set payload must be an array, got %T", data)
	}
	out := make(Set, len(items))
	for _, item := range items {
		dec, err := d.Decode(item)
		if err != nil {
			return nil, err
		}
		if t := reflect.TypeOf(dec); t != nil && !t.Comparable() {
			return nil, fmt.Errorf("set member %T is not comparable", dec)
		}
		out[dec] = struct{}{}
	}
	return out, nil
}

func encodeRange(e *Encoder, v any) (any, error) {
	r := as[Range](v)
	return map[string]any{"start": r.Start, "stop": r.Stop, "step": r.Step}, nil
}

func decodeRange(d *Decoder, data any) (any, error) {
	m, ok := data.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("range payload must be an object, got %T", data)
	}
	start, err := toInt(m["start"])
	if err != nil {
		return nil, err
	}
	stop, err := toInt(m["stop"])
	if err != nil {
		return nil, err
	}
	step, err := toInt(m["step"])
	if err != nil {
		return nil, err
	}
	if step == 0 {
		return nil, fmt.Errorf("range step must not be zero")
	}
	return Range{Start: start, Stop: stop, Step: step}, nil
}

func encodeDate(e *Encoder, v any) (any, error) {
	return as[Date](v).String(), nil
}

func decodeDate(d *Decoder, data any) (any, error) {
	s, ok := data.(string)
	if !ok {
		return nil, fmt.Errorf("date payload must be a string, got %T", data)
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}, nil
}

func encodeTimeOfDay(e *Encoder, v any) (any, error) {
	return as[TimeOfDay](v).String(), nil
}

func decodeTimeOfDay(d *Decoder, data any) (any, error) {
	s, ok := data.(string)
	if !ok {
		return nil, fmt.Errorf("time payload must be a string, got %T", data)
	}
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return nil, err
	}
	return TimeOfDay{Hour: t.Hour(), Min: t.Minute(), Sec: t.Second(), Micro: t.Nanosecond() / 1000}, nil
}

func encodeTime(e *Encoder, v any) (any, error) {
	return as[time.Time](v).Format(timeLayout), nil
}

func decodeTime(d *Decoder, data any) (any, error) {
	s, ok := data.(string)
	if !ok {
		return nil, fmt.Errorf("timestamp payload must be a string, got %T", data)
	}
	if t, err := time.Parse(timeLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(timeLayoutNaive, s)
}

func encodeDuration(e *Encoder, v any) (any, error) {
	us := as[time.Duration](v).Microseconds()
	const dayMicros = 24 * 60 * 60 * 1_000_000
	days := us / dayMicros
	if us%dayMicros < 0 {
		days--
	}
	rem := us - days*dayMicros
	return map[string]any{
		"days":         days,
		"seconds":      rem / 1_000_000,
		"microseconds": rem % 1_000_000,
	}, nil
}

func decodeDuration(d *Decoder, data any) (any, error) {
	m, ok := data.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("duration payload must be an object, got %T", data)
	}
	days, err := toInt(m["days"])
	if err != nil {
		return nil, err
	}
	secs, err := toInt(m["seconds"])
	if err != nil {
		return nil, err
	}
	micros, err := toInt(m["microseconds"])
	if err != nil {
		return nil, err
	}
	return time.Duration(days)*24*time.Hour +
		time.Duration(secs)*time.Second +
		time.Duration(micros)*time.Microsecond, nil
}

func encodeComplex(e *Encoder, v any) (any, error) {
	c := as[complex128](v)
	return map[string]any{"real": real(c), "imag": imag(c)}, nil
}

func decodeComplex(d *Decoder, data any) (any, error) {
	m, ok := data.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("complex payload must be an object, got %T", data)
	}
	re, err := toFloat(m["real"])
	if err != nil {
		return nil, err
	}
	im, err := toFloat(m["imag"])
	if err != nil {
		return nil, err
	}
	return complex(re, im), nil
}

func encodeUUID(e *Encoder, v any) (any, error) {
	return as[uuid.UUID](v).String(), nil
}

func decodeUUID(d *Decoder, data any) (any, error) {
	s, ok := data.(string)
	if !ok {
		return nil, fmt.Errorf("uuid payload must be a string, got %T", data)
	}
	return uuid.Parse(s)
}

func encodeBytes(e *Encoder, v any) (any, error) {
	b := as[[]byte](v)
	if utf8.Valid(b) {
		return map[string]any{"decoded": string(b), "encoding": "utf-8"}, nil
	}
	return map[string]any{"decoded": base64.StdEncoding.EncodeToString(b), "encoding": "base64"}, nil
}

func decodeBytes(d *Decoder, data any) (any, error) {
	m, ok := data.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("bytes payload must be an object, got %T", data)
	}
	decoded, ok := m["decoded"].(string)
	if !ok {
		return nil, fmt.Errorf("bytes payload missing decoded string")
	}
	switch enc, _ := m["encoding"].(string); enc {
	case "", "utf-8", "utf8":
		return []byte(decoded), nil
	case "base64":
		return base64.StdEncoding.DecodeString(decoded)
	default:
		return nil, fmt.Errorf("unsupported bytes encoding %q", enc)
	}
}

func encodeBigInt(e *Encoder, v any) (any, error) {
	return as[*big.Int](v).String(), nil
}

func decodeBigInt(d *Decoder, data any) (any, error) {
	s, ok := data.(string)
	if !ok {
		return nil, fmt.Errorf("bigint payload must be a string, got %T", data)
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid integer literal %q", s)
	}
	return n, nil
}

func encodeBigRat(e *Encoder, v any) (any, error) {
	r := as[*big.Rat](v)
	return r.Num().String() + "/" + r.Denom().String(), nil
}

func decodeBigRat(d *Decoder, data any) (any, error) {
	s, ok := data.(string)
	if !ok {
		return nil, fmt.Errorf("rational payload must be a string, got %T", data)
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("invalid rational literal %q", s)
	}
	return r, nil
}

// encodeAnyMap serializes a map with arbitrary keys. String keys are kept,
// escaped when they collide with the synthetic prefix; other keys become
// synthetic "__nskey__:<idx>" entries wrapping the encoded key and value.
// Entries are ordered deterministically by the printed key.
func encodeAnyMap(e *Encoder, v any) (any, error) {
	m := as[map[any]any](v)
	type entry struct {
		key   any
		val   any
		label string
	}
	entries := make([]entry, 0, len(m))
	for k, val := range m {
		entries = append(entries, entry{key: k, val: val, label: fmt.Sprint(k)})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].label < entries[j].label })

	out := make(map[string]any, len(entries))
	idx := 0
	for _, en := range entries {
		val, err := e.Encode(en.val)
		if err != nil {
			return nil, err
		}
		if sk, ok := en.key.(string); ok {
			out[escapeKey(sk)] = val
			continue
		}
		key, err := e.Encode(en.key)
		if err != nil {
			return nil, err
		}
		out[syntheticPrefix+itoa(idx)] = map[string]any{"key": key, "value": val}
		idx++
	}
	return out, nil
}

func decodeAnyMap(d *Decoder, data any) (any, error) {
	m, ok := data.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("map payload must be an object, got %T", data)
	}
	out := make(map[any]any, len(m))
	for k, raw := range m {
		plain, synthetic := unescapeKey(k)
		if !synthetic {
			val, err := d.Decode(raw)
			if err != nil {
				return nil, err
			}
			out[plain] = val
			continue
		}
		pair, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("synthetic key entry %q must be an object, got %T", k, raw)
		}
		key, err := d.Decode(pair["key"])
		if err != nil {
			return nil, err
		}
		val, err := d.Decode(pair["value"])
		if err != nil {
			return nil, err
		}
		if t := reflect.TypeOf(key); t != nil && !t.Comparable() {
			return nil, fmt.Errorf("map key %T is not comparable", key)
		}
		out[key] = val
	}
	return out, nil
}

func toInt(v any) (int64, error) {
	switch t := v.(type) {
	case int64:
		return t, nil
	case int:
		return int64(t), nil
	case float64:
		if t != float64(int64(t)) {
			return 0, fmt.Errorf("expected integer, got %v", t)
		}
		return int64(t), nil
	case json.Number:
		return t.Int64()
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}

func toFloat(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case int64:
		return float64(t), nil
	case int:
		return float64(t), nil
	case json.Number:
		return t.Float64()
	default:
		return 0, fmt.Errorf("expected number, got %T", v)
	}
}
