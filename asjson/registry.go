package asjson

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	valise "github.com/soratobu/valise"
)

// EncodeFunc turns a value of the registered type into a JSON-ready payload.
// DecodeFunc does the reverse. Both may recurse through the passed Encoder or
// Decoder for nested values.
type (
	EncodeFunc func(*Encoder, any) (any, error)
	DecodeFunc func(*Decoder, any) (any, error)
)

type codecEntry struct {
	typ reflect.Type
	tag Tag
	enc EncodeFunc
	dec DecodeFunc
}

// Codecs is an isolated codec registry. Registration rejects duplicates on
// either the Go type or the wire tag, and a rejected registration leaves
// neither table touched.
type Codecs struct {
	mu     sync.Mutex // serializes registrations so both tables stay in step
	byType *valise.Registry[reflect.Type, *codecEntry]
	byTag  *valise.Registry[Tag, *codecEntry]
}

// NewCodecs returns an empty registry.
func NewCodecs() *Codecs {
	return &Codecs{
		byType: valise.NewRegistry[reflect.Type, *codecEntry]("codec type"),
		byTag:  valise.NewRegistry[Tag, *codecEntry]("codec tag"),
	}
}

var defaultCodecs = NewCodecs()

// Default returns the process-wide registry, pre-populated with the standard
// codecs.
func Default() *Codecs { return defaultCodecs }

// Register adds a codec for a named type, deriving the tag from the type's
// package path and name.
func (c *Codecs) Register(typ reflect.Type, enc EncodeFunc, dec DecodeFunc) error {
	if typ.Name() == "" {
		return fmt.Errorf("asjson: unnamed type %v needs RegisterTagged", typ)
	}
	return c.RegisterTagged(typ, Tag{Module: typ.PkgPath(), Qualname: typ.Name()}, enc, dec)
}

// RegisterTagged adds a codec under an explicit tag. Needed for unnamed types
// such as []byte or map[any]any. A duplicate on either the type or the tag
// rejects the whole registration, so a colliding type never ends up
// encodable under another type's tag.
func (c *Codecs) RegisterTagged(typ reflect.Type, tag Tag, enc EncodeFunc, dec DecodeFunc) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.byType.Resolve(typ); ok {
		return fmt.Errorf("%s: type %v: %w", valise.CodeDuplicateCodec, typ, valise.ErrDuplicateEntry)
	}
	if _, ok := c.byTag.Resolve(tag); ok {
		return fmt.Errorf("%s: tag %s: %w", valise.CodeDuplicateCodec, tag, valise.ErrDuplicateEntry)
	}
	e := &codecEntry{typ: typ, tag: tag, enc: enc, dec: dec}
	if err := c.byType.Register(typ, e); err != nil {
		return fmt.Errorf("%s: type %v: %w", valise.CodeDuplicateCodec, typ, err)
	}
	if err := c.byTag.Register(tag, e); err != nil {
		return fmt.Errorf("%s: tag %s: %w", valise.CodeDuplicateCodec, tag, err)
	}
	return nil
}

// MustRegister is Register, panicking on error.
func (c *Codecs) MustRegister(typ reflect.Type, enc EncodeFunc, dec DecodeFunc) {
	if err := c.Register(typ, enc, dec); err != nil {
		panic(err)
	}
}

// MustRegisterTagged is RegisterTagged, panicking on error.
func (c *Codecs) MustRegisterTagged(typ reflect.Type, tag Tag, enc EncodeFunc, dec DecodeFunc) {
	if err := c.RegisterTagged(typ, tag, enc, dec); err != nil {
		panic(err)
	}
}

// resolveEncoder finds the codec for v's dynamic type. An exact match wins;
// otherwise a registered type of the same kind that v converts to is used, so
// defined types like `type Port int` fall through to their underlying codec
// only when one was registered for a compatible named type. Candidates are
// walked in sorted type-name order so resolution is deterministic when more
// than one registered type qualifies.
func (c *Codecs) resolveEncoder(v any) (*codecEntry, bool) {
	t := reflect.TypeOf(v)
	if t == nil {
		return nil, false
	}
	if e, ok := c.byType.Resolve(t); ok {
		return e, true
	}
	keys := c.byType.Keys()
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	for _, rt := range keys {
		if rt.Kind() == t.Kind() && t.ConvertibleTo(rt) && rt.Kind() != reflect.Interface {
			e, _ := c.byType.Resolve(rt)
			return e, true
		}
	}
	return nil, false
}

func (c *Codecs) resolveTag(tag Tag) (*codecEntry, bool) {
	return c.byTag.Resolve(tag)
}

// NewEncoder returns an encoder over this registry.
func (c *Codecs) NewEncoder() *Encoder {
	return &Encoder{codecs: c, visit: valise.NewVisit()}
}

// NewDecoder returns a decoder over this registry.
func (c *Codecs) NewDecoder() *Decoder {
	return &Decoder{codecs: c}
}
