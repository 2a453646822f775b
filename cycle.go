package valise

import (
	"context"
	"reflect"
)

// Visit tracks the reference identities of containers currently being
// traversed, guarding recursive walks against self-referential structures.
// Identities are pointer-based, so value types with no stable identity
// (scalars, structs passed by value) are not tracked and cannot be cycle
// members.
type Visit map[uintptr]struct{}

// NewVisit returns an empty visiting set.
func NewVisit() Visit { return make(Visit) }

// Enter records v as currently being visited and returns a leave function to
// call once its children are done. ok is false when v is already in the set,
// which means the traversal has found a cycle.
func (vs Visit) Enter(v any) (leave func(), ok bool) {
	id, tracked := refID(v)
	if !tracked {
		return func() {}, true
	}
	if _, seen := vs[id]; seen {
		return nil, false
	}
	vs[id] = struct{}{}
	return func() { delete(vs, id) }, true
}

// ContextVisit returns the visiting set attached to the context, creating and
// attaching one when absent. Container validators share it so a cycle is
// detected across nesting levels within a single Validate call.
func ContextVisit(ctx context.Context) (context.Context, Visit) {
	if vs, ok := ctx.Value(_ctxKeyVisit).(Visit); ok {
		return ctx, vs
	}
	vs := NewVisit()
	return context.WithValue(ctx, _ctxKeyVisit, vs), vs
}

func refID(v any) (uintptr, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer, reflect.UnsafePointer, reflect.Chan, reflect.Func:
		if rv.IsNil() {
			return 0, false
		}
		return rv.Pointer(), true
	default:
		return 0, false
	}
}
