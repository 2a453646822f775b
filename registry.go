package valise

import (
	"errors"
	"fmt"
	"sync"
)

// ErrDuplicateEntry indicates an attempt to register a key that already has
// an entry. Registries are append-only: overriding an existing entry is a
// programmer error, never a silent overwrite.
var ErrDuplicateEntry = errors.New("valise: duplicate registry entry")

// Registry is a small guarded map with an explicit duplicate-key policy
// (reject). Both the validator type table and the asjson codec tables are
// built on it, so tests can construct isolated instances instead of sharing
// hidden module-level state.
//
// Registration is expected to happen during startup; reads afterwards are
// safe from any goroutine.
type Registry[K comparable, V any] struct {
	name string
	mu   sync.RWMutex
	m    map[K]V
}

// NewRegistry returns an empty registry. The name appears in duplicate-entry
// errors for diagnosability.
func NewRegistry[K comparable, V any](name string) *Registry[K, V] {
	return &Registry[K, V]{name: name, m: make(map[K]V)}
}

// Register stores a value for the key, failing with ErrDuplicateEntry when
// the key already has one.
func (r *Registry[K, V]) Register(k K, v V) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.m[k]; ok {
		return fmt.Errorf("%w: %s registry already has %v", ErrDuplicateEntry, r.name, k)
	}
	r.m[k] = v
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry[K, V]) MustRegister(k K, v V) {
	if err := r.Register(k, v); err != nil {
		panic(err)
	}
}

// Resolve returns the value registered for the key.
func (r *Registry[K, V]) Resolve(k K) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.m[k]
	return v, ok
}

// Len reports the number of entries.
func (r *Registry[K, V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.m)
}

// Keys returns a snapshot of the registered keys (order is unspecified).
func (r *Registry[K, V]) Keys() []K {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ks := make([]K, 0, len(r.m))
	for k := range r.m {
		ks = append(ks, k)
	}
	return ks
}
