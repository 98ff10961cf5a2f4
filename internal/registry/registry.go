// Package registry provides a small generic name to value table that
// remembers insertion order. Population happens during process init and
// reads dominate afterwards, so a single RWMutex is enough.
package registry

import (
	"sync"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

type Registry[T any] interface {
	Get(name string) (T, bool)
	// Add inserts value under name. Returns false without inserting when
	// the name is already taken: first registration wins.
	Add(name string, value T) bool
	Del(name string)
	// Names lists registered names in insertion order. The result is a
	// fresh slice on every call.
	Names() []string
	Len() int
}

type registry[T any] struct {
	mu     sync.RWMutex
	values *orderedmap.OrderedMap[string, T]
}

func New[T any]() Registry[T] {
	return &registry[T]{
		values: orderedmap.New[string, T](),
	}
}

func (r *registry[T]) Get(name string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.values.Get(name)
}

func (r *registry[T]) Add(name string, value T) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.values.Get(name); exists {
		return false
	}
	r.values.Set(name, value)
	return true
}

func (r *registry[T]) Del(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values.Delete(name)
}

func (r *registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, r.values.Len())
	for pair := r.values.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

func (r *registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.values.Len()
}
