// Package container provides a minimal constructor registry used to
// materialize annotated class instances before they reach a generator.
// Larger applications can substitute their own dependency injection
// container; the resolver only sees the domain.Container interface.
package container

import (
	"fmt"
	"sync"
)

// Constructor builds a fresh instance of a registered class.
type Constructor func() interface{}

// Registry maps class names to constructors. Safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	ctors map[string]Constructor
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		ctors: make(map[string]Constructor),
	}
}

// Register associates a class name with its constructor. Re-registering a
// name replaces the previous constructor.
func (r *Registry) Register(className string, ctor Constructor) {
	r.mu.Lock()
	r.ctors[className] = ctor
	r.mu.Unlock()
}

// RegisterInstance associates a class name with a fixed instance.
func (r *Registry) RegisterInstance(className string, instance interface{}) {
	r.Register(className, func() interface{} { return instance })
}

// Resolve materializes an instance of the named class.
func (r *Registry) Resolve(className string) (interface{}, error) {
	r.mu.RLock()
	ctor, ok := r.ctors[className]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("container: no constructor registered for %q", className)
	}
	return ctor(), nil
}

// Known reports whether a constructor is registered for the class.
func (r *Registry) Known(className string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.ctors[className]
	return ok
}
