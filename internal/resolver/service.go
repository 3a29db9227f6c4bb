// Package resolver provides the public facade combining mapping index
// lookups with delegate calls to the type object generators. The facade
// resolves which class answers a request; constructing the actual GraphQL
// object is the generators' job.
package resolver

import (
	"github.com/graphql-go/graphql"

	"github.com/typegraph/typegraph/internal/domain"
	"github.com/typegraph/typegraph/internal/mapping"
)

// Service is the type resolver facade.
type Service struct {
	index     *mapping.Index
	container domain.Container
	types     domain.TypeGenerator
	inputs    domain.InputTypeGenerator
	debug     domain.Debugger
}

// Option is a functional option for configuring a Service.
type Option func(*Service)

// WithDebugger sets the debugger for logging.
func WithDebugger(debug domain.Debugger) Option {
	return func(s *Service) {
		s.debug = debug
	}
}

// New creates a resolver facade over the given index and collaborators.
func New(index *mapping.Index, container domain.Container, types domain.TypeGenerator, inputs domain.InputTypeGenerator, options ...Option) *Service {
	s := &Service{
		index:     index,
		container: container,
		types:     types,
		inputs:    inputs,
		debug:     &noOpDebugger{},
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

type noOpDebugger struct{}

func (n *noOpDebugger) Printf(format string, v ...interface{}) {}

// MapClassToType resolves the output type object for a domain class. The
// recursive resolver is threaded through to the generator untouched so it
// can resolve nested field types.
func (s *Service) MapClassToType(class string, recursive domain.RecursiveResolver) (*graphql.Object, error) {
	b, err := s.index.ResolveTypeClass(class)
	if err != nil {
		return nil, err
	}
	instance, err := s.container.Resolve(b.TypeClass)
	if err != nil {
		return nil, err
	}
	return s.types.Build(instance, b.Name, recursive)
}

// MapClassToInputType resolves the input type object for a domain class via
// its registered factory.
func (s *Service) MapClassToInputType(class string, recursive domain.RecursiveResolver) (*graphql.InputObject, error) {
	b, err := s.index.ResolveInputFactory(class)
	if err != nil {
		return nil, err
	}
	instance, err := s.container.Resolve(b.FactoryClass)
	if err != nil {
		return nil, err
	}
	return s.inputs.Build(instance, b.Method, b.InputName, recursive)
}

// MapNameToType resolves a GraphQL name to a type object. Output type names
// win; input type names fall through to the input generator.
func (s *Service) MapNameToType(name string, recursive domain.RecursiveResolver) (graphql.Type, error) {
	if b, err := s.index.ResolveTypeClassByName(name); err == nil {
		instance, err := s.container.Resolve(b.TypeClass)
		if err != nil {
			return nil, err
		}
		return s.types.Build(instance, b.Name, recursive)
	}

	if b, err := s.index.ResolveInputFactoryByName(name); err == nil {
		instance, err := s.container.Resolve(b.FactoryClass)
		if err != nil {
			return nil, err
		}
		return s.inputs.Build(instance, b.Method, b.InputName, recursive)
	}

	return nil, &mapping.UnmappedError{Kind: mapping.KindNoName, Name: name}
}

// CanMapClassToType reports whether MapClassToType would resolve. It never
// errors and never reaches a generator.
func (s *Service) CanMapClassToType(class string) bool {
	_, err := s.index.ResolveTypeClass(class)
	return err == nil
}

// CanMapClassToInputType reports whether MapClassToInputType would resolve.
func (s *Service) CanMapClassToInputType(class string) bool {
	_, err := s.index.ResolveInputFactory(class)
	return err == nil
}

// CanMapNameToType reports whether MapNameToType would resolve, covering
// both output and input type names.
func (s *Service) CanMapNameToType(name string) bool {
	return s.index.SupportsName(name)
}

// ExtendTypeForClass applies every extender registered for a domain class
// to the base type, folding in sorted extender-class order. A class with a
// type binding and no extenders returns the base unchanged; an unknown
// class is an error.
func (s *Service) ExtendTypeForClass(class string, base *graphql.Object, recursive domain.RecursiveResolver) (*graphql.Object, error) {
	extenders, err := s.index.ResolveExtensions(class)
	if err != nil {
		return nil, err
	}
	if len(extenders) == 0 && !s.index.SupportsClass(class) {
		return nil, &mapping.UnmappedError{Kind: mapping.KindNoExtendTarget, Class: class}
	}
	return s.applyExtenders(extenders, base, recursive)
}

// ExtendTypeForName is the name-indexed counterpart of ExtendTypeForClass.
func (s *Service) ExtendTypeForName(name string, base *graphql.Object, recursive domain.RecursiveResolver) (*graphql.Object, error) {
	extenders, err := s.index.ResolveExtensionsByName(name)
	if err != nil {
		return nil, err
	}
	if len(extenders) == 0 && !s.index.SupportsName(name) {
		return nil, &mapping.UnmappedError{Kind: mapping.KindNoExtendTarget, Name: name}
	}
	return s.applyExtenders(extenders, base, recursive)
}

func (s *Service) applyExtenders(extenders []string, base *graphql.Object, recursive domain.RecursiveResolver) (*graphql.Object, error) {
	current := base
	for _, extender := range extenders {
		instance, err := s.container.Resolve(extender)
		if err != nil {
			return nil, err
		}
		current, err = s.types.Extend(instance, current, recursive)
		if err != nil {
			return nil, err
		}
		s.debug.Printf("applied extender %s", extender)
	}
	return current, nil
}
