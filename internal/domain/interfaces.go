package domain

import (
	"github.com/graphql-go/graphql"
)

// Discoverer enumerates the instantiable domain classes of a namespace.
// Entries that fail to load are skipped, not propagated. Implementations
// are volatile and may be cache-backed themselves.
type Discoverer interface {
	Enumerate(namespace string) ([]ClassRef, error)
}

// AnnotationReader extracts structured annotation descriptors from a class
// discovered by a Discoverer. Absent annotations are reported through the
// boolean, never as errors.
type AnnotationReader interface {
	TypeAnnotationOf(class ClassRef) (TypeMeta, bool)
	FactoryAnnotationsOf(class ClassRef) []FactoryMeta
	ExtendAnnotationOf(class ClassRef) (ExtendMeta, bool)
}

// NamingStrategy derives the externally visible GraphQL names for a
// type-defining class. Both methods must be pure and deterministic for a
// given (class, meta) pair.
type NamingStrategy interface {
	DeriveName(class string, meta TypeMeta) string
	DeriveInputName(class string, meta FactoryMeta) string
}

// Container materializes an annotated class instance by name before it is
// handed to a generator.
type Container interface {
	Resolve(className string) (interface{}, error)
}

// RecursiveResolver is threaded through generator calls so generators can
// resolve nested field types. It is opaque to the mapping core.
type RecursiveResolver interface{}

// TypeGenerator builds and extends GraphQL output type objects from
// materialized class instances.
type TypeGenerator interface {
	Build(instance interface{}, name string, recursive RecursiveResolver) (*graphql.Object, error)
	Extend(instance interface{}, base *graphql.Object, recursive RecursiveResolver) (*graphql.Object, error)
}

// InputTypeGenerator builds GraphQL input type objects from a factory class
// instance and its annotated method.
type InputTypeGenerator interface {
	Build(instance interface{}, method string, name string, recursive RecursiveResolver) (*graphql.InputObject, error)
}

// Debugger is the interface for debug logging.
type Debugger interface {
	Printf(format string, v ...interface{})
}
