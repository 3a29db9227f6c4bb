// Package domain holds the descriptor types and narrow interfaces exchanged
// between the discovery, mapping and resolution services. The mapping core
// never inspects source structure directly; it only consumes the descriptor
// records defined here.
package domain

// ClassRef identifies a discovered domain class and the source file that
// declares it. Refs are recomputed on every discovery pass and never
// persisted directly.
type ClassRef struct {
	// Name is the qualified class name, e.g. "shop.UserType".
	Name string
	// SourcePath is the file declaring the class, used for mtime checks.
	SourcePath string
}

// TypeMeta describes a type annotation found on a class.
type TypeMeta struct {
	// TargetClass is the domain class whose GraphQL output type the
	// annotated class defines. Empty means the class maps itself.
	TargetClass string
	// Name overrides the derived GraphQL type name when non-empty.
	Name string
}

// FactoryMeta describes a factory annotation found on a method.
type FactoryMeta struct {
	// Method is the annotated method name on the factory class.
	Method string
	// TargetClass is the domain class the factory constructs.
	TargetClass string
	// InputName overrides the derived input type name when non-empty.
	InputName string
}

// ExtendMeta describes an extend-type annotation found on a class.
type ExtendMeta struct {
	// TargetClass is the domain class whose GraphQL type gains the
	// extender's fields.
	TargetClass string
}
