package mapping

import "fmt"

// DuplicateMappingError is returned when two classes claim the same domain
// class or the same GraphQL name within one binding family. It is fatal for
// the build attempt that found it: nothing from that pass is committed.
type DuplicateMappingError struct {
	// Family is "type" or "factory".
	Family string
	// Target is the contested domain class or GraphQL name.
	Target string
	// First and Second are the competing annotated classes.
	First  string
	Second string
}

func (e *DuplicateMappingError) Error() string {
	return fmt.Sprintf("duplicate %s mapping for %q: both %s and %s claim it",
		e.Family, e.Target, e.First, e.Second)
}

// UnmappedKind distinguishes what a failed resolve was looking for.
type UnmappedKind int

const (
	// KindNoType means no output type binding exists for the class.
	KindNoType UnmappedKind = iota
	// KindNoInputType means no input factory binding exists for the class.
	KindNoInputType
	// KindNoExtendTarget means the extension target cannot be resolved.
	KindNoExtendTarget
	// KindNoName means no binding of any family matches the name.
	KindNoName
)

func (k UnmappedKind) String() string {
	switch k {
	case KindNoType:
		return "no output type"
	case KindNoInputType:
		return "no input type"
	case KindNoExtendTarget:
		return "no extension target"
	case KindNoName:
		return "no name match"
	default:
		return "unknown"
	}
}

// UnmappedError is the expected, recoverable outcome of a resolve that finds
// no binding after a full rebuild.
type UnmappedError struct {
	Kind  UnmappedKind
	Class string
	Name  string
}

func (e *UnmappedError) Error() string {
	subject := e.Class
	if subject == "" {
		subject = e.Name
	}
	return fmt.Sprintf("cannot map %q: %s", subject, e.Kind)
}
