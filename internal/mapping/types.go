package mapping

// TypeBinding associates a domain class with the class whose annotations
// define its GraphQL output type. At most one binding may exist per domain
// class and per type name.
type TypeBinding struct {
	DomainClass string `json:"domainClass"`
	TypeClass   string `json:"typeClass"`
	Name        string `json:"name"`
	SourcePath  string `json:"sourcePath"`
}

// FactoryBinding associates a domain class with the factory method that
// constructs it from GraphQL input arguments. Same uniqueness rule as
// TypeBinding, scoped to the factory family.
type FactoryBinding struct {
	DomainClass  string `json:"domainClass"`
	FactoryClass string `json:"factoryClass"`
	Method       string `json:"method"`
	InputName    string `json:"inputName"`
	SourcePath   string `json:"sourcePath"`
}

// ExtensionBinding associates a domain class with one class contributing
// extra fields to its GraphQL type. Many extenders may target one class.
type ExtensionBinding struct {
	TargetClass   string `json:"targetClass"`
	TargetName    string `json:"targetName"`
	ExtenderClass string `json:"extenderClass"`
	SourcePath    string `json:"sourcePath"`
}

// typeMaps is the aggregate snapshot of the type and factory families,
// cached as a unit under a short TTL.
type typeMaps struct {
	ClassToType        map[string]TypeBinding    `json:"classToType"`
	NameToType         map[string]TypeBinding    `json:"nameToType"`
	ClassToFactory     map[string]FactoryBinding `json:"classToFactory"`
	InputNameToFactory map[string]FactoryBinding `json:"inputNameToFactory"`
}

func newTypeMaps() *typeMaps {
	return &typeMaps{
		ClassToType:        make(map[string]TypeBinding),
		NameToType:         make(map[string]TypeBinding),
		ClassToFactory:     make(map[string]FactoryBinding),
		InputNameToFactory: make(map[string]FactoryBinding),
	}
}

// extendMaps is the aggregate snapshot of the extension family. It is built
// by an independent pass over the same class universe.
type extendMaps struct {
	ClassToExtenders map[string][]ExtensionBinding `json:"classToExtenders"`
	NameToExtenders  map[string][]ExtensionBinding `json:"nameToExtenders"`
}

func newExtendMaps() *extendMaps {
	return &extendMaps{
		ClassToExtenders: make(map[string][]ExtensionBinding),
		NameToExtenders:  make(map[string][]ExtensionBinding),
	}
}
