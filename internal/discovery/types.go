package discovery

import (
	"sync"

	"github.com/typegraph/typegraph/internal/domain"
)

// Service is the default class discoverer and annotation reader. It scans
// Go packages for struct types and methods carrying @gql: directives and
// serves the extracted descriptors through the domain interfaces.
type Service struct {
	excludes        map[string]struct{}
	packagePrefixes []string
	parseExtension  string
	parseInternal   bool
	useGoPackages   bool
	dependencyDepth int
	debug           domain.Debugger

	mu      sync.RWMutex
	classes map[string]*classInfo
}

// Option is a functional option for configuring Service.
type Option func(*Service)

// WithExcludes sets directory exclusion patterns for the walk mode.
func WithExcludes(excludes map[string]struct{}) Option {
	return func(s *Service) {
		s.excludes = excludes
	}
}

// WithPackagePrefixes limits dependency and go/packages scanning to import
// paths matching one of the prefixes. Empty means no limit.
func WithPackagePrefixes(prefixes []string) Option {
	return func(s *Service) {
		s.packagePrefixes = prefixes
	}
}

// WithParseExtension sets the file extension to parse.
func WithParseExtension(ext string) Option {
	return func(s *Service) {
		s.parseExtension = ext
	}
}

// WithParseInternal sets whether dependency traversal descends into
// internal packages.
func WithParseInternal(parse bool) Option {
	return func(s *Service) {
		s.parseInternal = parse
	}
}

// WithGoPackages sets whether to load sources via go/packages instead of
// walking directories.
func WithGoPackages(use bool) Option {
	return func(s *Service) {
		s.useGoPackages = use
	}
}

// WithDependencyDepth enables import-tree traversal up to the given depth.
// Zero disables it.
func WithDependencyDepth(depth int) Option {
	return func(s *Service) {
		s.dependencyDepth = depth
	}
}

// WithDebugger sets the debugger for logging.
func WithDebugger(debug domain.Debugger) Option {
	return func(s *Service) {
		s.debug = debug
	}
}

// NewService creates a discovery service with optional configuration.
func NewService(options ...Option) *Service {
	s := &Service{
		excludes:       make(map[string]struct{}),
		parseExtension: ".go",
		debug:          &noOpDebugger{},
	}

	for _, opt := range options {
		opt(s)
	}

	return s
}

type noOpDebugger struct{}

func (n *noOpDebugger) Printf(format string, v ...interface{}) {}

// classInfo accumulates everything discovered about one class.
type classInfo struct {
	ref       domain.ClassRef
	typeMeta  *domain.TypeMeta
	factories []domain.FactoryMeta
	extend    *domain.ExtendMeta
}
