// Package mapping owns the bidirectional lookup tables between domain
// classes, GraphQL type names, input factories and type extensions. The
// index populates itself lazily from a Discoverer/AnnotationReader pair,
// writes its results through a validity cache, and revalidates per-entry
// cache hits against source-file modification times.
package mapping

import (
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/typegraph/typegraph/internal/cache"
	"github.com/typegraph/typegraph/internal/domain"
)

// DefaultSnapshotTTL bounds how long a full-map snapshot is trusted. The
// short window throttles concurrent full rebuilds under load; within it,
// source edits go unnoticed, which per-entry mtime checks compensate for.
const DefaultSnapshotTTL = 2 * time.Second

const (
	snapshotTypesID  = "types"
	snapshotExtendID = "extend"
)

// Index is the mapping core. Safe for concurrent use: in-memory maps are
// guarded by an RWMutex and full rebuilds collapse per family through
// singleflight.
type Index struct {
	mu     sync.RWMutex
	types  *typeMaps
	extend *extendMaps

	discoverer domain.Discoverer
	reader     domain.AnnotationReader
	naming     domain.NamingStrategy
	cache      cache.Cache
	namespace  string

	snapshotTTL time.Duration
	stat        cache.StatFunc
	debug       domain.Debugger

	flight singleflight.Group
}

// Option is a functional option for configuring an Index.
type Option func(*Index)

// WithCache sets the validity cache backend. Defaults to a MemoryCache.
func WithCache(c cache.Cache) Option {
	return func(ix *Index) {
		ix.cache = c
	}
}

// WithSnapshotTTL sets the full-map snapshot TTL.
func WithSnapshotTTL(ttl time.Duration) Option {
	return func(ix *Index) {
		ix.snapshotTTL = ttl
	}
}

// WithStatFunc sets the mtime source used to validate cache records.
func WithStatFunc(stat cache.StatFunc) Option {
	return func(ix *Index) {
		ix.stat = stat
	}
}

// WithDebugger sets the debugger for logging.
func WithDebugger(debug domain.Debugger) Option {
	return func(ix *Index) {
		ix.debug = debug
	}
}

// NewIndex creates an index over the classes of namespace.
func NewIndex(discoverer domain.Discoverer, reader domain.AnnotationReader, strategy domain.NamingStrategy, namespace string, options ...Option) *Index {
	ix := &Index{
		discoverer:  discoverer,
		reader:      reader,
		naming:      strategy,
		namespace:   namespace,
		snapshotTTL: DefaultSnapshotTTL,
		stat:        cache.OSStat,
		debug:       &noOpDebugger{},
	}

	for _, opt := range options {
		opt(ix)
	}

	if ix.cache == nil {
		ix.cache = cache.NewMemoryCache()
	}

	return ix
}

type noOpDebugger struct{}

func (n *noOpDebugger) Printf(format string, v ...interface{}) {}

// ResolveTypeClass returns the type binding for a domain class. Probing
// order: in-memory map, per-class cache record (mtime validated), full
// rebuild, re-check.
func (ix *Index) ResolveTypeClass(class string) (TypeBinding, error) {
	ix.mu.RLock()
	maps := ix.types
	ix.mu.RUnlock()

	if maps != nil {
		if b, ok := maps.ClassToType[class]; ok {
			return b, nil
		}
		return TypeBinding{}, &UnmappedError{Kind: KindNoType, Class: class}
	}

	if rec, ok := ix.record(cache.FamilyType, class); ok {
		return typeBindingFromRecord(rec), nil
	}

	maps, err := ix.ensureTypesBuilt()
	if err != nil {
		return TypeBinding{}, err
	}
	if b, ok := maps.ClassToType[class]; ok {
		return b, nil
	}
	return TypeBinding{}, &UnmappedError{Kind: KindNoType, Class: class}
}

// ResolveTypeClassByName is the name-indexed counterpart of
// ResolveTypeClass.
func (ix *Index) ResolveTypeClassByName(name string) (TypeBinding, error) {
	ix.mu.RLock()
	maps := ix.types
	ix.mu.RUnlock()

	if maps != nil {
		if b, ok := maps.NameToType[name]; ok {
			return b, nil
		}
		return TypeBinding{}, &UnmappedError{Kind: KindNoName, Name: name}
	}

	if rec, ok := ix.record(cache.FamilyTypeName, name); ok {
		return typeBindingFromRecord(rec), nil
	}

	maps, err := ix.ensureTypesBuilt()
	if err != nil {
		return TypeBinding{}, err
	}
	if b, ok := maps.NameToType[name]; ok {
		return b, nil
	}
	return TypeBinding{}, &UnmappedError{Kind: KindNoName, Name: name}
}

// ResolveInputFactory returns the factory binding constructing a domain
// class. Identical probing order to ResolveTypeClass.
func (ix *Index) ResolveInputFactory(class string) (FactoryBinding, error) {
	ix.mu.RLock()
	maps := ix.types
	ix.mu.RUnlock()

	if maps != nil {
		if b, ok := maps.ClassToFactory[class]; ok {
			return b, nil
		}
		return FactoryBinding{}, &UnmappedError{Kind: KindNoInputType, Class: class}
	}

	if rec, ok := ix.record(cache.FamilyFactory, class); ok {
		return factoryBindingFromRecord(rec), nil
	}

	maps, err := ix.ensureTypesBuilt()
	if err != nil {
		return FactoryBinding{}, err
	}
	if b, ok := maps.ClassToFactory[class]; ok {
		return b, nil
	}
	return FactoryBinding{}, &UnmappedError{Kind: KindNoInputType, Class: class}
}

// ResolveInputFactoryByName resolves a factory binding by input type name.
func (ix *Index) ResolveInputFactoryByName(name string) (FactoryBinding, error) {
	ix.mu.RLock()
	maps := ix.types
	ix.mu.RUnlock()

	if maps != nil {
		if b, ok := maps.InputNameToFactory[name]; ok {
			return b, nil
		}
		return FactoryBinding{}, &UnmappedError{Kind: KindNoName, Name: name}
	}

	if rec, ok := ix.record(cache.FamilyInputName, name); ok {
		return factoryBindingFromRecord(rec), nil
	}

	maps, err := ix.ensureTypesBuilt()
	if err != nil {
		return FactoryBinding{}, err
	}
	if b, ok := maps.InputNameToFactory[name]; ok {
		return b, nil
	}
	return FactoryBinding{}, &UnmappedError{Kind: KindNoName, Name: name}
}

// ResolveExtensions returns the classes extending a domain class's GraphQL
// type, sorted for a deterministic fold order. An empty result is a valid
// computed outcome, not an error: a class without extenders still resolves.
func (ix *Index) ResolveExtensions(class string) ([]string, error) {
	ix.mu.RLock()
	maps := ix.extend
	ix.mu.RUnlock()

	if maps != nil {
		return extenderClasses(maps.ClassToExtenders[class]), nil
	}

	if rec, ok := ix.record(cache.FamilyExtend, class); ok {
		return append([]string(nil), rec.Classes...), nil
	}

	maps, err := ix.ensureExtendBuilt()
	if err != nil {
		return nil, err
	}
	return extenderClasses(maps.ClassToExtenders[class]), nil
}

// ResolveExtensionsByName is the name-indexed counterpart of
// ResolveExtensions, keyed by the target type's derived name.
func (ix *Index) ResolveExtensionsByName(name string) ([]string, error) {
	ix.mu.RLock()
	maps := ix.extend
	ix.mu.RUnlock()

	if maps != nil {
		return extenderClasses(maps.NameToExtenders[name]), nil
	}

	if rec, ok := ix.record(cache.FamilyExtendName, name); ok {
		return append([]string(nil), rec.Classes...), nil
	}

	maps, err := ix.ensureExtendBuilt()
	if err != nil {
		return nil, err
	}
	return extenderClasses(maps.NameToExtenders[name]), nil
}

// SupportsClass reports whether a type or factory binding exists for the
// class. It never returns an error and never reaches a generator; build
// failures (including conflicts raised to other callers) degrade to false.
func (ix *Index) SupportsClass(class string) bool {
	ix.mu.RLock()
	maps := ix.types
	ix.mu.RUnlock()

	if maps == nil {
		if _, ok := ix.record(cache.FamilyType, class); ok {
			return true
		}
		if _, ok := ix.record(cache.FamilyFactory, class); ok {
			return true
		}
		var err error
		maps, err = ix.ensureTypesBuilt()
		if err != nil {
			ix.debug.Printf("supports check: build failed: %v", err)
			return false
		}
	}

	if _, ok := maps.ClassToType[class]; ok {
		return true
	}
	_, ok := maps.ClassToFactory[class]
	return ok
}

// SupportsName reports whether any binding answers to the GraphQL name,
// checking both output type names and input type names. Same guarantees as
// SupportsClass.
func (ix *Index) SupportsName(name string) bool {
	ix.mu.RLock()
	maps := ix.types
	ix.mu.RUnlock()

	if maps == nil {
		if _, ok := ix.record(cache.FamilyTypeName, name); ok {
			return true
		}
		if _, ok := ix.record(cache.FamilyInputName, name); ok {
			return true
		}
		var err error
		maps, err = ix.ensureTypesBuilt()
		if err != nil {
			ix.debug.Printf("supports check: build failed: %v", err)
			return false
		}
	}

	if _, ok := maps.NameToType[name]; ok {
		return true
	}
	_, ok := maps.InputNameToFactory[name]
	return ok
}

// Invalidate drops the in-memory maps and the cached snapshots, forcing the
// next resolve to rebuild. Per-entry records stay: mtime validation already
// governs their lifetime.
func (ix *Index) Invalidate() {
	ix.mu.Lock()
	ix.types = nil
	ix.extend = nil
	ix.mu.Unlock()

	ix.cache.Delete(cache.Key{Family: cache.FamilySnapshot, ID: snapshotTypesID})
	ix.cache.Delete(cache.Key{Family: cache.FamilySnapshot, ID: snapshotExtendID})
}

// TypeBindings returns every type binding, sorted by domain class. Builds
// the type family if needed.
func (ix *Index) TypeBindings() ([]TypeBinding, error) {
	maps, err := ix.ensureTypesBuilt()
	if err != nil {
		return nil, err
	}
	out := make([]TypeBinding, 0, len(maps.ClassToType))
	for _, b := range maps.ClassToType {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DomainClass < out[j].DomainClass })
	return out, nil
}

// FactoryBindings returns every factory binding, sorted by domain class.
func (ix *Index) FactoryBindings() ([]FactoryBinding, error) {
	maps, err := ix.ensureTypesBuilt()
	if err != nil {
		return nil, err
	}
	out := make([]FactoryBinding, 0, len(maps.ClassToFactory))
	for _, b := range maps.ClassToFactory {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DomainClass < out[j].DomainClass })
	return out, nil
}

// ExtensionBindings returns every extension binding, sorted by target class
// then extender class.
func (ix *Index) ExtensionBindings() ([]ExtensionBinding, error) {
	maps, err := ix.ensureExtendBuilt()
	if err != nil {
		return nil, err
	}
	var out []ExtensionBinding
	for _, bindings := range maps.ClassToExtenders {
		out = append(out, bindings...)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TargetClass != out[j].TargetClass {
			return out[i].TargetClass < out[j].TargetClass
		}
		return out[i].ExtenderClass < out[j].ExtenderClass
	})
	return out, nil
}

// record probes the per-entry cache tier, dropping entries whose source
// files changed since they were written. Staleness is silent: it reads as a
// plain miss.
func (ix *Index) record(family cache.Family, id string) (cache.Record, bool) {
	v, ok := ix.cache.Get(cache.Key{Family: family, ID: id})
	if !ok {
		return cache.Record{}, false
	}
	rec, ok := v.(cache.Record)
	if !ok {
		return cache.Record{}, false
	}
	if !rec.Valid(ix.stat) {
		ix.debug.Printf("stale cache record %s/%s, treating as miss", family, id)
		ix.cache.Delete(cache.Key{Family: family, ID: id})
		return cache.Record{}, false
	}
	return rec, true
}

func typeBindingFromRecord(rec cache.Record) TypeBinding {
	b := TypeBinding{
		DomainClass: rec.Domain,
		TypeClass:   rec.Class,
		Name:        rec.Name,
	}
	if len(rec.Sources) > 0 {
		b.SourcePath = rec.Sources[0].Path
	}
	return b
}

func factoryBindingFromRecord(rec cache.Record) FactoryBinding {
	b := FactoryBinding{
		DomainClass:  rec.Domain,
		FactoryClass: rec.Class,
		Method:       rec.Method,
		InputName:    rec.Name,
	}
	if len(rec.Sources) > 0 {
		b.SourcePath = rec.Sources[0].Path
	}
	return b
}

func extenderClasses(bindings []ExtensionBinding) []string {
	out := make([]string, 0, len(bindings))
	for _, b := range bindings {
		out = append(out, b.ExtenderClass)
	}
	sort.Strings(out)
	return out
}
