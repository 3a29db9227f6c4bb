package mapping

import (
	"sort"

	"github.com/typegraph/typegraph/internal/cache"
	"github.com/typegraph/typegraph/internal/domain"
)

// ensureTypesBuilt populates the type and factory family, collapsing
// concurrent callers into a single build. Probe order inside the flight:
// in-memory (a racing caller may have finished), snapshot cache, full
// build. A successful build writes the snapshot (short TTL) and all
// per-entry records (no expiry) before publishing the maps.
func (ix *Index) ensureTypesBuilt() (*typeMaps, error) {
	ix.mu.RLock()
	maps := ix.types
	ix.mu.RUnlock()
	if maps != nil {
		return maps, nil
	}

	v, err, _ := ix.flight.Do(snapshotTypesID, func() (interface{}, error) {
		ix.mu.RLock()
		maps := ix.types
		ix.mu.RUnlock()
		if maps != nil {
			return maps, nil
		}

		key := cache.Key{Family: cache.FamilySnapshot, ID: snapshotTypesID}
		if cached, ok := ix.cache.Get(key); ok {
			if snap, ok := cached.(*typeMaps); ok {
				ix.debug.Printf("type maps restored from snapshot cache")
				ix.publishTypes(snap)
				return snap, nil
			}
		}

		snap, err := ix.buildTypeMaps()
		if err != nil {
			return nil, err
		}

		ix.cache.Set(key, snap, ix.snapshotTTL)
		ix.writeTypeRecords(snap)
		ix.publishTypes(snap)
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*typeMaps), nil
}

func (ix *Index) publishTypes(snap *typeMaps) {
	ix.mu.Lock()
	ix.types = snap
	ix.mu.Unlock()
}

// buildTypeMaps enumerates the class universe once and registers a
// TypeBinding for every type annotation and a FactoryBinding for every
// factory annotation. The first duplicate found aborts the whole pass;
// nothing is committed on conflict. Classes without annotations contribute
// nothing and are not an error.
func (ix *Index) buildTypeMaps() (*typeMaps, error) {
	classes, err := ix.discoverer.Enumerate(ix.namespace)
	if err != nil {
		return nil, err
	}
	ix.debug.Printf("building type maps over %d classes in %q", len(classes), ix.namespace)

	snap := newTypeMaps()
	for _, class := range classes {
		if meta, ok := ix.reader.TypeAnnotationOf(class); ok {
			target := meta.TargetClass
			if target == "" {
				target = class.Name
			}
			if existing, dup := snap.ClassToType[target]; dup {
				return nil, &DuplicateMappingError{
					Family: "type",
					Target: target,
					First:  existing.TypeClass,
					Second: class.Name,
				}
			}

			name := ix.naming.DeriveName(class.Name, meta)
			if existing, dup := snap.NameToType[name]; dup {
				return nil, &DuplicateMappingError{
					Family: "type",
					Target: name,
					First:  existing.TypeClass,
					Second: class.Name,
				}
			}

			b := TypeBinding{
				DomainClass: target,
				TypeClass:   class.Name,
				Name:        name,
				SourcePath:  class.SourcePath,
			}
			snap.ClassToType[target] = b
			snap.NameToType[name] = b
		}

		for _, meta := range ix.reader.FactoryAnnotationsOf(class) {
			target := meta.TargetClass
			if target == "" {
				ix.debug.Printf("factory %s.%s declares no target class, skipping", class.Name, meta.Method)
				continue
			}
			if existing, dup := snap.ClassToFactory[target]; dup {
				return nil, &DuplicateMappingError{
					Family: "factory",
					Target: target,
					First:  existing.FactoryClass,
					Second: class.Name,
				}
			}

			inputName := ix.naming.DeriveInputName(class.Name, meta)
			if existing, dup := snap.InputNameToFactory[inputName]; dup {
				return nil, &DuplicateMappingError{
					Family: "factory",
					Target: inputName,
					First:  existing.FactoryClass,
					Second: class.Name,
				}
			}

			b := FactoryBinding{
				DomainClass:  target,
				FactoryClass: class.Name,
				Method:       meta.Method,
				InputName:    inputName,
				SourcePath:   class.SourcePath,
			}
			snap.ClassToFactory[target] = b
			snap.InputNameToFactory[inputName] = b
		}
	}

	return snap, nil
}

func (ix *Index) writeTypeRecords(snap *typeMaps) {
	for class, b := range snap.ClassToType {
		rec := cache.Record{
			Sources: []cache.Source{cache.NewSource(b.SourcePath, ix.stat)},
			Domain:  b.DomainClass,
			Class:   b.TypeClass,
			Name:    b.Name,
		}
		ix.cache.Set(cache.Key{Family: cache.FamilyType, ID: class}, rec, 0)
		ix.cache.Set(cache.Key{Family: cache.FamilyTypeName, ID: b.Name}, rec, 0)
	}

	for class, b := range snap.ClassToFactory {
		rec := cache.Record{
			Sources: []cache.Source{cache.NewSource(b.SourcePath, ix.stat)},
			Domain:  b.DomainClass,
			Class:   b.FactoryClass,
			Method:  b.Method,
			Name:    b.InputName,
		}
		ix.cache.Set(cache.Key{Family: cache.FamilyFactory, ID: class}, rec, 0)
		ix.cache.Set(cache.Key{Family: cache.FamilyInputName, ID: b.InputName}, rec, 0)
	}
}

// ensureExtendBuilt populates the extension family. Independent trigger
// from the type family, same flight/snapshot/record pattern.
func (ix *Index) ensureExtendBuilt() (*extendMaps, error) {
	ix.mu.RLock()
	maps := ix.extend
	ix.mu.RUnlock()
	if maps != nil {
		return maps, nil
	}

	v, err, _ := ix.flight.Do(snapshotExtendID, func() (interface{}, error) {
		ix.mu.RLock()
		maps := ix.extend
		ix.mu.RUnlock()
		if maps != nil {
			return maps, nil
		}

		key := cache.Key{Family: cache.FamilySnapshot, ID: snapshotExtendID}
		if cached, ok := ix.cache.Get(key); ok {
			if snap, ok := cached.(*extendMaps); ok {
				ix.debug.Printf("extend maps restored from snapshot cache")
				ix.publishExtend(snap)
				return snap, nil
			}
		}

		snap, err := ix.buildExtendMaps()
		if err != nil {
			return nil, err
		}

		ix.cache.Set(key, snap, ix.snapshotTTL)
		ix.writeExtendRecords(snap)
		ix.publishExtend(snap)
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*extendMaps), nil
}

func (ix *Index) publishExtend(snap *extendMaps) {
	ix.mu.Lock()
	ix.extend = snap
	ix.mu.Unlock()
}

// buildExtendMaps runs the extension pass over the same class universe.
// Registration is additive, never a conflict: many extenders may target one
// class. Name indexing uses the target's derived type name so extension
// lookup stays symmetric with type lookup by name.
func (ix *Index) buildExtendMaps() (*extendMaps, error) {
	types, err := ix.ensureTypesBuilt()
	if err != nil {
		return nil, err
	}

	classes, err := ix.discoverer.Enumerate(ix.namespace)
	if err != nil {
		return nil, err
	}
	ix.debug.Printf("building extend maps over %d classes in %q", len(classes), ix.namespace)

	snap := newExtendMaps()
	for _, class := range classes {
		meta, ok := ix.reader.ExtendAnnotationOf(class)
		if !ok {
			continue
		}
		target := meta.TargetClass
		if target == "" {
			ix.debug.Printf("extender %s declares no target class, skipping", class.Name)
			continue
		}

		name := ""
		if tb, ok := types.ClassToType[target]; ok {
			name = tb.Name
		} else {
			name = ix.naming.DeriveName(target, domain.TypeMeta{})
		}

		b := ExtensionBinding{
			TargetClass:   target,
			TargetName:    name,
			ExtenderClass: class.Name,
			SourcePath:    class.SourcePath,
		}
		snap.ClassToExtenders[target] = append(snap.ClassToExtenders[target], b)
		snap.NameToExtenders[name] = append(snap.NameToExtenders[name], b)
	}

	for _, bindings := range snap.ClassToExtenders {
		sortExtensions(bindings)
	}
	for _, bindings := range snap.NameToExtenders {
		sortExtensions(bindings)
	}

	return snap, nil
}

func sortExtensions(bindings []ExtensionBinding) {
	sort.Slice(bindings, func(i, j int) bool {
		return bindings[i].ExtenderClass < bindings[j].ExtenderClass
	})
}

func (ix *Index) writeExtendRecords(snap *extendMaps) {
	for target, bindings := range snap.ClassToExtenders {
		rec := extendRecord(target, bindings, ix.stat)
		ix.cache.Set(cache.Key{Family: cache.FamilyExtend, ID: target}, rec, 0)
	}
	for name, bindings := range snap.NameToExtenders {
		rec := extendRecord(name, bindings, ix.stat)
		ix.cache.Set(cache.Key{Family: cache.FamilyExtendName, ID: name}, rec, 0)
	}
}

func extendRecord(id string, bindings []ExtensionBinding, stat cache.StatFunc) cache.Record {
	rec := cache.Record{Domain: id}
	seen := make(map[string]struct{}, len(bindings))
	for _, b := range bindings {
		rec.Classes = append(rec.Classes, b.ExtenderClass)
		if _, ok := seen[b.SourcePath]; !ok {
			seen[b.SourcePath] = struct{}{}
			rec.Sources = append(rec.Sources, cache.NewSource(b.SourcePath, stat))
		}
	}
	return rec
}
