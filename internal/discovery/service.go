// Package discovery implements the default class discoverer and annotation
// reader: Go packages are scanned for struct types and methods whose doc
// comments carry @gql: directives. Classes are qualified by package name;
// bare target references inside a directive resolve within the annotated
// class's own package.
//
// Directive grammar:
//
//	@gql:type target=<Class> [name=<Name>]     on a struct
//	@gql:factory target=<Class> [input=<Name>] on a method
//	@gql:extend target=<Class>                 on a struct
package discovery

import (
	"go/ast"
	goparser "go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/typegraph/typegraph/internal/domain"
)

// Enumerate scans the namespace and returns every discovered class, sorted
// by name. The namespace is a directory in walk mode and a package pattern
// in go/packages mode. Each call rescans; the mapping index's caches
// decide how often that happens.
func (s *Service) Enumerate(namespace string) ([]domain.ClassRef, error) {
	collected := make(map[string]*classInfo)

	var err error
	if s.useGoPackages {
		err = s.scanGoPackages(namespace, collected)
	} else {
		err = s.scanDir(namespace, collected)
	}
	if err != nil {
		return nil, err
	}

	if s.dependencyDepth > 0 {
		s.scanDependencies(namespace, collected)
	}

	// drop method-only entries whose declaring type was never seen
	for name, info := range collected {
		if info.ref.SourcePath == "" {
			s.debug.Printf("methods found for %s but no declaration, dropping", name)
			delete(collected, name)
		}
	}

	s.mu.Lock()
	s.classes = collected
	s.mu.Unlock()

	refs := make([]domain.ClassRef, 0, len(collected))
	for _, info := range collected {
		refs = append(refs, info.ref)
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })

	s.debug.Printf("discovered %d classes in %q", len(refs), namespace)
	return refs, nil
}

// TypeAnnotationOf returns the type directive found on the class, if any.
func (s *Service) TypeAnnotationOf(class domain.ClassRef) (domain.TypeMeta, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info, ok := s.classes[class.Name]
	if !ok || info.typeMeta == nil {
		return domain.TypeMeta{}, false
	}
	return *info.typeMeta, true
}

// FactoryAnnotationsOf returns the factory directives found on the class's
// methods.
func (s *Service) FactoryAnnotationsOf(class domain.ClassRef) []domain.FactoryMeta {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info, ok := s.classes[class.Name]
	if !ok {
		return nil
	}
	return info.factories
}

// ExtendAnnotationOf returns the extend directive found on the class, if
// any.
func (s *Service) ExtendAnnotationOf(class domain.ClassRef) (domain.ExtendMeta, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info, ok := s.classes[class.Name]
	if !ok || info.extend == nil {
		return domain.ExtendMeta{}, false
	}
	return *info.extend, true
}

// scanDir walks a directory tree parsing every source file. Individual
// parse failures are skipped, not propagated.
func (s *Service) scanDir(dir string, collected map[string]*classInfo) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if s.skipDir(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if !s.parseableFile(info.Name()) {
			return nil
		}

		fileSet := token.NewFileSet()
		astFile, err := goparser.ParseFile(fileSet, path, nil, goparser.ParseComments)
		if err != nil {
			s.debug.Printf("skipping unparseable file %s: %v", path, err)
			return nil
		}

		s.collectFile(astFile.Name.Name, path, astFile, collected)
		return nil
	})
}

func (s *Service) skipDir(name string) bool {
	if name == "vendor" || name == "testdata" {
		return true
	}
	if strings.HasPrefix(name, ".") && name != "." {
		return true
	}
	if strings.HasPrefix(name, "_") {
		return true
	}
	if _, excluded := s.excludes[name]; excluded {
		return true
	}
	return false
}

// skipPackageByPrefix reports whether an import path falls outside the
// configured prefixes. No prefixes means nothing is skipped.
func (s *Service) skipPackageByPrefix(importPath string) bool {
	if len(s.packagePrefixes) == 0 {
		return false
	}
	for _, prefix := range s.packagePrefixes {
		if strings.HasPrefix(importPath, prefix) {
			return false
		}
	}
	return true
}

func (s *Service) parseableFile(name string) bool {
	if !strings.HasSuffix(name, s.parseExtension) {
		return false
	}
	return !strings.HasSuffix(name, "_test"+s.parseExtension)
}

// collectFile registers the structs and annotated methods declared in one
// parsed file under the given package qualifier.
func (s *Service) collectFile(pkg, path string, astFile *ast.File, collected map[string]*classInfo) {
	for _, decl := range astFile.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			if d.Tok != token.TYPE {
				continue
			}
			for _, spec := range d.Specs {
				typeSpec, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				if _, ok := typeSpec.Type.(*ast.StructType); !ok {
					continue
				}

				doc := typeSpec.Doc
				if doc == nil {
					doc = d.Doc
				}
				s.collectStruct(pkg, path, typeSpec.Name.Name, doc, collected)
			}

		case *ast.FuncDecl:
			if d.Recv == nil || d.Doc == nil {
				continue
			}
			recv := receiverTypeName(d.Recv)
			if recv == "" {
				continue
			}
			s.collectMethod(pkg, recv, d.Name.Name, d.Doc, collected)
		}
	}
}

func (s *Service) collectStruct(pkg, path, name string, doc *ast.CommentGroup, collected map[string]*classInfo) {
	qualified := pkg + "." + name
	info := getOrCreate(collected, qualified)
	info.ref.SourcePath = path

	if doc == nil {
		return
	}

	directives, malformed := parseDirectives(doc.Text())
	for _, line := range malformed {
		s.debug.Printf("malformed directive on %s: %q", qualified, line)
	}

	for _, d := range directives {
		switch d.kind {
		case directiveType:
			info.typeMeta = &domain.TypeMeta{
				TargetClass: qualify(d.params["target"], pkg),
				Name:        d.params["name"],
			}
		case directiveExtend:
			target := qualify(d.params["target"], pkg)
			if target == "" {
				s.debug.Printf("extend directive on %s has no target, skipping", qualified)
				continue
			}
			info.extend = &domain.ExtendMeta{TargetClass: target}
		case directiveFactory:
			s.debug.Printf("factory directive on struct %s ignored, factories go on methods", qualified)
		}
	}
}

func (s *Service) collectMethod(pkg, recv, method string, doc *ast.CommentGroup, collected map[string]*classInfo) {
	qualified := pkg + "." + recv

	directives, malformed := parseDirectives(doc.Text())
	for _, line := range malformed {
		s.debug.Printf("malformed directive on %s.%s: %q", qualified, method, line)
	}

	for _, d := range directives {
		if d.kind != directiveFactory {
			s.debug.Printf("%s directive on method %s.%s ignored", d.kind, qualified, method)
			continue
		}
		target := qualify(d.params["target"], pkg)
		if target == "" {
			s.debug.Printf("factory directive on %s.%s has no target, skipping", qualified, method)
			continue
		}

		info := getOrCreate(collected, qualified)
		info.factories = append(info.factories, domain.FactoryMeta{
			Method:      method,
			TargetClass: target,
			InputName:   d.params["input"],
		})
	}
}

func getOrCreate(collected map[string]*classInfo, qualified string) *classInfo {
	info, ok := collected[qualified]
	if !ok {
		info = &classInfo{ref: domain.ClassRef{Name: qualified}}
		collected[qualified] = info
	}
	return info
}

func receiverTypeName(recv *ast.FieldList) string {
	if len(recv.List) == 0 {
		return ""
	}
	expr := recv.List[0].Type
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	// generic receivers carry index expressions
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.IndexExpr:
		if ident, ok := e.X.(*ast.Ident); ok {
			return ident.Name
		}
	case *ast.IndexListExpr:
		if ident, ok := e.X.(*ast.Ident); ok {
			return ident.Name
		}
	}
	return ""
}
