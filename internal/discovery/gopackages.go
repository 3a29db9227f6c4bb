package discovery

import (
	"fmt"
	"go/token"
	"path/filepath"

	"golang.org/x/tools/go/packages"
)

// scanGoPackages loads sources through go/packages instead of walking the
// directory tree. The namespace is treated as a directory whose packages
// are loaded recursively; patterns like ./... work as well.
func (s *Service) scanGoPackages(namespace string, collected map[string]*classInfo) error {
	mode := packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles | packages.NeedSyntax
	if s.dependencyDepth > 0 {
		mode |= packages.NeedImports | packages.NeedDeps
	}

	pattern := namespace
	if abs, err := filepath.Abs(namespace); err == nil {
		pattern = abs + "/..."
	}

	fset := token.NewFileSet()
	pkgs, err := packages.Load(&packages.Config{
		Mode: mode,
		Fset: fset,
	}, pattern)
	if err != nil {
		return fmt.Errorf("loading packages for %q: %w", namespace, err)
	}

	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			return fmt.Errorf("loading package %s: %w", pkg.PkgPath, e)
		}
	}

	seen := make(map[string]struct{})
	s.walkPackages(pkgs, collected, seen, 0)
	return nil
}

func (s *Service) walkPackages(pkgs []*packages.Package, collected map[string]*classInfo, seen map[string]struct{}, level int) {
	for _, pkg := range pkgs {
		if _, ok := seen[pkg.PkgPath]; ok {
			continue
		}
		seen[pkg.PkgPath] = struct{}{}

		if s.skipPackageByPrefix(pkg.PkgPath) {
			continue
		}

		for i, file := range pkg.CompiledGoFiles {
			if i >= len(pkg.Syntax) {
				break
			}
			base := filepath.Base(file)
			if !s.parseableFile(base) {
				continue
			}
			s.collectFile(pkg.Name, file, pkg.Syntax[i], collected)
		}

		if s.dependencyDepth > 0 && level < s.dependencyDepth {
			imports := make([]*packages.Package, 0, len(pkg.Imports))
			for _, dep := range pkg.Imports {
				imports = append(imports, dep)
			}
			s.walkPackages(imports, collected, seen, level+1)
		}
	}
}
