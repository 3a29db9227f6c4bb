package discovery

import (
	"go/build"
	goparser "go/parser"
	"go/token"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/KyleBanks/depth"
)

// scanDependencies resolves the import tree of the scanned directory and
// collects annotated classes from imported packages, up to the configured
// depth. Traversal is best effort; packages that cannot be resolved are
// logged and skipped.
func (s *Service) scanDependencies(dir string, collected map[string]*classInfo) {
	pkgName, err := pkgImportPath(dir)
	if err != nil {
		s.debug.Printf("dependency scan skipped, cannot resolve import path of %s: %v", dir, err)
		return
	}

	var t depth.Tree
	t.ResolveInternal = true
	t.MaxDepth = s.dependencyDepth

	if err := t.Resolve(pkgName); err != nil {
		s.debug.Printf("dependency scan skipped, cannot resolve tree of %s: %v", pkgName, err)
		return
	}

	visited := make(map[string]struct{})
	if abs, err := filepath.Abs(dir); err == nil {
		visited[abs] = struct{}{}
	}

	for i := 0; i < len(t.Root.Deps); i++ {
		s.collectFromDepth(&t.Root.Deps[i], visited, collected)
	}
}

func (s *Service) collectFromDepth(pkg *depth.Pkg, visited map[string]struct{}, collected map[string]*classInfo) {
	if !pkg.Resolved {
		return
	}
	if pkg.Internal && !s.parseInternal {
		return
	}
	if pkg.Raw == nil {
		return
	}
	if s.skipPackageByPrefix(pkg.Raw.ImportPath) {
		return
	}

	srcDir := pkg.Raw.Dir
	if _, ok := visited[srcDir]; ok {
		return
	}
	visited[srcDir] = struct{}{}

	entries, err := os.ReadDir(srcDir)
	if err != nil {
		s.debug.Printf("dependency scan skipping %s: %v", srcDir, err)
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !s.parseableFile(entry.Name()) {
			continue
		}
		path := filepath.Join(srcDir, entry.Name())
		fileSet := token.NewFileSet()
		astFile, err := goparser.ParseFile(fileSet, path, nil, goparser.ParseComments)
		if err != nil {
			s.debug.Printf("dependency scan skipping unparseable file %s: %v", path, err)
			continue
		}
		s.collectFile(astFile.Name.Name, path, astFile, collected)
	}

	for i := 0; i < len(pkg.Deps); i++ {
		s.collectFromDepth(&pkg.Deps[i], visited, collected)
	}
}

// pkgImportPath resolves the import path of a directory, preferring go list
// and falling back to go/build.
func pkgImportPath(dir string) (string, error) {
	cmd := exec.Command("go", "list", "-f={{.ImportPath}}")
	cmd.Dir = dir

	var stdout strings.Builder
	cmd.Stdout = &stdout
	if err := cmd.Run(); err == nil {
		out := strings.TrimSpace(stdout.String())
		if lines := strings.Split(out, "\n"); len(lines) > 0 && lines[0] != "" {
			return lines[0], nil
		}
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	pkg, err := build.ImportDir(abs, build.FindOnly)
	if err != nil {
		return "", err
	}
	return pkg.ImportPath, nil
}
