package discovery

import (
	"strings"
)

// Directive kinds recognized in doc comments.
const (
	directiveType    = "type"
	directiveFactory = "factory"
	directiveExtend  = "extend"
)

const directivePrefix = "@gql:"

// directive is one parsed @gql: line.
type directive struct {
	kind   string
	params map[string]string
}

// parseDirectives extracts @gql: directives from a doc comment's text (as
// returned by ast.CommentGroup.Text). Lines that do not carry the prefix
// are ignored; lines that carry it but do not parse are reported so the
// caller can log and skip them.
func parseDirectives(doc string) (directives []directive, malformed []string) {
	for _, line := range strings.Split(doc, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, directivePrefix) {
			continue
		}

		d, ok := parseDirective(line)
		if !ok {
			malformed = append(malformed, line)
			continue
		}
		directives = append(directives, d)
	}
	return directives, malformed
}

func parseDirective(line string) (directive, bool) {
	rest := strings.TrimPrefix(line, directivePrefix)
	parts := strings.Fields(rest)
	if len(parts) == 0 {
		return directive{}, false
	}

	kind := parts[0]
	switch kind {
	case directiveType, directiveFactory, directiveExtend:
	default:
		return directive{}, false
	}

	params := make(map[string]string)
	for _, part := range parts[1:] {
		key, value, ok := strings.Cut(part, "=")
		if !ok || key == "" || value == "" {
			return directive{}, false
		}
		params[key] = value
	}

	return directive{kind: kind, params: params}, true
}

// qualify expands a bare class reference with the package qualifier of the
// annotated class. Dotted references pass through unchanged.
func qualify(target, pkg string) string {
	if target == "" || strings.Contains(target, ".") {
		return target
	}
	return pkg + "." + target
}
