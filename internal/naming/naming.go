// Package naming derives the externally visible GraphQL names for
// type-defining classes. The derivation is pure: the same (class, meta)
// pair always yields the same name.
package naming

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/typegraph/typegraph/internal/domain"
)

// Strategy is the default naming strategy: an annotation name override wins;
// otherwise the class's base identifier with a "Type" or "GQL" suffix
// stripped, title-cased. Explicit per-class overrides (e.g. from an
// overrides file) take precedence over both.
type Strategy struct {
	caser     cases.Caser
	overrides map[string]string
}

// Option configures a Strategy.
type Option func(*Strategy)

// WithOverrides sets explicit class-to-name overrides.
func WithOverrides(overrides map[string]string) Option {
	return func(s *Strategy) {
		for class, name := range overrides {
			s.overrides[class] = name
		}
	}
}

// NewStrategy creates the default naming strategy.
func NewStrategy(options ...Option) *Strategy {
	s := &Strategy{
		caser:     cases.Title(language.English, cases.NoLower),
		overrides: make(map[string]string),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// DeriveName returns the GraphQL type name for a type-defining class.
func (s *Strategy) DeriveName(class string, meta domain.TypeMeta) string {
	if name, ok := s.overrides[class]; ok {
		return name
	}
	if meta.Name != "" {
		return meta.Name
	}
	return s.caser.String(trimTypeSuffix(BaseName(class)))
}

// DeriveInputName returns the GraphQL input type name for a factory method.
// Without an annotation override the name is the constructed class's base
// name with an "Input" suffix.
func (s *Strategy) DeriveInputName(class string, meta domain.FactoryMeta) string {
	if meta.InputName != "" {
		return meta.InputName
	}
	target := meta.TargetClass
	if target == "" {
		target = class
	}
	return s.caser.String(trimTypeSuffix(BaseName(target))) + "Input"
}

// BaseName strips the package qualifier from a qualified class name.
// "shop/internal.UserType" → "UserType".
func BaseName(class string) string {
	if idx := strings.LastIndex(class, "."); idx >= 0 {
		return class[idx+1:]
	}
	return class
}

func trimTypeSuffix(name string) string {
	for _, suffix := range []string{"Type", "GQL"} {
		if trimmed := strings.TrimSuffix(name, suffix); trimmed != "" && trimmed != name {
			return trimmed
		}
	}
	return name
}
