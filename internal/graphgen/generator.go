// Package graphgen provides reflection-driven default implementations of
// the type object generators. They map the exported fields of an annotated
// class instance to GraphQL scalar fields — enough for schema inspection
// and for tests; applications with richer field semantics plug in their own
// generators.
package graphgen

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/graphql-go/graphql"

	"github.com/typegraph/typegraph/internal/domain"
)

// Generator builds output type objects from class instances.
type Generator struct{}

// NewGenerator creates a Generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Build constructs a GraphQL object named name from the exported fields of
// instance.
func (g *Generator) Build(instance interface{}, name string, recursive domain.RecursiveResolver) (*graphql.Object, error) {
	fields, err := scalarFields(instance)
	if err != nil {
		return nil, fmt.Errorf("building type %q: %w", name, err)
	}
	return graphql.NewObject(graphql.ObjectConfig{
		Name:   name,
		Fields: fields,
	}), nil
}

// Extend adds the extender instance's exported fields to base, skipping
// names base already defines. Extenders are expected to be commutative;
// the resolver facade applies them in sorted class order regardless.
func (g *Generator) Extend(instance interface{}, base *graphql.Object, recursive domain.RecursiveResolver) (*graphql.Object, error) {
	fields, err := scalarFields(instance)
	if err != nil {
		return nil, fmt.Errorf("extending type %q: %w", base.Name(), err)
	}
	existing := base.Fields()
	for fieldName, field := range fields {
		if _, ok := existing[fieldName]; ok {
			continue
		}
		base.AddFieldConfig(fieldName, field)
	}
	return base, nil
}

// InputGenerator builds input type objects from factory class instances.
type InputGenerator struct{}

// NewInputGenerator creates an InputGenerator.
func NewInputGenerator() *InputGenerator {
	return &InputGenerator{}
}

// Build constructs a GraphQL input object named name. The fields come from
// the struct parameter of the factory's annotated method; when the method
// cannot be reflected the factory instance's own fields are used.
func (i *InputGenerator) Build(instance interface{}, method string, name string, recursive domain.RecursiveResolver) (*graphql.InputObject, error) {
	source := instance
	if m := reflect.ValueOf(instance).MethodByName(method); m.IsValid() {
		mt := m.Type()
		for arg := 0; arg < mt.NumIn(); arg++ {
			if mt.In(arg).Kind() == reflect.Struct {
				source = reflect.New(mt.In(arg)).Elem().Interface()
				break
			}
		}
	}

	fields, err := scalarFields(source)
	if err != nil {
		return nil, fmt.Errorf("building input type %q: %w", name, err)
	}

	inputFields := graphql.InputObjectConfigFieldMap{}
	for fieldName, field := range fields {
		inputFields[fieldName] = &graphql.InputObjectFieldConfig{Type: field.Type}
	}
	return graphql.NewInputObject(graphql.InputObjectConfig{
		Name:   name,
		Fields: inputFields,
	}), nil
}

// scalarFields maps the exported fields of instance to GraphQL scalars.
// Fields of unsupported kinds are skipped, not errors.
func scalarFields(instance interface{}) (graphql.Fields, error) {
	v := reflect.ValueOf(instance)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, fmt.Errorf("nil instance")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("instance of kind %s is not a struct", v.Kind())
	}

	fields := graphql.Fields{}
	t := v.Type()
	for idx := 0; idx < t.NumField(); idx++ {
		field := t.Field(idx)
		if field.PkgPath != "" || field.Anonymous {
			continue
		}
		scalar, ok := scalarFor(field)
		if !ok {
			continue
		}
		fields[fieldName(field.Name)] = &graphql.Field{Type: scalar}
	}
	return fields, nil
}

func scalarFor(field reflect.StructField) (graphql.Output, bool) {
	if field.Name == "ID" {
		return graphql.ID, true
	}
	switch field.Type.Kind() {
	case reflect.String:
		return graphql.String, true
	case reflect.Bool:
		return graphql.Boolean, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return graphql.Int, true
	case reflect.Float32, reflect.Float64:
		return graphql.Float, true
	default:
		return nil, false
	}
}

// fieldName lower-cases the leading rune, matching common GraphQL style.
// All-caps initialisms (ID, URL) drop to lower case entirely.
func fieldName(name string) string {
	if name == strings.ToUpper(name) {
		return strings.ToLower(name)
	}
	runes := []rune(name)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}
