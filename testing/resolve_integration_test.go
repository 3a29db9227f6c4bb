package testing_test

import (
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typegraph/typegraph/internal/cache"
	"github.com/typegraph/typegraph/internal/container"
	"github.com/typegraph/typegraph/internal/discovery"
	"github.com/typegraph/typegraph/internal/graphgen"
	"github.com/typegraph/typegraph/internal/mapping"
	"github.com/typegraph/typegraph/internal/naming"
	"github.com/typegraph/typegraph/internal/resolver"
	"github.com/typegraph/typegraph/testing/testdata/shop"
)

func newResolver(t *testing.T) *resolver.Service {
	t.Helper()

	discoverer := discovery.NewService()
	index := mapping.NewIndex(discoverer, discoverer, naming.NewStrategy(), "testdata/shop",
		mapping.WithCache(cache.NewMemoryCache()),
	)

	registry := container.New()
	registry.RegisterInstance("shop.UserType", &shop.UserType{})
	registry.RegisterInstance("shop.OrderType", &shop.OrderType{})
	registry.RegisterInstance("shop.UserFactory", &shop.UserFactory{})
	registry.RegisterInstance("shop.UserStats", &shop.UserStats{})
	registry.RegisterInstance("shop.UserBadges", &shop.UserBadges{})

	return resolver.New(index, registry, graphgen.NewGenerator(), graphgen.NewInputGenerator())
}

func TestIntegration_MapClassToType(t *testing.T) {
	svc := newResolver(t)

	obj, err := svc.MapClassToType("shop.User", nil)
	require.NoError(t, err)
	assert.Equal(t, "User", obj.Name())

	fields := obj.Fields()
	assert.Contains(t, fields, "id")
	assert.Contains(t, fields, "login")
	assert.Contains(t, fields, "email")
}

func TestIntegration_ExplicitName(t *testing.T) {
	svc := newResolver(t)

	obj, err := svc.MapClassToType("shop.Order", nil)
	require.NoError(t, err)
	assert.Equal(t, "Purchase", obj.Name(), "annotation name overrides the derived one")

	byName, err := svc.MapNameToType("Purchase", nil)
	require.NoError(t, err)
	named, ok := byName.(*graphql.Object)
	require.True(t, ok)
	assert.Equal(t, "Purchase", named.Name())
}

func TestIntegration_MapClassToInputType(t *testing.T) {
	svc := newResolver(t)

	obj, err := svc.MapClassToInputType("shop.User", nil)
	require.NoError(t, err)
	assert.Equal(t, "UserInput", obj.Name())

	// input fields come from the factory method's draft parameter
	fields := obj.Fields()
	assert.Contains(t, fields, "login")
	assert.Contains(t, fields, "email")
}

func TestIntegration_ExtendTypeForClass(t *testing.T) {
	svc := newResolver(t)

	base, err := svc.MapClassToType("shop.User", nil)
	require.NoError(t, err)

	extended, err := svc.ExtendTypeForClass("shop.User", base, nil)
	require.NoError(t, err)

	fields := extended.Fields()
	assert.Contains(t, fields, "postCount")
	assert.Contains(t, fields, "loginCount")
	assert.Contains(t, fields, "badgeCount")
}

func TestIntegration_CanMap(t *testing.T) {
	svc := newResolver(t)

	assert.True(t, svc.CanMapClassToType("shop.User"))
	assert.True(t, svc.CanMapClassToType("shop.Order"))
	assert.False(t, svc.CanMapClassToType("shop.Unknown"))

	assert.True(t, svc.CanMapClassToInputType("shop.User"))
	assert.False(t, svc.CanMapClassToInputType("shop.Order"))

	assert.True(t, svc.CanMapNameToType("User"))
	assert.True(t, svc.CanMapNameToType("Purchase"))
	assert.True(t, svc.CanMapNameToType("UserInput"))
	assert.False(t, svc.CanMapNameToType("Ghost"))
}

func TestIntegration_UnmappedClass(t *testing.T) {
	svc := newResolver(t)

	_, err := svc.MapClassToType("shop.Unknown", nil)
	require.Error(t, err)

	var unmapped *mapping.UnmappedError
	require.ErrorAs(t, err, &unmapped)
	assert.Equal(t, "shop.Unknown", unmapped.Class)
}

func TestIntegration_SchemaRoundTrip(t *testing.T) {
	// The resolved objects are real graphql-go types, so they drop straight
	// into an executable schema.
	svc := newResolver(t)

	userType, err := svc.MapClassToType("shop.User", nil)
	require.NoError(t, err)
	userType, err = svc.ExtendTypeForClass("shop.User", userType, nil)
	require.NoError(t, err)

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query: graphql.NewObject(graphql.ObjectConfig{
			Name: "Query",
			Fields: graphql.Fields{
				"me": &graphql.Field{
					Type: userType,
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return map[string]interface{}{"login": "ada", "postCount": 3}, nil
					},
				},
			},
		}),
	})
	require.NoError(t, err)

	result := graphql.Do(graphql.Params{
		Schema:        schema,
		RequestString: `{ me { login postCount } }`,
	})
	require.Empty(t, result.Errors)

	me, ok := result.Data.(map[string]interface{})["me"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "ada", me["login"])
	assert.Equal(t, 3, me["postCount"])
}
