package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/typegraph/typegraph/internal/domain"
)

func TestDeriveName(t *testing.T) {
	tests := []struct {
		name     string
		class    string
		meta     domain.TypeMeta
		expected string
	}{
		{
			name:     "strips Type suffix",
			class:    "shop.UserType",
			meta:     domain.TypeMeta{TargetClass: "shop.User"},
			expected: "User",
		},
		{
			name:     "annotation name wins",
			class:    "shop.UserType",
			meta:     domain.TypeMeta{TargetClass: "shop.User", Name: "Customer"},
			expected: "Customer",
		},
		{
			name:     "strips GQL suffix",
			class:    "shop.OrderGQL",
			meta:     domain.TypeMeta{},
			expected: "Order",
		},
		{
			name:     "no suffix left alone",
			class:    "shop.Invoice",
			meta:     domain.TypeMeta{},
			expected: "Invoice",
		},
		{
			name:     "title cases lowercase identifiers",
			class:    "shop.orgAccount",
			meta:     domain.TypeMeta{},
			expected: "OrgAccount",
		},
		{
			name:     "class named exactly Type keeps its name",
			class:    "shop.Type",
			meta:     domain.TypeMeta{},
			expected: "Type",
		},
		{
			name:     "unqualified class",
			class:    "UserType",
			meta:     domain.TypeMeta{},
			expected: "User",
		},
	}

	s := NewStrategy()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, s.DeriveName(tt.class, tt.meta))
		})
	}
}

func TestDeriveName_Deterministic(t *testing.T) {
	s := NewStrategy()
	meta := domain.TypeMeta{TargetClass: "shop.User"}

	first := s.DeriveName("shop.UserType", meta)
	second := s.DeriveName("shop.UserType", meta)
	assert.Equal(t, first, second)
}

func TestDeriveName_Overrides(t *testing.T) {
	s := NewStrategy(WithOverrides(map[string]string{
		"shop.UserType": "Member",
	}))

	assert.Equal(t, "Member", s.DeriveName("shop.UserType", domain.TypeMeta{Name: "Customer"}))
	assert.Equal(t, "Order", s.DeriveName("shop.OrderType", domain.TypeMeta{}))
}

func TestDeriveInputName(t *testing.T) {
	tests := []struct {
		name     string
		class    string
		meta     domain.FactoryMeta
		expected string
	}{
		{
			name:     "derived from target class",
			class:    "shop.UserFactory",
			meta:     domain.FactoryMeta{Method: "Create", TargetClass: "shop.User"},
			expected: "UserInput",
		},
		{
			name:     "annotation input name wins",
			class:    "shop.UserFactory",
			meta:     domain.FactoryMeta{Method: "Create", TargetClass: "shop.User", InputName: "NewUser"},
			expected: "NewUser",
		},
		{
			name:     "falls back to factory class without target",
			class:    "shop.OrderFactory",
			meta:     domain.FactoryMeta{Method: "Create"},
			expected: "OrderFactoryInput",
		},
	}

	s := NewStrategy()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, s.DeriveInputName(tt.class, tt.meta))
		})
	}
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "UserType", BaseName("shop/internal.UserType"))
	assert.Equal(t, "UserType", BaseName("shop.UserType"))
	assert.Equal(t, "UserType", BaseName("UserType"))
}
