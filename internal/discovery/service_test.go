package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typegraph/typegraph/internal/domain"
)

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestEnumerate(t *testing.T) {
	dir := t.TempDir()

	userPath := writeSource(t, dir, "shop/user.go", `package shop

// UserType maps the account model.
//
// @gql:type target=User
type UserType struct{}

// User is the account model, not annotated itself.
type User struct {
	ID    string
	Login string
}
`)
	factoryPath := writeSource(t, dir, "shop/factory.go", `package shop

// UserFactory builds users from input payloads.
type UserFactory struct{}

// Create builds a user.
//
// @gql:factory target=User input=UserInput
func (f *UserFactory) Create(login string) *User { return nil }
`)
	writeSource(t, dir, "shop/stats.go", `package shop

// UserStats adds counters to the user type.
//
// @gql:extend target=User
type UserStats struct{}
`)
	// test files and vendor trees are never scanned
	writeSource(t, dir, "shop/user_test.go", `package shop

// @gql:type target=Ghost
type GhostType struct{}
`)
	writeSource(t, dir, "vendor/dep/dep.go", `package dep

// @gql:type target=Vendored
type VendoredType struct{}
`)

	svc := NewService()

	refs, err := svc.Enumerate(dir)
	require.NoError(t, err)

	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		names = append(names, ref.Name)
	}
	assert.Contains(t, names, "shop.UserType")
	assert.Contains(t, names, "shop.UserFactory")
	assert.Contains(t, names, "shop.UserStats")
	assert.Contains(t, names, "shop.User")
	assert.NotContains(t, names, "shop.GhostType")
	assert.NotContains(t, names, "dep.VendoredType")
	assert.IsIncreasing(t, names, "enumeration is sorted")

	t.Run("type annotation", func(t *testing.T) {
		meta, ok := svc.TypeAnnotationOf(domain.ClassRef{Name: "shop.UserType"})
		require.True(t, ok)
		assert.Equal(t, "shop.User", meta.TargetClass, "bare targets are package qualified")
		assert.Empty(t, meta.Name)

		_, ok = svc.TypeAnnotationOf(domain.ClassRef{Name: "shop.User"})
		assert.False(t, ok, "unannotated structs carry no type meta")
	})

	t.Run("factory annotation", func(t *testing.T) {
		factories := svc.FactoryAnnotationsOf(domain.ClassRef{Name: "shop.UserFactory"})
		require.Len(t, factories, 1)
		assert.Equal(t, domain.FactoryMeta{
			Method:      "Create",
			TargetClass: "shop.User",
			InputName:   "UserInput",
		}, factories[0])
	})

	t.Run("extend annotation", func(t *testing.T) {
		meta, ok := svc.ExtendAnnotationOf(domain.ClassRef{Name: "shop.UserStats"})
		require.True(t, ok)
		assert.Equal(t, "shop.User", meta.TargetClass)
	})

	t.Run("source paths point at declarations", func(t *testing.T) {
		for _, ref := range refs {
			switch ref.Name {
			case "shop.UserType", "shop.User":
				assert.Equal(t, userPath, ref.SourcePath)
			case "shop.UserFactory":
				assert.Equal(t, factoryPath, ref.SourcePath)
			}
		}
	})
}

func TestEnumerate_MalformedDirectivesSkipped(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "bad.go", `package bad

// @gql:type target=
type BrokenType struct{}

// @gql:type target=Good
type GoodType struct{}
`)

	svc := NewService()

	_, err := svc.Enumerate(dir)
	require.NoError(t, err)

	_, ok := svc.TypeAnnotationOf(domain.ClassRef{Name: "bad.BrokenType"})
	assert.False(t, ok, "malformed directives are dropped")

	meta, ok := svc.TypeAnnotationOf(domain.ClassRef{Name: "bad.GoodType"})
	require.True(t, ok)
	assert.Equal(t, "bad.Good", meta.TargetClass)
}

func TestEnumerate_Excludes(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "keep/keep.go", `package keep

// @gql:type target=Kept
type KeptType struct{}
`)
	writeSource(t, dir, "skip/skip.go", `package skip

// @gql:type target=Skipped
type SkippedType struct{}
`)

	svc := NewService(WithExcludes(map[string]struct{}{"skip": {}}))

	refs, err := svc.Enumerate(dir)
	require.NoError(t, err)

	for _, ref := range refs {
		assert.NotEqual(t, "skip.SkippedType", ref.Name)
	}
}

func TestEnumerate_UnparseableFileSkipped(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "broken.go", `this is not go`)
	writeSource(t, dir, "ok.go", `package ok

// @gql:type target=Fine
type FineType struct{}
`)

	svc := NewService()

	refs, err := svc.Enumerate(dir)
	require.NoError(t, err)
	require.NotEmpty(t, refs)
}

func TestEnumerate_FactoryOnPointerReceiver(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "f.go", `package f

// Factory declared with a value receiver method below.
type Factory struct{}

// @gql:factory target=Thing
func (Factory) Make() {}

// Thing is the target.
type Thing struct{}
`)

	svc := NewService()

	_, err := svc.Enumerate(dir)
	require.NoError(t, err)

	factories := svc.FactoryAnnotationsOf(domain.ClassRef{Name: "f.Factory"})
	require.Len(t, factories, 1)
	assert.Equal(t, "f.Thing", factories[0].TargetClass)
	assert.Empty(t, factories[0].InputName)
}
