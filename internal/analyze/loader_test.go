package analyze

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	entityPkg = "mapper-generator/examples/accounts/entity"
	dtoPkg    = "mapper-generator/examples/accounts/dto"
)

func TestAnalyzer_LoadPackages(t *testing.T) {
	analyzer := NewAnalyzer()
	infos, err := analyzer.LoadPackages(entityPkg, dtoPkg)
	require.NoError(t, err)
	require.Len(t, infos, 2)

	assert.Equal(t, dtoPkg, infos[0].Path)
	assert.Equal(t, "dto", infos[0].Name)
	assert.Equal(t, []TypeID{
		{PkgPath: dtoPkg, Name: "AddressDTO"},
		{PkgPath: dtoPkg, Name: "UserReadDTO"},
		{PkgPath: dtoPkg, Name: "UserProfileDTO"},
	}, infos[0].Structs)

	entity, ok := analyzer.Package(entityPkg)
	require.True(t, ok)
	assert.Contains(t, entity.Structs, TypeID{PkgPath: entityPkg, Name: "User"})
	assert.NotContains(t, entity.Structs, TypeID{PkgPath: entityPkg, Name: "Status"}, "named ints are not structs")
}

func TestAnalyzer_ExtractUser(t *testing.T) {
	analyzer := NewAnalyzer()
	schema, err := analyzer.Extract(TypeID{PkgPath: entityPkg, Name: "User"})
	require.NoError(t, err)

	t.Log(spew.Sdump(schema.FieldAnnotations))

	var names []string
	for _, f := range schema.Fields {
		names = append(names, f.Name)
		assert.False(t, f.Exported, f.Name)
	}

	assert.Equal(t, []string{"id", "name", "address", "addresses", "status", "createdAt"}, names)

	addresses, ok := schema.Field("addresses")
	require.True(t, ok)
	assert.Equal(t, TypeKindSlice, addresses.Type.Kind)
	assert.Equal(t, TypeKindStruct, addresses.Type.Elem.Kind)

	status, _ := schema.Field("status")
	assert.Equal(t, TypeKindNamed, status.Type.Kind)
	assert.Equal(t, TypeKindBasic, status.Type.Underlying.Kind)

	createdAt, _ := schema.Field("createdAt")
	assert.Equal(t, TypeKindOpaque, createdAt.Type.Kind, "time.Time is copied as is")

	assert.Equal(t, FieldAnnotation{TargetName: "userID"}, schema.FieldAnnotations["id"])
	assert.Equal(t, FieldAnnotation{TargetName: "status", CustomMapper: "StatusLabel"}, schema.FieldAnnotations["status"])
	assert.Equal(t, FieldAnnotation{
		TargetName:     "emails",
		CollectionItem: TypeID{PkgPath: entityPkg, Name: "Address"},
	}, schema.FieldAnnotations["addresses"])
	assert.NotContains(t, schema.FieldAnnotations, "address")
}

func TestAnalyzer_ExtractMethods(t *testing.T) {
	analyzer := NewAnalyzer()
	schema, err := analyzer.Extract(TypeID{PkgPath: entityPkg, Name: "User"})
	require.NoError(t, err)

	var accessors []string
	for _, m := range schema.Accessors {
		accessors = append(accessors, m.Property+"="+m.Name)
	}

	assert.Equal(t, []string{
		"id=GetID",
		"name=GetName",
		"address=GetAddress",
		"addresses=GetAddresses",
		"status=GetStatus",
		"createdAt=GetCreatedAt",
	}, accessors)

	var mutators []string
	for _, m := range schema.Mutators {
		mutators = append(mutators, m.Property+"="+m.Name)
	}

	assert.Equal(t, []string{"status=SetStatus", "createdAt=SetCreatedAt"}, mutators)

	setter, ok := schema.Mutator("status")
	require.True(t, ok)
	assert.Equal(t, "Status", setter.Type.ID.Name)
}

func TestAnalyzer_ExtractConstructor(t *testing.T) {
	analyzer := NewAnalyzer()

	user, err := analyzer.Extract(TypeID{PkgPath: entityPkg, Name: "User"})
	require.NoError(t, err)
	require.NotNil(t, user.Constructor)

	ctor := user.Constructor
	assert.Equal(t, "NewUser", ctor.Name)
	assert.True(t, ctor.ReturnsPointer)
	require.Len(t, ctor.Params, 4)
	assert.Equal(t, "id", ctor.Params[0].Property)
	assert.False(t, ctor.Params[0].HasDefault)

	variadic := ctor.Params[3]
	assert.Equal(t, "addresses", variadic.Name)
	assert.True(t, variadic.Variadic)
	assert.True(t, variadic.HasDefault)
	assert.Equal(t, TypeKindSlice, variadic.Type.Kind)

	address, err := analyzer.Extract(TypeID{PkgPath: entityPkg, Name: "Address"})
	require.NoError(t, err)
	assert.Nil(t, address.Constructor)
	assert.Empty(t, address.ConstructorParams())
}

func TestAnalyzer_ExtractDTO(t *testing.T) {
	analyzer := NewAnalyzer()

	read, err := analyzer.Extract(TypeID{PkgPath: dtoPkg, Name: "UserReadDTO"})
	require.NoError(t, err)

	require.NotNil(t, read.ClassAnnotation)
	assert.Equal(t, entityPkg+".User", read.ClassAnnotation.PairedSource)
	assert.Equal(t, "UserReadMapper", read.ClassAnnotation.MapperName)

	var params []string
	for _, p := range read.ConstructorParams() {
		params = append(params, p.Property)
	}

	assert.Equal(t, []string{"userID", "fullName", "address", "emails", "status"}, params)

	profile, err := analyzer.Extract(TypeID{PkgPath: dtoPkg, Name: "UserProfileDTO"})
	require.NoError(t, err)
	assert.Nil(t, profile.ClassAnnotation)
	assert.Nil(t, profile.Constructor)

	w, ok := profile.Writer("displayName")
	require.True(t, ok)
	assert.Equal(t, "DisplayName", w.Field)
	assert.Empty(t, w.Mutator)
}

func TestAnalyzer_ExtractErrors(t *testing.T) {
	analyzer := NewAnalyzer()

	_, err := analyzer.Extract(TypeID{PkgPath: entityPkg, Name: "Missing"})

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, entityPkg+".Missing", schemaErr.Type)
	assert.True(t, errors.Is(err, ErrTypeNotFound))

	_, err = analyzer.Extract(TypeID{PkgPath: entityPkg, Name: "Status"})
	require.ErrorIs(t, err, ErrNotStruct)

	_, err = analyzer.Extract(TypeID{PkgPath: "mapper-generator/examples/nope", Name: "User"})
	require.ErrorAs(t, err, &schemaErr)
}

func TestReadablesAndWriters(t *testing.T) {
	analyzer := NewAnalyzer()
	user, err := analyzer.Extract(TypeID{PkgPath: entityPkg, Name: "User"})
	require.NoError(t, err)

	readables := user.Readables()
	require.Len(t, readables, 6)
	assert.Equal(t, "GetID", readables[0].Accessor)

	w, ok := user.Writer("status")
	require.True(t, ok)
	assert.Equal(t, "SetStatus", w.Mutator)

	_, ok = user.Writer("name")
	assert.False(t, ok, "private fields without setters are not writable")
}

func TestAnalyzer_ExtractSelfReferentialTypes(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/tree\n\ngo 1.24\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "node.go"), []byte(`package tree

type Attrs map[string]Attrs

type List []List

type Node struct {
	Attrs    Attrs
	Children List
}
`), 0o600))

	analyzer := NewAnalyzer()
	analyzer.Dir = dir

	node, err := analyzer.Extract(TypeID{PkgPath: "example.com/tree", Name: "Node"})
	require.NoError(t, err)

	attrs, ok := node.Field("Attrs")
	require.True(t, ok)
	assert.Equal(t, TypeKindNamed, attrs.Type.Kind)
	require.NotNil(t, attrs.Type.Underlying)
	assert.Equal(t, TypeKindMap, attrs.Type.Underlying.Kind)

	inner := attrs.Type.Underlying.Elem
	assert.Equal(t, TypeID{PkgPath: "example.com/tree", Name: "Attrs"}, inner.ID)
	assert.Nil(t, inner.Underlying)

	children, ok := node.Field("Children")
	require.True(t, ok)
	require.NotNil(t, children.Type.Underlying)
	assert.Equal(t, TypeKindSlice, children.Type.Underlying.Kind)
	assert.Nil(t, children.Type.Underlying.Elem.Underlying)
}
