package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapper-generator/internal/analyze"
)

var address = analyze.TypeID{PkgPath: "example.com/app/entity", Name: "Address"}

// userSchema mirrors an entity whose id is exported as uid.
func userSchema() *analyze.TypeSchema {
	return &analyze.TypeSchema{
		ID: analyze.TypeID{PkgPath: "example.com/app/entity", Name: "User"},
		Fields: []analyze.Field{
			{Name: "id", Property: "id", Type: analyze.Basic("int")},
			{Name: "name", Property: "name", Type: analyze.Basic("string")},
			{Name: "addresses", Property: "addresses", Type: analyze.SliceOf(analyze.StructRef(address))},
		},
		FieldAnnotations: map[string]analyze.FieldAnnotation{
			"id":        {TargetName: "uid"},
			"name":      {TargetName: "fullName", CustomMapper: "Upper"},
			"addresses": {TargetName: "emails", CollectionItem: address},
		},
	}
}

// userDTOSchema is the target side without annotations.
func userDTOSchema() *analyze.TypeSchema {
	return &analyze.TypeSchema{
		ID: analyze.TypeID{PkgPath: "example.com/app/dto", Name: "UserDTO"},
		Fields: []analyze.Field{
			{Name: "UID", Property: "uid", Type: analyze.Basic("int"), Exported: true},
			{Name: "FullName", Property: "fullName", Type: analyze.Basic("string"), Exported: true},
			{Name: "Emails", Property: "emails", Type: analyze.SliceOf(analyze.Basic("string")), Exported: true},
			{Name: "Extra", Property: "extra", Type: analyze.Basic("string"), Exported: true},
		},
		FieldAnnotations: map[string]analyze.FieldAnnotation{},
	}
}

func TestResolve_Forward(t *testing.T) {
	table := Resolve(userSchema(), nil)
	require.Equal(t, 3, table.Len())

	assert.Equal(t, []Entry{
		{SourceField: "id", TargetField: "uid"},
		{SourceField: "name", TargetField: "fullName", CustomMapper: "Upper"},
		{SourceField: "addresses", TargetField: "emails", CollectionItem: address},
	}, table.Entries())
}

func TestResolve_BackwardUnseededDefaultsToIdentity(t *testing.T) {
	backward := Resolve(userDTOSchema(), nil)

	e, ok := backward.Get("uid")
	require.True(t, ok)
	assert.Equal(t, "uid", e.TargetField, "without a seed uid maps to itself, not to id")
	assert.False(t, backward.Lookup("emails").HasCollectionItem())
}

func TestResolve_BackwardSeededWithInverse(t *testing.T) {
	forward := Resolve(userSchema(), nil)
	backward := Resolve(userDTOSchema(), forward.Invert())

	assert.Equal(t, "id", backward.Lookup("uid").TargetField)
	assert.Equal(t, "name", backward.Lookup("fullName").TargetField)
	assert.False(t, backward.Lookup("fullName").HasCustomMapper(), "custom mappers are one-way")

	emails := backward.Lookup("emails")
	assert.Equal(t, "addresses", emails.TargetField)
	assert.Equal(t, address, emails.CollectionItem, "collection item is inherited from the seed")

	assert.Equal(t, "extra", backward.Lookup("extra").TargetField)
}

func TestResolve_AnnotationBeatsSeed(t *testing.T) {
	dto := userDTOSchema()
	dto.FieldAnnotations["UID"] = analyze.FieldAnnotation{TargetName: "legacyID", CustomMapper: "ParseID"}

	backward := Resolve(dto, Resolve(userSchema(), nil).Invert())

	assert.Equal(t, Entry{SourceField: "uid", TargetField: "legacyID", CustomMapper: "ParseID"}, backward.Lookup("uid"))
}

func TestResolve_CollectionOnlyAnnotationKeepsSeedTarget(t *testing.T) {
	dto := userDTOSchema()
	item := analyze.TypeID{PkgPath: "example.com/app/dto", Name: "AddressDTO"}
	dto.FieldAnnotations["Emails"] = analyze.FieldAnnotation{CollectionItem: item}

	backward := Resolve(dto, Resolve(userSchema(), nil).Invert())

	emails := backward.Lookup("emails")
	assert.Equal(t, "addresses", emails.TargetField)
	assert.Equal(t, item, emails.CollectionItem)
}

func TestTable_Invert(t *testing.T) {
	table := NewTable()
	table.Put(Entry{SourceField: "a", TargetField: "x"})
	table.Put(Entry{SourceField: "b", TargetField: "x"})
	table.Put(Entry{SourceField: "c", TargetField: "y", CustomMapper: "F"})

	inverted := table.Invert()
	assert.Equal(t, []Entry{
		{SourceField: "x", TargetField: "a"},
		{SourceField: "y", TargetField: "c"},
	}, inverted.Entries())
}

func TestTable_NilIsEmpty(t *testing.T) {
	var table *Table

	_, ok := table.Get("id")
	assert.False(t, ok)
	assert.Zero(t, table.Len())
	assert.Empty(t, table.Entries())
	assert.Equal(t, Identity("id"), table.Lookup("id"))
}
