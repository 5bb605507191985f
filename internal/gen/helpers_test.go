package gen

import (
	"mapper-generator/internal/analyze"
)

const (
	entityPkg = "example.com/app/entity"
	dtoPkg    = "example.com/app/dto"
	outPkg    = "example.com/app/mappers"
)

func entityID(name string) analyze.TypeID {
	return analyze.TypeID{PkgPath: entityPkg, Name: name}
}

func dtoID(name string) analyze.TypeID {
	return analyze.TypeID{PkgPath: dtoPkg, Name: name}
}

func entityRef(name string) analyze.TypeRef {
	return analyze.TypeRef{Kind: analyze.TypeKindStruct, ID: entityID(name), PkgName: "entity"}
}

func dtoRef(name string) analyze.TypeRef {
	return analyze.TypeRef{Kind: analyze.TypeKindStruct, ID: dtoID(name), PkgName: "dto"}
}

func schema(id analyze.TypeID, pkgName string) *analyze.TypeSchema {
	return &analyze.TypeSchema{ID: id, PkgName: pkgName, FieldAnnotations: map[string]analyze.FieldAnnotation{}}
}

func field(name, property string, t analyze.TypeRef) analyze.Field {
	return analyze.Field{Name: name, Property: property, Type: t, Exported: true}
}

func testConfig() GeneratorConfig {
	cfg := DefaultGeneratorConfig()
	cfg.PackagePath = outPkg
	cfg.OutputDir = ""

	return cfg
}
