package analyze

import "strings"

// Source produces TypeSchemas. Every call introspects the type afresh.
type Source interface {
	Extract(id TypeID) (*TypeSchema, error)
}

// Scope locates a tree of packages by directory and import path.
type Scope struct {
	Dir     string
	Package string
}

// Contains reports whether pkgPath is the scope package or below it.
func (s Scope) Contains(pkgPath string) bool {
	return pkgPath == s.Package || strings.HasPrefix(pkgPath, s.Package+"/")
}

// Catalog is a Source that can also enumerate the struct types of a scope.
type Catalog interface {
	Source
	Structs(scope Scope) ([]TypeID, error)
}

// ResolveTypeID resolves a type written in one of three forms against known ids:
//   - "example.com/app/entity.User" (full)
//   - "entity.User" (package name or path suffix)
//   - "User" (name only, first match wins)
func ResolveTypeID(s string, known []TypeID) (TypeID, bool) {
	want := ParseTypeID(s)
	if want.Name == "" {
		return TypeID{}, false
	}

	for _, id := range known {
		if id == want {
			return id, true
		}
	}

	for _, id := range known {
		if id.Name != want.Name {
			continue
		}

		if want.PkgPath == "" || strings.HasSuffix(id.PkgPath, "/"+want.PkgPath) {
			return id, true
		}
	}

	return TypeID{}, false
}
