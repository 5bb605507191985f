// Package plan discovers the nested mappers a mapper depends on and names
// them.
//
// Collector walks the readable properties of a source schema. A property
// needs a dependency mapper when its mapping entry declares a collection item
// type, or when its declared type is a mappable struct, a pointer to one, or
// a slice or array of those. Opaque standard library structs, enums, maps and
// interfaces are copied as is.
//
// The paired type of a nested source type is derived by Pairing; mapper names
// come from a Namer shared across one run so that two pairs never share a
// name. Reference cycles between types are not detected.
package plan
