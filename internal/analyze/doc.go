// Package analyze extracts TypeSchemas: the fields, accessors, mutators,
// constructor and mapping annotations of a struct type.
//
// Two front ends produce the same schema:
//   - Analyzer loads source with golang.org/x/tools/go/packages and reads go/types
//   - ManifestSource reads a hand-written YAML manifest
//
// Declarative metadata:
//   - `mapto:"target[,using=Func]"` renames a field on the other side and
//     optionally converts it with Func
//   - `mapcollection:"Item"` names the element type of a collection field
//   - a `//mapper:from Source [name=Mapper]` doc directive pairs a target type
//     with its source type
package analyze
