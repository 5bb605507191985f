// Package mapping resolves directional property mapping tables.
//
// A Table maps each source property to its target property, an optional
// custom mapper function and an optional collection item type. Tables are
// built per direction and are not inverses of each other: the backward table
// only mirrors the forward one when Resolve is seeded with Invert().
//
// Resolution precedence for a source field:
//  1. its `mapto` annotation
//  2. the seed entry for the same property
//  3. identity
//
// The collection item type comes from the field's own `mapcollection`
// annotation, else from the seed entry.
package mapping
