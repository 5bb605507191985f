// Package gen renders mapper source files.
//
// A mapper converts a source type into its target type (the forward method)
// and back (the backward method). Each direction is built either purely
// through the destination constructor, when it has parameters, or by
// instantiating the destination and applying one mutation per mapped
// property.
//
// Every argument or mutation value is derived with a fixed precedence:
//  1. collection of nested types, mapped element-wise through a dependency
//  2. nested type, mapped through a dependency
//  3. custom mapper function
//  4. plain passthrough of the source value
//
// Constructor parameters without a source get the zero value of their type.
//
// Generation uses text/template + go/format on top of a small expression
// model (expr.go) rendered by a printer (printer.go).
package gen
