// Package diagnostic provides structured warnings and errors reported while
// mappers are generated.
//
// Diagnostics never stop generation on their own. Unresolved constructor
// parameters and unmapped properties are reported next to the generated file,
// with spelling suggestions taken from the properties the other side exposes.
package diagnostic
