// Package match provides identifier tokenization, canonical property naming
// and Levenshtein-based name suggestions.
//
// Key functions:
//   - LowerCamel: canonical property name for fields, accessors and parameters
//   - SnakeCase: file names for generated mappers
//   - Suggest: closest property names for unresolved mapping diagnostics
package match
