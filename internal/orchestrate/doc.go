// Package orchestrate drives one generation run.
//
// A run validates its Config, optionally clears previously generated files,
// loads the entity and DTO packages, and builds a worklist of pairs: override
// file entries first, then `//mapper:from` directives, then every DTO named
// after an entity (User -> UserDTO, UserReadDTO). Pairs are processed one at
// a time; the dependency mappers a pair needs join the end of the worklist.
// A pair whose output file already exists is skipped, so runs are idempotent.
package orchestrate
