package plan

import (
	"strings"

	"mapper-generator/internal/analyze"
	"mapper-generator/internal/common"
)

// DefaultSuffix is appended to entity names to find their DTO.
const DefaultSuffix = "DTO"

// mapperSuffix ends every generated mapper name.
const mapperSuffix = "Mapper"

// MapperDescriptor identifies one mapper to generate.
type MapperDescriptor struct {
	Name string
	// Package is the import path of the package the mapper is generated into.
	Package    string
	SourceType analyze.TypeID
	TargetType analyze.TypeID
	// Dependencies lists the names of the mappers this one calls.
	Dependencies []string
}

// Pairing derives the DTO type paired with an entity type.
type Pairing struct {
	// SourceSegment is the package path element naming the entity side.
	SourceSegment string
	// TargetSegment replaces SourceSegment in the paired package path.
	TargetSegment string
	// Suffix is appended to the type name when missing.
	Suffix string
}

// Pair maps example.com/app/entity.Address to example.com/app/dto.AddressDTO.
func (p Pairing) Pair(id analyze.TypeID) analyze.TypeID {
	name := id.Name
	if !strings.HasSuffix(name, p.Suffix) {
		name += p.Suffix
	}

	return analyze.TypeID{
		PkgPath: common.ReplaceSegment(id.PkgPath, p.SourceSegment, p.TargetSegment),
		Name:    name,
	}
}

// DefaultMapperName names the mapper of a pair without an explicit name.
// The target suffix is stripped first:
//   - User, UserDTO -> UserMapper
//   - User, UserProfileDTO -> UserToProfileMapper
//   - User, ContactDTO -> UserToContactMapper
func DefaultMapperName(source, target, suffix string) string {
	base := target
	if trimmed := strings.TrimSuffix(target, suffix); trimmed != "" {
		base = trimmed
	}

	if base == source {
		return source + mapperSuffix
	}

	if rest, ok := strings.CutPrefix(base, source); ok && startsUpper(rest) {
		return source + "To" + rest + mapperSuffix
	}

	return source + "To" + base + mapperSuffix
}

func startsUpper(s string) bool {
	return s != "" && s[0] >= 'A' && s[0] <= 'Z'
}
