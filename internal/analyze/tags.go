package analyze

import (
	"fmt"
	"reflect"
	"strings"

	"mapper-generator/internal/common"
	"mapper-generator/internal/match"
)

// Struct tag keys read by the extractor.
const (
	// TagMapTo holds `mapto:"<target>[,using=<Func>]"`.
	TagMapTo = "mapto"
	// TagMapCollection holds `mapcollection:"<ItemType>"`.
	TagMapCollection = "mapcollection"
)

const usingOption = "using="

// parseFieldAnnotation reads the mapping tags of a field declared in pkgPath.
// The boolean result is false when the field carries no mapping tags.
func parseFieldAnnotation(tag reflect.StructTag, pkgPath string) (FieldAnnotation, bool, error) {
	var (
		ann   FieldAnnotation
		found bool
	)

	if value, ok := tag.Lookup(TagMapTo); ok {
		found = true

		parts := strings.Split(value, ",")

		target := strings.TrimSpace(parts[0])
		if target == "" {
			return ann, false, fmt.Errorf("%s tag requires a target name", TagMapTo)
		}

		ann.TargetName = match.LowerCamel(target)

		for _, opt := range parts[1:] {
			opt = strings.TrimSpace(opt)

			switch {
			case strings.HasPrefix(opt, usingOption) && len(opt) > len(usingOption):
				ann.CustomMapper = strings.TrimPrefix(opt, usingOption)
			case opt == "":
			default:
				return ann, false, fmt.Errorf("unknown %s option %q", TagMapTo, opt)
			}
		}
	}

	if value, ok := tag.Lookup(TagMapCollection); ok {
		found = true

		item := strings.TrimSpace(value)
		if item == "" {
			return ann, false, fmt.Errorf("%s tag requires an item type", TagMapCollection)
		}

		ann.CollectionItem = resolveLocalType(item, pkgPath)
	}

	return ann, found, nil
}

// resolveLocalType resolves a type identifier written relative to pkgPath:
// "Address" and "<pkgname>.Address" name a type of pkgPath itself, anything
// else is taken as a full "import/path.Name".
func resolveLocalType(s, pkgPath string) TypeID {
	id := ParseTypeID(s)

	if id.PkgPath == "" || id.PkgPath == common.PkgAlias(pkgPath) {
		id.PkgPath = pkgPath
	}

	return id
}
