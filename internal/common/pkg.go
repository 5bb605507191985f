package common

import (
	"path"
	"strings"
)

// PkgAlias returns the package alias (last element of path) for a given package path.
// Returns empty string if pkgPath is empty.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	return path.Base(pkgPath)
}

// ParentSegment returns the path element preceding the last one:
// "app/shipping/model" -> "shipping". Single-element paths yield "".
func ParentSegment(pkgPath string) string {
	dir := path.Dir(pkgPath)
	if dir == "." || dir == "/" {
		return ""
	}

	return path.Base(dir)
}

// SplitQualified splits "import/path.Name" into its package path and name.
// An unqualified name is returned with an empty package path.
func SplitQualified(s string) (pkgPath, name string) {
	slash := strings.LastIndex(s, "/")

	dot := strings.LastIndex(s, ".")
	if dot <= slash {
		return "", s
	}

	return s[:dot], s[dot+1:]
}

// ReplaceSegment replaces every path element equal to from with to.
func ReplaceSegment(pkgPath, from, to string) string {
	if from == "" || from == to {
		return pkgPath
	}

	parts := strings.Split(pkgPath, "/")
	for i, p := range parts {
		if p == from {
			parts[i] = to
		}
	}

	return strings.Join(parts, "/")
}
