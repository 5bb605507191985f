package analyze

import (
	"go/build"
	"os"
	"path/filepath"
	"strings"
)

// stdPackages caches which import paths belong to the standard library.
type stdPackages map[string]bool

// contains reports whether pkgPath is a standard library package. Paths whose
// first element contains a dot never are; the rest are looked up in GOROOT.
func (s stdPackages) contains(pkgPath string) bool {
	if pkgPath == "" {
		return true
	}

	if known, ok := s[pkgPath]; ok {
		return known
	}

	first, _, _ := strings.Cut(pkgPath, "/")

	std := false
	if !strings.Contains(first, ".") && build.Default.GOROOT != "" {
		info, err := os.Stat(filepath.Join(build.Default.GOROOT, "src", filepath.FromSlash(pkgPath)))
		std = err == nil && info.IsDir()
	}

	s[pkgPath] = std

	return std
}
