package orchestrate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

var errNoModule = errors.New("no enclosing go.mod")

// importPath derives the import path of dir from the closest go.mod above
// it. dir does not need to exist.
func importPath(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for root := abs; ; {
		data, err := os.ReadFile(filepath.Join(root, "go.mod"))

		switch {
		case err == nil:
			module := modfile.ModulePath(data)
			if module == "" {
				return "", fmt.Errorf("%s: missing module directive", filepath.Join(root, "go.mod"))
			}

			rel, err := filepath.Rel(root, abs)
			if err != nil {
				return "", err
			}

			return path.Join(module, filepath.ToSlash(rel)), nil

		case !errors.Is(err, fs.ErrNotExist):
			return "", err
		}

		parent := filepath.Dir(root)
		if parent == root {
			return "", fmt.Errorf("%s: %w", dir, errNoModule)
		}

		root = parent
	}
}
