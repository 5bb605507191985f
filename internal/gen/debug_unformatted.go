package gen

import (
	"os"
	"path/filepath"
)

// unformattedExt marks sources that failed formatting.
const unformattedExt = ".unformatted"

// writeDebugUnformatted writes source that go/format rejected next to the
// intended output, as name.go.unformatted so the package still builds.
// Failures are ignored by callers.
func writeDebugUnformatted(outDir, filename string, content []byte) error {
	if outDir == "" || filename == "" {
		return nil
	}

	if err := os.MkdirAll(outDir, dirPerm); err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(outDir, filename+unformattedExt), content, filePerm)
}
