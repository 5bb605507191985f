package gen

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// GeneratedHeader is the first line of every generated file.
const GeneratedHeader = "// Code generated by mapper-generator. DO NOT EDIT."

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Exists reports whether outputDir already holds filename.
func Exists(outputDir, filename string) bool {
	_, err := os.Stat(filepath.Join(outputDir, filename))

	return err == nil
}

// WriteFile writes file into outputDir, creating the directory if needed.
// An existing file is never overwritten; it yields an error wrapping fs.ErrExist.
func WriteFile(file *GeneratedFile, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, dirPerm); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	outputPath := filepath.Join(outputDir, file.Filename)

	f, err := os.OpenFile(outputPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		return "", fmt.Errorf("writing file %s: %w", file.Filename, err)
	}

	if _, err := f.Write(file.Content); err != nil {
		_ = f.Close()

		return "", fmt.Errorf("writing file %s: %w", file.Filename, err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing file %s: %w", file.Filename, err)
	}

	return outputPath, nil
}

// IsGenerated reports whether the file at path starts with GeneratedHeader.
func IsGenerated(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && line == "" {
		return false, nil
	}

	return strings.TrimRight(line, "\r\n") == GeneratedHeader, nil
}

// ClearGenerated deletes the generated .go files of outputDir, including
// dumps of sources that failed formatting, and returns their paths.
// Hand-written files and subdirectories are left alone. A missing directory
// is not an error.
func ClearGenerated(outputDir string) ([]string, error) {
	entries, err := os.ReadDir(outputDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading output directory: %w", err)
	}

	var removed []string

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, ".go"+unformattedExt) {
			continue
		}

		path := filepath.Join(outputDir, name)

		generated, err := IsGenerated(path)
		if err != nil {
			return removed, err
		}

		if !generated {
			continue
		}

		if err := os.Remove(path); err != nil {
			return removed, fmt.Errorf("removing %s: %w", path, err)
		}

		removed = append(removed, path)
	}

	return removed, nil
}
