package diagram

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsafeName is returned when a file name would leave its directory.
var ErrUnsafeName = errors.New("file name must be a single path element")

// File is a downloadable artifact produced by an export.
type File struct {
	Name        string
	ContentType string
	Content     []byte
}

// Save writes the file into dir (or to path directly when path names a
// file) and returns the path written.
func (f File) Save(path string) (string, error) {
	target := path
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		if !isPathElement(f.Name) {
			return "", fmt.Errorf("%w: %q", ErrUnsafeName, f.Name)
		}
		target = filepath.Join(path, f.Name)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(target, f.Content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write output file: %w", err)
	}

	return target, nil
}

// FileBase turns a diagram name into something usable as a file name stem.
// Path separators become dashes; fallback is used when nothing usable is left.
func FileBase(name, fallback string) string {
	base := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0:
			return '-'
		}
		return r
	}, strings.TrimSpace(name))
	if !isPathElement(base) {
		return fallback
	}
	return base
}

func isPathElement(name string) bool {
	switch name {
	case "", ".", "..":
		return false
	}
	return !strings.ContainsAny(name, "/\\\x00")
}
