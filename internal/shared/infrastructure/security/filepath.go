// Package security validates operator-supplied file locations.
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrEmptyPath is returned for a blank path.
var ErrEmptyPath = errors.New("file path cannot be empty")

// forbiddenChars are shell metacharacters a database location never needs.
var forbiddenChars = []string{";", "|", "$", "`", "(", ")", "{", "}", "<", ">", "!", "\n", "\r"}

// ValidateFilePath returns the absolute, symlink-resolved form of path.
// A file that does not exist yet keeps its cleaned absolute path.
func ValidateFilePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", ErrEmptyPath
	}
	for _, char := range forbiddenChars {
		if strings.Contains(path, char) {
			return "", fmt.Errorf("file path contains forbidden character %q: %s", char, path)
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve file path: %w", err)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return abs, nil
		}
		return "", fmt.Errorf("failed to resolve file path: %w", err)
	}
	return resolved, nil
}

// ValidateDSNPath validates the file part of a SQLite location and keeps
// any "?query" suffix as given.
func ValidateDSNPath(dsn string) (string, error) {
	file, query, hasQuery := strings.Cut(dsn, "?")
	clean, err := ValidateFilePath(file)
	if err != nil {
		return "", err
	}
	if hasQuery {
		return clean + "?" + query, nil
	}
	return clean, nil
}
