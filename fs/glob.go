// Package fs resolves input-file glob patterns. Supports ** for recursive
// matching.
package fs

import (
	"fmt"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Glob returns the regular files matching pattern, sorted. A literal path
// with no metacharacters matches itself when the file exists.
func Glob(pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern: %s", pattern)
	}
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}

	files := make([]string, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			continue
		}
		if info.Mode().IsRegular() {
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files, nil
}

// ResolveOne resolves pattern to exactly one file. Zero or multiple matches
// are errors so a generation run never silently picks an input.
func ResolveOne(pattern string) (string, error) {
	files, err := Glob(pattern)
	if err != nil {
		return "", err
	}
	switch len(files) {
	case 0:
		return "", fmt.Errorf("no file matches %s", pattern)
	case 1:
		return files[0], nil
	default:
		return "", fmt.Errorf("%d files match %s, narrow the pattern", len(files), pattern)
	}
}
