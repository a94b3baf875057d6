package docs

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/HendryAvila/speclens/internal/apperr"
)

// Locator finds documents under a project root by glob pattern.
type Locator struct {
	root string
}

// NewLocator creates a Locator rooted at root.
func NewLocator(root string) *Locator {
	return &Locator{root: root}
}

// Root returns the project root the locator searches under.
func (l *Locator) Root() string {
	return l.root
}

// Find returns the first file matching pattern, in lexical order, as a
// slash-separated path relative to the root. Patterns are slash-separated
// and relative to the root too. No match is a not-found error naming the
// pattern.
func (l *Locator) Find(pattern string) (string, error) {
	matches, err := l.FindAll(pattern)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", apperr.NotFound("no file matching %s", pattern)
	}
	return matches[0], nil
}

// FindAll returns every file matching pattern, root-relative and sorted.
func (l *Locator) FindAll(pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(l.root, filepath.FromSlash(pattern)))
	if err != nil {
		return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
	}
	rel := make([]string, 0, len(matches))
	for _, m := range matches {
		r, err := filepath.Rel(l.root, m)
		if err != nil {
			return nil, fmt.Errorf("relativizing %s: %w", m, err)
		}
		rel = append(rel, filepath.ToSlash(r))
	}
	sort.Strings(rel)
	return rel, nil
}

// Path resolves a fixed root-relative path without checking existence.
func (l *Locator) Path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(l.root, filepath.FromSlash(rel))
}
