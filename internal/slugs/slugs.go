// Package slugs provides canonical slugification helpers used across loam.
//
// Permalinks are derived from titles or paths once at creation time and are
// stable afterwards; this package centralizes the derivation so it is not
// duplicated between the CLI and the storage backends.
package slugs

import (
	"strings"

	goslug "github.com/gosimple/slug"
)

// Component converts a string to a URL-safe slug appropriate for a single
// path component.
func Component(s string) string {
	s = strings.TrimSuffix(s, ".md")
	slugged := goslug.Make(s)
	if slugged == "" {
		slugged = strings.ToLower(strings.ReplaceAll(s, " ", "-"))
	}
	return slugged
}

// Path slugifies each "/"-separated component of a path, preserving the
// separators. A trailing ".md" is stripped first.
func Path(path string) string {
	path = strings.TrimSuffix(path, ".md")

	parts := strings.Split(path, "/")
	for i, part := range parts {
		parts[i] = Component(part)
	}
	return strings.Join(parts, "/")
}

// Permalink derives a permalink from a folder and title. The folder keeps its
// structure; the title becomes a single slugged component.
func Permalink(folder, title string) string {
	c := Component(title)
	if folder == "" {
		return c
	}
	return Path(folder) + "/" + c
}
