// Package wikilink provides canonical parsing of loam wikilinks.
//
// Wikilink grammar:
//   [[target]]
//   [[target|display text]]
//
// The target and display text are trimmed of surrounding whitespace. The
// target is handed to the reference resolver verbatim, so it may be a
// permalink, a title, or any resolver expression.
package wikilink

import (
	"regexp"
	"strings"
)

// Match is a wikilink found in a string.
type Match struct {
	Target  string
	Display string
	Start   int
	End     int
	Literal string
}

// re matches [[target]] or [[target|display]]. The target cannot contain
// [ or ] so that array syntax like [[[ref]]] does not match.
var re = regexp.MustCompile(`\[\[([^\]\[|]+)(?:\|([^\]]+))?\]\]`)

// ParseExact parses a string that is exactly a wikilink literal.
func ParseExact(s string) (target, display string, ok bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[[") || !strings.HasSuffix(s, "]]") {
		return "", "", false
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(s, "[["), "]]")
	if strings.ContainsAny(inner, "[]") {
		return "", "", false
	}
	parts := strings.SplitN(inner, "|", 2)
	target = strings.TrimSpace(parts[0])
	if target == "" {
		return "", "", false
	}
	if len(parts) == 2 {
		display = strings.TrimSpace(parts[1])
	}
	return target, display, true
}

// FindAll finds all wikilinks in a string.
func FindAll(s string) []Match {
	var out []Match
	for _, m := range re.FindAllStringSubmatchIndex(s, -1) {
		start, end := m[0], m[1]
		// Skip matches preceded by '[' (array syntax like [[[ref]]]).
		if start > 0 && s[start-1] == '[' {
			continue
		}
		target := strings.TrimSpace(s[m[2]:m[3]])
		if target == "" {
			continue
		}
		var display string
		if m[4] >= 0 {
			display = strings.TrimSpace(s[m[4]:m[5]])
		}
		out = append(out, Match{
			Target:  target,
			Display: display,
			Start:   start,
			End:     end,
			Literal: s[start:end],
		})
	}
	return out
}

// First returns the first wikilink in a string, if any.
func First(s string) (Match, bool) {
	all := FindAll(s)
	if len(all) == 0 {
		return Match{}, false
	}
	return all[0], true
}
