// Package resolver evaluates addressing expressions against the graph index.
//
// Expression grammar (the "loam://" scheme marker is optional and stripped):
//
//	exact permalink       project/alpha/auth-service
//	exact title           Auth Service        (ambiguity is surfaced, not an error)
//	glob                  auth*, */approaches, project/*/requirements
//	relation traversal    <scope>/<relation_kind>/*
//
// Globs are case-insensitive and a "*" never crosses a "/" segment boundary.
// Traversal follows outbound edges of the given kind one hop from the scope
// note; multi-hop chaining is intentionally unsupported.
package resolver

import (
	"fmt"
	"strings"

	"github.com/loamkb/loam/internal/graph"
	"github.com/loamkb/loam/internal/model"
)

// Scheme is the loam URL scheme marker.
const Scheme = "loam://"

// MatchKind describes how an expression matched.
type MatchKind int

const (
	MatchNone      MatchKind = iota
	MatchPermalink           // exact identifier
	MatchTitle               // title/alias lookup (possibly ambiguous)
	MatchGlob                // path glob
	MatchTraversal           // one-hop relation traversal
)

func (k MatchKind) String() string {
	switch k {
	case MatchPermalink:
		return "permalink"
	case MatchTitle:
		return "title"
	case MatchGlob:
		return "glob"
	case MatchTraversal:
		return "traversal"
	default:
		return "none"
	}
}

// Match is one element of a resolution result: a note, and for traversal
// matches the edge that led to it.
type Match struct {
	Note *model.Note
	Edge *graph.Edge // non-nil only for traversal matches
}

// Result is the outcome of resolving one expression. An empty result is a
// valid outcome ("valid query, zero results"), distinct from a parse failure.
type Result struct {
	Expression string
	Kind       MatchKind
	Matches    []Match
}

// Empty reports whether the expression matched nothing.
func (r Result) Empty() bool { return len(r.Matches) == 0 }

// Ambiguous reports whether a title lookup matched more than one note.
// Callers needing a single result must disambiguate explicitly, e.g. by
// falling back to the permalink.
func (r Result) Ambiguous() bool { return r.Kind == MatchTitle && len(r.Matches) > 1 }

// Notes returns just the matched notes.
func (r Result) Notes() []*model.Note {
	out := make([]*model.Note, 0, len(r.Matches))
	for _, m := range r.Matches {
		if m.Note != nil {
			out = append(out, m.Note)
		}
	}
	return out
}

// MalformedExpressionError indicates an unparsable addressing expression.
// It aborts the single resolve call; an empty result set is never reported
// this way.
type MalformedExpressionError struct {
	Expression string
	Reason     string
}

func (e *MalformedExpressionError) Error() string {
	return fmt.Sprintf("malformed expression %q: %s", e.Expression, e.Reason)
}

// Resolver resolves addressing expressions against a graph index.
type Resolver struct {
	index *graph.Index
}

// New creates a resolver over the given index.
func New(ix *graph.Index) *Resolver {
	return &Resolver{index: ix}
}

// Resolve evaluates an expression, returning an ordered result set or a
// *MalformedExpressionError. Results are never partial.
//
// Lookup order: exact permalink, then exact title/alias, then, for patterns,
// relation traversal when the shape fits and finally path glob. Title
// matches come back in creation-time order.
func (r *Resolver) Resolve(expression string) (Result, error) {
	expr := strings.TrimSpace(expression)
	expr = strings.TrimPrefix(expr, Scheme)

	segments, hasWildcard, err := parsePath(expression, expr)
	if err != nil {
		return Result{}, err
	}

	if !hasWildcard {
		// Exact permalink wins.
		if n, ok := r.index.Get(expr); ok {
			return Result{
				Expression: expression,
				Kind:       MatchPermalink,
				Matches:    []Match{{Note: n}},
			}, nil
		}

		// Title/alias lookup. Zero, one, or many matches are all valid.
		if notes := r.index.ByTitle(expr); len(notes) > 0 {
			return Result{
				Expression: expression,
				Kind:       MatchTitle,
				Matches:    notesToMatches(notes),
			}, nil
		}

		return Result{Expression: expression, Kind: MatchNone}, nil
	}

	// A trailing bare "*" segment may be a one-hop relation traversal:
	// <scope>/<relation_kind>/*.
	if matches, ok := r.tryTraversal(segments); ok {
		return Result{
			Expression: expression,
			Kind:       MatchTraversal,
			Matches:    matches,
		}, nil
	}

	notes := r.index.MatchGlob(segments)
	return Result{
		Expression: expression,
		Kind:       MatchGlob,
		Matches:    notesToMatches(notes),
	}, nil
}

// tryTraversal attempts to interpret the segments as <scope>/<kind>/*.
// It applies only when the scope resolves to exactly one note that has
// outbound edges of the kind; otherwise the pattern falls through to glob
// matching.
func (r *Resolver) tryTraversal(segments []string) ([]Match, bool) {
	if len(segments) < 3 || segments[len(segments)-1] != "*" {
		return nil, false
	}
	kindSeg := segments[len(segments)-2]
	scopeExpr := strings.Join(segments[:len(segments)-2], "/")
	if strings.Contains(kindSeg, "*") || strings.Contains(scopeExpr, "*") {
		return nil, false
	}

	scope, ok := r.resolveScope(scopeExpr)
	if !ok {
		return nil, false
	}

	kind := model.RelationKind(kindSeg)
	edges := r.index.OutboundEdges(scope.Permalink, kind)
	if len(edges) == 0 {
		return nil, false
	}

	var matches []Match
	for i := range edges {
		e := edges[i]
		if !e.Resolved() {
			// Unresolved targets cannot be yielded as notes; the validator
			// reports them separately.
			continue
		}
		if n, ok := r.index.Get(e.Target); ok {
			matches = append(matches, Match{Note: n, Edge: &e})
		}
	}
	return matches, true
}

// resolveScope resolves a traversal scope to exactly one note: exact
// permalink, or a title that matches exactly one note.
func (r *Resolver) resolveScope(scopeExpr string) (*model.Note, bool) {
	if n, ok := r.index.Get(scopeExpr); ok {
		return n, true
	}
	if notes := r.index.ByTitle(scopeExpr); len(notes) == 1 {
		return notes[0], true
	}
	return nil, false
}

// parsePath validates an expression path and splits it into segments.
// The original expression is only used for error reporting.
func parsePath(original, expr string) (segments []string, hasWildcard bool, err error) {
	if expr == "" {
		return nil, false, &MalformedExpressionError{Expression: original, Reason: "empty path"}
	}
	if strings.HasPrefix(expr, "/") || strings.HasSuffix(expr, "/") {
		return nil, false, &MalformedExpressionError{Expression: original, Reason: "path cannot start or end with '/'"}
	}

	segments = strings.Split(expr, "/")
	for _, seg := range segments {
		if seg == "" {
			return nil, false, &MalformedExpressionError{Expression: original, Reason: "empty path segment"}
		}
		stars := strings.Count(seg, "*")
		if stars == 0 {
			continue
		}
		hasWildcard = true
		// A wildcard may only sit at a segment boundary: whole segment,
		// prefix, or suffix. "au*th" is not a valid pattern.
		trimmed := strings.TrimSuffix(strings.TrimPrefix(seg, "*"), "*")
		if strings.Contains(trimmed, "*") {
			return nil, false, &MalformedExpressionError{
				Expression: original,
				Reason:     fmt.Sprintf("wildcard must be at a segment boundary in %q", seg),
			}
		}
	}
	return segments, hasWildcard, nil
}

func notesToMatches(notes []*model.Note) []Match {
	out := make([]Match, len(notes))
	for i, n := range notes {
		out[i] = Match{Note: n}
	}
	return out
}
