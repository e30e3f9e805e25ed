package resolver

import (
	"errors"
	"testing"
	"time"

	"github.com/loamkb/loam/internal/graph"
	"github.com/loamkb/loam/internal/model"
)

func buildIndex(t *testing.T) *graph.Index {
	t.Helper()
	ix := graph.NewIndex()

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	add := func(permalink, title string, offset time.Duration, rels ...model.Relation) {
		t.Helper()
		n := &model.Note{
			Permalink: permalink,
			Title:     title,
			Type:      model.TypeNote,
			Status:    model.StatusActive,
			Path:      permalink,
			Relations: rels,
			CreatedAt: base.Add(offset),
			UpdatedAt: base.Add(offset),
		}
		if err := ix.Add(n); err != nil {
			t.Fatalf("add %s: %v", permalink, err)
		}
	}

	add("a", "Auth", 0)
	add("b", "Auth", time.Hour)
	add("project/alpha/requirements", "Alpha Requirements", 2*time.Hour)
	add("project/beta/requirements", "Beta Requirements", 3*time.Hour)
	add("project/alpha/design", "Alpha Design", 4*time.Hour)
	add("spec/auth", "Auth Spec", 5*time.Hour)
	add("project/auth-service", "Auth Service", 6*time.Hour,
		model.Relation{Kind: model.RelImplements, TargetRef: "spec/auth"},
		model.Relation{Kind: model.RelImplements, TargetRef: "Alpha Requirements"},
		model.Relation{Kind: model.RelDependsOn, TargetRef: "missing-note"},
	)
	return ix
}

func TestResolveExactPermalink(t *testing.T) {
	r := New(buildIndex(t))

	res, err := r.Resolve("a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Kind != MatchPermalink {
		t.Errorf("kind = %v", res.Kind)
	}
	if len(res.Matches) != 1 || res.Matches[0].Note.Permalink != "a" {
		t.Errorf("got %+v", res.Matches)
	}
	if res.Ambiguous() {
		t.Error("exact match must not be ambiguous")
	}
}

func TestResolveSchemeMarker(t *testing.T) {
	r := New(buildIndex(t))
	res, err := r.Resolve("loam://spec/auth")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Matches) != 1 || res.Matches[0].Note.Permalink != "spec/auth" {
		t.Errorf("got %+v", res.Matches)
	}
}

func TestResolveTitle(t *testing.T) {
	r := New(buildIndex(t))

	t.Run("ambiguous title returns all in creation order", func(t *testing.T) {
		res, err := r.Resolve("Auth")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Kind != MatchTitle || !res.Ambiguous() {
			t.Errorf("kind=%v ambiguous=%v", res.Kind, res.Ambiguous())
		}
		notes := res.Notes()
		if len(notes) != 2 || notes[0].Permalink != "a" || notes[1].Permalink != "b" {
			t.Errorf("got %+v", notes)
		}
	})

	t.Run("permalink beats title", func(t *testing.T) {
		// "spec/auth" is both a permalink and close to a title; the exact
		// identifier must win and return exactly one note.
		res, err := r.Resolve("spec/auth")
		if err != nil {
			t.Fatal(err)
		}
		if res.Kind != MatchPermalink || len(res.Matches) != 1 {
			t.Errorf("got kind=%v matches=%d", res.Kind, len(res.Matches))
		}
	})

	t.Run("case-insensitive", func(t *testing.T) {
		res, err := r.Resolve("auth spec")
		if err != nil {
			t.Fatal(err)
		}
		if len(res.Matches) != 1 || res.Matches[0].Note.Permalink != "spec/auth" {
			t.Errorf("got %+v", res.Matches)
		}
	})
}

func TestResolveNoMatch(t *testing.T) {
	r := New(buildIndex(t))
	res, err := r.Resolve("does-not-exist")
	if err != nil {
		t.Fatalf("zero results must not be an error, got %v", err)
	}
	if !res.Empty() || res.Kind != MatchNone {
		t.Errorf("got %+v", res)
	}
}

func TestResolveGlob(t *testing.T) {
	r := New(buildIndex(t))

	t.Run("full-segment wildcard", func(t *testing.T) {
		res, err := r.Resolve("project/*/requirements")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		notes := res.Notes()
		if len(notes) != 2 {
			t.Fatalf("got %d matches", len(notes))
		}
		if notes[0].Permalink != "project/alpha/requirements" ||
			notes[1].Permalink != "project/beta/requirements" {
			t.Errorf("got %s, %s", notes[0].Permalink, notes[1].Permalink)
		}
	})

	t.Run("prefix glob", func(t *testing.T) {
		res, err := r.Resolve("project/alpha/req*")
		if err != nil {
			t.Fatal(err)
		}
		if len(res.Matches) != 1 {
			t.Errorf("got %d matches", len(res.Matches))
		}
	})

	t.Run("glob with zero matches is not an error", func(t *testing.T) {
		res, err := r.Resolve("nothing/*")
		if err != nil {
			t.Fatal(err)
		}
		if !res.Empty() {
			t.Errorf("got %+v", res.Matches)
		}
	})
}

func TestResolveTraversal(t *testing.T) {
	r := New(buildIndex(t))

	res, err := r.Resolve("project/auth-service/implements/*")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Kind != MatchTraversal {
		t.Fatalf("kind = %v", res.Kind)
	}
	notes := res.Notes()
	if len(notes) != 2 {
		t.Fatalf("got %d matches", len(notes))
	}
	for _, m := range res.Matches {
		if m.Edge == nil {
			t.Error("traversal match should carry its edge")
		}
	}

	t.Run("unresolved edges are skipped", func(t *testing.T) {
		res, err := r.Resolve("project/auth-service/depends_on/*")
		if err != nil {
			t.Fatal(err)
		}
		// The only depends_on edge points at a missing note; traversal
		// applies (the kind has edges) but yields nothing.
		if res.Kind != MatchTraversal || !res.Empty() {
			t.Errorf("got kind=%v matches=%d", res.Kind, len(res.Matches))
		}
	})

	t.Run("scope by title", func(t *testing.T) {
		res, err := r.Resolve("Auth Service/implements/*")
		if err != nil {
			t.Fatal(err)
		}
		if res.Kind != MatchTraversal || len(res.Matches) != 2 {
			t.Errorf("got kind=%v matches=%d", res.Kind, len(res.Matches))
		}
	})

	t.Run("no matching edges falls back to glob", func(t *testing.T) {
		res, err := r.Resolve("project/auth-service/extends/*")
		if err != nil {
			t.Fatal(err)
		}
		if res.Kind != MatchGlob {
			t.Errorf("kind = %v", res.Kind)
		}
	})
}

func TestResolveMalformed(t *testing.T) {
	r := New(buildIndex(t))

	cases := []string{
		"",
		"loam://",
		"/leading",
		"trailing/",
		"a//b",
		"au*th",
	}
	for _, input := range cases {
		t.Run(input, func(t *testing.T) {
			_, err := r.Resolve(input)
			var malformed *MalformedExpressionError
			if !errors.As(err, &malformed) {
				t.Fatalf("expected *MalformedExpressionError, got %v", err)
			}
		})
	}
}
