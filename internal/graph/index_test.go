package graph

import (
	"errors"
	"testing"
	"time"

	"github.com/loamkb/loam/internal/model"
)

func note(permalink, title string, created time.Time) *model.Note {
	return &model.Note{
		Permalink: permalink,
		Title:     title,
		Type:      model.TypeNote,
		Status:    model.StatusActive,
		Path:      permalink,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func baseTime() time.Time {
	return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
}

func TestIndexAddAndGet(t *testing.T) {
	ix := NewIndex()
	n := note("project/alpha", "Alpha", baseTime())
	if err := ix.Add(n); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok := ix.Get("project/alpha")
	if !ok || got.Title != "Alpha" {
		t.Errorf("got %+v", got)
	}
	if ix.Len() != 1 {
		t.Errorf("len = %d", ix.Len())
	}
}

func TestIndexDuplicateIdentifier(t *testing.T) {
	ix := NewIndex()
	if err := ix.Add(note("a", "First", baseTime())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := ix.Add(note("a", "Second", baseTime()))
	var dup *DuplicateIdentifierError
	if !errors.As(err, &dup) {
		t.Fatalf("expected *DuplicateIdentifierError, got %v", err)
	}
	if dup.Permalink != "a" {
		t.Errorf("got %q", dup.Permalink)
	}
}

func TestIndexTitleLookup(t *testing.T) {
	ix := NewIndex()
	a := note("a", "Auth", baseTime())
	b := note("b", "Auth", baseTime().Add(time.Hour))
	if err := ix.Add(b); err != nil {
		t.Fatal(err)
	}
	if err := ix.Add(a); err != nil {
		t.Fatal(err)
	}

	t.Run("ambiguous returns all in creation order", func(t *testing.T) {
		got := ix.ByTitle("Auth")
		if len(got) != 2 {
			t.Fatalf("got %d matches", len(got))
		}
		if got[0].Permalink != "a" || got[1].Permalink != "b" {
			t.Errorf("got order %s, %s", got[0].Permalink, got[1].Permalink)
		}
	})

	t.Run("case-insensitive", func(t *testing.T) {
		if len(ix.ByTitle("auth")) != 2 {
			t.Error("lowercase lookup should match")
		}
	})

	t.Run("alias lookup", func(t *testing.T) {
		c := note("c", "Gateway", baseTime().Add(2*time.Hour))
		c.Aliases = []string{"The Front Door"}
		if err := ix.Add(c); err != nil {
			t.Fatal(err)
		}
		got := ix.ByTitle("the front door")
		if len(got) != 1 || got[0].Permalink != "c" {
			t.Errorf("got %+v", got)
		}
	})
}

func TestIndexFolderAndGlob(t *testing.T) {
	ix := NewIndex()
	paths := []string{
		"project/alpha/requirements",
		"project/beta/requirements",
		"project/alpha/design",
		"area/health",
	}
	for i, p := range paths {
		if err := ix.Add(note(p, p, baseTime().Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("folder scope", func(t *testing.T) {
		got := ix.ByFolder("project/alpha")
		if len(got) != 2 {
			t.Fatalf("got %d notes", len(got))
		}
	})

	t.Run("full-segment wildcard", func(t *testing.T) {
		got := ix.MatchGlob([]string{"project", "*", "requirements"})
		if len(got) != 2 {
			t.Fatalf("got %d notes", len(got))
		}
		if got[0].Permalink != "project/alpha/requirements" || got[1].Permalink != "project/beta/requirements" {
			t.Errorf("got %s, %s", got[0].Permalink, got[1].Permalink)
		}
	})

	t.Run("prefix wildcard stays within segment", func(t *testing.T) {
		got := ix.MatchGlob([]string{"area", "hea*"})
		if len(got) != 1 || got[0].Permalink != "area/health" {
			t.Errorf("got %+v", got)
		}
		// "pro*" must not match into deeper segments.
		if got := ix.MatchGlob([]string{"pro*"}); len(got) != 0 {
			t.Errorf("wildcard crossed a segment boundary: %d matches", len(got))
		}
	})
}

func relNote(permalink, title string, created time.Time, rels ...model.Relation) *model.Note {
	n := note(permalink, title, created)
	n.Relations = rels
	return n
}

func TestIndexAdjacency(t *testing.T) {
	ix := NewIndex()
	target := note("spec/auth", "Auth Spec", baseTime())
	source := relNote("project/auth-service", "Auth Service", baseTime().Add(time.Hour),
		model.Relation{Kind: model.RelImplements, TargetRef: "spec/auth"},
		model.Relation{Kind: model.RelDependsOn, TargetRef: "Billing"},
	)
	if err := ix.Add(target); err != nil {
		t.Fatal(err)
	}
	if err := ix.Add(source); err != nil {
		t.Fatal(err)
	}

	t.Run("forward resolved edge", func(t *testing.T) {
		targets := ix.Outbound("project/auth-service", model.RelImplements)
		if len(targets) != 1 || targets[0] != "spec/auth" {
			t.Errorf("got %v", targets)
		}
	})

	t.Run("backward edge", func(t *testing.T) {
		sources := ix.Inbound("spec/auth", model.RelImplements)
		if len(sources) != 1 || sources[0] != "project/auth-service" {
			t.Errorf("got %v", sources)
		}
	})

	t.Run("unresolved edge stays visible but unbound", func(t *testing.T) {
		edges := ix.OutboundEdges("project/auth-service", model.RelDependsOn)
		if len(edges) != 1 {
			t.Fatalf("got %d edges", len(edges))
		}
		if edges[0].Resolved() {
			t.Error("edge to missing note should be unresolved")
		}
	})

	t.Run("creating the target resolves the waiting edge", func(t *testing.T) {
		billing := note("project/billing", "Billing", baseTime().Add(2*time.Hour))
		if err := ix.Add(billing); err != nil {
			t.Fatal(err)
		}
		edges := ix.OutboundEdges("project/auth-service", model.RelDependsOn)
		if len(edges) != 1 || edges[0].Target != "project/billing" {
			t.Errorf("got %+v", edges)
		}
		if got := ix.Inbound("project/billing", model.RelDependsOn); len(got) != 1 {
			t.Errorf("backward index missing: %v", got)
		}
	})

	t.Run("removing the target unbinds inbound edges", func(t *testing.T) {
		dangling, err := ix.Remove("spec/auth")
		if err != nil {
			t.Fatal(err)
		}
		if len(dangling) != 1 || dangling[0].Relation.SourceID != "project/auth-service" {
			t.Errorf("got %+v", dangling)
		}
		edges := ix.OutboundEdges("project/auth-service", model.RelImplements)
		if len(edges) != 1 || edges[0].Resolved() {
			t.Errorf("edge should be unresolved again: %+v", edges)
		}
	})
}

func TestIndexAmbiguousRefStaysUnresolved(t *testing.T) {
	ix := NewIndex()
	if err := ix.Add(note("a", "Auth", baseTime())); err != nil {
		t.Fatal(err)
	}
	if err := ix.Add(note("b", "Auth", baseTime().Add(time.Hour))); err != nil {
		t.Fatal(err)
	}
	src := relNote("src", "Source", baseTime().Add(2*time.Hour),
		model.Relation{Kind: model.RelRelatesTo, TargetRef: "Auth"})
	if err := ix.Add(src); err != nil {
		t.Fatal(err)
	}

	edges := ix.OutboundEdges("src", model.RelRelatesTo)
	if len(edges) != 1 || edges[0].Resolved() {
		t.Errorf("ambiguous title should leave the edge unresolved: %+v", edges)
	}
}

func TestIndexReplace(t *testing.T) {
	ix := NewIndex()
	n := note("a", "Old Title", baseTime())
	if err := ix.Add(n); err != nil {
		t.Fatal(err)
	}

	updated := note("a", "New Title", baseTime())
	updated.Path = "moved/a"
	if err := ix.Replace(updated); err != nil {
		t.Fatal(err)
	}

	if got := ix.ByTitle("Old Title"); len(got) != 0 {
		t.Errorf("old title still indexed: %+v", got)
	}
	if got := ix.ByTitle("New Title"); len(got) != 1 {
		t.Errorf("new title not indexed")
	}
	if got := ix.ByFolder("moved"); len(got) != 1 {
		t.Errorf("new path not indexed")
	}

	t.Run("replace of unknown note fails", func(t *testing.T) {
		err := ix.Replace(note("ghost", "Ghost", baseTime()))
		var nf *NotFoundError
		if !errors.As(err, &nf) {
			t.Errorf("expected *NotFoundError, got %v", err)
		}
	})
}
