package check

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/loamkb/loam/internal/graph"
	"github.com/loamkb/loam/internal/model"
)

func addNote(t *testing.T, ix *graph.Index, n *model.Note) {
	t.Helper()
	if err := ix.Add(n); err != nil {
		t.Fatal(err)
	}
}

func validate(t *testing.T, ix *graph.Index) *Report {
	t.Helper()
	report, err := Validate(context.Background(), ix)
	if err != nil {
		t.Fatal(err)
	}
	return report
}

func TestValidateClean(t *testing.T) {
	ix := graph.NewIndex()
	addNote(t, ix, &model.Note{Permalink: "a", Title: "A", Relations: []model.Relation{
		{SourceID: "a", Kind: model.RelDependsOn, TargetRef: "b"},
	}})
	addNote(t, ix, &model.Note{Permalink: "b", Title: "B"})

	report := validate(t, ix)
	if !report.Clean() {
		t.Errorf("report = %+v", report)
	}
}

func TestValidateBrokenLink(t *testing.T) {
	ix := graph.NewIndex()
	addNote(t, ix, &model.Note{Permalink: "a", Title: "A", Relations: []model.Relation{
		{SourceID: "a", Kind: model.RelImplements, TargetRef: "Ghost Spec"},
	}})

	report := validate(t, ix)
	if len(report.BrokenLinks) != 1 {
		t.Fatalf("broken links = %+v", report.BrokenLinks)
	}
	b := report.BrokenLinks[0]
	if b.SourceID != "a" || b.Kind != model.RelImplements || b.TargetRef != "Ghost Spec" {
		t.Errorf("got %+v", b)
	}
}

func TestValidateBrokenLinkHealsOnCreate(t *testing.T) {
	ix := graph.NewIndex()
	addNote(t, ix, &model.Note{Permalink: "src", Title: "Source", Relations: []model.Relation{
		{SourceID: "src", Kind: model.RelImplements, TargetRef: "Ghost Spec"},
	}})

	if report := validate(t, ix); len(report.BrokenLinks) != 1 {
		t.Fatalf("before: %+v", report.BrokenLinks)
	}

	addNote(t, ix, &model.Note{Permalink: "specs/ghost", Title: "Ghost Spec"})

	if report := validate(t, ix); len(report.BrokenLinks) != 0 {
		t.Errorf("after: %+v", report.BrokenLinks)
	}
}

func TestValidateDeleteTargetBreaksLink(t *testing.T) {
	ix := graph.NewIndex()
	addNote(t, ix, &model.Note{Permalink: "t", Title: "Target"})
	addNote(t, ix, &model.Note{Permalink: "s", Title: "Source", Relations: []model.Relation{
		{SourceID: "s", Kind: model.RelImplements, TargetRef: "t"},
	}})

	if report := validate(t, ix); !report.Clean() {
		t.Fatalf("before: %+v", report)
	}

	if _, err := ix.Remove("t"); err != nil {
		t.Fatal(err)
	}

	report := validate(t, ix)
	if len(report.BrokenLinks) != 1 || report.BrokenLinks[0].SourceID != "s" {
		t.Errorf("after: %+v", report.BrokenLinks)
	}
}

func TestValidateOrphans(t *testing.T) {
	ix := graph.NewIndex()
	addNote(t, ix, &model.Note{Permalink: "a", Title: "A", Relations: []model.Relation{
		{SourceID: "a", Kind: model.RelRelatesTo, TargetRef: "b"},
	}})
	addNote(t, ix, &model.Note{Permalink: "b", Title: "B"})
	addNote(t, ix, &model.Note{Permalink: "loner", Title: "Loner"})

	report := validate(t, ix)
	if len(report.Orphans) != 1 || report.Orphans[0] != "loner" {
		t.Errorf("orphans = %v", report.Orphans)
	}
}

func TestValidateCaseCollisions(t *testing.T) {
	ix := graph.NewIndex()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	addNote(t, ix, &model.Note{Permalink: "Foo", Title: "One", CreatedAt: base})
	addNote(t, ix, &model.Note{Permalink: "foo", Title: "Two", CreatedAt: base.Add(time.Minute)})
	addNote(t, ix, &model.Note{Permalink: "FOO", Title: "Three", CreatedAt: base.Add(2 * time.Minute)})
	addNote(t, ix, &model.Note{Permalink: "bar", Title: "Four", CreatedAt: base.Add(3 * time.Minute)})

	report := validate(t, ix)
	want := []string{"Foo", "foo", "FOO"}
	if len(report.DuplicateIDs) != len(want) {
		t.Fatalf("duplicate ids = %v", report.DuplicateIDs)
	}
	for i, id := range want {
		if report.DuplicateIDs[i] != id {
			t.Errorf("duplicate ids[%d] = %q, want %q", i, report.DuplicateIDs[i], id)
		}
	}
}

func TestValidateCancellation(t *testing.T) {
	ix := graph.NewIndex()
	for i := 0; i < 200; i++ {
		addNote(t, ix, &model.Note{
			Permalink: fmt.Sprintf("note-%03d", i),
			Title:     fmt.Sprintf("Note %03d", i),
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := Validate(ctx, ix)
	if err == nil {
		t.Fatal("expected a cancellation error")
	}
	if report == nil || !report.Partial {
		t.Errorf("report = %+v", report)
	}
}
