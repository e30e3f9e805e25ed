package store

import (
	"errors"
	"testing"
	"time"

	"github.com/loamkb/loam/internal/graph"
	"github.com/loamkb/loam/internal/model"
)

func fixedClock() func() time.Time {
	t := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func newTestStore() *Store {
	s := New()
	s.SetClock(fixedClock())
	return s
}

func TestCreateAndGet(t *testing.T) {
	s := newTestStore()

	err := s.Create(&model.Note{Permalink: "people/freya", Title: "Freya"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	n, ok := s.Get("people/freya")
	if !ok {
		t.Fatal("note not found")
	}
	if n.Type != model.TypeNote || n.Status != model.StatusActive {
		t.Errorf("defaults not applied: %+v", n)
	}
	if n.CreatedAt.IsZero() || n.UpdatedAt.IsZero() {
		t.Error("timestamps not set")
	}
}

func TestCreateDuplicate(t *testing.T) {
	s := newTestStore()
	if err := s.Create(&model.Note{Permalink: "a", Title: "A"}); err != nil {
		t.Fatal(err)
	}

	err := s.Create(&model.Note{Permalink: "a", Title: "Other"})
	var dup *graph.DuplicateIdentifierError
	if !errors.As(err, &dup) {
		t.Fatalf("expected *DuplicateIdentifierError, got %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("failed create must not be observable, len = %d", s.Len())
	}
}

func TestGetReturnsCopy(t *testing.T) {
	s := newTestStore()
	if err := s.Create(&model.Note{Permalink: "a", Title: "A", Tags: []string{"x"}}); err != nil {
		t.Fatal(err)
	}

	n, _ := s.Get("a")
	n.Title = "mutated"
	n.Tags[0] = "mutated"

	again, _ := s.Get("a")
	if again.Title != "A" || again.Tags[0] != "x" {
		t.Error("caller mutation leaked into the store")
	}
}

func TestUpdatePreservesCreation(t *testing.T) {
	s := newTestStore()
	if err := s.Create(&model.Note{Permalink: "a", Title: "A"}); err != nil {
		t.Fatal(err)
	}
	before, _ := s.Get("a")

	if err := s.Update(&model.Note{Permalink: "a", Title: "A2"}); err != nil {
		t.Fatal(err)
	}
	after, _ := s.Get("a")
	if !after.CreatedAt.Equal(before.CreatedAt) {
		t.Error("creation time changed on update")
	}
	if !after.UpdatedAt.After(before.UpdatedAt) {
		t.Error("update time not refreshed")
	}
	if after.Title != "A2" {
		t.Errorf("title = %q", after.Title)
	}
}

func TestDeleteReportsDanglingRelations(t *testing.T) {
	s := newTestStore()
	if err := s.Create(&model.Note{Permalink: "t", Title: "Target"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Create(&model.Note{Permalink: "src", Title: "Source", Relations: []model.Relation{
		{Kind: model.RelImplements, TargetRef: "t"},
	}}); err != nil {
		t.Fatal(err)
	}

	dangling, err := s.Delete("t")
	if err != nil {
		t.Fatal(err)
	}
	if len(dangling) != 1 {
		t.Fatalf("got %d dangling edges", len(dangling))
	}
	if dangling[0].Relation.SourceID != "src" || dangling[0].Relation.Kind != model.RelImplements {
		t.Errorf("got %+v", dangling[0])
	}

	// The relation still lives on its source note.
	src, _ := s.Get("src")
	if len(src.Relations) != 1 {
		t.Error("relation dropped from source note")
	}
}

func TestDeleteNotFound(t *testing.T) {
	s := newTestStore()
	_, err := s.Delete("ghost")
	var nf *graph.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected *NotFoundError, got %v", err)
	}
}

func TestMoveKeepsIdentity(t *testing.T) {
	s := newTestStore()
	if err := s.Create(&model.Note{Permalink: "a", Title: "A", Path: "inbox/a"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Move("a", "project/a"); err != nil {
		t.Fatal(err)
	}

	n, ok := s.Get("a")
	if !ok {
		t.Fatal("permalink changed on move")
	}
	if n.Path != "project/a" {
		t.Errorf("path = %q", n.Path)
	}
	if got := s.Index().ByFolder("project"); len(got) != 1 {
		t.Error("path index not updated")
	}
	if got := s.Index().ByFolder("inbox"); len(got) != 0 {
		t.Error("old path still indexed")
	}
}

func TestBodyEdits(t *testing.T) {
	s := newTestStore()
	if err := s.Create(&model.Note{Permalink: "a", Title: "A", Body: "middle"}); err != nil {
		t.Fatal(err)
	}

	if err := s.AppendBody("a", "end"); err != nil {
		t.Fatal(err)
	}
	if err := s.PrependBody("a", "start"); err != nil {
		t.Fatal(err)
	}
	n, _ := s.Get("a")
	if n.Body != "start\nmiddle\nend" {
		t.Errorf("body = %q", n.Body)
	}

	if err := s.ReplaceBody("a", "fresh"); err != nil {
		t.Fatal(err)
	}
	n, _ = s.Get("a")
	if n.Body != "fresh" {
		t.Errorf("body = %q", n.Body)
	}
}

func TestRelationEdits(t *testing.T) {
	s := newTestStore()
	if err := s.Create(&model.Note{Permalink: "a", Title: "A"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Create(&model.Note{Permalink: "b", Title: "B"}); err != nil {
		t.Fatal(err)
	}

	if err := s.AddRelation("a", model.RelDependsOn, "b", "build order"); err != nil {
		t.Fatal(err)
	}
	if got := s.Index().Outbound("a", model.RelDependsOn); len(got) != 1 || got[0] != "b" {
		t.Errorf("adjacency = %v", got)
	}

	if err := s.RemoveRelation("a", model.RelDependsOn, "b"); err != nil {
		t.Fatal(err)
	}
	if got := s.Index().Outbound("a", model.RelDependsOn); len(got) != 0 {
		t.Errorf("adjacency after removal = %v", got)
	}

	if err := s.RemoveRelation("a", model.RelDependsOn, "b"); err == nil {
		t.Error("removing a missing relation should fail")
	}
}

func TestObservationsAndProperties(t *testing.T) {
	s := newTestStore()
	if err := s.Create(&model.Note{Permalink: "a", Title: "A"}); err != nil {
		t.Fatal(err)
	}

	if err := s.AddObservation("a", model.Observation{
		Category:  model.CatDecision,
		Statement: "ship it",
		Tags:      []string{"release"},
	}); err != nil {
		t.Fatal(err)
	}
	if err := s.SetProperty("a", "progress", 40); err != nil {
		t.Fatal(err)
	}

	n, _ := s.Get("a")
	if len(n.Observations) != 1 || n.Observations[0].Statement != "ship it" {
		t.Errorf("observations = %+v", n.Observations)
	}
	if n.Properties["progress"] != 40 {
		t.Errorf("properties = %+v", n.Properties)
	}

	if err := s.SetProperty("a", "progress", nil); err != nil {
		t.Fatal(err)
	}
	n, _ = s.Get("a")
	if _, ok := n.Properties["progress"]; ok {
		t.Error("nil value should clear the property")
	}
}

type failingPersister struct {
	failOn string
}

func (p *failingPersister) LoadAll() ([]*model.Note, error) { return nil, nil }
func (p *failingPersister) Persist(n *model.Note) error {
	if n.Permalink == p.failOn {
		return errors.New("disk full")
	}
	return nil
}
func (p *failingPersister) Delete(permalink string) error { return nil }

func TestCreateRollsBackOnPersistFailure(t *testing.T) {
	s, err := Open(&failingPersister{failOn: "bad"})
	if err != nil {
		t.Fatal(err)
	}
	s.SetClock(fixedClock())

	if err := s.Create(&model.Note{Permalink: "bad", Title: "Bad"}); err == nil {
		t.Fatal("expected persist failure")
	}
	if _, ok := s.Get("bad"); ok {
		t.Error("failed create left the note indexed")
	}
}
