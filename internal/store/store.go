// Package store implements the document store: the single logical owner of
// all notes and of the graph index maintained over them.
//
// All mutating operations are serialized and each is atomic with respect to
// its index update. Reads run concurrently with each other and observe
// either the full pre-mutation or full post-mutation state, never a partial
// index.
package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/loamkb/loam/internal/graph"
	"github.com/loamkb/loam/internal/model"
)

// Persister is the durable key-value collaborator the store writes through
// to. The store is agnostic to its physical encoding.
type Persister interface {
	LoadAll() ([]*model.Note, error)
	Persist(n *model.Note) error
	Delete(permalink string) error
}

// Store owns the notes and the graph index.
type Store struct {
	// mu serializes mutations. Reads go straight to the index, which has
	// its own read lock; each mutation is a single atomic index call.
	mu sync.Mutex

	index     *graph.Index
	persister Persister

	// now is the clock, injectable for tests.
	now func() time.Time
}

// New creates an empty in-memory store with no persistence.
func New() *Store {
	return &Store{
		index: graph.NewIndex(),
		now:   time.Now,
	}
}

// Open creates a store backed by a persister and loads all existing notes.
func Open(p Persister) (*Store, error) {
	s := New()
	s.persister = p

	notes, err := p.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("load notes: %w", err)
	}
	for _, n := range notes {
		if err := s.index.Add(n); err != nil {
			return nil, fmt.Errorf("index %s: %w", n.Permalink, err)
		}
	}
	return s, nil
}

// SetClock overrides the store's clock. Intended for tests.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// Index exposes the graph index for read-side collaborators: the resolver,
// the expression engine, and the validator.
func (s *Store) Index() *graph.Index {
	return s.index
}

// Len returns the number of notes in the store.
func (s *Store) Len() int {
	return s.index.Len()
}

// Get returns a copy of the note with the given permalink.
func (s *Store) Get(permalink string) (*model.Note, bool) {
	n, ok := s.index.Get(permalink)
	if !ok {
		return nil, false
	}
	return n.Clone(), true
}

// List returns copies of all notes, ordered by creation time ascending.
func (s *Store) List() []*model.Note {
	all := s.index.All()
	out := make([]*model.Note, len(all))
	for i, n := range all {
		out[i] = n.Clone()
	}
	return out
}

// Create adds a new note. The permalink must be unique; otherwise the call
// fails with *graph.DuplicateIdentifierError and nothing is observable.
func (s *Store) Create(n *model.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n.Permalink == "" {
		return fmt.Errorf("note has no permalink")
	}

	c := n.Clone()
	now := s.now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.CreatedAt
	}
	if c.Type == "" {
		c.Type = model.TypeNote
	}
	if c.Status == "" {
		c.Status = model.StatusActive
	}
	for i := range c.Relations {
		c.Relations[i].SourceID = c.Permalink
	}

	if err := s.index.Add(c); err != nil {
		return err
	}
	if err := s.persist(c); err != nil {
		// Roll the index back so the failed create is not observable.
		_, _ = s.index.Remove(c.Permalink)
		return err
	}
	return nil
}

// Update replaces a note wholesale. The creation timestamp of the existing
// note is preserved; the update timestamp is refreshed.
func (s *Store) Update(n *model.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked(n)
}

func (s *Store) updateLocked(n *model.Note) error {
	old, ok := s.index.Get(n.Permalink)
	if !ok {
		return &graph.NotFoundError{Permalink: n.Permalink}
	}

	c := n.Clone()
	c.CreatedAt = old.CreatedAt
	c.UpdatedAt = s.now()
	for i := range c.Relations {
		c.Relations[i].SourceID = c.Permalink
	}

	if err := s.index.Replace(c); err != nil {
		return err
	}
	if err := s.persist(c); err != nil {
		_ = s.index.Replace(old)
		return err
	}
	return nil
}

// Delete removes a note and returns the inbound relations that now dangle.
// Dangling edges are reported, never silently dropped: they still live on
// their source notes and the validator will list them.
func (s *Store) Delete(permalink string) ([]graph.Edge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.index.Get(permalink)
	if !ok {
		return nil, &graph.NotFoundError{Permalink: permalink}
	}

	dangling, err := s.index.Remove(permalink)
	if err != nil {
		return nil, err
	}
	if s.persister != nil {
		if err := s.persister.Delete(permalink); err != nil {
			// Restore so the failed delete is not observable.
			_ = s.index.Add(old)
			return nil, err
		}
	}
	return dangling, nil
}

// Move changes a note's path. Path is not identity: the permalink is
// untouched and all edges survive.
func (s *Store) Move(permalink, newPath string) error {
	return s.mutate(permalink, func(n *model.Note) error {
		n.Path = newPath
		return nil
	})
}

// AppendBody appends text to a note's body.
func (s *Store) AppendBody(permalink, text string) error {
	return s.mutate(permalink, func(n *model.Note) error {
		if n.Body != "" && text != "" {
			n.Body += "\n"
		}
		n.Body += text
		return nil
	})
}

// PrependBody prepends text to a note's body.
func (s *Store) PrependBody(permalink, text string) error {
	return s.mutate(permalink, func(n *model.Note) error {
		if n.Body != "" && text != "" {
			text += "\n"
		}
		n.Body = text + n.Body
		return nil
	})
}

// ReplaceBody replaces a note's body.
func (s *Store) ReplaceBody(permalink, text string) error {
	return s.mutate(permalink, func(n *model.Note) error {
		n.Body = text
		return nil
	})
}

// AddRelation appends an outbound relation. The target reference may be
// unresolved at creation time: the target note need not exist yet.
func (s *Store) AddRelation(permalink string, kind model.RelationKind, targetRef, note string) error {
	return s.mutate(permalink, func(n *model.Note) error {
		n.Relations = append(n.Relations, model.Relation{
			SourceID:  permalink,
			Kind:      kind,
			TargetRef: targetRef,
			Note:      note,
		})
		return nil
	})
}

// RemoveRelation removes the first relation matching kind and target
// reference.
func (s *Store) RemoveRelation(permalink string, kind model.RelationKind, targetRef string) error {
	return s.mutate(permalink, func(n *model.Note) error {
		for i, rel := range n.Relations {
			if rel.Kind == kind && rel.TargetRef == targetRef {
				n.Relations = append(n.Relations[:i], n.Relations[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("no %s relation to %q on %q", kind, targetRef, permalink)
	})
}

// AddObservation appends an observation to a note.
func (s *Store) AddObservation(permalink string, obs model.Observation) error {
	return s.mutate(permalink, func(n *model.Note) error {
		n.Observations = append(n.Observations, obs)
		return nil
	})
}

// SetProperty sets (or clears, with a nil value) a scalar property.
func (s *Store) SetProperty(permalink, key string, value interface{}) error {
	return s.mutate(permalink, func(n *model.Note) error {
		if value == nil {
			delete(n.Properties, key)
			return nil
		}
		if n.Properties == nil {
			n.Properties = make(map[string]interface{})
		}
		n.Properties[key] = value
		return nil
	})
}

// mutate applies an edit to a copy of the stored note and swaps it in
// atomically.
func (s *Store) mutate(permalink string, edit func(*model.Note) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.index.Get(permalink)
	if !ok {
		return &graph.NotFoundError{Permalink: permalink}
	}
	c := old.Clone()
	if err := edit(c); err != nil {
		return err
	}
	return s.updateLocked(c)
}

func (s *Store) persist(n *model.Note) error {
	if s.persister == nil {
		return nil
	}
	if err := s.persister.Persist(n); err != nil {
		return fmt.Errorf("persist %s: %w", n.Permalink, err)
	}
	return nil
}
