// Package graph maintains the secondary indexes over the document store:
// permalinks, titles/aliases, hierarchical paths, and the typed relation
// adjacency, all updated incrementally on every mutation.
package graph

import (
	"sort"
	"strings"
	"sync"

	"github.com/loamkb/loam/internal/model"
)

// Edge is a relation edge as seen by the index: the raw relation plus the
// permalink it resolved to, if any.
type Edge struct {
	Relation model.Relation

	// Target is the resolved target permalink, or "" while unresolved.
	// An edge stays unresolved until its reference denotes exactly one
	// existing note; ambiguous titles do not resolve.
	Target string
}

// Resolved reports whether the edge currently points at an existing note.
func (e Edge) Resolved() bool { return e.Target != "" }

// Index holds all secondary indexes. It is safe for concurrent use: reads
// run concurrently, and each mutation is applied atomically under a write
// lock so a reader observes either the full pre- or post-mutation state.
type Index struct {
	mu sync.RWMutex

	// notes maps permalink to note.
	notes map[string]*model.Note

	// titles maps lowercased title/alias to permalinks. Lookup results are
	// ordered by creation time ascending.
	titles map[string][]string

	// paths indexes notes by their hierarchical path segments.
	paths *pathTrie

	// forward maps source permalink -> kind -> outbound edges.
	forward map[string]map[model.RelationKind][]*Edge

	// backward maps resolved target permalink -> kind -> inbound edges.
	backward map[string]map[model.RelationKind][]*Edge

	// unresolved maps the lowercased raw reference to edges waiting for a
	// note that satisfies it. Creating the target later resolves them.
	unresolved map[string][]*Edge
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{
		notes:      make(map[string]*model.Note),
		titles:     make(map[string][]string),
		paths:      newPathTrie(),
		forward:    make(map[string]map[model.RelationKind][]*Edge),
		backward:   make(map[string]map[model.RelationKind][]*Edge),
		unresolved: make(map[string][]*Edge),
	}
}

// Len returns the number of indexed notes.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.notes)
}

// Add indexes a new note. It fails with *DuplicateIdentifierError when the
// permalink is already taken.
func (ix *Index) Add(n *model.Note) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if _, exists := ix.notes[n.Permalink]; exists {
		return &DuplicateIdentifierError{Permalink: n.Permalink}
	}
	ix.addLocked(n)
	return nil
}

// Replace swaps the indexed state of an existing note for its updated form.
func (ix *Index) Replace(n *model.Note) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	old, exists := ix.notes[n.Permalink]
	if !exists {
		return &NotFoundError{Permalink: n.Permalink}
	}
	ix.removeLocked(old)
	ix.addLocked(n)
	return nil
}

// Remove drops a note from all indexes and returns the inbound edges that
// now dangle. The dangling relations still live on their source notes;
// removal reports them, it never silently drops them.
func (ix *Index) Remove(permalink string) ([]Edge, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	n, exists := ix.notes[permalink]
	if !exists {
		return nil, &NotFoundError{Permalink: permalink}
	}

	var dangling []Edge
	for _, byKind := range ix.backward[permalink] {
		for _, e := range byKind {
			dangling = append(dangling, *e)
		}
	}

	ix.removeLocked(n)
	return dangling, nil
}

// Get returns the indexed note for a permalink.
func (ix *Index) Get(permalink string) (*model.Note, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	n, ok := ix.notes[permalink]
	return n, ok
}

// ByTitle returns all notes whose title or alias matches, case-insensitively,
// ordered by creation time ascending. Multiple matches are a caller-visible
// condition, not an error.
func (ix *Index) ByTitle(title string) []*model.Note {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	links := ix.titles[strings.ToLower(strings.TrimSpace(title))]
	out := make([]*model.Note, 0, len(links))
	for _, pl := range links {
		if n, ok := ix.notes[pl]; ok {
			out = append(out, n)
		}
	}
	sortByCreation(out)
	return out
}

// ByFolder returns all notes whose path lives at or under the given folder.
func (ix *Index) ByFolder(folder string) []*model.Note {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	out := ix.paths.collect(splitPath(folder))
	sortByCreation(out)
	return out
}

// MatchGlob returns all notes whose path matches the segment patterns.
// Each pattern segment is a literal, "*", "prefix*", or "*suffix"; matching
// is case-insensitive and a wildcard never crosses a segment boundary.
func (ix *Index) MatchGlob(segments []string) []*model.Note {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	out := ix.paths.match(segments)
	sortByCreation(out)
	return out
}

// All returns every indexed note, ordered by creation time ascending.
func (ix *Index) All() []*model.Note {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	out := make([]*model.Note, 0, len(ix.notes))
	for _, n := range ix.notes {
		out = append(out, n)
	}
	sortByCreation(out)
	return out
}

// OutboundEdges returns a note's outbound edges, optionally restricted to a
// kind (empty kind means all kinds).
func (ix *Index) OutboundEdges(permalink string, kind model.RelationKind) []Edge {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return collectEdges(ix.forward[permalink], kind)
}

// InboundEdges returns the resolved edges pointing at a note.
func (ix *Index) InboundEdges(permalink string, kind model.RelationKind) []Edge {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return collectEdges(ix.backward[permalink], kind)
}

// Outbound returns the resolved target permalinks one hop out from a note.
// It implements the expression engine's GraphReader.
func (ix *Index) Outbound(permalink string, kind model.RelationKind) []string {
	var out []string
	for _, e := range ix.OutboundEdges(permalink, kind) {
		if e.Resolved() {
			out = append(out, e.Target)
		}
	}
	return out
}

// Inbound returns the source permalinks of resolved edges pointing at a note.
func (ix *Index) Inbound(permalink string, kind model.RelationKind) []string {
	var out []string
	for _, e := range ix.InboundEdges(permalink, kind) {
		out = append(out, e.Relation.SourceID)
	}
	return out
}

// addLocked indexes a note. Caller holds the write lock.
func (ix *Index) addLocked(n *model.Note) {
	ix.notes[n.Permalink] = n

	ix.addTitleKey(n.Title, n.Permalink)
	for _, alias := range n.Aliases {
		ix.addTitleKey(alias, n.Permalink)
	}

	ix.paths.insert(splitPath(n.EffectivePath()), n)

	for i := range n.Relations {
		rel := n.Relations[i]
		rel.SourceID = n.Permalink
		e := &Edge{Relation: rel}
		kind := rel.Kind
		if ix.forward[n.Permalink] == nil {
			ix.forward[n.Permalink] = make(map[model.RelationKind][]*Edge)
		}
		ix.forward[n.Permalink][kind] = append(ix.forward[n.Permalink][kind], e)
		ix.bindEdge(e)
	}

	// The new note may satisfy references that were waiting for it.
	ix.adoptUnresolved(n)
}

// removeLocked drops a note from every index. Caller holds the write lock.
func (ix *Index) removeLocked(n *model.Note) {
	delete(ix.notes, n.Permalink)

	ix.dropTitleKey(n.Title, n.Permalink)
	for _, alias := range n.Aliases {
		ix.dropTitleKey(alias, n.Permalink)
	}

	ix.paths.remove(splitPath(n.EffectivePath()), n)

	// Outbound edges disappear with their source.
	for _, edges := range ix.forward[n.Permalink] {
		for _, e := range edges {
			ix.unbindEdge(e)
		}
	}
	delete(ix.forward, n.Permalink)

	// Inbound edges lose their target and go back to waiting.
	for _, edges := range ix.backward[n.Permalink] {
		for _, e := range edges {
			e.Target = ""
			ix.parkEdge(e)
		}
	}
	delete(ix.backward, n.Permalink)
}

// bindEdge resolves an edge's reference against the current notes and files
// it under backward, or parks it as unresolved.
func (ix *Index) bindEdge(e *Edge) {
	target := ix.resolveRefLocked(e.Relation.TargetRef)
	if target == "" {
		ix.parkEdge(e)
		return
	}
	e.Target = target
	if ix.backward[target] == nil {
		ix.backward[target] = make(map[model.RelationKind][]*Edge)
	}
	kind := e.Relation.Kind
	ix.backward[target][kind] = append(ix.backward[target][kind], e)
}

// unbindEdge removes an edge from backward or unresolved bookkeeping.
func (ix *Index) unbindEdge(e *Edge) {
	if e.Target == "" {
		key := refKey(e.Relation.TargetRef)
		ix.unresolved[key] = removeEdge(ix.unresolved[key], e)
		if len(ix.unresolved[key]) == 0 {
			delete(ix.unresolved, key)
		}
		return
	}
	byKind := ix.backward[e.Target]
	if byKind != nil {
		kind := e.Relation.Kind
		byKind[kind] = removeEdge(byKind[kind], e)
		if len(byKind[kind]) == 0 {
			delete(byKind, kind)
		}
		if len(byKind) == 0 {
			delete(ix.backward, e.Target)
		}
	}
}

func (ix *Index) parkEdge(e *Edge) {
	key := refKey(e.Relation.TargetRef)
	ix.unresolved[key] = append(ix.unresolved[key], e)
}

// adoptUnresolved re-binds parked edges whose reference now denotes the
// freshly indexed note. Keys are checked directly, so a single-note mutation
// never triggers a full rescan.
func (ix *Index) adoptUnresolved(n *model.Note) {
	keys := []string{refKey(n.Permalink), refKey(n.Title)}
	for _, alias := range n.Aliases {
		keys = append(keys, refKey(alias))
	}

	for _, key := range keys {
		edges := ix.unresolved[key]
		if len(edges) == 0 {
			continue
		}
		delete(ix.unresolved, key)
		for _, e := range edges {
			ix.bindEdge(e)
		}
	}
}

// resolveRefLocked resolves a raw reference to a permalink: exact permalink
// first, then an unambiguous title/alias. Ambiguity leaves the edge
// unresolved; the validator, not the index, decides whether that is a
// problem.
func (ix *Index) resolveRefLocked(ref string) string {
	ref = strings.TrimSpace(ref)
	if _, ok := ix.notes[ref]; ok {
		return ref
	}
	matches := ix.titles[strings.ToLower(ref)]
	if len(matches) == 1 {
		return matches[0]
	}
	return ""
}

func (ix *Index) addTitleKey(title, permalink string) {
	key := strings.ToLower(strings.TrimSpace(title))
	if key == "" {
		return
	}
	ix.titles[key] = append(ix.titles[key], permalink)
}

func (ix *Index) dropTitleKey(title, permalink string) {
	key := strings.ToLower(strings.TrimSpace(title))
	links := ix.titles[key]
	for i, pl := range links {
		if pl == permalink {
			ix.titles[key] = append(links[:i], links[i+1:]...)
			break
		}
	}
	if len(ix.titles[key]) == 0 {
		delete(ix.titles, key)
	}
}

func collectEdges(byKind map[model.RelationKind][]*Edge, kind model.RelationKind) []Edge {
	var out []Edge
	if byKind == nil {
		return nil
	}
	if kind != "" {
		for _, e := range byKind[kind] {
			out = append(out, *e)
		}
		return out
	}
	kinds := make([]model.RelationKind, 0, len(byKind))
	for k := range byKind {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	for _, k := range kinds {
		for _, e := range byKind[k] {
			out = append(out, *e)
		}
	}
	return out
}

func removeEdge(edges []*Edge, target *Edge) []*Edge {
	for i, e := range edges {
		if e == target {
			return append(edges[:i], edges[i+1:]...)
		}
	}
	return edges
}

func refKey(ref string) string {
	return strings.ToLower(strings.TrimSpace(ref))
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// sortByCreation orders notes by creation time ascending, breaking ties by
// permalink for deterministic output.
func sortByCreation(notes []*model.Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].CreatedAt.Equal(notes[j].CreatedAt) {
			return notes[i].Permalink < notes[j].Permalink
		}
		return notes[i].CreatedAt.Before(notes[j].CreatedAt)
	})
}
