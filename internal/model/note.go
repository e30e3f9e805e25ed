// Package model defines the core data model shared across loam:
// notes, relations, and observations.
package model

import (
	"strings"
	"time"
)

// NoteType is the type tag of a note. The set of well-known types is open:
// unrecognized values are preserved, never rejected.
type NoteType string

// Well-known note types.
const (
	TypeNote     NoteType = "note"
	TypeEntity   NoteType = "entity"
	TypeDecision NoteType = "decision"
	TypeProcess  NoteType = "process"
	TypeSpec     NoteType = "spec"
	TypeMeeting  NoteType = "meeting"
	TypePerson   NoteType = "person"
	TypeProject  NoteType = "project"
)

var knownTypes = map[NoteType]struct{}{
	TypeNote:     {},
	TypeEntity:   {},
	TypeDecision: {},
	TypeProcess:  {},
	TypeSpec:     {},
	TypeMeeting:  {},
	TypePerson:   {},
	TypeProject:  {},
}

// Known reports whether t is one of the well-known note types.
// Unknown types are still valid; this only drives display hints.
func (t NoteType) Known() bool {
	_, ok := knownTypes[t]
	return ok
}

// Status is the lifecycle status of a note.
type Status string

// Note statuses.
const (
	StatusActive     Status = "active"
	StatusDraft      Status = "draft"
	StatusDeprecated Status = "deprecated"
)

// Note is an addressable unit of knowledge.
//
// Identity is the Permalink, unique within a store. The Path places the note
// in a folder hierarchy but is not identity: a note can move without changing
// its permalink.
type Note struct {
	// Permalink uniquely identifies this note within the store.
	Permalink string `json:"permalink"`

	// Title is the human-readable title. Titles are not unique.
	Title string `json:"title"`

	// Type is the note's type tag (open vocabulary).
	Type NoteType `json:"type"`

	// Status is the lifecycle status (active/draft/deprecated).
	Status Status `json:"status"`

	// Path is the hierarchical location, e.g. "project/alpha/requirements".
	// Defaults to the permalink when unset.
	Path string `json:"path"`

	// Aliases are alternate titles, in declaration order.
	Aliases []string `json:"aliases,omitempty"`

	// Tags is the note's tag set.
	Tags []string `json:"tags,omitempty"`

	// Properties holds arbitrary scalar metadata from the structured header.
	// Values are string, float64, int, bool, or time.Time as decoded.
	Properties map[string]interface{} `json:"properties,omitempty"`

	// Body is the free-text prose, without the structured header block.
	Body string `json:"body,omitempty"`

	// Relations are the outbound typed edges embedded in the body.
	Relations []Relation `json:"relations,omitempty"`

	// Observations are the atomic annotations embedded in the body.
	Observations []Observation `json:"observations,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EffectivePath returns Path, falling back to the permalink.
func (n *Note) EffectivePath() string {
	if n.Path != "" {
		return n.Path
	}
	return n.Permalink
}

// Folder returns the parent folder of the note's path, or "" for top-level notes.
func (n *Note) Folder() string {
	p := n.EffectivePath()
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] == '/' {
			return p[:i]
		}
	}
	return ""
}

// Name returns the last path segment of the note, used as the file-level
// "name" pseudo-property.
func (n *Note) Name() string {
	p := n.EffectivePath()
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] == '/' {
			return p[i+1:]
		}
	}
	return p
}

// HasTag reports whether the note carries the given tag (case-insensitive).
func (n *Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Property returns the named property value and whether it is present.
func (n *Note) Property(name string) (interface{}, bool) {
	if n.Properties == nil {
		return nil, false
	}
	v, ok := n.Properties[name]
	return v, ok
}

// Clone returns a deep copy of the note. The store hands out clones so that
// readers can never mutate indexed state.
func (n *Note) Clone() *Note {
	c := *n
	c.Aliases = append([]string(nil), n.Aliases...)
	c.Tags = append([]string(nil), n.Tags...)
	c.Relations = append([]Relation(nil), n.Relations...)
	c.Observations = make([]Observation, len(n.Observations))
	for i, o := range n.Observations {
		c.Observations[i] = o
		c.Observations[i].Tags = append([]string(nil), o.Tags...)
	}
	if n.Properties != nil {
		c.Properties = make(map[string]interface{}, len(n.Properties))
		for k, v := range n.Properties {
			c.Properties[k] = v
		}
	}
	return &c
}
