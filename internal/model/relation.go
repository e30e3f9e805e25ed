package model

// RelationKind is the type of a directed edge between notes. The vocabulary
// is open: unrecognized kinds are preserved as written.
type RelationKind string

// Well-known relation kinds.
const (
	RelImplements    RelationKind = "implements"
	RelDependsOn     RelationKind = "depends_on"
	RelRequires      RelationKind = "requires"
	RelRelatesTo     RelationKind = "relates_to"
	RelExtends       RelationKind = "extends"
	RelPairsWith     RelationKind = "pairs_with"
	RelPartOf        RelationKind = "part_of"
	RelContains      RelationKind = "contains"
	RelInspiredBy    RelationKind = "inspired_by"
	RelContrastsWith RelationKind = "contrasts_with"
	RelLeadsTo       RelationKind = "leads_to"
	RelCausedBy      RelationKind = "caused_by"
)

var knownKinds = map[RelationKind]struct{}{
	RelImplements:    {},
	RelDependsOn:     {},
	RelRequires:      {},
	RelRelatesTo:     {},
	RelExtends:       {},
	RelPairsWith:     {},
	RelPartOf:        {},
	RelContains:      {},
	RelInspiredBy:    {},
	RelContrastsWith: {},
	RelLeadsTo:       {},
	RelCausedBy:      {},
}

// Known reports whether k is a well-known relation kind. Unknown kinds are
// valid; the validator surfaces them as uncategorized, never as errors.
func (k RelationKind) Known() bool {
	_, ok := knownKinds[k]
	return ok
}

// Relation is a directed, typed edge from a source note to a target.
//
// TargetRef is a resolver expression, most often a literal title or
// permalink. It may be unresolved at creation time: the target note need not
// exist yet. Resolution happens at read time, so creating the target later
// heals the edge without rewriting the source note.
type Relation struct {
	// SourceID is the permalink of the note carrying this relation.
	SourceID string `json:"source_id"`

	// Kind is the relation kind (open vocabulary).
	Kind RelationKind `json:"kind"`

	// TargetRef is the reference to the target as written.
	TargetRef string `json:"target_ref"`

	// Note is optional free text attached to the edge.
	Note string `json:"note,omitempty"`
}
