package model

// ObservationCategory classifies an observation. The vocabulary is
// closed-but-extensible: well-known categories get a fast path, anything
// else is preserved and surfaced as uncategorized.
type ObservationCategory string

// Well-known observation categories.
const (
	CatTech        ObservationCategory = "tech"
	CatDesign      ObservationCategory = "design"
	CatDecision    ObservationCategory = "decision"
	CatIssue       ObservationCategory = "issue"
	CatMethod      ObservationCategory = "method"
	CatPrinciple   ObservationCategory = "principle"
	CatFact        ObservationCategory = "fact"
	CatIdea        ObservationCategory = "idea"
	CatTechnique   ObservationCategory = "technique"
	CatRequirement ObservationCategory = "requirement"
	CatProblem     ObservationCategory = "problem"
	CatSolution    ObservationCategory = "solution"
	CatInsight     ObservationCategory = "insight"
	CatFeature     ObservationCategory = "feature"
	CatPreference  ObservationCategory = "preference"
)

var knownCategories = map[ObservationCategory]struct{}{
	CatTech:        {},
	CatDesign:      {},
	CatDecision:    {},
	CatIssue:       {},
	CatMethod:      {},
	CatPrinciple:   {},
	CatFact:        {},
	CatIdea:        {},
	CatTechnique:   {},
	CatRequirement: {},
	CatProblem:     {},
	CatSolution:    {},
	CatInsight:     {},
	CatFeature:     {},
	CatPreference:  {},
}

// Known reports whether c is a well-known observation category.
func (c ObservationCategory) Known() bool {
	_, ok := knownCategories[c]
	return ok
}

// Observation is an atomic annotation attached to a note. Observations carry
// no outbound identity; they are read-only facts about their owning note.
type Observation struct {
	// Category classifies the observation (open vocabulary).
	Category ObservationCategory `json:"category"`

	// Statement is the observation text.
	Statement string `json:"statement"`

	// Tags are inline tags attached to this observation.
	Tags []string `json:"tags,omitempty"`

	// Context is optional trailing context, e.g. why the fact matters.
	Context string `json:"context,omitempty"`
}
