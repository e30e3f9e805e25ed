// Package check sweeps the store and graph index for consistency problems.
// It is advisory: it reports and never repairs.
package check

import (
	"context"
	"fmt"
	"strings"

	"github.com/loamkb/loam/internal/graph"
	"github.com/loamkb/loam/internal/model"
)

// BrokenLink is a relation whose target reference resolves to no note.
type BrokenLink struct {
	SourceID  string
	Kind      model.RelationKind
	TargetRef string
}

func (b BrokenLink) String() string {
	return fmt.Sprintf("%s --%s--> %q", b.SourceID, b.Kind, b.TargetRef)
}

// Report is the outcome of one validation sweep.
type Report struct {
	// BrokenLinks lists relations with unresolved target references.
	BrokenLinks []BrokenLink

	// Orphans lists notes with no inbound and no outbound relations.
	Orphans []string

	// DuplicateIDs lists permalinks that collide case-insensitively.
	// Store invariants make exact duplicates impossible; this catches
	// out-of-band corruption and case-only collisions.
	DuplicateIDs []string

	// Partial is set when a sweep was cancelled before completing.
	Partial bool
}

// Clean reports whether the sweep found nothing.
func (r *Report) Clean() bool {
	return len(r.BrokenLinks) == 0 && len(r.Orphans) == 0 && len(r.DuplicateIDs) == 0
}

// checkEvery is how many notes are swept between cancellation checks.
const checkEvery = 64

// Validate sweeps every note in the index. It mutates nothing, so
// cancellation simply returns the partial report alongside ctx.Err().
func Validate(ctx context.Context, ix *graph.Index) (*Report, error) {
	report := &Report{}
	seen := make(map[string]string)
	reported := make(map[string]bool)

	for i, n := range ix.All() {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				report.Partial = true
				return report, err
			}
		}

		outbound := ix.OutboundEdges(n.Permalink, "")
		for _, e := range outbound {
			if !e.Resolved() {
				report.BrokenLinks = append(report.BrokenLinks, BrokenLink{
					SourceID:  e.Relation.SourceID,
					Kind:      e.Relation.Kind,
					TargetRef: e.Relation.TargetRef,
				})
			}
		}

		if len(outbound) == 0 && len(ix.InboundEdges(n.Permalink, "")) == 0 {
			report.Orphans = append(report.Orphans, n.Permalink)
		}

		key := strings.ToLower(n.Permalink)
		if prev, ok := seen[key]; ok {
			// The first spelling is reported once, on the first collision.
			if !reported[key] {
				report.DuplicateIDs = append(report.DuplicateIDs, prev)
				reported[key] = true
			}
			report.DuplicateIDs = append(report.DuplicateIDs, n.Permalink)
		} else {
			seen[key] = n.Permalink
		}
	}

	return report, nil
}
