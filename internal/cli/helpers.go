package cli

import (
	"fmt"
	"strings"

	"github.com/loamkb/loam/internal/model"
	"github.com/loamkb/loam/internal/resolver"
	"github.com/loamkb/loam/internal/store"
)

// noteJSON is the JSON projection of a note used across commands.
type noteJSON struct {
	Permalink  string                 `json:"permalink"`
	Title      string                 `json:"title"`
	Type       string                 `json:"type"`
	Status     string                 `json:"status"`
	Path       string                 `json:"path"`
	Tags       []string               `json:"tags,omitempty"`
	Aliases    []string               `json:"aliases,omitempty"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

func toNoteJSON(n *model.Note) noteJSON {
	return noteJSON{
		Permalink:  n.Permalink,
		Title:      n.Title,
		Type:       string(n.Type),
		Status:     string(n.Status),
		Path:       n.EffectivePath(),
		Tags:       n.Tags,
		Aliases:    n.Aliases,
		Properties: n.Properties,
	}
}

// resolveOne resolves a reference to exactly one note. Zero matches and
// multiple matches are both errors; the ambiguous case lists the candidate
// permalinks so the caller can retry with one of them.
func resolveOne(s *store.Store, ref string) (*model.Note, error) {
	r := resolver.New(s.Index())
	res, err := r.Resolve(ref)
	if err != nil {
		return nil, err
	}
	if res.Empty() {
		return nil, fmt.Errorf("no note matches '%s'", ref)
	}
	if len(res.Matches) > 1 {
		var ids []string
		for _, m := range res.Matches {
			ids = append(ids, m.Note.Permalink)
		}
		return nil, fmt.Errorf("'%s' is ambiguous, matches: %s", ref, strings.Join(ids, ", "))
	}
	return res.Matches[0].Note, nil
}

// resolveMany resolves a reference to its full match set.
func resolveMany(s *store.Store, ref string) (resolver.Result, error) {
	return resolver.New(s.Index()).Resolve(ref)
}
