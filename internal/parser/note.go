package parser

import (
	"fmt"
	"strings"

	"github.com/loamkb/loam/internal/model"
	"github.com/loamkb/loam/internal/slugs"
)

// Decode parses a complete markdown note file into the note model.
// The path (store-relative, without extension) seeds the note's path and,
// when the frontmatter carries no permalink, its identity.
func Decode(path, content string) (*model.Note, error) {
	fm, err := ParseFrontmatter(content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	n := &model.Note{Path: path}
	bodyText := content

	if fm != nil {
		n.Permalink = fm.Permalink
		n.Title = fm.Title
		n.Type = model.NoteType(fm.Type)
		n.Status = model.Status(fm.Status)
		n.Tags = fm.Tags
		n.Aliases = fm.Aliases
		n.Properties = fm.Properties
		n.CreatedAt = fm.Created
		n.UpdatedAt = fm.Updated

		lines := strings.Split(content, "\n")
		if fm.EndLine < len(lines) {
			bodyText = strings.Join(lines[fm.EndLine:], "\n")
		} else {
			bodyText = ""
		}
	}

	if n.Title == "" {
		n.Title = titleFromPath(path)
	}
	if n.Type == "" {
		n.Type = model.TypeNote
	}
	if n.Status == "" {
		n.Status = model.StatusActive
	}
	if n.Permalink == "" {
		n.Permalink = slugs.Path(path)
	}

	body := ParseBody(bodyText)
	n.Body = body.Prose
	n.Observations = body.Observations
	n.Relations = body.Relations
	for i := range n.Relations {
		n.Relations[i].SourceID = n.Permalink
	}

	return n, nil
}

// Encode renders a note back to its markdown file form.
func Encode(n *model.Note) (string, error) {
	fm, err := EncodeFrontmatter(n)
	if err != nil {
		return "", err
	}

	body := EncodeBody(Body{
		Prose:        n.Body,
		Relations:    n.Relations,
		Observations: n.Observations,
	})

	if body == "" {
		return fm, nil
	}
	return fm + "\n" + body, nil
}

func titleFromPath(path string) string {
	base := path
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}
	return strings.TrimSpace(base)
}
