package parser

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/loamkb/loam/internal/model"
	"github.com/loamkb/loam/internal/wikilink"
)

// Body is the parsed body of a note: the prose with the structured list
// items lifted out into relations and observations.
type Body struct {
	Prose        string
	Relations    []model.Relation
	Observations []model.Observation
}

// kindRe matches a relation kind token at the start of a list item:
// lowercase words joined by underscores, e.g. "depends_on".
var kindRe = regexp.MustCompile(`^([a-z][a-z0-9_]*)\s+`)

// tagRe matches inline #tags inside an observation statement.
var tagRe = regexp.MustCompile(`#([\p{L}\p{N}_-]+)`)

// trailingParenRe matches a trailing parenthesized context/note clause.
var trailingParenRe = regexp.MustCompile(`\s*\(([^()]*)\)\s*$`)

// ParseBody extracts relations and observations from markdown list items.
//
// Two list item shapes are structured; everything else is prose:
//
//	- [category] statement #tag (context)
//	- relation_kind [[Target]] (note)
//
// Structured items and the "## Relations" / "## Observations" headings that
// conventionally hold them are removed from the returned prose.
func ParseBody(content string) Body {
	source := []byte(content)
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(source))

	lineStarts := computeLineStarts(content)
	drop := make(map[int]bool)

	var body Body

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			if node.Level == 2 && isStructuralHeading(headingText(node, source)) {
				markNodeLines(node, lineStarts, drop)
			}
			return ast.WalkContinue, nil

		case *ast.ListItem:
			item := listItemText(node, source)
			if item == "" {
				return ast.WalkContinue, nil
			}
			if obs, ok := parseObservation(item); ok {
				body.Observations = append(body.Observations, obs)
				markNodeLines(node, lineStarts, drop)
				return ast.WalkSkipChildren, nil
			}
			if rel, ok := parseRelation(item); ok {
				body.Relations = append(body.Relations, rel)
				markNodeLines(node, lineStarts, drop)
				return ast.WalkSkipChildren, nil
			}
			return ast.WalkContinue, nil
		}

		return ast.WalkContinue, nil
	})

	body.Prose = stripLines(content, drop)
	return body
}

// parseObservation parses "[category] statement #tag (context)".
func parseObservation(item string) (model.Observation, bool) {
	if !strings.HasPrefix(item, "[") {
		return model.Observation{}, false
	}
	// A wikilink-shaped item is not an observation.
	if strings.HasPrefix(item, "[[") {
		return model.Observation{}, false
	}
	end := strings.Index(item, "]")
	if end < 0 {
		return model.Observation{}, false
	}
	category := strings.TrimSpace(item[1:end])
	if category == "" {
		return model.Observation{}, false
	}
	// Task checkbox syntax, not an observation category.
	if category == "x" || category == "X" {
		return model.Observation{}, false
	}
	rest := strings.TrimSpace(item[end+1:])

	var context string
	if m := trailingParenRe.FindStringSubmatch(rest); m != nil {
		context = strings.TrimSpace(m[1])
		rest = strings.TrimSpace(trailingParenRe.ReplaceAllString(rest, ""))
	}

	var tags []string
	for _, m := range tagRe.FindAllStringSubmatch(rest, -1) {
		tags = append(tags, m[1])
	}
	statement := strings.TrimSpace(strings.Join(strings.Fields(tagRe.ReplaceAllString(rest, "")), " "))
	if statement == "" {
		return model.Observation{}, false
	}

	return model.Observation{
		Category:  model.ObservationCategory(category),
		Statement: statement,
		Tags:      tags,
		Context:   context,
	}, true
}

// parseRelation parses "relation_kind [[Target]] (note)".
func parseRelation(item string) (model.Relation, bool) {
	m := kindRe.FindStringSubmatch(item)
	if m == nil {
		return model.Relation{}, false
	}
	rest := strings.TrimSpace(item[len(m[0]):])

	link, ok := wikilink.First(rest)
	if !ok || link.Start != 0 {
		return model.Relation{}, false
	}

	var note string
	after := strings.TrimSpace(rest[link.End:])
	if pm := trailingParenRe.FindStringSubmatch(after); pm != nil && strings.TrimSpace(trailingParenRe.ReplaceAllString(after, "")) == "" {
		note = strings.TrimSpace(pm[1])
	} else if after != "" {
		// Trailing text that is not a parenthesized note: treat the item
		// as prose rather than guessing.
		return model.Relation{}, false
	}

	return model.Relation{
		Kind:      model.RelationKind(m[1]),
		TargetRef: link.Target,
		Note:      note,
	}, true
}

// EncodeBody renders prose plus structured relation/observation sections.
func EncodeBody(b Body) string {
	var out strings.Builder
	prose := strings.TrimRight(b.Prose, "\n")
	if prose != "" {
		out.WriteString(prose)
		out.WriteString("\n")
	}

	if len(b.Observations) > 0 {
		if out.Len() > 0 {
			out.WriteString("\n")
		}
		out.WriteString("## Observations\n\n")
		for _, obs := range b.Observations {
			out.WriteString("- [" + string(obs.Category) + "] " + obs.Statement)
			for _, tag := range obs.Tags {
				out.WriteString(" #" + tag)
			}
			if obs.Context != "" {
				out.WriteString(" (" + obs.Context + ")")
			}
			out.WriteString("\n")
		}
	}

	if len(b.Relations) > 0 {
		if out.Len() > 0 {
			out.WriteString("\n")
		}
		out.WriteString("## Relations\n\n")
		for _, rel := range b.Relations {
			out.WriteString("- " + string(rel.Kind) + " [[" + rel.TargetRef + "]]")
			if rel.Note != "" {
				out.WriteString(" (" + rel.Note + ")")
			}
			out.WriteString("\n")
		}
	}

	return out.String()
}

func isStructuralHeading(text string) bool {
	return strings.EqualFold(text, "relations") || strings.EqualFold(text, "observations")
}

func headingText(h *ast.Heading, source []byte) string {
	var b strings.Builder
	for child := h.FirstChild(); child != nil; child = child.NextSibling() {
		if t, ok := child.(*ast.Text); ok {
			b.Write(t.Segment.Value(source))
		}
	}
	return strings.TrimSpace(b.String())
}

// listItemText joins the raw source lines of a list item's text block.
func listItemText(item *ast.ListItem, source []byte) string {
	child := item.FirstChild()
	if child == nil {
		return ""
	}
	var b strings.Builder
	lines := child.Lines()
	for i := 0; i < lines.Len(); i++ {
		if i > 0 {
			b.WriteString(" ")
		}
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}
	return strings.TrimSpace(b.String())
}

// markNodeLines marks every source line covered by a node for removal.
func markNodeLines(n ast.Node, lineStarts []int, drop map[int]bool) {
	lines := linesOf(n)
	if lines == nil {
		return
	}
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		for l := offsetToLine(lineStarts, seg.Start); l <= offsetToLine(lineStarts, seg.Stop-1); l++ {
			drop[l] = true
		}
	}
}

// linesOf returns the source lines of a node, descending into the first
// child for container nodes like list items.
func linesOf(n ast.Node) *text.Segments {
	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		return n.Lines()
	}
	if child := n.FirstChild(); child != nil {
		return linesOf(child)
	}
	return nil
}

// stripLines rebuilds content without the dropped lines, collapsing the
// blank runs left behind.
func stripLines(content string, drop map[int]bool) string {
	if len(drop) == 0 {
		return strings.TrimRight(content, "\n")
	}
	lines := strings.Split(content, "\n")
	var kept []string
	for i, line := range lines {
		if drop[i] {
			continue
		}
		kept = append(kept, line)
	}
	out := strings.Join(kept, "\n")
	for strings.Contains(out, "\n\n\n") {
		out = strings.ReplaceAll(out, "\n\n\n", "\n\n")
	}
	return strings.Trim(out, "\n")
}

// computeLineStarts computes the byte offset of each line start.
func computeLineStarts(content string) []int {
	starts := []int{0}
	for i, c := range content {
		if c == '\n' && i+1 < len(content) {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// offsetToLine converts a byte offset to a 0-indexed line number.
func offsetToLine(lineStarts []int, offset int) int {
	for i := len(lineStarts) - 1; i >= 0; i-- {
		if lineStarts[i] <= offset {
			return i
		}
	}
	return 0
}
