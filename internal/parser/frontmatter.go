// Package parser handles the markdown encoding of notes: YAML frontmatter
// for metadata and structured body list items for relations and observations.
package parser

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/loamkb/loam/internal/dates"
	"github.com/loamkb/loam/internal/model"
)

// Frontmatter is the parsed YAML header of a note file.
type Frontmatter struct {
	Permalink string
	Title     string
	Type      string
	Status    string
	Tags      []string
	Aliases   []string
	Created   time.Time
	Updated   time.Time

	// Properties holds every field not claimed by a named key above.
	Properties map[string]interface{}

	// EndLine is the line where frontmatter ends (1-indexed).
	EndLine int
}

// FrontmatterBounds returns the opening and closing frontmatter line indices.
// It only detects frontmatter when the first line is '---'.
// If frontmatter is present but unclosed, endLine is -1.
func FrontmatterBounds(lines []string) (startLine int, endLine int, ok bool) {
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return 0, -1, false
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return 0, i, true
		}
	}
	return 0, -1, true
}

// ParseFrontmatter parses the YAML frontmatter of a note file.
// Returns nil if no frontmatter is found.
func ParseFrontmatter(content string) (*Frontmatter, error) {
	lines := strings.Split(content, "\n")

	_, endLine, ok := FrontmatterBounds(lines)
	if !ok {
		return nil, nil
	}
	if endLine == -1 {
		return nil, nil // No closing ---
	}

	raw := strings.Join(lines[1:endLine], "\n")

	var yamlData map[string]interface{}
	if err := yaml.Unmarshal([]byte(raw), &yamlData); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter as YAML: %w", err)
	}

	fm := &Frontmatter{
		EndLine:    endLine + 1, // +1 for 1-indexed lines
		Properties: make(map[string]interface{}),
	}

	for key, value := range yamlData {
		switch key {
		case "permalink":
			fm.Permalink = asString(value)
		case "title":
			fm.Title = asString(value)
		case "type":
			fm.Type = asString(value)
		case "status":
			fm.Status = asString(value)
		case "tags":
			fm.Tags = asStringList(value)
		case "aliases":
			fm.Aliases = asStringList(value)
		case "created":
			fm.Created = asTime(value)
		case "modified", "updated":
			fm.Updated = asTime(value)
		default:
			fm.Properties[key] = normalizeYAML(value)
		}
	}

	return fm, nil
}

func asString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

func asStringList(value interface{}) []string {
	switch v := value.(type) {
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s := strings.TrimSpace(asString(item)); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		// Comma-separated scalar form: "a, b, c".
		var out []string
		for _, part := range strings.Split(v, ",") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func asTime(value interface{}) time.Time {
	switch v := value.(type) {
	case time.Time:
		return v
	case string:
		if t, err := dates.ParseAny(v); err == nil {
			return t
		}
	}
	return time.Time{}
}

// normalizeYAML converts YAML scalars to the property representation used
// across the store: numbers stay numeric, YAML timestamps become canonical
// date/datetime strings, nested lists keep their structure.
func normalizeYAML(value interface{}) interface{} {
	switch v := value.(type) {
	case time.Time:
		if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 && v.Nanosecond() == 0 {
			return v.Format(dates.DateLayout)
		}
		if v.Second() == 0 && v.Nanosecond() == 0 {
			return v.Format(dates.DatetimeLayout)
		}
		return v.Format(dates.DatetimeSecondsLayout)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case []interface{}:
		out := make([]interface{}, 0, len(v))
		for _, item := range v {
			out = append(out, normalizeYAML(item))
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, item := range v {
			out[k] = normalizeYAML(item)
		}
		return out
	default:
		return v
	}
}

// EncodeFrontmatter renders a note's metadata as a YAML frontmatter block,
// including the surrounding '---' fences.
func EncodeFrontmatter(n *model.Note) (string, error) {
	var b strings.Builder
	b.WriteString("---\n")

	if err := writeYAMLField(&b, "title", n.Title); err != nil {
		return "", err
	}
	if err := writeYAMLField(&b, "type", string(n.Type)); err != nil {
		return "", err
	}
	if err := writeYAMLField(&b, "permalink", n.Permalink); err != nil {
		return "", err
	}
	if n.Status != "" && n.Status != model.StatusActive {
		if err := writeYAMLField(&b, "status", string(n.Status)); err != nil {
			return "", err
		}
	}
	if len(n.Tags) > 0 {
		if err := writeYAMLField(&b, "tags", n.Tags); err != nil {
			return "", err
		}
	}
	if len(n.Aliases) > 0 {
		if err := writeYAMLField(&b, "aliases", n.Aliases); err != nil {
			return "", err
		}
	}
	for _, key := range sortedKeys(n.Properties) {
		if err := writeYAMLField(&b, key, n.Properties[key]); err != nil {
			return "", err
		}
	}
	if !n.CreatedAt.IsZero() {
		if err := writeYAMLField(&b, "created", n.CreatedAt.Format(dates.DatetimeSecondsLayout)); err != nil {
			return "", err
		}
	}
	if !n.UpdatedAt.IsZero() {
		if err := writeYAMLField(&b, "modified", n.UpdatedAt.Format(dates.DatetimeSecondsLayout)); err != nil {
			return "", err
		}
	}

	b.WriteString("---\n")
	return b.String(), nil
}

// writeYAMLField marshals a single key/value pair so that field order is
// under our control rather than the map iteration order.
func writeYAMLField(b *strings.Builder, key string, value interface{}) error {
	out, err := yaml.Marshal(map[string]interface{}{key: value})
	if err != nil {
		return fmt.Errorf("encode frontmatter field %q: %w", key, err)
	}
	b.Write(out)
	return nil
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
