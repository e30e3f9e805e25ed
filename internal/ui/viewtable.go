package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/loamkb/loam/internal/expr"
	"github.com/loamkb/loam/internal/view"
)

// RenderView renders a materialized view definition for the terminal.
func RenderView(def *view.Definition, res *view.Result) string {
	var sb strings.Builder

	sb.WriteString(AccentBold.Render(res.Definition))
	sb.WriteString("\n")
	for _, d := range res.Diagnostics {
		sb.WriteString(Warning(d))
		sb.WriteString("\n")
	}

	columns := viewColumns(def)

	for _, v := range res.Views {
		sb.WriteString("\n")
		sb.WriteString(Header(v.Name))
		sb.WriteString(" ")
		sb.WriteString(Hint(v.Kind))
		sb.WriteString("\n")

		for _, d := range v.Diagnostics {
			sb.WriteString(Warning(d))
			sb.WriteString("\n")
		}

		if len(v.Groups) > 0 {
			for _, g := range v.Groups {
				key := g.Key
				if key == "" {
					key = "(none)"
				}
				sb.WriteString(Accent.Render(key))
				sb.WriteString(" ")
				sb.WriteString(Hint(Count(len(g.Records), "note", "notes")))
				sb.WriteString("\n")
				sb.WriteString(recordTable(columns, g.Records))
			}
			continue
		}

		if len(v.Records) == 0 {
			sb.WriteString(Hint("no matching notes"))
			sb.WriteString("\n")
			continue
		}
		sb.WriteString(recordTable(columns, v.Records))
	}

	return sb.String()
}

// viewColumns returns the value columns: declared properties first, then
// formula names in stable order.
func viewColumns(def *view.Definition) []string {
	columns := append([]string{}, def.Properties...)

	formulas := make([]string, 0, len(def.Formulas))
	for name := range def.Formulas {
		formulas = append(formulas, name)
	}
	sort.Strings(formulas)
	return append(columns, formulas...)
}

func recordTable(columns []string, records []view.Record) string {
	t := NewTable(len(columns) + 2)

	header := append([]string{"title", "permalink"}, columns...)
	t.AddRow(header...)

	for _, rec := range records {
		row := []string{rec.Note.Title, rec.Note.Permalink}
		for _, col := range columns {
			row = append(row, cellText(rec, col))
		}
		t.AddRow(row...)
	}
	return t.String()
}

func cellText(rec view.Record, col string) string {
	if v, ok := rec.Values[col]; ok {
		return v.Text()
	}
	if raw, ok := rec.Note.Property(col); ok {
		return expr.FromAny(raw).Text()
	}
	return ""
}

// RenderReportLine formats a labelled count for check-style summaries.
func RenderReportLine(label string, n int) string {
	if n == 0 {
		return Success(fmt.Sprintf("%s: none", label))
	}
	return Warningf("%s: %d", label, n)
}
