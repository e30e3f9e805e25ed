package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/loamkb/loam/internal/expr"
	"github.com/loamkb/loam/internal/ui"
	"github.com/loamkb/loam/internal/view"
)

var (
	queryOrder []string
	queryLimit int
)

var queryCmd = &cobra.Command{
	Use:   "query <filter>",
	Short: "Query notes with a filter expression",
	Long: `Selects notes matching a filter expression. The expression language has
properties, comparisons, and/or/not, arithmetic, and functions like
contains(), links(), now(), and if().

Examples:
  loam query 'type == "decision" and status == "active"'
  loam query 'priority >= 2' --order -priority --limit 10
  loam query 'date(due) - now() < 7' --order due
  loam query 'contains(links("depends_on"), "project/alpha")'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return handleError(ErrCodeStorageError, err, "")
		}

		// Validate the filter up front so a typo is an error, not a
		// silently empty result.
		if _, err := expr.Parse(args[0]); err != nil {
			return handleError(ErrCodeExpressionError, err, "")
		}

		start := time.Now()

		// An ad-hoc one-view definition reuses the materializer's sort
		// and per-record error absorption.
		def := &view.Definition{
			Name:   "query",
			Filter: args[0],
			Views:  []view.Spec{{Kind: "table", Name: "query", Order: queryOrder}},
		}
		res := view.Materialize(def, s.List(), s.Index(), time.Now())

		records := res.Views[0].Records
		if queryLimit > 0 && len(records) > queryLimit {
			records = records[:queryLimit]
		}
		elapsed := time.Since(start).Milliseconds()

		if isJSONOutput() {
			items := make([]noteJSON, len(records))
			for i, rec := range records {
				items[i] = toNoteJSON(rec.Note)
			}
			outputSuccessWithWarnings(map[string]interface{}{"items": items},
				diagnosticsToWarnings(res), &Meta{Count: len(items), QueryTimeMs: elapsed})
			return nil
		}

		for _, d := range res.Diagnostics {
			fmt.Println(ui.Warning(d))
		}
		for _, d := range res.Views[0].Diagnostics {
			fmt.Println(ui.Warning(d))
		}

		if len(records) == 0 {
			fmt.Println("No notes match")
			return nil
		}

		table := ui.NewTable(3)
		for _, rec := range records {
			table.AddRow(rec.Note.Title, string(rec.Note.Type), ui.Permalink(rec.Note.Permalink))
		}
		fmt.Print(table.String())
		fmt.Println()
		fmt.Println(ui.Count(len(records), "note", "notes"))
		return nil
	},
}

func diagnosticsToWarnings(res *view.Result) []Warning {
	var out []Warning
	for _, d := range res.Diagnostics {
		out = append(out, Warning{Code: "VIEW_DIAGNOSTIC", Message: d})
	}
	for _, v := range res.Views {
		for _, d := range v.Diagnostics {
			out = append(out, Warning{Code: "VIEW_DIAGNOSTIC", Message: d, Ref: v.Name})
		}
	}
	return out
}

func init() {
	queryCmd.Flags().StringSliceVar(&queryOrder, "order", nil, "Sort keys, '-' prefix for descending")
	queryCmd.Flags().IntVar(&queryLimit, "limit", 0, "Maximum number of results (0 = all)")
	rootCmd.AddCommand(queryCmd)
}
