package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/loamkb/loam/internal/ui"
	"github.com/loamkb/loam/internal/view"
)

var viewCmd = &cobra.Command{
	Use:   "view <definition.yaml>",
	Short: "Materialize a view definition",
	Long: `Loads a YAML view definition and materializes it against the store.
A definition names a filter, projected properties, computed formulas, and
one or more views with ordering and grouping.

Examples:
  loam view views/active-projects.yaml
  loam view views/by-owner.yaml --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return handleError(ErrCodeViewError, fmt.Errorf("failed to read view definition: %w", err), "")
		}
		def, err := view.Load(data)
		if err != nil {
			return handleError(ErrCodeViewError, err, "")
		}

		s, err := openStore()
		if err != nil {
			return handleError(ErrCodeStorageError, err, "")
		}

		start := time.Now()
		res := view.Materialize(def, s.List(), s.Index(), time.Now())
		elapsed := time.Since(start).Milliseconds()

		if isJSONOutput() {
			outputSuccessWithWarnings(viewResultJSON(def, res),
				diagnosticsToWarnings(res), &Meta{QueryTimeMs: elapsed})
			return nil
		}

		fmt.Print(ui.RenderView(def, res))
		return nil
	},
}

func viewResultJSON(def *view.Definition, res *view.Result) map[string]interface{} {
	views := make([]map[string]interface{}, len(res.Views))
	for i, v := range res.Views {
		jv := map[string]interface{}{
			"name": v.Name,
			"kind": v.Kind,
		}
		if len(v.Groups) > 0 {
			groups := make([]map[string]interface{}, len(v.Groups))
			for gi, g := range v.Groups {
				groups[gi] = map[string]interface{}{
					"key":     g.Key,
					"records": recordsJSON(g.Records),
				}
			}
			jv["groups"] = groups
		} else {
			jv["records"] = recordsJSON(v.Records)
		}
		views[i] = jv
	}
	return map[string]interface{}{
		"definition": def.Name,
		"views":      views,
	}
}

func recordsJSON(records []view.Record) []map[string]interface{} {
	out := make([]map[string]interface{}, len(records))
	for i, rec := range records {
		values := make(map[string]string, len(rec.Values))
		for name, v := range rec.Values {
			values[name] = v.Text()
		}
		out[i] = map[string]interface{}{
			"note":   toNoteJSON(rec.Note),
			"values": values,
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
