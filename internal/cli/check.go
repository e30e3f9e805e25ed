package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loamkb/loam/internal/check"
	"github.com/loamkb/loam/internal/ui"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the store for consistency problems",
	Long: `Sweeps every note for broken links, orphans, and identifier collisions.
The sweep is advisory: nothing is modified.

Examples:
  loam check
  loam check --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return handleError(ErrCodeStorageError, err, "")
		}

		var spinner *ui.Spinner
		if !isJSONOutput() {
			spinner = ui.NewSpinner("Checking store...")
			spinner.Start()
		}

		report, err := check.Validate(cmd.Context(), s.Index())
		if spinner != nil {
			spinner.Stop()
		}
		if err != nil && !report.Partial {
			return handleError(ErrCodeInternalError, err, "")
		}

		if isJSONOutput() {
			broken := make([]map[string]string, len(report.BrokenLinks))
			for i, b := range report.BrokenLinks {
				broken[i] = map[string]string{
					"source": b.SourceID,
					"kind":   string(b.Kind),
					"target": b.TargetRef,
				}
			}
			outputSuccess(map[string]interface{}{
				"clean":         report.Clean(),
				"broken_links":  broken,
				"orphans":       report.Orphans,
				"duplicate_ids": report.DuplicateIDs,
				"partial":       report.Partial,
			}, &Meta{Count: s.Len()})
			return nil
		}

		if report.Partial {
			fmt.Println(ui.Warning("Check interrupted; results are partial"))
		}
		if report.Clean() {
			fmt.Println(ui.Successf("Checked %d notes, no problems found", s.Len()))
			return nil
		}

		fmt.Println(ui.RenderReportLine("Broken links", len(report.BrokenLinks)))
		for _, b := range report.BrokenLinks {
			fmt.Printf("  %s\n", b)
		}
		fmt.Println(ui.RenderReportLine("Orphans", len(report.Orphans)))
		for _, p := range report.Orphans {
			fmt.Printf("  %s\n", ui.Permalink(p))
		}
		fmt.Println(ui.RenderReportLine("Duplicate identifiers", len(report.DuplicateIDs)))
		for _, p := range report.DuplicateIDs {
			fmt.Printf("  %s\n", p)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
