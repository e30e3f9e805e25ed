package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loamkb/loam/internal/ui"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <expression>",
	Short: "Resolve an addressing expression",
	Long: `Evaluates an addressing expression and shows what it matches. Expressions
can be permalinks, titles, globs, or one-hop relation traversals. The
loam:// prefix is optional.

Examples:
  loam resolve "Auth Service"
  loam resolve 'project/*/requirements'
  loam resolve 'project/alpha/depends_on/*'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return handleError(ErrCodeStorageError, err, "")
		}

		res, err := resolveMany(s, args[0])
		if err != nil {
			return handleError(ErrCodeInvalidReference, err,
				"Wildcards must sit at segment boundaries, e.g. 'auth*' or '*/approaches'")
		}

		if isJSONOutput() {
			items := make([]map[string]interface{}, 0, len(res.Matches))
			for _, m := range res.Matches {
				item := map[string]interface{}{"note": toNoteJSON(m.Note)}
				if m.Edge != nil {
					item["relation"] = string(m.Edge.Relation.Kind)
				}
				items = append(items, item)
			}
			outputSuccess(map[string]interface{}{
				"expression": res.Expression,
				"kind":       res.Kind.String(),
				"items":      items,
			}, &Meta{Count: len(items)})
			return nil
		}

		if res.Empty() {
			fmt.Printf("No matches for '%s'\n", args[0])
			return nil
		}

		fmt.Println(ui.Header(fmt.Sprintf("Matched by %s:", res.Kind)))
		table := ui.NewTable(2)
		for _, m := range res.Matches {
			table.AddRow(m.Note.Title, ui.Permalink(m.Note.Permalink))
		}
		fmt.Print(table.String())
		if res.Ambiguous() {
			fmt.Println(ui.Warning("Title is ambiguous; use a permalink to address one note"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}
