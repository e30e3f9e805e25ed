package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loamkb/loam/internal/model"
	"github.com/loamkb/loam/internal/ui"
)

var outlinksKind string

var outlinksCmd = &cobra.Command{
	Use:   "outlinks <reference>",
	Short: "Show relations leaving a note",
	Long: `Lists the outbound relations of a note, optionally filtered by kind.
Unresolved targets are shown with their reference as written.

Examples:
  loam outlinks "Auth Service"
  loam outlinks project/alpha --kind depends_on`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return handleError(ErrCodeStorageError, err, "")
		}

		note, err := resolveOne(s, args[0])
		if err != nil {
			return handleError(ErrCodeNoteNotFound, err, "")
		}

		edges := s.Index().OutboundEdges(note.Permalink, model.RelationKind(outlinksKind))

		if isJSONOutput() {
			items := make([]edgeJSON, len(edges))
			for i, e := range edges {
				items[i] = edgeJSON{
					Source: note.Permalink,
					Kind:   string(e.Relation.Kind),
					Target: e.Relation.TargetRef,
					Note:   e.Relation.Note,
				}
			}
			outputSuccess(map[string]interface{}{
				"permalink": note.Permalink,
				"items":     items,
			}, &Meta{Count: len(items)})
			return nil
		}

		if len(edges) == 0 {
			fmt.Printf("No outbound relations on '%s'\n", note.Permalink)
			return nil
		}

		fmt.Println(ui.Header(fmt.Sprintf("Relations from %s:", note.Permalink)))
		table := ui.NewTable(3)
		for _, e := range edges {
			target := e.Target
			if !e.Resolved() {
				target = fmt.Sprintf("%s (unresolved)", e.Relation.TargetRef)
			}
			table.AddRow(string(e.Relation.Kind), ui.Permalink(target), e.Relation.Note)
		}
		fmt.Print(table.String())
		return nil
	},
}

func init() {
	outlinksCmd.Flags().StringVar(&outlinksKind, "kind", "", "Filter by relation kind")
	rootCmd.AddCommand(outlinksCmd)
}
