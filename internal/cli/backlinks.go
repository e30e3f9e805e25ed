package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loamkb/loam/internal/model"
	"github.com/loamkb/loam/internal/ui"
)

// edgeJSON is the JSON representation of a graph edge.
type edgeJSON struct {
	Source string `json:"source"`
	Kind   string `json:"kind"`
	Target string `json:"target"`
	Note   string `json:"note,omitempty"`
}

var backlinksKind string

var backlinksCmd = &cobra.Command{
	Use:   "backlinks <reference>",
	Short: "Show relations pointing at a note",
	Long: `Lists the inbound relations of a note, optionally filtered by kind.

Examples:
  loam backlinks "Auth Service"
  loam backlinks project/alpha --kind depends_on`,
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

		edges := s.Index().InboundEdges(note.Permalink, model.RelationKind(backlinksKind))

		if isJSONOutput() {
			items := make([]edgeJSON, len(edges))
			for i, e := range edges {
				items[i] = edgeJSON{
					Source: e.Relation.SourceID,
					Kind:   string(e.Relation.Kind),
					Target: note.Permalink,
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
			fmt.Printf("No backlinks to '%s'\n", note.Permalink)
			return nil
		}

		fmt.Println(ui.Header(fmt.Sprintf("Backlinks to %s:", note.Permalink)))
		table := ui.NewTable(2)
		for _, e := range edges {
			table.AddRow(ui.Permalink(e.Relation.SourceID), string(e.Relation.Kind))
		}
		fmt.Print(table.String())
		return nil
	},
}

func init() {
	backlinksCmd.Flags().StringVar(&backlinksKind, "kind", "", "Filter by relation kind")
	rootCmd.AddCommand(backlinksCmd)
}
