package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loamkb/loam/internal/ui"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <reference>",
	Short: "Delete a note",
	Long: `Deletes a note from the store. Inbound relations are not rewritten: they
stay on their source notes as dangling edges and are reported here and by
'loam check'.

Examples:
  loam delete project/alpha/scratch
  loam delete "Old Meeting Notes"`,
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

		dangling, err := s.Delete(note.Permalink)
		if err != nil {
			return handleError(ErrCodeStorageError, err, "")
		}

		if isJSONOutput() {
			edges := make([]map[string]string, len(dangling))
			for i, e := range dangling {
				edges[i] = map[string]string{
					"source": e.Relation.SourceID,
					"kind":   string(e.Relation.Kind),
					"target": e.Relation.TargetRef,
				}
			}
			outputSuccess(map[string]interface{}{
				"permalink": note.Permalink,
				"dangling":  edges,
			}, &Meta{Count: len(edges)})
			return nil
		}

		fmt.Println(ui.Successf("Deleted %s", note.Permalink))
		if len(dangling) > 0 {
			fmt.Println(ui.Warningf("%d relation(s) now dangle:", len(dangling)))
			for _, e := range dangling {
				fmt.Printf("  %s --%s--> %q\n", e.Relation.SourceID, e.Relation.Kind, e.Relation.TargetRef)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
