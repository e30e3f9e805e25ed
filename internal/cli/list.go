package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loamkb/loam/internal/model"
	"github.com/loamkb/loam/internal/ui"
)

var (
	listType   string
	listFolder string
	listTag    string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes in the store",
	Long: `Lists notes in creation order, optionally filtered by type, folder, or tag.

Examples:
  loam list
  loam list --type decision
  loam list --folder project/alpha
  loam list --tag planning`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return handleError(ErrCodeStorageError, err, "")
		}

		var notes []*model.Note
		for _, n := range s.List() {
			if listType != "" && string(n.Type) != listType {
				continue
			}
			if listFolder != "" && n.Folder() != listFolder {
				continue
			}
			if listTag != "" && !n.HasTag(listTag) {
				continue
			}
			notes = append(notes, n)
		}

		if isJSONOutput() {
			items := make([]noteJSON, len(notes))
			for i, n := range notes {
				items[i] = toNoteJSON(n)
			}
			outputSuccess(map[string]interface{}{"items": items}, &Meta{Count: len(items)})
			return nil
		}

		if len(notes) == 0 {
			fmt.Println("No notes found")
			return nil
		}

		table := ui.NewTable(3)
		for _, n := range notes {
			table.AddRow(n.Title, string(n.Type), ui.Permalink(n.Permalink))
		}
		fmt.Print(table.String())
		fmt.Println()
		fmt.Println(ui.Count(len(notes), "note", "notes"))
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listType, "type", "", "Filter by note type")
	listCmd.Flags().StringVar(&listFolder, "folder", "", "Filter by exact folder")
	listCmd.Flags().StringVar(&listTag, "tag", "", "Filter by tag")
	rootCmd.AddCommand(listCmd)
}
