package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loamkb/loam/internal/model"
	"github.com/loamkb/loam/internal/slugs"
	"github.com/loamkb/loam/internal/ui"
)

var (
	newType   string
	newFolder string
	newTags   []string
	newBody   string
)

var newCmd = &cobra.Command{
	Use:   "new <title>",
	Short: "Create a new note",
	Long: `Creates a note with the given title. The permalink is derived from the
folder and title; pass --folder to place the note in a hierarchy.

Examples:
  loam new "Auth Service" --type spec --folder project/alpha
  loam new "Weekly Sync" --type meeting --tags team,planning`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := args[0]

		s, err := openStore()
		if err != nil {
			return handleError(ErrCodeStorageError, err, "")
		}

		permalink := slugs.Permalink(newFolder, title)
		note := &model.Note{
			Permalink: permalink,
			Title:     title,
			Type:      model.NoteType(newType),
			Path:      permalink,
			Tags:      newTags,
			Body:      newBody,
		}

		if err := s.Create(note); err != nil {
			return handleError(ErrCodeNoteExists, err,
				"Pick a different title or folder; permalinks must be unique")
		}

		created, _ := s.Get(permalink)

		if isJSONOutput() {
			outputSuccess(toNoteJSON(created), nil)
			return nil
		}

		fmt.Println(ui.Successf("Created %s", title))
		fmt.Println(ui.Hint(fmt.Sprintf("Permalink: %s", permalink)))
		return nil
	},
}

func init() {
	newCmd.Flags().StringVar(&newType, "type", "", "Note type (note, entity, decision, spec, ...)")
	newCmd.Flags().StringVar(&newFolder, "folder", "", "Folder to place the note in")
	newCmd.Flags().StringSliceVar(&newTags, "tags", nil, "Tags for the note")
	newCmd.Flags().StringVar(&newBody, "body", "", "Initial body text")
	rootCmd.AddCommand(newCmd)
}
