package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loamkb/loam/internal/ui"
)

var moveCmd = &cobra.Command{
	Use:   "move <reference> <new-path>",
	Short: "Move a note to a new path",
	Long: `Changes a note's location in the folder hierarchy. Path is not identity:
the permalink stays the same and every relation keeps working.

Examples:
  loam move "Auth Service" project/beta/auth-service
  loam move project/alpha/scratch archive/scratch`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return handleError(ErrCodeStorageError, err, "")
		}

		note, err := resolveOne(s, args[0])
		if err != nil {
			return handleError(ErrCodeNoteNotFound, err, "")
		}
		newPath := args[1]

		if err := s.Move(note.Permalink, newPath); err != nil {
			return handleError(ErrCodeStorageError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"permalink": note.Permalink,
				"from":      note.EffectivePath(),
				"to":        newPath,
			}, nil)
			return nil
		}

		fmt.Println(ui.Successf("Moved %s -> %s", note.EffectivePath(), newPath))
		fmt.Println(ui.Hint(fmt.Sprintf("Permalink unchanged: %s", note.Permalink)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(moveCmd)
}
