package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loamkb/loam/internal/parser"
	"github.com/loamkb/loam/internal/ui"
)

var readRaw bool

var readCmd = &cobra.Command{
	Use:   "read <reference>",
	Short: "Read a note",
	Long: `Resolves a reference and prints the note. References can be permalinks,
titles, or aliases.

Examples:
  loam read project/alpha/auth-service
  loam read "Auth Service"
  loam read "Auth Service" --raw`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return handleError(ErrCodeStorageError, err, "")
		}

		note, err := resolveOne(s, args[0])
		if err != nil {
			return handleError(ErrCodeNoteNotFound, err, "Run 'loam resolve' to see what a reference matches")
		}

		content, err := parser.Encode(note)
		if err != nil {
			return handleError(ErrCodeInternalError, err, "")
		}

		if isJSONOutput() {
			data := map[string]interface{}{
				"note":         toNoteJSON(note),
				"body":         note.Body,
				"relations":    note.Relations,
				"observations": note.Observations,
				"markdown":     content,
			}
			outputSuccess(data, nil)
			return nil
		}

		if readRaw {
			fmt.Print(content)
			return nil
		}

		dc := ui.NewDisplayContext()
		rendered, err := ui.RenderMarkdown(content, dc.TermWidth)
		if err != nil {
			// Fall back to the raw markdown if rendering fails.
			fmt.Print(content)
			return nil
		}
		fmt.Print(rendered)
		return nil
	},
}

func init() {
	readCmd.Flags().BoolVar(&readRaw, "raw", false, "Print raw markdown without rendering")
	rootCmd.AddCommand(readCmd)
}
