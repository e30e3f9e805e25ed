package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loamkb/loam/internal/model"
	"github.com/loamkb/loam/internal/ui"
)

var (
	observeTags    []string
	observeContext string
)

var observeCmd = &cobra.Command{
	Use:   "observe <reference> <category> <statement>",
	Short: "Attach an observation to a note",
	Long: `Records an atomic categorized fact on a note.

Examples:
  loam observe "Auth Service" tech "Uses JWT with RS256"
  loam observe project/alpha decision "Ship behind a feature flag" --context "board review 2026-08"
  loam observe "Auth Service" issue "Token refresh races on logout" --tags auth,bug`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return handleError(ErrCodeStorageError, err, "")
		}

		note, err := resolveOne(s, args[0])
		if err != nil {
			return handleError(ErrCodeNoteNotFound, err, "")
		}

		obs := model.Observation{
			Category:  model.ObservationCategory(args[1]),
			Statement: args[2],
			Tags:      observeTags,
			Context:   observeContext,
		}
		if err := s.AddObservation(note.Permalink, obs); err != nil {
			return handleError(ErrCodeStorageError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"permalink":   note.Permalink,
				"observation": obs,
			}, nil)
			return nil
		}

		fmt.Println(ui.Successf("Observed on %s: [%s] %s", note.Permalink, obs.Category, obs.Statement))
		if !obs.Category.Known() {
			fmt.Println(ui.Hint(fmt.Sprintf("'%s' is not a well-known category (kept as written)", obs.Category)))
		}
		return nil
	},
}

func init() {
	observeCmd.Flags().StringSliceVar(&observeTags, "tags", nil, "Tags for the observation")
	observeCmd.Flags().StringVar(&observeContext, "context", "", "Optional context for the observation")
	rootCmd.AddCommand(observeCmd)
}
