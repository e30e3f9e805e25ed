package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/loamkb/loam/internal/ui"
)

var storesCmd = &cobra.Command{
	Use:   "stores",
	Short: "List configured stores",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadGlobalConfig()
		if err != nil {
			return handleError(ErrCodeConfigError, err, "")
		}
		stores := cfg.ListStores()

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"default": cfg.DefaultStore,
				"stores":  stores,
			}, &Meta{Count: len(stores)})
			return nil
		}

		if len(stores) == 0 {
			fmt.Println("No stores configured")
			fmt.Println(ui.Hint("Run 'loam init <path>' to create one"))
			return nil
		}

		names := make([]string, 0, len(stores))
		for name := range stores {
			names = append(names, name)
		}
		sort.Strings(names)

		table := ui.NewTable(3)
		for _, name := range names {
			marker := ""
			if name == cfg.DefaultStore {
				marker = "(default)"
			}
			table.AddRow(name, stores[name], marker)
		}
		fmt.Print(table.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(storesCmd)
}
