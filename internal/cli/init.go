package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/loamkb/loam/internal/config"
	"github.com/loamkb/loam/internal/storage"
	"github.com/loamkb/loam/internal/ui"
)

var (
	initStoreName  string
	initSetDefault bool
)

var initCmd = &cobra.Command{
	Use:   "init <location>",
	Short: "Initialize a new note store",
	Long: `Creates a new note store at the given location and registers it in the
global config. A location ending in .db becomes a SQLite store; anything
else becomes a directory of markdown files.

Examples:
  loam init ~/notes
  loam init ~/work/notes.db --name work
  loam init ~/notes --name personal --default`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		location := args[0]

		if abs, err := filepath.Abs(location); err == nil {
			location = abs
		}

		// Opening the backend creates the directory or database file.
		backend, err := storage.Open(location)
		if err != nil {
			return handleError(ErrCodeStorageError, err, "")
		}
		if closer, ok := backend.(interface{ Close() error }); ok {
			defer closer.Close()
		}

		configPath, err := config.CreateDefault()
		if err != nil {
			return handleError(ErrCodeConfigError, err, "")
		}

		cfg, err := config.LoadFrom(configPath)
		if err != nil {
			return handleError(ErrCodeConfigError, err, "")
		}

		name := initStoreName
		if name == "" {
			name = storeNameFromLocation(location)
		}

		if cfg.Stores == nil {
			cfg.Stores = make(map[string]string)
		}
		if existing, ok := cfg.Stores[name]; ok && existing != location {
			return handleErrorMsg(ErrCodeConfigError,
				fmt.Sprintf("store '%s' already points to %s", name, existing),
				"Pass --name to register under a different name")
		}
		cfg.Stores[name] = location

		madeDefault := false
		if initSetDefault || cfg.DefaultStore == "" {
			cfg.DefaultStore = name
			madeDefault = true
		}

		if err := config.SaveTo(configPath, cfg); err != nil {
			return handleError(ErrCodeConfigError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"name":     name,
				"location": location,
				"default":  madeDefault,
				"config":   configPath,
			}, nil)
			return nil
		}

		fmt.Println(ui.Successf("Initialized store '%s' at %s", name, location))
		if madeDefault {
			fmt.Println(ui.Info(fmt.Sprintf("'%s' is now the default store", name)))
		}
		fmt.Println(ui.Hint(fmt.Sprintf("Config: %s", configPath)))
		return nil
	},
}

// storeNameFromLocation derives a store name from the last path element.
func storeNameFromLocation(location string) string {
	base := filepath.Base(location)
	base = strings.TrimSuffix(base, ".db")
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "notes"
	}
	return base
}

func init() {
	initCmd.Flags().StringVar(&initStoreName, "name", "", "Name to register the store under")
	initCmd.Flags().BoolVar(&initSetDefault, "default", false, "Make this the default store")
	rootCmd.AddCommand(initCmd)
}
