// Package cli implements the command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loamkb/loam/internal/config"
	"github.com/loamkb/loam/internal/storage"
	"github.com/loamkb/loam/internal/store"
	"github.com/loamkb/loam/internal/ui"
)

var (
	// Global flags
	storeName     string // Named store from config
	storePathFlag string // Explicit location (rare)
	configPath    string

	// Resolved values
	resolvedStorePath string
	cfg               *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "loam",
	Short: "Loam - a linked note store",
	Long: `Loam keeps a store of interlinked markdown notes: typed relations,
structured observations, and declarative views computed over note metadata.

Notes are addressed as loam://<path>, where the path may be a permalink,
a title, a glob, or a relation traversal.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip store resolution for commands that don't need it
		switch cmd.Name() {
		case "init", "stores", "completion", "help", "version":
			return nil
		}
		if cmd.Parent() != nil && cmd.Parent().Name() == "completion" {
			return nil
		}

		var err error
		cfg, err = loadGlobalConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		ui.ConfigureTheme(cfg.UI.Accent)
		ui.ConfigureCodeTheme(cfg.UI.CodeTheme)

		// Resolve store location: explicit path > named store > default
		if storePathFlag != "" {
			resolvedStorePath = storePathFlag
		} else if storeName != "" {
			resolvedStorePath, err = cfg.GetStorePath(storeName)
			if err != nil {
				return fmt.Errorf("store '%s' not found\n\nAdd it under [stores] in %s", storeName, config.DefaultPath())
			}
		} else {
			resolvedStorePath, err = cfg.GetStorePath("")
			if err != nil {
				return fmt.Errorf(`no store specified

Either:
  1. Use --store <name> (from config)
  2. Use --store-path /path/to/store
  3. Set default_store in %s
  4. Run 'loam init /path/to/new/store' to create one`, config.DefaultPath())
			}
		}

		if _, err := os.Stat(resolvedStorePath); os.IsNotExist(err) {
			return fmt.Errorf("store not found: %s\n\nRun 'loam init %s' to create it", resolvedStorePath, resolvedStorePath)
		}

		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&storeName, "store", "s", "", "Named store from config")
	rootCmd.PersistentFlags().StringVar(&storePathFlag, "store-path", "", "Explicit store location")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
}

func loadGlobalConfig() (*config.Config, error) {
	var loaded *config.Config
	var err error
	if configPath != "" {
		loaded, err = config.LoadFrom(configPath)
	} else {
		loaded, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if loaded == nil {
		loaded = &config.Config{}
	}
	return loaded, nil
}

// getStorePath returns the resolved store location.
func getStorePath() string {
	return resolvedStorePath
}

// getConfig returns the loaded config.
func getConfig() *config.Config {
	return cfg
}

// openStore opens the resolved store location and loads every note.
func openStore() (*store.Store, error) {
	backend, err := storage.Open(getStorePath())
	if err != nil {
		return nil, err
	}
	s, err := store.Open(backend)
	if err != nil {
		return nil, err
	}
	return s, nil
}
