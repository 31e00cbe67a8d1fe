// Package cli implements the trove command line: the headless import, the
// interactive browser and configuration commands.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/trove/internal/adapters/driven/config/file"
	"github.com/custodia-labs/trove/internal/core/ports/driven"
	"github.com/custodia-labs/trove/internal/core/ports/driving"
	"github.com/custodia-labs/trove/internal/core/services"
	"github.com/custodia-labs/trove/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verbose    bool
	configPath string
)

// Services used by the commands. They are built from the config file on
// first use unless injected beforehand (tests, embedding).
var (
	configStore     driven.ConfigStore
	settingsService driving.SettingsService
)

var rootCmd = &cobra.Command{
	Use:   "trove",
	Short: "Import and browse linked record exports",
	Long: `trove imports a bulk export of JSON records, links the records to each
other by GUID and shows the result.

Records are read from a .json file holding an array, a .jsonl/.ndjson file
with one record per line, a directory of such files, or a SQLite database.
Loading runs in short time slices so progress stays visible even for
large exports.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		return initServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug output to stderr")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.trove/config.toml)")
}

// Execute runs the root command. v overrides the build version when set.
func Execute(ctx context.Context, v string) error {
	if v != "" {
		version = v
	}
	return rootCmd.ExecuteContext(ctx)
}

// SetConfigStore injects the config store, bypassing the config file.
func SetConfigStore(store driven.ConfigStore) {
	configStore = store
	settingsService = services.NewSettingsService(store)
}

// initServices opens the config store unless one was injected.
func initServices() error {
	if configStore != nil {
		if settingsService == nil {
			settingsService = services.NewSettingsService(configStore)
		}
		return nil
	}

	var (
		store *file.ConfigStore
		err   error
	)
	if configPath != "" {
		store, err = file.NewConfigStoreAt(configPath)
	} else {
		store, err = file.NewConfigStore("")
	}
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	logger.Debug("Using config %s", store.Path())

	SetConfigStore(store)
	return nil
}
