package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/trove/internal/core/domain"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage import settings",
	Long: `View and initialise the settings used by import and browse.

Settings live in a TOML file, ~/.trove/config.toml unless --config is given.
Missing or invalid values fall back to the built-in defaults.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective settings",
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default settings to the config file",
	RunE:  runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite existing settings")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Printf("Config file: %s\n\n", configStore.Path())

	cmd.Println("[Loader]")
	cmd.Printf("  Turn budget: %s\n", settings.Loader.TurnBudget)
	cmd.Printf("  Batch size: %d\n", settings.Loader.BatchSize)
	cmd.Println()

	cmd.Println("[Display]")
	cmd.Printf("  Frame interval: %s\n", settings.Display.FrameInterval)
	cmd.Printf("  Help URL: %s\n", orNotSet(settings.Display.HelpURL))
	cmd.Printf("  Feedback URL: %s\n", orNotSet(settings.Display.FeedbackURL))
	cmd.Println()

	cmd.Println("[Telemetry]")
	if settings.Telemetry.Enabled() {
		cmd.Printf("  OTLP endpoint: %s\n", settings.Telemetry.OTLPEndpoint)
	} else {
		cmd.Println("  OTLP endpoint: (disabled)")
	}
	cmd.Printf("  Service name: %s\n", settings.Telemetry.ServiceName)
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	if len(configStore.Keys()) > 0 && !configForce {
		return fmt.Errorf("%w: settings already exist in %s (use --force to overwrite)",
			domain.ErrInvalidInput, configStore.Path())
	}

	defaults := settingsService.GetDefaults()
	if err := settingsService.Save(&defaults); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	if err := configStore.Save(); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Printf("Wrote default settings to %s\n", configStore.Path())
	return nil
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
