package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/trove/internal/adapters/driven/decoder/jsonrecord"
	"github.com/custodia-labs/trove/internal/adapters/driven/frame"
	"github.com/custodia-labs/trove/internal/core/ports/driven"
	"github.com/custodia-labs/trove/internal/core/services"
	"github.com/custodia-labs/trove/internal/logger"
)

var importOpts importFlags

var importCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Import records and print a summary",
	Long: `Imports the records at path, links them by GUID and prints a summary:
entity counts per kind, resolved and unresolved relations, and load timing.

Progress lines go to stderr; the summary goes to stdout. The import stops at
the first record that cannot be decoded.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	addImportFlags(importCmd, &importOpts)
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	return importHeadless(cmd, args[0], importOpts)
}

// importHeadless runs one import against the summary display.
func importHeadless(cmd *cobra.Command, path string, f importFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	settings, err := effectiveSettings(cmd, f)
	if err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	src, err := openSource(path, f)
	if err != nil {
		return err
	}

	tel, stopTelemetry, err := startTelemetry(ctx, settings.Telemetry)
	if err != nil {
		return err
	}
	defer stopTelemetry()

	progress := newLineProgress(cmd.ErrOrStderr())
	importer, err := services.NewImporter(
		jsonrecord.NewDecoder(),
		frame.NewTicker(settings.Display.FrameInterval),
		progress,
		newSummaryDisplay(cmd.OutOrStdout(), src.Describe()),
		tel,
		settings,
	)
	if err != nil {
		return err
	}

	if err := readAndImport(ctx, src, importer, progress); err != nil {
		return err
	}

	stats := importer.Stats()
	cmd.Printf("\nLoaded %d records in %d turns (%s, %s per record)\n",
		stats.Records, stats.Turns, stats.Duration.Round(time.Millisecond), stats.PerRecord())
	if stats.Replaced > 0 {
		cmd.Printf("%d records replaced an earlier record with the same GUID\n", stats.Replaced)
	}
	return nil
}

// readAndImport reads the source and runs the import. The importer must be
// constructed first so the first-content span includes the read.
func readAndImport(ctx context.Context, src driven.RecordSource, importer *services.Importer, progress driven.ProgressSurface) error {
	logger.Debug("Reading records from %s", src.Describe())
	progress.SetStatus("Reading " + src.Describe())
	records, err := src.Records(ctx)
	if err != nil {
		return fmt.Errorf("reading %s: %w", src.Describe(), err)
	}
	if err := importer.Import(ctx, records); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	return nil
}
