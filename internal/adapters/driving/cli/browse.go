package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/custodia-labs/trove/internal/adapters/driven/decoder/jsonrecord"
	"github.com/custodia-labs/trove/internal/adapters/driven/frame"
	"github.com/custodia-labs/trove/internal/adapters/driving/tui"
	"github.com/custodia-labs/trove/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/trove/internal/core/services"
	"github.com/custodia-labs/trove/internal/logger"
)

var browseOpts importFlags

// isTerminal reports whether stdout can host the TUI.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

var browseCmd = &cobra.Command{
	Use:   "browse <path>",
	Short: "Import records and browse them in the terminal UI",
	Long: `Imports the records at path and opens an interactive browser over the
linked entities once the import is done.

A progress screen is shown while records load. When stdout is not a
terminal, browse prints the same summary as import instead.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Open entity / follow relation
  /        - Filter entities
  Esc      - Back
  ?        - Help
  q        - Quit`,
	Args: cobra.ExactArgs(1),
	RunE: runBrowse,
}

func init() {
	addImportFlags(browseCmd, &browseOpts)
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	if !isTerminal() {
		logger.Warn("stdout is not a terminal, printing a summary instead")
		return importHeadless(cmd, args[0], browseOpts)
	}

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	settings, err := effectiveSettings(cmd, browseOpts)
	if err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	src, err := openSource(args[0], browseOpts)
	if err != nil {
		return err
	}

	tel, stopTelemetry, err := startTelemetry(ctx, settings.Telemetry)
	if err != nil {
		return err
	}
	defer stopTelemetry()

	display := tui.NewDisplay()
	importer, err := services.NewImporter(
		jsonrecord.NewDecoder(),
		frame.NewTicker(settings.Display.FrameInterval, frame.OnFrame(display.Tick)),
		display,
		display,
		tel,
		settings,
	)
	if err != nil {
		return err
	}

	app, err := tui.NewApp(tui.NewPorts(importer, settingsService), display)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	app.WithContext(ctx)
	p := app.Program(tea.WithAltScreen())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// Leaving the program abandons an import still in flight.
		defer cancel()
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		err := readAndImport(gctx, src, importer, display)
		if err != nil && gctx.Err() != nil {
			return nil
		}
		p.Send(messages.ImportFinished{Err: err})
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return app.Err()
}
