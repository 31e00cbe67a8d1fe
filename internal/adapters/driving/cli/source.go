package cli

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/trove/internal/adapters/driven/source/filesystem"
	"github.com/custodia-labs/trove/internal/adapters/driven/source/sqlite"
	"github.com/custodia-labs/trove/internal/core/domain"
	"github.com/custodia-labs/trove/internal/core/ports/driven"
)

// importFlags are shared by the import and browse commands.
type importFlags struct {
	turnBudget time.Duration
	batchSize  int
	table      string
	column     string
}

func addImportFlags(cmd *cobra.Command, f *importFlags) {
	cmd.Flags().DurationVar(&f.turnBudget, "turn-budget", 0, "wall-clock bound of one loading turn (default from config, 50ms)")
	cmd.Flags().IntVar(&f.batchSize, "batch-size", 0, "records decoded between clock checks (default from config, 100)")
	cmd.Flags().StringVar(&f.table, "table", sqlite.DefaultTable, "table holding records in a SQLite export")
	cmd.Flags().StringVar(&f.column, "column", sqlite.DefaultColumn, "column holding the record payload in a SQLite export")
}

// sqliteExtensions select the SQLite source.
var sqliteExtensions = map[string]bool{
	".db":      true,
	".sqlite":  true,
	".sqlite3": true,
}

// openSource picks the record source for path by its extension.
func openSource(path string, f importFlags) (driven.RecordSource, error) {
	if sqliteExtensions[strings.ToLower(filepath.Ext(path))] {
		return sqlite.New(path, sqlite.WithTable(f.table), sqlite.WithColumn(f.column)), nil
	}
	src := filesystem.New(path)
	if err := src.Validate(); err != nil {
		return nil, err
	}
	return src, nil
}

// effectiveSettings loads settings from config and applies flag overrides.
// Only flags given on the command line override; invalid overrides fail
// validation instead of silently falling back.
func effectiveSettings(cmd *cobra.Command, f importFlags) (domain.ImportSettings, error) {
	s, err := settingsService.Get()
	if err != nil {
		return domain.ImportSettings{}, err
	}
	settings := *s
	if cmd.Flags().Changed("turn-budget") {
		settings.Loader.TurnBudget = f.turnBudget
	}
	if cmd.Flags().Changed("batch-size") {
		settings.Loader.BatchSize = f.batchSize
	}
	return settings, settings.Validate()
}
