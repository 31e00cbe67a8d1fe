package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/trove/internal/adapters/driven/source/filesystem"
	"github.com/custodia-labs/trove/internal/adapters/driven/source/sqlite"
	"github.com/custodia-labs/trove/internal/core/domain"
)

func TestOpenSource(t *testing.T) {
	flags := importFlags{table: sqlite.DefaultTable, column: sqlite.DefaultColumn}

	t.Run("sqlite by extension", func(t *testing.T) {
		for _, name := range []string{"x.db", "x.sqlite", "X.SQLITE3"} {
			src, err := openSource(filepath.Join(t.TempDir(), name), flags)
			require.NoError(t, err)
			assert.IsType(t, &sqlite.Source{}, src, name)
		}
	})

	t.Run("file", func(t *testing.T) {
		path := writeFile(t, "export.jsonl", linkedRecords)
		src, err := openSource(path, flags)
		require.NoError(t, err)
		assert.IsType(t, &filesystem.Source{}, src)
	})

	t.Run("directory", func(t *testing.T) {
		src, err := openSource(t.TempDir(), flags)
		require.NoError(t, err)
		assert.IsType(t, &filesystem.Source{}, src)
	})

	t.Run("unsupported file", func(t *testing.T) {
		path := writeFile(t, "notes.txt", "hello")
		_, err := openSource(path, flags)
		assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := openSource(filepath.Join(t.TempDir(), "missing.json"), flags)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestEffectiveSettings_Overrides(t *testing.T) {
	setupCLITest(t)
	require.NoError(t, importCmd.ParseFlags([]string{"--turn-budget", "25ms", "--batch-size", "10"}))

	settings, err := effectiveSettings(importCmd, importOpts)

	require.NoError(t, err)
	assert.Equal(t, int64(25), settings.Loader.TurnBudget.Milliseconds())
	assert.Equal(t, 10, settings.Loader.BatchSize)
	assert.Equal(t, domain.DefaultFrameInterval, settings.Display.FrameInterval)
}

func TestEffectiveSettings_ConfigWithoutFlags(t *testing.T) {
	setupCLITest(t)
	require.NoError(t, configStore.Set("loader.batch_size", 7))

	settings, err := effectiveSettings(importCmd, importOpts)

	require.NoError(t, err)
	assert.Equal(t, 7, settings.Loader.BatchSize)
	assert.Equal(t, domain.DefaultTurnBudget, settings.Loader.TurnBudget)
}
