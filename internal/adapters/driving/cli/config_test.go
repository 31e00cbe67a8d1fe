package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/trove/internal/core/domain"
)

func TestConfigCmd_Subcommands(t *testing.T) {
	names := make([]string, 0, len(configCmd.Commands()))
	for _, c := range configCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"show", "init"}, names)
}

func TestConfigShow_Defaults(t *testing.T) {
	stdout, _ := setupCLITest(t)

	require.NoError(t, execute(t, "config", "show"))

	out := stdout.String()
	assert.Contains(t, out, "Config file: :memory:")
	assert.Contains(t, out, "Turn budget: 50ms")
	assert.Contains(t, out, "Batch size: 100")
	assert.Contains(t, out, "Frame interval: 16ms")
	assert.Contains(t, out, "OTLP endpoint: (disabled)")
	assert.Contains(t, out, "Service name: trove")
}

func TestConfigShow_StoredValues(t *testing.T) {
	stdout, _ := setupCLITest(t)
	require.NoError(t, configStore.Set("loader.batch_size", 250))
	require.NoError(t, configStore.Set("telemetry.otlp_endpoint", "collector:4317"))

	require.NoError(t, execute(t, "config"))

	assert.Contains(t, stdout.String(), "Batch size: 250")
	assert.Contains(t, stdout.String(), "OTLP endpoint: collector:4317")
}

func TestConfigInit(t *testing.T) {
	stdout, _ := setupCLITest(t)

	require.NoError(t, execute(t, "config", "init"))

	assert.Contains(t, stdout.String(), "Wrote default settings to :memory:")
	assert.Contains(t, configStore.Keys(), "loader.turn_budget_ms")

	err := execute(t, "config", "init")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.NoError(t, execute(t, "config", "init", "--force"))
}

func TestRoot_ConfigFlag(t *testing.T) {
	stdout, _ := setupCLITest(t)
	// Drop the injected store so the file named by --config is opened.
	configStore, settingsService = nil, nil
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	require.NoError(t, execute(t, "--config", path, "config", "init"))

	assert.Contains(t, stdout.String(), path)
	assert.FileExists(t, path)
}
