package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/trove/internal/adapters/driven/config/memory"
	"github.com/custodia-labs/trove/internal/logger"
)

// setupCLITest injects an in-memory config and captures command output.
// Flag values are reset afterwards since the command tree is package state.
func setupCLITest(t *testing.T) (stdout, stderr *bytes.Buffer) {
	t.Helper()

	oldStore, oldSettings := configStore, settingsService
	SetConfigStore(memory.NewConfigStore())

	stdout, stderr = new(bytes.Buffer), new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	t.Cleanup(func() {
		configStore, settingsService = oldStore, oldSettings
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		for _, cmd := range []*cobra.Command{rootCmd, importCmd, browseCmd, configInitCmd} {
			resetFlags(cmd)
		}
		verbose = false
		logger.SetVerbose(false)
	})
	return stdout, stderr
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// writeFile writes content to name in a fresh temp dir and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

const linkedRecords = `{"guid":"t1","kind":"thread","title":"Main thread"}
{"guid":"s1","kind":"slice","title":"Layout","refs":{"thread":"t1","parent":"gone"}}
`
