package cmd

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/iksnae/ytchat/internal/stub"
	"github.com/iksnae/ytchat/testutil"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// isolate points config, cache and history at a temp dir and returns the
// history database path
func isolate(t *testing.T) string {
	t.Helper()
	dir := testutil.CreateTempDir(t)
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	for _, key := range []string{"YTCHAT_API_URL", "YTCHAT_LOG_LEVEL", "YTCHAT_HISTORY_DB", "YTCHAT_HISTORY", "YTCHAT_REQUEST_TIMEOUT"} {
		t.Setenv(key, "")
	}
	return filepath.Join(dir, "history.db")
}

// newStubBackend serves the development backend on a test listener
func newStubBackend(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(stub.New(stub.Config{}))
	t.Cleanup(server.Close)
	return server
}

// resetFlags restores every flag in the tree to its default so runs don't leak
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

func setContext(cmd *cobra.Command, ctx context.Context) {
	cmd.SetContext(ctx)
	for _, child := range cmd.Commands() {
		setContext(child, ctx)
	}
}

// runCommand executes the CLI with args and returns what it wrote to stdout
func runCommand(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	setContext(rootCmd, ctx)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(ctx)
	return stdout.String(), err
}
