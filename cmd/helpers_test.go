package cmd

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/iksnae/newschat/internal"
	"github.com/iksnae/newschat/internal/devserver"
)

// isolateUserDirs points the XDG directories at a temp dir
func isolateUserDirs(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(home, "state"))
	xdg.Reload()
	t.Cleanup(xdg.Reload)
	return home
}

// startBackend runs the dev backend and returns its API root
func startBackend(t *testing.T, opts ...devserver.Option) (string, *devserver.Server) {
	t.Helper()
	srv := devserver.New(opts...)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts.URL + "/api", srv
}

// deadBackend returns an API root nothing listens on
func deadBackend(t *testing.T) string {
	t.Helper()
	ts := httptest.NewServer(nil)
	url := ts.URL
	ts.Close()
	return url + "/api"
}

// resetCommandState restores every flag to its default between runs
func resetCommandState() {
	var reset func(c *cobra.Command)
	reset = func(c *cobra.Command) {
		for _, fs := range []*pflag.FlagSet{c.PersistentFlags(), c.Flags()} {
			fs.VisitAll(func(f *pflag.Flag) {
				_ = f.Value.Set(f.DefValue)
				f.Changed = false
			})
		}
		for _, sub := range c.Commands() {
			reset(sub)
		}
	}
	reset(rootCmd)
	cfg = nil
	statePaths = internal.StatePaths{}
}

// executeCommand runs the root command with args and captures its output
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetCommandState()
	t.Cleanup(func() {
		internal.SetVerbose(false)
		internal.SetLogFormat("text")
	})

	var stdout, stderr bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}
