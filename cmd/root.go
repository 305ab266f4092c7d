package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iksnae/newschat/internal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	verbose    bool
	configPath string
	apiBase    string
	statePath  string
	ephemeral  bool
	version    string = "dev"
	commit     string = "unknown"
	date       string = "unknown"
)

var (
	// cfg is the effective configuration, loaded before every command
	cfg *internal.Config
	// statePaths are the per-user default locations
	statePaths internal.StatePaths
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "newschat",
	Short: "Chat with the Voosh news assistant from your terminal",
	Long: `A terminal client for the Voosh news question-answering service.

Ask questions about the news and read the running transcript. Your session
id is kept between runs, so the conversation picks up where you left it
until you reset it.

Quick Start:
  newschat chat                      # Interactive chat screen
  newschat ask "what happened today?" # One question, one answer
  newschat history                   # Show the current transcript
  newschat reset                     # Start a fresh session
  newschat serve-dev                 # Local backend for trying things out

Configuration is read from $XDG_CONFIG_HOME/newschat/config.yaml when present
and from NEWSCHAT_* environment variables (e.g. NEWSCHAT_API_BASE_URL).`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/newschat/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiBase, "api", "", "Backend API root (default "+internal.DefaultAPIBase+")")
	rootCmd.PersistentFlags().StringVar(&statePath, "state", "", "State database holding the session id")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "Keep the session id in memory only")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// loadConfig merges defaults, the config file, the environment and flags
func loadConfig(cmd *cobra.Command) error {
	internal.SetVerbose(verbose)

	paths, err := internal.DetectStatePaths()
	if err != nil {
		internal.LogDebug("Falling back to working directory paths: %v", err)
		paths = internal.StatePaths{StateDB: "newschat-state.db", LogFile: "newschat.log"}
	}
	statePaths = paths

	v := internal.NewViper()
	if err := bindFlags(v, cmd); err != nil {
		return err
	}

	path, required := configPath, true
	if path == "" {
		path, required = paths.ConfigFile, false
	}
	if cmd == configCmd && writeConfig {
		// the file is about to be created
		required = false
	}

	loaded, err := internal.LoadConfig(v, path, required)
	if err != nil {
		return err
	}
	if loaded.State.DBPath == "" {
		loaded.State.DBPath = paths.StateDB
	}
	cfg = loaded

	internal.SetLogFormat(cfg.Log.Format)
	if verbose {
		internal.SetVerbose(true)
	} else {
		internal.SetLogLevel(internal.ParseLogLevel(cfg.Log.Level))
	}
	return nil
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	bindings := map[string]string{
		"api.base_url":    "api",
		"state.db_path":   "state",
		"state.ephemeral": "ephemeral",
	}
	for key, name := range bindings {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return &internal.ConfigError{Key: key, Err: err}
		}
	}
	return nil
}

// chatSession bundles a controller with the resources behind it
type chatSession struct {
	ctrl     *internal.Controller
	identity *internal.IdentityStore
	gateway  *internal.HTTPGateway
	close    func()
}

// Close releases the state database
func (s *chatSession) Close() {
	if s.close != nil {
		s.close()
	}
}

// openIdentity opens the durable session slot. A state database that cannot
// be opened degrades to an in-memory id instead of failing the command.
func openIdentity() (*internal.IdentityStore, func()) {
	if cfg.State.Ephemeral {
		internal.LogDebug("Ephemeral mode, session id kept in memory")
		return internal.NewIdentityStore(nil, cfg.Session.Key), func() {}
	}

	db, err := internal.OpenStateDB(cfg.State.DBPath)
	if err != nil {
		internal.LogWarn("State database unavailable, session id will not outlive this run: %v", err)
		return internal.NewIdentityStore(nil, cfg.Session.Key), func() {}
	}

	kv := internal.NewSQLiteKV(db, cfg.State.DBPath)
	return internal.NewIdentityStore(kv, cfg.Session.Key), func() {
		if err := db.Close(); err != nil {
			internal.LogWarn("Failed to close state database: %v", err)
		}
	}
}

// newChatSession wires the identity store, gateway and controller
func newChatSession(opts ...internal.ControllerOption) *chatSession {
	identity, closeFn := openIdentity()
	gateway := internal.NewHTTPGateway(cfg.API.BaseURL, internal.NewHTTPClient(cfg.HTTP.Timeout))
	return &chatSession{
		ctrl:     internal.NewController(identity, gateway, opts...),
		identity: identity,
		gateway:  gateway,
		close:    closeFn,
	}
}

// startChatSession opens a session and loads its history
func startChatSession(ctx context.Context, opts ...internal.ControllerOption) (*chatSession, error) {
	s := newChatSession(opts...)
	if err := s.ctrl.Start(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	return s, nil
}
