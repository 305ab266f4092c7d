package cmd

import (
	"fmt"

	"github.com/iksnae/newschat/internal"
	"github.com/iksnae/newschat/internal/devserver"
	"github.com/spf13/cobra"
)

var servePort int

// serveCmd represents the serve-dev command
var serveCmd = &cobra.Command{
	Use:   "serve-dev",
	Short: "Run a local in-memory backend",
	Long: `Run a local backend that speaks the same HTTP API as the news service.

Answers simply quote the question back, and sessions live in memory until the
server stops. Point the client at it with --api http://localhost:<port>/api.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		port := cfg.DevServer.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}
		if port <= 0 || port > 65535 {
			return &internal.ConfigError{Key: "devserver.port", Err: fmt.Errorf("invalid port %d", port)}
		}

		server := devserver.New(devserver.WithAllowedOrigins(cfg.DevServer.AllowedOrigins))
		addr := fmt.Sprintf(":%d", port)

		internal.PrintSuccess(cmd.ErrOrStderr(), fmt.Sprintf("Dev backend on http://localhost%s/api (Ctrl+C to stop)", addr))
		return server.Run(cmd.Context(), addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 3000, "Port to listen on")
}
