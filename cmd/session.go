package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// sessionCmd represents the session command
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Print the current session id",
	Long: `Print the session id this client uses, creating and saving one if none
exists yet. The backend is not contacted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		identity, closeFn := openIdentity()
		defer closeFn()

		id := identity.Resolve()
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, id)

		if verbose {
			storage := cfg.State.DBPath
			if identity.Degraded() {
				storage = "memory only"
			}
			fmt.Fprintln(cmd.ErrOrStderr(), dimStyle.Render(fmt.Sprintf("key: %s • storage: %s", cfg.Session.Key, storage)))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
}
