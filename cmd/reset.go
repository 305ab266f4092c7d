package cmd

import (
	"fmt"

	"github.com/iksnae/newschat/internal"
	"github.com/spf13/cobra"
)

// resetCmd represents the reset command
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the current session and start a new one",
	Long: `Ask the backend to discard the current session's history, then switch
to a freshly generated session id.

If the backend call fails nothing changes locally: the old session id and
its history stay in place.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		session, err := startChatSession(ctx)
		if err != nil {
			return err
		}
		defer session.Close()

		oldID := session.ctrl.SessionID()
		newID, err := session.ctrl.Reset(ctx)
		if err != nil {
			return fmt.Errorf("reset failed, session %s kept: %w", oldID, err)
		}

		out := cmd.OutOrStdout()
		internal.PrintSuccess(out, "Session reset")
		fmt.Fprintf(out, "session: %s\n", newID)
		if session.identity.Degraded() {
			internal.PrintWarning(cmd.ErrOrStderr(), "the new session id could not be saved and will be lost on exit")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
}
