package cmd

import (
	"fmt"
	"strings"

	"github.com/iksnae/newschat/internal"
	"github.com/spf13/cobra"
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask <message...>",
	Short: "Ask one question and print the answer",
	Long: `Send a single message in the current session and print the answer.

The question and answer are added to the session history, so a later
'newschat chat' or 'newschat history' shows them.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		message := strings.Join(args, " ")
		if strings.TrimSpace(message) == "" {
			return fmt.Errorf("nothing to ask: %w", internal.ErrEmptyInput)
		}

		session, err := startChatSession(ctx)
		if err != nil {
			return err
		}
		defer session.Close()

		var reply internal.Reply
		err = internal.ShowProgress(ctx, cmd.ErrOrStderr(), "Waiting for the answer", func() error {
			var sendErr error
			reply, sendErr = session.ctrl.Send(ctx, message)
			if sendErr != nil {
				return sendErr
			}
			return reply.Err
		})

		out := cmd.OutOrStdout()
		if reply.Err != nil {
			fmt.Fprintln(out, errorTurnStyle.Render(reply.Turn.Content))
			return fmt.Errorf("chat request failed: %w", reply.Err)
		}
		if err != nil {
			return fmt.Errorf("failed to send message: %w", err)
		}

		fmt.Fprintln(out, newMarkdownRenderer(out, defaultWrapWidth).Render(reply.Turn.Content))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
