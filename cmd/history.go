package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/newschat/internal"
	"github.com/spf13/cobra"
)

var historyLimit int

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the transcript of the current session",
	Long: `Load the current session's history from the backend and print it.

When the backend cannot be reached the transcript is shown as empty.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := startChatSession(cmd.Context())
		if err != nil {
			return err
		}
		defer session.Close()

		out := cmd.OutOrStdout()
		conv := session.ctrl.Conversation()
		displaySessionHeader(out, conv)

		turns := conv.Turns
		total := len(turns)
		if total == 0 {
			fmt.Fprintln(out, dimStyle.Render("No turns yet. Start with 'newschat chat' or 'newschat ask'."))
			return nil
		}

		start := 0
		if historyLimit > 0 && historyLimit < total {
			start = total - historyLimit
			fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("... (%d earlier turn(s))", start)))
			fmt.Fprintln(out)
		}

		renderer := newMarkdownRenderer(out, defaultWrapWidth)
		for i := start; i < total; i++ {
			displayTurn(out, renderer, i+1, turns[i], total)
		}
		return nil
	},
}

func displaySessionHeader(w io.Writer, conv internal.Conversation) {
	fmt.Fprintln(w, sessionHeaderStyle.Render(fmt.Sprintf("💬 Session %s", conv.SessionID)))

	metaParts := []string{
		fmt.Sprintf("Turns: %d", len(conv.Turns)),
		fmt.Sprintf("Backend: %s", cfg.API.BaseURL),
	}
	fmt.Fprintln(w, sessionMetaStyle.Render(strings.Join(metaParts, " • ")))
	fmt.Fprintln(w)
}

func displayTurn(w io.Writer, renderer *markdownRenderer, index int, turn internal.Turn, total int) {
	var roleStyle lipgloss.Style
	var roleLabel string

	switch turn.Role {
	case internal.RoleUser:
		roleStyle = userMessageStyle
		roleLabel = "👤 You"
	default:
		roleStyle = assistantMessageStyle
		roleLabel = "📰 Voosh"
	}

	header := roleStyle.Render(roleLabel) + " " + dimStyle.Render(fmt.Sprintf("[%d/%d]", index, total))
	fmt.Fprintln(w, header)

	switch {
	case turn.Content == internal.ErrorMarker:
		fmt.Fprintln(w, errorTurnStyle.Render(turn.Content))
	case turn.Role == internal.RoleAssistant:
		fmt.Fprintln(w, messageContentStyle.Render(renderer.Render(turn.Content)))
	default:
		fmt.Fprintln(w, messageContentStyle.Render(wrapText(strings.TrimSpace(turn.Content), defaultWrapWidth)))
	}
	fmt.Fprintln(w)
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "Show only the last N turns")
}
