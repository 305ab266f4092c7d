package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/newschat/internal"
	"github.com/spf13/cobra"
)

var healthcheckTimeout time.Duration

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check that newschat can keep a session and reach the backend",
	Long: `Check the health of newschat by verifying:
  • Configuration loading
  • State database access
  • Session id persistence
  • Backend reachability

Use --verbose for the paths and values involved.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, sectionStyle.Render("🔍 newschat Health Check"))
		fmt.Fprintln(out)

		// Step 1: Configuration
		fmt.Fprintln(out, infoStyle.Render("Step 1: Loading configuration..."))
		switch {
		case configPath != "":
			fmt.Fprintln(out, successStyle.Render("✅ Config loaded from "+configPath))
		case statePaths.ConfigExists():
			fmt.Fprintln(out, successStyle.Render("✅ Config loaded from "+statePaths.ConfigFile))
		default:
			fmt.Fprintln(out, successStyle.Render("✅ Using built-in defaults"))
		}
		if verbose {
			fmt.Fprintf(out, "   API base: %s\n", cfg.API.BaseURL)
			fmt.Fprintf(out, "   HTTP timeout: %s\n", cfg.HTTP.Timeout)
			fmt.Fprintf(out, "   Session key: %s\n", cfg.Session.Key)
		}
		fmt.Fprintln(out)

		// Step 2: State database
		fmt.Fprintln(out, infoStyle.Render("Step 2: Checking state database..."))
		stateOK := checkStateDB(out)
		fmt.Fprintln(out)

		// Step 3: Session id
		fmt.Fprintln(out, infoStyle.Render("Step 3: Resolving session id..."))
		identity, closeFn := openIdentity()
		defer closeFn()
		sessionID := identity.Resolve()
		if identity.Degraded() {
			fmt.Fprintln(out, warningStyle.Render("⚠️  Session id held in memory only: "+sessionID))
			stateOK = false
		} else {
			fmt.Fprintln(out, successStyle.Render("✅ Session id: "+sessionID))
		}
		fmt.Fprintln(out)

		// Step 4: Backend
		fmt.Fprintln(out, infoStyle.Render("Step 4: Contacting backend..."))
		turns, backendErr := probeBackend(cmd.Context(), sessionID)
		if backendErr != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Backend unreachable:"), backendErr)
		} else {
			fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Backend reachable (%d turn(s) in this session)", turns)))
		}
		if verbose {
			fmt.Fprintf(out, "   History endpoint: %s/session/%s/history\n", cfg.API.BaseURL, sessionID)
		}
		fmt.Fprintln(out)

		// Summary
		fmt.Fprintln(out, sectionStyle.Render("📊 Summary"))
		fmt.Fprintln(out)

		switch {
		case backendErr != nil:
			fmt.Fprintln(out, errorStyle.Render("❌ Health check failed"))
			fmt.Fprintln(out, "   • The backend did not answer; chat turns will show an error")
			fmt.Fprintf(out, "   • Start one locally with 'newschat serve-dev' or set --api\n")
			return fmt.Errorf("health check failed: %w", backendErr)
		case !stateOK:
			fmt.Fprintln(out, warningStyle.Render("⚠️  Backend reachable but the session id is not saved"))
			fmt.Fprintln(out, "   • Each run will start a new session")
			return nil
		default:
			fmt.Fprintln(out, successStyle.Render("✅ Health check passed!"))
			fmt.Fprintln(out, successStyle.Render("   • Session: saved"))
			fmt.Fprintln(out, successStyle.Render("   • Backend: reachable"))
			return nil
		}
	},
}

// checkStateDB reports whether the state database opens. The session slot
// itself is left to the identity store in the next step.
func checkStateDB(out io.Writer) bool {
	if cfg.State.Ephemeral {
		fmt.Fprintln(out, warningStyle.Render("⚠️  Ephemeral mode, no state database used"))
		return false
	}

	existed := statePaths.StateDB == cfg.State.DBPath && statePaths.StateDBExists()
	db, err := internal.OpenStateDB(cfg.State.DBPath)
	if err != nil {
		fmt.Fprintln(out, warningStyle.Render("⚠️  State database unavailable:"), err)
		return false
	}
	if err := db.Close(); err != nil {
		fmt.Fprintln(out, warningStyle.Render("⚠️  State database did not close cleanly:"), err)
		return false
	}

	if existed {
		fmt.Fprintln(out, successStyle.Render("✅ State database ready"))
	} else {
		fmt.Fprintln(out, successStyle.Render("✅ State database opened"))
	}
	if verbose {
		fmt.Fprintf(out, "   Database: %s\n", cfg.State.DBPath)
	}
	return true
}

// probeBackend fetches the session history as a reachability check
func probeBackend(ctx context.Context, sessionID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, healthcheckTimeout)
	defer cancel()

	gateway := internal.NewHTTPGateway(cfg.API.BaseURL, internal.NewHTTPClient(healthcheckTimeout))
	turns, err := gateway.FetchHistory(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return len(turns), nil
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().DurationVar(&healthcheckTimeout, "timeout", 10*time.Second, "How long to wait for the backend")
}
