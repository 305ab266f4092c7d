package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/newschat/internal"
	"github.com/spf13/cobra"
)

// pendingBubble stands in for the assistant turn while a reply is awaited
const pendingBubble = "..."

var (
	chatTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			Padding(0, 1)

	userBubbleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("25")).
			Padding(0, 1)

	assistantBubbleStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("135")).
				Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	statusErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("196"))
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the interactive chat screen",
	Long: `Open a full-screen chat with the news assistant.

  enter    send the message
  ctrl+r   reset the session (not while a reply is pending)
  esc      quit

Logs are written to $XDG_STATE_HOME/newschat/newschat.log while the screen is
open.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logFile, err := os.OpenFile(statePaths.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer logFile.Close()
		internal.SetLogOutput(logFile)
		defer internal.SetLogOutput(os.Stderr)

		session := newChatSession()
		defer session.Close()

		ctx := cmd.Context()
		program := tea.NewProgram(
			newChatModel(ctx, session.ctrl),
			tea.WithAltScreen(),
			tea.WithContext(ctx),
		)
		session.ctrl.Observe(func(ev internal.Event) {
			program.Send(controllerEventMsg{event: ev})
		})

		if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("chat screen failed: %w", err)
		}
		return nil
	},
}

// Messages delivered to the chat model
type (
	controllerEventMsg struct{ event internal.Event }
	startedMsg         struct{ err error }
	replyMsg           struct {
		reply internal.Reply
		err   error
	}
	resetDoneMsg struct {
		sessionID string
		err       error
	}
)

// chatModel is the bubbletea model for the chat screen. It holds no
// conversation state of its own: turns, the session id and the awaiting flag
// are read back from the controller.
type chatModel struct {
	ctx  context.Context
	ctrl *internal.Controller

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	turns     []internal.Turn
	sessionID string
	started   bool
	awaiting  bool
	resetting bool
	status    string
	statusErr bool

	width  int
	height int
	ready  bool
}

func newChatModel(ctx context.Context, ctrl *internal.Controller) chatModel {
	ti := textinput.New()
	ti.Placeholder = "Ask about the news..."
	ti.Prompt = "› "
	ti.CharLimit = 2000
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return chatModel{
		ctx:      ctx,
		ctrl:     ctrl,
		input:    ti,
		spinner:  sp,
		viewport: viewport.New(80, 20),
		status:   "Connecting...",
	}
}

func (m chatModel) Init() tea.Cmd {
	return tea.Batch(m.startCmd(), textinput.Blink)
}

func (m chatModel) startCmd() tea.Cmd {
	return func() tea.Msg {
		return startedMsg{err: m.ctrl.Start(m.ctx)}
	}
}

func (m chatModel) sendCmd(text string) tea.Cmd {
	return func() tea.Msg {
		reply, err := m.ctrl.Send(m.ctx, text)
		return replyMsg{reply: reply, err: err}
	}
}

func (m chatModel) resetCmd() tea.Cmd {
	return func() tea.Msg {
		id, err := m.ctrl.Reset(m.ctx)
		return resetDoneMsg{sessionID: id, err: err}
	}
}

// canSend reports whether enter would submit the current input
func (m chatModel) canSend() bool {
	return m.started && !m.awaiting && !m.resetting && strings.TrimSpace(m.input.Value()) != ""
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			if !m.canSend() {
				return m, nil
			}
			text := m.input.Value()
			m.input.Reset()
			m.awaiting = true
			m.status = ""
			m = m.refresh()
			return m, tea.Batch(m.sendCmd(text), m.spinner.Tick)

		case tea.KeyCtrlR:
			if !m.started || m.awaiting || m.resetting {
				return m, nil
			}
			m.resetting = true
			m.status = "Resetting session..."
			m.statusErr = false
			return m, m.resetCmd()
		}

	case controllerEventMsg:
		m = m.refresh()
		return m, nil

	case startedMsg:
		m.started = true
		m.status = ""
		if msg.err != nil {
			m.status = msg.err.Error()
			m.statusErr = true
		}
		m = m.refresh()
		return m, nil

	case replyMsg:
		m.awaiting = false
		switch {
		case msg.err != nil:
			m.status = msg.err.Error()
			m.statusErr = true
		case msg.reply.Err != nil:
			m.status = "The news service did not answer, try again in a moment"
			m.statusErr = true
		}
		m = m.refresh()
		return m, nil

	case resetDoneMsg:
		m.resetting = false
		if msg.err != nil {
			m.status = "Reset failed: " + msg.err.Error()
			m.statusErr = true
		} else {
			m.status = "Started a new session"
			m.statusErr = false
		}
		m = m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.awaiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.viewport.SetContent(m.renderTranscript())
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// refresh reads the conversation back from the controller
func (m chatModel) refresh() chatModel {
	m.turns = m.ctrl.Snapshot().Turns()
	m.sessionID = m.ctrl.SessionID()
	if m.ctrl.AwaitingReply() {
		m.awaiting = true
	}
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
	return m
}

func (m chatModel) resize(width, height int) chatModel {
	if width <= 0 || height <= 0 {
		return m
	}
	m.width, m.height = width, height

	// title, input and footer take one line each, plus a spacer
	vpHeight := height - 4
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.viewport.Width = width
	m.viewport.Height = vpHeight
	m.input.Width = width - 4

	wrap := width - 6
	if wrap < 20 {
		wrap = 20
	}
	if r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(wrap)); err == nil {
		m.renderer = r
	}
	m.ready = true
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
	return m
}

func (m chatModel) renderTranscript() string {
	if len(m.turns) == 0 && !m.awaiting {
		return dimStyle.Render("No messages yet. Ask about today's headlines.")
	}

	var b strings.Builder
	for _, turn := range m.turns {
		b.WriteString(m.renderTurn(turn))
		b.WriteString("\n\n")
	}
	if m.awaiting {
		b.WriteString(assistantBubbleStyle.Render(m.spinner.View() + " " + pendingBubble))
		b.WriteString("\n")
	}
	return b.String()
}

func (m chatModel) renderTurn(turn internal.Turn) string {
	if turn.Role == internal.RoleUser {
		bubble := userBubbleStyle.Render(turn.Content)
		if m.width > 0 {
			return lipgloss.PlaceHorizontal(m.width, lipgloss.Right, bubble)
		}
		return bubble
	}

	if turn.Content == internal.ErrorMarker {
		return assistantBubbleStyle.BorderForeground(lipgloss.Color("196")).Render(errorTurnStyle.Render(turn.Content))
	}

	content := turn.Content
	if m.renderer != nil {
		if out, err := m.renderer.Render(content); err == nil {
			content = strings.TrimSpace(out)
		}
	}
	return assistantBubbleStyle.Render(content)
}

func (m chatModel) footer() string {
	hints := "enter send • ctrl+r reset • esc quit"
	if m.awaiting || m.resetting {
		hints = "esc quit"
	}
	line := fmt.Sprintf("session: %s  %s", m.sessionID, hints)
	if m.status != "" {
		style := footerStyle
		if m.statusErr {
			style = statusErrorStyle
		}
		line = style.Render(m.status) + "  " + footerStyle.Render(line)
		return line
	}
	return footerStyle.Render(line)
}

func (m chatModel) View() string {
	if !m.ready {
		return "\n  Loading..."
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		chatTitleStyle.Render("📰 Voosh News Chat"),
		m.viewport.View(),
		m.input.View(),
		m.footer(),
	)
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
