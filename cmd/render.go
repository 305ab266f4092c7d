package cmd

import (
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/newschat/internal"
)

const defaultWrapWidth = 80

var (
	sessionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1).
				MarginBottom(1)

	sessionMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				MarginBottom(1)

	userMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 1)

	assistantMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true).
				Padding(0, 1)

	messageContentStyle = lipgloss.NewStyle().
				Padding(0, 2).
				MarginBottom(1)

	errorTurnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Italic(true).
			Padding(0, 2)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// markdownRenderer renders assistant answers, falling back to wrapped plain
// text when no renderer is available
type markdownRenderer struct {
	tr    *glamour.TermRenderer
	width int
}

// newMarkdownRenderer styles output only when w is a terminal
func newMarkdownRenderer(w io.Writer, width int) *markdownRenderer {
	if width <= 0 {
		width = defaultWrapWidth
	}
	r := &markdownRenderer{width: width}
	if !internal.IsTerminal(w) {
		return r
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		internal.LogDebug("Markdown rendering disabled: %v", err)
		return r
	}
	r.tr = tr
	return r
}

// Render returns content ready for display
func (r *markdownRenderer) Render(content string) string {
	if r != nil && r.tr != nil {
		out, err := r.tr.Render(content)
		if err == nil {
			return strings.TrimRight(out, "\n")
		}
		internal.LogDebug("Markdown render failed: %v", err)
	}
	width := defaultWrapWidth
	if r != nil {
		width = r.width
	}
	return wrapText(strings.TrimSpace(content), width)
}

func wrapText(text string, width int) string {
	lines := strings.Split(text, "\n")
	var wrapped []string

	for _, line := range lines {
		if len(line) <= width {
			wrapped = append(wrapped, line)
			continue
		}

		words := strings.Fields(line)
		currentLine := ""
		for _, word := range words {
			if len(currentLine)+len(word)+1 > width {
				if currentLine != "" {
					wrapped = append(wrapped, currentLine)
				}
				currentLine = word
			} else if currentLine == "" {
				currentLine = word
			} else {
				currentLine += " " + word
			}
		}
		if currentLine != "" {
			wrapped = append(wrapped, currentLine)
		}
	}

	return strings.Join(wrapped, "\n")
}
