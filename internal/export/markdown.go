package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/newschat/internal"
)

// MarkdownExporter exports a conversation as a Markdown transcript
type MarkdownExporter struct{}

// Export writes conv as Markdown
func (e *MarkdownExporter) Export(conv *internal.Conversation, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "# Session %s\n\n", conv.SessionID)
	_, _ = fmt.Fprintf(w, "**Turns:** %d\n\n", len(conv.Turns))
	_, _ = fmt.Fprintf(w, "---\n\n")

	for i, turn := range conv.Turns {
		content := escapeMarkdown(turn.Content)

		_, _ = fmt.Fprintf(w, "**%s:**\n\n%s\n\n", turn.Role, content)

		if i < len(conv.Turns)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

// escapeMarkdown escapes emphasis markers outside fenced code blocks
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
