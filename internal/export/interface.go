package export

import (
	"fmt"
	"io"

	"github.com/iksnae/newschat/internal"
)

// Exporter defines the interface for all export formats
type Exporter interface {
	Export(conv *internal.Conversation, w io.Writer) error
	Extension() string
}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "jsonl":
		return &JSONLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: jsonl, md, yaml, json)", format)
	}
}

// FileName names the export of one session, e.g. session_<id>.jsonl
func FileName(sessionID string, exporter Exporter) string {
	return fmt.Sprintf("session_%s.%s", sessionID, exporter.Extension())
}
