package export

import (
	"encoding/json"
	"io"

	"github.com/iksnae/newschat/internal"
)

// JSONExporter exports a conversation as one pretty-printed JSON document
type JSONExporter struct{}

// Export writes conv as JSON
func (e *JSONExporter) Export(conv *internal.Conversation, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(conv)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
