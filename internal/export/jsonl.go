package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/newschat/internal"
)

// JSONLExporter writes one turn per line, in the backend's wire shape
type JSONLExporter struct{}

// jsonlTurn adds the position and session to a turn line
type jsonlTurn struct {
	SessionID string        `json:"session_id"`
	Index     int           `json:"index"`
	Role      internal.Role `json:"role"`
	Content   string        `json:"content"`
}

// Export writes each turn of conv as a JSON line
func (e *JSONLExporter) Export(conv *internal.Conversation, w io.Writer) error {
	enc := json.NewEncoder(w)

	for i, turn := range conv.Turns {
		line := jsonlTurn{
			SessionID: conv.SessionID,
			Index:     i,
			Role:      turn.Role,
			Content:   turn.Content,
		}
		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("failed to encode turn %d: %w", i, err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
