package export

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	"github.com/iksnae/newschat/internal"
)

func TestJSONLExporter_Export(t *testing.T) {
	tests := []struct {
		name      string
		conv      *internal.Conversation
		wantLines int
	}{
		{
			name:      "empty conversation",
			conv:      internal.CreateTestConversationWithTurns("test1", nil),
			wantLines: 0,
		},
		{
			name:      "conversation with turns",
			conv:      internal.CreateTestConversation("test2"),
			wantLines: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			exporter := &JSONLExporter{}

			if err := exporter.Export(tt.conv, &buf); err != nil {
				t.Fatalf("JSONLExporter.Export() error = %v", err)
			}

			scanner := bufio.NewScanner(&buf)
			lines := 0
			for scanner.Scan() {
				var line jsonlTurn
				if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
					t.Fatalf("line %d is not valid JSON: %v", lines, err)
				}
				if line.Index != lines {
					t.Errorf("line %d has index %d", lines, line.Index)
				}
				if line.SessionID != tt.conv.SessionID {
					t.Errorf("line %d session_id = %q, want %q", lines, line.SessionID, tt.conv.SessionID)
				}
				want := tt.conv.Turns[lines]
				if line.Role != want.Role || line.Content != want.Content {
					t.Errorf("line %d = %s/%q, want %s/%q", lines, line.Role, line.Content, want.Role, want.Content)
				}
				lines++
			}

			if lines != tt.wantLines {
				t.Errorf("JSONLExporter.Export() wrote %d lines, want %d", lines, tt.wantLines)
			}
		})
	}
}

func TestJSONLExporter_Extension(t *testing.T) {
	exporter := &JSONLExporter{}
	if got := exporter.Extension(); got != "jsonl" {
		t.Errorf("JSONLExporter.Extension() = %v, want jsonl", got)
	}
}
