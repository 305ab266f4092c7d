package export

import (
	"bytes"
	"testing"

	"github.com/iksnae/newschat/internal"
	"gopkg.in/yaml.v3"
)

func TestYAMLExporter_Export(t *testing.T) {
	tests := []struct {
		name string
		conv *internal.Conversation
	}{
		{
			name: "basic conversation",
			conv: internal.CreateTestConversation("test1"),
		},
		{
			name: "empty conversation",
			conv: internal.CreateTestConversationWithTurns("test2", []internal.Turn{}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			exporter := &YAMLExporter{}

			if err := exporter.Export(tt.conv, &buf); err != nil {
				t.Fatalf("YAMLExporter.Export() error = %v", err)
			}

			var got internal.Conversation
			if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
				t.Fatalf("Output is not valid YAML: %v\nOutput: %s", err, buf.String())
			}

			if got.SessionID != tt.conv.SessionID {
				t.Errorf("session_id = %q, want %q", got.SessionID, tt.conv.SessionID)
			}
			if len(got.Turns) != len(tt.conv.Turns) {
				t.Fatalf("turns = %d, want %d", len(got.Turns), len(tt.conv.Turns))
			}
			for i := range got.Turns {
				if got.Turns[i] != tt.conv.Turns[i] {
					t.Errorf("turn %d = %+v, want %+v", i, got.Turns[i], tt.conv.Turns[i])
				}
			}
		})
	}
}

func TestYAMLExporter_Extension(t *testing.T) {
	exporter := &YAMLExporter{}
	if got := exporter.Extension(); got != "yaml" {
		t.Errorf("YAMLExporter.Extension() = %v, want yaml", got)
	}
}
