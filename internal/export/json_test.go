package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/iksnae/newschat/internal"
)

func TestJSONExporter_Export(t *testing.T) {
	conv := internal.CreateTestConversation("test1")

	var buf bytes.Buffer
	if err := (&JSONExporter{}).Export(conv, &buf); err != nil {
		t.Fatalf("JSONExporter.Export() error = %v", err)
	}

	var got internal.Conversation
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if got.SessionID != "test1" {
		t.Errorf("session_id = %q, want test1", got.SessionID)
	}
	if len(got.Turns) != 2 || got.Turns[0].Role != internal.RoleUser || got.Turns[1].Role != internal.RoleAssistant {
		t.Errorf("turns = %+v, want user then assistant", got.Turns)
	}
	if !bytes.Contains(buf.Bytes(), []byte("\n  \"session_id\"")) {
		t.Errorf("output should be indented, got:\n%s", buf.String())
	}
}

func TestJSONExporter_Extension(t *testing.T) {
	exporter := &JSONExporter{}
	if got := exporter.Extension(); got != "json" {
		t.Errorf("JSONExporter.Extension() = %v, want json", got)
	}
}
