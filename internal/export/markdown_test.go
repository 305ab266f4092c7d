package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iksnae/newschat/internal"
)

func TestMarkdownExporter_Export(t *testing.T) {
	tests := []struct {
		name    string
		conv    *internal.Conversation
		want    []string
		notWant []string
	}{
		{
			name: "basic conversation",
			conv: internal.CreateTestConversation("test1"),
			want: []string{
				"# Session test1",
				"**Turns:** 2",
				"**user:**",
				"What happened in the markets today?",
				"**assistant:**",
				"Stocks closed higher",
			},
		},
		{
			name: "empty conversation",
			conv: internal.CreateTestConversationWithTurns("test2", nil),
			want: []string{
				"# Session test2",
				"**Turns:** 0",
			},
			notWant: []string{"**user:**"},
		},
		{
			name: "error marker is kept verbatim",
			conv: internal.CreateTestConversationWithTurns("test3", []internal.Turn{
				internal.UserTurn("hello"),
				internal.AssistantTurn(internal.ErrorMarker),
			}),
			want: []string{internal.ErrorMarker},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			exporter := &MarkdownExporter{}

			if err := exporter.Export(tt.conv, &buf); err != nil {
				t.Fatalf("MarkdownExporter.Export() error = %v", err)
			}

			output := buf.String()
			for _, wantStr := range tt.want {
				if !strings.Contains(output, wantStr) {
					t.Errorf("Output should contain %q, got:\n%s", wantStr, output)
				}
			}
			for _, notWantStr := range tt.notWant {
				if strings.Contains(output, notWantStr) {
					t.Errorf("Output should not contain %q, got:\n%s", notWantStr, output)
				}
			}
		})
	}
}

func TestMarkdownExporter_SeparatorsBetweenTurns(t *testing.T) {
	var buf bytes.Buffer
	conv := internal.CreateTestConversationWithTurns("s", []internal.Turn{
		internal.UserTurn("one"),
		internal.AssistantTurn("two"),
		internal.UserTurn("three"),
	})

	if err := (&MarkdownExporter{}).Export(conv, &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	// one rule after the header plus one between each pair of turns
	if got := strings.Count(buf.String(), "---\n"); got != 3 {
		t.Errorf("separator count = %d, want 3", got)
	}
}

func TestMarkdownExporter_Extension(t *testing.T) {
	exporter := &MarkdownExporter{}
	if got := exporter.Extension(); got != "md" {
		t.Errorf("MarkdownExporter.Extension() = %v, want md", got)
	}
}

func TestEscapeMarkdown(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		notWant []string
	}{
		{
			name:  "basic text",
			input: "Hello world",
			want:  []string{"Hello world"},
		},
		{
			name:    "markdown bold",
			input:   "This is **bold** text",
			want:    []string{"\\*\\*bold\\*\\*"},
			notWant: []string{"**bold**"},
		},
		{
			name:    "markdown underline",
			input:   "This is __underlined__ text",
			want:    []string{"\\_\\_underlined\\_\\_"},
			notWant: []string{"__underlined__"},
		},
		{
			name:  "code block preserved",
			input: "```go\nx := a**b\n```",
			want:  []string{"```go", "x := a**b", "```"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := escapeMarkdown(tt.input)
			for _, wantStr := range tt.want {
				if !strings.Contains(got, wantStr) {
					t.Errorf("escapeMarkdown() should contain %q, got: %s", wantStr, got)
				}
			}
			for _, notWantStr := range tt.notWant {
				if strings.Contains(got, notWantStr) {
					t.Errorf("escapeMarkdown() should not contain %q, got: %s", notWantStr, got)
				}
			}
		})
	}
}
