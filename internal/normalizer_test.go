package internal

import (
	"testing"
)

func TestNormalizeRole(t *testing.T) {
	normalizer := NewNormalizer()

	tests := []struct {
		input Role
		want  Role
	}{
		{"user", RoleUser},
		{"User", RoleUser},
		{" user ", RoleUser},
		{"assistant", RoleAssistant},
		{"ASSISTANT", RoleAssistant},
		{"human", "human"},
		{"bot", "bot"},
		{"system", "system"},
		{"", ""},
	}

	for _, tt := range tests {
		got := normalizer.normalizeRole(tt.input)
		if got != tt.want {
			t.Errorf("normalizeRole(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeTurns(t *testing.T) {
	normalizer := NewNormalizer()

	tests := []struct {
		name string
		raw  []Turn
		want []Turn
	}{
		{
			name: "nil history",
			raw:  nil,
			want: []Turn{},
		},
		{
			name: "well formed history kept in order",
			raw: []Turn{
				{Role: "user", Content: "hi"},
				{Role: "assistant", Content: "hello"},
				{Role: "user", Content: "news?"},
			},
			want: []Turn{
				UserTurn("hi"),
				AssistantTurn("hello"),
				UserTurn("news?"),
			},
		},
		{
			name: "unknown roles and empty content dropped",
			raw: []Turn{
				{Role: "system", Content: "you are helpful"},
				{Role: "user", Content: "  "},
				{Role: " Assistant ", Content: "answer"},
				{Role: "bot", Content: "not a known role"},
				{Role: "", Content: "orphan"},
			},
			want: []Turn{
				AssistantTurn("answer"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizer.NormalizeTurns(tt.raw)
			if got == nil {
				t.Fatal("NormalizeTurns() returned nil")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("NormalizeTurns() returned %d turns, want %d: %+v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("turn %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
