package internal

import (
	"fmt"
	"strings"
)

// Role identifies who produced a turn
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Turn is one message in a transcript. Its sequence is its position.
type Turn struct {
	Role    Role   `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// UserTurn builds a user turn
func UserTurn(content string) Turn {
	return Turn{Role: RoleUser, Content: content}
}

// AssistantTurn builds an assistant turn
func AssistantTurn(content string) Turn {
	return Turn{Role: RoleAssistant, Content: content}
}

// Validate checks that a turn can be kept in a transcript
func (t Turn) Validate() error {
	if !t.Role.Valid() {
		return fmt.Errorf("invalid role %q", t.Role)
	}
	if strings.TrimSpace(t.Content) == "" {
		return fmt.Errorf("empty %s turn", t.Role)
	}
	return nil
}

// Conversation pairs a session id with its turns, for export and display
type Conversation struct {
	SessionID string `json:"session_id" yaml:"session_id"`
	Turns     []Turn `json:"turns" yaml:"turns"`
}
