package internal

// CreateTestConversation creates a conversation with one question and answer
func CreateTestConversation(sessionID string) *Conversation {
	return &Conversation{
		SessionID: sessionID,
		Turns: []Turn{
			UserTurn("What happened in the markets today?"),
			AssistantTurn("Stocks closed higher after the rate decision."),
		},
	}
}

// CreateTestConversationWithTurns creates a conversation with custom turns
func CreateTestConversationWithTurns(sessionID string, turns []Turn) *Conversation {
	return &Conversation{
		SessionID: sessionID,
		Turns:     turns,
	}
}
