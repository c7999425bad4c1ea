package domain

import "time"

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message is one exchanged chat message.
type Message struct {
	ID        string
	Role      MessageRole
	Text      string
	Timestamp time.Time
}

// ConversationState is the per-session state owned by the conversation
// engine: at most one intent awaiting confirmation, plus the append-only
// message history. It lives for as long as the engine instance does; nothing
// is restored across restarts.
type ConversationState struct {
	Pending *ParsedIntent
	History []Message
}
