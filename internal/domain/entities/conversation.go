package entities

import "time"

// Role identifies the author of a conversation entry.
type Role string

// Conversation roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ConversationEntry is one append-only turn of the conversation log. GameID
// tags which game the turn is about and is the only signal the resolver uses
// for history-based resolution; entries are never mutated or deleted.
type ConversationEntry struct {
	ID        int64     `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	GameID    *int64    `json:"game_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
