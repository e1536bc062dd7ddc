// ABOUTME: ConversationTurn is a single message in a user's dialog history
// ABOUTME: Ephemeral per-user state, bounded and never persisted
package models

// Turn roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message (user or assistant) in a conversation history.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
