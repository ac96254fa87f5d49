package chat

import "time"

// Roles a turn can carry. Alternation is not enforced: a session may end
// with an unanswered user turn when the model call fails.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message persists one conversation turn. Turns are append-only and
// totally ordered per session by creation time.
type Message struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	SessionID string    `json:"sessionId"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
