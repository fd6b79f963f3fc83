package domain

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry in a user's thread with a bot. Threads are scoped to
// the (bot_id, user_id) pair and append-only.
type Message struct {
	ID        int64  `json:"id"`
	BotID     int64  `json:"bot_id,omitempty"`
	UserID    int64  `json:"-"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}
