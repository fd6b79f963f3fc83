package domain

type Bot struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"user_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Subtitle    string `json:"subtitle"`
	AvatarURL   string `json:"avatar_url"`
	Prompt      string `json:"prompt,omitempty"`
	IsPublic    bool   `json:"is_public"`
	CreatedAt   string `json:"created_at"`
	// Joined fields
	AuthorUsername string `json:"author_username,omitempty"`
	IsLiked        bool   `json:"isLiked"`
	ChatCount      int    `json:"chatCount"`
}
