package domain

type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Verified     bool   `json:"verified"`
	CreatedAt    string `json:"created_at"`
}

// Profile is the aggregate returned by the user endpoints: the user row plus
// bot and like counts, and (for the owner viewing their own page) the bots
// themselves.
type Profile struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	CreatedAt string `json:"created_at"`
	BotCount  int    `json:"botCount"`
	LikeCount *int   `json:"likeCount,omitempty"`
	IsOwn     bool   `json:"isOwn"`
	Bots      []Bot  `json:"bots,omitempty"`
}
