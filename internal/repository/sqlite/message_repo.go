package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/phoenixchat/phoenix/internal/domain"
)

type MessageRepo struct {
	db *sql.DB
}

func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

func (r *MessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	if msg.CreatedAt == "" {
		msg.CreatedAt = time.Now().UTC().Format("2006-01-02 15:04:05")
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO messages (bot_id, user_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)",
		msg.BotID, msg.UserID, msg.Role, msg.Content, msg.CreatedAt,
	)
	if err != nil {
		return err
	}
	msg.ID, err = res.LastInsertId()
	return err
}

func (r *MessageRepo) ListThread(ctx context.Context, botID, userID int64) ([]domain.Message, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, bot_id, user_id, role, content, created_at FROM messages WHERE bot_id = ? AND user_id = ? ORDER BY created_at ASC, id ASC",
		botID, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.BotID, &m.UserID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *MessageRepo) DeleteByBot(ctx context.Context, botID int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM messages WHERE bot_id = ?", botID)
	return err
}
