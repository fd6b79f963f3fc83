package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/phoenixchat/phoenix/internal/domain"
)

// botColumns are the writable columns a partial update may touch. Anything
// else in the field map is rejected before it reaches the query.
var botColumns = map[string]bool{
	"name":        true,
	"description": true,
	"subtitle":    true,
	"avatar_url":  true,
	"prompt":      true,
	"is_public":   true,
}

type BotRepo struct {
	db *sql.DB
}

func NewBotRepo(db *sql.DB) *BotRepo {
	return &BotRepo{db: db}
}

func (r *BotRepo) Create(ctx context.Context, bot *domain.Bot) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO bots (user_id, name, description, subtitle, avatar_url, prompt, is_public) VALUES (?, ?, ?, ?, ?, ?, ?)",
		bot.UserID, bot.Name, bot.Description, bot.Subtitle, bot.AvatarURL, bot.Prompt, bot.IsPublic,
	)
	if err != nil {
		return err
	}
	bot.ID, err = res.LastInsertId()
	return err
}

const botSelect = `
	SELECT b.id, b.user_id, b.name, b.description, b.subtitle, b.avatar_url, b.prompt, b.is_public, b.created_at,
	       u.username AS author_username
	FROM bots b
	JOIN users u ON u.id = b.user_id`

func (r *BotRepo) GetByID(ctx context.Context, id int64) (*domain.Bot, error) {
	var b domain.Bot
	err := r.db.QueryRowContext(ctx, botSelect+" WHERE b.id = ?", id).Scan(
		&b.ID, &b.UserID, &b.Name, &b.Description, &b.Subtitle, &b.AvatarURL,
		&b.Prompt, &b.IsPublic, &b.CreatedAt, &b.AuthorUsername,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BotRepo) List(ctx context.Context, publicOnly bool) ([]domain.Bot, error) {
	query := botSelect
	if publicOnly {
		query += " WHERE b.is_public = 1"
	}
	query += " ORDER BY b.created_at DESC, b.id DESC"
	return r.queryBots(ctx, query)
}

func (r *BotRepo) ListByUser(ctx context.Context, userID int64, publicOnly bool) ([]domain.Bot, error) {
	query := botSelect + " WHERE b.user_id = ?"
	if publicOnly {
		query += " AND b.is_public = 1"
	}
	query += " ORDER BY b.created_at DESC, b.id DESC"
	return r.queryBots(ctx, query, userID)
}

// Update builds an explicit SET list from the provided fields only; absent
// columns are left untouched. An empty map is a no-op.
func (r *BotRepo) Update(ctx context.Context, id int64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	sets := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields)+1)
	for col, val := range fields {
		if !botColumns[col] {
			return fmt.Errorf("unknown bot column %q", col)
		}
		sets = append(sets, col+" = ?")
		args = append(args, val)
	}
	args = append(args, id)

	query := "UPDATE bots SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *BotRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM bots WHERE id = ?", id)
	return err
}

// ChatCount counts distinct users with at least one message in the bot's
// threads.
func (r *BotRepo) ChatCount(ctx context.Context, botID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(DISTINCT user_id) FROM messages WHERE bot_id = ?", botID,
	).Scan(&n)
	return n, err
}

func (r *BotRepo) queryBots(ctx context.Context, query string, args ...any) ([]domain.Bot, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bots []domain.Bot
	for rows.Next() {
		var b domain.Bot
		if err := rows.Scan(
			&b.ID, &b.UserID, &b.Name, &b.Description, &b.Subtitle, &b.AvatarURL,
			&b.Prompt, &b.IsPublic, &b.CreatedAt, &b.AuthorUsername,
		); err != nil {
			return nil, err
		}
		bots = append(bots, b)
	}
	return bots, rows.Err()
}
