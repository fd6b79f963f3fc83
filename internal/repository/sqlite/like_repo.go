package sqlite

import (
	"context"
	"database/sql"
)

type LikeRepo struct {
	db *sql.DB
}

func NewLikeRepo(db *sql.DB) *LikeRepo {
	return &LikeRepo{db: db}
}

func (r *LikeRepo) Exists(ctx context.Context, userID, botID int64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM user_likes WHERE user_id = ? AND bot_id = ?", userID, botID,
	).Scan(&n)
	return n > 0, err
}

func (r *LikeRepo) Create(ctx context.Context, userID, botID int64) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO user_likes (user_id, bot_id) VALUES (?, ?)", userID, botID,
	)
	return err
}

func (r *LikeRepo) Delete(ctx context.Context, userID, botID int64) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM user_likes WHERE user_id = ? AND bot_id = ?", userID, botID,
	)
	return err
}

func (r *LikeRepo) DeleteByBot(ctx context.Context, botID int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM user_likes WHERE bot_id = ?", botID)
	return err
}

func (r *LikeRepo) ListBotIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT bot_id FROM user_likes WHERE user_id = ?", userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
