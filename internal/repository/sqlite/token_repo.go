package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/phoenixchat/phoenix/internal/domain"
)

type TokenRepo struct {
	db *sql.DB
}

func NewTokenRepo(db *sql.DB) *TokenRepo {
	return &TokenRepo{db: db}
}

func (r *TokenRepo) Create(ctx context.Context, token *domain.VerificationToken) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO verification_tokens (user_id, token, expires_at) VALUES (?, ?, ?)",
		token.UserID, token.Token, token.ExpiresAt,
	)
	if err != nil {
		return err
	}
	token.ID, err = res.LastInsertId()
	return err
}

// GetValid returns the token row only while it is unexpired. Expired rows are
// left in place; they can never match again.
func (r *TokenRepo) GetValid(ctx context.Context, token string) (*domain.VerificationToken, error) {
	var t domain.VerificationToken
	err := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, token, expires_at FROM verification_tokens WHERE token = ? AND expires_at > datetime('now')",
		token,
	).Scan(&t.ID, &t.UserID, &t.Token, &t.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TokenRepo) Delete(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM verification_tokens WHERE token = ?", token)
	return err
}
