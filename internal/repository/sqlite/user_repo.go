package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/phoenixchat/phoenix/internal/domain"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, verified) VALUES (?, ?, ?, ?)",
		user.Username, user.Email, user.PasswordHash, user.Verified,
	)
	if err != nil {
		return err
	}
	user.ID, err = res.LastInsertId()
	return err
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.scanUser(ctx, "SELECT id, username, email, password_hash, verified, created_at FROM users WHERE id = ?", id)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.scanUser(ctx, "SELECT id, username, email, password_hash, verified, created_at FROM users WHERE email = ?", email)
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.scanUser(ctx, "SELECT id, username, email, password_hash, verified, created_at FROM users WHERE username = ?", username)
}

func (r *UserRepo) MarkVerified(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, "UPDATE users SET verified = 1 WHERE id = ?", id)
	return err
}

func (r *UserRepo) CountBots(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM bots WHERE user_id = ?", userID).Scan(&n)
	return n, err
}

func (r *UserRepo) CountLikes(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM user_likes WHERE user_id = ?", userID).Scan(&n)
	return n, err
}

func (r *UserRepo) scanUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Verified, &u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
