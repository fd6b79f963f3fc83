package repository

import (
	"context"

	"github.com/phoenixchat/phoenix/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	MarkVerified(ctx context.Context, id int64) error
	CountBots(ctx context.Context, userID int64) (int, error)
	CountLikes(ctx context.Context, userID int64) (int, error)
}

type TokenRepository interface {
	Create(ctx context.Context, token *domain.VerificationToken) error
	GetValid(ctx context.Context, token string) (*domain.VerificationToken, error)
	Delete(ctx context.Context, token string) error
}

type BotRepository interface {
	Create(ctx context.Context, bot *domain.Bot) error
	GetByID(ctx context.Context, id int64) (*domain.Bot, error)
	List(ctx context.Context, publicOnly bool) ([]domain.Bot, error)
	ListByUser(ctx context.Context, userID int64, publicOnly bool) ([]domain.Bot, error)
	Update(ctx context.Context, id int64, fields map[string]any) error
	Delete(ctx context.Context, id int64) error
	ChatCount(ctx context.Context, botID int64) (int, error)
}

type LikeRepository interface {
	Exists(ctx context.Context, userID, botID int64) (bool, error)
	Create(ctx context.Context, userID, botID int64) error
	Delete(ctx context.Context, userID, botID int64) error
	DeleteByBot(ctx context.Context, botID int64) error
	ListBotIDs(ctx context.Context, userID int64) ([]int64, error)
}

type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	ListThread(ctx context.Context, botID, userID int64) ([]domain.Message, error)
	DeleteByBot(ctx context.Context, botID int64) error
}
