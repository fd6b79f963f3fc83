package service

import (
	"context"
	"errors"

	"github.com/phoenixchat/phoenix/internal/domain"
	"github.com/phoenixchat/phoenix/internal/repository"
)

var ErrUserNotFound = errors.New("user not found")

type UserService struct {
	userRepo repository.UserRepository
	botRepo  repository.BotRepository
	likeRepo repository.LikeRepository
}

func NewUserService(
	userRepo repository.UserRepository,
	botRepo repository.BotRepository,
	likeRepo repository.LikeRepository,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		botRepo:  botRepo,
		likeRepo: likeRepo,
	}
}

// Me returns the authenticated user's own profile with bot and like counts.
func (s *UserService) Me(ctx context.Context, viewerID int64) (*domain.Profile, error) {
	user, err := s.userRepo.GetByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	botCount, err := s.userRepo.CountBots(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	likeCount, err := s.userRepo.CountLikes(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	return &domain.Profile{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		BotCount:  botCount,
		LikeCount: &likeCount,
		IsOwn:     true,
	}, nil
}

// GetByUsername returns a user's public page. The owner additionally sees
// their private bots, per-bot like flags, and their like count.
func (s *UserService) GetByUsername(ctx context.Context, username string, viewerID *int64) (*domain.Profile, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	isOwn := viewerID != nil && *viewerID == user.ID

	bots, err := s.botRepo.ListByUser(ctx, user.ID, !isOwn)
	if err != nil {
		return nil, err
	}

	var likedIDs map[int64]bool
	if isOwn {
		ids, err := s.likeRepo.ListBotIDs(ctx, *viewerID)
		if err != nil {
			return nil, err
		}
		likedIDs = make(map[int64]bool, len(ids))
		for _, id := range ids {
			likedIDs[id] = true
		}
	}

	for i := range bots {
		bots[i].IsLiked = likedIDs[bots[i].ID]
		count, err := s.botRepo.ChatCount(ctx, bots[i].ID)
		if err != nil {
			return nil, err
		}
		bots[i].ChatCount = count
	}
	if bots == nil {
		bots = []domain.Bot{}
	}

	profile := &domain.Profile{
		ID:        user.ID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
		BotCount:  len(bots),
		IsOwn:     isOwn,
		Bots:      bots,
	}

	if isOwn {
		likeCount, err := s.userRepo.CountLikes(ctx, *viewerID)
		if err != nil {
			return nil, err
		}
		profile.LikeCount = &likeCount
	}

	return profile, nil
}
