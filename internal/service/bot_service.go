package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/phoenixchat/phoenix/internal/domain"
	"github.com/phoenixchat/phoenix/internal/repository"
)

var (
	ErrBotNotFound  = errors.New("bot not found")
	ErrEmptyMessage = errors.New("message content required")
)

type BotService struct {
	botRepo     repository.BotRepository
	likeRepo    repository.LikeRepository
	messageRepo repository.MessageRepository
}

func NewBotService(
	botRepo repository.BotRepository,
	likeRepo repository.LikeRepository,
	messageRepo repository.MessageRepository,
) *BotService {
	return &BotService{
		botRepo:     botRepo,
		likeRepo:    likeRepo,
		messageRepo: messageRepo,
	}
}

type CreateBotInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Subtitle    string `json:"subtitle"`
	AvatarURL   string `json:"avatar_url"`
	Prompt      string `json:"prompt"`
	IsPublic    bool   `json:"is_public"`
}

type UpdateBotInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Subtitle    *string `json:"subtitle"`
	AvatarURL   *string `json:"avatar_url"`
	Prompt      *string `json:"prompt"`
	IsPublic    *bool   `json:"is_public"`
}

type MessagePair struct {
	UserMessage      *domain.Message `json:"userMessage"`
	AssistantMessage *domain.Message `json:"assistantMessage"`
}

// List returns bots newest first, each annotated with chatCount and, for an
// authenticated viewer, the like flag. publicOnly=false also includes
// private bots (the profile page relies on this).
func (s *BotService) List(ctx context.Context, viewerID *int64, publicOnly bool) ([]domain.Bot, error) {
	bots, err := s.botRepo.List(ctx, publicOnly)
	if err != nil {
		return nil, err
	}

	for i := range bots {
		if err := s.annotate(ctx, &bots[i], viewerID); err != nil {
			return nil, err
		}
	}

	return bots, nil
}

// Get returns a bot if it is public or the viewer owns it. A private bot is
// indistinguishable from a nonexistent one to everyone else.
func (s *BotService) Get(ctx context.Context, id int64, viewerID *int64) (*domain.Bot, error) {
	bot, err := s.visibleBot(ctx, id, viewerID)
	if err != nil {
		return nil, err
	}

	if err := s.annotate(ctx, bot, viewerID); err != nil {
		return nil, err
	}
	return bot, nil
}

func (s *BotService) Create(ctx context.Context, ownerID int64, input CreateBotInput) (*domain.Bot, error) {
	bot := &domain.Bot{
		UserID:      ownerID,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Subtitle:    input.Subtitle,
		AvatarURL:   input.AvatarURL,
		Prompt:      input.Prompt,
		IsPublic:    input.IsPublic,
	}

	if err := s.botRepo.Create(ctx, bot); err != nil {
		return nil, fmt.Errorf("creating bot: %w", err)
	}

	return s.botRepo.GetByID(ctx, bot.ID)
}

func (s *BotService) Update(ctx context.Context, id, ownerID int64, input UpdateBotInput) (*domain.Bot, error) {
	bot, err := s.ownedBot(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if input.Name != nil {
		fields["name"] = *input.Name
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Subtitle != nil {
		fields["subtitle"] = *input.Subtitle
	}
	if input.AvatarURL != nil {
		fields["avatar_url"] = *input.AvatarURL
	}
	if input.Prompt != nil {
		fields["prompt"] = *input.Prompt
	}
	if input.IsPublic != nil {
		fields["is_public"] = *input.IsPublic
	}

	if len(fields) == 0 {
		return bot, nil
	}

	if err := s.botRepo.Update(ctx, id, fields); err != nil {
		return nil, fmt.Errorf("updating bot: %w", err)
	}

	return s.botRepo.GetByID(ctx, id)
}

// Delete removes the bot along with its likes and messages. The cascade is a
// sequence of independent statements with no rollback.
func (s *BotService) Delete(ctx context.Context, id, ownerID int64) error {
	if _, err := s.ownedBot(ctx, id, ownerID); err != nil {
		return err
	}

	if err := s.likeRepo.DeleteByBot(ctx, id); err != nil {
		return fmt.Errorf("deleting bot likes: %w", err)
	}
	if err := s.messageRepo.DeleteByBot(ctx, id); err != nil {
		return fmt.Errorf("deleting bot messages: %w", err)
	}
	if err := s.botRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting bot: %w", err)
	}
	return nil
}

// ToggleLike flips the viewer's like on the bot and reports the new state.
func (s *BotService) ToggleLike(ctx context.Context, viewerID, botID int64) (bool, error) {
	bot, err := s.botRepo.GetByID(ctx, botID)
	if err != nil {
		return false, err
	}
	if bot == nil {
		return false, ErrBotNotFound
	}

	liked, err := s.likeRepo.Exists(ctx, viewerID, botID)
	if err != nil {
		return false, err
	}

	if liked {
		if err := s.likeRepo.Delete(ctx, viewerID, botID); err != nil {
			return false, fmt.Errorf("removing like: %w", err)
		}
		return false, nil
	}

	if err := s.likeRepo.Create(ctx, viewerID, botID); err != nil {
		return false, fmt.Errorf("adding like: %w", err)
	}
	return true, nil
}

// SendMessage appends the viewer's message to their thread with the bot and a
// scripted assistant reply. The two inserts are not transactional.
func (s *BotService) SendMessage(ctx context.Context, viewerID, botID int64, content string) (*MessagePair, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	bot, err := s.visibleBot(ctx, botID, &viewerID)
	if err != nil {
		return nil, err
	}

	userMsg := &domain.Message{
		BotID:   botID,
		UserID:  viewerID,
		Role:    domain.RoleUser,
		Content: content,
	}
	if err := s.messageRepo.Create(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("creating user message: %w", err)
	}

	assistantMsg := &domain.Message{
		BotID:   botID,
		UserID:  viewerID,
		Role:    domain.RoleAssistant,
		Content: scriptedReply(bot.Name, bot.Prompt, content),
	}
	if err := s.messageRepo.Create(ctx, assistantMsg); err != nil {
		return nil, fmt.Errorf("creating assistant message: %w", err)
	}

	return &MessagePair{UserMessage: userMsg, AssistantMessage: assistantMsg}, nil
}

// ListMessages returns the viewer's own thread with the bot in chronological
// order.
func (s *BotService) ListMessages(ctx context.Context, viewerID, botID int64) ([]domain.Message, error) {
	if _, err := s.visibleBot(ctx, botID, &viewerID); err != nil {
		return nil, err
	}
	return s.messageRepo.ListThread(ctx, botID, viewerID)
}

func (s *BotService) visibleBot(ctx context.Context, id int64, viewerID *int64) (*domain.Bot, error) {
	bot, err := s.botRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if bot == nil {
		return nil, ErrBotNotFound
	}
	if !bot.IsPublic && (viewerID == nil || *viewerID != bot.UserID) {
		return nil, ErrBotNotFound
	}
	return bot, nil
}

func (s *BotService) ownedBot(ctx context.Context, id, ownerID int64) (*domain.Bot, error) {
	bot, err := s.botRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if bot == nil || bot.UserID != ownerID {
		return nil, ErrBotNotFound
	}
	return bot, nil
}

func (s *BotService) annotate(ctx context.Context, bot *domain.Bot, viewerID *int64) error {
	count, err := s.botRepo.ChatCount(ctx, bot.ID)
	if err != nil {
		return err
	}
	bot.ChatCount = count

	if viewerID != nil {
		liked, err := s.likeRepo.Exists(ctx, *viewerID, bot.ID)
		if err != nil {
			return err
		}
		bot.IsLiked = liked
	}
	return nil
}
