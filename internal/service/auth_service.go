package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/phoenixchat/phoenix/internal/domain"
	"github.com/phoenixchat/phoenix/internal/mailer"
	"github.com/phoenixchat/phoenix/internal/repository"
)

var (
	ErrEmailTaken    = errors.New("email already taken")
	ErrUsernameTaken = errors.New("username already taken")
	ErrInvalidCreds  = errors.New("invalid email or password")
	ErrNotVerified   = errors.New("email not verified")
	ErrTokenInvalid  = errors.New("verification token invalid or expired")
)

const (
	bcryptCost      = 10
	sessionTTL      = 7 * 24 * time.Hour
	verificationTTL = 24 * time.Hour
)

type AuthService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	mailer    mailer.Mailer
	jwtSecret []byte
	apiURL    string
}

func NewAuthService(
	userRepo repository.UserRepository,
	tokenRepo repository.TokenRepository,
	m mailer.Mailer,
	jwtSecret string,
	apiURL string,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		mailer:    m,
		jwtSecret: []byte(jwtSecret),
		apiURL:    strings.TrimRight(apiURL, "/"),
	}
}

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"userId"`
	Email   string `json:"email"`
}

type SessionUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  SessionUser `json:"user"`
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*RegisterResponse, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	username := strings.TrimSpace(input.Username)

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	existing, err = s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	token := &domain.VerificationToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().UTC().Add(verificationTTL).Format("2006-01-02 15:04:05"),
	}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return nil, fmt.Errorf("creating verification token: %w", err)
	}

	// Dispatched in the background; a failed send must not fail the
	// registration.
	verificationURL := fmt.Sprintf("%s/api/auth/verify-email?token=%s", s.apiURL, token.Token)
	go func() {
		if err := s.mailer.SendVerification(email, username, verificationURL); err != nil {
			logrus.WithError(err).Error("sending verification email")
		}
	}()

	return &RegisterResponse{
		Message: "Registration successful. Please check your email to verify your address.",
		UserID:  user.ID,
		Email:   email,
	}, nil
}

// VerifyEmail redeems a one-time token: the user is marked verified and the
// token row deleted so it can never be used again.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	t, err := s.tokenRepo.GetValid(ctx, token)
	if err != nil {
		return err
	}
	if t == nil {
		return ErrTokenInvalid
	}

	if err := s.userRepo.MarkVerified(ctx, t.UserID); err != nil {
		return fmt.Errorf("marking user verified: %w", err)
	}
	if err := s.tokenRepo.Delete(ctx, token); err != nil {
		return fmt.Errorf("deleting verification token: %w", err)
	}
	return nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCreds
	}

	if !user.Verified {
		return nil, ErrNotVerified
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		return nil, ErrInvalidCreds
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	return &LoginResponse{
		Token: token,
		User:  SessionUser{ID: user.ID, Username: user.Username, Email: user.Email},
	}, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"userId":   user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(sessionTTL).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
