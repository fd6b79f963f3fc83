package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/phoenixchat/phoenix/internal/database"
	sqliterepo "github.com/phoenixchat/phoenix/internal/repository/sqlite"
)

// env bundles real repositories over an in-memory database, so service tests
// exercise the same SQL the server runs.
type env struct {
	users    *sqliterepo.UserRepo
	tokens   *sqliterepo.TokenRepo
	bots     *sqliterepo.BotRepo
	likes    *sqliterepo.LikeRepo
	messages *sqliterepo.MessageRepo

	auth    *AuthService
	botSvc  *BotService
	userSvc *UserService
	mailer  *stubMailer
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	e := &env{
		users:    sqliterepo.NewUserRepo(db),
		tokens:   sqliterepo.NewTokenRepo(db),
		bots:     sqliterepo.NewBotRepo(db),
		likes:    sqliterepo.NewLikeRepo(db),
		messages: sqliterepo.NewMessageRepo(db),
		mailer:   newStubMailer(),
	}
	e.auth = NewAuthService(e.users, e.tokens, e.mailer, "test-secret", "http://localhost:3001")
	e.botSvc = NewBotService(e.bots, e.likes, e.messages)
	e.userSvc = NewUserService(e.users, e.bots, e.likes)
	return e
}

// register creates a verified user and returns its id.
func (e *env) register(t *testing.T, username, email string) int64 {
	t.Helper()
	ctx := context.Background()

	resp, err := e.auth.Register(ctx, RegisterInput{
		Username: username,
		Email:    email,
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}

	token := e.mailer.waitToken(t)
	if err := e.auth.VerifyEmail(ctx, token); err != nil {
		t.Fatalf("verify %s: %v", username, err)
	}
	return resp.UserID
}

// stubMailer records verification sends; the token is delivered over a
// channel because registration dispatches the send on a goroutine.
type stubMailer struct {
	tokens chan string
}

func newStubMailer() *stubMailer {
	return &stubMailer{tokens: make(chan string, 8)}
}

func (m *stubMailer) SendVerification(to, username, verificationURL string) error {
	const marker = "token="
	if i := strings.LastIndex(verificationURL, marker); i >= 0 {
		m.tokens <- verificationURL[i+len(marker):]
	}
	return nil
}

func (m *stubMailer) waitToken(t *testing.T) string {
	t.Helper()
	select {
	case tok := <-m.tokens:
		return tok
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for verification email")
		return ""
	}
}
