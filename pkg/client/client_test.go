package client_test

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/phoenixchat/phoenix/internal/database"
	"github.com/phoenixchat/phoenix/internal/repository/sqlite"
	"github.com/phoenixchat/phoenix/internal/service"
	"github.com/phoenixchat/phoenix/internal/transport/http/handlers"
	"github.com/phoenixchat/phoenix/pkg/client"
)

type tokenMailer struct {
	tokens chan string
}

func (m *tokenMailer) SendVerification(to, username, verificationURL string) error {
	if i := strings.LastIndex(verificationURL, "token="); i >= 0 {
		m.tokens <- verificationURL[i+len("token="):]
	}
	return nil
}

func startServer(t *testing.T) (string, *tokenMailer) {
	t.Helper()

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	userRepo := sqlite.NewUserRepo(db)
	tokenRepo := sqlite.NewTokenRepo(db)
	botRepo := sqlite.NewBotRepo(db)
	likeRepo := sqlite.NewLikeRepo(db)
	messageRepo := sqlite.NewMessageRepo(db)

	m := &tokenMailer{tokens: make(chan string, 8)}
	frontend := "http://localhost:5173"

	router := handlers.NewRouter("test-secret", frontend,
		handlers.NewAuthHandler(service.NewAuthService(userRepo, tokenRepo, m, "test-secret", "http://localhost:3001"), frontend),
		handlers.NewBotHandler(service.NewBotService(botRepo, likeRepo, messageRepo)),
		handlers.NewUserHandler(service.NewUserService(userRepo, botRepo, likeRepo)),
	)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv.URL, m
}

func (m *tokenMailer) wait(t *testing.T) string {
	t.Helper()
	select {
	case tok := <-m.tokens:
		return tok
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for verification email")
		return ""
	}
}

// signup walks a fresh client through register, verify and login.
func signup(t *testing.T, baseURL string, m *tokenMailer, username, email string) *client.Client {
	t.Helper()

	c := client.New(baseURL)
	if _, err := c.Register(username, email, "secret123"); err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	if _, err := c.VerifyEmail(m.wait(t)); err != nil {
		t.Fatalf("verify %s: %v", username, err)
	}
	if _, err := c.Login(email, "secret123"); err != nil {
		t.Fatalf("login %s: %v", username, err)
	}
	return c
}

func TestFullUserJourney(t *testing.T) {
	baseURL, m := startServer(t)

	c := client.New(baseURL)
	if err := c.Health(); err != nil {
		t.Fatalf("health: %v", err)
	}

	// Login is refused until the emailed token is redeemed.
	reg, err := c.Register("ana", "ana@example.com", "secret123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if reg.UserID == 0 || reg.Email != "ana@example.com" {
		t.Fatalf("register response: %+v", reg)
	}
	if _, err := c.Login("ana@example.com", "secret123"); err == nil {
		t.Fatal("login before verification succeeded")
	}

	location, err := c.VerifyEmail(m.wait(t))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if location != "http://localhost:5173/login?verified=1" {
		t.Fatalf("verify redirect: %q", location)
	}

	login, err := c.Login("ana@example.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if login.User.Username != "ana" {
		t.Fatalf("login user: %+v", login.User)
	}

	bot, err := c.CreateBot(client.CreateBotInput{
		Name:     "Rex",
		Subtitle: "A loyal dog",
		Prompt:   "I am Rex. I love walks. I bark at squirrels.",
		IsPublic: true,
	})
	if err != nil {
		t.Fatalf("create bot: %v", err)
	}

	// Anyone can see the public bot; nobody has chatted with it yet.
	anon := client.New(baseURL)
	bots, err := anon.ListBots(true)
	if err != nil {
		t.Fatalf("list bots: %v", err)
	}
	if len(bots) != 1 || bots[0].Name != "Rex" || bots[0].ChatCount != 0 {
		t.Fatalf("anonymous listing: %+v", bots)
	}
	if bots[0].AuthorUsername != "ana" {
		t.Fatalf("author: %q", bots[0].AuthorUsername)
	}

	pair, err := c.SendMessage(bot.ID, "Who is a good boy?")
	if err != nil {
		t.Fatalf("send message: %v", err)
	}
	if pair.AssistantMessage.Role != "assistant" {
		t.Fatalf("assistant message: %+v", pair.AssistantMessage)
	}
	if !strings.Contains(pair.AssistantMessage.Content, "[Rex]:") {
		t.Fatalf("assistant content: %q", pair.AssistantMessage.Content)
	}

	got, err := anon.GetBot(bot.ID)
	if err != nil {
		t.Fatalf("get bot: %v", err)
	}
	if got.ChatCount != 1 {
		t.Fatalf("chat count after messaging: %d", got.ChatCount)
	}

	// A second distinct user pushes the chat count to 2 and likes the bot.
	fan := signup(t, baseURL, m, "ben", "ben@example.com")
	if _, err := fan.SendMessage(bot.ID, "hello"); err != nil {
		t.Fatalf("fan message: %v", err)
	}
	liked, err := fan.ToggleLike(bot.ID)
	if err != nil || !liked {
		t.Fatalf("toggle like: liked=%v err=%v", liked, err)
	}

	got, err = fan.GetBot(bot.ID)
	if err != nil {
		t.Fatalf("get bot as fan: %v", err)
	}
	if got.ChatCount != 2 || !got.IsLiked {
		t.Fatalf("bot as fan: chatCount=%d isLiked=%v", got.ChatCount, got.IsLiked)
	}

	// Message threads are private to each chatter.
	msgs, err := fan.ListMessages(bot.ID)
	if err != nil {
		t.Fatalf("fan thread: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Content != "hello" {
		t.Fatalf("fan thread: %+v", msgs)
	}

	profile, err := anon.GetUser("ana")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if profile.BotCount != 1 || profile.IsOwn || profile.Email != "" {
		t.Fatalf("profile: %+v", profile)
	}
}

func TestAPIErrorCarriesCode(t *testing.T) {
	baseURL, m := startServer(t)
	c := signup(t, baseURL, m, "ana", "ana@example.com")

	dup := client.New(baseURL)
	_, err := dup.Register("ana", "other@example.com", "secret123")
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("want *APIError, got %v", err)
	}
	if apiErr.Status != 400 || apiErr.Code != "ALREADY_REGISTERED" {
		t.Fatalf("api error: %+v", apiErr)
	}

	if _, err := c.GetBot(999999); err == nil {
		t.Fatal("missing bot returned no error")
	}
}

func TestUpdateAndDeleteViaClient(t *testing.T) {
	baseURL, m := startServer(t)
	c := signup(t, baseURL, m, "ana", "ana@example.com")

	bot, err := c.CreateBot(client.CreateBotInput{Name: "Rex", IsPublic: true})
	if err != nil {
		t.Fatalf("create bot: %v", err)
	}

	subtitle := "good boy"
	updated, err := c.UpdateBot(bot.ID, client.UpdateBotInput{Subtitle: &subtitle})
	if err != nil {
		t.Fatalf("update bot: %v", err)
	}
	if updated.Subtitle != "good boy" || updated.Name != "Rex" {
		t.Fatalf("updated bot: %+v", updated)
	}

	if err := c.DeleteBot(bot.ID); err != nil {
		t.Fatalf("delete bot: %v", err)
	}
	if _, err := c.GetBot(bot.ID); err == nil {
		t.Fatal("deleted bot still fetchable")
	}

	unauthed := client.New(baseURL)
	if _, err := unauthed.Me(); err == nil {
		t.Fatal("Me without a token succeeded")
	}
}
