package service

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestPrivateBotHiddenFromOthers(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.register(t, "owner", "owner@example.com")
	other := e.register(t, "other", "other@example.com")

	bot, err := e.botSvc.Create(ctx, owner, CreateBotInput{Name: "Secret", IsPublic: false})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := e.botSvc.Get(ctx, bot.ID, &owner); err != nil {
		t.Fatalf("owner should see own private bot: %v", err)
	}
	if _, err := e.botSvc.Get(ctx, bot.ID, &other); !errors.Is(err, ErrBotNotFound) {
		t.Fatalf("expected ErrBotNotFound for other viewer, got %v", err)
	}
	if _, err := e.botSvc.Get(ctx, bot.ID, nil); !errors.Is(err, ErrBotNotFound) {
		t.Fatalf("expected ErrBotNotFound for anonymous viewer, got %v", err)
	}
}

func TestListPublicOnly(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.register(t, "owner", "owner@example.com")

	if _, err := e.botSvc.Create(ctx, owner, CreateBotInput{Name: "Rex", IsPublic: true}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := e.botSvc.Create(ctx, owner, CreateBotInput{Name: "Hidden", IsPublic: false}); err != nil {
		t.Fatalf("create: %v", err)
	}

	public, err := e.botSvc.List(ctx, nil, true)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(public) != 1 || public[0].Name != "Rex" {
		t.Fatalf("expected only Rex in public list, got %+v", public)
	}

	all, err := e.botSvc.List(ctx, nil, false)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 bots in full list, got %d", len(all))
	}
}

func TestListNewestFirst(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.register(t, "owner", "owner@example.com")

	for _, name := range []string{"first", "second", "third"} {
		if _, err := e.botSvc.Create(ctx, owner, CreateBotInput{Name: name, IsPublic: true}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	bots, err := e.botSvc.List(ctx, nil, true)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if bots[0].Name != "third" || bots[2].Name != "first" {
		t.Fatalf("expected newest first, got %s..%s", bots[0].Name, bots[2].Name)
	}
}

func TestUpdateOnlyProvidedFields(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.register(t, "owner", "owner@example.com")
	other := e.register(t, "other", "other@example.com")

	bot, err := e.botSvc.Create(ctx, owner, CreateBotInput{
		Name: "Rex", Description: "a dog", Subtitle: "good boy", IsPublic: true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newName := "Rexy"
	updated, err := e.botSvc.Update(ctx, bot.ID, owner, UpdateBotInput{Name: &newName})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Rexy" {
		t.Fatalf("name not updated: %q", updated.Name)
	}
	if updated.Description != "a dog" || updated.Subtitle != "good boy" || !updated.IsPublic {
		t.Fatalf("untouched fields changed: %+v", updated)
	}

	// No fields: returns the bot unchanged.
	same, err := e.botSvc.Update(ctx, bot.ID, owner, UpdateBotInput{})
	if err != nil {
		t.Fatalf("empty update: %v", err)
	}
	if same.Name != "Rexy" {
		t.Fatalf("empty update changed bot: %+v", same)
	}

	// Non-owner cannot update, and cannot tell the bot exists.
	if _, err := e.botSvc.Update(ctx, bot.ID, other, UpdateBotInput{Name: &newName}); !errors.Is(err, ErrBotNotFound) {
		t.Fatalf("expected ErrBotNotFound for non-owner, got %v", err)
	}
}

func TestToggleLikeIdempotentPair(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.register(t, "owner", "owner@example.com")
	fan := e.register(t, "fan", "fan@example.com")

	bot, err := e.botSvc.Create(ctx, owner, CreateBotInput{Name: "Rex", IsPublic: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	liked, err := e.botSvc.ToggleLike(ctx, fan, bot.ID)
	if err != nil || !liked {
		t.Fatalf("first toggle: liked=%v err=%v", liked, err)
	}
	liked, err = e.botSvc.ToggleLike(ctx, fan, bot.ID)
	if err != nil || liked {
		t.Fatalf("second toggle: liked=%v err=%v", liked, err)
	}

	exists, err := e.likes.Exists(ctx, fan, bot.ID)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Fatal("like row still present after double toggle")
	}
}

func TestSendMessageCreatesPair(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.register(t, "owner", "owner@example.com")
	fan := e.register(t, "fan", "fan@example.com")

	bot, err := e.botSvc.Create(ctx, owner, CreateBotInput{
		Name: "Rex", Prompt: "I am Rex. I love walks. I bark a lot.", IsPublic: true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	pair, err := e.botSvc.SendMessage(ctx, fan, bot.ID, "  hello there  ")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if pair.UserMessage.Content != "hello there" {
		t.Fatalf("user message not trimmed: %q", pair.UserMessage.Content)
	}
	if pair.AssistantMessage.Role != "assistant" {
		t.Fatalf("assistant role = %q", pair.AssistantMessage.Role)
	}
	if !strings.Contains(pair.AssistantMessage.Content, "[Rex]: I am Rex. I love walks...") {
		t.Fatalf("unexpected reply: %q", pair.AssistantMessage.Content)
	}

	thread, err := e.botSvc.ListMessages(ctx, fan, bot.ID)
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(thread) != 2 || thread[0].Role != "user" || thread[1].Role != "assistant" {
		t.Fatalf("unexpected thread: %+v", thread)
	}
}

func TestSendMessageRejectsEmptyContent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.register(t, "owner", "owner@example.com")

	bot, err := e.botSvc.Create(ctx, owner, CreateBotInput{Name: "Rex", IsPublic: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for _, content := range []string{"", "   ", "\n\t"} {
		if _, err := e.botSvc.SendMessage(ctx, owner, bot.ID, content); !errors.Is(err, ErrEmptyMessage) {
			t.Fatalf("content %q: expected ErrEmptyMessage, got %v", content, err)
		}
	}

	thread, err := e.botSvc.ListMessages(ctx, owner, bot.ID)
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(thread) != 0 {
		t.Fatalf("rejected sends stored %d rows", len(thread))
	}
}

func TestThreadsScopedPerUser(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.register(t, "owner", "owner@example.com")
	a := e.register(t, "alice", "alice@example.com")
	b := e.register(t, "bob", "bob@example.com")

	bot, err := e.botSvc.Create(ctx, owner, CreateBotInput{Name: "Rex", IsPublic: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := e.botSvc.SendMessage(ctx, a, bot.ID, "from alice"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := e.botSvc.SendMessage(ctx, b, bot.ID, "from bob"); err != nil {
		t.Fatalf("send: %v", err)
	}

	thread, err := e.botSvc.ListMessages(ctx, a, bot.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(thread) != 2 || thread[0].Content != "from alice" {
		t.Fatalf("alice sees wrong thread: %+v", thread)
	}
}

func TestChatCountDistinctUsers(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.register(t, "owner", "owner@example.com")
	a := e.register(t, "alice", "alice@example.com")

	bot, err := e.botSvc.Create(ctx, owner, CreateBotInput{Name: "Rex", IsPublic: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := e.botSvc.Get(ctx, bot.ID, nil)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ChatCount != 0 {
		t.Fatalf("fresh bot chatCount = %d", got.ChatCount)
	}

	// Two sends from the same user still count one distinct chatter.
	for i := 0; i < 2; i++ {
		if _, err := e.botSvc.SendMessage(ctx, a, bot.ID, "hi"); err != nil {
			t.Fatalf("send: %v", err)
		}
	}

	got, err = e.botSvc.Get(ctx, bot.ID, nil)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ChatCount != 1 {
		t.Fatalf("chatCount = %d, want 1", got.ChatCount)
	}
}

func TestDeleteCascadesLikesAndMessages(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.register(t, "owner", "owner@example.com")
	fan := e.register(t, "fan", "fan@example.com")

	bot, err := e.botSvc.Create(ctx, owner, CreateBotInput{Name: "Rex", IsPublic: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := e.botSvc.ToggleLike(ctx, fan, bot.ID); err != nil {
		t.Fatalf("like: %v", err)
	}
	if _, err := e.botSvc.SendMessage(ctx, fan, bot.ID, "hello"); err != nil {
		t.Fatalf("send: %v", err)
	}

	if err := e.botSvc.Delete(ctx, bot.ID, owner); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := e.botSvc.Get(ctx, bot.ID, &owner); !errors.Is(err, ErrBotNotFound) {
		t.Fatalf("bot still visible after delete: %v", err)
	}
	exists, err := e.likes.Exists(ctx, fan, bot.ID)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Fatal("like survived bot delete")
	}
	msgs, err := e.messages.ListThread(ctx, bot.ID, fan)
	if err != nil {
		t.Fatalf("list thread: %v", err)
	}
	if len(msgs) != 0 {
		t.Fatalf("%d messages survived bot delete", len(msgs))
	}
	count, err := e.bots.ChatCount(ctx, bot.ID)
	if err != nil {
		t.Fatalf("chat count: %v", err)
	}
	if count != 0 {
		t.Fatalf("chatCount = %d after delete", count)
	}
}

func TestDeleteOwnerOnly(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.register(t, "owner", "owner@example.com")
	other := e.register(t, "other", "other@example.com")

	bot, err := e.botSvc.Create(ctx, owner, CreateBotInput{Name: "Rex", IsPublic: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := e.botSvc.Delete(ctx, bot.ID, other); !errors.Is(err, ErrBotNotFound) {
		t.Fatalf("expected ErrBotNotFound for non-owner delete, got %v", err)
	}
	if _, err := e.botSvc.Get(ctx, bot.ID, nil); err != nil {
		t.Fatalf("bot should survive non-owner delete: %v", err)
	}
}
