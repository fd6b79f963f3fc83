// Package client is a typed Go client for the Phoenix HTTP API. It covers
// every operation the web pages use: browsing and liking bots, chatting,
// account registration and login, and profile pages.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// SetToken attaches a session token to every subsequent request.
func (c *Client) SetToken(token string) {
	c.token = token
}

// APIError is a non-2xx response decoded from the API's error body.
type APIError struct {
	Status  int
	Code    string
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type Bot struct {
	ID             int64  `json:"id"`
	UserID         int64  `json:"user_id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Subtitle       string `json:"subtitle"`
	AvatarURL      string `json:"avatar_url"`
	Prompt         string `json:"prompt"`
	IsPublic       bool   `json:"is_public"`
	CreatedAt      string `json:"created_at"`
	AuthorUsername string `json:"author_username"`
	IsLiked        bool   `json:"isLiked"`
	ChatCount      int    `json:"chatCount"`
}

type Message struct {
	ID        int64  `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

type MessagePair struct {
	UserMessage      Message `json:"userMessage"`
	AssistantMessage Message `json:"assistantMessage"`
}

type Profile struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
	BotCount  int    `json:"botCount"`
	LikeCount *int   `json:"likeCount"`
	IsOwn     bool   `json:"isOwn"`
	Bots      []Bot  `json:"bots"`
}

type RegisterResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"userId"`
	Email   string `json:"email"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type CreateBotInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Subtitle    string `json:"subtitle,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	Prompt      string `json:"prompt,omitempty"`
	IsPublic    bool   `json:"is_public"`
}

type UpdateBotInput struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Subtitle    *string `json:"subtitle,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	Prompt      *string `json:"prompt,omitempty"`
	IsPublic    *bool   `json:"is_public,omitempty"`
}

func (c *Client) Health() error {
	return c.do(http.MethodGet, "/api/health", nil, nil)
}

func (c *Client) Register(username, email, password string) (*RegisterResponse, error) {
	body := map[string]string{"username": username, "email": email, "password": password}
	var resp RegisterResponse
	if err := c.do(http.MethodPost, "/api/auth/register", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyEmail redeems a verification token and returns the redirect target
// the browser would land on.
func (c *Client) VerifyEmail(token string) (string, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/api/auth/verify-email?token="+url.QueryEscape(token), nil)
	if err != nil {
		return "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusFound {
		return "", &APIError{Status: resp.StatusCode, Message: resp.Status}
	}
	return resp.Header.Get("Location"), nil
}

// Login authenticates and remembers the session token for later calls.
func (c *Client) Login(email, password string) (*LoginResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var resp LoginResponse
	if err := c.do(http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp, nil
}

func (c *Client) ListBots(publicOnly bool) ([]Bot, error) {
	path := "/api/bots"
	if !publicOnly {
		path += "?public=false"
	}
	var bots []Bot
	if err := c.do(http.MethodGet, path, nil, &bots); err != nil {
		return nil, err
	}
	return bots, nil
}

func (c *Client) GetBot(id int64) (*Bot, error) {
	var bot Bot
	if err := c.do(http.MethodGet, fmt.Sprintf("/api/bots/%d", id), nil, &bot); err != nil {
		return nil, err
	}
	return &bot, nil
}

func (c *Client) CreateBot(input CreateBotInput) (*Bot, error) {
	var bot Bot
	if err := c.do(http.MethodPost, "/api/bots", input, &bot); err != nil {
		return nil, err
	}
	return &bot, nil
}

func (c *Client) UpdateBot(id int64, input UpdateBotInput) (*Bot, error) {
	var bot Bot
	if err := c.do(http.MethodPatch, fmt.Sprintf("/api/bots/%d", id), input, &bot); err != nil {
		return nil, err
	}
	return &bot, nil
}

func (c *Client) DeleteBot(id int64) error {
	return c.do(http.MethodDelete, fmt.Sprintf("/api/bots/%d", id), nil, nil)
}

func (c *Client) ToggleLike(id int64) (bool, error) {
	var resp struct {
		Liked bool `json:"liked"`
	}
	if err := c.do(http.MethodPost, fmt.Sprintf("/api/bots/%d/like", id), nil, &resp); err != nil {
		return false, err
	}
	return resp.Liked, nil
}

func (c *Client) ListMessages(botID int64) ([]Message, error) {
	var messages []Message
	if err := c.do(http.MethodGet, fmt.Sprintf("/api/bots/%d/messages", botID), nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (c *Client) SendMessage(botID int64, content string) (*MessagePair, error) {
	body := map[string]string{"content": content}
	var pair MessagePair
	if err := c.do(http.MethodPost, fmt.Sprintf("/api/bots/%d/messages", botID), body, &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}

func (c *Client) Me() (*Profile, error) {
	var profile Profile
	if err := c.do(http.MethodGet, "/api/users/me", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) GetUser(username string) (*Profile, error) {
	var profile Profile
	if err := c.do(http.MethodGet, "/api/users/"+url.PathEscape(username), nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) do(method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: resp.Status}

	var body struct {
		Error struct {
			Code    string            `json:"code"`
			Message string            `json:"message"`
			Fields  map[string]string `json:"fields"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if body.Error.Code != "" {
			apiErr.Code = body.Error.Code
		}
		if body.Error.Message != "" {
			apiErr.Message = body.Error.Message
		}
		apiErr.Fields = body.Error.Fields
	}
	return apiErr
}
