// Package client is the Go client for the migration portal API: an
// HTTP client for the chat endpoints, a websocket event stream, and a
// conversation view that keeps itself current from both.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/christa-jose1/student-migration-portal/internal/domain"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client calls the portal's chat API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a Client for the given base URL, authenticating with the
// session token.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// CreateChat starts (or re-opens) a chat between two users.
func (c *Client) CreateChat(ctx context.Context, req domain.CreateChatRequest) (*domain.ChatView, error) {
	var view domain.ChatView
	if err := c.do(ctx, http.MethodPost, "/api/chats", req, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// ListChats returns the user's conversations, most recent first.
func (c *Client) ListChats(ctx context.Context, userID string) ([]domain.ChatView, error) {
	var views []domain.ChatView
	if err := c.do(ctx, http.MethodGet, "/api/chats/user/"+userID, nil, &views); err != nil {
		return nil, err
	}
	return views, nil
}

// GetChat returns one conversation.
func (c *Client) GetChat(ctx context.Context, chatID string) (*domain.ChatView, error) {
	var view domain.ChatView
	if err := c.do(ctx, http.MethodGet, "/api/chats/"+chatID, nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// SendMessage appends a message to a conversation.
func (c *Client) SendMessage(ctx context.Context, chatID string, req domain.AppendMessageRequest) (*domain.ChatView, error) {
	var view domain.ChatView
	if err := c.do(ctx, http.MethodPut, "/api/chats/"+chatID+"/message", req, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// MarkRead marks the counterpart's messages in a conversation as read.
func (c *Client) MarkRead(ctx context.Context, chatID, readerID string) (*domain.ChatView, error) {
	var view domain.ChatView
	req := domain.MarkReadRequest{ReaderID: readerID}
	if err := c.do(ctx, http.MethodPut, "/api/chats/"+chatID+"/read", req, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// DeleteChat removes a conversation permanently.
func (c *Client) DeleteChat(ctx context.Context, chatID string) error {
	return c.do(ctx, http.MethodDelete, "/api/chats/"+chatID, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, dest interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if !env.Success {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}

	if dest != nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, dest)
	}
	return nil
}
