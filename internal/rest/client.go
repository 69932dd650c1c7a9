package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hafizhannan/baatcheet/internal/chat"
	"go.uber.org/zap"
)

// Client talks to the BaatCheet REST API. Transient failures (5xx, network
// errors) are retried with exponential backoff; 4xx responses are not.
type Client struct {
	base   string
	token  string
	http   *http.Client
	logger *zap.Logger
}

// New creates a REST client rooted at base (e.g. http://host/api).
func New(base, token string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		base:   base,
		token:  token,
		http:   &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}
}

// Profile is the current user's server-side profile.
type Profile struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Bio       string `json:"bio,omitempty"`
	Phone     string `json:"phone,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

type historyResponse struct {
	ConversationID string         `json:"conversationId"`
	Messages       []chat.Message `json:"messages"`
}

// History fetches the message history for one contact. The server resolves
// (or lazily creates) the conversation for the (current user, contact) pair.
// Implements chat.HistoryFetcher.
func (c *Client) History(ctx context.Context, contactID string) (string, []chat.Message, error) {
	var resp historyResponse
	err := c.getJSON(ctx, "/chat/messages-by-user/"+contactID, &resp)
	if err != nil {
		return "", nil, fmt.Errorf("fetch history: %w", err)
	}
	return resp.ConversationID, resp.Messages, nil
}

// Me fetches the current user's profile.
func (c *Client) Me(ctx context.Context) (*Profile, error) {
	var p Profile
	if err := c.getJSON(ctx, "/profile", &p); err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	return &p, nil
}

// UpdateProfile updates mutable profile fields.
func (c *Client) UpdateProfile(ctx context.Context, p *Profile) error {
	body, err := json.Marshal(p)
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodPut, "/profile", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doRetry(req, body, nil)
}

type uploadResponse struct {
	URL  string           `json:"url"`
	File *chat.Attachment `json:"file,omitempty"`
}

// UploadVoice uploads a recorded voice note and returns its URL.
func (c *Client) UploadVoice(ctx context.Context, audio io.Reader) (string, error) {
	resp, err := c.upload(ctx, "/chat/upload/voice", "voice", "voice.webm", audio)
	if err != nil {
		return "", fmt.Errorf("upload voice: %w", err)
	}
	return resp.URL, nil
}

// UploadFile uploads an arbitrary file and returns the attachment record
// the server created for it.
func (c *Client) UploadFile(ctx context.Context, name string, r io.Reader) (*chat.Attachment, error) {
	resp, err := c.upload(ctx, "/chat/upload/file", "file", name, r)
	if err != nil {
		return nil, fmt.Errorf("upload file: %w", err)
	}
	if resp.File != nil {
		return resp.File, nil
	}
	return &chat.Attachment{Name: name, URL: resp.URL}, nil
}

// UploadAvatar uploads a new avatar image and returns its URL.
func (c *Client) UploadAvatar(ctx context.Context, name string, r io.Reader) (string, error) {
	resp, err := c.upload(ctx, "/profile/upload-avatar", "avatar", name, r)
	if err != nil {
		return "", fmt.Errorf("upload avatar: %w", err)
	}
	return resp.URL, nil
}

func (c *Client) upload(ctx context.Context, path, field, filename string, r io.Reader) (*uploadResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var resp uploadResponse
	// Uploads are not retried: the reader is consumed and duplicate uploads
	// would orphan files server-side.
	if err := c.doOnce(req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) getJSON(ctx context.Context, path string, into any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return c.doRetry(req, nil, into)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// doRetry performs the request with backoff on transient failures. body is
// re-attached on every attempt for non-GET requests.
func (c *Client) doRetry(req *http.Request, body []byte, into any) error {
	policy := backoff.WithContext(newPolicy(), req.Context())
	return backoff.Retry(func() error {
		if body != nil {
			req.Body = io.NopCloser(bytes.NewReader(body))
		}
		err := c.doOnce(req, into)
		var se *statusError
		if errors.As(err, &se) && se.Code < 500 {
			return backoff.Permanent(err)
		}
		return err
	}, policy)
}

func (c *Client) doOnce(req *http.Request, into any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		c.logger.Warn("api error",
			zap.String("path", req.URL.Path),
			zap.Int("status", resp.StatusCode))
		return &statusError{Code: resp.StatusCode, Body: string(snippet)}
	}
	if into == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func newPolicy() *backoff.ExponentialBackOff {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 200 * time.Millisecond
	policy.MaxInterval = 2 * time.Second
	policy.MaxElapsedTime = 10 * time.Second
	return policy
}

// statusError is a non-2xx API response.
type statusError struct {
	Code int
	Body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("api status %d: %s", e.Code, e.Body)
}
