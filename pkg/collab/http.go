// Package collab provides HTTP-backed implementations of the session's
// collaborator hooks: a save endpoint that persists approved drafts and a
// suggest endpoint that proposes improved field values. Both speak JSON.
package collab

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-docpreview/pkg/document"
	"github.com/goliatone/go-docpreview/pkg/session"
)

const (
	defaultSavePath    = "/documents"
	defaultSuggestPath = "/suggestions"
	defaultTimeout     = 30 * time.Second

	maxErrorBody = 8 << 10
)

// Client talks to a preview backend over HTTP.
type Client struct {
	baseURL     string
	savePath    string
	suggestPath string
	http        *http.Client
	headers     http.Header
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient supplies a custom http.Client. The client is cloned so the
// caller's copy is never mutated.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client == nil {
			return
		}
		clone := *client
		c.http = &clone
	}
}

// WithTimeout bounds each request when no custom client carries its own.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 && c.http.Timeout == 0 {
			c.http.Timeout = timeout
		}
	}
}

// WithHeader adds a header to every request, e.g. an authorization token.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		if key == "" {
			return
		}
		c.headers.Set(key, value)
	}
}

// WithSavePath overrides the save endpoint path.
func WithSavePath(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.savePath = path
		}
	}
}

// WithSuggestPath overrides the suggestion endpoint path.
func WithSuggestPath(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.suggestPath = path
		}
	}
}

// New constructs a Client for the given base URL.
func New(baseURL string, options ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errors.New("collab: base URL is required")
	}

	client := &Client{
		baseURL:     trimmed,
		savePath:    defaultSavePath,
		suggestPath: defaultSuggestPath,
		http:        &http.Client{},
		headers:     http.Header{},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(client)
	}
	if client.http.Timeout == 0 {
		client.http.Timeout = defaultTimeout
	}
	return client, nil
}

type saveResponse struct {
	Ref string `json:"ref"`
}

// Save returns a session.SaveFunc that POSTs the draft to the save endpoint.
// A non-2xx response becomes an error carrying the backend's human-readable
// message, so the session can surface it and keep the draft editable.
func (c *Client) Save(subjectID string) session.SaveFunc {
	return func(ctx context.Context, draft document.Record) (*session.SaveResult, error) {
		payload := map[string]any{
			"document": draft,
		}
		if subjectID != "" {
			payload["subjectId"] = subjectID
		}

		var decoded saveResponse
		if err := c.post(ctx, c.savePath, payload, &decoded); err != nil {
			return nil, fmt.Errorf("collab: save: %w", err)
		}
		return &session.SaveResult{Ref: decoded.Ref}, nil
	}
}

type suggestResponse struct {
	Value any `json:"value"`
}

// Suggest returns a session.SuggestFunc that POSTs the field's current state
// plus the full draft as grounding context.
func (c *Client) Suggest() session.SuggestFunc {
	return func(ctx context.Context, req session.SuggestRequest) (any, error) {
		payload := map[string]any{
			"fieldId":       req.FieldID,
			"fieldType":     string(req.FieldType),
			"currentValue":  req.CurrentValue,
			"documentTitle": req.DocumentTitle,
			"subjectId":     req.SubjectID,
			"context":       req.Context,
		}

		var decoded suggestResponse
		if err := c.post(ctx, c.suggestPath, payload, &decoded); err != nil {
			return nil, fmt.Errorf("collab: suggest: %w", err)
		}
		if decoded.Value == nil {
			return nil, errors.New("collab: suggest: backend returned no value")
		}
		return decoded.Value, nil
	}
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for key, values := range c.headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.New(errorMessage(resp))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage prefers the backend's own wording: a JSON body with an
// "error" or "message" key, then a plain-text body, then the status line.
func errorMessage(resp *http.Response) string {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var decoded struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &decoded); err == nil {
		if decoded.Error != "" {
			return decoded.Error
		}
		if decoded.Message != "" {
			return decoded.Message
		}
	}

	if text := strings.TrimSpace(string(data)); text != "" && !strings.HasPrefix(text, "{") {
		return text
	}
	return resp.Status
}
