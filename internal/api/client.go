// Package api provides the grabbit service client.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// DefaultTimeout bounds a single request, uploads included.
const DefaultTimeout = 10 * time.Minute

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsWaitlisted reports whether the account has not been approved yet.
func (e *APIError) IsWaitlisted() bool {
	return IsWaitlisted(e.Message)
}

// IsWaitlisted reports whether msg is a waitlist rejection.
func IsWaitlisted(msg string) bool {
	return strings.Contains(strings.ToLower(msg), "waitlist")
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	multipart  bool
	log        zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithMultipart enables or disables multipart uploads.
func WithMultipart(enabled bool) Option {
	return func(c *Client) { c.multipart = enabled }
}

// WithLogger sets the request logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// NewClient returns a client for baseURL authenticating with token.
// Multipart uploads are enabled unless disabled with WithMultipart.
func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		multipart:  true,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doRequest sends body with contentType and returns the response body. The
// Content-Type header is only set when there is a body.
func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}

	if body != nil && contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("api request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := fmt.Sprintf("Request failed: %d", resp.StatusCode)
		if gjson.ValidBytes(respBody) {
			if e := gjson.GetBytes(respBody, "error").String(); e != "" {
				msg = e
			}
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	return respBody, nil
}

// doJSON sends v (when non-nil) as a JSON body and decodes the response
// into out.
func (c *Client) doJSON(ctx context.Context, method, path string, v, out any) error {
	var body io.Reader
	if v != nil {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	respBody, err := c.doRequest(ctx, method, path, body, "application/json")
	if err != nil {
		return err
	}
	return decode(respBody, out)
}

func decode(body []byte, out any) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// Task states reported by the service.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusError      = "error"
)

// TaskField describes a workflow input or output.
type TaskField struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Default     any    `json:"default,omitempty"`
}

// TaskStatus is the state of a generation task.
type TaskStatus struct {
	TaskID      string      `json:"taskId"`
	Status      string      `json:"status"`
	CreatedAt   string      `json:"createdAt,omitempty"`
	StartedAt   string      `json:"startedAt,omitempty"`
	CompletedAt string      `json:"completedAt,omitempty"`
	WorkflowID  string      `json:"workflowId,omitempty"`
	Workflow    string      `json:"workflow,omitempty"`
	Steps       int         `json:"steps,omitempty"`
	TestOutput  string      `json:"testOutput,omitempty"`
	Curl        string      `json:"curl,omitempty"`
	Inputs      []TaskField `json:"inputs,omitempty"`
	Outputs     []TaskField `json:"outputs,omitempty"`
	Error       string      `json:"error,omitempty"`
	SkillMd     string      `json:"skillMd,omitempty"`
	AddCommand  string      `json:"addCommand,omitempty"`
}

// CheckTask fetches the status of taskID.
func (c *Client) CheckTask(ctx context.Context, taskID string) (*TaskStatus, error) {
	var status TaskStatus
	if err := c.doJSON(ctx, http.MethodGet, "/api/cli/tasks/"+url.PathEscape(taskID), nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// TokenValidation is the result of validating the stored token.
type TokenValidation struct {
	Valid  bool   `json:"valid"`
	UserID string `json:"userId,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ValidateToken checks the token against the service. Request failures are
// reported as an invalid token carrying the failure message.
func (c *Client) ValidateToken(ctx context.Context) *TokenValidation {
	var result TokenValidation
	if err := c.doJSON(ctx, http.MethodGet, "/api/cli/tokens/validate", nil, &result); err != nil {
		return &TokenValidation{Valid: false, Error: err.Error()}
	}
	return &result
}

// Workflow is a saved workflow summary.
type Workflow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ListWorkflows returns the user's saved workflows. The title falls back from
// metadata.name to goal to "Untitled".
func (c *Client) ListWorkflows(ctx context.Context) ([]Workflow, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/api/workflows", nil, "")
	if err != nil {
		return nil, err
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("failed to parse response: invalid JSON")
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsArray() {
		return nil, fmt.Errorf("failed to parse response: expected a list of workflows")
	}

	workflows := make([]Workflow, 0, len(doc.Array()))
	doc.ForEach(func(_, w gjson.Result) bool {
		title := firstNonEmpty(w.Get("metadata.name").String(), w.Get("goal").String(), "Untitled")
		workflows = append(workflows, Workflow{
			ID:          w.Get("id").String(),
			Title:       title,
			Description: w.Get("metadata.description").String(),
		})
		return true
	})
	return workflows, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
