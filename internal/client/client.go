// Package client is a Go client for the task tracker HTTP API.
//
// A Client is bound to a Session, which owns the access/refresh pair through
// an injectable TokenStore. When a protected call comes back 401 the client
// refreshes once and retries; if that fails the session is cleared and
// ErrUnauthenticated is returned.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrNotFound        = errors.New("not found")
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}

type Client struct {
	baseURL   string
	http      *http.Client
	session   *Session
	refreshMu sync.Mutex
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(baseURL string, session *Session, opts ...Option) *Client {
	if session == nil {
		session = NewSession(nil)
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		session: session,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Session() *Session { return c.session }

func (c *Client) Register(ctx context.Context, email, password, name string) (*User, error) {
	return c.authenticate(ctx, "/auth/register", map[string]string{
		"email": email, "password": password, "name": name,
	})
}

func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	return c.authenticate(ctx, "/auth/login", map[string]string{
		"email": email, "password": password,
	})
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (*User, error) {
	var out authPayload
	if _, err := c.do(ctx, http.MethodPost, path, body, &out, false); err != nil {
		return nil, err
	}
	if err := c.session.Set(out.Tokens); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Refresh exchanges the stored refresh token for a new pair.
func (c *Client) Refresh(ctx context.Context) error {
	current, err := c.session.Tokens()
	if err != nil {
		return err
	}
	return c.refresh(ctx, current)
}

// Logout revokes the current refresh token and clears the session, even if
// the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	current, err := c.session.Tokens()
	if err != nil {
		return err
	}

	var body any
	if current.RefreshToken != "" {
		body = map[string]string{"refreshToken": current.RefreshToken}
	}
	_, callErr := c.do(ctx, http.MethodPost, "/auth/logout", body, nil, true)

	if err := c.session.Clear(); err != nil {
		return err
	}
	if errors.Is(callErr, ErrUnauthenticated) {
		return nil
	}
	return callErr
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/auth/me", nil, &out, true); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) ListTasks(ctx context.Context, p ListTasksParams) (*TaskPage, error) {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	path := "/tasks"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	page := &TaskPage{}
	env, err := c.do(ctx, http.MethodGet, path, nil, &page.Tasks, true)
	if err != nil {
		return nil, err
	}
	if env.Pagination != nil {
		page.Pagination = *env.Pagination
	}
	return page, nil
}

func (c *Client) CreateTask(ctx context.Context, in CreateTaskInput) (*Task, error) {
	var t Task
	if _, err := c.do(ctx, http.MethodPost, "/tasks", in, &t, true); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) GetTask(ctx context.Context, id int64) (*Task, error) {
	var t Task
	if _, err := c.do(ctx, http.MethodGet, taskPath(id), nil, &t, true); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) UpdateTask(ctx context.Context, id int64, in UpdateTaskInput) (*Task, error) {
	var t Task
	if _, err := c.do(ctx, http.MethodPatch, taskPath(id), in, &t, true); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, taskPath(id), nil, nil, true)
	return err
}

func (c *Client) ToggleTask(ctx context.Context, id int64) (*Task, error) {
	var t Task
	if _, err := c.do(ctx, http.MethodPatch, taskPath(id)+"/toggle", nil, &t, true); err != nil {
		return nil, err
	}
	return &t, nil
}

func taskPath(id int64) string {
	return "/tasks/" + strconv.FormatInt(id, 10)
}

// do sends one request and decodes the envelope's data into out. Protected
// calls that come back 401 get exactly one refresh and retry.
func (c *Client) do(ctx context.Context, method, path string, body, out any, protected bool) (*envelope, error) {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return nil, err
		}
	}

	var tokens Tokens
	if protected {
		var err error
		if tokens, err = c.session.Tokens(); err != nil {
			return nil, err
		}
		if tokens.AccessToken == "" {
			return nil, ErrUnauthenticated
		}
	}

	status, env, err := c.send(ctx, method, path, payload, tokens.AccessToken)
	if err != nil {
		return nil, err
	}

	if protected && status == http.StatusUnauthorized {
		if err := c.refresh(ctx, tokens); err != nil {
			return nil, err
		}
		if tokens, err = c.session.Tokens(); err != nil {
			return nil, err
		}
		status, env, err = c.send(ctx, method, path, payload, tokens.AccessToken)
		if err != nil {
			return nil, err
		}
		if status == http.StatusUnauthorized {
			_ = c.session.Clear()
			return nil, ErrUnauthenticated
		}
	}

	if status < 200 || status > 299 || !env.Success {
		apiErr := &APIError{Status: status, Code: env.Code, Message: env.Error}
		if status == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %w", ErrNotFound, apiErr)
		}
		return nil, apiErr
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
	}
	return env, nil
}

// refresh rotates stale. If another goroutine already replaced stale, the
// stored pair is used as is.
func (c *Client) refresh(ctx context.Context, stale Tokens) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	current, err := c.session.Tokens()
	if err != nil {
		return err
	}
	if current.RefreshToken != "" && current.RefreshToken != stale.RefreshToken {
		return nil
	}
	if current.RefreshToken == "" {
		return ErrUnauthenticated
	}

	payload, err := json.Marshal(map[string]string{"refreshToken": current.RefreshToken})
	if err != nil {
		return err
	}
	status, env, err := c.send(ctx, http.MethodPost, "/auth/refresh", payload, "")
	if err != nil {
		return err
	}
	if status != http.StatusOK || !env.Success {
		_ = c.session.Clear()
		return ErrUnauthenticated
	}

	var out struct {
		Tokens Tokens `json:"tokens"`
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return fmt.Errorf("decode refresh response: %w", err)
	}
	return c.session.Set(out.Tokens)
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, accessToken string) (int, *envelope, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	env := &envelope{}
	if err := json.NewDecoder(resp.Body).Decode(env); err != nil && !errors.Is(err, io.EOF) {
		return resp.StatusCode, nil, fmt.Errorf("decode envelope (status %d): %w", resp.StatusCode, err)
	}
	return resp.StatusCode, env, nil
}
