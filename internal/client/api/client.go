// Package api is the CLI's client for the gophtasks HTTP JSON API. Calls
// that need authentication take the caller's *Session explicitly; the client
// itself holds no login state.
//
// Errors: transport failures and 5xx responses are ErrUnavailable, 401 is
// ErrUnauthorized, 403 is ErrForbidden and 422 is *ValidationError.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/common"
)

type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient returns a client for the server at baseURL, e.g.
// "http://127.0.0.1:8080". timeout bounds each request.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Ping checks that the server answers its health probe.
func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
}

func (c *HTTPClient) Register(ctx context.Context, name, email, password, confirmation string) (*Session, error) {
	req := registerRequest{Name: name, Email: email, Password: password, PasswordConfirmation: confirmation}

	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/api/register", nil, req, &resp); err != nil {
		return nil, err
	}
	return &Session{Token: resp.Token, User: resp.User}, nil
}

// Login returns a fresh session. Every session obtained earlier for the
// same user stops working.
func (c *HTTPClient) Login(ctx context.Context, email, password string) (*Session, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/api/login", nil, loginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &Session{Token: resp.Token, User: resp.User}, nil
}

func (c *HTTPClient) Logout(ctx context.Context, s *Session) error {
	return c.do(ctx, http.MethodPost, "/api/logout", s, nil, nil)
}

func (c *HTTPClient) Me(ctx context.Context, s *Session) (*User, error) {
	var resp userResponse
	if err := c.do(ctx, http.MethodGet, "/api/user", s, nil, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (c *HTTPClient) ListTasks(ctx context.Context, s *Session) ([]*Task, error) {
	var resp tasksResponse
	if err := c.do(ctx, http.MethodGet, "/api/tasks", s, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

// CreateTask creates a task; a nil description is omitted.
func (c *HTTPClient) CreateTask(ctx context.Context, s *Session, title string, description *string) (*Task, error) {
	var resp taskResponse
	if err := c.do(ctx, http.MethodPost, "/api/tasks", s, createTaskRequest{Title: title, Description: description}, &resp); err != nil {
		return nil, err
	}
	return resp.Task, nil
}

func (c *HTTPClient) GetTask(ctx context.Context, s *Session, id string) (*Task, error) {
	var resp taskResponse
	if err := c.do(ctx, http.MethodGet, taskPath(id), s, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Task, nil
}

func (c *HTTPClient) UpdateTask(ctx context.Context, s *Session, id string, patch TaskPatch) (*Task, error) {
	var resp taskResponse
	if err := c.do(ctx, http.MethodPatch, taskPath(id), s, patch, &resp); err != nil {
		return nil, err
	}
	return resp.Task, nil
}

func (c *HTTPClient) DeleteTask(ctx context.Context, s *Session, id string) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), s, nil, nil)
}

func taskPath(id string) string {
	return "/api/tasks/" + url.PathEscape(id)
}

// do sends one request. A non-nil session is required for every path except
// register and login; in is JSON encoded when non-nil and the response body
// is decoded into out when non-nil.
func (c *HTTPClient) do(ctx context.Context, method, path string, s *Session, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if s != nil {
		if !s.LoggedIn() {
			return ErrNotLoggedIn
		}
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+s.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}

	return mapStatus(resp.StatusCode, data)
}

func mapStatus(status int, data []byte) error {
	var e errorResponse
	_ = json.Unmarshal(data, &e)

	switch {
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusUnprocessableEntity:
		return &ValidationError{Message: e.Message, Fields: e.Errors}
	case status >= 500:
		return fmt.Errorf("%w: status %d", ErrUnavailable, status)
	case e.Message != "":
		return fmt.Errorf("request failed (%d): %s", status, e.Message)
	default:
		return fmt.Errorf("request failed (%d)", status)
	}
}
