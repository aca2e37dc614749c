// Package client talks to the taskboard HTTP API. The session cookie is
// held in the client's cookie jar and attached to every request; callers
// never handle tokens directly.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/szahir/taskboard/internal/board"
	"github.com/szahir/taskboard/internal/model"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) (*Client, error) {
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Jar:     jar,
			Timeout: 15 * time.Second,
		},
	}, nil
}

// User is the API's public view of an account.
type User struct {
	ID                string `json:"id"`
	FirstName         string `json:"firstname"`
	LastName          string `json:"lastname"`
	Email             string `json:"email"`
	ProfilePictureURL string `json:"profilePictureUrl,omitempty"`
}

type SignupParams struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type LoginParams struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type GoogleParams struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	GooglePhotoURL string `json:"googlePhotoUrl"`
}

// --- Auth ---

func (c *Client) Signup(ctx context.Context, params SignupParams) (User, error) {
	var user User
	err := c.do(ctx, http.MethodPost, "/api/v1/user/signup", params, &user)
	return user, err
}

func (c *Client) Login(ctx context.Context, params LoginParams) (User, error) {
	var user User
	err := c.do(ctx, http.MethodPost, "/api/v1/user/login", params, &user)
	return user, err
}

func (c *Client) GoogleLogin(ctx context.Context, params GoogleParams) (User, error) {
	var user User
	err := c.do(ctx, http.MethodPost, "/api/v1/user/google", params, &user)
	return user, err
}

// Logout clears the session server-side; the cleared cookie overwrites the
// jarred one.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/v1/user/logout", nil, nil)
}

// --- Tasks (board.Store) ---

func (c *Client) List(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := c.do(ctx, http.MethodGet, "/api/v1/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) Create(ctx context.Context, task model.Task) (model.Task, error) {
	var created model.Task
	err := c.do(ctx, http.MethodPost, "/api/v1/tasks", taskPayload(task), &created)
	return created, err
}

func (c *Client) Replace(ctx context.Context, task model.Task) (model.Task, error) {
	var replaced model.Task
	err := c.do(ctx, http.MethodPut, "/api/v1/tasks/"+url.PathEscape(task.ID), taskPayload(task), &replaced)
	return replaced, err
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/tasks/"+url.PathEscape(id), nil, nil)
}

var _ board.Store = (*Client)(nil)

type taskBody struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"dueDate,omitempty"`
}

// taskPayload builds the request body for create and replace; identity and
// store-assigned timestamps are never client-supplied.
func taskPayload(task model.Task) taskBody {
	body := taskBody{
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Priority:    string(task.Priority),
	}
	if task.DueDate != nil {
		due := task.DueDate.Format(time.RFC3339)
		body.DueDate = &due
	}
	return body
}

type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", board.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return statusError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: malformed response: %v", board.ErrUnavailable, err)
	}
	return nil
}

// statusError maps an error response onto the board's error taxonomy.
func statusError(resp *http.Response) error {
	var body apiError
	message := resp.Status
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error.Message != "" {
		message = body.Error.Message
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", board.ErrAuth, message)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", board.ErrNotFound, message)
	case resp.StatusCode == http.StatusBadRequest && body.Error.Code == "EMAIL_TAKEN":
		return fmt.Errorf("%w: %s", board.ErrEmailTaken, message)
	case resp.StatusCode == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", board.ErrInvalid, message)
	default:
		return fmt.Errorf("%w: %s", board.ErrUnavailable, message)
	}
}
