package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"umb_panel/internal/entities"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// ErrSessionExpired is returned when the management backend rejects the
// session's bearer credential. The session has already been cleared by the
// time callers see it.
var ErrSessionExpired = errors.New("session expired")

// APIError carries a remote error through to the operator. The remote message
// is preferred verbatim when the backend sent one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Status, e.Message)
}

// BackendClient talks to the management backend. Every authenticated call
// carries the session's bearer token; a 401 anywhere outside login fires the
// unauthorized hook (which clears the persisted session) exactly once per
// request. No automatic retries; the operator re-triggers failed calls.
type BackendClient struct {
	rest           *resty.Client
	onUnauthorized func(sess *entities.Session)
}

func NewBackendClient(baseURL string, timeout time.Duration) *BackendClient {
	rest := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &BackendClient{rest: rest}
}

// OnUnauthorized registers the session-clear hook. Login never triggers it.
func (c *BackendClient) OnUnauthorized(hook func(sess *entities.Session)) {
	c.onUnauthorized = hook
}

// envelope is the backend's uniform response shape.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

// LoginResult is what POST /auth/login yields on success.
type LoginResult struct {
	Token   string
	Profile entities.Profile
}

func (c *BackendClient) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	var data struct {
		Token string `json:"token"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	// sess is nil on purpose: a 401 here means bad credentials, not an
	// expired session, and must never clear anything.
	if err := c.do(ctx, nil, http.MethodPost, "/auth/login", body, &data); err != nil {
		return nil, err
	}
	if data.Token == "" {
		return nil, &APIError{Status: http.StatusBadGateway, Message: "login response missing token"}
	}
	return &LoginResult{
		Token: data.Token,
		Profile: entities.Profile{
			Name:  data.Name,
			Email: data.Email,
			Role:  data.Role,
		},
	}, nil
}

func (c *BackendClient) Me(ctx context.Context, sess *entities.Session) (*entities.Profile, error) {
	var profile entities.Profile
	if err := c.do(ctx, sess, http.MethodGet, "/auth/me", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *BackendClient) Get(ctx context.Context, sess *entities.Session, path string, out any) error {
	return c.do(ctx, sess, http.MethodGet, path, nil, out)
}

func (c *BackendClient) Post(ctx context.Context, sess *entities.Session, path string, body, out any) error {
	return c.do(ctx, sess, http.MethodPost, path, body, out)
}

func (c *BackendClient) Put(ctx context.Context, sess *entities.Session, path string, body, out any) error {
	return c.do(ctx, sess, http.MethodPut, path, body, out)
}

func (c *BackendClient) Delete(ctx context.Context, sess *entities.Session, path string) error {
	return c.do(ctx, sess, http.MethodDelete, path, nil, nil)
}

func (c *BackendClient) do(ctx context.Context, sess *entities.Session, method, path string, body, out any) error {
	req := c.rest.R().SetContext(ctx)
	if sess != nil {
		req.SetHeader("Authorization", "Bearer "+sess.Token)
	}
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("backend %s %s: %w", method, path, err)
	}

	switch {
	case resp.StatusCode() == http.StatusUnauthorized && sess != nil:
		logrus.WithFields(logrus.Fields{
			"path":    path,
			"session": sess.ID,
		}).Warn("backend rejected credential, clearing session")
		if c.onUnauthorized != nil {
			c.onUnauthorized(sess)
		}
		return ErrSessionExpired
	case resp.StatusCode() == http.StatusForbidden:
		logrus.WithFields(logrus.Fields{"path": path}).Warn("backend denied permission")
		return &APIError{Status: resp.StatusCode(), Message: remoteMessage(resp.Body(), "access denied")}
	case resp.IsError():
		return &APIError{Status: resp.StatusCode(), Message: remoteMessage(resp.Body(), resp.Status())}
	}

	if out == nil {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err == nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode backend response data: %w", err)
		}
		return nil
	}
	// Some endpoints (e.g. /auth/me) reply without the data envelope.
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode backend response: %w", err)
	}
	return nil
}

// remoteMessage extracts a human-readable error from a backend body,
// preferring the remote wording verbatim.
func remoteMessage(body []byte, fallback string) string {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil {
		if env.Message != "" {
			return env.Message
		}
		if env.Error != "" {
			return env.Error
		}
	}
	if msg := strings.TrimSpace(string(body)); msg != "" && len(msg) < 512 {
		return msg
	}
	return fallback
}
