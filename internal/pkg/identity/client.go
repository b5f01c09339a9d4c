package identity

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

	"github.com/kurasimap/KurasiMap/internal/pkg/env"
)

// ErrNotConfigured signals that no identity provider credentials are set.
// Auth endpoints translate this into 503; the session resolver treats every
// caller as anonymous.
var ErrNotConfigured = errors.New("identity: AUTH_URL/AUTH_API_KEY not configured")

// AuthError is a rejection from the identity provider (bad credentials,
// expired token, duplicate signup).
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("identity provider rejected request: status=%d message=%s", e.StatusCode, e.Message)
}

// User is the provider-side identity. Role lives either in the top-level
// role field or in user_metadata; use IsAdmin instead of poking the map.
type User struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	Role         string                 `json:"role,omitempty"`
	UserMetadata map[string]interface{} `json:"user_metadata,omitempty"`
	AppMetadata  map[string]interface{} `json:"app_metadata,omitempty"`
	CreatedAt    string                 `json:"created_at,omitempty"`
	LastSignInAt string                 `json:"last_sign_in_at,omitempty"`
}

// IsAdmin reports whether the identity carries the admin role.
func (u *User) IsAdmin() bool {
	if u == nil {
		return false
	}
	if strings.EqualFold(strings.TrimSpace(u.Role), "admin") {
		return true
	}
	if u.UserMetadata != nil {
		if role, ok := u.UserMetadata["role"].(string); ok {
			return strings.EqualFold(strings.TrimSpace(role), "admin")
		}
	}
	return false
}

// Session is the token bundle issued by the provider on login/refresh.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user,omitempty"`
}

// Client talks to a GoTrue-style identity provider REST API. It only ever
// forwards opaque tokens; verification happens provider-side.
type Client struct {
	BaseURL string
	APIKey  string

	HTTPClient *http.Client
}

// NewClientFromEnv builds a client from AUTH_URL / AUTH_API_KEY. The client
// is returned even when unconfigured; calls then fail with ErrNotConfigured.
func NewClientFromEnv() *Client {
	return &Client{
		BaseURL: strings.TrimRight(strings.TrimSpace(env.GetEnv("AUTH_URL", "")), "/"),
		APIKey:  strings.TrimSpace(env.GetEnv("AUTH_API_KEY", "")),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// IsConfigured reports whether provider credentials are present.
func (c *Client) IsConfigured() bool {
	return c != nil && c.BaseURL != "" && c.APIKey != ""
}

// SignInWithPassword exchanges email/password credentials for a session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	payload := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/token?grant_type=password", "", payload, &session); err != nil {
		return nil, err
	}
	if strings.TrimSpace(session.AccessToken) == "" {
		return nil, errors.New("identity: sign-in returned empty access_token")
	}
	return &session, nil
}

// RefreshSession exchanges a refresh token for a fresh session.
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	var session Session
	payload := map[string]string{"refresh_token": refreshToken}
	if err := c.do(ctx, http.MethodPost, "/token?grant_type=refresh_token", "", payload, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// SignUp registers a new user. Metadata is stored provider-side and comes
// back as user_metadata on resolved identities.
func (c *Client) SignUp(ctx context.Context, email, password string, metadata map[string]interface{}) (*User, error) {
	var user User
	payload := map[string]interface{}{
		"email":    email,
		"password": password,
	}
	if len(metadata) > 0 {
		payload["data"] = metadata
	}
	if err := c.do(ctx, http.MethodPost, "/signup", "", payload, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUser resolves an opaque access token to its identity.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	if strings.TrimSpace(accessToken) == "" {
		return nil, errors.New("identity: access token is required")
	}
	var user User
	if err := c.do(ctx, http.MethodGet, "/user", accessToken, nil, &user); err != nil {
		return nil, err
	}
	if strings.TrimSpace(user.ID) == "" {
		return nil, errors.New("identity: user response missing id")
	}
	return &user, nil
}

// SignOut revokes the session behind the token. Best-effort on the caller
// side; an error here never blocks logout.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/logout", accessToken, nil, nil)
}

// SendPasswordReset asks the provider to mail a reset link.
func (c *Client) SendPasswordReset(ctx context.Context, email string) error {
	payload := map[string]string{"email": email}
	return c.do(ctx, http.MethodPost, "/recover", "", payload, nil)
}

func (c *Client) do(ctx context.Context, method, path, token string, payload, out interface{}) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", c.APIKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &AuthError{StatusCode: resp.StatusCode, Message: extractErrorMessage(raw)}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return err
		}
	}
	return nil
}

// extractErrorMessage pulls a human-readable detail out of the provider's
// error body, which uses different keys per endpoint.
func extractErrorMessage(raw []byte) string {
	var parsed struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return strings.TrimSpace(string(raw))
	}
	for _, m := range []string{parsed.Msg, parsed.Message, parsed.ErrorDescription, parsed.Error} {
		if strings.TrimSpace(m) != "" {
			return strings.TrimSpace(m)
		}
	}
	return strings.TrimSpace(string(raw))
}
