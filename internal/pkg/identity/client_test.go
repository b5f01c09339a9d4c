package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(srv *httptest.Server) *Client {
	return &Client{BaseURL: srv.URL, APIKey: "test-key", HTTPClient: srv.Client()}
}

func TestSignInWithPassword(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "test-key", r.Header.Get("apikey"))

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))

		if payload["password"] != "correct" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
			return
		}

		json.NewEncoder(w).Encode(Session{
			AccessToken:  "access-abc",
			TokenType:    "bearer",
			ExpiresIn:    3600,
			RefreshToken: "refresh-abc",
			User:         &User{ID: "user-1", Email: payload["email"]},
		})
	}))
	defer srv.Close()

	client := newTestClient(srv)

	t.Run("success", func(t *testing.T) {
		sess, err := client.SignInWithPassword(context.Background(), "u@example.com", "correct")
		require.NoError(t, err)
		assert.Equal(t, "access-abc", sess.AccessToken)
		require.NotNil(t, sess.User)
		assert.Equal(t, "user-1", sess.User.ID)
	})

	t.Run("bad credentials", func(t *testing.T) {
		_, err := client.SignInWithPassword(context.Background(), "u@example.com", "wrong")
		var authErr *AuthError
		require.ErrorAs(t, err, &authErr)
		assert.Equal(t, http.StatusBadRequest, authErr.StatusCode)
		assert.Equal(t, "Invalid login credentials", authErr.Message)
	})
}

func TestGetUser(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user", r.URL.Path)
		switch r.Header.Get("Authorization") {
		case "Bearer good":
			json.NewEncoder(w).Encode(User{ID: "user-1", Email: "u@example.com", Role: "authenticated"})
		case "Bearer empty":
			w.Write([]byte(`{}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"msg":"invalid JWT"}`))
		}
	}))
	defer srv.Close()

	client := newTestClient(srv)

	t.Run("resolves identity", func(t *testing.T) {
		user, err := client.GetUser(context.Background(), "good")
		require.NoError(t, err)
		assert.Equal(t, "user-1", user.ID)
	})

	t.Run("rejected token", func(t *testing.T) {
		_, err := client.GetUser(context.Background(), "bad")
		var authErr *AuthError
		require.ErrorAs(t, err, &authErr)
		assert.Equal(t, "invalid JWT", authErr.Message)
	})

	t.Run("response without id", func(t *testing.T) {
		_, err := client.GetUser(context.Background(), "empty")
		assert.Error(t, err)
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := client.GetUser(context.Background(), " ")
		assert.Error(t, err)
	})
}

func TestSignUpSendsMetadata(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/signup", r.URL.Path)

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		data, ok := payload["data"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "Jane Tester", data["full_name"])

		json.NewEncoder(w).Encode(User{ID: "user-new", Email: payload["email"].(string)})
	}))
	defer srv.Close()

	client := newTestClient(srv)
	user, err := client.SignUp(context.Background(), "new@example.com", "secret123", map[string]interface{}{"full_name": "Jane Tester"})
	require.NoError(t, err)
	assert.Equal(t, "user-new", user.ID)
}

func TestUnconfiguredClient(t *testing.T) {
	t.Parallel()

	client := &Client{HTTPClient: http.DefaultClient}
	assert.False(t, client.IsConfigured())

	_, err := client.SignInWithPassword(context.Background(), "u@example.com", "pw")
	assert.ErrorIs(t, err, ErrNotConfigured)

	err = client.SendPasswordReset(context.Background(), "u@example.com")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestIsAdmin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		user *User
		want bool
	}{
		{"nil user", nil, false},
		{"top-level role", &User{Role: "admin"}, true},
		{"mixed case role", &User{Role: "Admin"}, true},
		{"metadata role", &User{UserMetadata: map[string]interface{}{"role": "admin"}}, true},
		{"plain user", &User{Role: "authenticated"}, false},
		{"non-string metadata role", &User{UserMetadata: map[string]interface{}{"role": 1}}, false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.user.IsAdmin())
		})
	}
}
