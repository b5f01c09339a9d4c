package session

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurasimap/KurasiMap/internal/pkg/constants"
	"github.com/kurasimap/KurasiMap/internal/pkg/identity"
)

func extractToken(t *testing.T, modify func(req *http.Request)) string {
	t.Helper()

	var got string
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		got = TokenFromRequest(c)
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	modify(req)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	return got
}

func TestTokenFromRequest(t *testing.T) {
	t.Parallel()

	t.Run("cookie wins over header", func(t *testing.T) {
		t.Parallel()
		got := extractToken(t, func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: constants.AccessTokenCookie, Value: "cookie-token"})
			req.Header.Set("Authorization", "Bearer header-token")
		})
		assert.Equal(t, "cookie-token", got)
	})

	t.Run("bearer header fallback", func(t *testing.T) {
		t.Parallel()
		got := extractToken(t, func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer header-token")
		})
		assert.Equal(t, "header-token", got)
	})

	t.Run("bearer prefix is case-insensitive", func(t *testing.T) {
		t.Parallel()
		got := extractToken(t, func(req *http.Request) {
			req.Header.Set("Authorization", "bearer header-token")
		})
		assert.Equal(t, "header-token", got)
	})

	t.Run("non-bearer scheme is ignored", func(t *testing.T) {
		t.Parallel()
		got := extractToken(t, func(req *http.Request) {
			req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		})
		assert.Empty(t, got)
	})

	t.Run("anonymous request", func(t *testing.T) {
		t.Parallel()
		got := extractToken(t, func(req *http.Request) {})
		assert.Empty(t, got)
	})
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func resolveWith(t *testing.T, resolver *Resolver, token string) *identity.User {
	t.Helper()

	var got *identity.User
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		got = resolver.Resolve(c)
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	return got
}

func TestResolve(t *testing.T) {
	t.Parallel()

	var providerCalls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&providerCalls, 1)
		if r.Header.Get("Authorization") == "Bearer "+signedStaticToken {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(identity.User{ID: "user-1", Email: "u@example.com"})
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"msg":"invalid token"}`))
	}))
	defer srv.Close()

	provider := &identity.Client{BaseURL: srv.URL, APIKey: "test-key", HTTPClient: srv.Client()}
	resolver := NewResolver(provider)

	t.Run("anonymous without token", func(t *testing.T) {
		assert.Nil(t, resolveWith(t, resolver, ""))
	})

	t.Run("valid token resolves", func(t *testing.T) {
		user := resolveWith(t, resolver, signedStaticToken)
		require.NotNil(t, user)
		assert.Equal(t, "user-1", user.ID)
	})

	t.Run("rejected token degrades to anonymous", func(t *testing.T) {
		assert.Nil(t, resolveWith(t, resolver, signedToken(t, time.Now().Add(time.Hour))))
	})

	t.Run("expired token skips the provider", func(t *testing.T) {
		before := atomic.LoadInt64(&providerCalls)
		assert.Nil(t, resolveWith(t, resolver, signedToken(t, time.Now().Add(-time.Hour))))
		assert.Equal(t, before, atomic.LoadInt64(&providerCalls))
	})

	t.Run("unconfigured provider is always anonymous", func(t *testing.T) {
		unconfigured := NewResolver(&identity.Client{HTTPClient: http.DefaultClient})
		assert.Nil(t, resolveWith(t, unconfigured, signedStaticToken))
	})
}

// signedStaticToken is a fixed non-expired token shared between the fake
// provider and the happy-path cases.
var signedStaticToken = func() string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	})
	signed, _ := token.SignedString([]byte("static-secret"))
	return signed
}()
