package session

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/kurasimap/KurasiMap/internal/pkg/constants"
	"github.com/kurasimap/KurasiMap/internal/pkg/identity"
)

// Resolver turns request credentials into an identity, or nil for anonymous
// callers. Invalid or rejected tokens degrade to anonymous rather than
// erroring; handlers that require authentication must reject nil themselves.
type Resolver struct {
	provider *identity.Client
}

// NewResolver creates a resolver backed by the given identity provider client.
func NewResolver(provider *identity.Client) *Resolver {
	return &Resolver{provider: provider}
}

// Resolve extracts the request token and verifies it with the provider.
// The cookie token wins over the Authorization header so that server-set
// "remembered" sessions are not overridden by stale client headers.
func (r *Resolver) Resolve(c *fiber.Ctx) *identity.User {
	token := TokenFromRequest(c)
	if token == "" {
		return nil
	}
	if r.provider == nil || !r.provider.IsConfigured() {
		return nil
	}

	// Skip the provider round-trip for tokens that are visibly expired.
	// The signature is still only ever verified provider-side.
	if isExpired(token) {
		return nil
	}

	user, err := r.provider.GetUser(c.UserContext(), token)
	if err != nil {
		return nil
	}
	return user
}

// TokenFromRequest returns the access token carried by the request, cookie
// first, then bearer header. Empty when the caller is anonymous.
func TokenFromRequest(c *fiber.Ctx) string {
	if token := strings.TrimSpace(c.Cookies(constants.AccessTokenCookie)); token != "" {
		return token
	}
	auth := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

// isExpired parses the JWT exp claim without verifying the signature. A
// token that cannot be parsed is not treated as expired here; the provider
// gets the final word and rejects it anyway.
func isExpired(token string) bool {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
