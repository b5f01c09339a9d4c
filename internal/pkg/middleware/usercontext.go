package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kurasimap/KurasiMap/internal/pkg/access"
	"github.com/kurasimap/KurasiMap/internal/pkg/session"
	"github.com/kurasimap/KurasiMap/internal/pkg/usercontext"
)

// UserContext resolves the request's credentials once and publishes the
// identity plus a freshly computed premium flag to locals. Resolution is
// fail-open: any token problem leaves the caller anonymous, and handlers
// that need authentication reject that themselves.
func UserContext(resolver *session.Resolver, policy *access.Policy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := resolver.Resolve(c)
		if user == nil {
			c.Locals(usercontext.KeyUserContext, usercontext.UserContext{
				IsLoggedIn: false,
				IsAdmin:    false,
			})
			return c.Next()
		}

		c.Locals(usercontext.KeyIdentity, user)
		c.Locals(usercontext.KeyUserContext, usercontext.UserContext{
			UserID:     user.ID,
			Email:      user.Email,
			IsLoggedIn: true,
			IsAdmin:    user.IsAdmin(),
			Premium:    policy.IsPremium(user),
		})
		return c.Next()
	}
}
