package controllers

import (
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/kurasimap/KurasiMap/app/models"
	"github.com/kurasimap/KurasiMap/internal/pkg/constants"
	"github.com/kurasimap/KurasiMap/internal/pkg/gateway"
	"github.com/kurasimap/KurasiMap/internal/pkg/identity"
	"github.com/kurasimap/KurasiMap/internal/pkg/session"
	"github.com/kurasimap/KurasiMap/internal/pkg/usercontext"
)

// AuthController proxies credential flows to the identity provider and keeps
// the login audit trail. It never verifies tokens itself.
type AuthController struct {
	provider *identity.Client
	gw       *gateway.Gateway
	validate *validator.Validate
}

func NewAuthController(provider *identity.Client, gw *gateway.Gateway) *AuthController {
	return &AuthController{
		provider: provider,
		gw:       gw,
		validate: validator.New(),
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Remember bool   `json:"remember"`
}

type signupRequest struct {
	Email        string                 `json:"email" validate:"required,email"`
	Password     string                 `json:"password" validate:"required,min=6"`
	FullName     string                 `json:"full_name" validate:"max=150"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type resetPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// HandleLogin exchanges email/password for a provider session. Every attempt
// is audited, success and failure alike; audit bookkeeping never blocks the
// login flow itself.
func (ac *AuthController) HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if err := ac.validate.Struct(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "validation_failed", "Email and password are required")
	}

	sess, err := ac.provider.SignInWithPassword(c.UserContext(), req.Email, req.Password)
	if err != nil {
		ac.gw.LogLoginActivity(&models.LoginActivity{
			Email:       req.Email,
			IPAddress:   GetClientIP(c),
			UserAgent:   c.Get(fiber.HeaderUserAgent),
			LoginStatus: models.LOGIN_STATUS_FAILED,
		})

		if errors.Is(err, identity.ErrNotConfigured) {
			return respondError(c, fiber.StatusServiceUnavailable, "auth_unavailable", "Authentication is not available right now")
		}
		var authErr *identity.AuthError
		if errors.As(err, &authErr) {
			return respondError(c, fiber.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
		}
		log.Printf("auth: login failed for %s: %v", req.Email, err)
		return respondError(c, fiber.StatusInternalServerError, "internal_server_error", "Login failed")
	}

	userID := ""
	if sess.User != nil {
		userID = sess.User.ID
	}
	ac.gw.LogLoginActivity(&models.LoginActivity{
		UserID:      userID,
		Email:       req.Email,
		IPAddress:   GetClientIP(c),
		UserAgent:   c.Get(fiber.HeaderUserAgent),
		LoginStatus: models.LOGIN_STATUS_SUCCESS,
	})

	// The cookie is only set for remembered sessions; other clients carry
	// the token themselves via the Authorization header.
	if req.Remember {
		setSessionCookie(c, sess.AccessToken)
	}

	return c.JSON(fiber.Map{
		"access_token":  sess.AccessToken,
		"token_type":    sess.TokenType,
		"expires_in":    sess.ExpiresIn,
		"refresh_token": sess.RefreshToken,
		"user":          sess.User,
	})
}

// HandleSignup registers a new account with the provider.
func (ac *AuthController) HandleSignup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if err := ac.validate.Struct(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "validation_failed", "Email and a password of at least 6 characters are required")
	}

	metadata := map[string]interface{}{}
	for k, v := range req.UserMetadata {
		metadata[k] = v
	}
	if req.FullName != "" {
		metadata["full_name"] = req.FullName
	}

	user, err := ac.provider.SignUp(c.UserContext(), req.Email, req.Password, metadata)
	if err != nil {
		if errors.Is(err, identity.ErrNotConfigured) {
			return respondError(c, fiber.StatusServiceUnavailable, "auth_unavailable", "Registration is not available right now")
		}
		var authErr *identity.AuthError
		if errors.As(err, &authErr) {
			return respondError(c, fiber.StatusBadRequest, "signup_rejected", authErr.Message)
		}
		log.Printf("auth: signup failed for %s: %v", req.Email, err)
		return respondError(c, fiber.StatusInternalServerError, "internal_server_error", "Registration failed")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registration successful",
		"user_id": user.ID,
	})
}

// HandleLogout clears the session cookie and revokes the token provider-side.
// The cookie is cleared even when revocation fails so the client always ends
// up logged out.
func (ac *AuthController) HandleLogout(c *fiber.Ctx) error {
	token := session.TokenFromRequest(c)
	clearSessionCookie(c)

	if token != "" {
		if err := ac.provider.SignOut(c.UserContext(), token); err != nil {
			log.Printf("auth: provider sign-out failed: %v", err)
		}
	}

	return c.JSON(fiber.Map{"message": "Logged out"})
}

// HandleRefresh exchanges a refresh token for a new session.
func (ac *AuthController) HandleRefresh(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if err := ac.validate.Struct(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "validation_failed", "refresh_token is required")
	}

	sess, err := ac.provider.RefreshSession(c.UserContext(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, identity.ErrNotConfigured) {
			return respondError(c, fiber.StatusServiceUnavailable, "auth_unavailable", "Authentication is not available right now")
		}
		var authErr *identity.AuthError
		if errors.As(err, &authErr) {
			return respondError(c, fiber.StatusUnauthorized, "invalid_refresh_token", "Refresh token is invalid or expired")
		}
		log.Printf("auth: refresh failed: %v", err)
		return respondError(c, fiber.StatusInternalServerError, "internal_server_error", "Token refresh failed")
	}

	// Refresh the remembered-session cookie only when the client had one.
	if c.Cookies(constants.AccessTokenCookie) != "" {
		setSessionCookie(c, sess.AccessToken)
	}

	return c.JSON(fiber.Map{
		"access_token":  sess.AccessToken,
		"token_type":    sess.TokenType,
		"expires_in":    sess.ExpiresIn,
		"refresh_token": sess.RefreshToken,
		"user":          sess.User,
	})
}

// HandleResetPassword asks the provider to send a reset mail. The response
// does not reveal whether the address exists.
func (ac *AuthController) HandleResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if err := ac.validate.Struct(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "validation_failed", "A valid email is required")
	}

	if err := ac.provider.SendPasswordReset(c.UserContext(), req.Email); err != nil {
		if errors.Is(err, identity.ErrNotConfigured) {
			return respondError(c, fiber.StatusServiceUnavailable, "auth_unavailable", "Password reset is not available right now")
		}
		log.Printf("auth: password reset failed for %s: %v", req.Email, err)
	}

	return c.JSON(fiber.Map{"message": "If the address exists, a reset link has been sent"})
}

// HandleGetUser returns the resolved identity for the current session.
func (ac *AuthController) HandleGetUser(c *fiber.Ctx) error {
	user := usercontext.GetIdentity(c)
	if user == nil {
		return respondError(c, fiber.StatusUnauthorized, "unauthorized", "Not authenticated")
	}
	return c.JSON(user)
}

func setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     constants.AccessTokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(30 * 24 * time.Hour),
		HTTPOnly: true,
		Secure:   c.Protocol() == "https",
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     constants.AccessTokenCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
