package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/expresCocina/Italia-atalear/internal/web/handler"
	"github.com/expresCocina/Italia-atalear/internal/web/session"
)

// AdminPathPrefix is the URL prefix of routes that require a valid session.
const AdminPathPrefix = "/api/admin"

// ErrUnauthorized is returned when a protected route is hit without a valid session.
var ErrUnauthorized = errors.New("authentication required")

// Middleware is a Fiber middleware that checks for user authentication.
//
// It loads the current user into fiber.Locals for every request carrying a
// valid session cookie, and rejects requests to admin routes without one.
func Middleware(c *fiber.Ctx) error {
	sessionID := c.Cookies(handler.SessionCookieName)

	if sessionID != "" {
		sessData := new(session.Data)
		if err := sessData.Read(sessionID); err == nil && sessData.User.ID > 0 {
			c.Locals(handler.CurrentUserLocal, sessData.User)

			return c.Next()
		}
	}

	// no valid session past this point
	if IsAdminPath(c) {
		return handler.Fail(c, fiber.StatusUnauthorized, ErrUnauthorized)
	}

	return c.Next()
}

// IsAdminPath checks if the current request targets a protected admin route.
func IsAdminPath(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(c.Path()), AdminPathPrefix)
}
