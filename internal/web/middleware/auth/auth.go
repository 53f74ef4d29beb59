package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	coreauth "github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/auth"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/web/handler"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/web/session"
)

// sessionLocalsKey is the fiber.Locals key holding the session data.
const sessionLocalsKey = "sessionData"

// publicPaths are reachable without a session.
var publicPaths = []string{
	"/login",
	"/register",
	"/healthz",
	"/metrics",
}

// Middleware is a Fiber middleware that checks for user authentication.
func Middleware(c *fiber.Ctx) error {
	originalURL := strings.ToLower(c.OriginalURL())
	for _, p := range publicPaths {
		if strings.HasPrefix(originalURL, p) {
			return c.Next()
		}
	}

	// get session cookie
	loginCookie := c.Cookies(session.CookieName)
	if loginCookie == "" {
		return handler.Fail(c, fiber.StatusUnauthorized, "authentication required")
	}

	// check session validity
	sessData := new(session.Data)
	if err := sessData.Read(loginCookie); err != nil {
		return handler.Fail(c, fiber.StatusUnauthorized, "authentication required")
	}

	if sessData.User.ID == 0 {
		return handler.Fail(c, fiber.StatusUnauthorized, "authentication required")
	}

	c.Locals(sessionLocalsKey, sessData)

	return c.Next()
}

// CurrentSession returns the session data stored by Middleware, or nil on an
// unauthenticated request.
func CurrentSession(c *fiber.Ctx) *session.Data {
	sessData, ok := c.Locals(sessionLocalsKey).(*session.Data)
	if !ok {
		return nil
	}

	return sessData
}

// RequirePermission returns a middleware that rejects requests whose user
// lacks the given permission.
func RequirePermission(action coreauth.Action, resource coreauth.Resource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessData := CurrentSession(c)
		if sessData == nil {
			return handler.Fail(c, fiber.StatusUnauthorized, "authentication required")
		}

		if !coreauth.HasPermission(sessData.Role(), action, resource) {
			return handler.Fail(c, fiber.StatusForbidden, "insufficient permissions")
		}

		return c.Next()
	}
}
