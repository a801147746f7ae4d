package middleware

import (
	"log"
	"strings"

	"devtinder/internal/models"
	"devtinder/internal/services"

	"github.com/gofiber/fiber/v2"
)

// TokenCookie is the name of the session cookie set at login.
const TokenCookie = "token"

const userKey = "user"

// TokenFromRequest returns the session token from the cookie, or from a
// "Bearer <token>" Authorization header.
func TokenFromRequest(c *fiber.Ctx) string {
	if token := c.Cookies(TokenCookie); token != "" {
		return token
	}
	parts := strings.SplitN(c.Get("Authorization"), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// AuthRequired is a Fiber middleware that rejects requests without a valid session and
// stores the authenticated user for subsequent handlers.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := TokenFromRequest(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   services.ErrUnauthenticated.Code,
				"message": "Please login",
			})
		}

		user, err := authService.Authenticate(c.UserContext(), token)
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			status := fiber.StatusUnauthorized
			code, message := services.ErrUnauthenticated.Code, "Invalid or expired token"
			if svcErr, ok := err.(*services.Error); ok {
				code, message = svcErr.Code, svcErr.Message
				if svcErr.Kind == services.KindInternal {
					status = fiber.StatusInternalServerError
				}
			}
			return c.Status(status).JSON(fiber.Map{
				"error":   code,
				"message": message,
			})
		}

		c.Locals(userKey, user)
		return c.Next()
	}
}

// SoftAuth stores the user when a valid session is present and never rejects the request.
func SoftAuth(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := TokenFromRequest(c); token != "" {
			if user, err := authService.Authenticate(c.UserContext(), token); err == nil {
				c.Locals(userKey, user)
			}
		}
		return c.Next()
	}
}

// CurrentUser returns the user stored by AuthRequired or SoftAuth, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}
