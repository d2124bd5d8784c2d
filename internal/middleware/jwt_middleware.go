package middleware

import (
	"strings"

	"warung/internal/services"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie is the cookie carrying the admin session token.
const SessionCookie = "warung_session"

// AuthRequired is a Fiber middleware guarding the admin pages. The token
// comes from the session cookie or, for non-browser clients, a bearer
// Authorization header. Browsers get redirected to the login page.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(SessionCookie)
		if tokenString == "" {
			authHeader := c.Get("Authorization")
			if parts := strings.SplitN(authHeader, " ", 2); len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
		if tokenString == "" {
			return unauthorized(c)
		}

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			return unauthorized(c)
		}

		c.Locals("username", claims["username"])
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx) error {
	if strings.Contains(c.Get("Accept"), "text/html") || c.Get("Accept") == "" {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": "Invalid or missing session token",
	})
}
