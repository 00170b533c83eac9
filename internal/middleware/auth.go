package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/halcyonchat/halcyon-backend/internal/auth"
	"github.com/halcyonchat/halcyon-backend/internal/httpx"
)

// AuthRequired validates the bearer credential and stores the authenticated
// identity on the request context. The websocket handshake cannot set custom
// headers, so the token is also accepted as a query parameter there.
func AuthRequired(authenticator *auth.Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var tokenString string
		if authHeader := c.Get("Authorization"); authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return httpx.Unauthorized(c, "Invalid authorization format")
			}
			tokenString = parts[1]
		} else {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			return httpx.Unauthorized(c, "Missing access token")
		}

		claims, err := authenticator.VerifyToken(tokenString)
		if err != nil {
			return httpx.Unauthorized(c, "Invalid or expired token")
		}

		c.Locals("userID", claims.UserID)
		c.Locals("username", claims.Username)

		return c.Next()
	}
}
