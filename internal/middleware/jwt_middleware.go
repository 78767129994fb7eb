package middleware

import (
	"strings"

	"aura/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by the middleware for downstream handlers.
const (
	PrincipalKey    = "principal"
	RefreshTokenKey = "refreshToken"
)

// RefreshCookieName is the http-only cookie carrying the refresh token.
const RefreshCookieName = "refreshToken"

// AccessTokenRequired gates a route behind a valid bearer access token.
// No token is unauthenticated (401); a bad signature or expired token is
// forbidden (403); success attaches the decoded principal to the context.
func AccessTokenRequired(tokenSvc *services.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		principal, err := tokenSvc.DecodeAccessToken(parts[1])
		if err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		c.Locals(PrincipalKey, principal)
		return c.Next()
	}
}

// RefreshTokenRequired gates a route behind a valid refresh-token cookie,
// with the same 401/403 tri-state as the access check. The raw token is also
// attached so handlers can check the stored row.
func RefreshTokenRequired(tokenSvc *services.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cookie := c.Cookies(RefreshCookieName)
		if cookie == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Refresh token is required",
			})
		}

		principal, err := tokenSvc.DecodeRefreshToken(cookie)
		if err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Invalid or expired refresh token",
			})
		}

		c.Locals(PrincipalKey, principal)
		c.Locals(RefreshTokenKey, cookie)
		return c.Next()
	}
}
