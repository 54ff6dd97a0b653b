package middleware

import (
	"strings"

	"github.com/gabojait/gabojait-spring-sub005/internal/transport/http/dto"

	"github.com/gofiber/fiber/v2"
)

const userIDKey = "user_id"

// TokenParser resolves a bearer token to a user id.
type TokenParser interface {
	Parse(token string) (int64, error)
}

// Auth rejects requests without a valid bearer token and stores the caller id in locals.
func Auth(tokens TokenParser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return unauthorized(c, "missing bearer token")
		}

		uid, err := tokens.Parse(strings.TrimSpace(token))
		if err != nil {
			return unauthorized(c, "invalid or expired token")
		}

		c.Locals(userIDKey, uid)
		return c.Next()
	}
}

// UserID returns the authenticated caller.
func UserID(c *fiber.Ctx) (int64, bool) {
	uid, ok := c.Locals(userIDKey).(int64)
	return uid, ok && uid > 0
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: dto.ErrorBody{Code: dto.Unauthorized, Message: msg},
	})
}
