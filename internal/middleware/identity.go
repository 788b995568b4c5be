package middleware

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/pydays-api/internal/utils"
)

// UserIDHeader carries the caller's user id, set by the upstream gateway.
const UserIDHeader = "X-User-ID"

// UserIdentity binds the numeric user id from UserIDHeader to the request.
// Requests without a valid id continue anonymously.
func UserIdentity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := strings.TrimSpace(c.Get(UserIDHeader))
		if raw == "" {
			return c.Next()
		}
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || id == 0 {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid user id header")
		}
		c.Locals("user_id", uint(id))
		return c.Next()
	}
}

// RequireUser rejects anonymous requests.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := c.Locals("user_id").(uint); !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}
		return c.Next()
	}
}
