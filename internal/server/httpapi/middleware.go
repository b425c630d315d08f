package httpapi

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/nexcart/authd/internal/server/auth"
)

const userIDKey = "userID"

// authenticate is the gate in front of every protected route. A missing
// bearer token is a 403, a bad or expired one a 401; on success the subject
// id is stored in the request locals for the handlers. Token contents are
// never logged.
func (s *HTTPServer) authenticate(c *fiber.Ctx) error {

	var token string
	if parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2); len(parts) == 2 {
		token = parts[1]
	}

	if token == "" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "No token provided"})
	}

	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid or expired token"})
	}

	// authenticated responses must never be cached
	c.Set(fiber.HeaderCacheControl, "no-store")

	c.Locals(userIDKey, userID)
	return c.Next()
}

func subjectID(c *fiber.Ctx) string {
	id, _ := c.Locals(userIDKey).(string)
	return id
}
