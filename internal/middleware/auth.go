package middleware

import (
	"equitymd-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const userLocal = "user"

// RequireAuth ensures a user is in the session. 401 with the standard error
// format if not.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := c.Locals(userLocal)
		if user == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		c.Locals("auth", user)
		return c.Next()
	}
}

// RequireRole gates a route to one or more roles. Syndicator-only surfaces
// (the listing wizard, syndicator dashboard) use this on top of RequireAuth.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := GetUser(c)
		if user == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		role := RoleFromUser(user)
		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}
		return response.Error(c, "User is Forbidden from performing this action", fiber.StatusForbidden, nil)
	}
}

// GetUser returns the session user from Locals (nil if not logged in).
func GetUser(c *fiber.Ctx) interface{} {
	return c.Locals(userLocal)
}

// RoleFromUser extracts the role from the session user map.
func RoleFromUser(user interface{}) string {
	m, ok := user.(map[string]interface{})
	if !ok {
		return ""
	}
	r, _ := m["role"].(string)
	return r
}

// UserIDFromSession extracts and parses the session user's id. uuid.Nil when
// not logged in or malformed.
func UserIDFromSession(c *fiber.Ctx) uuid.UUID {
	m, ok := GetUser(c).(map[string]interface{})
	if !ok {
		return uuid.Nil
	}
	s, _ := m["user_id"].(string)
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}
