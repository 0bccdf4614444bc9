package deals

import (
	"errors"

	"equitymd-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// actorUserID pulls the logged-in user's id out of the session.
func actorUserID(c *fiber.Ctx) (uuid.UUID, error) {
	id := middleware.UserIDFromSession(c)
	if id == uuid.Nil {
		return uuid.Nil, errors.New("User not found in session")
	}
	return id, nil
}
