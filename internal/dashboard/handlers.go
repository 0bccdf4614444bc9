package dashboard

import (
	"equitymd-backend/internal/middleware"
	"equitymd-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// SyndicatorStats GET /api/v1/dashboard/syndicator
func (h *Handlers) SyndicatorStats(c *fiber.Ctx) error {
	userID := middleware.UserIDFromSession(c)
	if userID == uuid.Nil {
		return response.Error(c, "User not found in session", 403, nil)
	}
	stats, err := h.Service.SyndicatorStats(c.Context(), userID)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Syndicator stats fetched successfully", stats, nil)
}

// InvestorStats GET /api/v1/dashboard/investor
func (h *Handlers) InvestorStats(c *fiber.Ctx) error {
	stats, err := h.Service.InvestorStats(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Investor stats fetched successfully", stats, nil)
}
