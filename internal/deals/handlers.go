package deals

import (
	"equitymd-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// GetDeal GET /api/v1/deals/:deal_id
func (h *Handlers) GetDeal(c *fiber.Ctx) error {
	idStr := c.Params("deal_id")
	if idStr == "" {
		return response.Error(c, "deal_id is required", 400, nil)
	}
	dealID, err := uuid.Parse(idStr)
	if err != nil {
		return response.Error(c, "Invalid deal_id format", 400, nil)
	}
	deal, err := h.Service.GetDeal(c.Context(), dealID)
	if err != nil {
		if err.Error() == "Deal not found" {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Deal fetched successfully", deal, nil)
}

// GetAllActiveDeals GET /api/v1/deals/active
func (h *Handlers) GetAllActiveDeals(c *fiber.Ctx) error {
	data, err := h.Service.GetAllActiveDeals(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Active deals fetched successfully", data, nil)
}

// GetMyDeals GET /api/v1/my-deals?status=draft|active|closed
func (h *Handlers) GetMyDeals(c *fiber.Ctx) error {
	syndicatorID, err := actorUserID(c)
	if err != nil {
		return response.Error(c, err.Error(), 403, nil)
	}
	status := c.Query("status")
	data, err := h.Service.GetSyndicatorDeals(c.Context(), syndicatorID, status)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Deals fetched successfully", data, nil)
}
