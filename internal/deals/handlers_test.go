package deals

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"equitymd-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDealsApp(t *testing.T, sessionUser map[string]interface{}) (*fiber.App, *gorm.DB) {
	db := setupDealsDB(t)
	h := &Handlers{Service: &Service{DB: db}}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if sessionUser != nil {
			c.Locals("user", sessionUser)
		}
		return c.Next()
	})
	app.Get("/api/v1/deals/active", h.GetAllActiveDeals)
	app.Get("/api/v1/deals/:deal_id", h.GetDeal)
	app.Get("/api/v1/my-deals", h.GetMyDeals)
	return app, db
}

func decodeBody(t *testing.T, r io.Reader) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(r).Decode(&body))
	return body
}

func TestGetDealHandler_Success(t *testing.T) {
	app, db := setupDealsApp(t, nil)
	deal := seedDeal(t, db, uuid.New(), models.DealStatusActive)
	require.NoError(t, db.Create(&models.DealMedia{
		DealID: deal.DealID, URL: "https://cdn.example.com/a.jpg", Position: 0,
	}).Error)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/deals/"+deal.DealID.String(), nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "Sunset Gardens", data["title"])
	assert.Len(t, data["media"], 1)
}

func TestGetDealHandler_NotFound(t *testing.T) {
	app, _ := setupDealsApp(t, nil)
	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/deals/"+uuid.NewString(), nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestGetDealHandler_BadID(t *testing.T) {
	app, _ := setupDealsApp(t, nil)
	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/deals/not-a-uuid", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	errObj := body["error"].(map[string]interface{})
	assert.Equal(t, "Invalid deal_id format", errObj["message"])
}

func TestGetAllActiveDealsHandler(t *testing.T) {
	app, db := setupDealsApp(t, nil)
	seedDeal(t, db, uuid.New(), models.DealStatusActive)
	seedDeal(t, db, uuid.New(), models.DealStatusDraft)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/deals/active", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Len(t, body["data"], 1)
}

func TestGetMyDealsHandler(t *testing.T) {
	synID := uuid.New()
	app, db := setupDealsApp(t, map[string]interface{}{
		"user_id": synID.String(),
		"role":    "syndicator",
	})
	seedDeal(t, db, synID, models.DealStatusActive)
	seedDeal(t, db, synID, models.DealStatusDraft)
	seedDeal(t, db, uuid.New(), models.DealStatusActive)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/my-deals", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	body := decodeBody(t, resp.Body)
	assert.Len(t, body["data"], 2)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/my-deals?status=draft", nil))
	require.NoError(t, err)
	body = decodeBody(t, resp.Body)
	assert.Len(t, body["data"], 1)
}

func TestGetMyDealsHandler_NoSession(t *testing.T) {
	app, _ := setupDealsApp(t, nil)
	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/my-deals", nil))
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)
}
