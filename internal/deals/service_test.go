package deals

import (
	"context"
	"testing"

	"equitymd-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDealsDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Deal{}, &models.DealMedia{}))
	return db
}

func seedDeal(t *testing.T, db *gorm.DB, syndicatorID uuid.UUID, status string) *models.Deal {
	deal := &models.Deal{
		SyndicatorID:      syndicatorID,
		Title:             "Sunset Gardens",
		PropertyType:      "Multi-Family",
		City:              "Austin",
		State:             "TX",
		Location:          "Austin, TX",
		MinimumInvestment: 50000,
		TotalEquity:       5000000,
		Description:       "A value-add multifamily asset.",
		Status:            status,
		MediaStatus:       models.MediaStatusComplete,
	}
	require.NoError(t, db.Create(deal).Error)
	return deal
}

func TestGetDeal_WithMediaInOrder(t *testing.T) {
	db := setupDealsDB(t)
	s := &Service{DB: db}
	deal := seedDeal(t, db, uuid.New(), models.DealStatusActive)

	// Insert media out of order; reads come back ordered by position.
	for _, pos := range []int{2, 0, 1} {
		require.NoError(t, db.Create(&models.DealMedia{
			DealID: deal.DealID, URL: "https://cdn.example.com/x", Position: pos,
		}).Error)
	}

	got, err := s.GetDeal(context.Background(), deal.DealID)
	require.NoError(t, err)
	assert.Equal(t, deal.DealID, got.DealID)
	require.Len(t, got.Media, 3)
	for i, m := range got.Media {
		assert.Equal(t, i, m.Position)
	}
}

func TestGetDeal_NotFound(t *testing.T) {
	db := setupDealsDB(t)
	s := &Service{DB: db}

	_, err := s.GetDeal(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, "Deal not found", err.Error())
}

func TestGetAllActiveDeals_FiltersStatus(t *testing.T) {
	db := setupDealsDB(t)
	s := &Service{DB: db}
	seedDeal(t, db, uuid.New(), models.DealStatusActive)
	seedDeal(t, db, uuid.New(), models.DealStatusDraft)
	seedDeal(t, db, uuid.New(), models.DealStatusClosed)

	out, err := s.GetAllActiveDeals(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, models.DealStatusActive, out[0].Status)
}

func TestGetSyndicatorDeals(t *testing.T) {
	db := setupDealsDB(t)
	s := &Service{DB: db}
	mine := uuid.New()
	seedDeal(t, db, mine, models.DealStatusActive)
	seedDeal(t, db, mine, models.DealStatusDraft)
	seedDeal(t, db, uuid.New(), models.DealStatusActive)

	all, err := s.GetSyndicatorDeals(context.Background(), mine, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	drafts, err := s.GetSyndicatorDeals(context.Background(), mine, models.DealStatusDraft)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, models.DealStatusDraft, drafts[0].Status)

	_, err = s.GetSyndicatorDeals(context.Background(), uuid.Nil, "")
	require.Error(t, err)
}
