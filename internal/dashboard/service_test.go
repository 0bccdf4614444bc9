package dashboard

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

func setupDashboardDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Deal{}, &models.DealMedia{}))
	return db
}

func addDeal(t *testing.T, db *gorm.DB, synID uuid.UUID, status, mediaStatus string, equity, minInvest float64) *models.Deal {
	deal := &models.Deal{
		SyndicatorID:      synID,
		Title:             "Test Deal",
		PropertyType:      "Multi-Family",
		City:              "Austin",
		State:             "TX",
		MinimumInvestment: minInvest,
		TotalEquity:       equity,
		Description:       "desc",
		Status:            status,
		MediaStatus:       mediaStatus,
	}
	require.NoError(t, db.Create(deal).Error)
	return deal
}

func TestSyndicatorStats(t *testing.T) {
	db := setupDashboardDB(t)
	s := &Service{DB: db}
	mine := uuid.New()

	d1 := addDeal(t, db, mine, models.DealStatusActive, models.MediaStatusComplete, 5000000, 50000)
	addDeal(t, db, mine, models.DealStatusDraft, models.MediaStatusIncomplete, 2000000, 25000)
	addDeal(t, db, mine, models.DealStatusClosed, models.MediaStatusComplete, 1000000, 10000)
	// Someone else's deal never shows up in the tiles.
	other := addDeal(t, db, uuid.New(), models.DealStatusActive, models.MediaStatusComplete, 9000000, 100000)

	for i := 0; i < 2; i++ {
		require.NoError(t, db.Create(&models.DealMedia{DealID: d1.DealID, URL: "u", Position: i}).Error)
	}
	require.NoError(t, db.Create(&models.DealMedia{DealID: other.DealID, URL: "u", Position: 0}).Error)

	stats, err := s.SyndicatorStats(context.Background(), mine)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalDeals)
	assert.Equal(t, int64(1), stats.ActiveDeals)
	assert.Equal(t, int64(1), stats.DraftDeals)
	assert.Equal(t, int64(1), stats.ClosedDeals)
	assert.Equal(t, 8000000.0, stats.TotalEquityListed)
	assert.Equal(t, int64(2), stats.TotalMedia)
	assert.Equal(t, int64(1), stats.IncompleteMediaDeals)
}

func TestSyndicatorStats_EmptyPortfolio(t *testing.T) {
	db := setupDashboardDB(t)
	s := &Service{DB: db}

	stats, err := s.SyndicatorStats(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalDeals)
	assert.Equal(t, 0.0, stats.TotalEquityListed)
}

func TestSyndicatorStats_NilID(t *testing.T) {
	db := setupDashboardDB(t)
	s := &Service{DB: db}

	_, err := s.SyndicatorStats(context.Background(), uuid.Nil)
	require.Error(t, err)
}

func TestInvestorStats(t *testing.T) {
	db := setupDashboardDB(t)
	s := &Service{DB: db}
	synA, synB := uuid.New(), uuid.New()

	addDeal(t, db, synA, models.DealStatusActive, models.MediaStatusComplete, 1, 40000)
	addDeal(t, db, synA, models.DealStatusActive, models.MediaStatusComplete, 1, 60000)
	addDeal(t, db, synB, models.DealStatusActive, models.MediaStatusComplete, 1, 20000)
	// Drafts and closed deals stay out of the marketplace view.
	addDeal(t, db, synB, models.DealStatusDraft, models.MediaStatusComplete, 1, 999999)

	stats, err := s.InvestorStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.ActiveDeals)
	assert.Equal(t, int64(2), stats.Syndicators)
	assert.InDelta(t, 40000.0, stats.AvgMinimumInvestment, 0.01)
}

func TestInvestorStats_EmptyMarketplace(t *testing.T) {
	db := setupDashboardDB(t)
	s := &Service{DB: db}

	stats, err := s.InvestorStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.ActiveDeals)
	assert.Equal(t, 0.0, stats.AvgMinimumInvestment)
}
