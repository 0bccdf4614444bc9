package dashboard

import (
	"context"
	"errors"

	"equitymd-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// SyndicatorStats are the summary tiles on the syndicator dashboard.
type SyndicatorStats struct {
	TotalDeals           int64   `json:"total_deals"`
	ActiveDeals          int64   `json:"active_deals"`
	DraftDeals           int64   `json:"draft_deals"`
	ClosedDeals          int64   `json:"closed_deals"`
	TotalEquityListed    float64 `json:"total_equity_listed"`
	TotalMedia           int64   `json:"total_media"`
	IncompleteMediaDeals int64   `json:"incomplete_media_deals"`
}

// InvestorStats are the summary tiles on the investor dashboard.
type InvestorStats struct {
	ActiveDeals          int64   `json:"active_deals"`
	Syndicators          int64   `json:"syndicators"`
	AvgMinimumInvestment float64 `json:"avg_minimum_investment"`
}

// SyndicatorStats runs the per-tile queries and reduces them client-side.
func (s *Service) SyndicatorStats(ctx context.Context, syndicatorID uuid.UUID) (*SyndicatorStats, error) {
	if syndicatorID == uuid.Nil {
		return nil, errors.New("Syndicator not found in session")
	}
	db := s.DB.WithContext(ctx)
	out := &SyndicatorStats{}

	base := func() *gorm.DB { return db.Model(&models.Deal{}).Where("syndicator_id = ?", syndicatorID) }
	if err := base().Count(&out.TotalDeals).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", models.DealStatusActive).Count(&out.ActiveDeals).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", models.DealStatusDraft).Count(&out.DraftDeals).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", models.DealStatusClosed).Count(&out.ClosedDeals).Error; err != nil {
		return nil, err
	}
	if err := base().Select("COALESCE(SUM(total_equity), 0)").Scan(&out.TotalEquityListed).Error; err != nil {
		return nil, err
	}

	dealIDs := db.Model(&models.Deal{}).Select("deal_id").Where("syndicator_id = ?", syndicatorID)
	if err := db.Model(&models.DealMedia{}).Where("deal_id IN (?)", dealIDs).Count(&out.TotalMedia).Error; err != nil {
		return nil, err
	}
	if err := base().Where("media_status = ?", models.MediaStatusIncomplete).Count(&out.IncompleteMediaDeals).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// InvestorStats summarizes the open marketplace for the investor home view.
func (s *Service) InvestorStats(ctx context.Context) (*InvestorStats, error) {
	db := s.DB.WithContext(ctx)
	out := &InvestorStats{}

	active := func() *gorm.DB { return db.Model(&models.Deal{}).Where("status = ?", models.DealStatusActive) }
	if err := active().Count(&out.ActiveDeals).Error; err != nil {
		return nil, err
	}
	if err := active().Distinct("syndicator_id").Count(&out.Syndicators).Error; err != nil {
		return nil, err
	}
	if err := active().Select("COALESCE(AVG(minimum_investment), 0)").Scan(&out.AvgMinimumInvestment).Error; err != nil {
		return nil, err
	}
	return out, nil
}
