package deals

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

// DealWithMedia is a deal plus its gallery in display order.
type DealWithMedia struct {
	models.Deal
	Media []models.DealMedia `json:"media"`
}

func (s *Service) GetDeal(ctx context.Context, dealID uuid.UUID) (*DealWithMedia, error) {
	if dealID == uuid.Nil {
		return nil, errors.New("deal_id is required")
	}
	var deal models.Deal
	if err := s.DB.WithContext(ctx).Where("deal_id = ?", dealID).First(&deal).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("Deal not found")
		}
		return nil, err
	}
	var media []models.DealMedia
	if err := s.DB.WithContext(ctx).Where("deal_id = ?", dealID).Order("position ASC").Find(&media).Error; err != nil {
		return nil, err
	}
	return &DealWithMedia{Deal: deal, Media: media}, nil
}

func (s *Service) GetAllActiveDeals(ctx context.Context) ([]models.Deal, error) {
	var out []models.Deal
	if err := s.DB.WithContext(ctx).Where("status = ?", models.DealStatusActive).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// GetSyndicatorDeals lists a syndicator's deals, optionally filtered by status.
func (s *Service) GetSyndicatorDeals(ctx context.Context, syndicatorID uuid.UUID, status string) ([]models.Deal, error) {
	if syndicatorID == uuid.Nil {
		return nil, errors.New("Syndicator not found in session")
	}
	q := s.DB.WithContext(ctx).Where("syndicator_id = ?", syndicatorID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []models.Deal
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// GetDealMedia lists a deal's media rows in display order.
func (s *Service) GetDealMedia(ctx context.Context, dealID uuid.UUID) ([]models.DealMedia, error) {
	var media []models.DealMedia
	if err := s.DB.WithContext(ctx).Where("deal_id = ?", dealID).Order("position ASC").Find(&media).Error; err != nil {
		return nil, err
	}
	return media, nil
}
