package submit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"equitymd-backend/internal/models"
	"equitymd-backend/internal/pkg/validation"
	"equitymd-backend/internal/storage"
	"equitymd-backend/internal/videos"
	"equitymd-backend/internal/wizard"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Orchestrator turns a validated draft into durable records. The write is
// two-phase and deliberately non-atomic: the deal row must exist before media
// can reference it, and a media failure never rolls the deal back. Clearing
// the draft snapshot is the caller's job, after it has stopped the session's
// autosaver, so a late tick cannot resurrect a published draft.
type Orchestrator struct {
	DB      *gorm.DB
	Storage storage.Uploader
	Bucket  string
}

// ValidationError carries the per-field error set when the full-form
// validator rejects a publish.
type ValidationError struct {
	Fields wizard.FieldErrors
}

func (e *ValidationError) Error() string {
	return "Validation failed"
}

// ImageOutcome is the recorded result of one staged image's upload+insert.
type ImageOutcome struct {
	Index int    `json:"index"`
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
	Error string `json:"error,omitempty"`
}

// Result reports what the publish produced.
type Result struct {
	Deal         *models.Deal       `json:"deal"`
	Media        []models.DealMedia `json:"media"`
	Outcomes     []ImageOutcome     `json:"image_outcomes"`
	FailedImages int                `json:"failed_images"`
}

// Publish runs the saga:
//  1. re-validate the full form
//  2. insert the deal row (failure aborts; the draft snapshot stays intact)
//  3. upload each staged image in order and insert its media row; a per-image
//     failure is recorded and the loop continues
//  4. patch the cover URL once known, and mark media_status incomplete if any
//     image failed
func (o *Orchestrator) Publish(ctx context.Context, form wizard.FormState, status string) (*Result, error) {
	if errs := wizard.ValidateAll(&form); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	if status == "" {
		status = models.DealStatusActive
	}
	if status != models.DealStatusActive && status != models.DealStatusDraft {
		return nil, errors.New("Invalid status")
	}

	syndicatorID, err := uuid.Parse(form.SyndicatorID)
	if err != nil {
		return nil, &ValidationError{Fields: wizard.FieldErrors{"syndicator_id": "Syndicator is required"}}
	}

	deal, err := buildDeal(&form, syndicatorID, status)
	if err != nil {
		return nil, err
	}
	if err := o.DB.WithContext(ctx).Create(deal).Error; err != nil {
		return nil, fmt.Errorf("Failed to create deal: %v", err)
	}

	res := &Result{Deal: deal}
	coverURL := ""
	for i, img := range form.Images {
		outcome := ImageOutcome{Index: i, Title: img.Title}
		url, err := o.uploadOne(ctx, deal.DealID, i, img)
		if err != nil {
			log.Error().Err(err).Str("deal_id", deal.DealID.String()).Int("index", i).Str("file", img.FileName).Msg("Deal image upload failed")
			outcome.Error = err.Error()
			res.FailedImages++
			res.Outcomes = append(res.Outcomes, outcome)
			continue
		}
		outcome.URL = url
		res.Outcomes = append(res.Outcomes, outcome)
		media := models.DealMedia{DealID: deal.DealID, URL: url, Title: img.Title, Position: i}
		if err := o.DB.WithContext(ctx).Create(&media).Error; err != nil {
			log.Error().Err(err).Str("deal_id", deal.DealID.String()).Int("index", i).Msg("Deal media insert failed")
			res.Outcomes[len(res.Outcomes)-1].Error = err.Error()
			res.FailedImages++
			continue
		}
		res.Media = append(res.Media, media)
		if i == form.CoverImageIndex {
			coverURL = url
		}
	}

	updates := map[string]interface{}{}
	if coverURL != "" {
		updates["cover_image_url"] = coverURL
		deal.CoverImageURL = coverURL
	}
	if res.FailedImages > 0 {
		updates["media_status"] = models.MediaStatusIncomplete
		deal.MediaStatus = models.MediaStatusIncomplete
	}
	if len(updates) > 0 {
		if err := o.DB.WithContext(ctx).Model(deal).Updates(updates).Error; err != nil {
			log.Error().Err(err).Str("deal_id", deal.DealID.String()).Msg("Deal cover patch failed")
		}
	}

	return res, nil
}

func (o *Orchestrator) uploadOne(ctx context.Context, dealID uuid.UUID, position int, img wizard.StagedImage) (string, error) {
	if len(img.Data) == 0 {
		return "", errors.New("staged image has no data")
	}
	path := fmt.Sprintf("deals/%s/%d-%s", dealID, position, img.FileName)
	return o.Storage.Upload(ctx, o.Bucket, path, img.Data, img.ContentType)
}

// buildDeal coerces the draft's numeric strings and composes the display
// location. Optional numerics absent from the form map to NULL.
func buildDeal(form *wizard.FormState, syndicatorID uuid.UUID, status string) (*models.Deal, error) {
	minInvest, ok := validation.ParseNumeric(form.MinimumInvestment)
	if !ok {
		return nil, &ValidationError{Fields: wizard.FieldErrors{"minimum_investment": "Minimum investment must be a number"}}
	}
	totalEquity, ok := validation.ParseNumeric(form.TotalEquity)
	if !ok {
		return nil, &ValidationError{Fields: wizard.FieldErrors{"total_equity": "Total equity must be a number"}}
	}
	targetIRR, _ := validation.ParseOptionalNumeric(form.TargetIRR)
	term, _ := validation.ParseOptionalNumeric(form.InvestmentTerm)
	preferred, _ := validation.ParseOptionalNumeric(form.PreferredReturn)
	multiple, _ := validation.ParseOptionalNumeric(form.EquityMultiple)

	highlights, err := json.Marshal(form.FilledHighlights())
	if err != nil {
		return nil, err
	}

	// Unrecognized video hosts are excluded from the published record but
	// were never a form error.
	videoURL := ""
	if videos.IsRecognized(form.VideoURL) {
		videoURL = form.VideoURL
	}

	return &models.Deal{
		SyndicatorID:      syndicatorID,
		Title:             form.Title,
		PropertyType:      form.PropertyType,
		Street:            form.Street,
		City:              form.City,
		State:             form.State,
		Zip:               form.Zip,
		Location:          form.DisplayLocation(),
		MinimumInvestment: minInvest,
		TotalEquity:       totalEquity,
		TargetIRR:         targetIRR,
		InvestmentTerm:    term,
		PreferredReturn:   preferred,
		EquityMultiple:    multiple,
		Description:       form.Description,
		Highlights:        datatypes.JSON(highlights),
		VideoURL:          videoURL,
		Status:            status,
		MediaStatus:       models.MediaStatusComplete,
	}, nil
}
