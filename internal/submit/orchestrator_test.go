package submit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"equitymd-backend/internal/models"
	"equitymd-backend/internal/wizard"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeUploader records uploads and fails on request.
type fakeUploader struct {
	uploads []string
	failOn  map[string]bool
}

func (f *fakeUploader) Upload(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error) {
	if f.failOn[path] {
		return "", errors.New("storage unavailable")
	}
	f.uploads = append(f.uploads, path)
	return "https://cdn.example.com/" + bucket + "/" + path, nil
}

func setupOrchestrator(t *testing.T) (*Orchestrator, *gorm.DB, *fakeUploader) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Deal{}, &models.DealMedia{}))
	up := &fakeUploader{failOn: map[string]bool{}}
	return &Orchestrator{DB: db, Storage: up, Bucket: "deal-images"}, db, up
}

func publishableForm(images int) wizard.FormState {
	f := wizard.FormState{
		Title:             "Sunset Gardens",
		PropertyType:      "Multi-Family",
		SyndicatorID:      uuid.New().String(),
		City:              "Austin",
		State:             "TX",
		MinimumInvestment: "50,000",
		TotalEquity:       "5000000",
		TargetIRR:         "17.5",
		Description:       "A value-add multifamily asset.",
		Highlights:        []string{"Renovated units", ""},
	}
	for i := 0; i < images; i++ {
		f.Images = append(f.Images, wizard.StagedImage{
			ID:          uuid.New(),
			FileName:    fmt.Sprintf("photo_%d.jpg", i),
			Title:       fmt.Sprintf("photo %d", i),
			ContentType: "image/jpeg",
			Data:        []byte{0xff, 0xd8},
		})
	}
	return f
}

func TestPublish_HappyPath(t *testing.T) {
	o, db, up := setupOrchestrator(t)
	form := publishableForm(3)
	form.CoverImageIndex = 1

	res, err := o.Publish(context.Background(), form, "")
	require.NoError(t, err)
	require.NotNil(t, res.Deal)
	assert.Equal(t, models.DealStatusActive, res.Deal.Status)
	assert.Equal(t, models.MediaStatusComplete, res.Deal.MediaStatus)
	assert.Equal(t, 0, res.FailedImages)
	assert.Len(t, res.Media, 3)
	assert.Len(t, up.uploads, 3)

	// One deal row, three media rows in upload order.
	var dealCount, mediaCount int64
	require.NoError(t, db.Model(&models.Deal{}).Count(&dealCount).Error)
	require.NoError(t, db.Model(&models.DealMedia{}).Count(&mediaCount).Error)
	assert.Equal(t, int64(1), dealCount)
	assert.Equal(t, int64(3), mediaCount)

	var media []models.DealMedia
	require.NoError(t, db.Order("position ASC").Find(&media).Error)
	for i, m := range media {
		assert.Equal(t, i, m.Position)
	}

	// Cover points at the second image's uploaded URL.
	var stored models.Deal
	require.NoError(t, db.First(&stored, "deal_id = ?", res.Deal.DealID).Error)
	assert.Equal(t, media[1].URL, stored.CoverImageURL)
	assert.Equal(t, 50000.0, stored.MinimumInvestment)
	assert.Equal(t, "Austin, TX", stored.Location)
	assert.JSONEq(t, `["Renovated units"]`, string(stored.Highlights))
}

func TestPublish_ValidationFailure(t *testing.T) {
	o, db, _ := setupOrchestrator(t)
	form := publishableForm(0)
	form.Title = ""

	res, err := o.Publish(context.Background(), form, "")
	assert.Nil(t, res)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Title is required", ve.Fields["title"])

	var count int64
	require.NoError(t, db.Model(&models.Deal{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestPublish_DealInsertFailureAborts(t *testing.T) {
	o, db, up := setupOrchestrator(t)
	require.NoError(t, db.Migrator().DropTable(&models.Deal{}))

	res, err := o.Publish(context.Background(), publishableForm(2), "")
	assert.Nil(t, res)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to create deal")

	// No uploads happened.
	assert.Empty(t, up.uploads)
	var mediaCount int64
	require.NoError(t, db.Model(&models.DealMedia{}).Count(&mediaCount).Error)
	assert.Equal(t, int64(0), mediaCount)
}

func TestPublish_InvalidStatus(t *testing.T) {
	o, _, _ := setupOrchestrator(t)
	_, err := o.Publish(context.Background(), publishableForm(0), "closed")
	require.Error(t, err)
	assert.Equal(t, "Invalid status", err.Error())
}

func TestPublish_DraftStatus(t *testing.T) {
	o, _, _ := setupOrchestrator(t)
	res, err := o.Publish(context.Background(), publishableForm(0), models.DealStatusDraft)
	require.NoError(t, err)
	assert.Equal(t, models.DealStatusDraft, res.Deal.Status)
}

// suffixFailUploader fails uploads whose path ends with failSuffix. Upload
// paths embed the deal id assigned at insert, so failures target the stable
// "<position>-<filename>" tail instead.
type suffixFailUploader struct {
	failSuffix string
}

func (s *suffixFailUploader) Upload(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error) {
	if strings.HasSuffix(path, s.failSuffix) {
		return "", errors.New("storage unavailable")
	}
	return "https://cdn.example.com/" + bucket + "/" + path, nil
}

func TestPublish_PartialImageFailure(t *testing.T) {
	o, db, _ := setupOrchestrator(t)
	o.Storage = &suffixFailUploader{failSuffix: "1-photo_1.jpg"}
	form := publishableForm(3)
	form.CoverImageIndex = 1

	res, err := o.Publish(context.Background(), form, "")
	require.NoError(t, err)
	assert.Equal(t, 1, res.FailedImages)
	assert.Len(t, res.Media, 2)
	require.Len(t, res.Outcomes, 3)
	assert.Empty(t, res.Outcomes[0].Error)
	assert.Equal(t, "storage unavailable", res.Outcomes[1].Error)
	assert.Empty(t, res.Outcomes[2].Error)

	// The cover image was the one that failed: cover stays empty, media
	// status flips to incomplete.
	var stored models.Deal
	require.NoError(t, db.First(&stored, "deal_id = ?", res.Deal.DealID).Error)
	assert.Equal(t, "", stored.CoverImageURL)
	assert.Equal(t, models.MediaStatusIncomplete, stored.MediaStatus)
}

func TestPublish_EmptyImageDataFails(t *testing.T) {
	o, _, _ := setupOrchestrator(t)
	form := publishableForm(1)
	form.Images[0].Data = nil

	res, err := o.Publish(context.Background(), form, "")
	require.NoError(t, err)
	assert.Equal(t, 1, res.FailedImages)
	assert.Equal(t, models.MediaStatusIncomplete, res.Deal.MediaStatus)
}

func TestPublish_UnrecognizedVideoExcluded(t *testing.T) {
	o, _, _ := setupOrchestrator(t)
	form := publishableForm(0)
	form.VideoURL = "https://example.com/video.mp4"

	res, err := o.Publish(context.Background(), form, "")
	require.NoError(t, err)
	assert.Equal(t, "", res.Deal.VideoURL)

	form2 := publishableForm(0)
	form2.VideoURL = "https://www.youtube.com/watch?v=abc12345678"
	res2, err := o.Publish(context.Background(), form2, "")
	require.NoError(t, err)
	assert.Equal(t, form2.VideoURL, res2.Deal.VideoURL)
}

func TestPublish_BadSyndicatorID(t *testing.T) {
	o, _, _ := setupOrchestrator(t)
	form := publishableForm(0)
	form.SyndicatorID = "not-a-uuid"

	_, err := o.Publish(context.Background(), form, "")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "syndicator_id")
}
