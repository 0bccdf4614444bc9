package deals

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"time"

	"equitymd-backend/internal/drafts"
	"equitymd-backend/internal/pkg/response"
	"equitymd-backend/internal/submit"
	"equitymd-backend/internal/videos"
	"equitymd-backend/internal/wizard"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// WizardHandlers is the HTTP surface of the listing wizard. Each logged-in
// syndicator gets at most one live wizard session held in the registry; an
// autosaver snapshots it to the draft store every 30 seconds.
type WizardHandlers struct {
	Registry         *wizard.Registry
	Drafts           *drafts.Store
	Publisher        *submit.Orchestrator
	MaxImages        int
	MaxImageSize     int64
	AutoSaveInterval time.Duration
}

type wizardState struct {
	Step        int                `json:"step"`
	StepName    string             `json:"step_name"`
	Form        wizard.FormState   `json:"form"`
	Errors      wizard.FieldErrors `json:"errors"`
	Publishing  bool               `json:"publishing"`
	LastSavedAt *time.Time         `json:"last_saved_at"`
}

func (h *WizardHandlers) state(w *wizard.Wizard) wizardState {
	st := wizardState{
		Step:       int(w.Step()),
		StepName:   w.Step().String(),
		Form:       w.FormCopy(),
		Errors:     w.Errors(),
		Publishing: w.Publishing(),
	}
	if t := w.LastSavedAt(); !t.IsZero() {
		st.LastSavedAt = &t
	}
	return st
}

func (h *WizardHandlers) session(c *fiber.Ctx) (*wizard.Session, uuid.UUID, error) {
	userID, err := actorUserID(c)
	if err != nil {
		return nil, uuid.Nil, err
	}
	s, ok := h.Registry.Get(userID)
	if !ok {
		return nil, userID, errors.New("No active wizard session")
	}
	return s, userID, nil
}

// Start POST /api/v1/wizard/start: open (or reopen) the user's wizard
// session. A draft snapshot newer than 24 hours is restored with its image
// list forced empty; anything older is ignored. Snapshot read failures are
// logged and the wizard starts fresh.
func (h *WizardHandlers) Start(c *fiber.Ctx) error {
	userID, err := actorUserID(c)
	if err != nil {
		return response.Error(c, err.Error(), 403, nil)
	}

	var w *wizard.Wizard
	restored := false
	draftID := uuid.New().String()
	if h.Drafts != nil {
		snap, ok, err := h.Drafts.Load(c.Context(), userID.String())
		if err != nil {
			log.Warn().Err(err).Str("user_id", userID.String()).Msg("Draft snapshot load failed")
		} else if ok {
			var form wizard.FormState
			if err := json.Unmarshal(snap.FormData, &form); err != nil {
				log.Warn().Err(err).Str("user_id", userID.String()).Msg("Draft snapshot decode failed")
			} else {
				w = wizard.Restore(&form)
				restored = true
				if snap.DraftID != "" {
					draftID = snap.DraftID
				}
			}
		}
	}
	if w == nil {
		w = wizard.New()
	}
	w.Form(func(f *wizard.FormState) {
		if f.SyndicatorID == "" {
			f.SyndicatorID = userID.String()
		}
	})

	saver := drafts.NewAutoSaver(h.AutoSaveInterval, h.saveFunc(w, userID, draftID))
	saver.Start()
	h.Registry.Put(userID, w, draftID, saver.Stop)

	return response.Success(c, "Wizard session started", fiber.Map{
		"restored": restored,
		"draft_id": draftID,
		"state":    h.state(w),
	}, nil)
}

func (h *WizardHandlers) saveFunc(w *wizard.Wizard, userID uuid.UUID, draftID string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if h.Drafts == nil {
			return nil
		}
		form := w.FormCopy()
		if !form.HasContent() {
			return nil
		}
		t, err := h.Drafts.Save(ctx, userID.String(), draftID, form)
		if err != nil {
			return err
		}
		w.MarkSaved(t)
		return nil
	}
}

// State GET /api/v1/wizard/state
func (h *WizardHandlers) State(c *fiber.Ctx) error {
	s, _, err := h.session(c)
	if err != nil {
		return response.Error(c, err.Error(), 404, nil)
	}
	s.Wizard.Touch()
	return response.Success(c, "Wizard state", h.state(s.Wizard), nil)
}

// SetFields PATCH /api/v1/wizard/fields: body { "fields": { name: value } }.
// Only the touched fields' error entries are cleared.
func (h *WizardHandlers) SetFields(c *fiber.Ctx) error {
	s, _, err := h.session(c)
	if err != nil {
		return response.Error(c, err.Error(), 404, nil)
	}
	var body struct {
		Fields map[string]string `json:"fields"`
	}
	if err := c.BodyParser(&body); err != nil || len(body.Fields) == 0 {
		return response.Error(c, "fields is required", 400, nil)
	}
	applied := s.Wizard.SetFields(body.Fields)
	return response.Success(c, "Fields updated", fiber.Map{
		"applied": applied,
		"state":   h.state(s.Wizard),
	}, nil)
}

// Highlights POST /api/v1/wizard/highlights: body { action, index, value }.
func (h *WizardHandlers) Highlights(c *fiber.Ctx) error {
	s, _, err := h.session(c)
	if err != nil {
		return response.Error(c, err.Error(), 404, nil)
	}
	var body struct {
		Action string `json:"action"`
		Index  int    `json:"index"`
		Value  string `json:"value"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	ok := true
	s.Wizard.Form(func(f *wizard.FormState) {
		switch body.Action {
		case "add":
			f.AddHighlight()
		case "set":
			ok = f.SetHighlight(body.Index, body.Value)
		case "remove":
			ok = f.RemoveHighlight(body.Index)
		default:
			ok = false
		}
	})
	if !ok {
		return response.Error(c, "Invalid highlight operation", 400, nil)
	}
	return response.Success(c, "Highlights updated", h.state(s.Wizard), nil)
}

// Advance POST /api/v1/wizard/advance
func (h *WizardHandlers) Advance(c *fiber.Ctx) error {
	return h.navigate(c, func(w *wizard.Wizard) error { return w.Advance() })
}

// Retreat POST /api/v1/wizard/retreat
func (h *WizardHandlers) Retreat(c *fiber.Ctx) error {
	return h.navigate(c, func(w *wizard.Wizard) error { return w.Retreat() })
}

// Jump POST /api/v1/wizard/jump: body { step }.
func (h *WizardHandlers) Jump(c *fiber.Ctx) error {
	var body struct {
		Step int `json:"step"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "step is required", 400, nil)
	}
	return h.navigate(c, func(w *wizard.Wizard) error { return w.JumpTo(wizard.Step(body.Step)) })
}

func (h *WizardHandlers) navigate(c *fiber.Ctx, move func(*wizard.Wizard) error) error {
	s, _, err := h.session(c)
	if err != nil {
		return response.Error(c, err.Error(), 404, nil)
	}
	if err := move(s.Wizard); err != nil {
		switch err {
		case wizard.ErrStepInvalid, wizard.ErrJumpRejected:
			return response.Error(c, err.Error(), 400, fiber.Map{"fields": s.Wizard.Errors()})
		case wizard.ErrPublishing:
			return response.Error(c, err.Error(), 409, nil)
		default:
			return response.Error(c, err.Error(), 400, nil)
		}
	}
	return response.Success(c, "Step changed", h.state(s.Wizard), nil)
}

// UploadImages POST /api/v1/wizard/images: multipart batch under "images".
// Oversized files are rejected per-file without aborting the batch; non-image
// MIME types are silently skipped.
func (h *WizardHandlers) UploadImages(c *fiber.Ctx) error {
	s, _, err := h.session(c)
	if err != nil {
		return response.Error(c, err.Error(), 404, nil)
	}
	mf, err := c.MultipartForm()
	if err != nil || mf == nil || len(mf.File["images"]) == 0 {
		return response.Error(c, "images is required", 400, nil)
	}

	var incoming []wizard.IncomingFile
	for _, fh := range mf.File["images"] {
		f, err := fh.Open()
		if err != nil {
			log.Warn().Err(err).Str("file", fh.Filename).Msg("Staged image open failed")
			continue
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			log.Warn().Err(err).Str("file", fh.Filename).Msg("Staged image read failed")
			continue
		}
		incoming = append(incoming, wizard.IncomingFile{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	res := s.Wizard.AddImages(incoming, h.MaxImages, h.MaxImageSize)
	return response.Success(c, "Images staged", fiber.Map{
		"accepted": len(res.Accepted),
		"rejected": res.Rejected,
		"state":    h.state(s.Wizard),
	}, nil)
}

// RemoveImage DELETE /api/v1/wizard/images/:index
func (h *WizardHandlers) RemoveImage(c *fiber.Ctx) error {
	s, _, err := h.session(c)
	if err != nil {
		return response.Error(c, err.Error(), 404, nil)
	}
	idx, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return response.Error(c, "Invalid image index", 400, nil)
	}
	if err := s.Wizard.RemoveImage(idx); err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	return response.Success(c, "Image removed", h.state(s.Wizard), nil)
}

// ReorderImage POST /api/v1/wizard/images/reorder: body { from, to }.
func (h *WizardHandlers) ReorderImage(c *fiber.Ctx) error {
	s, _, err := h.session(c)
	if err != nil {
		return response.Error(c, err.Error(), 404, nil)
	}
	var body struct {
		From int `json:"from"`
		To   int `json:"to"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	if err := s.Wizard.ReorderImage(body.From, body.To); err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	return response.Success(c, "Image reordered", h.state(s.Wizard), nil)
}

// SetCover POST /api/v1/wizard/images/cover: body { index }.
func (h *WizardHandlers) SetCover(c *fiber.Ctx) error {
	s, _, err := h.session(c)
	if err != nil {
		return response.Error(c, err.Error(), 404, nil)
	}
	var body struct {
		Index int `json:"index"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	if err := s.Wizard.SetCover(body.Index); err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	return response.Success(c, "Cover image set", h.state(s.Wizard), nil)
}

// Save POST /api/v1/wizard/save: manual snapshot, same write (and same
// draft id) as the autosaver, immediately.
func (h *WizardHandlers) Save(c *fiber.Ctx) error {
	s, userID, err := h.session(c)
	if err != nil {
		return response.Error(c, err.Error(), 404, nil)
	}
	if h.Drafts == nil {
		return response.Error(c, "Draft storage unavailable", 500, nil)
	}
	form := s.Wizard.FormCopy()
	if !form.HasContent() {
		return response.Error(c, "Nothing to save yet", 400, nil)
	}
	t, err := h.Drafts.Save(c.Context(), userID.String(), s.DraftID, form)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("Manual draft save failed")
		return response.Error(c, "Failed to save draft", 500, nil)
	}
	s.Wizard.MarkSaved(t)
	return response.Success(c, "Draft saved", fiber.Map{"saved_at": t}, nil)
}

// VideoPreview GET /api/v1/wizard/video-preview?url=... returns how a recognized URL
// yields an embed reference; an unrecognized one is excluded from preview
// but is not an error.
func (h *WizardHandlers) VideoPreview(c *fiber.Ctx) error {
	raw := c.Query("url")
	if raw == "" {
		return response.Error(c, "url is required", 400, nil)
	}
	embed, ok := videos.Recognize(raw)
	if !ok {
		return response.Success(c, "Video URL not recognized", fiber.Map{"recognized": false}, nil)
	}
	return response.Success(c, "Video URL recognized", fiber.Map{"recognized": true, "embed": embed}, nil)
}

// Publish POST /api/v1/wizard/publish: body { status: "draft"|"active" }.
// Full-form validation gates entry to the publishing sub-state; the saga
// itself is in internal/submit. A successful publish tears the session down,
// stopping its autosaver before the draft snapshot is cleared so a late tick
// cannot re-write it, and returns the new deal for redirect.
func (h *WizardHandlers) Publish(c *fiber.Ctx) error {
	s, userID, err := h.session(c)
	if err != nil {
		return response.Error(c, err.Error(), 404, nil)
	}
	var body struct {
		Status string `json:"status"`
	}
	_ = c.BodyParser(&body)

	if fields, err := s.Wizard.BeginPublish(); err != nil {
		if err == wizard.ErrPublishing {
			return response.Error(c, "Publish already in progress", 409, nil)
		}
		return response.ValidationError(c, fields)
	}

	form := s.Wizard.FormCopy()
	result, err := h.Publisher.Publish(c.Context(), form, body.Status)
	if err != nil {
		s.Wizard.EndPublish()
		var ve *submit.ValidationError
		if errors.As(err, &ve) {
			return response.ValidationError(c, ve.Fields)
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Deal publish failed")
		return response.Error(c, "Failed to publish deal", 500, nil)
	}

	s.Wizard.EndPublish()
	// Remove stops the autosaver and waits out any in-flight tick, so the
	// clear below is the last write against the snapshot key.
	h.Registry.Remove(userID)
	if h.Drafts != nil {
		if err := h.Drafts.Clear(c.Context(), userID.String()); err != nil {
			log.Warn().Err(err).Str("user_id", userID.String()).Msg("Draft snapshot clear failed")
		}
	}

	meta := fiber.Map{}
	if result.FailedImages > 0 {
		meta["warning"] = "Some images failed to upload"
	}
	return response.SuccessCreated(c, "Deal published successfully", result, meta)
}
