package wizard

import (
	"errors"
	"sync"
	"time"
)

var (
	// ErrStepInvalid means the active step's required fields are incomplete.
	ErrStepInvalid = errors.New("Current step has incomplete required fields")
	// ErrJumpRejected means a forward jump failed an intermediate validator.
	ErrJumpRejected = errors.New("Cannot skip ahead past incomplete steps")
	// ErrPublishing means navigation is disabled during an in-flight publish.
	ErrPublishing = errors.New("Navigation is disabled while publishing")
	// ErrAtBoundary means there is no step in the requested direction.
	ErrAtBoundary = errors.New("No step in that direction")
)

// Wizard is one user's listing-wizard session: the draft form, the current
// step, the per-field error set, and the publishing sub-state. Handler
// goroutines and the autosaver share it, so all access goes through the lock.
type Wizard struct {
	mu sync.Mutex

	form       *FormState
	step       Step
	errs       FieldErrors
	publishing bool

	lastSavedAt time.Time
	lastActive  time.Time
}

// New returns a wizard at the Basics step with a default draft.
func New() *Wizard {
	return &Wizard{
		form:       NewFormState(),
		errs:       FieldErrors{},
		lastActive: time.Now(),
	}
}

// Restore returns a wizard seeded from a recovered snapshot. File-backed
// image data never survives serialization, so the image list is forced empty
// and the cover index reset regardless of what the snapshot carried.
func Restore(form *FormState) *Wizard {
	if form == nil {
		return New()
	}
	form.Images = nil
	form.CoverImageIndex = 0
	if len(form.Highlights) == 0 {
		form.Highlights = []string{""}
	}
	return &Wizard{
		form:       form,
		errs:       FieldErrors{},
		lastActive: time.Now(),
	}
}

// Step returns the current step index.
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Errors returns a copy of the current field error set.
func (w *Wizard) Errors() FieldErrors {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := FieldErrors{}
	for k, v := range w.errs {
		out[k] = v
	}
	return out
}

// Advance moves to the next step if the active step validates. On failure the
// step stays put and the step's errors are populated for display.
func (w *Wizard) Advance() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.publishing {
		return ErrPublishing
	}
	w.lastActive = time.Now()
	if w.step >= StepReview {
		return ErrAtBoundary
	}
	if errs := ValidateStep(w.step, w.form); len(errs) > 0 {
		w.mergeErrors(errs)
		return ErrStepInvalid
	}
	w.step++
	return nil
}

// Retreat moves to the previous step. Never validated.
func (w *Wizard) Retreat() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.publishing {
		return ErrPublishing
	}
	w.lastActive = time.Now()
	if w.step <= StepBasics {
		return ErrAtBoundary
	}
	w.step--
	return nil
}

// JumpTo navigates directly to target. Backward jumps always succeed. A
// forward jump requires every step from the current one up to (but excluding)
// the target to validate; the first failure rejects the jump, leaves the
// current step unchanged, and surfaces that step's errors.
func (w *Wizard) JumpTo(target Step) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.publishing {
		return ErrPublishing
	}
	w.lastActive = time.Now()
	if target < StepBasics || target >= stepCount {
		return ErrAtBoundary
	}
	if target <= w.step {
		w.step = target
		return nil
	}
	for s := w.step; s < target; s++ {
		if errs := ValidateStep(s, w.form); len(errs) > 0 {
			w.mergeErrors(errs)
			return ErrJumpRejected
		}
	}
	w.step = target
	return nil
}

// SetField mutates one scalar field and clears only that field's error entry.
func (w *Wizard) SetField(name, value string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastActive = time.Now()
	touched, ok := w.form.ApplyField(name, value)
	if !ok {
		return false
	}
	for _, k := range touched {
		delete(w.errs, k)
	}
	return true
}

// SetFields applies several scalar fields; unknown names are skipped.
// Returns the names actually applied.
func (w *Wizard) SetFields(fields map[string]string) []string {
	applied := make([]string, 0, len(fields))
	for name, value := range fields {
		if w.SetField(name, value) {
			applied = append(applied, name)
		}
	}
	return applied
}

// BeginPublish validates the full form and, if clean, enters the publishing
// sub-state during which navigation is disabled. On validation failure the
// field errors are populated and no state transition happens.
func (w *Wizard) BeginPublish() (FieldErrors, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.publishing {
		return nil, ErrPublishing
	}
	if errs := ValidateAll(w.form); len(errs) > 0 {
		w.mergeErrors(errs)
		return errs, ErrStepInvalid
	}
	w.publishing = true
	return nil, nil
}

// EndPublish leaves the publishing sub-state (publish finished or failed).
func (w *Wizard) EndPublish() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.publishing = false
}

// Publishing reports whether a publish is in flight.
func (w *Wizard) Publishing() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.publishing
}

// Form runs fn with the form state under the wizard lock.
func (w *Wizard) Form(fn func(f *FormState)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn(w.form)
}

// FormCopy returns a shallow copy of the form with its own highlight and
// image slices, safe to read outside the lock. Image byte payloads are
// shared, not copied; the publish loop is the only reader of those.
func (w *Wizard) FormCopy() FormState {
	w.mu.Lock()
	defer w.mu.Unlock()
	cp := *w.form
	cp.Highlights = append([]string(nil), w.form.Highlights...)
	cp.Images = append([]StagedImage(nil), w.form.Images...)
	return cp
}

// MarkSaved records a successful snapshot write.
func (w *Wizard) MarkSaved(t time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastSavedAt = t
}

// LastSavedAt returns the last successful snapshot time (zero if never).
func (w *Wizard) LastSavedAt() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSavedAt
}

// LastActive returns the last mutation time, used by the session reaper.
func (w *Wizard) LastActive() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastActive
}

// Touch bumps the activity clock (read-only endpoints call this).
func (w *Wizard) Touch() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastActive = time.Now()
}

func (w *Wizard) mergeErrors(errs FieldErrors) {
	for k, v := range errs {
		w.errs[k] = v
	}
}
