package wizard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeForm() *FormState {
	f := NewFormState()
	f.Title = "Sunset Gardens"
	f.PropertyType = "Multi-Family"
	f.SyndicatorID = "s1"
	f.City = "Austin"
	f.State = "TX"
	f.MinimumInvestment = "50000"
	f.TotalEquity = "5000000"
	f.Description = "A value-add multifamily asset."
	return f
}

func completedWizard() *Wizard {
	w := New()
	w.Form(func(f *FormState) { *f = *completeForm() })
	return w
}

func TestAdvance_BlockedByEmptyStep(t *testing.T) {
	w := New()
	err := w.Advance()
	assert.Equal(t, ErrStepInvalid, err)
	assert.Equal(t, StepBasics, w.Step())

	errs := w.Errors()
	assert.Equal(t, "Title is required", errs["title"])
	assert.Equal(t, "Property type is required", errs["property_type"])
	assert.Equal(t, "Syndicator is required", errs["syndicator_id"])
}

func TestAdvance_WalksAllSteps(t *testing.T) {
	w := completedWizard()
	for expected := StepLocation; expected <= StepReview; expected++ {
		require.NoError(t, w.Advance())
		assert.Equal(t, expected, w.Step())
	}
	assert.Equal(t, ErrAtBoundary, w.Advance())
}

func TestRetreat_NeverValidates(t *testing.T) {
	w := completedWizard()
	require.NoError(t, w.Advance())

	// Break the Basics step, then go back: retreat must still succeed.
	w.SetField("title", "")
	require.NoError(t, w.Retreat())
	assert.Equal(t, StepBasics, w.Step())

	assert.Equal(t, ErrAtBoundary, w.Retreat())
}

func TestJumpTo_BackwardAlwaysAllowed(t *testing.T) {
	w := completedWizard()
	require.NoError(t, w.Advance())
	require.NoError(t, w.Advance())

	w.SetField("title", "")
	require.NoError(t, w.JumpTo(StepBasics))
	assert.Equal(t, StepBasics, w.Step())
}

func TestJumpTo_ForwardValidatesIntermediateSteps(t *testing.T) {
	w := completedWizard()
	w.SetField("city", "")

	// Basics passes, Location does not: jump to Description must fail and
	// the step must stay put.
	err := w.JumpTo(StepDescription)
	assert.Equal(t, ErrJumpRejected, err)
	assert.Equal(t, StepBasics, w.Step())
	assert.Equal(t, "City is required", w.Errors()["city"])
}

func TestJumpTo_ForwardTargetItselfNotValidated(t *testing.T) {
	w := completedWizard()
	w.SetField("description", "")

	// Jump lands on Description even though Description is itself incomplete:
	// only steps in [current, target) are checked.
	require.NoError(t, w.JumpTo(StepDescription))
	assert.Equal(t, StepDescription, w.Step())
}

func TestJumpTo_OutOfRange(t *testing.T) {
	w := completedWizard()
	assert.Equal(t, ErrAtBoundary, w.JumpTo(Step(-1)))
	assert.Equal(t, ErrAtBoundary, w.JumpTo(Step(6)))
}

func TestSetField_ClearsOnlyTouchedError(t *testing.T) {
	w := New()
	require.Equal(t, ErrStepInvalid, w.Advance())
	require.Len(t, w.Errors(), 3)

	ok := w.SetField("title", "Sunset Gardens")
	require.True(t, ok)

	errs := w.Errors()
	_, hasTitle := errs["title"]
	assert.False(t, hasTitle)
	assert.Equal(t, "Property type is required", errs["property_type"])
	assert.Equal(t, "Syndicator is required", errs["syndicator_id"])
}

func TestSetField_UnknownNameIgnored(t *testing.T) {
	w := New()
	assert.False(t, w.SetField("no_such_field", "x"))
}

func TestSetFields_ReturnsApplied(t *testing.T) {
	w := New()
	applied := w.SetFields(map[string]string{
		"title": "Sunset Gardens",
		"bogus": "x",
		"city":  "Austin",
	})
	assert.ElementsMatch(t, []string{"title", "city"}, applied)
}

func TestBeginPublish_ValidationGate(t *testing.T) {
	w := New()
	fields, err := w.BeginPublish()
	assert.Equal(t, ErrStepInvalid, err)
	assert.NotEmpty(t, fields)
	assert.False(t, w.Publishing())
}

func TestBeginPublish_DisablesNavigation(t *testing.T) {
	w := completedWizard()
	fields, err := w.BeginPublish()
	require.NoError(t, err)
	assert.Nil(t, fields)
	assert.True(t, w.Publishing())

	assert.Equal(t, ErrPublishing, w.Advance())
	assert.Equal(t, ErrPublishing, w.Retreat())
	assert.Equal(t, ErrPublishing, w.JumpTo(StepBasics))

	_, err = w.BeginPublish()
	assert.Equal(t, ErrPublishing, err)

	w.EndPublish()
	assert.False(t, w.Publishing())
	require.NoError(t, w.Advance())
}

func TestRestore_ForcesImagesEmpty(t *testing.T) {
	f := completeForm()
	f.Images = []StagedImage{{FileName: "a.jpg"}, {FileName: "b.jpg"}}
	f.CoverImageIndex = 1

	w := Restore(f)
	form := w.FormCopy()
	assert.Empty(t, form.Images)
	assert.Equal(t, 0, form.CoverImageIndex)
	assert.Equal(t, "Sunset Gardens", form.Title)
	assert.Equal(t, StepBasics, w.Step())
}

func TestRestore_NilFallsBackToNew(t *testing.T) {
	w := Restore(nil)
	form := w.FormCopy()
	assert.Equal(t, []string{""}, form.Highlights)
}

func TestFormCopy_IsolatedSlices(t *testing.T) {
	w := completedWizard()
	cp := w.FormCopy()
	cp.Highlights[0] = "mutated"

	assert.Equal(t, "", w.FormCopy().Highlights[0])
}

func TestMarkSaved_RoundTrips(t *testing.T) {
	w := New()
	assert.True(t, w.LastSavedAt().IsZero())
	now := time.Now()
	w.MarkSaved(now)
	assert.Equal(t, now, w.LastSavedAt())
}
