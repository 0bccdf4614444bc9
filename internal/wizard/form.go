package wizard

import (
	"strings"

	"github.com/google/uuid"
)

// PropertyTypes the wizard accepts in the Basics step.
var PropertyTypes = []string{
	"Multi-Family",
	"Office",
	"Retail",
	"Industrial",
	"Medical",
	"Student Housing",
	"Self-Storage",
	"Hospitality",
	"Land",
	"Mixed-Use",
}

// IsPropertyType reports whether s is a recognized property type.
func IsPropertyType(s string) bool {
	for _, t := range PropertyTypes {
		if t == s {
			return true
		}
	}
	return false
}

// StagedImage is one photo staged in the gallery prior to publish.
// Data is present only pre-upload; URL only post-upload.
type StagedImage struct {
	ID          uuid.UUID `json:"id"`
	FileName    string    `json:"file_name"`
	Title       string    `json:"title"`
	ContentType string    `json:"content_type"`
	Data        []byte    `json:"-"`
	URL         string    `json:"url,omitempty"`
	SizeBytes   int64     `json:"size_bytes"`
}

// FormState is the in-progress listing draft. Financial terms stay as raw
// numeric strings until publish, matching what the form inputs hold.
type FormState struct {
	Title        string `json:"title"`
	PropertyType string `json:"property_type"`
	SyndicatorID string `json:"syndicator_id"`

	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
	// Location is an optional explicit display string; publish composes
	// "city, state" when it is blank.
	Location string `json:"location"`

	MinimumInvestment string `json:"minimum_investment"`
	TotalEquity       string `json:"total_equity"`
	TargetIRR         string `json:"target_irr"`
	InvestmentTerm    string `json:"investment_term"`
	PreferredReturn   string `json:"preferred_return"`
	EquityMultiple    string `json:"equity_multiple"`

	Description string   `json:"description"`
	Highlights  []string `json:"investment_highlights"`

	Images          []StagedImage `json:"images"`
	CoverImageIndex int           `json:"cover_image_index"`

	VideoURL string `json:"video_url"`
}

// NewFormState returns the wizard defaults: one empty highlight slot, empty
// image list, cover index 0.
func NewFormState() *FormState {
	return &FormState{
		Highlights: []string{""},
	}
}

// HasContent reports whether the draft is worth snapshotting: auto-save only
// runs while title or description is non-empty.
func (f *FormState) HasContent() bool {
	return strings.TrimSpace(f.Title) != "" || strings.TrimSpace(f.Description) != ""
}

// SetHighlight replaces the highlight at index i.
func (f *FormState) SetHighlight(i int, v string) bool {
	if i < 0 || i >= len(f.Highlights) {
		return false
	}
	f.Highlights[i] = v
	return true
}

// AddHighlight appends an empty highlight slot.
func (f *FormState) AddHighlight() {
	f.Highlights = append(f.Highlights, "")
}

// RemoveHighlight removes the highlight at index i, keeping at least one slot.
func (f *FormState) RemoveHighlight(i int) bool {
	if i < 0 || i >= len(f.Highlights) || len(f.Highlights) == 1 {
		return false
	}
	f.Highlights = append(f.Highlights[:i], f.Highlights[i+1:]...)
	return true
}

// FilledHighlights returns the highlights with blank entries filtered out,
// in order. Used by the publish payload.
func (f *FormState) FilledHighlights() []string {
	out := make([]string, 0, len(f.Highlights))
	for _, h := range f.Highlights {
		if strings.TrimSpace(h) != "" {
			out = append(out, h)
		}
	}
	return out
}

// DisplayLocation returns the explicit location string or "city, state".
func (f *FormState) DisplayLocation() string {
	if strings.TrimSpace(f.Location) != "" {
		return f.Location
	}
	return f.City + ", " + f.State
}

// ApplyField sets a scalar form field by its JSON name and returns the set
// of error keys the mutation invalidates. Unknown names are ignored.
func (f *FormState) ApplyField(name, value string) (touched []string, ok bool) {
	switch name {
	case "title":
		f.Title = value
	case "property_type":
		f.PropertyType = value
	case "syndicator_id":
		f.SyndicatorID = value
	case "street":
		f.Street = value
	case "city":
		f.City = value
	case "state":
		f.State = value
	case "zip":
		f.Zip = value
	case "location":
		f.Location = value
	case "minimum_investment":
		f.MinimumInvestment = value
	case "total_equity":
		f.TotalEquity = value
	case "target_irr":
		f.TargetIRR = value
	case "investment_term":
		f.InvestmentTerm = value
	case "preferred_return":
		f.PreferredReturn = value
	case "equity_multiple":
		f.EquityMultiple = value
	case "description":
		f.Description = value
	case "video_url":
		f.VideoURL = value
	default:
		return nil, false
	}
	return []string{name}, true
}
