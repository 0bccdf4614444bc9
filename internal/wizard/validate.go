package wizard

import (
	"equitymd-backend/internal/pkg/validation"
)

// Step identifies one of the six wizard steps.
type Step int

const (
	StepBasics Step = iota
	StepLocation
	StepInvestment
	StepDescription
	StepMedia
	StepReview

	stepCount = 6
)

func (s Step) String() string {
	switch s {
	case StepBasics:
		return "Basics"
	case StepLocation:
		return "Location"
	case StepInvestment:
		return "Investment Terms"
	case StepDescription:
		return "Description"
	case StepMedia:
		return "Media"
	case StepReview:
		return "Review"
	}
	return "Unknown"
}

// FieldErrors maps field name to a user-facing message.
type FieldErrors map[string]string

func validateBasics(f *FormState) FieldErrors {
	errs := FieldErrors{}
	if validation.IsBlank(f.Title) {
		errs["title"] = "Title is required"
	}
	if validation.IsBlank(f.PropertyType) {
		errs["property_type"] = "Property type is required"
	} else if !IsPropertyType(f.PropertyType) {
		errs["property_type"] = "Unrecognized property type"
	}
	if validation.IsBlank(f.SyndicatorID) {
		errs["syndicator_id"] = "Syndicator is required"
	}
	return errs
}

func validateLocation(f *FormState) FieldErrors {
	errs := FieldErrors{}
	if validation.IsBlank(f.City) {
		errs["city"] = "City is required"
	}
	if validation.IsBlank(f.State) {
		errs["state"] = "State is required"
	}
	return errs
}

func validateInvestment(f *FormState) FieldErrors {
	errs := FieldErrors{}
	if validation.IsBlank(f.MinimumInvestment) {
		errs["minimum_investment"] = "Minimum investment is required"
	} else if _, ok := validation.ParseNumeric(f.MinimumInvestment); !ok {
		errs["minimum_investment"] = "Minimum investment must be a number"
	}
	if validation.IsBlank(f.TotalEquity) {
		errs["total_equity"] = "Total equity is required"
	} else if _, ok := validation.ParseNumeric(f.TotalEquity); !ok {
		errs["total_equity"] = "Total equity must be a number"
	}
	// Optional terms only need to parse when present.
	optional := map[string]string{
		"target_irr":       f.TargetIRR,
		"investment_term":  f.InvestmentTerm,
		"preferred_return": f.PreferredReturn,
		"equity_multiple":  f.EquityMultiple,
	}
	for field, raw := range optional {
		if _, ok := validation.ParseOptionalNumeric(raw); !ok {
			errs[field] = "Must be a number"
		}
	}
	return errs
}

func validateDescription(f *FormState) FieldErrors {
	errs := FieldErrors{}
	if validation.IsBlank(f.Description) {
		errs["description"] = "Description is required"
	}
	return errs
}

// validateMedia has no required fields; staged images are optional.
func validateMedia(f *FormState) FieldErrors {
	return FieldErrors{}
}

// ValidateStep runs the validator for one step. Review re-runs everything.
func ValidateStep(s Step, f *FormState) FieldErrors {
	switch s {
	case StepBasics:
		return validateBasics(f)
	case StepLocation:
		return validateLocation(f)
	case StepInvestment:
		return validateInvestment(f)
	case StepDescription:
		return validateDescription(f)
	case StepMedia:
		return validateMedia(f)
	case StepReview:
		return ValidateAll(f)
	}
	return FieldErrors{}
}

// ValidateAll is the full-form validator: the union of every step's errors.
// Submission requires it to pass regardless of prior per-step validation.
func ValidateAll(f *FormState) FieldErrors {
	errs := FieldErrors{}
	for s := StepBasics; s < StepReview; s++ {
		for k, v := range ValidateStep(s, f) {
			errs[k] = v
		}
	}
	return errs
}
