package validation

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// IsValidPassword requires at least 8 characters with a letter, a number and
// a special character.
func IsValidPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLetter, hasDigit, hasSpecial := false, false, false
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}
	return hasLetter && hasDigit && hasSpecial
}

// IsBlank reports whether s is empty after trimming whitespace. Wizard fields
// arrive as raw form strings, so "  " counts as missing.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ParseNumeric parses a wizard numeric-string field ("50000", "8.5").
// Returns ok=false for blank or malformed input.
func ParseNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ParseOptionalNumeric is ParseNumeric for optional fields: blank input maps
// to nil rather than an error, malformed input still fails.
func ParseOptionalNumeric(s string) (*float64, bool) {
	if IsBlank(s) {
		return nil, true
	}
	f, ok := ParseNumeric(s)
	if !ok {
		return nil, false
	}
	return &f, true
}
