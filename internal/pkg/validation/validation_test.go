package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidEmail(t *testing.T) {
	valid := []string{"jordan@example.com", "a.b+c@sub.example.co"}
	for _, e := range valid {
		assert.True(t, IsValidEmail(e), e)
	}
	invalid := []string{"", "plainaddress", "no@tld", "two@@example.com", "spaces in@example.com"}
	for _, e := range invalid {
		assert.False(t, IsValidEmail(e), e)
	}
}

func TestIsValidPassword(t *testing.T) {
	assert.True(t, IsValidPassword("Supersecret1!"))
	assert.True(t, IsValidPassword("abcd123$"))

	assert.False(t, IsValidPassword("Ab1!"), "too short")
	assert.False(t, IsValidPassword("lettersonly"), "no digit or special")
	assert.False(t, IsValidPassword("12345678!"), "no letter")
	assert.False(t, IsValidPassword("abcdefg1"), "no special")
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank("   "))
	assert.True(t, IsBlank("\t\n"))
	assert.False(t, IsBlank(" x "))
}

func TestParseNumeric(t *testing.T) {
	f, ok := ParseNumeric("50000")
	require.True(t, ok)
	assert.Equal(t, 50000.0, f)

	// Thousands separators are stripped before parsing.
	f, ok = ParseNumeric("5,000,000")
	require.True(t, ok)
	assert.Equal(t, 5000000.0, f)

	f, ok = ParseNumeric(" 8.5 ")
	require.True(t, ok)
	assert.Equal(t, 8.5, f)

	for _, s := range []string{"", "   ", "five", "1.2.3"} {
		_, ok := ParseNumeric(s)
		assert.False(t, ok, s)
	}
}

func TestParseOptionalNumeric(t *testing.T) {
	p, ok := ParseOptionalNumeric("")
	require.True(t, ok)
	assert.Nil(t, p)

	p, ok = ParseOptionalNumeric("17.5")
	require.True(t, ok)
	require.NotNil(t, p)
	assert.Equal(t, 17.5, *p)

	_, ok = ParseOptionalNumeric("five years")
	assert.False(t, ok)
}
