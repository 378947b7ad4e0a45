package parse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sanketagarwal/email-verifier/internal/parse"
)

func TestNew_ASCII(t *testing.T) {
	e := parse.New("user@example.com")
	assert.Equal(t, "user@example.com", e.Normalized)
	assert.Equal(t, "user", e.Local)
	assert.Equal(t, "example.com", e.Domain)
	assert.Equal(t, "example.com", e.ASCIIDomain)
	assert.Equal(t, "com", e.TLD)
	assert.True(t, e.HasDomain())
}

func TestNew_NormalizesCaseAndWhitespace(t *testing.T) {
	e := parse.New("  User.Name@EXAMPLE.Com \t")
	assert.Equal(t, "  User.Name@EXAMPLE.Com \t", e.Raw)
	assert.Equal(t, "user.name@example.com", e.Normalized)
	assert.Equal(t, "user.name", e.Local)
	assert.Equal(t, "example.com", e.Domain)
}

func TestNew_NoSingleSeparator(t *testing.T) {
	for _, raw := range []string{"", "noatsign", "a@b@c.com"} {
		e := parse.New(raw)
		assert.False(t, e.HasDomain(), "expected no domain for %q", raw)
		assert.Empty(t, e.Local)
	}
}

func TestNew_IDNDomain(t *testing.T) {
	e := parse.New("user@münchen.de")
	assert.Equal(t, "münchen.de", e.Domain)
	assert.Equal(t, "xn--mnchen-3ya.de", e.ASCIIDomain)
	assert.Equal(t, "de", e.TLD)
}

func TestNew_NoDot(t *testing.T) {
	e := parse.New("user@localhost")
	assert.Equal(t, "localhost", e.Domain)
	assert.Empty(t, e.TLD)
}

func TestEmail_WithDomain(t *testing.T) {
	e := parse.New("user@gmial.com")
	assert.Equal(t, "user@gmail.com", e.WithDomain("gmail.com"))
}
