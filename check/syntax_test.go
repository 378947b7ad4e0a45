package check_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanketagarwal/email-verifier/check"
	"github.com/sanketagarwal/email-verifier/internal/parse"
	"github.com/sanketagarwal/email-verifier/types"
)

func TestValidateSyntax(t *testing.T) {
	tests := []struct {
		name       string
		email      string
		wantReason string // empty means valid
	}{
		{"valid simple", "user@example.com", ""},
		{"valid with plus", "user+tag@example.com", ""},
		{"valid with dots", "first.last@example.com", ""},
		{"valid subdomain", "user@mail.example.co.uk", ""},
		{"valid padded upper case", "  User@Example.COM  ", ""},

		{"empty", "", check.ReasonEmpty},
		{"whitespace only", " \t ", check.ReasonEmpty},
		{"too long", strings.Repeat("a", 250) + "@example.com", check.ReasonTooLong},
		{"no at sign", "not-an-email", check.ReasonMissingAt},
		{"two at signs", "a@b@c.com", check.ReasonMultipleAt},
		{"only at signs", "@@", check.ReasonMultipleAt},
		{"no local", "@example.com", check.ReasonLocalLength},
		{"local too long", strings.Repeat("a", 65) + "@example.com", check.ReasonLocalLength},
		{"leading dot local", ".user@example.com", check.ReasonLocalDots},
		{"trailing dot local", "user.@example.com", check.ReasonLocalDots},
		{"double dot local", "user..name@example.com", check.ReasonLocalDots},
		{"no domain", "user@", check.ReasonMissingTLD},
		{"dotless domain", "user@localhost", check.ReasonMissingTLD},
		{"one letter TLD", "user@example.c", check.ReasonShortTLD},
		{"trailing dot domain", "user@example.com.", check.ReasonShortTLD},
		{"leading dot domain", "user@.example.com", check.ReasonDomainEdges},
		{"leading hyphen domain", "user@-example.com", check.ReasonDomainEdges},
		{"trailing hyphen domain", "user@example.com-", check.ReasonDomainEdges},
		{"inner whitespace", "us er@example.com", check.ReasonInvalidFormat},

		{"multibyte local within 64 characters", strings.Repeat("é", 40) + "@example.com", ""},
		{"multibyte address within 254 characters", strings.Repeat("é", 60) + "@" + strings.Repeat("é", 120) + ".com", ""},
		{"multibyte local over 64 characters", strings.Repeat("é", 65) + "@example.com", check.ReasonLocalLength},
		{"one character multibyte TLD", "user@example.é", check.ReasonShortTLD},
		{"two character multibyte TLD", "user@example.éé", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := check.ValidateSyntax(tt.email)
			if tt.wantReason == "" {
				assert.NoError(t, err)
				return
			}
			var se *check.SyntaxError
			require.True(t, errors.As(err, &se), "expected SyntaxError, got %v", err)
			assert.Equal(t, tt.wantReason, se.Reason)
		})
	}
}

func TestValidateSyntax_Precedence(t *testing.T) {
	// local dots are reported before the missing TLD
	err := check.ValidateSyntax(".a@localhost")
	var se *check.SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, check.ReasonLocalDots, se.Reason)

	// length wins over everything else
	err = check.ValidateSyntax(strings.Repeat("@", 300))
	require.ErrorAs(t, err, &se)
	assert.Equal(t, check.ReasonTooLong, se.Reason)
}

func TestSyntaxChecker(t *testing.T) {
	c := check.NewSyntaxChecker()
	ctx := context.Background()

	v := c.Check(ctx, parse.New("user@example.com"))
	assert.False(t, v.Final)
	assert.Equal(t, check.StageSyntax, v.Stage)

	v = c.Check(ctx, parse.New(" Not-An-Email "))
	assert.True(t, v.Final)
	assert.Equal(t, types.StatusInvalid, v.Outcome.Status)
	assert.Equal(t, check.ReasonMissingAt, v.Outcome.Reason)
	assert.Equal(t, "not-an-email", v.Outcome.Email)
}
