package patterns_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sanketagarwal/email-verifier/internal/patterns"
)

func TestIsDisposable(t *testing.T) {
	assert.True(t, patterns.IsDisposable("mailinator.com"))
	assert.True(t, patterns.IsDisposable("YOPMAIL.COM"))
	assert.False(t, patterns.IsDisposable("gmail.com"))
	assert.False(t, patterns.IsDisposable(""))
	assert.Greater(t, patterns.DisposableCount(), 50)
}

func TestDisposableListSkipsComments(t *testing.T) {
	assert.False(t, patterns.IsDisposable("# known disposable / temporary email providers."))
}

func TestIsRole(t *testing.T) {
	for _, local := range []string{"info", "admin", "support", "noreply", "sales", "Postmaster"} {
		assert.True(t, patterns.IsRole(local), local)
	}
	assert.False(t, patterns.IsRole("jane.doe"))
	assert.False(t, patterns.IsRole("info2"))
}

func TestTypoCorrection(t *testing.T) {
	fixed, ok := patterns.TypoCorrection("gmial.com")
	assert.True(t, ok)
	assert.Equal(t, "gmail.com", fixed)

	_, ok = patterns.TypoCorrection("gmail.com")
	assert.False(t, ok)
}

func TestTypoTargetsAreNotTypos(t *testing.T) {
	for _, p := range patterns.Providers {
		_, ok := patterns.TypoCorrection(p)
		assert.False(t, ok, "provider %s is listed as a typo", p)
		assert.False(t, patterns.IsDisposable(p), "provider %s is listed as disposable", p)
	}
}
