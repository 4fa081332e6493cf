package service

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateEnforcesBudget(t *testing.T) {
	s := NewPDFService(10)

	assert.Equal(t, "short", s.Truncate("short"))
	assert.Equal(t, "0123456789", s.Truncate("0123456789 and more"))
}

func TestTruncateKeepsRuneBoundary(t *testing.T) {
	s := NewPDFService(5)

	// byte 5 lands mid-rune; the cut must back off to the rune start
	truncated := s.Truncate("abéé")
	assert.Equal(t, "abé", truncated)
	assert.True(t, utf8.ValidString(truncated))
}

func TestNewPDFServiceDefaultsBudget(t *testing.T) {
	s := NewPDFService(0)

	long := strings.Repeat("x", DefaultMaxDocChars+100)
	assert.Len(t, s.Truncate(long), DefaultMaxDocChars)
}

func TestCleanTextStripsControlCharacters(t *testing.T) {
	s := NewPDFService(0)

	cleaned := s.cleanText("page one\f\rpage two  here ")
	assert.Equal(t, "page one\npage two here", cleaned)
}
