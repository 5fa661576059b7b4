package utils

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateLicenseKeyFormat(t *testing.T) {
	key := GenerateLicenseKey("apex", "Lifetime Access")

	re := regexp.MustCompile(`^MGMA-APEX-LT-[A-Z2-9]{4}-[A-Z2-9]{4}$`)
	assert.Regexp(t, re, key)
}

func TestGenerateLicenseKeyShortSlug(t *testing.T) {
	key := GenerateLicenseKey("cs", "30 Days")
	assert.True(t, strings.HasPrefix(key, "MGMA-CS-30D-"))
}

func TestGenerateLicenseKeyNoAmbiguousChars(t *testing.T) {
	// L'alphabet exclut I, O, 0 et 1
	for i := 0; i < 50; i++ {
		key := GenerateLicenseKey("apex", "7 Days")
		random := strings.Join(strings.Split(key, "-")[3:], "")
		assert.NotContains(t, random, "I")
		assert.NotContains(t, random, "O")
		assert.NotContains(t, random, "0")
		assert.NotContains(t, random, "1")
	}
}

func TestDurationCode(t *testing.T) {
	tests := []struct {
		duration string
		want     string
	}{
		{"Lifetime Access", "LT"},
		{"Lifetime", "LT"},
		{"30 Days", "30D"},
		{"Accès 30 jours", "30D"},
		{"7 Days", "7D"},
		{"1 Day", "1D"},
		{"24h", "1D"},
		{"", "1D"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DurationCode(tt.duration), "duration %q", tt.duration)
	}
}

func TestLicenseExpiry(t *testing.T) {
	from := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Nil(t, LicenseExpiry("Lifetime Access", from))

	exp := LicenseExpiry("30 Days", from)
	require.NotNil(t, exp)
	assert.Equal(t, from.AddDate(0, 0, 30), *exp)

	exp = LicenseExpiry("7 Days", from)
	require.NotNil(t, exp)
	assert.Equal(t, from.AddDate(0, 0, 7), *exp)

	exp = LicenseExpiry("1 Day", from)
	require.NotNil(t, exp)
	assert.Equal(t, from.AddDate(0, 0, 1), *exp)
}

func TestGenerateOrderNumber(t *testing.T) {
	now := time.Date(2026, 9, 1, 15, 30, 0, 0, time.UTC)
	num := GenerateOrderNumber(now)

	re := regexp.MustCompile(`^MGMA-20260901-[A-Z2-9]{6}$`)
	assert.Regexp(t, re, num)
}

func TestGenerateLicenseKeyUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		key := GenerateLicenseKey("apex", "30 Days")
		assert.False(t, seen[key], "clé dupliquée: %s", key)
		seen[key] = true
	}
}
