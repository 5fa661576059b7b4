package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLicenseIsLifetime(t *testing.T) {
	assert.True(t, License{}.IsLifetime())

	exp := time.Now().Add(24 * time.Hour)
	assert.False(t, License{ExpiresAt: &exp}.IsLifetime())
}

func TestLicenseIsExpiredAt(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	// Une lifetime n'expire jamais
	assert.False(t, License{}.IsExpiredAt(now))

	past := now.Add(-time.Minute)
	assert.True(t, License{ExpiresAt: &past}.IsExpiredAt(now))

	future := now.Add(time.Minute)
	assert.False(t, License{ExpiresAt: &future}.IsExpiredAt(now))
}
