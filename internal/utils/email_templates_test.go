package utils

import (
	"testing"

	"mgma_back_end/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestGenerateLicenseDeliveryHTML(t *testing.T) {
	html := GenerateLicenseDeliveryHTML(models.LicenseEmailData{
		OrderNumber: "MGMA-20260901-X7K2P9",
		ProductName: "Apex External",
		Duration:    "30 Days",
		LicenseKey:  "MGMA-APEX-30D-AB2C-DE4F",
		ExpiresAt:   "01/10/2026",
		TotalPaid:   29.99,
	})

	assert.Contains(t, html, "MGMA-APEX-30D-AB2C-DE4F")
	assert.Contains(t, html, "MGMA-20260901-X7K2P9")
	assert.Contains(t, html, "Apex External")
	assert.Contains(t, html, "29.99")
	assert.Contains(t, html, "01/10/2026")
}

func TestGenerateLicenseDeliveryHTMLLifetime(t *testing.T) {
	html := GenerateLicenseDeliveryHTML(models.LicenseEmailData{
		OrderNumber: "MGMA-20260901-AAAAAA",
		ProductName: "Apex External",
		Duration:    "Lifetime Access",
		LicenseKey:  "MGMA-APEX-LT-AB2C-DE4F",
		TotalPaid:   99.99,
	})

	// Pas de ligne d'expiration pour une licence à vie
	assert.Contains(t, html, "MGMA-APEX-LT-AB2C-DE4F")
	assert.NotContains(t, html, "Expire le")
}

func TestGenerateRefundHTML(t *testing.T) {
	html := GenerateRefundHTML("MGMA-20260901-X7K2P9", 29.99)

	assert.Contains(t, html, "MGMA-20260901-X7K2P9")
	assert.Contains(t, html, "29.99")
}
