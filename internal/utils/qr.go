package utils

import (
	"encoding/base64"

	"github.com/skip2/go-qrcode"
)

// GenerateLicenseQR encode une clé de licence en QR PNG (import direct dans le loader)
func GenerateLicenseQR(licenseKey string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(licenseKey, qrcode.Medium, size)
}

// GenerateLicenseQRBase64 retourne le QR prêt à mettre dans un <img src="...">
func GenerateLicenseQRBase64(licenseKey string) (string, error) {
	png, err := GenerateLicenseQR(licenseKey, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
