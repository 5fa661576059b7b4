package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

// Préfixe de toutes les clés vendues par la boutique
const LicenseKeyPrefix = "MGMA"

// Alphabet de 32 symboles sans caractères ambigus (pas de I, O, 0, 1)
const keyAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// DurationCode retourne le segment de durée d'une clé à partir du libellé
// affiché en boutique ("Lifetime Access", "30 Days", "Accès 7 jours", ...)
func DurationCode(duration string) string {
	switch {
	case strings.Contains(duration, "Lifetime"):
		return "LT"
	case strings.Contains(duration, "30"):
		return "30D"
	case strings.Contains(duration, "7"):
		return "7D"
	default:
		return "1D"
	}
}

// GenerateLicenseKey produit une clé au format MGMA-PROD4-DUR-XXXX-XXXX
// PROD4 = 4 premiers caractères du slug en majuscules. Pas de vérification
// de collision : l'espace 32^8 rend le risque négligeable.
func GenerateLicenseKey(productSlug, duration string) string {
	prod := strings.ToUpper(productSlug)
	if len(prod) > 4 {
		prod = prod[:4]
	}

	return fmt.Sprintf("%s-%s-%s-%s-%s",
		LicenseKeyPrefix, prod, DurationCode(duration), randomSegment(4), randomSegment(4))
}

// LicenseExpiry calcule la date d'expiration d'une licence à partir du
// libellé de durée ; nil = licence à vie
func LicenseExpiry(duration string, from time.Time) *time.Time {
	var expires time.Time
	switch DurationCode(duration) {
	case "LT":
		return nil
	case "30D":
		expires = from.AddDate(0, 0, 30)
	case "7D":
		expires = from.AddDate(0, 0, 7)
	default:
		expires = from.AddDate(0, 0, 1)
	}
	return &expires
}

// GenerateOrderNumber produit un numéro de commande lisible : MGMA-20260901-X7K2P9
func GenerateOrderNumber(now time.Time) string {
	return fmt.Sprintf("%s-%s-%s", LicenseKeyPrefix, now.Format("20060102"), randomSegment(6))
}

// randomSegment tire n symboles de l'alphabet via crypto/rand
func randomSegment(n int) string {
	max := big.NewInt(int64(len(keyAlphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand ne doit jamais échouer en pratique
			idx = big.NewInt(int64(i) % int64(len(keyAlphabet)))
		}
		b[i] = keyAlphabet[idx.Int64()]
	}
	return string(b)
}
