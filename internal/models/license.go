package models

import "time"

// Statuts possibles d'une licence
const (
	LicenseStatusUnused  = "unused"
	LicenseStatusActive  = "active"
	LicenseStatusExpired = "expired"
	LicenseStatusRevoked = "revoked"
)

type License struct {
	LicenseKey    string     `json:"license_key"`
	ProductID     string     `json:"product_id"`
	ProductName   string     `json:"product_name"`
	CustomerEmail string     `json:"customer_email"`
	Status        string     `json:"status"`
	Duration      string     `json:"duration"`
	OrderNumber   string     `json:"order_number,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"` // nil = lifetime
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// IsLifetime indique si la licence n'expire jamais
func (l License) IsLifetime() bool {
	return l.ExpiresAt == nil
}

// IsExpiredAt indique si la licence est arrivée à échéance au moment donné
func (l License) IsExpiredAt(now time.Time) bool {
	if l.ExpiresAt == nil {
		return false
	}
	return now.After(*l.ExpiresAt)
}
