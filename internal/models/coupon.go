package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Coupon struct {
	ID              gocql.UUID `json:"id"`
	Code            string     `json:"code"` // Stocké en majuscules, matché sans casse
	DiscountPercent float64    `json:"discount_percent"`
	MaxUses         int        `json:"max_uses"` // 0 = illimité
	CurrentUses     int        `json:"current_uses"`
	IsActive        bool       `json:"is_active"`
	ValidUntil      time.Time  `json:"valid_until"`
	CreatedBy       string     `json:"created_by"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type CouponValidation struct {
	IsValid         bool    `json:"is_valid"`
	ErrorMessage    string  `json:"error_message,omitempty"`
	Code            string  `json:"code,omitempty"`
	DiscountPercent float64 `json:"discount_percent"`
	Discount        float64 `json:"discount"` // Montant de la réduction pour le total donné
}
