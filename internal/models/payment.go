package models

import "time"

// Statuts d'une session de paiement côté provider
const (
	SessionStatusPending = "pending"
	SessionStatusPaid    = "paid"
	SessionStatusExpired = "expired"
	SessionStatusFailed  = "failed"
)

// PaymentSession est un instantané de session provider, purement un cache
// (Redis avec TTL) devant l'API de statut du provider, aucune donnée durable
type PaymentSession struct {
	SessionID     string     `json:"session_id"`
	OrderNumber   string     `json:"order_number"`
	Amount        float64    `json:"amount"`
	Currency      string     `json:"currency"`
	Status        string     `json:"status"`
	CustomerEmail string     `json:"customer_email"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// WebhookEvent est la trace d'un webhook reçu, pour l'écran admin et le debug
type WebhookEvent struct {
	EventID    string    `json:"event_id"`
	Provider   string    `json:"provider"` // "stripe" ou "moneymotion"
	EventType  string    `json:"event_type"`
	OrderRef   string    `json:"order_ref,omitempty"`
	Payload    string    `json:"payload"`
	Outcome    string    `json:"outcome"` // "processed", "ignored", "error"
	OutcomeMsg string    `json:"outcome_msg,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
}

// PurchaseItem est la ligne de panier passée à processPurchase
type PurchaseItem struct {
	ProductID     string  `json:"productId"`
	ProductName   string  `json:"productName"`
	ProductSlug   string  `json:"productSlug"`
	Duration      string  `json:"duration"`
	Price         float64 `json:"price"`
	CustomerEmail string  `json:"customerEmail"`
	CouponCode    string  `json:"couponCode,omitempty"`
}

// PurchaseResult est le retour de processPurchase
type PurchaseResult struct {
	Success     bool   `json:"success"`
	OrderNumber string `json:"orderNumber,omitempty"`
	CheckoutURL string `json:"checkoutUrl,omitempty"`
	LicenseKey  string `json:"licenseKey,omitempty"`
	Error       string `json:"error,omitempty"`
}
