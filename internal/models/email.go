package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Statuts d'un email de l'outbox
const (
	EmailStatusPending = "pending"
	EmailStatusSent    = "sent"
	EmailStatusFailed  = "failed"
)

// OutboundEmail est une ligne de l'outbox, vidée par POST /api/emails/process
type OutboundEmail struct {
	EmailID      gocql.UUID `json:"email_id"`
	OrderNumber  string     `json:"order_number"`
	ToEmail      string     `json:"to_email"`
	Subject      string     `json:"subject"`
	Template     string     `json:"template"` // "license_delivery", "order_refunded", ...
	TemplateData string     `json:"template_data"` // Payload JSON opaque
	Status       string     `json:"status"`
	Error        string     `json:"error,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	SentAt       *time.Time `json:"sent_at,omitempty"`
}

// LicenseEmailData est le payload attendu par le template license_delivery
type LicenseEmailData struct {
	OrderNumber string  `json:"orderNumber"`
	ProductName string  `json:"productName"`
	Duration    string  `json:"duration"`
	LicenseKey  string  `json:"licenseKey"`
	ExpiresAt   string  `json:"expiresAt"` // Vide = à vie
	TotalPaid   float64 `json:"totalPaid"`
}
