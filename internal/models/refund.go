package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Statuts d'un remboursement
const (
	RefundStatusPending   = "pending"
	RefundStatusProcessed = "processed"
	RefundStatusRejected  = "rejected"
)

// Refund trace un remboursement initié depuis le back-office
// (completed → refunded, jamais déclenché par webhook)
type Refund struct {
	RefundID      gocql.UUID `json:"refund_id"`
	OrderNumber   string     `json:"order_number"`
	CustomerEmail string     `json:"customer_email"`
	Amount        float64    `json:"amount"`
	Reason        string     `json:"reason"`
	Status        string     `json:"status"`
	ProviderRef   string     `json:"provider_ref,omitempty"` // ID du refund Stripe
	ProcessedBy   string     `json:"processed_by,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
}
