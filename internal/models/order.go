package models

import (
	"time"
)

// Statuts possibles d'une commande
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusFailed    = "failed"
	OrderStatusRefunded  = "refunded"
	OrderStatusExpired   = "expired"
	OrderStatusCancelled = "cancelled"
)

// OrderStatuses liste les statuts valides (validation côté admin)
var OrderStatuses = map[string]bool{
	OrderStatusPending:   true,
	OrderStatusCompleted: true,
	OrderStatusFailed:    true,
	OrderStatusRefunded:  true,
	OrderStatusExpired:   true,
	OrderStatusCancelled: true,
}

type Order struct {
	OrderNumber   string     `json:"order_number"`
	CustomerEmail string     `json:"customer_email"`
	ProductID     string     `json:"product_id"`
	ProductName   string     `json:"product_name"`
	ProductSlug   string     `json:"product_slug"`
	Duration      string     `json:"duration"`
	Amount        float64    `json:"amount"`
	Discount      float64    `json:"discount"`
	CouponCode    string     `json:"coupon_code,omitempty"`
	Currency      string     `json:"currency"`
	Status        string     `json:"status"`
	PaymentMethod string     `json:"payment_method"`
	PaymentRef    string     `json:"payment_ref,omitempty"` // ID de session/intent chez le provider
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// OrderBadge décrit le badge affiché dans le back-office pour un statut
type OrderBadge struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// StatusBadge retourne le badge UI correspondant à un statut de commande
func StatusBadge(status string) OrderBadge {
	switch status {
	case OrderStatusPending:
		return OrderBadge{Label: "En attente", Color: "warning"}
	case OrderStatusCompleted:
		return OrderBadge{Label: "Payée", Color: "success"}
	case OrderStatusFailed:
		return OrderBadge{Label: "Échouée", Color: "danger"}
	case OrderStatusRefunded:
		return OrderBadge{Label: "Remboursée", Color: "info"}
	case OrderStatusExpired:
		return OrderBadge{Label: "Expirée", Color: "muted"}
	case OrderStatusCancelled:
		return OrderBadge{Label: "Annulée", Color: "muted"}
	default:
		return OrderBadge{Label: status, Color: "muted"}
	}
}

// IsInProgress indique si la commande compte dans les "commandes en cours"
// du dashboard (les expirées/annulées en sont exclues)
func IsInProgress(status string) bool {
	return status == OrderStatusPending
}

func (o Order) Badge() OrderBadge {
	return StatusBadge(o.Status)
}
