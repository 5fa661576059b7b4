package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusBadge(t *testing.T) {
	tests := []struct {
		status string
		label  string
		color  string
	}{
		{OrderStatusPending, "En attente", "warning"},
		{OrderStatusCompleted, "Payée", "success"},
		{OrderStatusFailed, "Échouée", "danger"},
		{OrderStatusRefunded, "Remboursée", "info"},
		{OrderStatusExpired, "Expirée", "muted"},
		{OrderStatusCancelled, "Annulée", "muted"},
	}

	for _, tt := range tests {
		badge := StatusBadge(tt.status)
		assert.Equal(t, tt.label, badge.Label, "statut %s", tt.status)
		assert.Equal(t, tt.color, badge.Color, "statut %s", tt.status)
	}
}

func TestIsInProgress(t *testing.T) {
	assert.True(t, IsInProgress(OrderStatusPending))

	// Une commande expirée ou annulée n'est plus en cours
	for _, status := range []string{
		OrderStatusCompleted, OrderStatusFailed, OrderStatusRefunded,
		OrderStatusExpired, OrderStatusCancelled,
	} {
		assert.False(t, IsInProgress(status), "statut %s", status)
	}
}

func TestOrderStatusesContainsAll(t *testing.T) {
	for _, status := range []string{
		OrderStatusPending, OrderStatusCompleted, OrderStatusFailed,
		OrderStatusRefunded, OrderStatusExpired, OrderStatusCancelled,
	} {
		assert.True(t, OrderStatuses[status], "statut %s absent", status)
	}
	assert.False(t, OrderStatuses["n-importe-quoi"])
}
