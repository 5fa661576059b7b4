package pay

import (
	"testing"

	"mgma_back_end/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestEventTarget(t *testing.T) {
	tests := []struct {
		event  string
		target string
		known  bool
	}{
		{"checkout.session.completed", models.OrderStatusCompleted, true},
		{"payment_intent.succeeded", models.OrderStatusCompleted, true},
		{"checkout.completed", models.OrderStatusCompleted, true},
		{"checkout.session.expired", models.OrderStatusExpired, true},
		{"checkout.expired", models.OrderStatusExpired, true},
		{"checkout.cancelled", models.OrderStatusCancelled, true},
		{"payment_intent.payment_failed", models.OrderStatusFailed, true},
		{"payment.failed", models.OrderStatusFailed, true},
		{"invoice.paid", "", false},
		{"customer.created", "", false},
	}

	for _, tt := range tests {
		target, known := EventTarget(tt.event)
		assert.Equal(t, tt.known, known, "événement %s", tt.event)
		assert.Equal(t, tt.target, target, "événement %s", tt.event)
	}
}

func TestCanTransitionFromPending(t *testing.T) {
	for _, target := range []string{
		models.OrderStatusCompleted,
		models.OrderStatusExpired,
		models.OrderStatusCancelled,
		models.OrderStatusFailed,
	} {
		assert.True(t, CanTransition(models.OrderStatusPending, target), "pending → %s", target)
	}
}

func TestCanTransitionTerminalStatesNeverRegress(t *testing.T) {
	terminals := []string{
		models.OrderStatusCompleted,
		models.OrderStatusFailed,
		models.OrderStatusRefunded,
		models.OrderStatusExpired,
		models.OrderStatusCancelled,
	}

	for _, current := range terminals {
		for _, target := range terminals {
			assert.False(t, CanTransition(current, target), "%s → %s", current, target)
		}
		// Un expired en retard n'écrase jamais un paiement confirmé
		assert.False(t, CanTransition(current, models.OrderStatusExpired))
	}
}

func TestCanTransitionDuplicateCompleted(t *testing.T) {
	// Livraison dupliquée d'un checkout.session.completed : no-op
	assert.False(t, CanTransition(models.OrderStatusCompleted, models.OrderStatusCompleted))
}

func TestCanTransitionRefundNotViaWebhook(t *testing.T) {
	// refunded est réservé au back-office, jamais une cible webhook
	assert.False(t, CanTransition(models.OrderStatusPending, models.OrderStatusRefunded))

	_, known := EventTarget("charge.refunded")
	assert.False(t, known)
}

func TestResolveLicenseCASApplied(t *testing.T) {
	key, reused := resolveLicenseCAS(true, map[string]interface{}{})

	assert.False(t, reused)
	assert.Empty(t, key)
}

func TestResolveLicenseCASReusesExistingKey(t *testing.T) {
	// Insert refusé : le couple (customer_email, product_id) détient déjà
	// une licence, livrée en double par deux webhooks concurrents
	previous := map[string]interface{}{
		"customer_email": "client@example.com",
		"product_id":     "7f3a2b10-0000-0000-0000-000000000000",
		"license_key":    "MGMA-APEX-30D-AB2C-DE3F",
	}

	key, reused := resolveLicenseCAS(false, previous)

	assert.True(t, reused)
	assert.Equal(t, "MGMA-APEX-30D-AB2C-DE3F", key)
}

func TestResolveLicenseCASMissingColumn(t *testing.T) {
	// Ligne concurrente incomplète : la dédup est signalée, la clé vide
	// fera échouer la relecture en aval
	key, reused := resolveLicenseCAS(false, map[string]interface{}{})

	assert.True(t, reused)
	assert.Empty(t, key)
}
