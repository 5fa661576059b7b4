package admin

import (
	"net/http"

	"mgma_back_end/internal/database"
	"mgma_back_end/internal/models"

	"github.com/gin-gonic/gin"
)

// GetWebhookEvents - GET /api/admin/webhooks
// Journal des webhooks reçus, filtrable par ?outcome= et ?provider=
func GetWebhookEvents(c *gin.Context) {
	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	outcomeFilter := c.Query("outcome")
	providerFilter := c.Query("provider")

	events := []models.WebhookEvent{}
	iter := session.Query(`SELECT event_id, provider, event_type, order_ref, payload, outcome, outcome_msg, received_at
		FROM webhook_events LIMIT 200`).Iter()

	var e models.WebhookEvent
	for iter.Scan(&e.EventID, &e.Provider, &e.EventType, &e.OrderRef, &e.Payload,
		&e.Outcome, &e.OutcomeMsg, &e.ReceivedAt) {
		if outcomeFilter != "" && e.Outcome != outcomeFilter {
			continue
		}
		if providerFilter != "" && e.Provider != providerFilter {
			continue
		}
		events = append(events, e)
		e = models.WebhookEvent{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture événements"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "events": events})
}
