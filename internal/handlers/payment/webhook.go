package pay

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"mgma_back_end/internal/cache"
	"mgma_back_end/internal/database"
	"mgma_back_end/internal/handlers/emails"
	"mgma_back_end/internal/models"
	"mgma_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/webhook"
)

// eventTargets : événement normalisé → statut cible d'une commande.
// Les noms Stripe et MoneyMotion sont ramenés au même vocabulaire.
var eventTargets = map[string]string{
	"checkout.session.completed":    models.OrderStatusCompleted,
	"checkout.completed":            models.OrderStatusCompleted,
	"payment_intent.succeeded":      models.OrderStatusCompleted,
	"payment.completed":             models.OrderStatusCompleted,
	"checkout.session.expired":      models.OrderStatusExpired,
	"checkout.expired":              models.OrderStatusExpired,
	"session.expired":               models.OrderStatusExpired,
	"checkout.cancelled":            models.OrderStatusCancelled,
	"payment_intent.canceled":       models.OrderStatusCancelled,
	"payment_intent.payment_failed": models.OrderStatusFailed,
	"payment.failed":                models.OrderStatusFailed,
}

// EventTarget retourne le statut cible d'un événement provider, ok=false
// pour les événements qu'on ignore
func EventTarget(event string) (string, bool) {
	target, ok := eventTargets[event]
	return target, ok
}

// CanTransition garde la table de transitions : seul pending bouge par
// webhook. Un événement en retard ou dupliqué (expired après completed,
// double completed) est un no-op, jamais de régression de statut.
func CanTransition(current, target string) bool {
	if current != models.OrderStatusPending {
		return false
	}
	switch target {
	case models.OrderStatusCompleted, models.OrderStatusExpired,
		models.OrderStatusCancelled, models.OrderStatusFailed:
		return true
	}
	return false
}

// StripeWebhook - POST /api/payments/webhook
func StripeWebhook(c *gin.Context) {
	const MaxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

	payload, err := c.GetRawData()
	if err != nil {
		log.Println("❌ Lecture payload échouée:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Échec lecture body"})
		return
	}

	secret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	var event stripe.Event

	if secret == "" {
		log.Println("⚠️ Pas de STRIPE_WEBHOOK_SECRET, mode test")
		if err := json.Unmarshal(payload, &event); err != nil {
			log.Println("❌ JSON invalide:", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "JSON invalide"})
			return
		}
	} else {
		event, err = webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), secret)
		if err != nil {
			log.Println("❌ Signature Stripe invalide:", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Signature invalide"})
			return
		}
	}

	eventType := string(event.Type)
	log.Printf("📥 Événement Stripe reçu : %s", eventType)

	orderNumber, sessionID, paidAt := extractStripeRefs(event)

	target, known := EventTarget(eventType)
	if !known {
		logWebhookEvent("stripe", event.ID, eventType, orderNumber, string(payload), "ignored", "")
		c.JSON(http.StatusOK, gin.H{"success": true, "received": true})
		return
	}

	if orderNumber == "" {
		logWebhookEvent("stripe", event.ID, eventType, "", string(payload), "error", "order_number manquant dans les metadata")
		c.JSON(http.StatusBadRequest, gin.H{"error": "order_number manquant"})
		return
	}

	if err := applyOrderEvent(orderNumber, target, sessionID, paidAt); err != nil {
		logWebhookEvent("stripe", event.ID, eventType, orderNumber, string(payload), "error", err.Error())
		if err == errOrderNotFound {
			// 404 → Stripe retentera la livraison
			c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur traitement webhook"})
		return
	}

	logWebhookEvent("stripe", event.ID, eventType, orderNumber, string(payload), "processed", "")
	c.JSON(http.StatusOK, gin.H{"success": true, "received": true})
}

// extractStripeRefs récupère (order_number, session_id, paid_at) selon le type d'objet
func extractStripeRefs(event stripe.Event) (string, string, *time.Time) {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err == nil && sess.Metadata != nil {
		if num, ok := sess.Metadata["order_number"]; ok {
			var paidAt *time.Time
			if sess.Status == stripe.CheckoutSessionStatusComplete {
				t := time.Now()
				paidAt = &t
			}
			return num, sess.ID, paidAt
		}
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err == nil && pi.Metadata != nil {
		if num, ok := pi.Metadata["order_number"]; ok {
			return num, pi.ID, nil
		}
	}

	return "", "", nil
}

// MoneyMotionWebhook - POST /api/payments/moneymotion/webhook
// Body: { event, order_number | external_id | metadata.order_id, paid_at? }
func MoneyMotionWebhook(c *gin.Context) {
	var body struct {
		Event       string `json:"event" binding:"required"`
		OrderNumber string `json:"order_number"`
		ExternalID  string `json:"external_id"`
		SessionID   string `json:"session_id"`
		PaidAt      string `json:"paid_at"`
		Metadata    struct {
			OrderID string `json:"order_id"`
		} `json:"metadata"`
	}

	raw, _ := c.GetRawData()
	if err := json.Unmarshal(raw, &body); err != nil || body.Event == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payload invalide"})
		return
	}

	log.Printf("📥 Événement MoneyMotion reçu : %s", body.Event)

	// Le numéro de commande arrive sous trois noms selon la version du provider
	orderNumber := body.OrderNumber
	if orderNumber == "" {
		orderNumber = body.ExternalID
	}
	if orderNumber == "" {
		orderNumber = body.Metadata.OrderID
	}

	target, known := EventTarget(body.Event)
	if !known {
		logWebhookEvent("moneymotion", "", body.Event, orderNumber, string(raw), "ignored", "")
		c.JSON(http.StatusOK, gin.H{"success": true, "received": true})
		return
	}

	if orderNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Référence de commande manquante"})
		return
	}

	var paidAt *time.Time
	if body.PaidAt != "" {
		if t, err := time.Parse(time.RFC3339, body.PaidAt); err == nil {
			paidAt = &t
		}
	}

	if err := applyOrderEvent(orderNumber, target, body.SessionID, paidAt); err != nil {
		logWebhookEvent("moneymotion", "", body.Event, orderNumber, string(raw), "error", err.Error())
		if err == errOrderNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur traitement webhook"})
		return
	}

	logWebhookEvent("moneymotion", "", body.Event, orderNumber, string(raw), "processed", "")
	c.JSON(http.StatusOK, gin.H{"success": true, "received": true})
}

var errOrderNotFound = gocql.ErrNotFound

// applyOrderEvent applique un événement normalisé à une commande
func applyOrderEvent(orderNumber, target, sessionID string, paidAt *time.Time) error {
	order, err := getOrderByNumber(orderNumber)
	if err != nil {
		log.Printf("⚠️ Commande %s introuvable", orderNumber)
		return errOrderNotFound
	}

	if !CanTransition(order.Status, target) {
		// Livraison dupliquée ou hors ordre : no-op, pas de second email
		log.Printf("🔁 Événement ignoré pour %s (statut %s, cible %s)", orderNumber, order.Status, target)
		return nil
	}

	if target != models.OrderStatusCompleted {
		if err := updateOrderStatus(order, target, nil); err != nil {
			return err
		}
		if sessionID != "" {
			cache.InvalidatePaymentSession(sessionID)
		}
		log.Printf("✅ Commande %s → %s", orderNumber, target)
		return nil
	}

	return completeOrder(order, sessionID, paidAt)
}

// completeOrder déroule le chemin de complétion : statut, licence (dédup LWT),
// outbox email, cache session, feed temps réel
func completeOrder(order *models.Order, sessionID string, paidAt *time.Time) error {
	now := time.Now()
	if paidAt == nil {
		paidAt = &now
	}

	if err := updateOrderStatus(order, models.OrderStatusCompleted, paidAt); err != nil {
		return err
	}
	log.Printf("✅ Commande %s payée (%.2f€)", order.OrderNumber, order.Amount)

	license, reused, err := activateOrReuseLicense(*order)
	if err != nil {
		log.Printf("❌ Erreur licence pour %s: %v", order.OrderNumber, err)
		return err
	}
	if reused {
		log.Printf("🔁 Licence existante réutilisée pour %s / %s", order.CustomerEmail, order.ProductName)
	} else {
		log.Printf("🔑 Licence générée: %s", license.LicenseKey)
	}

	if err := emails.EnqueueLicenseEmail(*order, *license); err != nil {
		log.Printf("⚠️ Erreur enqueue email pour %s: %v", order.OrderNumber, err)
	} else {
		emails.TriggerDrain()
	}

	if sessionID != "" {
		cache.MarkSessionPaid(sessionID, *paidAt)
	}

	publishOrderEvent(*order)
	return nil
}

// activateOrReuseLicense garantit au plus une licence par couple
// (customer_email, product_id) : l'insert LWT dans licenses_by_customer
// est le verrou, même sous livraisons webhook concurrentes
func activateOrReuseLicense(order models.Order) (*models.License, bool, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, false, err
	}

	key := utils.GenerateLicenseKey(order.ProductSlug, order.Duration)
	now := time.Now()
	expiresAt := utils.LicenseExpiry(order.Duration, now)

	previous := map[string]interface{}{}
	applied, err := session.Query(
		"INSERT INTO licenses_by_customer (customer_email, product_id, license_key) VALUES (?, ?, ?) IF NOT EXISTS",
		order.CustomerEmail, order.ProductID, key,
	).MapScanCAS(previous)
	if err != nil {
		return nil, false, err
	}

	if existingKey, reused := resolveLicenseCAS(applied, previous); reused {
		// Dédup : une licence existe déjà pour ce couple, on la renvoie
		existing, err := getLicenseByKey(existingKey)
		if err != nil {
			return nil, false, err
		}
		return existing, true, nil
	}

	license := models.License{
		LicenseKey:    key,
		ProductID:     order.ProductID,
		ProductName:   order.ProductName,
		CustomerEmail: order.CustomerEmail,
		Status:        models.LicenseStatusActive,
		Duration:      order.Duration,
		OrderNumber:   order.OrderNumber,
		ExpiresAt:     expiresAt,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	query := `INSERT INTO licenses (license_key, product_id, product_name, customer_email, status, duration, order_number, expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if err := session.Query(query,
		license.LicenseKey, license.ProductID, license.ProductName, license.CustomerEmail,
		license.Status, license.Duration, license.OrderNumber, license.ExpiresAt,
		license.CreatedAt, license.UpdatedAt,
	).Exec(); err != nil {
		return nil, false, err
	}

	return &license, false, nil
}

// resolveLicenseCAS interprète le résultat de l'insert conditionnel :
// appliqué → nouvelle licence à créer, refusé → la clé déjà en place
// pour le couple (customer_email, product_id) est à réutiliser
func resolveLicenseCAS(applied bool, previous map[string]interface{}) (existingKey string, reused bool) {
	if applied {
		return "", false
	}
	existingKey, _ = previous["license_key"].(string)
	return existingKey, true
}

func getLicenseByKey(licenseKey string) (*models.License, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	license := models.License{LicenseKey: licenseKey}
	query := `SELECT product_id, product_name, customer_email, status, duration, order_number, expires_at, created_at, updated_at
		FROM licenses WHERE license_key = ?`
	if err := session.Query(query, licenseKey).Scan(
		&license.ProductID, &license.ProductName, &license.CustomerEmail, &license.Status,
		&license.Duration, &license.OrderNumber, &license.ExpiresAt,
		&license.CreatedAt, &license.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &license, nil
}

// publishOrderEvent pousse la commande payée sur le canal du feed admin
func publishOrderEvent(order models.Order) {
	payload, err := json.Marshal(gin.H{
		"order_number": order.OrderNumber,
		"product_name": order.ProductName,
		"amount":       order.Amount,
		"status":       order.Status,
		"badge":        order.Badge(),
		"paid_at":      order.PaidAt,
	})
	if err != nil {
		return
	}
	database.Redis.Publish(context.Background(), "orders:live", payload)
}

// logWebhookEvent trace chaque webhook reçu pour l'écran admin
func logWebhookEvent(provider, eventID, eventType, orderRef, payload, outcome, outcomeMsg string) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return
	}

	if eventID == "" {
		eventID = gocql.TimeUUID().String()
	}

	query := `INSERT INTO webhook_events (event_id, provider, event_type, order_ref, payload, outcome, outcome_msg, received_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	if err := session.Query(query,
		eventID, provider, eventType, orderRef, payload, outcome, outcomeMsg, time.Now(),
	).Exec(); err != nil {
		log.Printf("⚠️ Erreur journalisation webhook: %v", err)
	}
}
