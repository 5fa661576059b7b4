package pay

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"mgma_back_end/internal/database"
	"mgma_back_end/internal/handlers/emails"
	"mgma_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/stripe/stripe-go/v83"
	checkoutsession "github.com/stripe/stripe-go/v83/checkout/session"
	"github.com/stripe/stripe-go/v83/refund"
)

// RefundOrder - POST /api/admin/orders/:orderNumber/refund
// Seule une commande completed est remboursable, la transition est réservée à l'admin
func RefundOrder(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	c.ShouldBindJSON(&req)

	order, err := getOrderByNumber(c.Param("orderNumber"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	if order.Status != models.OrderStatusCompleted {
		c.JSON(http.StatusConflict, gin.H{"error": "Seule une commande payée peut être remboursée"})
		return
	}

	// Remboursement provider best-effort : Stripe garde la main si l'API échoue,
	// le statut local passe quand même en refunded
	stripeRefID := ""
	if order.PaymentMethod == "stripe" && os.Getenv("STRIPE_SECRET_KEY") != "" && order.PaymentRef != "" {
		if ref, err := refundStripePayment(order.PaymentRef); err != nil {
			log.Printf("⚠️ Remboursement Stripe échoué pour %s: %v", order.OrderNumber, err)
		} else {
			stripeRefID = ref
			log.Printf("💳 Remboursement Stripe créé: %s", ref)
		}
	}

	if err := updateOrderStatus(order, models.OrderStatusRefunded, nil); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour commande"})
		return
	}

	if license, err := getLicenseForOrder(*order); err == nil {
		if err := revokeLicense(license.LicenseKey); err != nil {
			log.Printf("⚠️ Révocation licence %s échouée: %v", license.LicenseKey, err)
		} else {
			log.Printf("🔒 Licence %s révoquée", license.LicenseKey)
		}
	}

	if err := insertRefund(*order, req.Reason, stripeRefID, c.GetString("email")); err != nil {
		log.Printf("⚠️ Erreur journalisation remboursement: %v", err)
	}

	if err := emails.EnqueueRefundEmail(*order); err != nil {
		log.Printf("⚠️ Erreur enqueue email remboursement: %v", err)
	} else {
		emails.TriggerDrain()
	}

	log.Printf("✅ Commande %s remboursée (%.2f€)", order.OrderNumber, order.Amount)
	c.JSON(http.StatusOK, gin.H{"success": true, "order": order, "badge": order.Badge()})
}

func refundStripePayment(paymentRef string) (string, error) {
	params := &stripe.RefundParams{}
	// Une ref de session checkout commence par cs_, un payment intent par pi_
	if strings.HasPrefix(paymentRef, "cs_") {
		pi, err := paymentIntentFromCheckoutSession(paymentRef)
		if err != nil {
			return "", err
		}
		params.PaymentIntent = stripe.String(pi)
	} else {
		params.PaymentIntent = stripe.String(paymentRef)
	}

	r, err := refund.New(params)
	if err != nil {
		return "", err
	}
	return r.ID, nil
}

func paymentIntentFromCheckoutSession(sessionID string) (string, error) {
	s, err := checkoutsession.Get(sessionID, nil)
	if err != nil {
		return "", err
	}
	if s.PaymentIntent == nil {
		return "", fmt.Errorf("session %s sans payment intent", sessionID)
	}
	return s.PaymentIntent.ID, nil
}

func revokeLicense(licenseKey string) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	return session.Query("UPDATE licenses SET status = ?, updated_at = ? WHERE license_key = ?",
		models.LicenseStatusRevoked, time.Now(), licenseKey).Exec()
}

func insertRefund(order models.Order, reason, providerRef, processedBy string) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	now := time.Now()
	query := `INSERT INTO refunds (refund_id, order_number, customer_email, amount, reason, provider_ref, status, processed_by, created_at, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	return session.Query(query,
		gocql.TimeUUID(), order.OrderNumber, order.CustomerEmail, order.Amount,
		reason, providerRef, models.RefundStatusProcessed, processedBy, now, now,
	).Exec()
}

// GetRefunds - GET /api/admin/refunds
func GetRefunds(c *gin.Context) {
	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	refunds := []models.Refund{}
	iter := session.Query(`SELECT refund_id, order_number, customer_email, amount, reason, provider_ref, status, processed_by, created_at, processed_at
		FROM refunds`).Iter()

	var r models.Refund
	for iter.Scan(&r.RefundID, &r.OrderNumber, &r.CustomerEmail, &r.Amount, &r.Reason,
		&r.ProviderRef, &r.Status, &r.ProcessedBy, &r.CreatedAt, &r.ProcessedAt) {
		refunds = append(refunds, r)
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture remboursements"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "refunds": refunds})
}
