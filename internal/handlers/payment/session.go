package pay

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"mgma_back_end/internal/cache"
	"mgma_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var moneyMotionHTTP = &http.Client{Timeout: 15 * time.Second}

func moneyMotionBaseURL() string {
	if url := os.Getenv("MONEYMOTION_API_URL"); url != "" {
		return url
	}
	return "https://api.moneymotion.eu/v1"
}

// moneyMotionSessionRequest est le contrat public de create-session.
// order_id est la référence de commande ; orderNumber est accepté en alias.
// Les champs amount / currency / customer_email / product_id / license_duration
// sont informatifs : seules les valeurs de la commande en base font foi.
type moneyMotionSessionRequest struct {
	OrderID         string  `json:"order_id"`
	OrderNumber     string  `json:"orderNumber"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	CustomerEmail   string  `json:"customer_email"`
	ProductID       string  `json:"product_id"`
	LicenseDuration string  `json:"license_duration"`
}

func (r moneyMotionSessionRequest) orderRef() string {
	if r.OrderID != "" {
		return r.OrderID
	}
	return r.OrderNumber
}

// CreateMoneyMotionSession - POST /api/payments/moneymotion/create-session
// Body: { amount, currency, customer_email, order_id, product_id, license_duration }
func CreateMoneyMotionSession(c *gin.Context) {
	var req moneyMotionSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.orderRef() == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order_id requis"})
		return
	}

	order, err := getOrderByNumber(req.orderRef())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}
	if order.Status != models.OrderStatusPending {
		c.JSON(http.StatusConflict, gin.H{"error": "Commande déjà traitée"})
		return
	}
	if req.Amount > 0 && req.Amount != order.Amount {
		log.Printf("⚠️ Montant client %.2f ignoré pour %s (commande: %.2f)",
			req.Amount, order.OrderNumber, order.Amount)
	}

	apiKey := os.Getenv("MONEYMOTION_API_KEY")
	now := time.Now()

	// Mode mock : pas de clé → session locale
	if apiKey == "" {
		sessionID := "mock_" + uuid.NewString()
		cache.SetPaymentSession(models.PaymentSession{
			SessionID:     sessionID,
			OrderNumber:   order.OrderNumber,
			Amount:        order.Amount,
			Currency:      order.Currency,
			Status:        models.SessionStatusPending,
			CustomerEmail: order.CustomerEmail,
			CreatedAt:     now,
		})
		log.Printf("💳 Session MoneyMotion mock: %s pour %s", sessionID, order.OrderNumber)
		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"sessionId":   sessionID,
			"checkoutUrl": MockCheckoutPath + sessionID,
		})
		return
	}

	payload, _ := json.Marshal(gin.H{
		"amount":      order.Amount,
		"currency":    order.Currency,
		"description": order.ProductName,
		"external_id": order.OrderNumber,
		"customer":    gin.H{"email": order.CustomerEmail},
		"success_url": os.Getenv("FRONTEND_URL") + "/payment/success?order=" + order.OrderNumber,
		"cancel_url":  os.Getenv("FRONTEND_URL") + "/payment/cancel",
		"webhook_url": os.Getenv("SELF_URL") + "/api/payments/moneymotion/webhook",
	})

	httpReq, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost,
		moneyMotionBaseURL()+"/checkout/create-session", bytes.NewReader(payload))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création requête"})
		return
	}
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := moneyMotionHTTP.Do(httpReq)
	if err != nil {
		log.Printf("❌ Erreur MoneyMotion: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Provider de paiement injoignable"})
		return
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		log.Printf("❌ MoneyMotion HTTP %d: %s", resp.StatusCode, string(body))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Erreur création session de paiement"})
		return
	}

	var mm struct {
		SessionID   string `json:"session_id"`
		CheckoutURL string `json:"checkout_url"`
	}
	if err := json.Unmarshal(body, &mm); err != nil || mm.SessionID == "" {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Réponse provider invalide"})
		return
	}

	cache.SetPaymentSession(models.PaymentSession{
		SessionID:     mm.SessionID,
		OrderNumber:   order.OrderNumber,
		Amount:        order.Amount,
		Currency:      order.Currency,
		Status:        models.SessionStatusPending,
		CustomerEmail: order.CustomerEmail,
		CreatedAt:     now,
	})

	if err := updateOrderPaymentRef(order, "moneymotion", mm.SessionID); err != nil {
		log.Printf("⚠️ Erreur maj payment_ref pour %s: %v", order.OrderNumber, err)
	}

	log.Printf("💳 Session MoneyMotion créée: %s pour %s", mm.SessionID, order.OrderNumber)
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"sessionId":   mm.SessionID,
		"checkoutUrl": mm.CheckoutURL,
	})
}

// CheckMoneyMotionStatus - GET /api/payments/moneymotion/check-status?session=ID
// Le cache Redis est consulté avant d'interroger le provider
func CheckMoneyMotionStatus(c *gin.Context) {
	sessionID := c.Query("session")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Paramètre session requis"})
		return
	}

	if cached, ok := cache.GetPaymentSession(sessionID); ok {
		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"status":      cached.Status,
			"paid":        cached.Status == models.SessionStatusPaid,
			"amount":      cached.Amount,
			"currency":    cached.Currency,
			"orderNumber": cached.OrderNumber,
		})
		return
	}

	apiKey := os.Getenv("MONEYMOTION_API_KEY")
	if apiKey == "" {
		// Mock sans entrée cache : la session a expiré (TTL 30 min)
		c.JSON(http.StatusNotFound, gin.H{"error": "Session inconnue ou expirée"})
		return
	}

	url := fmt.Sprintf("%s/checkout/check-status?session=%s", moneyMotionBaseURL(), sessionID)
	httpReq, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, url, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création requête"})
		return
	}
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := moneyMotionHTTP.Do(httpReq)
	if err != nil {
		log.Printf("❌ Erreur MoneyMotion: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Provider de paiement injoignable"})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session inconnue"})
		return
	}

	var mm struct {
		Status     string  `json:"status"`
		Amount     float64 `json:"amount"`
		Currency   string  `json:"currency"`
		ExternalID string  `json:"external_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&mm); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Réponse provider invalide"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"status":      mm.Status,
		"paid":        mm.Status == models.SessionStatusPaid,
		"amount":      mm.Amount,
		"currency":    mm.Currency,
		"orderNumber": mm.ExternalID,
	})
}

// GetSessionStatus - GET /api/payments/session?session=ID
// Statut d'une session mock ou Stripe depuis le cache
func GetSessionStatus(c *gin.Context) {
	sessionID := c.Query("session")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Paramètre session requis"})
		return
	}

	cached, ok := cache.GetPaymentSession(sessionID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session inconnue ou expirée"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"status":      cached.Status,
		"paid":        cached.Status == models.SessionStatusPaid,
		"amount":      cached.Amount,
		"currency":    cached.Currency,
		"orderNumber": cached.OrderNumber,
	})
}

// CompleteMockSession - POST /api/payments/mock/complete
// En mode mock, simule la confirmation provider en rejouant le webhook interne
func CompleteMockSession(c *gin.Context) {
	var req struct {
		SessionID string `json:"sessionId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId requis"})
		return
	}

	cached, ok := cache.GetPaymentSession(req.SessionID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session inconnue ou expirée"})
		return
	}

	if err := applyOrderEvent(cached.OrderNumber, models.OrderStatusCompleted, req.SessionID, nil); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur finalisation commande"})
		return
	}

	log.Printf("✅ Session mock %s confirmée (%s)", req.SessionID, cached.OrderNumber)
	c.JSON(http.StatusOK, gin.H{"success": true, "orderNumber": cached.OrderNumber})
}
