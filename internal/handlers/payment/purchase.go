package pay

import (
	"log"
	"net/http"
	"os"
	"time"

	"mgma_back_end/internal/cache"
	"mgma_back_end/internal/database"
	"mgma_back_end/internal/models"
	"mgma_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v83"
	checkoutsession "github.com/stripe/stripe-go/v83/checkout/session"
)

// MockCheckoutPath est le préfixe des URLs de checkout locales (pas de clé provider)
const MockCheckoutPath = "/payment/checkout?session="

// Purchase - POST /api/purchase
// Valide le produit, applique le coupon, crée la commande pending et
// retourne l'URL de checkout hébergée (ou locale en mode mock)
func Purchase(c *gin.Context) {
	var item models.PurchaseItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Données invalides: " + err.Error()})
		return
	}

	if item.CustomerEmail == "" || item.ProductSlug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Email client et slug produit requis"})
		return
	}

	result := ProcessPurchase(item)
	if !result.Success {
		status := http.StatusInternalServerError
		if result.Error == "Produit introuvable" {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"success": false, "error": result.Error})
		return
	}

	c.JSON(http.StatusOK, result)
}

// ProcessPurchase orchestre un achat à partir d'une ligne de panier
func ProcessPurchase(item models.PurchaseItem) models.PurchaseResult {
	// 1. Résoudre le produit : le front envoie parfois des IDs placeholder
	// (non-UUID), dans ce cas on repasse par le slug
	product := resolveProduct(item)
	if product == nil {
		return models.PurchaseResult{Success: false, Error: "Produit introuvable"}
	}

	price := item.Price
	if p, ok := product.Prices[item.Duration]; ok {
		// Le prix de référence est celui du catalogue, pas celui du front
		price = p
	}

	// 2. Coupon optionnel → pourcentage plat
	var discount float64
	var couponCode string
	if item.CouponCode != "" {
		validation := validateCoupon(item.CouponCode, price)
		if !validation.IsValid {
			return models.PurchaseResult{Success: false, Error: validation.ErrorMessage}
		}
		price, discount = ApplyDiscount(price, validation.DiscountPercent)
		couponCode = validation.Code
		log.Printf("✅ Coupon appliqué: %s (%.2f€ de réduction)", couponCode, discount)
	}

	// 3. Créer la commande pending
	now := time.Now()
	order := models.Order{
		OrderNumber:   utils.GenerateOrderNumber(now),
		CustomerEmail: item.CustomerEmail,
		ProductID:     product.ID.String(),
		ProductName:   product.Name,
		ProductSlug:   product.Slug,
		Duration:      item.Duration,
		Amount:        price,
		Discount:      discount,
		CouponCode:    couponCode,
		Currency:      "eur",
		Status:        models.OrderStatusPending,
		PaymentMethod: "stripe",
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if os.Getenv("STRIPE_SECRET_KEY") == "" {
		order.PaymentMethod = "mock"
	}

	if err := insertOrder(order); err != nil {
		log.Printf("❌ Erreur insertion commande: %v", err)
		return models.PurchaseResult{Success: false, Error: "Erreur création commande"}
	}

	// 4. Mode mock : pas de clé provider configurée → checkout local
	if order.PaymentMethod == "mock" {
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

		if couponCode != "" {
			redeemCoupon(couponCode)
		}

		log.Printf("💳 Checkout mock créé: %s (%.2f€) pour %s", sessionID, order.Amount, order.CustomerEmail)
		return models.PurchaseResult{
			Success:     true,
			OrderNumber: order.OrderNumber,
			CheckoutURL: MockCheckoutPath + sessionID,
		}
	}

	// 5. Session Stripe Checkout hébergée
	checkoutURL, sessionID, err := createStripeCheckout(order)
	if err != nil {
		log.Printf("❌ Erreur Stripe: %v", err)
		// Compensation : on supprime la commande pending qu'on vient de créer
		deleteOrder(order)
		return models.PurchaseResult{Success: false, Error: "Erreur création paiement"}
	}

	cache.SetPaymentSession(models.PaymentSession{
		SessionID:     sessionID,
		OrderNumber:   order.OrderNumber,
		Amount:        order.Amount,
		Currency:      order.Currency,
		Status:        models.SessionStatusPending,
		CustomerEmail: order.CustomerEmail,
		CreatedAt:     now,
	})

	// Le coupon n'est consommé qu'une fois le checkout créé : un échec
	// provider compensé par deleteOrder ne doit brûler aucune utilisation
	if couponCode != "" {
		redeemCoupon(couponCode)
	}

	log.Printf("💳 Checkout Stripe créé: %s (%.2f€) pour %s", sessionID, order.Amount, order.CustomerEmail)

	return models.PurchaseResult{
		Success:     true,
		OrderNumber: order.OrderNumber,
		CheckoutURL: checkoutURL,
	}
}

// resolveProduct tolère les IDs placeholder en repassant par le slug
func resolveProduct(item models.PurchaseItem) *models.Product {
	if item.ProductID != "" {
		if _, err := uuid.Parse(item.ProductID); err == nil {
			if product, err := cache.GetProductFromCache(item.ProductID); err == nil {
				return product
			}
		}
	}

	product, err := cache.GetProductBySlug(item.ProductSlug)
	if err != nil {
		log.Printf("⚠️ Produit introuvable (id=%s, slug=%s): %v", item.ProductID, item.ProductSlug, err)
		return nil
	}
	return product
}

// createStripeCheckout crée la session Checkout hébergée et retourne (url, id)
func createStripeCheckout(order models.Order) (string, string, error) {
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(order.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(order.ProductName + " — " + order.Duration),
						Description: stripe.String("Commande " + order.OrderNumber),
					},
					UnitAmount: stripe.Int64(int64(order.Amount * 100)),
				},
				Quantity: stripe.Int64(1),
			},
		},
		CustomerEmail: stripe.String(order.CustomerEmail),
		SuccessURL:    stripe.String(baseURL + "/payment/success?order=" + order.OrderNumber),
		CancelURL:     stripe.String(baseURL + "/payment/cancelled?order=" + order.OrderNumber),
		Metadata: map[string]string{
			"order_number": order.OrderNumber,
			"product_id":   order.ProductID,
		},
	}

	s, err := checkoutsession.New(params)
	if err != nil {
		return "", "", err
	}

	// Mémoriser la référence provider sur la commande
	if session, err2 := database.GetOrdersSession(); err2 == nil {
		session.Query("UPDATE orders SET payment_ref = ? WHERE order_number = ?", s.ID, order.OrderNumber).Exec()
	}

	return s.URL, s.ID, nil
}
