package user

import (
	"net/http"
	"time"

	"mgma_back_end/internal/database"
	"mgma_back_end/internal/models"
	"mgma_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

// GetMyOrders - GET /api/account/orders
func GetMyOrders(c *gin.Context) {
	email := c.GetString("email")
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	orders := []gin.H{}
	iter := session.Query(`SELECT order_number, product_name, duration, amount, status, created_at
		FROM orders_by_customer WHERE customer_email = ?`, email).Iter()

	var o models.Order
	for iter.Scan(&o.OrderNumber, &o.ProductName, &o.Duration, &o.Amount, &o.Status, &o.CreatedAt) {
		orders = append(orders, gin.H{
			"orderNumber": o.OrderNumber,
			"productName": o.ProductName,
			"duration":    o.Duration,
			"amount":      o.Amount,
			"status":      o.Status,
			"badge":       models.StatusBadge(o.Status),
			"createdAt":   o.CreatedAt,
		})
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commandes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

// GetMyLicenses - GET /api/account/licenses
// L'expiration est évaluée à la lecture, le statut stocké n'est pas
// modifié tant qu'un admin n'intervient pas
func GetMyLicenses(c *gin.Context) {
	email := c.GetString("email")
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	now := time.Now()
	licenses := []gin.H{}

	iter := session.Query(`SELECT license_key, product_id, product_name, status, duration, order_number, expires_at, created_at
		FROM licenses WHERE customer_email = ? ALLOW FILTERING`, email).Iter()

	var l models.License
	for iter.Scan(&l.LicenseKey, &l.ProductID, &l.ProductName, &l.Status, &l.Duration,
		&l.OrderNumber, &l.ExpiresAt, &l.CreatedAt) {
		status := l.Status
		if status == models.LicenseStatusActive && l.IsExpiredAt(now) {
			status = models.LicenseStatusExpired
		}
		licenses = append(licenses, gin.H{
			"licenseKey":  l.LicenseKey,
			"productName": l.ProductName,
			"status":      status,
			"duration":    l.Duration,
			"orderNumber": l.OrderNumber,
			"expiresAt":   l.ExpiresAt,
			"lifetime":    l.IsLifetime(),
			"createdAt":   l.CreatedAt,
		})
		l = models.License{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture licences"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "licenses": licenses})
}

// GetLicenseQR - GET /api/account/licenses/:licenseKey/qr
// PNG encodant la clé, seul son propriétaire peut le générer
func GetLicenseQR(c *gin.Context) {
	email := c.GetString("email")
	licenseKey := c.Param("licenseKey")

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	var owner string
	if err := session.Query("SELECT customer_email FROM licenses WHERE license_key = ?", licenseKey).Scan(&owner); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Licence introuvable"})
		return
	}
	if owner != email {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cette licence ne vous appartient pas"})
		return
	}

	png, err := utils.GenerateLicenseQR(licenseKey, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération QR"})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// GetOrderReceipt - GET /api/account/orders/:orderNumber/receipt
// PDF du reçu rendu depuis la page frontend
func GetOrderReceipt(c *gin.Context) {
	email := c.GetString("email")
	orderNumber := c.Param("orderNumber")

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	var owner, status string
	if err := session.Query("SELECT customer_email, status FROM orders WHERE order_number = ?", orderNumber).Scan(&owner, &status); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}
	if owner != email {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cette commande ne vous appartient pas"})
		return
	}
	if status != models.OrderStatusCompleted && status != models.OrderStatusRefunded {
		c.JSON(http.StatusConflict, gin.H{"error": "Pas de reçu pour une commande non payée"})
		return
	}

	pdf, err := utils.RenderReceiptPDF(utils.GetFrontendReceiptBaseURL(), orderNumber)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération reçu"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=recu_"+orderNumber+".pdf")
	c.Data(http.StatusOK, "application/pdf", pdf)
}
