package admin

import (
	"log"
	"net/http"
	"time"

	"mgma_back_end/internal/database"
	"mgma_back_end/internal/models"

	"github.com/gin-gonic/gin"
)

// OverrideOrderStatus - PUT /api/admin/orders/:orderNumber/status
// Correction manuelle réservée à l'admin, contrairement aux webhooks
// la table de transitions n'est pas appliquée ici
func OverrideOrderStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Statut requis"})
		return
	}

	if !models.OrderStatuses[req.Status] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Statut inconnu"})
		return
	}

	orderNumber := c.Param("orderNumber")

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	var customerEmail, current string
	if err := session.Query("SELECT customer_email, status FROM orders WHERE order_number = ?",
		orderNumber).Scan(&customerEmail, &current); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	now := time.Now()
	if err := session.Query("UPDATE orders SET status = ?, updated_at = ? WHERE order_number = ?",
		req.Status, now, orderNumber).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour commande"})
		return
	}
	session.Query("UPDATE orders_by_customer SET status = ? WHERE customer_email = ? AND order_number = ?",
		req.Status, customerEmail, orderNumber).Exec()

	log.Printf("✏️ Commande %s: %s → %s (par %s)", orderNumber, current, req.Status, c.GetString("email"))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"order":   orderNumber,
		"status":  req.Status,
		"badge":   models.StatusBadge(req.Status),
	})
}

// GetCustomerOrders - GET /api/admin/customers/:email/orders
func GetCustomerOrders(c *gin.Context) {
	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	email := c.Param("email")
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
