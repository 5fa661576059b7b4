package pay

import (
	"log"
	"net/http"
	"time"

	"mgma_back_end/internal/database"
	"mgma_back_end/internal/models"

	"github.com/gin-gonic/gin"
)

// GetDashboardStats - GET /api/admin/dashboard
func GetDashboardStats(c *gin.Context) {
	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	byStatus := map[string]int{}
	var revenue float64
	inProgress := 0

	iter := session.Query("SELECT status, amount FROM orders").Iter()
	var status string
	var amount float64
	for iter.Scan(&status, &amount) {
		byStatus[status]++
		if status == models.OrderStatusCompleted {
			revenue += amount
		}
		if models.IsInProgress(status) {
			inProgress++
		}
	}
	if err := iter.Close(); err != nil {
		log.Printf("❌ Erreur lecture commandes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commandes"})
		return
	}

	licensesByStatus := map[string]int{}
	iter = session.Query("SELECT status FROM licenses").Iter()
	for iter.Scan(&status) {
		licensesByStatus[status]++
	}
	iter.Close()

	pendingEmails := 0
	iter = session.Query("SELECT status FROM outbound_emails").Iter()
	for iter.Scan(&status) {
		if status == models.EmailStatusPending {
			pendingEmails++
		}
	}
	iter.Close()

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"ordersByStatus":   byStatus,
		"revenue":          revenue,
		"ordersInProgress": inProgress,
		"licensesByStatus": licensesByStatus,
		"pendingEmails":    pendingEmails,
	})
}

// GetRecentOrders - GET /api/admin/orders
func GetRecentOrders(c *gin.Context) {
	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	type orderRow struct {
		models.Order
		Badge models.OrderBadge `json:"badge"`
	}

	orders := []orderRow{}
	iter := session.Query(`SELECT order_number, customer_email, product_id, product_name, product_slug, duration,
		amount, discount, coupon_code, currency, status, payment_method, payment_ref, paid_at, created_at, updated_at
		FROM orders LIMIT 50`).Iter()

	var o models.Order
	for iter.Scan(&o.OrderNumber, &o.CustomerEmail, &o.ProductID, &o.ProductName, &o.ProductSlug, &o.Duration,
		&o.Amount, &o.Discount, &o.CouponCode, &o.Currency, &o.Status, &o.PaymentMethod, &o.PaymentRef,
		&o.PaidAt, &o.CreatedAt, &o.UpdatedAt) {
		orders = append(orders, orderRow{Order: o, Badge: o.Badge()})
		o = models.Order{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commandes"})
		return
	}

	// Tri décroissant par date de création côté applicatif
	for i := 1; i < len(orders); i++ {
		for j := i; j > 0 && orders[j].CreatedAt.After(orders[j-1].CreatedAt); j-- {
			orders[j], orders[j-1] = orders[j-1], orders[j]
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

// GetOrderDetail - GET /api/admin/orders/:orderNumber
func GetOrderDetail(c *gin.Context) {
	order, err := getOrderByNumber(c.Param("orderNumber"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	resp := gin.H{"success": true, "order": order, "badge": order.Badge()}

	if order.Status == models.OrderStatusCompleted || order.Status == models.OrderStatusRefunded {
		if license, err := getLicenseForOrder(*order); err == nil {
			resp["license"] = license
		}
	}

	c.JSON(http.StatusOK, resp)
}

func getLicenseForOrder(order models.Order) (*models.License, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	var key string
	if err := session.Query(database.StmtGetLicenseByPair,
		order.CustomerEmail, order.ProductID).Scan(&key); err != nil {
		return nil, err
	}

	return getLicenseByKey(key)
}

// ExpireStaleOrders - POST /api/admin/maintenance/expire-orders
// Passe en expired les commandes pending plus vieilles que 24h
func ExpireStaleOrders(c *gin.Context) {
	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	cutoff := time.Now().Add(-24 * time.Hour)
	expired := 0

	iter := session.Query("SELECT order_number, customer_email, created_at, status FROM orders").Iter()
	var o models.Order
	for iter.Scan(&o.OrderNumber, &o.CustomerEmail, &o.CreatedAt, &o.Status) {
		if o.Status != models.OrderStatusPending || o.CreatedAt.After(cutoff) {
			continue
		}
		stale := o
		if err := updateOrderStatus(&stale, models.OrderStatusExpired, nil); err != nil {
			log.Printf("⚠️ Expiration de %s échouée: %v", stale.OrderNumber, err)
			continue
		}
		expired++
	}
	iter.Close()

	log.Printf("🧹 %d commande(s) pending expirée(s)", expired)
	c.JSON(http.StatusOK, gin.H{"success": true, "expired": expired})
}
