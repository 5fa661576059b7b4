package pay

import (
	"math"
	"time"

	"mgma_back_end/internal/database"
	"mgma_back_end/internal/models"
)

// ApplyDiscount applique un pourcentage de réduction et arrondit au centime.
// Le résultat ne descend jamais sous zéro.
func ApplyDiscount(price, discountPercent float64) (final, discount float64) {
	discount = math.Round(price*discountPercent) / 100
	final = math.Round((price-discount)*100) / 100
	if final < 0 {
		final = 0
	}
	return final, discount
}

// insertOrder écrit une commande dans orders et orders_by_customer
func insertOrder(order models.Order) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	query := `INSERT INTO orders (order_number, customer_email, product_id, product_name, product_slug, duration, amount, discount, coupon_code, currency, status, payment_method, payment_ref, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if err := session.Query(query,
		order.OrderNumber, order.CustomerEmail, order.ProductID, order.ProductName,
		order.ProductSlug, order.Duration, order.Amount, order.Discount, order.CouponCode,
		order.Currency, order.Status, order.PaymentMethod, order.PaymentRef,
		order.CreatedAt, order.UpdatedAt,
	).Exec(); err != nil {
		return err
	}

	// Table dénormalisée pour l'espace client
	byCustomer := `INSERT INTO orders_by_customer (customer_email, order_number, product_name, duration, amount, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	return session.Query(byCustomer,
		order.CustomerEmail, order.OrderNumber, order.ProductName, order.Duration,
		order.Amount, order.Status, order.CreatedAt,
	).Exec()
}

// getOrderByNumber relit une commande complète
func getOrderByNumber(orderNumber string) (*models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	order := models.Order{OrderNumber: orderNumber}
	if err := session.Query(database.StmtGetOrderByNumber, orderNumber).Scan(
		&order.CustomerEmail, &order.ProductID, &order.ProductName, &order.ProductSlug,
		&order.Duration, &order.Amount, &order.Discount, &order.CouponCode, &order.Currency,
		&order.Status, &order.PaymentMethod, &order.PaymentRef, &order.PaidAt,
		&order.CreatedAt, &order.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &order, nil
}

// updateOrderStatus propage un changement de statut dans les deux tables
func updateOrderStatus(order *models.Order, status string, paidAt *time.Time) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	now := time.Now()
	if paidAt != nil {
		if err := session.Query("UPDATE orders SET status = ?, paid_at = ?, updated_at = ? WHERE order_number = ?",
			status, *paidAt, now, order.OrderNumber).Exec(); err != nil {
			return err
		}
	} else {
		if err := session.Query(database.StmtUpdateOrderStatus,
			status, now, order.OrderNumber).Exec(); err != nil {
			return err
		}
	}

	if err := session.Query("UPDATE orders_by_customer SET status = ? WHERE customer_email = ? AND order_number = ?",
		status, order.CustomerEmail, order.OrderNumber).Exec(); err != nil {
		return err
	}

	order.Status = status
	order.PaidAt = paidAt
	order.UpdatedAt = now
	return nil
}

func updateOrderPaymentRef(order *models.Order, method, paymentRef string) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	now := time.Now()
	if err := session.Query("UPDATE orders SET payment_method = ?, payment_ref = ?, updated_at = ? WHERE order_number = ?",
		method, paymentRef, now, order.OrderNumber).Exec(); err != nil {
		return err
	}

	order.PaymentMethod = method
	order.PaymentRef = paymentRef
	order.UpdatedAt = now
	return nil
}

// deleteOrder supprime une commande (compensation si le provider échoue)
func deleteOrder(order models.Order) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return
	}

	session.Query("DELETE FROM orders WHERE order_number = ?", order.OrderNumber).Exec()
	session.Query("DELETE FROM orders_by_customer WHERE customer_email = ? AND order_number = ?",
		order.CustomerEmail, order.OrderNumber).Exec()
}
