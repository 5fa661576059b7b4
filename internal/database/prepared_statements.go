package database

import (
	"log"
	"sync"
)

// CQL des chemins chauds (webhooks, check-status, outbox). gocql prépare
// et met en cache chaque statement par texte, les handlers passent par
// ces constantes pour garder un seul texte par requête.
const (
	StmtGetOrderByNumber = `SELECT customer_email, product_id, product_name, product_slug, duration, amount, discount, coupon_code, currency, status, payment_method, payment_ref, paid_at, created_at, updated_at
		FROM orders WHERE order_number = ?`

	StmtUpdateOrderStatus = "UPDATE orders SET status = ?, updated_at = ? WHERE order_number = ?"

	StmtGetLicenseByPair = "SELECT license_key FROM licenses_by_customer WHERE customer_email = ? AND product_id = ?"

	StmtInsertOutboundEmail = `INSERT INTO outbound_emails (email_id, order_number, to_email, subject, template, template_data, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
)

var preparedOnce sync.Once

// InitPreparedStatements pré-prépare les statements des chemins chauds
// pour éviter le round-trip PREPARE sur la première requête réelle
func InitPreparedStatements() {
	preparedOnce.Do(func() {
		session, err := GetOrdersSession()
		if err != nil {
			log.Printf("⚠️ Impossible d'initialiser les prepared statements: %v", err)
			return
		}

		// Lectures à vide : force la préparation côté cluster
		session.Query(StmtGetOrderByNumber, "warmup").Iter().Close()
		session.Query(StmtGetLicenseByPair, "warmup", "warmup").Iter().Close()

		log.Println("✅ Prepared statements initialisés")
	})
}
