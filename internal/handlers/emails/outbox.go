package emails

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"mgma_back_end/internal/database"
	"mgma_back_end/internal/models"
	"mgma_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// EnqueueLicenseEmail ajoute l'email de livraison de clé dans l'outbox
func EnqueueLicenseEmail(order models.Order, license models.License) error {
	expiresAt := ""
	if license.ExpiresAt != nil {
		expiresAt = license.ExpiresAt.Format("02/01/2006")
	}

	data := models.LicenseEmailData{
		OrderNumber: order.OrderNumber,
		ProductName: order.ProductName,
		Duration:    order.Duration,
		LicenseKey:  license.LicenseKey,
		ExpiresAt:   expiresAt,
		TotalPaid:   order.Amount,
	}

	return enqueue(order.OrderNumber, order.CustomerEmail,
		"🔑 Votre clé "+order.ProductName+" — MGMA", "license_delivery", data)
}

// EnqueueRefundEmail ajoute l'email de confirmation de remboursement dans l'outbox
func EnqueueRefundEmail(order models.Order) error {
	data := map[string]interface{}{
		"orderNumber": order.OrderNumber,
		"totalPaid":   order.Amount,
	}
	return enqueue(order.OrderNumber, order.CustomerEmail,
		"Remboursement de votre commande "+order.OrderNumber, "order_refunded", data)
}

func enqueue(orderNumber, toEmail, subject, template string, data interface{}) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if err := session.Query(database.StmtInsertOutboundEmail,
		gocql.TimeUUID(), orderNumber, toEmail, subject, template,
		string(payload), models.EmailStatusPending, time.Now(),
	).Exec(); err != nil {
		return err
	}

	log.Printf("📬 Email '%s' ajouté à l'outbox pour %s", template, toEmail)
	return nil
}

// TriggerDrain appelle le endpoint de drain en fire-and-forget, erreurs avalées.
// Un cron externe repasse derrière pour les emails restés pending.
func TriggerDrain() {
	go func() {
		baseURL := os.Getenv("SELF_URL")
		if baseURL == "" {
			port := os.Getenv("PORT")
			if port == "" {
				port = "8080"
			}
			baseURL = "http://localhost:" + port
		}

		resp, err := http.Post(baseURL+"/api/emails/process", "application/json", nil)
		if err != nil {
			return
		}
		resp.Body.Close()
	}()
}

// ProcessOutbox - POST /api/emails/process
// Draine les emails pending : rendu du template, reçu PDF, envoi SMTP,
// puis marquage sent/failed ligne par ligne
func ProcessOutbox(c *gin.Context) {
	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT email_id, order_number, to_email, subject, template, template_data
		FROM outbound_emails WHERE status = ? ALLOW FILTERING`, models.EmailStatusPending).Iter()

	var email models.OutboundEmail
	var pending []models.OutboundEmail
	for iter.Scan(&email.EmailID, &email.OrderNumber, &email.ToEmail, &email.Subject,
		&email.Template, &email.TemplateData) {
		pending = append(pending, email)
	}
	if err := iter.Close(); err != nil {
		log.Printf("❌ Erreur lecture outbox: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture outbox"})
		return
	}

	sent, failed := 0, 0
	for _, e := range pending {
		if err := sendOne(e); err != nil {
			failed++
			session.Query("UPDATE outbound_emails SET status = ?, error = ? WHERE email_id = ?",
				models.EmailStatusFailed, err.Error(), e.EmailID).Exec()
			log.Printf("❌ Envoi échoué pour %s: %v", e.ToEmail, err)
		} else {
			sent++
			session.Query("UPDATE outbound_emails SET status = ?, sent_at = ? WHERE email_id = ?",
				models.EmailStatusSent, time.Now(), e.EmailID).Exec()
		}
	}

	if sent+failed > 0 {
		log.Printf("📧 Outbox drainée: %d envoyés, %d échoués", sent, failed)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"sent":    sent,
		"failed":  failed,
	})
}

// sendOne rend le template et envoie l'email, avec reçu PDF si possible
func sendOne(e models.OutboundEmail) error {
	var html string

	switch e.Template {
	case "license_delivery":
		var data models.LicenseEmailData
		if err := json.Unmarshal([]byte(e.TemplateData), &data); err != nil {
			return err
		}
		html = utils.GenerateLicenseDeliveryHTML(data)
	case "order_refunded":
		var data struct {
			OrderNumber string  `json:"orderNumber"`
			TotalPaid   float64 `json:"totalPaid"`
		}
		if err := json.Unmarshal([]byte(e.TemplateData), &data); err != nil {
			return err
		}
		html = utils.GenerateRefundHTML(data.OrderNumber, data.TotalPaid)
	default:
		html = e.TemplateData
	}

	// Reçu PDF en pièce jointe (best effort, Chrome peut manquer sur le serveur)
	var pdf []byte
	if e.Template == "license_delivery" {
		rendered, err := utils.RenderReceiptPDF(utils.GetFrontendReceiptBaseURL(), e.OrderNumber)
		if err != nil {
			log.Printf("⚠️ Reçu PDF indisponible pour %s: %v", e.OrderNumber, err)
		} else {
			pdf = rendered
		}
	}

	return utils.SendEmail(e.ToEmail, e.Subject, html, pdf)
}

// GetOutbox - GET /api/admin/emails (écran admin de l'outbox)
func GetOutbox(c *gin.Context) {
	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT email_id, order_number, to_email, subject, template, status, error, created_at, sent_at
		FROM outbound_emails`).Iter()

	var emails []models.OutboundEmail
	var e models.OutboundEmail
	for iter.Scan(&e.EmailID, &e.OrderNumber, &e.ToEmail, &e.Subject, &e.Template,
		&e.Status, &e.Error, &e.CreatedAt, &e.SentAt) {
		emails = append(emails, e)
		e = models.OutboundEmail{}
	}

	if err := iter.Close(); err != nil {
		log.Printf("❌ Erreur lecture emails: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"emails": emails,
		"total":  len(emails),
	})
}
