package admin

import (
	"log"
	"net/http"
	"time"

	"mgma_back_end/internal/database"
	"mgma_back_end/internal/models"
	"mgma_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// GetAllLicenses - GET /api/admin/licenses
func GetAllLicenses(c *gin.Context) {
	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	licenses := []models.License{}
	iter := session.Query(`SELECT license_key, product_id, product_name, customer_email, status, duration, order_number, expires_at, created_at, updated_at
		FROM licenses`).Iter()

	var l models.License
	for iter.Scan(&l.LicenseKey, &l.ProductID, &l.ProductName, &l.CustomerEmail, &l.Status,
		&l.Duration, &l.OrderNumber, &l.ExpiresAt, &l.CreatedAt, &l.UpdatedAt) {
		licenses = append(licenses, l)
		l = models.License{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture licences"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "licenses": licenses})
}

// RevokeLicense - POST /api/admin/licenses/:licenseKey/revoke
func RevokeLicense(c *gin.Context) {
	setLicenseStatus(c, models.LicenseStatusRevoked, "🔒 Licence %s révoquée")
}

// ReactivateLicense - POST /api/admin/licenses/:licenseKey/reactivate
func ReactivateLicense(c *gin.Context) {
	setLicenseStatus(c, models.LicenseStatusActive, "🔓 Licence %s réactivée")
}

func setLicenseStatus(c *gin.Context, status, logFormat string) {
	licenseKey := c.Param("licenseKey")

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	var current string
	if err := session.Query("SELECT status FROM licenses WHERE license_key = ?", licenseKey).Scan(&current); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Licence introuvable"})
		return
	}

	if err := session.Query("UPDATE licenses SET status = ?, updated_at = ? WHERE license_key = ?",
		status, time.Now(), licenseKey).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour licence"})
		return
	}

	log.Printf(logFormat, licenseKey)
	c.JSON(http.StatusOK, gin.H{"success": true, "licenseKey": licenseKey, "status": status})
}

// ExtendLicense - POST /api/admin/licenses/:licenseKey/extend
// Body: { days }. Prolonge l'expiration, sans effet sur une lifetime
func ExtendLicense(c *gin.Context) {
	var req struct {
		Days int `json:"days" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nombre de jours requis"})
		return
	}

	licenseKey := c.Param("licenseKey")

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	var expiresAt *time.Time
	if err := session.Query("SELECT expires_at FROM licenses WHERE license_key = ?", licenseKey).Scan(&expiresAt); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Licence introuvable"})
		return
	}

	if expiresAt == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Une licence lifetime n'expire pas"})
		return
	}

	// On prolonge depuis l'échéance ou depuis maintenant si déjà expirée
	base := *expiresAt
	now := time.Now()
	if base.Before(now) {
		base = now
	}
	newExpiry := base.Add(time.Duration(req.Days) * 24 * time.Hour)

	if err := session.Query("UPDATE licenses SET expires_at = ?, status = ?, updated_at = ? WHERE license_key = ?",
		newExpiry, models.LicenseStatusActive, now, licenseKey).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour licence"})
		return
	}

	log.Printf("⏳ Licence %s prolongée de %d jour(s)", licenseKey, req.Days)
	c.JSON(http.StatusOK, gin.H{"success": true, "licenseKey": licenseKey, "expiresAt": newExpiry})
}

// ResetLicenseKey - POST /api/admin/licenses/:licenseKey/reset
// Régénère la clé (support HWID), l'ancienne clé est invalidée
func ResetLicenseKey(c *gin.Context) {
	licenseKey := c.Param("licenseKey")

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	var l models.License
	l.LicenseKey = licenseKey
	if err := session.Query(`SELECT product_id, product_name, customer_email, status, duration, order_number, expires_at, created_at
		FROM licenses WHERE license_key = ?`, licenseKey).Scan(
		&l.ProductID, &l.ProductName, &l.CustomerEmail, &l.Status, &l.Duration,
		&l.OrderNumber, &l.ExpiresAt, &l.CreatedAt); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Licence introuvable"})
		return
	}

	var slug string
	if err := session.Query("SELECT product_slug FROM orders WHERE order_number = ?", l.OrderNumber).Scan(&slug); err != nil {
		slug = l.ProductName
	}

	newKey := utils.GenerateLicenseKey(slug, l.Duration)
	now := time.Now()

	batch := session.NewBatch(gocql.LoggedBatch)
	batch.Query(`INSERT INTO licenses (license_key, product_id, product_name, customer_email, status, duration, order_number, expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		newKey, l.ProductID, l.ProductName, l.CustomerEmail, l.Status, l.Duration,
		l.OrderNumber, l.ExpiresAt, l.CreatedAt, now)
	batch.Query("DELETE FROM licenses WHERE license_key = ?", licenseKey)
	batch.Query("UPDATE licenses_by_customer SET license_key = ? WHERE customer_email = ? AND product_id = ?",
		newKey, l.CustomerEmail, l.ProductID)

	if err := session.ExecuteBatch(batch); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur régénération clé"})
		return
	}

	log.Printf("🔑 Clé %s remplacée par %s", licenseKey, newKey)
	c.JSON(http.StatusOK, gin.H{"success": true, "licenseKey": newKey})
}
