package pay

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"mgma_back_end/internal/database"
	"mgma_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// CheckCouponRules applique les règles de validité d'un coupon à un instant donné.
// Fonction pure, sans accès base. La réduction est un pourcentage plat.
func CheckCouponRules(coupon models.Coupon, total float64, now time.Time) models.CouponValidation {
	if !coupon.IsActive {
		return models.CouponValidation{IsValid: false, ErrorMessage: "Ce coupon n'est plus actif"}
	}

	if now.After(coupon.ValidUntil) {
		return models.CouponValidation{IsValid: false, ErrorMessage: "Ce coupon a expiré"}
	}

	if coupon.MaxUses > 0 && coupon.CurrentUses >= coupon.MaxUses {
		return models.CouponValidation{IsValid: false, ErrorMessage: "Ce coupon a atteint sa limite d'utilisation"}
	}

	discount := total * (coupon.DiscountPercent / 100)
	if discount > total {
		discount = total
	}

	return models.CouponValidation{
		IsValid:         true,
		Code:            coupon.Code,
		DiscountPercent: coupon.DiscountPercent,
		Discount:        discount,
	}
}

// validateCoupon cherche le coupon (sans casse) et applique les règles.
// Le paramètre productId de l'API est accepté mais ignoré : pas de
// restriction par produit.
func validateCoupon(code string, total float64) models.CouponValidation {
	coupon, err := getCouponByCode(code)
	if err != nil {
		return models.CouponValidation{IsValid: false, ErrorMessage: "Code coupon invalide"}
	}

	return CheckCouponRules(*coupon, total, time.Now())
}

func getCouponByCode(code string) (*models.Coupon, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	var coupon models.Coupon
	query := `SELECT id, code, discount_percent, max_uses, current_uses, is_active, valid_until, created_by, created_at, updated_at
		FROM coupons WHERE code = ? LIMIT 1`

	if err := session.Query(query, strings.ToUpper(code)).Scan(
		&coupon.ID, &coupon.Code, &coupon.DiscountPercent, &coupon.MaxUses,
		&coupon.CurrentUses, &coupon.IsActive, &coupon.ValidUntil,
		&coupon.CreatedBy, &coupon.CreatedAt, &coupon.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &coupon, nil
}

// redeemCoupon incrémente current_uses avec un update conditionnel (LWT) :
// deux rédemptions concurrentes ne peuvent pas dépasser max_uses
func redeemCoupon(code string) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return
	}

	code = strings.ToUpper(code)

	for attempt := 0; attempt < 3; attempt++ {
		coupon, err := getCouponByCode(code)
		if err != nil {
			return
		}

		if coupon.MaxUses > 0 && coupon.CurrentUses >= coupon.MaxUses {
			log.Printf("⚠️ Coupon %s déjà au max d'utilisations", code)
			return
		}

		applied, err := session.Query(
			"UPDATE coupons SET current_uses = ?, updated_at = ? WHERE code = ? IF current_uses = ?",
			coupon.CurrentUses+1, time.Now(), code, coupon.CurrentUses,
		).MapScanCAS(map[string]interface{}{})
		if err != nil {
			log.Printf("❌ Erreur incrément coupon %s: %v", code, err)
			return
		}
		if applied {
			log.Printf("✅ Coupon %s utilisé (%d/%d)", code, coupon.CurrentUses+1, coupon.MaxUses)
			return
		}
		// Course perdue, on relit et on retente
	}

	log.Printf("⚠️ Incrément coupon %s abandonné après 3 tentatives", code)
}

// ValidateCoupon - Valider un code promo côté boutique
// GET /api/coupons/validate?code=X&total=Y&productId=Z (productId ignoré)
func ValidateCoupon(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Code requis"})
		return
	}

	var total float64
	if t := c.Query("total"); t != "" {
		parsed, err := strconv.ParseFloat(t, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Montant invalide"})
			return
		}
		total = parsed
	}

	validation := validateCoupon(code, total)
	if !validation.IsValid {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": validation.ErrorMessage})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":            true,
		"code":             validation.Code,
		"discount_percent": validation.DiscountPercent,
		"discount":         validation.Discount,
	})
}

// CreateCoupon - Créer un coupon (Admin)
func CreateCoupon(c *gin.Context) {
	var req struct {
		Code            string    `json:"code" binding:"required"`
		DiscountPercent float64   `json:"discount_percent" binding:"required"`
		MaxUses         int       `json:"max_uses"`
		ValidUntil      time.Time `json:"valid_until" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	if req.DiscountPercent <= 0 || req.DiscountPercent > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Pourcentage doit être entre 1 et 100"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	code := strings.ToUpper(req.Code)

	userID, _ := c.Get("user_id")
	now := time.Now()

	coupon := models.Coupon{
		ID:              gocql.TimeUUID(),
		Code:            code,
		DiscountPercent: req.DiscountPercent,
		MaxUses:         req.MaxUses,
		CurrentUses:     0,
		IsActive:        true,
		ValidUntil:      req.ValidUntil,
		CreatedBy:       userID.(string),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	// L'unicité du code est garantie par l'insert conditionnel, comme pour
	// les comptes clients et membres d'équipe
	insertQuery := `INSERT INTO coupons (id, code, discount_percent, max_uses, current_uses, is_active, valid_until, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?) IF NOT EXISTS`

	applied, err := session.Query(insertQuery,
		coupon.ID, coupon.Code, coupon.DiscountPercent, coupon.MaxUses, coupon.CurrentUses,
		coupon.IsActive, coupon.ValidUntil, coupon.CreatedBy, coupon.CreatedAt, coupon.UpdatedAt,
	).MapScanCAS(map[string]interface{}{})
	if err != nil {
		log.Printf("❌ Erreur création coupon: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la création du coupon"})
		return
	}
	if !applied {
		c.JSON(http.StatusConflict, gin.H{"error": "Ce code coupon existe déjà"})
		return
	}

	log.Printf("✅ Coupon créé: %s (-%.0f%%)", coupon.Code, coupon.DiscountPercent)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Coupon créé avec succès",
		"coupon":  coupon,
	})
}

// GetAllCoupons - Lister tous les coupons (Admin)
func GetAllCoupons(c *gin.Context) {
	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	query := `SELECT id, code, discount_percent, max_uses, current_uses, is_active, valid_until, created_by, created_at, updated_at FROM coupons`
	iter := session.Query(query).Iter()

	var coupons []models.Coupon
	var coupon models.Coupon

	for iter.Scan(&coupon.ID, &coupon.Code, &coupon.DiscountPercent, &coupon.MaxUses,
		&coupon.CurrentUses, &coupon.IsActive, &coupon.ValidUntil, &coupon.CreatedBy,
		&coupon.CreatedAt, &coupon.UpdatedAt) {
		coupons = append(coupons, coupon)
	}

	if err := iter.Close(); err != nil {
		log.Printf("❌ Erreur récupération coupons: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"coupons": coupons,
		"total":   len(coupons),
	})
}

// UpdateCoupon - Activer/désactiver ou prolonger un coupon (Admin)
func UpdateCoupon(c *gin.Context) {
	code := strings.ToUpper(c.Param("code"))

	var req struct {
		IsActive   *bool      `json:"is_active"`
		MaxUses    *int       `json:"max_uses"`
		ValidUntil *time.Time `json:"valid_until"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	updates := []string{}
	values := []interface{}{}

	if req.IsActive != nil {
		updates = append(updates, "is_active = ?")
		values = append(values, *req.IsActive)
	}

	if req.MaxUses != nil {
		updates = append(updates, "max_uses = ?")
		values = append(values, *req.MaxUses)
	}

	if req.ValidUntil != nil {
		updates = append(updates, "valid_until = ?")
		values = append(values, *req.ValidUntil)
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Aucune mise à jour fournie"})
		return
	}

	updates = append(updates, "updated_at = ?")
	values = append(values, time.Now())
	values = append(values, code)

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	query := "UPDATE coupons SET " + strings.Join(updates, ", ") + " WHERE code = ?"

	if err := session.Query(query, values...).Exec(); err != nil {
		log.Printf("❌ Erreur mise à jour coupon: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la mise à jour"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Coupon mis à jour avec succès"})
}

// DeleteCoupon - Supprimer un coupon (Admin)
func DeleteCoupon(c *gin.Context) {
	code := strings.ToUpper(c.Param("code"))

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := session.Query("DELETE FROM coupons WHERE code = ?", code).Exec(); err != nil {
		log.Printf("❌ Erreur suppression coupon: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la suppression"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Coupon supprimé avec succès"})
}
