package product

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"mgma_back_end/internal/cache"
	"mgma_back_end/internal/database"
	"mgma_back_end/internal/models"
	"mgma_back_end/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// CreateProduct - POST /api/admin/products
func CreateProduct(c *gin.Context) {
	var p models.Product

	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if p.Name == "" || len(p.Prices) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Les champs 'name' et 'prices' sont obligatoires"})
		return
	}

	if p.Slug == "" {
		p.Slug = slugify(p.Name)
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// Le slug sert dans les URLs et les clés de licence, il doit être unique
	var existing gocql.UUID
	if err := session.Query("SELECT product_id FROM products_by_slug WHERE slug = ?", p.Slug).Scan(&existing); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Un produit existe déjà avec ce slug"})
		return
	}

	p.ID = gocql.TimeUUID()
	p.IsActive = true
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	pricesJSON, _ := json.Marshal(p.Prices)

	query := `INSERT INTO products (product_id, name, slug, game, description, prices, image_url, features, is_active, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if err := session.Query(query, p.ID, p.Name, p.Slug, p.Game, p.Description, string(pricesJSON),
		p.ImageURL, p.Features, p.IsActive, p.CreatedAt, p.UpdatedAt).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création produit: " + err.Error()})
		return
	}

	if err := session.Query("INSERT INTO products_by_slug (slug, product_id) VALUES (?, ?)",
		p.Slug, p.ID).Exec(); err != nil {
		log.Printf("⚠️ Erreur indexation products_by_slug: %v", err)
	}

	// 🔄 Indexation Elasticsearch
	go services.IndexProduct(p)

	log.Printf("✅ Produit créé: %s (%s)", p.Name, p.Slug)
	c.JSON(http.StatusCreated, p)
}

// GetAllProducts - GET /api/products
// Catalogue public, seuls les produits actifs sont renvoyés
func GetAllProducts(c *gin.Context) {
	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	includeInactive := c.Query("all") == "true" && c.GetString("role") == models.TeamRoleAdmin

	products := []models.Product{}
	iter := session.Query(`SELECT product_id, name, slug, game, description, prices, image_url, features, is_active, created_at, updated_at
		FROM products`).Iter()

	var p models.Product
	var pricesJSON string
	for iter.Scan(&p.ID, &p.Name, &p.Slug, &p.Game, &p.Description, &pricesJSON,
		&p.ImageURL, &p.Features, &p.IsActive, &p.CreatedAt, &p.UpdatedAt) {
		if !p.IsActive && !includeInactive {
			p = models.Product{}
			continue
		}
		json.Unmarshal([]byte(pricesJSON), &p.Prices)
		products = append(products, p)
		p = models.Product{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produits"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "products": products})
}

// GetProductBySlug - GET /api/products/:slug
func GetProductBySlug(c *gin.Context) {
	p, err := cache.GetProductBySlug(c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	if !p.IsActive {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "product": p})
}

// UpdateProduct - PUT /api/admin/products/:id
func UpdateProduct(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	var req struct {
		Name        *string             `json:"name"`
		Game        *string             `json:"game"`
		Description *string             `json:"description"`
		Prices      *map[string]float64 `json:"prices"`
		Features    *[]string           `json:"features"`
		IsActive    *bool               `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	now := time.Now()
	if req.Name != nil {
		session.Query("UPDATE products SET name = ?, updated_at = ? WHERE product_id = ?", *req.Name, now, productID).Exec()
	}
	if req.Game != nil {
		session.Query("UPDATE products SET game = ?, updated_at = ? WHERE product_id = ?", *req.Game, now, productID).Exec()
	}
	if req.Description != nil {
		session.Query("UPDATE products SET description = ?, updated_at = ? WHERE product_id = ?", *req.Description, now, productID).Exec()
	}
	if req.Prices != nil {
		pricesJSON, _ := json.Marshal(*req.Prices)
		session.Query("UPDATE products SET prices = ?, updated_at = ? WHERE product_id = ?", string(pricesJSON), now, productID).Exec()
	}
	if req.Features != nil {
		session.Query("UPDATE products SET features = ?, updated_at = ? WHERE product_id = ?", *req.Features, now, productID).Exec()
	}
	if req.IsActive != nil {
		session.Query("UPDATE products SET is_active = ?, updated_at = ? WHERE product_id = ?", *req.IsActive, now, productID).Exec()
	}

	cache.InvalidateProductCache(productID.String())

	// Ré-indexation avec l'état à jour
	if p, err := cache.GetProductFromCache(productID.String()); err == nil {
		go services.IndexProduct(*p)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "productId": productID})
}

// DeleteProduct - DELETE /api/admin/products/:id
// Désactivation logique, les licences vendues référencent toujours le produit
func DeleteProduct(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := session.Query("UPDATE products SET is_active = ?, updated_at = ? WHERE product_id = ?",
		false, time.Now(), productID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur désactivation produit"})
		return
	}

	cache.InvalidateProductCache(productID.String())
	go services.RemoveProductFromIndex(productID.String())

	log.Printf("🗑️ Produit désactivé: %s", productID)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UploadProductImage - POST /api/admin/products/:id/image
func UploadProductImage(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier 'image' requis"})
		return
	}

	objectName := fmt.Sprintf("products/%s", productID)
	url, err := services.UploadProductImage(file, objectName)
	if err != nil {
		log.Printf("❌ Erreur upload MinIO: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur upload image"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := session.Query("UPDATE products SET image_url = ?, updated_at = ? WHERE product_id = ?",
		url, time.Now(), productID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour produit"})
		return
	}

	cache.InvalidateProductCache(productID.String())
	c.JSON(http.StatusOK, gin.H{"success": true, "imageUrl": url})
}

// SearchProducts - GET /api/search?q=
func SearchProducts(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Paramètre 'q' requis"})
		return
	}

	results, err := services.SearchProducts(q)
	if err != nil {
		log.Printf("⚠️ Recherche Elasticsearch indisponible: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Recherche indisponible"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "results": results})
}

// slugify normalise un nom de produit en slug URL
func slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	lastDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
