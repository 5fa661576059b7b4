package cache

import (
	"context"
	"encoding/json"
	"time"

	"mgma_back_end/internal/database"
	"mgma_back_end/internal/models"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

const (
	ProductCacheTTL = 10 * time.Minute
)

// GetProductFromCache récupère un produit depuis Redis ou ScyllaDB
func GetProductFromCache(productID string) (*models.Product, error) {
	ctx := context.Background()
	key := "product:" + productID

	// 1. Essayer le cache Redis
	data, err := database.Redis.Get(ctx, key).Result()
	if err == nil {
		var product models.Product
		if json.Unmarshal([]byte(data), &product) == nil {
			return &product, nil
		}
	}

	// 2. Récupérer de ScyllaDB
	session, err := database.GetProductsSession()
	if err != nil {
		return nil, err
	}

	pid, err := uuid.Parse(productID)
	if err != nil {
		return nil, err
	}

	var product models.Product
	var pricesJSON string
	err = session.Query(`SELECT product_id, name, slug, game, description, prices, image_url, features, is_active, created_at, updated_at
		FROM products WHERE product_id = ?`, gocql.UUID(pid)).Scan(
		&product.ID, &product.Name, &product.Slug, &product.Game, &product.Description,
		&pricesJSON, &product.ImageURL, &product.Features, &product.IsActive,
		&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if pricesJSON != "" {
		json.Unmarshal([]byte(pricesJSON), &product.Prices)
	}

	// 3. Mettre en cache
	jsonData, _ := json.Marshal(product)
	database.Redis.Set(ctx, key, jsonData, ProductCacheTTL)

	return &product, nil
}

// GetProductBySlug résout un produit via son slug (pour les IDs placeholder du front)
func GetProductBySlug(slug string) (*models.Product, error) {
	session, err := database.GetProductsSession()
	if err != nil {
		return nil, err
	}

	var productID gocql.UUID
	if err := session.Query("SELECT product_id FROM products_by_slug WHERE slug = ?", slug).Scan(&productID); err != nil {
		return nil, err
	}

	return GetProductFromCache(productID.String())
}

// InvalidateProductCache invalide le cache d'un produit
func InvalidateProductCache(productID string) {
	ctx := context.Background()
	database.Redis.Del(ctx, "product:"+productID)
}
