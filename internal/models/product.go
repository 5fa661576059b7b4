package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Product est un produit du catalogue (un accès logiciel vendu par durée)
type Product struct {
	ID          gocql.UUID         `json:"id"`
	Name        string             `json:"name"`
	Slug        string             `json:"slug"` // Unique, utilisé dans les URLs et les clés de licence
	Game        string             `json:"game"`
	Description string             `json:"description"`
	Prices      map[string]float64 `json:"prices"` // libellé de durée → prix
	ImageURL    string             `json:"image_url,omitempty"`
	Features    []string           `json:"features,omitempty"`
	IsActive    bool               `json:"is_active"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}
