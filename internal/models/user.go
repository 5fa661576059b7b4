package models

import "time"

// Customer est un client de la boutique
type Customer struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"` // Hash argon2id, jamais sérialisé
	Name      string    `json:"name"`
	Provider  string    `json:"provider,omitempty"` // "google", "discord" ou vide (email/mdp)
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Rôles des membres de l'équipe
const (
	TeamRoleAdmin   = "admin"
	TeamRoleSupport = "support"
)

// TeamMember est un membre de l'équipe du back-office
type TeamMember struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Role      string    `json:"role"` // "admin" ou "support"
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
