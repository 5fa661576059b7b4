package user

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"mgma_back_end/internal/database"
	"mgma_back_end/internal/models"
	"mgma_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/markbates/goth/gothic"
)

type ctxKey string

const providerKey ctxKey = "provider"

// Register - POST /api/auth/register
func Register(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := database.GetCustomersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	email := strings.ToLower(input.Email)

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur hash mot de passe"})
		return
	}

	id := gocql.TimeUUID()
	now := time.Now()

	// LWT : l'email est la clé, pas de doublon possible même sous deux
	// inscriptions simultanées
	applied, err := session.Query(
		"INSERT INTO customers (email, id, name, password, provider, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?) IF NOT EXISTS",
		email, id, input.Name, hash, "", now, now,
	).MapScanCAS(map[string]interface{}{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !applied {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Un compte avec cet email existe déjà",
			"email": email,
		})
		return
	}

	log.Printf("✅ Client créé: %s", email)
	c.JSON(http.StatusCreated, gin.H{
		"id":    id.String(),
		"email": email,
		"name":  input.Name,
	})
}

// Login - POST /api/auth/login
func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := database.GetCustomersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	email := strings.ToLower(input.Email)

	var customer models.Customer
	customer.Email = email
	if err := session.Query("SELECT id, name, password, provider FROM customers WHERE email = ?", email).Scan(
		&customer.ID, &customer.Name, &customer.Password, &customer.Provider); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	if customer.Provider != "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Ce compte utilise la connexion " + customer.Provider})
		return
	}

	ok, err := utils.VerifyPassword(input.Password, customer.Password)
	if err != nil || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Mot de passe incorrect"})
		return
	}

	token, err := utils.GenerateCustomerJWT(customer.ID, customer.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":  token,
		"userId": customer.ID,
		"name":   customer.Name,
		"email":  customer.Email,
		"role":   "customer",
	})
}

// TeamLogin - POST /api/auth/team/login
// Connexion du back-office, renvoie un JWT avec rôle admin ou support
func TeamLogin(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := database.GetCustomersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	email := strings.ToLower(input.Email)

	var member models.TeamMember
	member.Email = email
	if err := session.Query("SELECT id, name, password, role FROM team_members WHERE email = ?", email).Scan(
		&member.ID, &member.Name, &member.Password, &member.Role); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	ok, err := utils.VerifyPassword(input.Password, member.Password)
	if err != nil || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Mot de passe incorrect"})
		return
	}

	token, err := utils.GenerateTeamJWT(member.ID, member.Email, member.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	log.Printf("🔑 Connexion back-office: %s (%s)", email, member.Role)
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"name":  member.Name,
		"email": member.Email,
		"role":  member.Role,
	})
}

// ================== AUTH SOCIALE ==================

func BeginAuth(c *gin.Context) {
	provider := c.Param("provider")
	if provider == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "aucun provider spécifié"})
		return
	}

	c.Request = c.Request.WithContext(
		context.WithValue(c.Request.Context(), providerKey, provider),
	)

	gothic.BeginAuthHandler(c.Writer, c.Request)
}

func CallbackAuth(c *gin.Context) {
	provider := c.Param("provider")
	if provider == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "aucun provider spécifié"})
		return
	}

	c.Request = c.Request.WithContext(
		context.WithValue(c.Request.Context(), providerKey, provider),
	)

	userInfo, err := gothic.CompleteUserAuth(c.Writer, c.Request)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := database.GetCustomersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	email := strings.ToLower(userInfo.Email)

	var customer models.Customer
	customer.Email = email
	err = session.Query("SELECT id, name, provider FROM customers WHERE email = ?", email).Scan(
		&customer.ID, &customer.Name, &customer.Provider)

	if err != nil {
		// Création d'un nouveau client social
		id := gocql.TimeUUID()
		now := time.Now()
		customer = models.Customer{
			ID:       id.String(),
			Email:    email,
			Name:     userInfo.Name,
			Provider: provider,
		}
		if err := session.Query(
			"INSERT INTO customers (email, id, name, provider, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
			email, id, userInfo.Name, provider, now, now,
		).Exec(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur enregistrement utilisateur"})
			return
		}
		log.Printf("✅ Client %s créé via %s", email, provider)
	}

	token, err := utils.GenerateCustomerJWT(customer.ID, customer.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"provider": provider,
		"email":    customer.Email,
		"name":     customer.Name,
		"role":     "customer",
	})
}

// Me - GET /api/auth/me
func Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"userId": c.GetString("user_id"),
		"email":  c.GetString("email"),
		"role":   c.GetString("role"),
	})
}
