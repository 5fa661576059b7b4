package admin

import (
	"log"
	"net/http"
	"strings"
	"time"

	"mgma_back_end/internal/database"
	"mgma_back_end/internal/models"
	"mgma_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// CreateTeamMember - POST /api/admin/team
func CreateTeamMember(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Name     string `json:"name" binding:"required"`
		Password string `json:"password" binding:"required,min=8"`
		Role     string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Champs invalides"})
		return
	}

	if req.Role != models.TeamRoleAdmin && req.Role != models.TeamRoleSupport {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rôle inconnu"})
		return
	}

	session, err := database.GetCustomersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	email := strings.ToLower(req.Email)

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur hashage mot de passe"})
		return
	}

	now := time.Now()
	applied, err := session.Query(
		"INSERT INTO team_members (email, id, name, password, role, created_at) VALUES (?, ?, ?, ?, ?, ?) IF NOT EXISTS",
		email, gocql.TimeUUID(), req.Name, hash, req.Role, now,
	).MapScanCAS(map[string]interface{}{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création membre"})
		return
	}
	if !applied {
		c.JSON(http.StatusConflict, gin.H{"error": "Un membre existe déjà avec cet email"})
		return
	}

	log.Printf("✅ Membre équipe créé: %s (%s)", email, req.Role)
	c.JSON(http.StatusCreated, gin.H{"success": true, "email": email, "role": req.Role})
}

// GetTeamMembers - GET /api/admin/team
func GetTeamMembers(c *gin.Context) {
	session, err := database.GetCustomersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	members := []gin.H{}
	iter := session.Query("SELECT email, id, name, role, created_at FROM team_members").Iter()

	var m models.TeamMember
	for iter.Scan(&m.Email, &m.ID, &m.Name, &m.Role, &m.CreatedAt) {
		// Jamais de hash dans la réponse
		members = append(members, gin.H{
			"email":     m.Email,
			"id":        m.ID,
			"name":      m.Name,
			"role":      m.Role,
			"createdAt": m.CreatedAt,
		})
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture équipe"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "members": members})
}

// UpdateTeamMember - PUT /api/admin/team/:email
func UpdateTeamMember(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Champs invalides"})
		return
	}

	session, err := database.GetCustomersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	email := strings.ToLower(c.Param("email"))

	var existing string
	if err := session.Query("SELECT email FROM team_members WHERE email = ?", email).Scan(&existing); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Membre introuvable"})
		return
	}

	if req.Name != "" {
		session.Query("UPDATE team_members SET name = ? WHERE email = ?", req.Name, email).Exec()
	}
	if req.Role != "" {
		if req.Role != models.TeamRoleAdmin && req.Role != models.TeamRoleSupport {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Rôle inconnu"})
			return
		}
		session.Query("UPDATE team_members SET role = ? WHERE email = ?", req.Role, email).Exec()
	}
	if req.Password != "" {
		if len(req.Password) < 8 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Mot de passe trop court (8 caractères minimum)"})
			return
		}
		hash, err := utils.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur hashage mot de passe"})
			return
		}
		session.Query("UPDATE team_members SET password = ? WHERE email = ?", hash, email).Exec()
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "email": email})
}

// DeleteTeamMember - DELETE /api/admin/team/:email
func DeleteTeamMember(c *gin.Context) {
	email := strings.ToLower(c.Param("email"))

	if email == c.GetString("email") {
		c.JSON(http.StatusConflict, gin.H{"error": "Impossible de supprimer son propre compte"})
		return
	}

	session, err := database.GetCustomersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	if err := session.Query("DELETE FROM team_members WHERE email = ?", email).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression membre"})
		return
	}

	log.Printf("🗑️ Membre équipe supprimé: %s", email)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
