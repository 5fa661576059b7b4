package utils

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateCustomerJWT émet un token pour un client de la boutique
func GenerateCustomerJWT(customerID, email string) (string, error) {
	return signToken(jwt.MapClaims{
		"user_id": customerID,
		"email":   email,
		"role":    "customer",
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	})
}

// GenerateTeamJWT émet un token back-office (role = "admin" ou "support")
func GenerateTeamJWT(memberID, email, role string) (string, error) {
	return signToken(jwt.MapClaims{
		"user_id": memberID,
		"email":   email,
		"role":    role,
		"exp":     time.Now().Add(12 * time.Hour).Unix(),
	})
}

func signToken(claims jwt.MapClaims) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "super_secret"
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
