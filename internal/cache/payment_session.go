package cache

import (
	"context"
	"encoding/json"
	"time"

	"mgma_back_end/internal/database"
	"mgma_back_end/internal/models"
)

const (
	// Durée de vie du cache de session : au-delà, on refetch chez le provider.
	// La perte du cache ne perd aucune donnée durable.
	PaymentSessionTTL = 30 * time.Minute
)

func sessionKey(sessionID string) string {
	return "payment_session:" + sessionID
}

// GetPaymentSession récupère une session de paiement depuis Redis
func GetPaymentSession(sessionID string) (*models.PaymentSession, bool) {
	ctx := context.Background()

	data, err := database.Redis.Get(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return nil, false
	}

	var session models.PaymentSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, false
	}
	return &session, true
}

// SetPaymentSession met en cache un instantané de session
func SetPaymentSession(session models.PaymentSession) {
	ctx := context.Background()

	session.UpdatedAt = time.Now()
	data, err := json.Marshal(session)
	if err != nil {
		return
	}
	database.Redis.Set(ctx, sessionKey(session.SessionID), data, PaymentSessionTTL)
}

// MarkSessionPaid met à jour le statut en cache après confirmation du provider
func MarkSessionPaid(sessionID string, paidAt time.Time) {
	session, ok := GetPaymentSession(sessionID)
	if !ok {
		return
	}
	session.Status = models.SessionStatusPaid
	session.PaidAt = &paidAt
	SetPaymentSession(*session)
}

// InvalidatePaymentSession supprime une session du cache
func InvalidatePaymentSession(sessionID string) {
	ctx := context.Background()
	database.Redis.Del(ctx, sessionKey(sessionID))
}
