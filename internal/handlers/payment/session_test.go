package pay

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyMotionSessionRequestPublicContract(t *testing.T) {
	body := `{
		"amount": 29.99,
		"currency": "eur",
		"customer_email": "client@example.com",
		"order_id": "MGMA-20260901-A1B2C3",
		"product_id": "7f3a2b10-0000-0000-0000-000000000000",
		"license_duration": "30 Jours"
	}`

	var req moneyMotionSessionRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	assert.Equal(t, "MGMA-20260901-A1B2C3", req.orderRef())
	assert.Equal(t, 29.99, req.Amount)
	assert.Equal(t, "eur", req.Currency)
	assert.Equal(t, "client@example.com", req.CustomerEmail)
	assert.Equal(t, "30 Jours", req.LicenseDuration)
}

func TestMoneyMotionSessionRequestOrderNumberAlias(t *testing.T) {
	var req moneyMotionSessionRequest
	require.NoError(t, json.Unmarshal([]byte(`{"orderNumber":"MGMA-20260901-XYZ789"}`), &req))

	assert.Equal(t, "MGMA-20260901-XYZ789", req.orderRef())
}

func TestMoneyMotionSessionRequestOrderIDWins(t *testing.T) {
	var req moneyMotionSessionRequest
	require.NoError(t, json.Unmarshal(
		[]byte(`{"order_id":"MGMA-20260901-AAAAAA","orderNumber":"MGMA-20260901-BBBBBB"}`), &req))

	assert.Equal(t, "MGMA-20260901-AAAAAA", req.orderRef())
}

func TestMoneyMotionSessionRequestMissingRef(t *testing.T) {
	var req moneyMotionSessionRequest
	require.NoError(t, json.Unmarshal([]byte(`{"amount":9.99,"currency":"eur"}`), &req))

	assert.Empty(t, req.orderRef())
}
