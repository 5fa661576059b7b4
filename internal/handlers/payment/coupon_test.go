package pay

import (
	"testing"
	"time"

	"mgma_back_end/internal/models"

	"github.com/stretchr/testify/assert"
)

func validCoupon() models.Coupon {
	return models.Coupon{
		Code:            "SUMMER20",
		DiscountPercent: 20,
		MaxUses:         100,
		CurrentUses:     5,
		IsActive:        true,
		ValidUntil:      time.Now().Add(30 * 24 * time.Hour),
	}
}

func TestCheckCouponRulesValid(t *testing.T) {
	v := CheckCouponRules(validCoupon(), 50, time.Now())

	assert.True(t, v.IsValid)
	assert.Equal(t, "SUMMER20", v.Code)
	assert.Equal(t, 20.0, v.DiscountPercent)
	assert.InDelta(t, 10.0, v.Discount, 0.001)
}

func TestCheckCouponRulesInactive(t *testing.T) {
	c := validCoupon()
	c.IsActive = false

	v := CheckCouponRules(c, 50, time.Now())
	assert.False(t, v.IsValid)
	assert.Equal(t, "Ce coupon n'est plus actif", v.ErrorMessage)
}

func TestCheckCouponRulesExpired(t *testing.T) {
	c := validCoupon()
	c.ValidUntil = time.Now().Add(-time.Hour)

	v := CheckCouponRules(c, 50, time.Now())
	assert.False(t, v.IsValid)
	assert.Equal(t, "Ce coupon a expiré", v.ErrorMessage)
}

func TestCheckCouponRulesMaxUsesReached(t *testing.T) {
	c := validCoupon()
	c.MaxUses = 10
	c.CurrentUses = 10

	v := CheckCouponRules(c, 50, time.Now())
	assert.False(t, v.IsValid)
	assert.Equal(t, "Ce coupon a atteint sa limite d'utilisation", v.ErrorMessage)
}

func TestCheckCouponRulesUnlimitedUses(t *testing.T) {
	// max_uses = 0 signifie illimité
	c := validCoupon()
	c.MaxUses = 0
	c.CurrentUses = 99999

	v := CheckCouponRules(c, 50, time.Now())
	assert.True(t, v.IsValid)
}

func TestApplyDiscount(t *testing.T) {
	tests := []struct {
		price    float64
		percent  float64
		final    float64
		discount float64
	}{
		{50, 20, 40, 10},
		{19.99, 10, 17.99, 2.00},
		{29.99, 15, 25.49, 4.50},
		{10, 0, 10, 0},
		{10, 100, 0, 10},
	}

	for _, tt := range tests {
		final, discount := ApplyDiscount(tt.price, tt.percent)
		assert.InDelta(t, tt.final, final, 0.001, "prix %.2f à -%.0f%%", tt.price, tt.percent)
		assert.InDelta(t, tt.discount, discount, 0.001, "prix %.2f à -%.0f%%", tt.price, tt.percent)
	}
}

func TestApplyDiscountNeverNegative(t *testing.T) {
	final, _ := ApplyDiscount(0.01, 100)
	assert.GreaterOrEqual(t, final, 0.0)
}
