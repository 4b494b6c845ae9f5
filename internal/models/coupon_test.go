package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCoupon_Usable(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.True(t, (&Coupon{MaxUses: 10, UsedCount: 3, ExpiresAt: &future}).Usable(now))
	assert.True(t, (&Coupon{MaxUses: 0, UsedCount: 999}).Usable(now), "zero max_uses means unlimited")
	assert.False(t, (&Coupon{ExpiresAt: &past}).Usable(now))
	assert.False(t, (&Coupon{MaxUses: 5, UsedCount: 5}).Usable(now))
}

func TestCoupon_Apply(t *testing.T) {
	cp := &Coupon{DiscountPercent: 25}
	assert.InDelta(t, 75.0, cp.Apply(100.0), 0.0001)
}
