package models

import "time"

// Coupon is the model for the 'coupons' table.
type Coupon struct {
	ID              int64      `json:"id" db:"id"`
	Code            string     `json:"code" db:"code"`
	DiscountPercent int        `json:"discountPercent" db:"discount_percent"`
	ExpiresAt       *time.Time `json:"expiresAt,omitempty" db:"expires_at"`
	MaxUses         int        `json:"maxUses" db:"max_uses"`
	UsedCount       int        `json:"usedCount" db:"used_count"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
}

// Usable reports whether the coupon can still be applied at 'now'.
func (cp *Coupon) Usable(now time.Time) bool {
	if cp.ExpiresAt != nil && now.After(*cp.ExpiresAt) {
		return false
	}
	if cp.MaxUses > 0 && cp.UsedCount >= cp.MaxUses {
		return false
	}
	return true
}

// Apply returns the total after the percentage discount.
func (cp *Coupon) Apply(total float64) float64 {
	return total * (1 - float64(cp.DiscountPercent)/100)
}
