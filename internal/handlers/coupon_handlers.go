package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/cartbound/storefront-golang/internal/models"
)

//
// --- Coupon Handlers ---
//

// ValidateCouponInput is the accepted validation payload.
type ValidateCouponInput struct {
	Code string `json:"code" binding:"required"`
}

// ValidateCoupon is the handler for POST /v1/coupons/validate
// Read-only: it reports whether the code would apply, without burning
// a use. The use is burned at checkout.
func (h *Handlers) ValidateCoupon(c *gin.Context) {
	var input ValidateCouponInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var cp models.Coupon
	query := `
		SELECT id, code, discount_percent, expires_at, max_uses, used_count, created_at
		FROM coupons WHERE code = ?`
	err := h.DB.QueryRow(query, input.Code).Scan(
		&cp.ID, &cp.Code, &cp.DiscountPercent, &cp.ExpiresAt,
		&cp.MaxUses, &cp.UsedCount, &cp.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown coupon code"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up coupon"})
		return
	}

	if !cp.Usable(time.Now()) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Coupon is expired or exhausted"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":           true,
		"discountPercent": cp.DiscountPercent,
	})
}

//
// --- Admin Coupon Handlers ---
//

// CouponInput is the accepted create payload. An empty code gets a
// generated one.
type CouponInput struct {
	Code            string     `json:"code"`
	DiscountPercent int        `json:"discountPercent" binding:"required,min=1,max=100"`
	ExpiresAt       *time.Time `json:"expiresAt"`
	MaxUses         int        `json:"maxUses" binding:"gte=0"`
}

// CreateCoupon is the handler for POST /v1/admin/coupons
func (h *Handlers) CreateCoupon(c *gin.Context) {
	var input CouponInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" {
		// Short random code from a fresh UUID, e.g. "SAVE-1A2B3C4D"
		code = "SAVE-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	}

	query := `
		INSERT INTO coupons (code, discount_percent, expires_at, max_uses, used_count, created_at)
		VALUES (?, ?, ?, ?, 0, ?)`
	result, err := h.DB.Exec(query, code, input.DiscountPercent, input.ExpiresAt, input.MaxUses, time.Now())
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			c.JSON(http.StatusConflict, gin.H{"error": "Coupon code already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create coupon"})
		return
	}
	couponID, _ := result.LastInsertId()

	c.JSON(http.StatusCreated, gin.H{
		"couponId": couponID,
		"code":     code,
	})
}

// ListCoupons is the handler for GET /v1/admin/coupons
func (h *Handlers) ListCoupons(c *gin.Context) {
	query := `
		SELECT id, code, discount_percent, expires_at, max_uses, used_count, created_at
		FROM coupons
		ORDER BY created_at DESC`
	rows, err := h.DB.Query(query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch coupons"})
		return
	}
	defer rows.Close()

	coupons := []models.Coupon{}
	for rows.Next() {
		var cp models.Coupon
		if err := rows.Scan(&cp.ID, &cp.Code, &cp.DiscountPercent, &cp.ExpiresAt, &cp.MaxUses, &cp.UsedCount, &cp.CreatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan coupon"})
			return
		}
		coupons = append(coupons, cp)
	}

	c.JSON(http.StatusOK, gin.H{"coupons": coupons})
}

// DeleteCoupon is the handler for DELETE /v1/admin/coupons/:id
func (h *Handlers) DeleteCoupon(c *gin.Context) {
	result, err := h.DB.Exec("DELETE FROM coupons WHERE id = ?", c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete coupon"})
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Coupon not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Coupon deleted"})
}
