package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cartbound/storefront-golang/internal/models"
)

//
// --- Checkout Handler (Customer) ---
//
// Checkout prices the cart and builds the payment session handed to
// the provider. No order row is written here: the order is created
// only when the provider's webhook confirms payment, with this
// session's id as the idempotency key.
//

// CheckoutInput is the accepted checkout payload.
type CheckoutInput struct {
	CouponCode      string                  `json:"couponCode"`
	ShippingAddress *models.ShippingAddress `json:"shippingAddress"`
}

// checkoutLine mirrors the line-item shape echoed back to us in the
// webhook's metadata.items JSON string.
type checkoutLine struct {
	ProductID    string `json:"productId"`
	ProductName  string `json:"productName"`
	ProductImage string `json:"productImage"`
	Quantity     int    `json:"quantity"`
	Price        string `json:"price"`
}

// Checkout is the handler for POST /v1/checkout
func (h *Handlers) Checkout(c *gin.Context) {
	userID := currentUserID(c)

	var input CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := h.DB.BeginTx(c, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	var cartID int64
	err = tx.QueryRow("SELECT id FROM carts WHERE user_id = ?", userID).Scan(&cartID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Your cart is empty"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to find cart"})
		return
	}

	query := `
		SELECT ci.product_id, ci.quantity, p.name, COALESCE(p.image_url, ''), p.price, p.stock_quantity
		FROM cart_items ci
		JOIN products p ON ci.product_id = p.id
		WHERE ci.cart_id = ? AND p.status = ?`
	rows, err := tx.Query(query, cartID, models.ProductPublished)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get cart items"})
		return
	}
	defer rows.Close()

	var lines []checkoutLine
	var total float64
	for rows.Next() {
		var productID int64
		var quantity, stock int
		var name, image string
		var price float64
		if err := rows.Scan(&productID, &quantity, &name, &image, &price, &stock); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan cart item"})
			return
		}

		// Advisory check only: stock is actually enforced inside the
		// finalization transaction when payment confirms.
		if stock < quantity {
			c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("Not enough stock for %q", name)})
			return
		}

		total += price * float64(quantity)
		lines = append(lines, checkoutLine{
			ProductID:    fmt.Sprintf("%d", productID),
			ProductName:  name,
			ProductImage: image,
			Quantity:     quantity,
			Price:        fmt.Sprintf("%.2f", price),
		})
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read cart items"})
		return
	}
	if len(lines) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Your cart contains no available products"})
		return
	}

	if input.CouponCode != "" {
		discounted, err := h.applyCoupon(tx, input.CouponCode, total)
		if err != nil {
			if errors.Is(err, errCouponUnusable) {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Coupon is expired or exhausted"})
				return
			}
			if errors.Is(err, sql.ErrNoRows) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Unknown coupon code"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply coupon"})
			return
		}
		total = discounted
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout failed"})
		return
	}

	itemsJSON, err := json.Marshal(lines)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout failed"})
		return
	}

	metadata := gin.H{
		"userId": fmt.Sprintf("%d", userID),
		"items":  string(itemsJSON),
	}
	if input.ShippingAddress != nil {
		addrJSON, err := json.Marshal(input.ShippingAddress)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout failed"})
			return
		}
		metadata["shippingAddress"] = string(addrJSON)
	}

	c.JSON(http.StatusOK, gin.H{
		"sessionId":   "sess_" + uuid.NewString(),
		"amountTotal": int64(math.Round(total * 100)),
		"currency":    "usd",
		"metadata":    metadata,
	})
}

var errCouponUnusable = errors.New("coupon unusable")

// applyCoupon validates the code and burns one use inside the checkout
// transaction. Returns the discounted total.
func (h *Handlers) applyCoupon(tx *sql.Tx, code string, total float64) (float64, error) {
	var cp models.Coupon
	query := `
		SELECT id, code, discount_percent, expires_at, max_uses, used_count, created_at
		FROM coupons WHERE code = ?`
	err := tx.QueryRow(query, code).Scan(
		&cp.ID, &cp.Code, &cp.DiscountPercent, &cp.ExpiresAt,
		&cp.MaxUses, &cp.UsedCount, &cp.CreatedAt,
	)
	if err != nil {
		return 0, err
	}

	if !cp.Usable(time.Now()) {
		return 0, errCouponUnusable
	}

	if _, err := tx.Exec("UPDATE coupons SET used_count = used_count + 1 WHERE id = ?", cp.ID); err != nil {
		return 0, err
	}

	return cp.Apply(total), nil
}
