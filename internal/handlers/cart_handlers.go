package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cartbound/storefront-golang/internal/models"
)

//
// --- Cart Handlers (Customer) ---
//

// getOrCreateCartID finds a user's cart or creates one. Carts are
// one-per-user; this runs inside the caller's transaction.
func (h *Handlers) getOrCreateCartID(tx *sql.Tx, userID int64) (int64, error) {
	var cartID int64
	err := tx.QueryRow("SELECT id FROM carts WHERE user_id = ?", userID).Scan(&cartID)
	if err == nil {
		return cartID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	now := time.Now()
	result, err := tx.Exec("INSERT INTO carts (user_id, created_at, updated_at) VALUES (?, ?, ?)", userID, now, now)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// AddToCartInput is the accepted add-to-cart payload.
type AddToCartInput struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,gt=0"`
}

// AddToCart is the handler for POST /v1/cart/items
func (h *Handlers) AddToCart(c *gin.Context) {
	userID := currentUserID(c)

	var input AddToCartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction failed"})
		return
	}
	defer tx.Rollback()

	cartID, err := h.getOrCreateCartID(tx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cart initialization failed"})
		return
	}

	var stock int
	err = tx.QueryRow("SELECT stock_quantity FROM products WHERE id = ? AND status = ?",
		input.ProductID, models.ProductPublished).Scan(&stock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found or not available"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if stock < input.Quantity {
		c.JSON(http.StatusConflict, gin.H{"error": "Not enough stock for this product"})
		return
	}

	// Same product added twice merges into one line.
	now := time.Now()
	query := `
		INSERT INTO cart_items (cart_id, product_id, quantity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity), updated_at = VALUES(updated_at)`
	if _, err := tx.Exec(query, cartID, input.ProductID, input.Quantity, now, now); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item added to cart"})
}

// CartItemView is a cart line joined with current product data.
type CartItemView struct {
	models.CartItem
	ProductName  string  `json:"productName"`
	ProductImage *string `json:"productImage,omitempty"`
	UnitPrice    float64 `json:"unitPrice"`
	Stock        int     `json:"stock"`
}

// GetCart is the handler for GET /v1/cart
func (h *Handlers) GetCart(c *gin.Context) {
	userID := currentUserID(c)

	var cartID int64
	err := h.DB.QueryRow("SELECT id FROM carts WHERE user_id = ?", userID).Scan(&cartID)
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusOK, gin.H{"items": []CartItemView{}, "total": 0})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to find cart"})
		return
	}

	query := `
		SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity, ci.created_at, ci.updated_at,
		       p.name, p.image_url, p.price, p.stock_quantity
		FROM cart_items ci
		JOIN products p ON ci.product_id = p.id
		WHERE ci.cart_id = ? AND p.status = ?`
	rows, err := h.DB.Query(query, cartID, models.ProductPublished)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get cart items"})
		return
	}
	defer rows.Close()

	items := []CartItemView{}
	var total float64
	for rows.Next() {
		var item CartItemView
		if err := rows.Scan(
			&item.ID, &item.CartID, &item.ProductID, &item.Quantity,
			&item.CreatedAt, &item.UpdatedAt,
			&item.ProductName, &item.ProductImage, &item.UnitPrice, &item.Stock,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan cart item"})
			return
		}
		total += item.UnitPrice * float64(item.Quantity)
		items = append(items, item)
	}

	c.JSON(http.StatusOK, gin.H{
		"cartId": cartID,
		"items":  items,
		"total":  total,
	})
}

// UpdateCartItemInput is the accepted quantity-change payload.
type UpdateCartItemInput struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

// UpdateCartItem is the handler for PUT /v1/cart/items/:product_id
func (h *Handlers) UpdateCartItem(c *gin.Context) {
	userID := currentUserID(c)
	productID := c.Param("product_id")

	var input UpdateCartItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	query := `
		UPDATE cart_items ci
		JOIN carts ct ON ci.cart_id = ct.id
		SET ci.quantity = ?, ci.updated_at = ?
		WHERE ct.user_id = ? AND ci.product_id = ?`
	result, err := h.DB.Exec(query, input.Quantity, time.Now(), userID, productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not in your cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart item updated"})
}

// DeleteCartItem is the handler for DELETE /v1/cart/items/:product_id
func (h *Handlers) DeleteCartItem(c *gin.Context) {
	userID := currentUserID(c)
	productID := c.Param("product_id")

	query := `
		DELETE ci FROM cart_items ci
		JOIN carts ct ON ci.cart_id = ct.id
		WHERE ct.user_id = ? AND ci.product_id = ?`
	result, err := h.DB.Exec(query, userID, productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove item"})
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not in your cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
}
