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
// --- Order Handlers ---
//

// GetMyOrders is the handler for GET /v1/orders
func (h *Handlers) GetMyOrders(c *gin.Context) {
	userID := currentUserID(c)

	query := `
		SELECT id, external_session_id, user_id, status, total, created_at, updated_at
		FROM orders
		WHERE user_id = ?
		ORDER BY created_at DESC`
	rows, err := h.DB.Query(query, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.ExternalSessionID, &o.UserID, &o.Status, &o.Total, &o.CreatedAt, &o.UpdatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan order data"})
			return
		}
		orders = append(orders, o)
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// GetOrderDetails is the handler for GET /v1/orders/:id
// Line items come straight from the snapshot columns; the current
// products table is deliberately not joined, so history shows what
// was actually bought.
func (h *Handlers) GetOrderDetails(c *gin.Context) {
	userID := currentUserID(c)
	orderID := c.Param("id")

	var o models.Order
	var shipName, shipLine1, shipLine2, shipCity, shipPostcode, shipCountry sql.NullString
	queryOrder := `
		SELECT id, external_session_id, user_id, status, total,
		       ship_name, ship_line1, ship_line2, ship_city, ship_postcode, ship_country,
		       created_at, updated_at
		FROM orders
		WHERE id = ? AND user_id = ?`
	err := h.DB.QueryRow(queryOrder, orderID, userID).Scan(
		&o.ID, &o.ExternalSessionID, &o.UserID, &o.Status, &o.Total,
		&shipName, &shipLine1, &shipLine2, &shipCity, &shipPostcode, &shipCountry,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}
	if shipLine1.Valid {
		o.Shipping = &models.ShippingAddress{
			Name:     shipName.String,
			Line1:    shipLine1.String,
			Line2:    shipLine2.String,
			City:     shipCity.String,
			Postcode: shipPostcode.String,
			Country:  shipCountry.String,
		}
	}

	queryItems := `
		SELECT id, order_id, product_id, product_name, product_image, quantity, unit_price, created_at
		FROM order_items
		WHERE order_id = ?`
	rows, err := h.DB.Query(queryItems, o.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order items"})
		return
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.ProductImage, &item.Quantity, &item.UnitPrice, &item.CreatedAt,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan order item"})
			return
		}
		items = append(items, item)
	}

	c.JSON(http.StatusOK, gin.H{
		"order": o,
		"items": items,
	})
}

//
// --- Admin Order Handlers ---
//

// ListOrders is the handler for GET /v1/admin/orders
// Supports ?status=PAID filtering.
func (h *Handlers) ListOrders(c *gin.Context) {
	query := `
		SELECT id, external_session_id, user_id, status, total, created_at, updated_at
		FROM orders`
	args := []interface{}{}

	if status := c.Query("status"); status != "" {
		if !models.ValidOrderStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown order status"})
			return
		}
		query += " WHERE status = ?"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC LIMIT 100"

	rows, err := h.DB.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.ExternalSessionID, &o.UserID, &o.Status, &o.Total, &o.CreatedAt, &o.UpdatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan order data"})
			return
		}
		orders = append(orders, o)
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// UpdateOrderStatusInput is the accepted status-change payload.
type UpdateOrderStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus is the handler for PATCH /v1/admin/orders/:id/status
// Transitions are append-only: the lifecycle only moves forward, and
// terminal statuses are frozen.
func (h *Handlers) UpdateOrderStatus(c *gin.Context) {
	orderID := c.Param("id")

	var input UpdateOrderStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidOrderStatus(input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown order status"})
		return
	}

	tx, err := h.DB.BeginTx(c, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	var current string
	err = tx.QueryRow("SELECT status FROM orders WHERE id = ? FOR UPDATE", orderID).Scan(&current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}

	if !models.CanTransition(current, input.Status) {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Invalid status transition from " + current + " to " + input.Status,
		})
		return
	}

	if _, err := tx.Exec("UPDATE orders SET status = ?, updated_at = ? WHERE id = ?",
		input.Status, time.Now(), orderID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order status updated", "status": input.Status})
}
