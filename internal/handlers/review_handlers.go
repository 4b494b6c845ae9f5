package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"

	"github.com/cartbound/storefront-golang/internal/models"
)

//
// --- Review Handlers ---
//

// GetProductReviews is the handler for GET /v1/products/:id/reviews
func (h *Handlers) GetProductReviews(c *gin.Context) {
	productID := c.Param("id")

	query := `
		SELECT r.id, r.product_id, r.user_id, r.rating, r.comment, r.created_at, u.full_name
		FROM reviews r
		JOIN users u ON r.user_id = u.id
		WHERE r.product_id = ?
		ORDER BY r.created_at DESC`
	rows, err := h.DB.Query(query, productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var r models.Review
		if err := rows.Scan(&r.ID, &r.ProductID, &r.UserID, &r.Rating, &r.Comment, &r.CreatedAt, &r.AuthorName); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan review"})
			return
		}
		reviews = append(reviews, r)
	}

	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// ReviewInput is the accepted review payload.
type ReviewInput struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=2000"`
}

// CreateReview is the handler for POST /v1/products/:id/reviews
// One review per customer per product, enforced by the unique key on
// (product_id, user_id).
func (h *Handlers) CreateReview(c *gin.Context) {
	userID := currentUserID(c)
	productID := c.Param("id")

	var input ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Only buyers may review: the product must appear in one of the
	// customer's orders.
	var purchased int
	checkQuery := `
		SELECT COUNT(*)
		FROM order_items oi
		JOIN orders o ON oi.order_id = o.id
		WHERE o.user_id = ? AND oi.product_id = ?`
	if err := h.DB.QueryRow(checkQuery, userID, productID).Scan(&purchased); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify purchase"})
		return
	}
	if purchased == 0 {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only review products you have purchased"})
		return
	}

	query := `
		INSERT INTO reviews (product_id, user_id, rating, comment, created_at)
		VALUES (?, ?, ?, ?, ?)`
	result, err := h.DB.Exec(query, productID, userID, input.Rating, input.Comment, time.Now())
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			c.JSON(http.StatusConflict, gin.H{"error": "You have already reviewed this product"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
		return
	}
	reviewID, _ := result.LastInsertId()

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Review created",
		"reviewId": reviewID,
	})
}
