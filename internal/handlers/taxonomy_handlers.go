package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
	"github.com/gosimple/slug"

	"github.com/cartbound/storefront-golang/internal/models"
)

//
// --- Category Handlers ---
//

// GetAllCategories is the handler for GET /v1/categories
func (h *Handlers) GetAllCategories(c *gin.Context) {
	query := `
		SELECT id, name, slug, parent_id, created_at, updated_at
		FROM categories
		ORDER BY name ASC`
	rows, err := h.DB.Query(query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Slug, &cat.ParentID, &cat.CreatedAt, &cat.UpdatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan category row"})
			return
		}
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating category rows"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// CategoryInput is the accepted category payload.
type CategoryInput struct {
	Name     string `json:"name" binding:"required"`
	ParentID *int64 `json:"parentId"`
}

// CreateCategory is the handler for POST /v1/admin/categories
func (h *Handlers) CreateCategory(c *gin.Context) {
	var input CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	query := "INSERT INTO categories (name, slug, parent_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?)"
	result, err := h.DB.Exec(query, input.Name, slug.Make(input.Name), input.ParentID, now, now)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			c.JSON(http.StatusConflict, gin.H{"error": "A category with this name already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}
	categoryID, _ := result.LastInsertId()

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Category created",
		"categoryId": categoryID,
	})
}

// DeleteCategory is the handler for DELETE /v1/admin/categories/:id
// Products keep their rows; their category_id is set NULL by the FK.
func (h *Handlers) DeleteCategory(c *gin.Context) {
	result, err := h.DB.Exec("DELETE FROM categories WHERE id = ?", c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}
