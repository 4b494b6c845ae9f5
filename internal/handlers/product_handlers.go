package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"

	"github.com/cartbound/storefront-golang/internal/cache"
	"github.com/cartbound/storefront-golang/internal/models"
)

//
// --- Public Catalog Handlers ---
//

// ListProducts is the handler for GET /v1/products
// Supports ?category=<id> and ?page=<n> (20 per page).
func (h *Handlers) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit := 20
	offset := (page - 1) * limit

	query := `
		SELECT id, seller_id, category_id, name, slug, description, price, stock_quantity, image_url, status, created_at, updated_at
		FROM products
		WHERE status = ?`
	args := []interface{}{models.ProductPublished}

	if categoryID := c.Query("category"); categoryID != "" {
		query += " AND category_id = ?"
		args = append(args, categoryID)
	}

	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := h.DB.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan product row"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"page":     page,
	})
}

// SearchProducts is the handler for GET /v1/products/search?q=...
func (h *Handlers) SearchProducts(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search term 'q' is required"})
		return
	}

	query := `
		SELECT id, seller_id, category_id, name, slug, description, price, stock_quantity, image_url, status, created_at, updated_at
		FROM products
		WHERE status = ? AND (name LIKE ? OR description LIKE ?)
		ORDER BY created_at DESC
		LIMIT 50`
	pattern := "%" + term + "%"

	rows, err := h.DB.Query(query, models.ProductPublished, pattern, pattern)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan product row"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GetProduct is the handler for GET /v1/products/:id
// Reads through the cache: hit -> cached JSON, miss -> DB then Set.
func (h *Handlers) GetProduct(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	ctx := c.Request.Context()
	key := cache.ProductKey(productID)

	if cached, ok, err := h.Cache.Get(ctx, key); err == nil && ok {
		var product models.Product
		if err := json.Unmarshal([]byte(cached), &product); err == nil {
			c.JSON(http.StatusOK, gin.H{"product": product})
			return
		}
		// Unreadable cache entry: fall through to the DB.
	}

	var product models.Product
	query := `
		SELECT p.id, p.seller_id, p.category_id, p.name, p.slug, p.description, p.price,
		       p.stock_quantity, p.image_url, p.status, p.created_at, p.updated_at,
		       COALESCE(cat.name, '')
		FROM products p
		LEFT JOIN categories cat ON p.category_id = cat.id
		WHERE p.id = ? AND p.status = ?`
	err = h.DB.QueryRow(query, productID, models.ProductPublished).Scan(
		&product.ID, &product.SellerID, &product.CategoryID, &product.Name,
		&product.Slug, &product.Description, &product.Price, &product.StockQuantity,
		&product.ImageURL, &product.Status, &product.CreatedAt, &product.UpdatedAt,
		&product.CategoryName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}

	if encoded, err := json.Marshal(product); err == nil {
		if err := h.Cache.Set(ctx, key, string(encoded), cache.TTLProduct); err != nil {
			log.Printf("[cache] set %s failed: %v", key, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

//
// --- Seller Catalog Handlers ---
//

// ProductInput is the accepted create/update payload for sellers.
type ProductInput struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Stock       int     `json:"stock" binding:"gte=0"`
	CategoryID  *int64  `json:"categoryId"`
	ImageURL    *string `json:"imageUrl"`
	Publish     bool    `json:"publish"`
}

// CreateProduct is the handler for POST /v1/seller/products
func (h *Handlers) CreateProduct(c *gin.Context) {
	sellerID := currentUserID(c)

	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := models.ProductDraft
	if input.Publish {
		status = models.ProductPublished
	}

	now := time.Now()
	query := `
		INSERT INTO products
			(seller_id, category_id, name, slug, description, price, stock_quantity, image_url, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := h.DB.Exec(query,
		sellerID, input.CategoryID, input.Name, slug.Make(input.Name),
		input.Description, input.Price, input.Stock, input.ImageURL, status, now, now,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}
	productID, _ := result.LastInsertId()

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Product created",
		"productId": productID,
	})
}

// GetMyProducts is the handler for GET /v1/seller/products
func (h *Handlers) GetMyProducts(c *gin.Context) {
	sellerID := currentUserID(c)

	query := `
		SELECT id, seller_id, category_id, name, slug, description, price, stock_quantity, image_url, status, created_at, updated_at
		FROM products
		WHERE seller_id = ?
		ORDER BY created_at DESC`
	rows, err := h.DB.Query(query, sellerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan product row"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// UpdateProduct is the handler for PUT /v1/seller/products/:id
// Sellers may only touch their own products; stock here is an absolute
// set, unlike the relative decrement in the order finalizer.
func (h *Handlers) UpdateProduct(c *gin.Context) {
	sellerID := currentUserID(c)
	productID := c.Param("id")

	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := models.ProductDraft
	if input.Publish {
		status = models.ProductPublished
	}

	query := `
		UPDATE products
		SET category_id = ?, name = ?, slug = ?, description = ?, price = ?,
		    stock_quantity = ?, image_url = ?, status = ?, updated_at = ?
		WHERE id = ? AND seller_id = ?`
	result, err := h.DB.Exec(query,
		input.CategoryID, input.Name, slug.Make(input.Name), input.Description,
		input.Price, input.Stock, input.ImageURL, status, time.Now(),
		productID, sellerID,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found or not yours"})
		return
	}

	h.invalidateProductCache(c, productID)
	c.JSON(http.StatusOK, gin.H{"message": "Product updated"})
}

// DeleteProduct is the handler for DELETE /v1/seller/products/:id
// Products are archived, not removed: order history references them.
func (h *Handlers) DeleteProduct(c *gin.Context) {
	sellerID := currentUserID(c)
	productID := c.Param("id")

	query := "UPDATE products SET status = ?, updated_at = ? WHERE id = ? AND seller_id = ?"
	result, err := h.DB.Exec(query, models.ProductArchived, time.Now(), productID, sellerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found or not yours"})
		return
	}

	h.invalidateProductCache(c, productID)
	c.JSON(http.StatusOK, gin.H{"message": "Product archived"})
}

// invalidateProductCache drops the cached detail after any write.
func (h *Handlers) invalidateProductCache(c *gin.Context, productIDStr string) {
	productID, err := strconv.ParseInt(productIDStr, 10, 64)
	if err != nil {
		return
	}
	if err := h.Cache.Delete(c.Request.Context(), cache.ProductKey(productID)); err != nil {
		log.Printf("[cache] invalidate product %d failed: %v", productID, err)
	}
}

// scanProducts scans a standard product column set into a slice.
func scanProducts(rows *sql.Rows) ([]models.Product, error) {
	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(
			&p.ID, &p.SellerID, &p.CategoryID, &p.Name, &p.Slug, &p.Description,
			&p.Price, &p.StockQuantity, &p.ImageURL, &p.Status, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
