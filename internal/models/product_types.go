package models

import "time"

// Product statuses. Only 'published' products are visible in the
// storefront and purchasable.
const (
	ProductDraft     = "draft"
	ProductPublished = "published"
	ProductArchived  = "archived"
)

// Product is the model for the 'products' table.
// Pointer fields map NULLable columns so JSON stays clean.
type Product struct {
	ID            int64     `json:"id" db:"id"`
	SellerID      int64     `json:"sellerId" db:"seller_id"`
	CategoryID    *int64    `json:"categoryId,omitempty" db:"category_id"`
	Name          string    `json:"name" db:"name"`
	Slug          string    `json:"slug" db:"slug"`
	Description   string    `json:"description" db:"description"`
	Price         float64   `json:"price" db:"price"`
	StockQuantity int       `json:"stock" db:"stock_quantity"`
	ImageURL      *string   `json:"imageUrl,omitempty" db:"image_url"`
	Status        string    `json:"status" db:"status"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`

	// Populated manually on detail reads (not a DB column)
	CategoryName string `json:"categoryName,omitempty" db:"-"`
}
