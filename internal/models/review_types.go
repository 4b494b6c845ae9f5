package models

import "time"

// Review is the model for the 'reviews' table. The table has a unique
// key on (product_id, user_id): one review per customer per product.
type Review struct {
	ID        int64     `json:"id" db:"id"`
	ProductID int64     `json:"productId" db:"product_id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   string    `json:"comment" db:"comment"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// Joined for display
	AuthorName string `json:"authorName,omitempty" db:"-"`
}
