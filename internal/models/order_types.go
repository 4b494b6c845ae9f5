package models

import "time"

// Order statuses. Transitions are append-only: an order never moves
// back to an earlier status, and terminal statuses never change.
const (
	OrderPending   = "PENDING"
	OrderPaid      = "PAID"
	OrderFailed    = "FAILED"
	OrderShipped   = "SHIPPED"
	OrderDelivered = "DELIVERED"
	OrderCancelled = "CANCELLED"
)

// statusRank orders the forward-only lifecycle. FAILED and CANCELLED
// are terminal branches reachable from any non-terminal status.
var statusRank = map[string]int{
	OrderPending:   0,
	OrderPaid:      1,
	OrderShipped:   2,
	OrderDelivered: 3,
}

// ValidOrderStatus reports whether s is one of the known statuses.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderPending, OrderPaid, OrderFailed, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from 'from' to 'to'.
func CanTransition(from, to string) bool {
	if from == to {
		return false
	}
	// Terminal statuses never change.
	if from == OrderFailed || from == OrderCancelled || from == OrderDelivered {
		return false
	}
	if to == OrderFailed || to == OrderCancelled {
		return true
	}
	fromRank, ok1 := statusRank[from]
	toRank, ok2 := statusRank[to]
	return ok1 && ok2 && toRank > fromRank
}

// ShippingAddress is the structured address stored on an order.
// All columns are NULLable: digital-goods orders carry no address.
type ShippingAddress struct {
	Name     string `json:"name"`
	Line1    string `json:"line1"`
	Line2    string `json:"line2,omitempty"`
	City     string `json:"city"`
	Postcode string `json:"postcode"`
	Country  string `json:"country"`
}

// Order is the model for the 'orders' table.
// ExternalSessionID carries the payment provider's session id and is
// UNIQUE: it is the idempotency key guaranteeing at most one order per
// payment session.
type Order struct {
	ID                int64            `json:"id" db:"id"`
	ExternalSessionID string           `json:"externalSessionId" db:"external_session_id"`
	UserID            int64            `json:"userId" db:"user_id"`
	Status            string           `json:"status" db:"status"`
	Total             float64          `json:"total" db:"total"`
	Shipping          *ShippingAddress `json:"shippingAddress,omitempty" db:"-"`
	CreatedAt         time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time        `json:"updatedAt" db:"updated_at"`
}

// OrderItem is the model for the 'order_items' table. Name, image and
// unit price are snapshots taken at purchase time and never updated
// when the product changes later: order history must show what was
// actually bought.
type OrderItem struct {
	ID           int64     `json:"id" db:"id"`
	OrderID      int64     `json:"orderId" db:"order_id"`
	ProductID    int64     `json:"productId" db:"product_id"`
	ProductName  string    `json:"productName" db:"product_name"`
	ProductImage string    `json:"productImage" db:"product_image"`
	Quantity     int       `json:"quantity" db:"quantity"`
	UnitPrice    float64   `json:"unitPrice" db:"unit_price"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
