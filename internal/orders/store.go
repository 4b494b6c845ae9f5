package orders

import (
	"context"
	"errors"

	"github.com/cartbound/storefront-golang/internal/payment"
)

var (
	// ErrNotFound is returned by FindBySessionID when no order exists
	// for the session.
	ErrNotFound = errors.New("orders: not found")

	// ErrDuplicateSession means an order for the session already
	// exists. The unique index on orders.external_session_id is the
	// hard guarantee here; the pre-check in the finalizer is only an
	// optimization with a check-then-act gap.
	ErrDuplicateSession = errors.New("orders: session already finalized")

	// ErrInsufficientStock means a purchased quantity exceeds the
	// product's remaining stock. The whole transaction rolls back:
	// stock is never clamped and never goes negative.
	ErrInsufficientStock = errors.New("orders: insufficient stock")
)

// Store persists finalized orders. The production implementation is
// SQLStore; tests use the in-memory memStore.
type Store interface {
	// FindBySessionID returns the id of the order created for a
	// payment session, or ErrNotFound.
	FindBySessionID(ctx context.Context, sessionID string) (int64, error)

	// Create atomically inserts the order row, one line-item row per
	// purchased item (snapshotting name/image/price), and decrements
	// each product's stock. Any failure rolls the whole thing back.
	Create(ctx context.Context, ev *payment.Event) (int64, error)
}
