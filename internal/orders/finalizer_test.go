package orders_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartbound/storefront-golang/internal/orders"
	"github.com/cartbound/storefront-golang/internal/orders/mocks"
	"github.com/cartbound/storefront-golang/internal/payment"
)

func testEvent(sessionID string) *payment.Event {
	return &payment.Event{
		SessionID:     sessionID,
		AmountTotal:   9999,
		CustomerEmail: "buyer@example.com",
		UserID:        1,
		Items: []payment.LineItem{
			{ProductID: 3, ProductName: "Phone", ProductImage: "/x.jpg", Quantity: 1, UnitPrice: "99.99"},
		},
	}
}

func TestFinalizer_FreshSession(t *testing.T) {
	store := mocks.NewMockStore()
	store.Stock[3] = 5

	var hookOrderID int64
	f := orders.NewFinalizer(store, func(_ context.Context, _ *payment.Event, orderID int64) {
		hookOrderID = orderID
	})

	res, err := f.Process(context.Background(), testEvent("sess_1"))
	require.NoError(t, err)
	assert.False(t, res.Duplicate)
	assert.Equal(t, 1, store.OrderCount())
	assert.Equal(t, 4, store.Stock[3], "stock decremented by purchased quantity")
	assert.Equal(t, res.OrderID, hookOrderID, "post-commit hook ran with the new order id")
}

func TestFinalizer_DuplicateDelivery(t *testing.T) {
	store := mocks.NewMockStore()
	store.Stock[3] = 5

	hookRuns := 0
	f := orders.NewFinalizer(store, func(context.Context, *payment.Event, int64) {
		hookRuns++
	})

	first, err := f.Process(context.Background(), testEvent("sess_1"))
	require.NoError(t, err)

	second, err := f.Process(context.Background(), testEvent("sess_1"))
	require.NoError(t, err, "redelivery is success, not an error")
	assert.True(t, second.Duplicate)
	assert.Equal(t, first.OrderID, second.OrderID)
	assert.Equal(t, 1, store.OrderCount(), "no additional order rows")
	assert.Equal(t, 4, store.Stock[3], "no additional stock decrement")
	assert.Equal(t, 1, hookRuns, "hooks run only on the creating delivery")
}

func TestFinalizer_InsertRaceMapsToDuplicate(t *testing.T) {
	store := mocks.NewMockStore()
	store.Stock[3] = 5

	f := orders.NewFinalizer(store)
	_, err := f.Process(context.Background(), testEvent("sess_1"))
	require.NoError(t, err)

	// Simulate the concurrent-redelivery race: the pre-check misses
	// but the unique constraint fires on insert.
	store.FindErr = orders.ErrNotFound
	res, err := f.Process(context.Background(), testEvent("sess_1"))
	require.NoError(t, err)
	assert.True(t, res.Duplicate)
	assert.Equal(t, 1, store.OrderCount())
}

func TestFinalizer_InsufficientStockRejects(t *testing.T) {
	store := mocks.NewMockStore()
	store.Stock[3] = 0

	hookRuns := 0
	f := orders.NewFinalizer(store, func(context.Context, *payment.Event, int64) {
		hookRuns++
	})

	_, err := f.Process(context.Background(), testEvent("sess_1"))
	assert.ErrorIs(t, err, orders.ErrInsufficientStock)
	assert.Equal(t, 0, store.OrderCount(), "transaction rolled back, no partial order")
	assert.Equal(t, 0, store.Stock[3], "stock untouched, never negative")
	assert.Equal(t, 0, hookRuns)
}

func TestFinalizer_StoreErrorPropagates(t *testing.T) {
	store := mocks.NewMockStore()
	store.Stock[3] = 5
	store.CreateErr = errors.New("connection lost")

	f := orders.NewFinalizer(store)
	_, err := f.Process(context.Background(), testEvent("sess_1"))
	assert.Error(t, err)
	assert.Equal(t, 0, store.OrderCount())
}

func TestFinalizer_PanickingHookIsIsolated(t *testing.T) {
	store := mocks.NewMockStore()
	store.Stock[3] = 5

	secondHookRan := false
	f := orders.NewFinalizer(store,
		func(context.Context, *payment.Event, int64) { panic("smtp down") },
		func(context.Context, *payment.Event, int64) { secondHookRan = true },
	)

	res, err := f.Process(context.Background(), testEvent("sess_1"))
	require.NoError(t, err, "a failing hook never affects the committed order")
	assert.False(t, res.Duplicate)
	assert.True(t, secondHookRan, "one failing hook cannot take down the others")
}
