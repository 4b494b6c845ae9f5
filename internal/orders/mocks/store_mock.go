package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/cartbound/storefront-golang/internal/orders"
	"github.com/cartbound/storefront-golang/internal/payment"
)

// MockStore is an in-memory orders.Store for tests. It enforces the
// same invariants as the SQL implementation: unique session ids and
// non-negative stock.
type MockStore struct {
	mu       sync.Mutex
	nextID   int64
	sessions map[string]int64 // external session id -> order id
	Stock    map[int64]int    // product id -> remaining stock

	// Created records every event that produced an order, keyed by id.
	Created map[int64]*payment.Event

	// For forcing failures in tests
	FindErr   error
	CreateErr error
}

func NewMockStore() *MockStore {
	return &MockStore{
		nextID:   1,
		sessions: make(map[string]int64),
		Stock:    make(map[int64]int),
		Created:  make(map[int64]*payment.Event),
	}
}

func (m *MockStore) FindBySessionID(_ context.Context, sessionID string) (int64, error) {
	if m.FindErr != nil {
		return 0, m.FindErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.sessions[sessionID]; ok {
		return id, nil
	}
	return 0, orders.ErrNotFound
}

func (m *MockStore) Create(_ context.Context, ev *payment.Event) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[ev.SessionID]; ok {
		return 0, orders.ErrDuplicateSession
	}

	// All-or-nothing, like the SQL transaction: validate every
	// decrement before applying any.
	for _, item := range ev.Items {
		if m.Stock[item.ProductID] < item.Quantity {
			return 0, fmt.Errorf("%w: product %d, quantity %d",
				orders.ErrInsufficientStock, item.ProductID, item.Quantity)
		}
	}
	for _, item := range ev.Items {
		m.Stock[item.ProductID] -= item.Quantity
	}

	id := m.nextID
	m.nextID++
	m.sessions[ev.SessionID] = id
	m.Created[id] = ev
	return id, nil
}

// OrderCount reports how many orders were created.
func (m *MockStore) OrderCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Created)
}
