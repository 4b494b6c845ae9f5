package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{OrderPending, OrderPaid, true},
		{OrderPaid, OrderShipped, true},
		{OrderShipped, OrderDelivered, true},
		{OrderPending, OrderCancelled, true},
		{OrderPaid, OrderFailed, true},

		// Never backwards
		{OrderPaid, OrderPending, false},
		{OrderShipped, OrderPaid, false},
		{OrderDelivered, OrderShipped, false},

		// Terminal statuses are frozen
		{OrderCancelled, OrderPaid, false},
		{OrderFailed, OrderPending, false},
		{OrderDelivered, OrderCancelled, false},

		// No self transitions
		{OrderPaid, OrderPaid, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}
