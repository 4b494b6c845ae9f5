package notifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildConfirmationBody(t *testing.T) {
	body := buildConfirmationBody(42, "129.98", []Item{
		{Name: "Phone", Quantity: 1, UnitPrice: "99.99"},
		{Name: "Case", Quantity: 2, UnitPrice: "14.99"},
	})

	assert.Contains(t, body, "Order number: 42")
	assert.Contains(t, body, "1x Phone @ 99.99")
	assert.Contains(t, body, "2x Case @ 14.99")
	assert.Contains(t, body, "Total: 129.98")
}

func TestSendOrderConfirmation_NoRecipient(t *testing.T) {
	svc := NewService("localhost", "1025", "orders@storefront.local")
	err := svc.SendOrderConfirmation("", 1, "1.00", nil)
	assert.Error(t, err)
}
