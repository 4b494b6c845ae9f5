package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifier_Verify_Valid(t *testing.T) {
	v := NewVerifier("whsec_test")
	body := []byte(`{"id":"sess_1","amount_total":9999}`)

	sig := v.Sign(body)
	assert.NoError(t, v.Verify(body, sig))
}

func TestVerifier_Verify_Tampered(t *testing.T) {
	v := NewVerifier("whsec_test")
	body := []byte(`{"id":"sess_1","amount_total":9999}`)
	sig := v.Sign(body)

	// Signature covers the literal bytes: any change invalidates it.
	tampered := []byte(`{"id":"sess_1","amount_total":1}`)
	assert.ErrorIs(t, v.Verify(tampered, sig), ErrInvalidSignature)
}

func TestVerifier_Verify_WrongSecret(t *testing.T) {
	body := []byte(`{"id":"sess_1"}`)
	sig := NewVerifier("whsec_other").Sign(body)

	assert.ErrorIs(t, NewVerifier("whsec_test").Verify(body, sig), ErrInvalidSignature)
}

func TestVerifier_Verify_BadHeader(t *testing.T) {
	v := NewVerifier("whsec_test")
	body := []byte(`{}`)

	assert.ErrorIs(t, v.Verify(body, ""), ErrInvalidSignature)
	assert.ErrorIs(t, v.Verify(body, "not-hex!!"), ErrInvalidSignature)
	assert.ErrorIs(t, v.Verify(body, "deadbeef"), ErrInvalidSignature)
}

func TestDecodeEvent_Valid(t *testing.T) {
	raw := []byte(`{
		"id": "sess_1",
		"amount_total": 9999,
		"customer_email": "buyer@example.com",
		"metadata": {
			"userId": "17",
			"items": "[{\"productId\":\"3\",\"productName\":\"Phone\",\"productImage\":\"/x.jpg\",\"quantity\":1,\"price\":\"99.99\"}]",
			"shippingAddress": "{\"name\":\"A. Buyer\",\"line1\":\"1 Main St\",\"city\":\"Springfield\",\"postcode\":\"12345\",\"country\":\"US\"}"
		}
	}`)

	ev, err := DecodeEvent(raw)
	require.NoError(t, err)

	assert.Equal(t, "sess_1", ev.SessionID)
	assert.Equal(t, int64(9999), ev.AmountTotal)
	assert.Equal(t, "99.99", ev.TotalDecimal())
	assert.Equal(t, "buyer@example.com", ev.CustomerEmail)
	assert.Equal(t, int64(17), ev.UserID)

	require.Len(t, ev.Items, 1)
	assert.Equal(t, int64(3), ev.Items[0].ProductID)
	assert.Equal(t, "Phone", ev.Items[0].ProductName)
	assert.Equal(t, "/x.jpg", ev.Items[0].ProductImage)
	assert.Equal(t, 1, ev.Items[0].Quantity)
	assert.Equal(t, "99.99", ev.Items[0].UnitPrice)

	require.NotNil(t, ev.Shipping)
	assert.Equal(t, "Springfield", ev.Shipping.City)
}

func TestDecodeEvent_NoShippingAddress(t *testing.T) {
	raw := []byte(`{
		"id": "sess_2",
		"amount_total": 500,
		"metadata": {
			"userId": "1",
			"items": "[{\"productId\":\"9\",\"productName\":\"Ebook\",\"productImage\":\"\",\"quantity\":1,\"price\":\"5.00\"}]"
		}
	}`)

	ev, err := DecodeEvent(raw)
	require.NoError(t, err)
	assert.Nil(t, ev.Shipping)
	assert.Equal(t, "5.00", ev.TotalDecimal())
}

func TestDecodeEvent_Malformed(t *testing.T) {
	items := `"[{\"productId\":\"3\",\"productName\":\"Phone\",\"productImage\":\"\",\"quantity\":1,\"price\":\"99.99\"}]"`

	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{{{`},
		{"missing id", `{"amount_total":100,"metadata":{"userId":"1","items":` + items + `}}`},
		{"zero amount", `{"id":"s","amount_total":0,"metadata":{"userId":"1","items":` + items + `}}`},
		{"missing userId", `{"id":"s","amount_total":100,"metadata":{"items":` + items + `}}`},
		{"non-numeric userId", `{"id":"s","amount_total":100,"metadata":{"userId":"u1","items":` + items + `}}`},
		{"missing items", `{"id":"s","amount_total":100,"metadata":{"userId":"1"}}`},
		{"items not json", `{"id":"s","amount_total":100,"metadata":{"userId":"1","items":"oops"}}`},
		{"empty items", `{"id":"s","amount_total":100,"metadata":{"userId":"1","items":"[]"}}`},
		{"zero quantity", `{"id":"s","amount_total":100,"metadata":{"userId":"1","items":"[{\"productId\":\"3\",\"quantity\":0,\"price\":\"1.00\"}]"}}`},
		{"bad price", `{"id":"s","amount_total":100,"metadata":{"userId":"1","items":"[{\"productId\":\"3\",\"quantity\":1,\"price\":\"free\"}]"}}`},
		{"bad shipping", `{"id":"s","amount_total":100,"metadata":{"userId":"1","items":` + items + `,"shippingAddress":"nope"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeEvent([]byte(tt.raw))
			assert.ErrorIs(t, err, ErrMalformedMetadata)
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "99.99", FormatAmount(9999))
	assert.Equal(t, "0.05", FormatAmount(5))
	assert.Equal(t, "1.00", FormatAmount(100))
	assert.Equal(t, "1234.50", FormatAmount(123450))
}
