package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartbound/storefront-golang/internal/orders"
	"github.com/cartbound/storefront-golang/internal/orders/mocks"
	"github.com/cartbound/storefront-golang/internal/payment"
)

const testWebhookSecret = "whsec_test"

func newWebhookRouter(store *mocks.MockStore, hooks ...orders.PostCommitHook) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := &Handlers{
		Verifier:  payment.NewVerifier(testWebhookSecret),
		Finalizer: orders.NewFinalizer(store, hooks...),
	}

	router := gin.New()
	router.POST("/webhooks/payment", h.PaymentWebhook)
	return router
}

func deliver(t *testing.T, router *gin.Engine, body []byte, signature string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", bytes.NewReader(body))
	if signature != "" {
		req.Header.Set(payment.SignatureHeader, signature)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func signedBody(sessionID string) ([]byte, string) {
	body := []byte(`{
		"id": "` + sessionID + `",
		"amount_total": 9999,
		"customer_email": "buyer@example.com",
		"metadata": {
			"userId": "1",
			"items": "[{\"productId\":\"3\",\"productName\":\"Phone\",\"productImage\":\"/x.jpg\",\"quantity\":1,\"price\":\"99.99\"}]"
		}
	}`)
	return body, payment.NewVerifier(testWebhookSecret).Sign(body)
}

func TestPaymentWebhook_FreshSession(t *testing.T) {
	store := mocks.NewMockStore()
	store.Stock[3] = 5

	var hookEvent *payment.Event
	router := newWebhookRouter(store, func(_ context.Context, ev *payment.Event, _ int64) {
		hookEvent = ev
	})

	body, sig := signedBody("sess_1")
	rec := deliver(t, router, body, sig)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"received":true}`, rec.Body.String())

	require.Equal(t, 1, store.OrderCount(), "exactly one order created")
	created := store.Created[1]
	assert.Equal(t, "sess_1", created.SessionID)
	assert.Equal(t, "99.99", created.TotalDecimal())
	require.Len(t, created.Items, 1)
	assert.Equal(t, 4, store.Stock[3], "stock decremented by purchased quantity")

	require.NotNil(t, hookEvent, "notifier hook ran after commit")
	assert.Equal(t, "buyer@example.com", hookEvent.CustomerEmail)
}

func TestPaymentWebhook_DuplicateDelivery(t *testing.T) {
	store := mocks.NewMockStore()
	store.Stock[3] = 5
	router := newWebhookRouter(store)

	body, sig := signedBody("sess_1")

	first := deliver(t, router, body, sig)
	assert.Equal(t, http.StatusOK, first.Code)

	second := deliver(t, router, body, sig)
	assert.Equal(t, http.StatusOK, second.Code, "redelivery still answers 200 so the provider stops retrying")

	assert.Equal(t, 1, store.OrderCount(), "no new rows on redelivery")
	assert.Equal(t, 4, store.Stock[3], "no double decrement")
}

func TestPaymentWebhook_TamperedSignature(t *testing.T) {
	store := mocks.NewMockStore()
	store.Stock[3] = 5
	router := newWebhookRouter(store)

	body, sig := signedBody("sess_1")

	// Flip one byte of the body after signing.
	tampered := bytes.Replace(body, []byte(`9999`), []byte(`9990`), 1)
	rec := deliver(t, router, tampered, sig)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid signature")
	assert.Equal(t, 0, store.OrderCount(), "no database state change")
	assert.Equal(t, 5, store.Stock[3], "no stock change")
}

func TestPaymentWebhook_MissingSignature(t *testing.T) {
	store := mocks.NewMockStore()
	router := newWebhookRouter(store)

	body, _ := signedBody("sess_1")
	rec := deliver(t, router, body, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, store.OrderCount())
}

func TestPaymentWebhook_MalformedMetadata(t *testing.T) {
	store := mocks.NewMockStore()
	router := newWebhookRouter(store)

	// Authenticated but missing metadata.items: dropped with a 200 so
	// the provider does not retry a payload that can never parse.
	body := []byte(`{"id":"sess_bad","amount_total":100,"metadata":{"userId":"1"}}`)
	sig := payment.NewVerifier(testWebhookSecret).Sign(body)

	rec := deliver(t, router, body, sig)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"received":true}`, rec.Body.String())
	assert.Equal(t, 0, store.OrderCount(), "no order for malformed events")
}

func TestPaymentWebhook_InsufficientStock(t *testing.T) {
	store := mocks.NewMockStore()
	store.Stock[3] = 0
	router := newWebhookRouter(store)

	body, sig := signedBody("sess_1")
	rec := deliver(t, router, body, sig)

	// Reject policy: the transaction rolls back, stock stays at zero,
	// and the response is still 200 (logged for reconciliation).
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"received":true}`, rec.Body.String())
	assert.Equal(t, 0, store.OrderCount(), "no partial order")
	assert.Equal(t, 0, store.Stock[3], "stock never clamped or negative")
}
