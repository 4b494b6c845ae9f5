package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cartbound/storefront-golang/internal/payment"
)

//
// --- Payment Webhook Handler ---
//

// PaymentWebhook is the handler for POST /webhooks/payment
//
// The route is mounted with no body-parsing middleware: the signature
// covers the literal bytes on the wire, so the body must reach the
// verifier untouched.
//
// Response policy: 400 only for a failed signature check. Everything
// after verification answers 200 even on failure — the provider
// redelivers on non-2xx, and a payload that failed to decode or
// finalize will fail identically on every retry. Failures are logged
// for manual reconciliation instead.
func (h *Handlers) PaymentWebhook(c *gin.Context) {
	rawBody, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable request body"})
		return
	}

	if err := h.Verifier.Verify(rawBody, c.GetHeader(payment.SignatureHeader)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
		return
	}

	ev, err := payment.DecodeEvent(rawBody)
	if err != nil {
		if errors.Is(err, payment.ErrMalformedMetadata) {
			log.Printf("[webhook] dropping malformed event: %v", err)
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}
		log.Printf("[webhook] decode failed: %v", err)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	result, err := h.Finalizer.Process(c.Request.Context(), ev)
	if err != nil {
		// Rolled back; nothing was persisted. Needs a human.
		log.Printf("[webhook] RECONCILE: finalization failed for session %s: %v", ev.SessionID, err)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	if result.Duplicate {
		log.Printf("[webhook] duplicate delivery for session %s (order %d)", ev.SessionID, result.OrderID)
	} else {
		log.Printf("[webhook] order %d created for session %s", result.OrderID, ev.SessionID)
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
