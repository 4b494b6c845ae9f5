package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// SignatureHeader is the request header carrying the provider's
// hex-encoded HMAC-SHA256 of the raw request body.
const SignatureHeader = "X-Payment-Signature"

var (
	// ErrInvalidSignature means the event could not be authenticated.
	// The caller must answer 400 and do nothing else; the provider's
	// own retry schedule handles retransmission.
	ErrInvalidSignature = errors.New("payment: invalid webhook signature")

	// ErrMalformedMetadata means the event authenticated but a required
	// field is missing or unparseable. Policy: log and answer 200 so
	// the provider stops retrying a payload that will never parse.
	ErrMalformedMetadata = errors.New("payment: malformed event metadata")
)

// Verifier authenticates inbound webhook deliveries with the shared
// secret agreed with the payment provider.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify recomputes the body signature and compares it to the header
// value in constant time. The body must be the exact bytes received on
// the wire: the signature covers the literal byte stream, so the route
// must not run any body-parsing middleware before this check.
func (v *Verifier) Verify(rawBody []byte, signature string) error {
	if signature == "" {
		return ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write(rawBody)
	expected := mac.Sum(nil)

	got, err := hex.DecodeString(signature)
	if err != nil {
		return ErrInvalidSignature
	}
	if !hmac.Equal(expected, got) {
		return ErrInvalidSignature
	}
	return nil
}

// Sign computes the signature for a body. Used by the checkout flow's
// provider stub and by tests to build valid deliveries.
func (v *Verifier) Sign(rawBody []byte) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(rawBody)
	return hex.EncodeToString(mac.Sum(nil))
}
