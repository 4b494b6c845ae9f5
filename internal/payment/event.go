package payment

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// wireEvent mirrors the provider's checkout.session.completed payload.
// The metadata values are the strings we set ourselves when creating
// the session, echoed back verbatim by the provider.
type wireEvent struct {
	ID            string `json:"id"`
	AmountTotal   int64  `json:"amount_total"`
	CustomerEmail string `json:"customer_email"`
	Metadata      struct {
		UserID          string `json:"userId"`
		Items           string `json:"items"`
		ShippingAddress string `json:"shippingAddress"`
	} `json:"metadata"`
}

type wireItem struct {
	ProductID    string `json:"productId"`
	ProductName  string `json:"productName"`
	ProductImage string `json:"productImage"`
	Quantity     int    `json:"quantity"`
	Price        string `json:"price"`
}

// LineItem is one purchased product within a checkout event. Name,
// image and price are the purchase-time values that get snapshotted
// onto the order.
type LineItem struct {
	ProductID    int64
	ProductName  string
	ProductImage string
	Quantity     int
	UnitPrice    string // decimal string, e.g. "99.99"
}

// ShippingAddress is the structured address embedded in the event
// metadata, when the buyer supplied one.
type ShippingAddress struct {
	Name     string `json:"name"`
	Line1    string `json:"line1"`
	Line2    string `json:"line2"`
	City     string `json:"city"`
	Postcode string `json:"postcode"`
	Country  string `json:"country"`
}

// Event is the fully-decoded, validated checkout event. Producing it
// is the only place the loosely-typed provider JSON is touched; from
// here on every consumer works with typed fields.
type Event struct {
	SessionID     string
	AmountTotal   int64 // minor units
	CustomerEmail string
	UserID        int64
	Items         []LineItem
	Shipping      *ShippingAddress
}

// TotalDecimal converts the minor-unit amount to a two-decimal string
// using exact integer arithmetic ("9999" -> "99.99"). Float division
// is never involved, so the stored total round-trips exactly.
func (e *Event) TotalDecimal() string {
	return FormatAmount(e.AmountTotal)
}

// FormatAmount renders a minor-unit amount as a decimal string.
func FormatAmount(minorUnits int64) string {
	return fmt.Sprintf("%d.%02d", minorUnits/100, minorUnits%100)
}

// DecodeEvent parses a verified raw body into a typed Event. Any
// missing or unparseable required field yields ErrMalformedMetadata;
// nothing deeper in the pipeline ever sees a partially-decoded event.
func DecodeEvent(rawBody []byte) (*Event, error) {
	var w wireEvent
	if err := json.Unmarshal(rawBody, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMetadata, err)
	}

	if w.ID == "" {
		return nil, fmt.Errorf("%w: missing event id", ErrMalformedMetadata)
	}
	if w.AmountTotal <= 0 {
		return nil, fmt.Errorf("%w: non-positive amount_total", ErrMalformedMetadata)
	}

	userID, err := strconv.ParseInt(w.Metadata.UserID, 10, 64)
	if err != nil || userID <= 0 {
		return nil, fmt.Errorf("%w: bad metadata.userId %q", ErrMalformedMetadata, w.Metadata.UserID)
	}

	if strings.TrimSpace(w.Metadata.Items) == "" {
		return nil, fmt.Errorf("%w: missing metadata.items", ErrMalformedMetadata)
	}
	var wireItems []wireItem
	if err := json.Unmarshal([]byte(w.Metadata.Items), &wireItems); err != nil {
		return nil, fmt.Errorf("%w: bad metadata.items: %v", ErrMalformedMetadata, err)
	}
	if len(wireItems) == 0 {
		return nil, fmt.Errorf("%w: empty metadata.items", ErrMalformedMetadata)
	}

	items := make([]LineItem, 0, len(wireItems))
	for _, wi := range wireItems {
		productID, err := strconv.ParseInt(wi.ProductID, 10, 64)
		if err != nil || productID <= 0 {
			return nil, fmt.Errorf("%w: bad productId %q", ErrMalformedMetadata, wi.ProductID)
		}
		if wi.Quantity <= 0 {
			return nil, fmt.Errorf("%w: non-positive quantity for product %d", ErrMalformedMetadata, productID)
		}
		if _, err := strconv.ParseFloat(wi.Price, 64); err != nil {
			return nil, fmt.Errorf("%w: bad price %q for product %d", ErrMalformedMetadata, wi.Price, productID)
		}
		items = append(items, LineItem{
			ProductID:    productID,
			ProductName:  wi.ProductName,
			ProductImage: wi.ProductImage,
			Quantity:     wi.Quantity,
			UnitPrice:    wi.Price,
		})
	}

	ev := &Event{
		SessionID:     w.ID,
		AmountTotal:   w.AmountTotal,
		CustomerEmail: w.CustomerEmail,
		UserID:        userID,
		Items:         items,
	}

	// Shipping address is optional; when present it must parse.
	if strings.TrimSpace(w.Metadata.ShippingAddress) != "" {
		var addr ShippingAddress
		if err := json.Unmarshal([]byte(w.Metadata.ShippingAddress), &addr); err != nil {
			return nil, fmt.Errorf("%w: bad metadata.shippingAddress: %v", ErrMalformedMetadata, err)
		}
		ev.Shipping = &addr
	}

	return ev, nil
}
