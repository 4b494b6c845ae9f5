package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// EventOrderPaid is emitted once per finalized order for downstream
// consumers (analytics, fulfillment).
const EventOrderPaid = "order.paid"

// OrderPaid is the payload published after an order commits.
type OrderPaid struct {
	Type      string    `json:"type"`
	OrderID   int64     `json:"orderId"`
	UserID    int64     `json:"userId"`
	SessionID string    `json:"sessionId"`
	Total     string    `json:"total"`
	Timestamp time.Time `json:"timestamp"`
}

// Producer publishes order events to Kafka. Like the email notifier it
// is fire-and-forget from the webhook's point of view: a publish
// failure is logged by the caller and never affects the order.
type Producer struct {
	w *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
	}
}

// PublishOrderPaid emits one order.paid message keyed by session id,
// so redeliveries for the same session would land on the same
// partition.
func (p *Producer) PublishOrderPaid(ctx context.Context, orderID, userID int64, sessionID, total string) error {
	payload, err := json.Marshal(OrderPaid{
		Type:      EventOrderPaid,
		OrderID:   orderID,
		UserID:    userID,
		SessionID: sessionID,
		Total:     total,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("events: marshal order.paid: %w", err)
	}

	return p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(sessionID),
		Value: payload,
		Time:  time.Now(),
	})
}

func (p *Producer) Close() error {
	return p.w.Close()
}
