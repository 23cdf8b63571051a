// Package events publishes order lifecycle notifications.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Routing keys of the events emitted by the store.
const (
	OrderCreated       = "order.created"
	OrderStatusChanged = "order.status_changed"
	OrderCancelled     = "order.cancelled"
)

// Publisher delivers an event payload under a routing key. Implementations
// must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
	Close() error
}

// Envelope wraps every published payload.
type Envelope struct {
	ID         uuid.UUID `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data"`
}

func newEnvelope(routingKey string, payload any, now time.Time) Envelope {
	return Envelope{
		ID:         uuid.New(),
		Type:       routingKey,
		OccurredAt: now.UTC(),
		Data:       payload,
	}
}

// OrderCreatedEvent is published after a successful checkout.
type OrderCreatedEvent struct {
	OrderID     uuid.UUID       `json:"orderId"`
	UserID      int64           `json:"userId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	ItemCount   int             `json:"itemCount"`
}

// StatusChangedEvent is published for every applied status transition.
type StatusChangedEvent struct {
	OrderID uuid.UUID `json:"orderId"`
	From    string    `json:"from"`
	To      string    `json:"to"`
	At      time.Time `json:"at"`
}
