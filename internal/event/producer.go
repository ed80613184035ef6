// Package event publishes storefront domain events to Kafka.
package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/AdrielTeles97/nihon-auto-sub000/internal/domain"
	"github.com/AdrielTeles97/nihon-auto-sub000/pkg/kafka"
	"github.com/AdrielTeles97/nihon-auto-sub000/pkg/logger"
)

const (
	cartTopic  = "cart.events"
	quoteTopic = "quote.events"

	source = "storefront"
)

// producer is the subset of kafka.Producer the publisher needs.
type producer interface {
	Publish(ctx context.Context, topic string, event *kafka.Event) error
}

// Publisher emits cart and quote events. All methods are best-effort from the
// caller's point of view; errors are returned so callers can log and move on.
type Publisher struct {
	producer producer
	logger   *slog.Logger
}

// NewPublisher creates a publisher backed by a Kafka producer.
func NewPublisher(p producer, logger *slog.Logger) *Publisher {
	return &Publisher{producer: p, logger: logger}
}

// CartPayload is the data carried by cart.updated and cart.cleared events.
type CartPayload struct {
	SessionID string `json:"session_id"`
	ItemCount int    `json:"item_count"`
	Subtotal  int64  `json:"subtotal"`
}

// QuotePayload is the data carried by quote.submitted events.
type QuotePayload struct {
	QuoteID   string `json:"quote_id"`
	Email     string `json:"email"`
	ItemCount int    `json:"item_count"`
	Subtotal  int64  `json:"subtotal"`
}

// CartUpdated publishes a cart.updated event for the session.
func (p *Publisher) CartUpdated(ctx context.Context, sessionID string, snap domain.CartSnapshot) error {
	return p.publishCart(ctx, "cart.updated", sessionID, snap)
}

// CartCleared publishes a cart.cleared event for the session.
func (p *Publisher) CartCleared(ctx context.Context, sessionID string, snap domain.CartSnapshot) error {
	return p.publishCart(ctx, "cart.cleared", sessionID, snap)
}

func (p *Publisher) publishCart(ctx context.Context, eventType, sessionID string, snap domain.CartSnapshot) error {
	payload := CartPayload{
		SessionID: sessionID,
		ItemCount: snap.ItemCount,
		Subtotal:  snap.Subtotal,
	}

	evt, err := kafka.NewEvent(eventType, sessionID, "cart", source, payload)
	if err != nil {
		return fmt.Errorf("build %s event: %w", eventType, err)
	}
	evt.WithCorrelationID(logger.CorrelationIDFromContext(ctx)).WithSessionID(sessionID)

	return p.producer.Publish(ctx, cartTopic, evt)
}

// QuoteSubmitted publishes a quote.submitted event.
func (p *Publisher) QuoteSubmitted(ctx context.Context, q *domain.Quote) error {
	payload := QuotePayload{
		QuoteID:   q.ID,
		Email:     q.Email,
		ItemCount: q.ItemCount,
		Subtotal:  q.Subtotal,
	}

	evt, err := kafka.NewEvent("quote.submitted", q.ID, "quote", source, payload)
	if err != nil {
		return fmt.Errorf("build quote.submitted event: %w", err)
	}
	evt.WithCorrelationID(logger.CorrelationIDFromContext(ctx)).
		WithSessionID(logger.SessionIDFromContext(ctx))

	return p.producer.Publish(ctx, quoteTopic, evt)
}
