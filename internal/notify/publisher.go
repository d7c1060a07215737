// Package notify publishes order status changes to RabbitMQ and hosts the
// subscriber that consumes them.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"restaurant-platform/internal/connections/rabbitmq"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// Exchange is the topic exchange all status events go through.
	Exchange = "order_events"
	// routing keys are order.status.<new_status>
	routingPrefix = "order.status."

	subscriberQueue = "order_status_notifications"
)

// StatusEvent is the wire form of one status change.
type StatusEvent struct {
	OrderID   uuid.UUID `json:"order_id"`
	OldStatus string    `json:"old_status,omitempty"`
	NewStatus string    `json:"new_status"`
	ChangedBy string    `json:"changed_by"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher emits status events through an AMQP client with confirms.
type Publisher struct {
	client *rabbitmq.Client
}

// NewPublisher declares the topic exchange and returns a publisher bound to
// it.
func NewPublisher(client *rabbitmq.Client) (*Publisher, error) {
	if err := client.Channel().ExchangeDeclare(
		Exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", Exchange, err)
	}
	return &Publisher{client: client}, nil
}

// PublishStatusChange sends one status event, keyed by the new status so
// subscribers can bind to the subset they care about.
func (p *Publisher) PublishStatusChange(ctx context.Context, orderID uuid.UUID, oldStatus, newStatus, changedBy string) error {
	event := StatusEvent{
		OrderID:   orderID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		ChangedBy: changedBy,
		Timestamp: time.Now().UTC(),
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal status event: %w", err)
	}
	key := routingPrefix + newStatus
	if err := p.client.Publish(ctx, Exchange, key, body, amqp.Table{}, "application/json", true); err != nil {
		return fmt.Errorf("publish status event %s: %w", key, err)
	}
	return nil
}
