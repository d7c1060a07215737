package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"restaurant-platform/internal/connections/rabbitmq"
	"restaurant-platform/internal/logger"
)

// Subscriber consumes every status event and logs it. It is the platform's
// stand-in for downstream notification channels.
type Subscriber struct {
	client *rabbitmq.Client
	log    *logger.Logger
}

func NewSubscriber(client *rabbitmq.Client, log *logger.Logger) *Subscriber {
	return &Subscriber{client: client, log: log}
}

// Run binds a durable queue to every order.status.* routing key and consumes
// until the context is canceled.
func (s *Subscriber) Run(ctx context.Context) error {
	ch := s.client.Channel()

	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", Exchange, err)
	}
	q, err := ch.QueueDeclare(subscriberQueue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", subscriberQueue, err)
	}
	if err := ch.QueueBind(q.Name, routingPrefix+"#", Exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", q.Name, err)
	}

	deliveries, err := ch.Consume(q.Name, "notification-subscriber", true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", q.Name, err)
	}

	s.log.Info("subscriber_started", map[string]any{"queue": q.Name})
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			var event StatusEvent
			if err := json.Unmarshal(d.Body, &event); err != nil {
				s.log.Error("event_decode_failed", err, map[string]any{"routing_key": d.RoutingKey})
				continue
			}
			s.log.Info("status_change_received", map[string]any{
				"order_id":   event.OrderID.String(),
				"old_status": event.OldStatus,
				"new_status": event.NewStatus,
				"changed_by": event.ChangedBy,
			})
		}
	}
}
