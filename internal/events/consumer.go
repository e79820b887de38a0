package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/rabbitmq/amqp091-go"

	"fintrack/internal/logger"
)

// SubscriptionPaidHandler processes one subscription.paid event.
type SubscriptionPaidHandler func(ctx context.Context, event *SubscriptionPaid) error

// ConsumeSubscriptionPaid delivers queued events to handle until ctx is done.
// Undecodable messages are dropped; handler failures are requeued once.
func (c *Client) ConsumeSubscriptionPaid(ctx context.Context, handle SubscriptionPaidHandler) error {
	deliveries, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	c.log.Infow("Started consuming events", "queue", c.queue)

	for {
		select {
		case <-ctx.Done():
			c.log.Infow("Stopping event consumption", "reason", ctx.Err())
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			c.dispatch(ctx, d, handle)
		}
	}
}

func (c *Client) dispatch(ctx context.Context, d amqp091.Delivery, handle SubscriptionPaidHandler) {
	switch decide(ctx, d.Body, d.Redelivered, handle) {
	case ack:
		_ = d.Ack(false)
	case requeue:
		_ = d.Nack(false, true)
	default:
		_ = d.Nack(false, false)
	}
}

type outcome int

const (
	ack outcome = iota
	requeue
	drop
)

func decide(ctx context.Context, body []byte, redelivered bool, handle SubscriptionPaidHandler) outcome {
	log := logger.Named("events")
	event, err := SubscriptionPaidFromJSON(body)
	if err != nil {
		log.Errorw("Failed to decode event", "error", err)
		return drop
	}

	if err := handle(ctx, event); err != nil {
		log.Errorw("Failed to handle event",
			"error", err,
			"subscription_id", event.SubscriptionID,
			"redelivered", redelivered,
		)
		if redelivered {
			return drop
		}
		return requeue
	}
	return ack
}
