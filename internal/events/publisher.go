package events

import (
	"context"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"fintrack/internal/logger"
	"fintrack/internal/metrics"
)

const publishTimeout = 5 * time.Second

// Publisher emits domain events.
type Publisher interface {
	PublishSubscriptionPaid(ctx context.Context, event *SubscriptionPaid) error
	Close() error
}

// Client is a RabbitMQ connection with a declared direct exchange and queue.
// It both publishes and consumes.
type Client struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	queue    string
	log      *zap.SugaredLogger
}

// NewClient dials RabbitMQ and declares the exchange, queue and binding.
func NewClient(url, exchange, queue string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	c := &Client{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		queue:    queue,
		log:      logger.Named("events"),
	}
	if err := c.setup(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}
	return c, nil
}

func (c *Client) setup() error {
	if err := c.channel.ExchangeDeclare(c.exchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := c.channel.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := c.channel.QueueBind(c.queue, TypeSubscriptionPaid, c.exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

// PublishSubscriptionPaid publishes a persistent subscription.paid message.
func (c *Client) PublishSubscriptionPaid(ctx context.Context, event *SubscriptionPaid) error {
	body, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = c.channel.PublishWithContext(ctx, c.exchange, TypeSubscriptionPaid, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Type:         TypeSubscriptionPaid,
		Timestamp:    event.OccurredAt,
		Body:         body,
	})
	metrics.EventsPublished.WithLabelValues(TypeSubscriptionPaid, metrics.Result(err)).Inc()
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	c.log.Infow("Published event",
		"type", TypeSubscriptionPaid,
		"subscription_id", event.SubscriptionID,
		"expense_id", event.ExpenseID,
	)
	return nil
}

// Close closes the channel and connection.
func (c *Client) Close() error {
	if c.channel != nil {
		_ = c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// NopPublisher discards events. It is used when no broker is configured.
type NopPublisher struct{}

// PublishSubscriptionPaid does nothing.
func (NopPublisher) PublishSubscriptionPaid(context.Context, *SubscriptionPaid) error { return nil }

// Close does nothing.
func (NopPublisher) Close() error { return nil }
