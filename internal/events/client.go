package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const publishTimeout = 5 * time.Second

// Client publishes and consumes donation events over one AMQP channel bound
// to a durable direct exchange and queue.
type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
	logger       zerolog.Logger
	mu           sync.Mutex
}

func NewClient(url, exchangeName, queueName string, logger zerolog.Logger) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
		logger:       logger.With().Str("exchange", exchangeName).Str("queue", queueName).Logger(),
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	if err := c.channel.ExchangeDeclare(c.exchangeName, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := c.channel.QueueDeclare(c.queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	// The queue name doubles as the routing key.
	if err := c.channel.QueueBind(c.queueName, c.queueName, c.exchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

// PublishDonationEvent publishes e as a persistent JSON message.
func (c *Client) PublishDonationEvent(ctx context.Context, e *DonationEvent) error {
	body, err := e.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	c.mu.Lock()
	err = c.channel.PublishWithContext(ctx, c.exchangeName, c.queueName, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    e.ID,
		Type:         string(e.Action),
		Timestamp:    e.OccurredAt,
		Body:         body,
	})
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	c.logger.Debug().Str("action", string(e.Action)).Str("donation_id", e.DonationID).Msg("published donation event")
	return nil
}

// ConsumeDonationEvents delivers events to handle until ctx ends. Malformed
// bodies are rejected without requeue; handler failures are requeued.
func (c *Client) ConsumeDonationEvents(ctx context.Context, handle Handler) error {
	if err := c.channel.Qos(16, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}
	msgs, err := c.channel.Consume(c.queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	c.logger.Info().Msg("consuming donation events")

	for {
		select {
		case <-ctx.Done():
			c.logger.Info().Err(ctx.Err()).Msg("stopping consumption")
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return errors.New("message channel closed")
			}
			c.dispatch(ctx, delivery, handle)
		}
	}
}

// acknowledger is the subset of amqp091.Delivery used to settle a message.
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func (c *Client) dispatch(ctx context.Context, d amqp091.Delivery, handle Handler) {
	settle(ctx, c.logger, d.Body, d, handle)
}

func settle(ctx context.Context, logger zerolog.Logger, body []byte, ack acknowledger, handle Handler) {
	e, err := DonationEventFromJSON(body)
	if err != nil {
		logger.Error().Err(err).Msg("dropping malformed event")
		_ = ack.Nack(false, false)
		return
	}
	log := logger.With().Str("action", string(e.Action)).Str("donation_id", e.DonationID).Logger()
	if err := handle(ctx, e); err != nil {
		log.Error().Err(err).Msg("handle event failed, requeueing")
		_ = ack.Nack(false, true)
		return
	}
	_ = ack.Ack(false)
	log.Info().Msg("event processed")
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

var _ Publisher = (*Client)(nil)
