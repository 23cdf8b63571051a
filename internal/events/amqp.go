package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
)

// amqpChannel is the subset of *amqp.Channel the publisher needs.
type amqpChannel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher publishes JSON envelopes to a durable topic exchange.
type AMQPPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  amqpChannel
	exchange string
	logger   zerolog.Logger
	now      func() time.Time
}

var _ Publisher = (*AMQPPublisher)(nil)

// NewAMQPPublisher dials url and declares exchange as a durable topic exchange.
func NewAMQPPublisher(url, exchange string, logger zerolog.Logger) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to AMQP broker: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open AMQP channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	p := newAMQPPublisher(channel, exchange, logger)
	p.conn = conn

	p.logger.Info().Str("exchange", exchange).Msg("AMQP publisher connected")
	return p, nil
}

func newAMQPPublisher(channel amqpChannel, exchange string, logger zerolog.Logger) *AMQPPublisher {
	return &AMQPPublisher{
		channel:  channel,
		exchange: exchange,
		logger:   logger.With().Str("component", "amqp-publisher").Logger(),
		now:      time.Now,
	}
}

// Publish sends payload wrapped in an Envelope with routingKey as both the
// routing key and the envelope type.
func (p *AMQPPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := newEnvelope(routingKey, payload, p.now())
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    env.ID.String(),
		Timestamp:    env.OccurredAt,
		Type:         routingKey,
		Body:         body,
	}

	p.mu.Lock()
	err = p.channel.Publish(p.exchange, routingKey, false, false, msg)
	p.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", routingKey, err)
	}

	p.logger.Debug().
		Str("routing_key", routingKey).
		Str("event_id", env.ID.String()).
		Msg("event published")

	return nil
}

// Close closes the channel and the connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			firstErr = err
		}
		p.channel = nil
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		p.conn = nil
	}
	return firstErr
}
