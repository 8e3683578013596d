package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ExchangeName is the topic exchange every garage event is routed through.
const ExchangeName = "garage.domain.events"

// AppID identifies garage as the producer of a message.
const AppID = "garage"

var errPublisherClosed = errors.New("rabbitmq publisher closed")

// RabbitMQPublisher publishes outbox messages to a durable topic exchange.
// A channel closed by the broker is reopened on the next publish.
type RabbitMQPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   *slog.Logger

	mu     sync.Mutex
	closed bool
}

func NewRabbitMQPublisher(url string, logger *slog.Logger) (*RabbitMQPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	p := &RabbitMQPublisher{conn: conn, exchange: ExchangeName, logger: logger}
	if err := p.openChannel(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	logger.Info("RabbitMQ publisher connected", "exchange", p.exchange)
	return p, nil
}

// openChannel opens a channel and declares the exchange. Callers hold mu
// or own p exclusively.
func (p *RabbitMQPublisher) openChannel() error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(p.exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return fmt.Errorf("failed to declare exchange %s: %w", p.exchange, err)
	}
	p.channel = ch
	return nil
}

// Publish sends payload with the routing key. Correlation and actor ids
// found on ctx are carried as message properties and headers.
func (p *RabbitMQPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return errPublisherClosed
	}
	if p.channel == nil || p.channel.IsClosed() {
		if err := p.openChannel(); err != nil {
			return err
		}
		p.logger.Info("RabbitMQ channel reopened", "exchange", p.exchange)
	}

	headers := headersFromContext(ctx, routingKey)
	table := make(amqp.Table, len(headers))
	for k, v := range headers {
		table[k] = v
	}

	msg := amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		Timestamp:     time.Now().UTC(),
		AppId:         AppID,
		Type:          routingKey,
		CorrelationId: headers[HeaderCorrelationID],
		Headers:       table,
		Body:          payload,
	}
	if err := p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg); err != nil {
		p.logger.Error("failed to publish message",
			"routing_key", routingKey,
			"correlation_id", msg.CorrelationId,
			"error", err,
		)
		return err
	}

	p.logger.Debug("message published",
		"routing_key", routingKey,
		"correlation_id", msg.CorrelationId,
		"size", len(payload),
	)
	return nil
}

func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	if p.channel != nil && !p.channel.IsClosed() {
		if err := p.channel.Close(); err != nil {
			p.logger.Warn("error closing channel", "error", err)
		}
	}
	if err := p.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		return err
	}

	p.logger.Info("RabbitMQ publisher closed")
	return nil
}

// NoopPublisher drops every message. Used when EVENT_BROKER=none or when a
// development broker is unreachable.
type NoopPublisher struct {
	logger *slog.Logger
}

func NewNoopPublisher(logger *slog.Logger) *NoopPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopPublisher{logger: logger}
}

func (p *NoopPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	p.logger.DebugContext(ctx, "noop publish", "routing_key", routingKey, "size", len(payload))
	return nil
}

func (p *NoopPublisher) Close() error {
	return nil
}
