package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// SubjectPrefix is prepended to the routing key to form the NATS subject.
const SubjectPrefix = "garage.events."

// NATSPublisher publishes events as core NATS messages.
type NATSPublisher struct {
	conn   *nats.Conn
	logger *slog.Logger
}

// NewNATSPublisher connects to the NATS server at url.
func NewNATSPublisher(url string, logger *slog.Logger) (*NATSPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if url == "" {
		url = nats.DefaultURL
	}

	conn, err := nats.Connect(url,
		nats.Name("garage-outbox"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	logger.Info("NATS publisher connected", "url", conn.ConnectedUrl())
	return &NATSPublisher{conn: conn, logger: logger}, nil
}

// Subject maps a routing key to its NATS subject.
func Subject(routingKey string) string {
	return SubjectPrefix + routingKey
}

func (p *NATSPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := nats.NewMsg(Subject(routingKey))
	msg.Header.Set("Content-Type", "application/json")
	for k, v := range headersFromContext(ctx, routingKey) {
		msg.Header.Set(k, v)
	}
	msg.Data = payload

	if err := p.conn.PublishMsg(msg); err != nil {
		p.logger.Error("failed to publish message",
			"subject", msg.Subject,
			"error", err,
		)
		return err
	}

	p.logger.Debug("message published", "subject", msg.Subject, "size", len(payload))
	return nil
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	if err := p.conn.Flush(); err != nil {
		p.logger.Warn("error flushing NATS connection", "error", err)
	}
	p.conn.Close()
	p.logger.Info("NATS publisher closed")
	return nil
}
