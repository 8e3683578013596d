package eventbus

import (
	"context"
	"fmt"
	"log/slog"
)

// Publisher sends serialised domain events to a message broker.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload []byte) error
	Close() error
}

// Broker names accepted by NewPublisher.
const (
	BrokerRabbitMQ = "rabbitmq"
	BrokerNATS     = "nats"
	BrokerNone     = "none"
)

// NewPublisher connects to the named broker. url is ignored for BrokerNone.
func NewPublisher(broker, url string, logger *slog.Logger) (Publisher, error) {
	switch broker {
	case BrokerRabbitMQ:
		return NewRabbitMQPublisher(url, logger)
	case BrokerNATS:
		return NewNATSPublisher(url, logger)
	case BrokerNone, "":
		return NewNoopPublisher(logger), nil
	default:
		return nil, fmt.Errorf("unknown event broker %q", broker)
	}
}
