package eventbus

import (
	"context"

	"github.com/pipisou/garage/pkg/observability"
)

// Header names shared by every broker.
const (
	HeaderCorrelationID = "Correlation-Id"
	HeaderActorID       = "Actor-Id"
	HeaderRoutingKey    = "Routing-Key"
)

// headersFromContext collects the tracing headers the outbox put on ctx.
// Empty values are left out.
func headersFromContext(ctx context.Context, routingKey string) map[string]string {
	h := map[string]string{HeaderRoutingKey: routingKey}
	if id := observability.CorrelationIDFromContext(ctx); id != "" {
		h[HeaderCorrelationID] = id
	}
	if id := observability.ActorIDFromContext(ctx); id != "" {
		h[HeaderActorID] = id
	}
	return h
}
