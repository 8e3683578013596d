package eventbus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pipisou/garage/pkg/observability"
)

func TestHeadersFromContext(t *testing.T) {
	ctx := observability.WithCorrelationID(context.Background(), "corr-1")
	ctx = observability.WithActorID(ctx, "actor-1")

	h := headersFromContext(ctx, "appointments.created")
	assert.Equal(t, map[string]string{
		HeaderRoutingKey:    "appointments.created",
		HeaderCorrelationID: "corr-1",
		HeaderActorID:       "actor-1",
	}, h)

	h = headersFromContext(context.Background(), "appointments.created")
	assert.Len(t, h, 1)
}
