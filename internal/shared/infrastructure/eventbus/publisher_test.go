package eventbus_test

import (
	"context"
	"testing"

	"github.com/pipisou/garage/internal/shared/infrastructure/eventbus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublisher_None(t *testing.T) {
	pub, err := eventbus.NewPublisher(eventbus.BrokerNone, "", nil)
	require.NoError(t, err)
	assert.IsType(t, &eventbus.NoopPublisher{}, pub)

	require.NoError(t, pub.Publish(context.Background(), "appointments.created", []byte(`{}`)))
	require.NoError(t, pub.Close())
}

func TestNewPublisher_Empty(t *testing.T) {
	pub, err := eventbus.NewPublisher("", "", nil)
	require.NoError(t, err)
	assert.IsType(t, &eventbus.NoopPublisher{}, pub)
}

func TestNewPublisher_Unknown(t *testing.T) {
	_, err := eventbus.NewPublisher("kafka", "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kafka")
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "garage.events.appointments.task.assigned", eventbus.Subject("appointments.task.assigned"))
}
