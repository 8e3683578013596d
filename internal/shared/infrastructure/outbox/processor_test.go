package outbox_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pipisou/garage/internal/shared/domain"
	"github.com/pipisou/garage/internal/shared/infrastructure/outbox"
	"github.com/pipisou/garage/pkg/observability"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	args := m.Called(ctx, routingKey, payload)
	return args.Error(0)
}

func (m *mockPublisher) Close() error {
	return m.Called().Error(0)
}

func seed(t *testing.T, repo outbox.Repository, n int) []*outbox.Message {
	t.Helper()
	msgs := make([]*outbox.Message, 0, n)
	for i := 0; i < n; i++ {
		msg, err := outbox.NewMessage(newSlotAssigned())
		require.NoError(t, err)
		msgs = append(msgs, msg)
	}
	require.NoError(t, repo.SaveBatch(context.Background(), msgs))
	return msgs
}

func TestProcessor_ProcessOnce_PublishesAndMarks(t *testing.T) {
	repo := outbox.NewInMemoryRepository()
	seed(t, repo, 2)

	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, "appointments.task.assigned", mock.Anything).Return(nil).Twice()

	metrics := observability.NewInMemoryMetrics()
	p := outbox.NewProcessor(repo, pub, outbox.DefaultProcessorConfig(), nil).WithMetrics(metrics)

	require.NoError(t, p.ProcessOnce(context.Background()))

	for _, msg := range repo.Messages() {
		assert.True(t, msg.IsPublished())
	}
	stats := p.GetStats()
	assert.Equal(t, uint64(2), stats.PublishedCount)
	assert.Equal(t, int64(2), metrics.GetCounter(observability.MetricEventsPublished,
		observability.T("routing_key", "appointments.task.assigned")))
	pub.AssertExpectations(t)
}

func TestProcessor_PropagatesEventMetadataToContext(t *testing.T) {
	repo := outbox.NewInMemoryRepository()
	correlation, actor := uuid.New(), uuid.New()
	event := newSlotAssigned()
	event.SetMetadata(domain.EventMetadata{CorrelationID: correlation, ActorID: actor})
	msg, err := outbox.NewMessage(event)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), msg))

	pub := new(mockPublisher)
	pub.On("Publish", mock.MatchedBy(func(ctx context.Context) bool {
		return observability.CorrelationIDFromContext(ctx) == correlation.String() &&
			observability.ActorIDFromContext(ctx) == actor.String()
	}), "appointments.task.assigned", mock.Anything).Return(nil).Once()

	p := outbox.NewProcessor(repo, pub, outbox.DefaultProcessorConfig(), nil)
	require.NoError(t, p.ProcessOnce(context.Background()))

	assert.True(t, repo.Messages()[0].IsPublished())
	pub.AssertExpectations(t)
}

func TestProcessor_PublishFailureSchedulesRetry(t *testing.T) {
	repo := outbox.NewInMemoryRepository()
	seed(t, repo, 1)

	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down"))

	cfg := outbox.DefaultProcessorConfig()
	cfg.MaxRetries = 3
	cfg.RetryBackoffBase = time.Hour
	cfg.RetryBackoffMax = 2 * time.Hour
	p := outbox.NewProcessor(repo, pub, cfg, nil)

	before := time.Now()
	require.NoError(t, p.ProcessOnce(context.Background()))

	msg := repo.Messages()[0]
	assert.False(t, msg.IsPublished())
	assert.Equal(t, 1, msg.RetryCount)
	require.NotNil(t, msg.LastError)
	assert.Equal(t, "broker down", *msg.LastError)
	require.NotNil(t, msg.NextRetryAt)
	assert.True(t, msg.NextRetryAt.After(before.Add(59*time.Minute)))

	// Not due yet, so the second pass publishes nothing.
	require.NoError(t, p.ProcessOnce(context.Background()))
	pub.AssertNumberOfCalls(t, "Publish", 1)
	assert.Equal(t, uint64(1), p.GetStats().FailedCount)
}

func TestProcessor_DeadLettersAfterMaxRetries(t *testing.T) {
	repo := outbox.NewInMemoryRepository()
	msgs := seed(t, repo, 1)
	msgs[0].RetryCount = 2

	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("rejected"))

	cfg := outbox.DefaultProcessorConfig()
	cfg.MaxRetries = 3
	p := outbox.NewProcessor(repo, pub, cfg, nil)

	require.NoError(t, p.ProcessOnce(context.Background()))

	msg := repo.Messages()[0]
	require.NotNil(t, msg.DeadLetteredAt)
	assert.Equal(t, "rejected", *msg.DeadLetterReason)
	assert.Equal(t, uint64(1), p.GetStats().DeadCount)

	require.NoError(t, p.ProcessOnce(context.Background()))
	pub.AssertNumberOfCalls(t, "Publish", 1)
}

func TestProcessor_StartStop(t *testing.T) {
	repo := outbox.NewInMemoryRepository()
	seed(t, repo, 1)

	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	cfg := outbox.DefaultProcessorConfig()
	cfg.PollInterval = 5 * time.Millisecond
	p := outbox.NewProcessor(repo, pub, cfg, nil)

	require.NoError(t, p.Start(context.Background()))
	require.NoError(t, p.Start(context.Background()))
	assert.True(t, p.IsRunning())

	assert.Eventually(t, func() bool {
		return repo.Messages()[0].IsPublished()
	}, time.Second, 5*time.Millisecond)

	p.Stop()
	p.Stop()
	assert.False(t, p.IsRunning())
}
