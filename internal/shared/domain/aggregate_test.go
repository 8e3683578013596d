package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pipisou/garage/internal/shared/domain"
	"github.com/stretchr/testify/assert"
)

type testEvent struct {
	domain.BaseEvent
}

func TestBaseAggregateRoot_Events(t *testing.T) {
	root := domain.NewBaseAggregateRoot()
	assert.NotEqual(t, uuid.Nil, root.ID())
	assert.Empty(t, root.DomainEvents())

	event := testEvent{BaseEvent: domain.NewBaseEvent(root.ID(), "Test", "test.happened")}
	root.AddDomainEvent(event)

	events := root.DomainEvents()
	assert.Len(t, events, 1)
	assert.Equal(t, "test.happened", events[0].RoutingKey())
	assert.Equal(t, root.ID(), events[0].AggregateID())

	root.ClearDomainEvents()
	assert.Empty(t, root.DomainEvents())
}

func TestBaseAggregateRoot_Version(t *testing.T) {
	entity := domain.RehydrateBaseEntity(uuid.New(), time.Now(), time.Now())
	root := domain.RehydrateBaseAggregateRoot(entity, 3)

	root.IncrementVersion()
	assert.Equal(t, 4, root.Version())
}

func TestBaseEntity_TouchAndIdentity(t *testing.T) {
	id := uuid.New()
	a := domain.NewBaseEntityWithID(id)
	b := domain.NewBaseEntityWithID(id)
	before := a.UpdatedAt()

	time.Sleep(time.Millisecond)
	a.Touch()

	assert.True(t, a.UpdatedAt().After(before))
	assert.True(t, a.SameIdentity(b))
	assert.False(t, a.SameIdentity(domain.NewBaseEntity()))
	assert.False(t, a.SameIdentity(nil))
}

func TestBaseEvent_Metadata(t *testing.T) {
	event := domain.NewBaseEvent(uuid.New(), "Test", "test.happened")
	meta := domain.EventMetadata{CorrelationID: uuid.New(), CausationID: uuid.New(), ActorID: uuid.New()}

	event.SetMetadata(meta)
	assert.Equal(t, meta, event.Metadata())
	assert.NotEqual(t, uuid.Nil, event.EventID())
}
