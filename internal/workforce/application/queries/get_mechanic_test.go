package queries

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	sharedDomain "github.com/pipisou/garage/internal/shared/domain"
	"github.com/pipisou/garage/internal/workforce/domain"
)

type mockMechanicRepo struct {
	mock.Mock
}

func (m *mockMechanicRepo) Save(ctx context.Context, mechanic *domain.Mechanic) error {
	return m.Called(ctx, mechanic).Error(0)
}

func (m *mockMechanicRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Mechanic, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Mechanic), args.Error(1)
}

func (m *mockMechanicRepo) List(ctx context.Context) ([]*domain.Mechanic, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Mechanic), args.Error(1)
}

func TestGetMechanicHandler_Handle(t *testing.T) {
	ctx := context.Background()

	mechanic, _ := domain.NewMechanic("Jane", "Doe", "jane@example.com")
	ps, pe := sharedDomain.MustClockTime(12, 0), sharedDomain.MustClockTime(13, 0)
	mon, _ := domain.NewWorkDay(time.Monday, sharedDomain.MustClockTime(8, 0), sharedDomain.MustClockTime(17, 0), &ps, &pe)
	from, _ := sharedDomain.ParseDate("2024-06-01")
	s, _ := domain.NewWorkSchedule(from, []domain.WorkDay{mon})
	mechanic.SetSchedule(s)

	repo := new(mockMechanicRepo)
	repo.On("FindByID", ctx, mechanic.ID()).Return(mechanic, nil)

	dto, err := NewGetMechanicHandler(repo).Handle(ctx, GetMechanicQuery{MechanicID: mechanic.ID()})
	require.NoError(t, err)
	assert.Equal(t, "Jane", dto.FirstName)
	require.NotNil(t, dto.Schedule)
	assert.Equal(t, "2024-06-01", dto.Schedule.EffectiveFrom)
	require.Len(t, dto.Schedule.Days, 1)
	assert.Equal(t, WorkDayDTO{Day: "Monday", Start: "08:00", End: "17:00", PauseStart: "12:00", PauseEnd: "13:00"}, dto.Schedule.Days[0])

	missing := uuid.New()
	repo.On("FindByID", ctx, missing).Return(nil, nil)
	_, err = NewGetMechanicHandler(repo).Handle(ctx, GetMechanicQuery{MechanicID: missing})
	assert.ErrorIs(t, err, domain.ErrMechanicNotFound)
}

func TestListMechanicsHandler_Handle(t *testing.T) {
	ctx := context.Background()
	a, _ := domain.NewMechanic("Ann", "Abe", "")
	b, _ := domain.NewMechanic("Bob", "Bell", "")

	repo := new(mockMechanicRepo)
	repo.On("List", ctx).Return([]*domain.Mechanic{a, b}, nil)

	dtos, err := NewListMechanicsHandler(repo).Handle(ctx)
	require.NoError(t, err)
	require.Len(t, dtos, 2)
	assert.Nil(t, dtos[0].Schedule)
	assert.Equal(t, b.ID(), dtos[1].ID)
}
