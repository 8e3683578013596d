package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pipisou/garage/internal/scheduling/domain"
)

type mockAvailability struct {
	mock.Mock
}

func (m *mockAvailability) Availability(ctx context.Context, mechanicID uuid.UUID) (*domain.Availability, error) {
	args := m.Called(ctx, mechanicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Availability), args.Error(1)
}

type mockRequirements struct {
	mock.Mock
}

func (m *mockRequirements) Requirement(ctx context.Context, taskID uuid.UUID) (*domain.TaskRequirement, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaskRequirement), args.Error(1)
}

type mockBookings struct {
	mock.Mock
}

func (m *mockBookings) ListCommitted(ctx context.Context, mechanicID uuid.UUID, statuses []string) ([]domain.Booking, error) {
	args := m.Called(ctx, mechanicID, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}
