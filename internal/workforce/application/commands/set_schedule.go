package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	sharedApplication "github.com/pipisou/garage/internal/shared/application"
	sharedDomain "github.com/pipisou/garage/internal/shared/domain"
	"github.com/pipisou/garage/internal/shared/infrastructure/outbox"
	"github.com/pipisou/garage/internal/workforce/domain"
)

// WorkDayInput is one line of a weekly timetable as entered by a user.
// Times are "HH:MM"; the pause is optional.
type WorkDayInput struct {
	Day        string
	Start      string
	End        string
	PauseStart string
	PauseEnd   string
}

// SetScheduleCommand replaces the active work schedule of a mechanic.
type SetScheduleCommand struct {
	ActorID       uuid.UUID
	MechanicID    uuid.UUID
	EffectiveFrom string
	Days          []WorkDayInput
}

type SetScheduleResult struct {
	ScheduleID uuid.UUID
}

type SetScheduleHandler struct {
	mechanicRepo domain.MechanicRepository
	outboxRepo   outbox.Repository
	uow          sharedApplication.UnitOfWork
}

func NewSetScheduleHandler(mechanicRepo domain.MechanicRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *SetScheduleHandler {
	return &SetScheduleHandler{
		mechanicRepo: mechanicRepo,
		outboxRepo:   outboxRepo,
		uow:          uow,
	}
}

func (h *SetScheduleHandler) Handle(ctx context.Context, cmd SetScheduleCommand) (*SetScheduleResult, error) {
	schedule, err := buildSchedule(cmd.EffectiveFrom, cmd.Days)
	if err != nil {
		return nil, err
	}

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		mechanic, err := h.mechanicRepo.FindByID(txCtx, cmd.MechanicID)
		if err != nil {
			return err
		}
		if mechanic == nil {
			return domain.ErrMechanicNotFound
		}

		mechanic.SetSchedule(schedule)
		if err := h.mechanicRepo.Save(txCtx, mechanic); err != nil {
			return err
		}
		return saveEvents(txCtx, h.outboxRepo, cmd.ActorID, mechanic)
	})
	if err != nil {
		return nil, err
	}

	return &SetScheduleResult{ScheduleID: schedule.ID()}, nil
}

func buildSchedule(effectiveFrom string, inputs []WorkDayInput) (*domain.WorkSchedule, error) {
	from, err := sharedDomain.ParseDate(effectiveFrom)
	if err != nil {
		return nil, err
	}

	days := make([]domain.WorkDay, 0, len(inputs))
	for _, in := range inputs {
		day, err := parseWorkDay(in)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return domain.NewWorkSchedule(from, days)
}

func parseWorkDay(in WorkDayInput) (domain.WorkDay, error) {
	weekday, err := domain.ParseWeekday(in.Day)
	if err != nil {
		return domain.WorkDay{}, err
	}
	start, err := sharedDomain.ParseClockTime(in.Start)
	if err != nil {
		return domain.WorkDay{}, fmt.Errorf("%s start: %w", in.Day, err)
	}
	end, err := sharedDomain.ParseClockTime(in.End)
	if err != nil {
		return domain.WorkDay{}, fmt.Errorf("%s end: %w", in.Day, err)
	}

	var pauseStart, pauseEnd *sharedDomain.ClockTime
	if in.PauseStart != "" || in.PauseEnd != "" {
		ps, err := sharedDomain.ParseClockTime(in.PauseStart)
		if err != nil {
			return domain.WorkDay{}, fmt.Errorf("%s pause start: %w", in.Day, err)
		}
		pe, err := sharedDomain.ParseClockTime(in.PauseEnd)
		if err != nil {
			return domain.WorkDay{}, fmt.Errorf("%s pause end: %w", in.Day, err)
		}
		pauseStart, pauseEnd = &ps, &pe
	}
	return domain.NewWorkDay(weekday, start, end, pauseStart, pauseEnd)
}
