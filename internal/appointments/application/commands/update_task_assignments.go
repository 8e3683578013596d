package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pipisou/garage/internal/appointments/domain"
	scheduling "github.com/pipisou/garage/internal/scheduling/domain"
	sharedApplication "github.com/pipisou/garage/internal/shared/application"
	"github.com/pipisou/garage/internal/shared/infrastructure/outbox"
	"github.com/pipisou/garage/pkg/observability"
)

// CandidateValidator checks one proposed slot assignment.
type CandidateValidator interface {
	ValidateCandidate(ctx context.Context, c scheduling.Candidate) error
	Policy() scheduling.Policy
}

// SlotUpdate is a partial update of one slot. Nil fields keep their value.
type SlotUpdate struct {
	SlotID     uuid.UUID
	MechanicID *uuid.UUID
	Start      *time.Time
	End        *time.Time
}

type UpdateTaskAssignmentsCommand struct {
	ActorID       uuid.UUID
	AppointmentID uuid.UUID
	Updates       []SlotUpdate
}

// SlotResult reports what happened to one update. Reason is empty when
// the update was applied.
type SlotResult struct {
	SlotID    uuid.UUID
	Applied   bool
	Validated bool
	Reason    scheduling.Reason
	Message   string
}

type UpdateTaskAssignmentsResult struct {
	Appointment *domain.Appointment
	Slots       []SlotResult
	// Committed is false when the all-or-nothing policy discarded the request.
	Committed bool
}

// Rejected reports whether any slot was refused.
func (r *UpdateTaskAssignmentsResult) Rejected() bool {
	for _, s := range r.Slots {
		if !s.Applied {
			return true
		}
	}
	return false
}

// errBatchRejected unwinds the unit of work under the all-or-nothing policy.
var errBatchRejected = errors.New("batch rejected")

// UpdateTaskAssignmentsHandler schedules task slots of one appointment.
//
// Every mechanic touched by the request is locked, in a stable order, for the
// whole read-validate-write sequence, and the sequence runs in one unit of
// work. Each slot is checked against the other slots of the appointment as
// already updated by earlier entries of the same request. Every validation
// decision is written to the attempts log once the unit of work ends.
type UpdateTaskAssignmentsHandler struct {
	appointmentRepo domain.Repository
	validator       CandidateValidator
	locker          scheduling.MechanicLocker
	attempts        scheduling.AttemptRepository
	outboxRepo      outbox.Repository
	uow             sharedApplication.UnitOfWork
	logger          *slog.Logger
	metrics         observability.Metrics
}

func NewUpdateTaskAssignmentsHandler(
	appointmentRepo domain.Repository,
	validator CandidateValidator,
	locker scheduling.MechanicLocker,
	attempts scheduling.AttemptRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	logger *slog.Logger,
) *UpdateTaskAssignmentsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UpdateTaskAssignmentsHandler{
		appointmentRepo: appointmentRepo,
		validator:       validator,
		locker:          locker,
		attempts:        attempts,
		outboxRepo:      outboxRepo,
		uow:             uow,
		logger:          logger,
		metrics:         observability.NoopMetrics{},
	}
}

func (h *UpdateTaskAssignmentsHandler) WithMetrics(m observability.Metrics) *UpdateTaskAssignmentsHandler {
	if m != nil {
		h.metrics = m
	}
	return h
}

func (h *UpdateTaskAssignmentsHandler) Handle(ctx context.Context, cmd UpdateTaskAssignmentsCommand) (*UpdateTaskAssignmentsResult, error) {
	timer := observability.StartTimer("update_task_assignments").
		WithLogger(h.logger).
		WithMetrics(h.metrics).
		WithTags(observability.T("policy", string(h.validator.Policy().Batch)))
	result, err := h.handle(ctx, cmd)
	timer.StopWithError(err)
	return result, err
}

func (h *UpdateTaskAssignmentsHandler) handle(ctx context.Context, cmd UpdateTaskAssignmentsCommand) (*UpdateTaskAssignmentsResult, error) {
	current, err := h.appointmentRepo.FindByID(ctx, cmd.AppointmentID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrAppointmentNotFound
	}

	mechanics := lockSet(current, cmd.Updates)
	release, err := h.locker.Lock(ctx, mechanics)
	if err != nil {
		return nil, fmt.Errorf("lock mechanics: %w", err)
	}
	defer release()

	locked := make(map[uuid.UUID]bool, len(mechanics))
	for _, id := range mechanics {
		locked[id] = true
	}

	var (
		result   *UpdateTaskAssignmentsResult
		attempts []scheduling.AssignmentAttempt
		policy   = h.validator.Policy()
	)
	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		appointment, err := h.appointmentRepo.FindByID(txCtx, cmd.AppointmentID)
		if err != nil {
			return err
		}
		if appointment == nil {
			return domain.ErrAppointmentNotFound
		}

		result = &UpdateTaskAssignmentsResult{Appointment: appointment, Committed: true}
		applied := 0
		for _, u := range cmd.Updates {
			slot, attempt, err := h.processSlot(txCtx, appointment, u, locked)
			if err != nil {
				return err
			}
			if attempt != nil {
				attempts = append(attempts, *attempt)
			}
			result.Slots = append(result.Slots, slot)
			if slot.Applied {
				applied++
			} else if policy.Batch == scheduling.BatchAllOrNothing {
				return errBatchRejected
			}
		}

		if applied == 0 {
			return nil
		}
		if err := h.appointmentRepo.Save(txCtx, appointment); err != nil {
			return err
		}
		return saveEvents(txCtx, h.outboxRepo, cmd.ActorID, appointment)
	})

	if errors.Is(err, errBatchRejected) {
		result.Committed = false
		for i := range result.Slots {
			result.Slots[i].Applied = false
		}
		result.Appointment = current
		err = nil
	}
	h.recordAttempts(ctx, attempts)
	if err != nil {
		return nil, err
	}

	assigned := 0
	for _, s := range result.Slots {
		if s.Applied && s.Validated {
			assigned++
		}
	}
	if assigned > 0 && result.Committed {
		h.metrics.Counter(observability.MetricSlotsAssigned, int64(assigned))
	}
	h.logger.InfoContext(ctx, "task assignments updated",
		"appointment_id", cmd.AppointmentID,
		"slots", len(result.Slots),
		"assigned", assigned,
		"committed", result.Committed,
	)
	return result, nil
}

// processSlot validates and applies one update. A rejection is returned in
// the SlotResult; the error is reserved for failures that abort the request.
func (h *UpdateTaskAssignmentsHandler) processSlot(
	ctx context.Context,
	appointment *domain.Appointment,
	u SlotUpdate,
	locked map[uuid.UUID]bool,
) (SlotResult, *scheduling.AssignmentAttempt, error) {
	patch := domain.SlotPatch{SlotID: u.SlotID, MechanicID: u.MechanicID, Start: u.Start, End: u.End}
	res := SlotResult{SlotID: u.SlotID}

	next, err := appointment.PreviewSlot(patch)
	if errors.Is(err, domain.ErrSlotNotFound) {
		res.Reason = scheduling.ReasonNotFound
		res.Message = err.Error()
		return res, nil, nil
	}
	if err != nil {
		return res, nil, err
	}

	// A slot still missing its mechanic or a bound has nothing to check yet.
	if !patch.TouchesSchedule() || !next.IsScheduled() {
		if err := appointment.ApplySlot(patch); err != nil {
			return res, nil, err
		}
		res.Applied = true
		return res, nil, nil
	}

	if !locked[*next.MechanicID] {
		return res, nil, fmt.Errorf("%w: slot %s moved to mechanic %s", domain.ErrConcurrentModification, u.SlotID, *next.MechanicID)
	}

	candidate := scheduling.Candidate{
		AppointmentID: appointment.ID(),
		SlotID:        next.SlotID,
		MechanicID:    *next.MechanicID,
		TaskID:        next.TaskID,
		Start:         *next.Start,
		End:           *next.End,
		Siblings:      siblingBookings(appointment, next.SlotID),
	}
	err = h.validator.ValidateCandidate(ctx, candidate)
	rejection, rejected := scheduling.AsRejection(err)
	if err != nil && !rejected {
		return res, nil, err
	}
	attempt := scheduling.NewAssignmentAttempt(candidate, rejection)
	res.Validated = true
	if rejected {
		res.Reason = rejection.Reason
		res.Message = rejection.Message
		return res, &attempt, nil
	}

	if err := appointment.ApplySlot(patch); err != nil {
		return res, nil, err
	}
	res.Applied = true
	return res, &attempt, nil
}

func (h *UpdateTaskAssignmentsHandler) recordAttempts(ctx context.Context, attempts []scheduling.AssignmentAttempt) {
	for _, a := range attempts {
		if err := h.attempts.Create(ctx, a); err != nil {
			h.logger.WarnContext(ctx, "failed to record assignment attempt",
				"slot_id", a.SlotID,
				"error", err,
			)
		}
	}
}

// siblingBookings returns the scheduled slots of the appointment other than
// slotID, as they stand in memory.
func siblingBookings(a *domain.Appointment, slotID uuid.UUID) []scheduling.Booking {
	slots := a.ScheduledSlots(slotID)
	out := make([]scheduling.Booking, 0, len(slots))
	for _, s := range slots {
		interval, _ := s.Interval()
		out = append(out, scheduling.Booking{
			AppointmentID: a.ID(),
			SlotID:        s.SlotID,
			MechanicID:    *s.MechanicID,
			Interval:      interval,
		})
	}
	return out
}

// lockSet lists the mechanics an update can book: the one named by each
// update, or the slot's current mechanic when the update keeps it.
func lockSet(a *domain.Appointment, updates []SlotUpdate) []uuid.UUID {
	var ids []uuid.UUID
	for _, u := range updates {
		if u.MechanicID != nil {
			ids = append(ids, *u.MechanicID)
			continue
		}
		if slot, ok := a.Slot(u.SlotID); ok && slot.MechanicID != nil {
			ids = append(ids, *slot.MechanicID)
		}
	}
	return ids
}
