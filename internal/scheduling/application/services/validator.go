package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pipisou/garage/internal/scheduling/domain"
	sharedDomain "github.com/pipisou/garage/internal/shared/domain"
	"github.com/pipisou/garage/pkg/observability"
)

// AssignmentValidator decides whether a mechanic may take a task slot.
//
// Rules run in a fixed order and the first failing rule decides the reason:
// interval sanity, working days and hours (pauses included), absences,
// overlap with committed bookings, then duration against estimate plus
// margin. Each lookup runs only when every earlier rule passed.
//
// ValidateCandidate returns nil to accept, a *domain.Rejection to reject, and
// any other error when a lookup failed.
type AssignmentValidator struct {
	availability domain.AvailabilityProvider
	requirements domain.RequirementProvider
	bookings     domain.CommittedBookingReader
	calendar     sharedDomain.Calendar
	policy       domain.Policy
	logger       *slog.Logger
	metrics      observability.Metrics
}

func NewAssignmentValidator(
	availability domain.AvailabilityProvider,
	requirements domain.RequirementProvider,
	bookings domain.CommittedBookingReader,
	calendar sharedDomain.Calendar,
	policy domain.Policy,
	logger *slog.Logger,
) *AssignmentValidator {
	if logger == nil {
		logger = slog.Default()
	}
	if len(policy.CommittedStatuses) == 0 {
		policy.CommittedStatuses = domain.DefaultCommittedStatuses
	}
	return &AssignmentValidator{
		availability: availability,
		requirements: requirements,
		bookings:     bookings,
		calendar:     calendar,
		policy:       policy,
		logger:       logger,
		metrics:      observability.NoopMetrics{},
	}
}

// WithMetrics reports decisions and validation latency to m.
func (v *AssignmentValidator) WithMetrics(m observability.Metrics) *AssignmentValidator {
	if m != nil {
		v.metrics = m
	}
	return v
}

func (v *AssignmentValidator) Policy() domain.Policy { return v.policy }

func (v *AssignmentValidator) Calendar() sharedDomain.Calendar { return v.calendar }

func (v *AssignmentValidator) ValidateCandidate(ctx context.Context, c domain.Candidate) error {
	start := time.Now()
	err := v.validate(ctx, c)

	outcome := "accepted"
	if rej, ok := domain.AsRejection(err); ok {
		outcome = string(rej.Reason)
		v.logger.DebugContext(ctx, "candidate rejected",
			"slot_id", c.SlotID,
			"mechanic_id", c.MechanicID,
			"reason", rej.Reason,
			"detail", rej.Message,
		)
	} else if err != nil {
		outcome = "error"
	}
	v.metrics.Counter(observability.MetricValidationDecisions, 1, observability.T("outcome", outcome))
	v.metrics.Timing(observability.MetricValidationDuration, time.Since(start))
	return err
}

func (v *AssignmentValidator) validate(ctx context.Context, c domain.Candidate) error {
	interval, err := c.Interval()
	if err != nil {
		return err
	}

	avail, err := v.availability.Availability(ctx, c.MechanicID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Reject(domain.ReasonNotFound, "mechanic %s not found", c.MechanicID)
	}
	if err != nil {
		return fmt.Errorf("load availability of mechanic %s: %w", c.MechanicID, err)
	}

	if err := domain.CheckWorkingHours(v.calendar, avail, interval); err != nil {
		return err
	}
	if err := domain.CheckAbsence(v.calendar, v.policy.Absence, avail, interval); err != nil {
		return err
	}

	committed, err := v.bookings.ListCommitted(ctx, c.MechanicID, v.policy.CommittedStatuses)
	if err != nil {
		return fmt.Errorf("list committed bookings of mechanic %s: %w", c.MechanicID, err)
	}
	if err := domain.CheckOverlap(v.index(c, committed), c, interval); err != nil {
		return err
	}

	req, err := v.requirements.Requirement(ctx, c.TaskID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Reject(domain.ReasonNotFound, "task definition %s not found", c.TaskID)
	}
	if err != nil {
		return fmt.Errorf("load task definition %s: %w", c.TaskID, err)
	}
	return domain.CheckDuration(*req, interval)
}

// index merges the store's committed bookings with the candidate's siblings.
// Stored rows of the candidate's own appointment are replaced by the
// siblings, which reflect edits not yet saved.
func (v *AssignmentValidator) index(c domain.Candidate, committed []domain.Booking) *domain.BookingIndex {
	merged := make([]domain.Booking, 0, len(committed)+len(c.Siblings))
	for _, b := range committed {
		if c.AppointmentID != uuid.Nil && b.AppointmentID == c.AppointmentID {
			continue
		}
		merged = append(merged, b)
	}
	for _, b := range c.Siblings {
		if b.MechanicID == c.MechanicID {
			merged = append(merged, b)
		}
	}
	return domain.NewBookingIndex(merged)
}
